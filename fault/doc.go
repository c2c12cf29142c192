// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package fault defines the error taxonomy shared by the workflow services
and the HTTP layer.

  - ValidationError: bad input, surfaced verbatim with a field tag
  - ConflictError: business-rule collision, surfaced to the user
  - AlreadyAssignedError: volunteer raced an existing owner
  - ErrNotFound, ErrVersionConflict, ErrAlreadyExists: storage sentinels

Services wrap storage sentinels with context using fmt.Errorf and %w. The
HTTP layer maps the taxonomy to status codes in one place (middleware.Fail);
anything outside the taxonomy becomes a generic "something went wrong"
response that never exposes storage internals.
*/
package fault
