// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fault

import (
	"errors"
	"fmt"
)

// Storage-level sentinels. The store implementations return these; services
// either translate them into user-visible failures or retry.
var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")
	ErrAlreadyExists   = errors.New("already exists")
)

// ValidationError reports bad user input. No mutation was performed and the
// message is surfaced verbatim, tagged with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Invalid builds a field-tagged ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a business-rule collision: a date already booked, a
// video already scheduled elsewhere, and so on. No mutation was performed.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Conflict builds a ConflictError.
func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// AlreadyAssignedError reports that a plan already has an owner. The caller
// surfaces the current owner without mutating.
type AlreadyAssignedError struct {
	Owner string
}

func (e *AlreadyAssignedError) Error() string {
	return "plan already has an owner: " + e.Owner
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsConflict reports whether err is a user-visible conflict: a business-rule
// collision, an already-assigned owner, or a missing referenced entity.
func IsConflict(err error) bool {
	var c *ConflictError
	var a *AlreadyAssignedError
	return errors.As(err, &c) || errors.As(err, &a) || errors.Is(err, ErrNotFound)
}
