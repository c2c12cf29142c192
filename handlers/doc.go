// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP surface of the workflow.

Handlers stay thin: parse and sanity-check the request, call the owning
service, translate the error through middleware.Fail, and fire the
channel notification. Business rules live in the proposals, plans and
votes packages; nothing here touches the store directly except read-only
lookups for message rendering.
*/
package handlers
