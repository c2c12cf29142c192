// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package router wires the HTTP endpoints to their handlers and
// middleware. Platform-originated endpoints are signature-verified; the
// OAuth redirect and health check are open.
package router
