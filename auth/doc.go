// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies the platform's request signatures.

Incoming webhooks carry an HMAC-SHA256 signature over the raw body and a
timestamp header; Verify recomputes it with the shared signing secret
and rejects stale or forged requests. Sign exists so tests and outbound
callbacks can produce valid signatures.
*/
package auth
