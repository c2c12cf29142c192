// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

var (
	ErrBadSignature = errors.New("request signature mismatch")
	ErrStaleRequest = errors.New("request timestamp too old")
)

// MaxSkew is how far a request timestamp may drift from the server clock
// before the request is rejected as a possible replay.
const MaxSkew = 5 * time.Minute

const signatureVersion = "v0"

// Sign computes the versioned HMAC-SHA256 signature over a request body
// and its unix timestamp.
func Sign(secret, timestamp string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(signatureVersion + ":" + timestamp + ":"))
	h.Write(body)
	return signatureVersion + "=" + hex.EncodeToString(h.Sum(nil))
}

// Verify checks a request's signature header against the shared signing
// secret. The comparison is constant time and the timestamp must be
// within MaxSkew of now to defeat replays.
func Verify(secret, timestamp, signature string, body []byte, now time.Time) error {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrStaleRequest
	}
	drift := now.Sub(time.Unix(ts, 0))
	if drift < -MaxSkew || drift > MaxSkew {
		return ErrStaleRequest
	}

	expected := Sign(secret, timestamp, body)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrBadSignature
	}
	return nil
}
