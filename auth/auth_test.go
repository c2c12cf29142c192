// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte(`{"team":"T1","channel":"C1"}`)

	sig := Sign("secret", ts, body)
	if err := Verify("secret", ts, sig, body, now); err != nil {
		t.Fatalf("Valid signature rejected: %v", err)
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	ts := strconv.FormatInt(now.Unix(), 10)

	sig := Sign("secret", ts, []byte("original"))
	err := Verify("secret", ts, sig, []byte("tampered"), now)
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("Got %v, want ErrBadSignature", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte("payload")

	sig := Sign("secret", ts, body)
	err := Verify("other-secret", ts, sig, body, now)
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("Got %v, want ErrBadSignature", err)
	}
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	body := []byte("payload")

	tests := []struct {
		name string
		ts   string
	}{
		{"too old", strconv.FormatInt(now.Add(-6*time.Minute).Unix(), 10)},
		{"too far in the future", strconv.FormatInt(now.Add(6*time.Minute).Unix(), 10)},
		{"not a number", "yesterday"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Sign("secret", tt.ts, body)
			err := Verify("secret", tt.ts, sig, body, now)
			if !errors.Is(err, ErrStaleRequest) {
				t.Fatalf("Got %v, want ErrStaleRequest", err)
			}
		})
	}
}

func TestVerifyAcceptsSmallSkew(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	ts := strconv.FormatInt(now.Add(-4*time.Minute).Unix(), 10)
	body := []byte("payload")

	sig := Sign("secret", ts, body)
	if err := Verify("secret", ts, sig, body, now); err != nil {
		t.Fatalf("Signature within skew rejected: %v", err)
	}
}
