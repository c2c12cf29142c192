// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/lunch-watch/auth"
	"github.com/danielhkuo/lunch-watch/fault"
	"github.com/danielhkuo/lunch-watch/models"
)

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		next(w, r)

		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// WithSignature rejects requests whose platform signature headers do not
// verify against the signing secret. The body is re-buffered so the next
// handler can still read it.
func WithSignature(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			ErrorResponse(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		ts := r.Header.Get("X-Slack-Request-Timestamp")
		sig := r.Header.Get("X-Slack-Signature")
		if err := auth.Verify(secret, ts, sig, body, time.Now()); err != nil {
			slog.Warn("rejected unsigned request", "path", r.URL.Path, "error", err)
			ErrorResponse(w, http.StatusUnauthorized, "invalid request signature")
			return
		}

		next(w, r)
	}
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// Fail maps a workflow error onto the HTTP surface: validation failures
// become 422 with the offending field, business conflicts 409, missing
// entities 404, and anything unrecognized a generic 500 so internals
// never leak to the caller.
func Fail(w http.ResponseWriter, err error) {
	var ve *fault.ValidationError
	if errors.As(err, &ve) {
		JSONResponse(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   http.StatusText(http.StatusUnprocessableEntity),
			Message: ve.Message,
			Field:   ve.Field,
		})
		return
	}

	var ae *fault.AlreadyAssignedError
	if errors.As(err, &ae) {
		ErrorResponse(w, http.StatusConflict, ae.Error())
		return
	}

	var ce *fault.ConflictError
	if errors.As(err, &ce) {
		ErrorResponse(w, http.StatusConflict, ce.Message)
		return
	}

	switch {
	case errors.Is(err, fault.ErrNotFound):
		ErrorResponse(w, http.StatusNotFound, "not found")
	case errors.Is(err, fault.ErrVersionConflict), errors.Is(err, fault.ErrAlreadyExists):
		ErrorResponse(w, http.StatusConflict, "the record changed underneath you, try again")
	default:
		slog.Error("request failed", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "internal error")
	}
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}
