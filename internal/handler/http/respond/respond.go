// Package respond writes JSON responses and keeps infrastructure error
// details out of what clients see.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// JSON writes v as a JSON body with the given status code. A nil v sends
// headers only.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers already sent, can only log.
		slog.Default().Error("failed to encode JSON response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

// Error writes the error message verbatim as {"error": ...}.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// safeMarkers are substrings of validation-style messages that may be shown
// to clients as-is. Anything else is assumed to describe infrastructure.
var safeMarkers = []string{
	"required",
	"invalid",
	"not found",
	"already exists",
	"must be",
	"cannot be",
	"too long",
	"too short",
	"not supported",
}

func isSafeMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range safeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// SafeError writes validation-style errors verbatim and masks everything
// else as "internal server error", logging the sanitized original. A 5xx
// code is always masked regardless of message.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	if code < 500 && isSafeMessage(msg) {
		JSON(w, code, map[string]string{"error": msg})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}
