// Package respond writes JSON responses and sanitised error bodies.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// headers are already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes err's message as a JSON error body.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, ErrorBody{Error: err.Error()})
}

// FieldError writes a JSON error body naming the offending field.
func FieldError(w http.ResponseWriter, code int, field string, err error) {
	JSON(w, code, ErrorBody{Error: SanitizeError(err), Field: field})
}

// safeFragments mark messages that describe a client mistake and may be
// returned verbatim.
var safeFragments = []string{
	"validation error",
	"type mismatch",
	"immutable",
	"not found",
	"invalid",
	"required",
	"must be",
	"must not",
}

// SafeError returns err's message for client errors that are known to be
// safe, and a generic message otherwise. 5xx details are only logged.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := SanitizeError(err)
	if code < http.StatusInternalServerError && isSafe(msg) {
		JSON(w, code, ErrorBody{Error: msg})
		return
	}

	slog.Default().Error("request failed",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", msg))
	generic := "internal server error"
	if code < http.StatusInternalServerError {
		generic = strings.ToLower(http.StatusText(code))
	}
	JSON(w, code, ErrorBody{Error: generic})
}

func isSafe(msg string) bool {
	lower := strings.ToLower(msg)
	for _, s := range safeFragments {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
