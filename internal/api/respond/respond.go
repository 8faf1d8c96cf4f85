// Package respond writes JSON responses and decodes JSON request bodies for
// the HTTP handlers.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/d9705996/ideaportal/internal/apperr"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// Fail maps err onto a status code. Classified errors carry their own
// message; anything else is logged and reported as fallback with a 500.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, fallback string) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.ErrorContext(r.Context(), fallback,
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		Error(w, status, fallback)
		return
	}
	Error(w, status, apperr.Message(err, fallback))
}

// Decode reads exactly one JSON value from the body into dst. Unknown
// fields, trailing data and oversized bodies are validation errors.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is empty")
		case errors.As(err, &tooLarge):
			return apperr.Validation("request body exceeds %d bytes", tooLarge.Limit)
		default:
			return apperr.Validation("invalid JSON body: %s", err.Error())
		}
	}
	if dec.More() {
		return apperr.Validation("request body must contain a single JSON value")
	}
	return nil
}

// PathID parses the {name} wildcard as a positive integer id.
func PathID(r *http.Request, name string) (uint, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 || strings.HasPrefix(raw, "0") {
		return 0, apperr.Validation("invalid %s %q", name, raw)
	}
	return uint(id), nil
}
