package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/d9705996/ideaportal/internal/metrics"
	"github.com/google/uuid"
)

const requestIDKey contextKey = "request_id"

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID returns the request id stored by RequestLogger, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestLogger tags each request with an id (reusing a well-formed inbound
// X-Request-ID) and logs it once on completion.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(reqID); err != nil {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			ctx := context.WithValue(r.Context(), requestIDKey, reqID)
			ww := &metrics.StatusWriter{ResponseWriter: w, Status: http.StatusOK}
			start := time.Now()

			// ServeMux records the matched pattern on the request it is handed.
			req := r.WithContext(ctx)
			next.ServeHTTP(ww, req)
			pattern := req.Pattern
			if pattern == "" {
				pattern = "unmatched"
			}

			level := slog.LevelInfo
			if ww.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			log.LogAttrs(ctx, level, "request completed",
				slog.String("request_id", reqID),
				slog.String("method", r.Method),
				slog.String("pattern", pattern),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
