package metrics

import (
	"net/http"
	"strconv"
	"time"
)

// HTTPMiddleware instruments requests with Prometheus metrics. Requests are
// labelled by the ServeMux pattern that matched, not the raw path, to keep
// label cardinality bounded.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &StatusWriter{ResponseWriter: w, Status: http.StatusOK}
		next.ServeHTTP(ww, r)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		ObserveHTTPRequest(r.Method, route, strconv.Itoa(ww.Status), time.Since(start))
	})
}

// StatusWriter remembers the status code written through it.
type StatusWriter struct {
	http.ResponseWriter
	Status int
}

// WriteHeader records code before delegating.
func (w *StatusWriter) WriteHeader(code int) {
	w.Status = code
	w.ResponseWriter.WriteHeader(code)
}
