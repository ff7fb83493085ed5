package metrics

import (
	"net/http"
	"strconv"
	"time"
)

// HTTPMiddleware records a counter and latency observation per request.
// Status codes are collapsed to their class (2xx, 4xx, ...) to keep label
// cardinality bounded.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		HTTPRequests.WithLabelValues(r.Method, statusClass(rw.status)).Inc()
		HTTPDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

type statusWriter struct {
	http.ResponseWriter

	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
