package api

import (
	"net/http"
	"time"
)

// RequestLogger wraps a handler and logs method, path, status and
// duration for every request it serves.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(rw, r)
		if rw.statusCode >= 400 {
			LogError("%s %s -> %d (%v)", r.Method, r.URL.Path, rw.statusCode, time.Since(start))
		} else {
			LogInfo("%s %s -> %d (%v)", r.Method, r.URL.Path, rw.statusCode, time.Since(start))
		}
	})
}
