package api

import (
	"net/http"
	"time"

	"demodash/internal/logging"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger logs method, path, status, and latency for every request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.Logger().Infof("%s %s -> %d (%v)", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// adminOnly gates mutating endpoints behind the X-Admin-Token header. An
// empty configured token disables the check entirely.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken != "" && r.Header.Get("X-Admin-Token") != s.adminToken {
			WriteError(w, http.StatusUnauthorized, "admin token required")
			return
		}
		next(w, r)
	}
}
