// internal/server/middleware.go
package server

import (
	"net/http"
	"strconv"
	"time"

	"recruit-admin/internal/common/errors"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps the whole mux with request logging and metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		if s.obs != nil {
			s.obs.RecordRequest(r.Context(), r.URL.Path, strconv.Itoa(rec.status))
			s.obs.RecordDuration(r.Context(), r.URL.Path, duration)
		}
		s.log.Debug("request handled", map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": duration.Milliseconds(),
		})
	})
}

// requireAuth rejects requests when no valid session exists. The token is
// re-confirmed server-side through the session manager, which also handles
// expiry-driven logout.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.sessions.AccessToken(r.Context()); err != nil {
			s.writeError(w, r, err)
			return
		}
		next(w, r)
	}
}

// requireRole additionally checks the signed-in profile's permission level.
func (s *Server) requireRole(required string, next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !s.sessions.HasPermission(required) {
			s.writeError(w, r, errors.NewPermissionError("requires level "+required))
			return
		}
		next(w, r)
	})
}
