// internal/server/respond.go
package server

import (
	"encoding/json"
	"net/http"

	"recruit-admin/internal/common/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps the internal error taxonomy onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	se := errors.AsStandard(err)
	if se == nil {
		s.log.WithError(err).Error("unhandled error", map[string]interface{}{
			"path": r.URL.Path,
		})
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"code":    "INTERNAL_ERROR",
			"message": "internal server error",
		})
		return
	}

	status := http.StatusInternalServerError
	switch se.Code {
	case errors.ErrCodeAuthentication, errors.ErrCodeSessionExpired:
		status = http.StatusUnauthorized
	case errors.ErrCodePermission:
		status = http.StatusForbidden
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeValidation:
		status = http.StatusBadRequest
	case errors.ErrCodeInvalidPhase:
		status = http.StatusConflict
	case errors.ErrCodeNetwork, errors.ErrCodeStorage:
		status = http.StatusBadGateway
	case errors.ErrCodeAPI:
		// Propagate the upstream rejection as-is when it makes sense.
		if se.Status >= 400 && se.Status < 600 {
			status = se.Status
		} else {
			status = http.StatusBadGateway
		}
	}

	if status >= 500 {
		s.log.WithError(err).Error("request failed", map[string]interface{}{
			"path":   r.URL.Path,
			"status": status,
		})
	}
	writeJSON(w, status, se)
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewValidationError("body", "malformed JSON payload")
	}
	return nil
}
