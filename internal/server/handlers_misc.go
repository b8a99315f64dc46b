// internal/server/handlers_misc.go
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"recruit-admin/internal/common/errors"
	"recruit-admin/internal/common/validation"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	if payload.Email == "" || payload.Password == "" {
		s.writeError(w, r, errors.NewValidationError("credentials", "email and password are required"))
		return
	}

	sess, err := s.sessions.SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Profile enrichment comes from the REST API and is best-effort: login
	// stands even when the profile fetch fails.
	if profile, err := s.api.Profile(r.Context()); err == nil {
		s.sessions.SetProfile(profile)
	} else {
		s.log.WithError(err).Warn("profile fetch after login failed", nil)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":    sess.UserID,
		"expires_at": sess.ExpiresAt,
		"profile":    s.sessions.Profile(),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.SignOut(r.Context()); err != nil {
		s.log.WithError(err).Warn("backend logout failed", nil)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	profile := s.sessions.Profile()
	if profile == nil {
		s.writeError(w, r, errors.NewNotFoundError("profile", "current"))
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	profile := s.sessions.Profile()
	if profile == nil {
		s.writeError(w, r, errors.NewAuthenticationError("no profile loaded"))
		return
	}
	presets, err := s.store.ListPresets(r.Context(), profile.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"presets": presets})
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	profile := s.sessions.Profile()
	if profile == nil {
		s.writeError(w, r, errors.NewAuthenticationError("no profile loaded"))
		return
	}

	raw, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validation.Validate("preset", raw); err != nil {
		s.writeError(w, r, err)
		return
	}

	var payload struct {
		Name    string          `json:"name"`
		Filters json.RawMessage `json:"filters"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}

	preset, err := s.store.SavePreset(r.Context(), profile.ID, profile.Nome, payload.Name, payload.Filters)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, preset)
}

func (s *Server) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name    *string         `json:"name"`
		Filters json.RawMessage `json:"filters"`
	}
	if err := decodeBody(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdatePreset(r.Context(), r.PathValue("id"), payload.Name, payload.Filters); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePreset(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.store.GetFilterOptions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleStatusOptions(w http.ResponseWriter, r *http.Request) {
	options, err := s.store.StatusOptions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": options})
}

func (s *Server) handleSuggestNames(w http.ResponseWriter, r *http.Request) {
	limit := parsePositive(r.URL.Query().Get("limit"), 8)
	names := s.store.SuggestNames(r.Context(), r.URL.Query().Get("q"), limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": names})
}

func (s *Server) handleTopStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetTopStats(r.Context(), parseFilters(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleEvolution(w http.ResponseWriter, r *http.Request) {
	series, err := s.store.GetEvolution(r.Context(), parseFilters(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"series": series})
}

func (s *Server) handleListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := s.store.ListStaff(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"usuarios": staff})
}
