// internal/server/handlers_experience.go
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"recruit-admin/internal/common/validation"
	"recruit-admin/internal/models"
)

func (s *Server) handleListExperience(w http.ResponseWriter, r *http.Request) {
	var (
		views interface{}
		err   error
	)
	if r.URL.Query().Get("renovaveis") == "true" {
		views, err = s.engine.ListRenewable(r.Context())
	} else {
		views, err = s.engine.List(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"periods": views})
}

func (s *Server) handleGetExperience(w http.ResponseWriter, r *http.Request) {
	view, err := s.engine.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleStartExperience(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validation.Validate("experience_start", raw); err != nil {
		s.writeError(w, r, err)
		return
	}

	var payload struct {
		CandidaturaID string `json:"candidatura_id"`
		ContractType  string `json:"contract_type"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}

	period, err := s.engine.Start(r.Context(), payload.CandidaturaID, models.ContractType(payload.ContractType))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, period)
}

func (s *Server) handleRenewExperience(w http.ResponseWriter, r *http.Request) {
	renewed, err := s.engine.Renew(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, renewed)
}
