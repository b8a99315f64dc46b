// internal/server/handlers_proxy.go
package server

import (
	"net/http"

	"recruit-admin/internal/apiclient"
	"recruit-admin/internal/common/errors"
)

// The handlers below front the backend REST API through the resilient
// client instead of the local store. They cover operations the backend
// owns outright: signed résumé downloads, aggregate stats, commute
// estimates, job postings and panel users.

func (s *Server) handleResumeURL(w http.ResponseWriter, r *http.Request) {
	resume, err := s.api.SignedResumeURL(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

func (s *Server) handleBackendStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.api.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCalculateDistance(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EnderecoCandidato string `json:"enderecoCandidato"`
	}
	if err := decodeBody(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	if payload.EnderecoCandidato == "" {
		s.writeError(w, r, errors.NewValidationError("enderecoCandidato", "address is required"))
		return
	}
	result, err := s.api.CalculateDistance(r.Context(), payload.EnderecoCandidato)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpdateApplicant(w http.ResponseWriter, r *http.Request) {
	var fields map[string]interface{}
	if err := decodeBody(r, &fields); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(fields) == 0 {
		s.writeError(w, r, errors.NewValidationError("body", "no fields to update"))
		return
	}
	raw, err := s.api.UpdateApplicant(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.api.ListJobs(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"vagas": jobs})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var job apiclient.Job
	if err := decodeBody(r, &job); err != nil {
		s.writeError(w, r, err)
		return
	}
	if job.Titulo == "" {
		s.writeError(w, r, errors.NewValidationError("titulo", "title is required"))
		return
	}
	created, err := s.api.CreateJob(r.Context(), job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var job apiclient.Job
	if err := decodeBody(r, &job); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.api.UpdateJob(r.Context(), r.PathValue("id"), job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.api.DeleteJob(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateStaff(w http.ResponseWriter, r *http.Request) {
	var payload apiclient.StaffPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	if payload.Email == "" || payload.Nome == "" {
		s.writeError(w, r, errors.NewValidationError("usuario", "nome and email are required"))
		return
	}
	created, err := s.api.CreateStaff(r.Context(), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateStaff(w http.ResponseWriter, r *http.Request) {
	var payload apiclient.StaffPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.api.UpdateStaff(r.Context(), r.PathValue("id"), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteStaff(w http.ResponseWriter, r *http.Request) {
	if err := s.api.DeleteStaff(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
