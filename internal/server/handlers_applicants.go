// internal/server/handlers_applicants.go
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"recruit-admin/internal/common/validation"
	"recruit-admin/internal/models"
	"recruit-admin/internal/records"
)

func parseFilters(r *http.Request) records.ApplicantFilters {
	q := r.URL.Query()
	f := records.ApplicantFilters{
		Vaga:   q.Get("vaga"),
		Cidade: q.Get("cidade"),
		Bairro: q.Get("bairro"),
		Rua:    q.Get("rua"),
		Nome:   q.Get("nome"),
		CPF:    q.Get("cpf"),
		Status: q.Get("status"),
		Search: q.Get("search"),
	}
	if v := q.Get("data_inicio"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.DataInicio = &t
		}
	}
	if v := q.Get("data_fim"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			f.DataFim = &t
		}
	}
	return f
}

func parsePositive(q string, fallback int) int {
	n, err := strconv.Atoi(q)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func (s *Server) handleListApplicants(w http.ResponseWriter, r *http.Request) {
	page := parsePositive(r.URL.Query().Get("page"), 1)
	limit := parsePositive(r.URL.Query().Get("limit"), 20)

	result, err := s.store.ListApplicants(r.Context(), parseFilters(r), page, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetApplicant(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetApplicant(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteApplicant(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteApplicant(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validation.Validate("status_update", raw); err != nil {
		s.writeError(w, r, err)
		return
	}

	var payload struct {
		Status     string  `json:"status"`
		Observacao *string `json:"observacao"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}

	actorID := ""
	if p := s.sessions.Profile(); p != nil {
		actorID = p.ID
	}
	updated, err := s.store.UpdateStatus(r.Context(), r.PathValue("id"), payload.Status, payload.Observacao, actorID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleRecordView(w http.ResponseWriter, r *http.Request) {
	stamp := models.ViewStamp{Timestamp: time.Now().UTC()}
	if p := s.sessions.Profile(); p != nil {
		stamp.ViewerName = p.Nome
		stamp.ViewerEmail = p.Email
	}
	if err := s.store.RecordView(r.Context(), r.PathValue("id"), stamp); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stamp)
}

func (s *Server) handleStatusHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.StatusHistory(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.store.ListComments(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"comentarios": comments})
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validation.Validate("comment", raw); err != nil {
		s.writeError(w, r, err)
		return
	}

	var payload struct {
		Comentario string `json:"comentario"`
		Tipo       string `json:"tipo"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}

	authorID := ""
	if p := s.sessions.Profile(); p != nil {
		authorID = p.ID
	}
	comment, err := s.store.CreateComment(r.Context(), r.PathValue("id"), authorID, payload.Comentario, payload.Tipo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Comentario *string `json:"comentario"`
		Tipo       *string `json:"tipo"`
	}
	if err := decodeBody(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdateComment(r.Context(), r.PathValue("id"), payload.Comentario, payload.Tipo); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteComment(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
