// internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recruit-admin/internal/apiclient"
	"recruit-admin/internal/common/logger"
	"recruit-admin/internal/common/observability"
	"recruit-admin/internal/experience"
	"recruit-admin/internal/records"
	"recruit-admin/internal/session"
)

// Server exposes the admin panel API over HTTP.
type Server struct {
	sessions *session.Manager
	store    *records.Store
	engine   *experience.Engine
	api      *apiclient.Client
	obs      *observability.Observability
	log      logger.Logger

	httpServer *http.Server
}

type Options struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func New(sessions *session.Manager, store *records.Store, engine *experience.Engine, api *apiclient.Client, obs *observability.Observability, opts Options, log logger.Logger) *Server {
	s := &Server{
		sessions: sessions,
		store:    store,
		engine:   engine,
		api:      api,
		obs:      obs,
		log:      log.WithFields(map[string]interface{}{"component": "server"}),
	}

	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.routes(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.requireAuth(s.handleLogout))
	mux.HandleFunc("GET /auth/me", s.requireAuth(s.handleMe))

	mux.HandleFunc("GET /admin/candidaturas", s.requireAuth(s.handleListApplicants))
	mux.HandleFunc("GET /admin/candidaturas/{id}", s.requireAuth(s.handleGetApplicant))
	mux.HandleFunc("PUT /admin/candidaturas/{id}", s.requireRole("lider", s.handleUpdateApplicant))
	mux.HandleFunc("DELETE /admin/candidaturas/{id}", s.requireRole("admin", s.handleDeleteApplicant))
	mux.HandleFunc("GET /admin/candidaturas/{id}/curriculo", s.requireAuth(s.handleResumeURL))
	mux.HandleFunc("PATCH /admin/candidaturas/{id}/status", s.requireAuth(s.handleUpdateStatus))
	mux.HandleFunc("POST /admin/candidaturas/{id}/view", s.requireAuth(s.handleRecordView))
	mux.HandleFunc("GET /admin/candidaturas/{id}/history", s.requireAuth(s.handleStatusHistory))
	mux.HandleFunc("GET /admin/candidaturas/{id}/comentarios", s.requireAuth(s.handleListComments))
	mux.HandleFunc("POST /admin/candidaturas/{id}/comentarios", s.requireAuth(s.handleCreateComment))
	mux.HandleFunc("PATCH /admin/comentarios/{id}", s.requireAuth(s.handleUpdateComment))
	mux.HandleFunc("DELETE /admin/comentarios/{id}", s.requireAuth(s.handleDeleteComment))

	mux.HandleFunc("GET /admin/presets", s.requireAuth(s.handleListPresets))
	mux.HandleFunc("POST /admin/presets", s.requireAuth(s.handleSavePreset))
	mux.HandleFunc("PATCH /admin/presets/{id}", s.requireAuth(s.handleUpdatePreset))
	mux.HandleFunc("DELETE /admin/presets/{id}", s.requireAuth(s.handleDeletePreset))

	mux.HandleFunc("GET /admin/filter-options", s.requireAuth(s.handleFilterOptions))
	mux.HandleFunc("GET /admin/status-options", s.requireAuth(s.handleStatusOptions))
	mux.HandleFunc("GET /admin/suggest", s.requireAuth(s.handleSuggestNames))
	mux.HandleFunc("GET /admin/stats/top", s.requireAuth(s.handleTopStats))
	mux.HandleFunc("GET /admin/stats/evolution", s.requireAuth(s.handleEvolution))
	mux.HandleFunc("GET /admin/stats/resumo", s.requireAuth(s.handleBackendStats))
	mux.HandleFunc("POST /admin/distancia", s.requireAuth(s.handleCalculateDistance))

	mux.HandleFunc("GET /admin/vagas", s.requireAuth(s.handleListJobs))
	mux.HandleFunc("POST /admin/vagas", s.requireRole("lider", s.handleCreateJob))
	mux.HandleFunc("PUT /admin/vagas/{id}", s.requireRole("lider", s.handleUpdateJob))
	mux.HandleFunc("DELETE /admin/vagas/{id}", s.requireRole("lider", s.handleDeleteJob))

	mux.HandleFunc("GET /admin/experiencia", s.requireAuth(s.handleListExperience))
	mux.HandleFunc("GET /admin/experiencia/{id}", s.requireAuth(s.handleGetExperience))
	mux.HandleFunc("POST /admin/experiencia", s.requireRole("lider", s.handleStartExperience))
	mux.HandleFunc("POST /admin/experiencia/{id}/renovar", s.requireRole("lider", s.handleRenewExperience))

	mux.HandleFunc("GET /admin/usuarios", s.requireRole("admin", s.handleListStaff))
	mux.HandleFunc("POST /admin/usuarios", s.requireRole("admin", s.handleCreateStaff))
	mux.HandleFunc("PUT /admin/usuarios/{id}", s.requireRole("admin", s.handleUpdateStaff))
	mux.HandleFunc("DELETE /admin/usuarios/{id}", s.requireRole("admin", s.handleDeleteStaff))

	return s.instrument(mux)
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.log.Info("admin server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
