// Package api exposes the dashboard's HTTP surface: demo uploads, match
// browsing and administration, and the aggregated statistics endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"demodash/internal/config"
	"demodash/internal/db"
	"demodash/internal/logging"
)

// Server wires the HTTP routes to the stores and the import pipeline.
type Server struct {
	matches    *db.MatchStore
	imports    *db.ImportStore
	uploads    *UploadHandler
	adminToken string
	httpServer *http.Server
}

// NewServer builds the server and its router. uploads may be nil when the
// process runs without a queue; the upload endpoint then reports the
// pipeline as unavailable.
func NewServer(cfg *config.Config, matches *db.MatchStore, imports *db.ImportStore, uploads *UploadHandler) *Server {
	s := &Server{
		matches:    matches,
		imports:    imports,
		uploads:    uploads,
		adminToken: cfg.AdminToken,
	}

	r := mux.NewRouter()
	r.Use(requestLogger)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	apiRouter.HandleFunc("/meta", s.handleMeta).Methods(http.MethodGet)

	apiRouter.HandleFunc("/demos", s.handleUpload).Methods(http.MethodPost)
	apiRouter.HandleFunc("/imports", s.handleListImports).Methods(http.MethodGet)

	apiRouter.HandleFunc("/matches", s.handleListMatches).Methods(http.MethodGet)
	apiRouter.HandleFunc("/matches/{id}", s.handleGetMatch).Methods(http.MethodGet)
	apiRouter.HandleFunc("/matches/{id}", s.adminOnly(s.handleDeleteMatch)).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/matches/{id}/teams", s.adminOnly(s.handleUpdateTeams)).Methods(http.MethodPut)

	apiRouter.HandleFunc("/stats/overview", s.handleOverview).Methods(http.MethodGet)
	apiRouter.HandleFunc("/stats/teams/{name}", s.handleTeamStats).Methods(http.MethodGet)
	apiRouter.HandleFunc("/stats/comparison", s.handleComparison).Methods(http.MethodGet)
	apiRouter.HandleFunc("/leaderboards", s.handleLeaderboards).Methods(http.MethodGet)

	apiRouter.HandleFunc("/integrity/missing-rounds", s.handleMissingRounds).Methods(http.MethodGet)

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Admin-Token"},
	}).Handler(r)

	s.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Uploads of large demo files need a generous write window.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	logging.Logger().Infof("http server listening on %s", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
