// Package server exposes the tracker engine over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/Phuzzle/exerpal/internal/mcp"
	"github.com/Phuzzle/exerpal/internal/tracker"
	"github.com/go-chi/chi/v5"
	"tailscale.com/client/local"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker *tracker.Tracker
	log     *slog.Logger
	router  chi.Router
}

// New creates a new Server with all routes configured. Identity defaults
// to the dev fallback; SetTailscale switches to tailnet who-is.
func New(tr *tracker.Tracker, log *slog.Logger) *Server {
	s := &Server{
		tracker: tr,
		log:     log,
		router:  chi.NewRouter(),
	}
	s.routes(DevIdentity)
	return s
}

// NewWithTailscale creates a Server that resolves identity from the
// tailnet instead of the dev fallback.
func NewWithTailscale(tr *tracker.Tracker, lc *local.Client, log *slog.Logger) *Server {
	s := &Server{
		tracker: tr,
		log:     log,
		router:  chi.NewRouter(),
	}
	s.routes(TailscaleIdentity(lc))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// MountMCP attaches the MCP endpoint, forwarding the identity resolved by
// the router middleware into the tool handlers' context.
func (s *Server) MountMCP(pattern string, h http.Handler) {
	s.router.Mount(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := mcp.WithUserID(r.Context(), userFromContext(r))
		h.ServeHTTP(w, r.WithContext(ctx))
	}))
}

func (s *Server) routes(identity func(http.Handler) http.Handler) {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(identity)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/catalog", s.handleCatalog)

		r.Post("/schedules", s.handleCreateSchedule)
		r.Get("/schedules", s.handleListSchedules)
		r.Get("/schedules/latest", s.handleLatestSchedule)
		r.Get("/schedules/{id}", s.handleGetSchedule)
		r.Patch("/schedules/{id}/days/{day}/exercises/{index}", s.handleUpdateExercise)

		r.Get("/progress", s.handleGetProgress)
		r.Put("/progress/weight", s.handleSetWeight)
		r.Put("/progress/status", s.handleSetStatus)
		r.Post("/progress/complete-day", s.handleCompleteDay)
		r.Post("/progress/new-cycle", s.handleNewCycle)

		r.Get("/history", s.handleHistory)
		r.Get("/history/stats", s.handleHistoryStats)
		r.Get("/history/progression", s.handleWeightProgression)
	})
}
