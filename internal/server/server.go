package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftplan/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	log    *slog.Logger
	apiKey string
	whois  WhoIsClient
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale wires the tsnet local client used to resolve the calling
// tailnet user. Without it every request maps to the local dev user.
func (s *Server) SetTailscale(client WhoIsClient) {
	s.whois = client
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(APIKeyAuth(s.apiKey))
	s.router.Use(s.Identity)

	s.router.Get("/api/v1/me", s.handleMe)
	s.router.Get("/api/v1/templates", s.handleTemplates)

	s.router.Route("/api/v1/progressions", func(r chi.Router) {
		r.Post("/", s.handleCreateProgression)
		r.Get("/", s.handleListProgressions)
		r.Get("/{id}", s.handleGetProgression)
		r.Delete("/{id}", s.handleDeleteProgression)
		r.Post("/{id}/status", s.handleProgressionStatus)
		r.Post("/{id}/adjust", s.handleAdjustProgression)
		r.Put("/{id}/sessions/{sessionID}/sets/{setNumber}", s.handleLogWorkoutSet)
		r.Post("/{id}/sessions/{sessionID}/complete", s.handleCompleteWorkoutSession)
	})

	s.router.Route("/api/v1/programs", func(r chi.Router) {
		r.Post("/", s.handleCreateProgram)
		r.Get("/", s.handleListPrograms)
		r.Get("/{id}", s.handleGetProgram)
		r.Delete("/{id}", s.handleDeleteProgram)
		r.Post("/{id}/status", s.handleProgramStatus)
		r.Post("/{id}/adjust", s.handleAdjustProgram)
		r.Put("/{id}/sessions/{sessionID}/sets/{setNumber}", s.handleLogExerciseSet)
		r.Post("/{id}/sessions/{sessionID}/complete", s.handleCompleteExerciseSession)
	})

	s.router.Route("/api/v1/settings", func(r chi.Router) {
		r.Get("/", s.handleGetSettings)
		r.Put("/", s.handlePutSettings)
		r.Put("/exercises/{name}", s.handlePutExerciseSettings)
		r.Delete("/exercises/{name}", s.handleDeleteExerciseSettings)
	})

	s.router.Get("/api/v1/schedule/upcoming", s.handleUpcomingSessions)
	s.router.Get("/api/v1/performance", s.handlePerformanceHistory)
}
