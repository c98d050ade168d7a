package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"tailscale.com/client/local"

	"github.com/heraheo/JuniFit-sub000/internal/auth"
	"github.com/heraheo/JuniFit-sub000/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	auth   *auth.Service
	live   *liveRegistry
	log    *slog.Logger
	ts     *local.Client
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, authService *auth.Service, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		auth:   authService,
		live:   newLiveRegistry(log),
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale enables tsnet identity: requests are attributed to the
// tailnet user instead of requiring password login.
func (s *Server) SetTailscale(lc *local.Client) {
	s.ts = lc
}

// MountMCP attaches the MCP transport handler under the given path
// prefix. The MCP layer does its own identity resolution.
func (s *Server) MountMCP(path string, h http.Handler) {
	s.router.Mount(path, h)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Public auth endpoints
	s.router.Post("/api/v1/auth/register", s.handleRegister)
	s.router.Post("/api/v1/auth/login", s.handleLogin)

	// Everything else requires an identity — login token or tailnet user.
	s.router.Group(func(r chi.Router) {
		r.Use(s.RequireProfile)

		r.Post("/api/v1/auth/logout", s.handleLogout)
		r.Get("/api/v1/me", s.handleMe)

		r.Get("/api/v1/exercises", s.handleListExercises)
		r.Post("/api/v1/exercises", s.handleCreateExercise)

		r.Get("/api/v1/programs", s.handleListPrograms)
		r.Post("/api/v1/programs", s.handleCreateProgram)
		r.Get("/api/v1/programs/{id}", s.handleGetProgram)
		r.Put("/api/v1/programs/{id}", s.handleUpdateProgram)
		r.Delete("/api/v1/programs/{id}", s.handleArchiveProgram)

		// Live workout — the single active session per profile
		r.Post("/api/v1/workouts", s.handleStartWorkout)
		r.Get("/api/v1/workouts/active", s.handleActiveWorkout)
		r.Delete("/api/v1/workouts/active", s.handleAbandonWorkout)
		r.Post("/api/v1/workouts/active/inputs", s.handleUpdateInput)
		r.Post("/api/v1/workouts/active/notes", s.handleUpdateNote)
		r.Post("/api/v1/workouts/active/toggle", s.handleToggleSet)
		r.Post("/api/v1/workouts/active/skip", s.handleSkipSet)
		r.Post("/api/v1/workouts/active/complete-exercise", s.handleCompleteExercise)
		r.Get("/api/v1/workouts/active/timer", s.handleTimerState)
		r.Post("/api/v1/workouts/active/timer/skip", s.handleTimerSkip)
		r.Post("/api/v1/workouts/active/timer/close", s.handleTimerClose)
		r.Post("/api/v1/workouts/active/finish", s.handleFinishWorkout)

		// History
		r.Get("/api/v1/sessions", s.handleListSessions)
		r.Get("/api/v1/sessions/{id}", s.handleGetSession)
		r.Patch("/api/v1/sessions/{id}/sets", s.handleEditSessionSets)
		r.Delete("/api/v1/sessions/{id}", s.handleDeleteSession)

		// Stats
		r.Get("/api/v1/stats/calendar", s.handleCalendar)
		r.Get("/api/v1/stats/volume", s.handleVolume)
		r.Get("/api/v1/stats/personal-bests", s.handlePersonalBests)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseTimeRange reads start/end query params (RFC 3339 or YYYY-MM-DD),
// defaulting to the last 30 days.
func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	end = time.Now()
	start = end.AddDate(0, 0, -30)

	if v := r.URL.Query().Get("end"); v != "" {
		end, err = parseFlexTime(v)
		if err != nil {
			return start, end, fmt.Errorf("invalid end %q", v)
		}
	}
	if v := r.URL.Query().Get("start"); v != "" {
		start, err = parseFlexTime(v)
		if err != nil {
			return start, end, fmt.Errorf("invalid start %q", v)
		}
	}
	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
