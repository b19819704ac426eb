// Package server exposes the pathfinder over HTTP: one-shot searches,
// step-by-step sessions for visualisers, and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/pdrpinto/gridpath"
	"github.com/pdrpinto/gridpath/internal/cache"
	"github.com/pdrpinto/gridpath/internal/config"
	"github.com/pdrpinto/gridpath/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

const (
	// DefaultMaxCells bounds the grids requests may describe.
	DefaultMaxCells = 1 << 20

	// DefaultSessionTTL is how long an untouched session survives.
	DefaultSessionTTL = 10 * time.Minute
)

// ErrSessionNotFound is returned for unknown or deleted session IDs.
var ErrSessionNotFound = errors.New("session not found")

// ErrTooManySessions is returned when WithMaxSessions is reached.
var ErrTooManySessions = errors.New("too many sessions")

// Server holds the HTTP handlers and the live stepping sessions.
type Server struct {
	logger        *slog.Logger
	cache         cache.Cache
	observer      gridpath.Observer
	gatherer      prometheus.Gatherer
	maxExpansions int
	maxSessions   int
	maxCells      int
	sessionTTL    time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu      sync.Mutex
	grid    *gridpath.Grid
	start   gridpath.Cell
	goal    gridpath.Cell
	stepper *gridpath.Stepper
	used    time.Time
}

type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithCache stores one-shot search results.
func WithCache(c cache.Cache) Option {
	return func(s *Server) { s.cache = c }
}

// WithObserver receives statistics for one-shot searches.
func WithObserver(observer gridpath.Observer) Option {
	return func(s *Server) { s.observer = observer }
}

// WithGatherer serves metrics from g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithMaxExpansions bounds one-shot searches.
func WithMaxExpansions(n int) Option {
	return func(s *Server) { s.maxExpansions = n }
}

// WithMaxSessions bounds the number of live sessions. Zero means unbounded.
func WithMaxSessions(n int) Option {
	return func(s *Server) { s.maxSessions = n }
}

// WithMaxCells bounds width × height of request grids.
func WithMaxCells(n int) Option {
	return func(s *Server) { s.maxCells = n }
}

// WithSessionTTL drops sessions that have not been stepped for ttl. Zero
// keeps them until deleted.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) { s.sessionTTL = ttl }
}

// New creates a Server.
func New(opts ...Option) *Server {
	s := &Server{
		logger:     logging.NewNop(),
		maxCells:   DefaultMaxCells,
		sessionTTL: DefaultSessionTTL,
		sessions:   make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/paths", s.handleFindPath)
		r.Post("/sessions", s.handleCreateSession)
		r.Post("/sessions/{id}/step", s.handleStep)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
	})
	return r
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type pathResponse struct {
	Found    bool     `json:"found"`
	Cost     int      `json:"cost"`
	Expanded int      `json:"expanded"`
	Cached   bool     `json:"cached"`
	Path     [][2]int `json:"path"`
}

func (s *Server) handleFindPath(w http.ResponseWriter, r *http.Request) {
	scenario, grid, ok := s.readScenario(w, r)
	if !ok {
		return
	}

	options := []gridpath.Option{
		gridpath.WithLogger(s.logger),
		gridpath.WithMaxExpansions(s.maxExpansions),
	}
	if s.observer != nil {
		options = append(options, gridpath.WithObserver(s.observer))
	}
	result, hit, err := cache.Solve(r.Context(), s.cache, grid, scenario.StartCell(), scenario.GoalCell(), options...)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pathResponse{
		Found:    result.Found,
		Cost:     result.Cost,
		Expanded: result.Expanded,
		Cached:   hit,
		Path:     cellList(result.Path),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	scenario, grid, ok := s.readScenario(w, r)
	if !ok {
		return
	}
	stepper, err := gridpath.NewStepper(grid, scenario.StartCell(), scenario.GoalCell())
	if err != nil {
		s.writeError(w, err)
		return
	}

	id := uuid.NewString()
	now := time.Now()
	s.mu.Lock()
	s.expireSessions(now)
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.mu.Unlock()
		s.writeError(w, ErrTooManySessions)
		return
	}
	s.sessions[id] = &session{
		grid:    grid,
		start:   scenario.StartCell(),
		goal:    scenario.GoalCell(),
		stepper: stepper,
		used:    now,
	}
	s.mu.Unlock()

	s.logger.Info("session created", "id", id, "width", grid.Width(), "height", grid.Height())
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "w": grid.Width(), "h": grid.Height()})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	sess.mu.Lock()
	st, err := sess.stepper.Step()
	sess.used = time.Now()
	sess.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshot(sess, st))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, exists := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !exists {
		s.writeError(w, ErrSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// expireSessions drops idle sessions. s.mu must be held.
func (s *Server) expireSessions(now time.Time) {
	if s.sessionTTL <= 0 {
		return
	}
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.used)
		sess.mu.Unlock()
		if idle > s.sessionTTL {
			delete(s.sessions, id)
			s.logger.Info("session expired", "id", id, "idle", idle)
		}
	}
}

func (s *Server) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireSessions(time.Now())
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *Server) readScenario(w http.ResponseWriter, r *http.Request) (config.Scenario, *gridpath.Grid, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", config.ErrInvalidScenario, err))
		return config.Scenario{}, nil, false
	}
	scenario, err := config.Parse(data, "json")
	if err == nil && s.maxCells > 0 {
		err = scenario.CheckCells(s.maxCells)
	}
	if err != nil {
		s.writeError(w, err)
		return config.Scenario{}, nil, false
	}
	grid, err := scenario.Build()
	if err != nil {
		s.writeError(w, err)
		return config.Scenario{}, nil, false
	}
	return scenario, grid, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, config.ErrInvalidScenario),
		errors.Is(err, gridpath.ErrOutOfBounds),
		errors.Is(err, gridpath.ErrInvalidObstacle),
		errors.Is(err, gridpath.ErrInvalidDimensions):
		status = http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrTooManySessions):
		status = http.StatusTooManyRequests
	case errors.Is(err, gridpath.ErrExpansionLimit):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
