// Package api exposes the league store and the match engine over HTTP.
package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/utakatalp/match-simulator/internal/config"
	"github.com/utakatalp/match-simulator/internal/engine"
	"github.com/utakatalp/match-simulator/internal/league"
)

// Storage is the slice of the store the server needs.
type Storage interface {
	Ping() error
	GetTeams() ([]*league.Team, error)
	GetTable() ([]*league.Team, error)
	UpsertTeams(teams []*league.Team) error
	ApplyResult(m *league.Match) error
	LoadMatches() ([]league.Match, error)
	SaveRatings(ratings engine.RatingTable) error
	LoadRatings() (engine.RatingTable, error)
	CreateRun(id uuid.UUID, strategy string, runs int, seed uint64) error
	SaveTitleOdds(id uuid.UUID, preds []league.Prediction) error
	TitleOdds(id uuid.UUID) ([]league.Prediction, error)
}

// modelState is one rebuild's output. Handlers read a whole value so a
// concurrent rebuild never hands them a half-swapped view.
type modelState struct {
	ratings  engine.RatingTable
	model    *engine.GoalModel
	drawRate float64
	builtAt  time.Time
}

// Server wires the store and the engine behind a mux router. The model state
// is replaced atomically by Rebuild; everything else is stateless.
type Server struct {
	store  Storage
	cfg    *config.Config
	log    *logrus.Logger
	router *mux.Router

	mu    sync.RWMutex
	state *modelState
}

// New builds a Server and registers its routes.
func New(st Storage, cfg *config.Config, log *logrus.Logger) *Server {
	s := &Server{store: st, cfg: cfg, log: log}
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/table", s.handleTable).Methods(http.MethodGet)
	v1.HandleFunc("/ratings", s.handleRatings).Methods(http.MethodGet)
	v1.HandleFunc("/standings", s.handleStandings).Methods(http.MethodPut)
	v1.HandleFunc("/results", s.handleResult).Methods(http.MethodPost)
	v1.HandleFunc("/matches", s.handleMatches).Methods(http.MethodGet)
	v1.HandleFunc("/simulate/match", s.handleSimulateMatch).Methods(http.MethodPost)
	v1.HandleFunc("/simulate/season", s.handleSimulateSeason).Methods(http.MethodPost)
	v1.HandleFunc("/rebuild", s.handleRebuild).Methods(http.MethodPost)
	v1.HandleFunc("/odds/{id}", s.handleOdds).Methods(http.MethodGet)

	s.router = r
	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Rebuild recomputes the rating table, the goal model, and the draw rate from
// the stored standings, persists the ratings, and swaps the new state in.
func (s *Server) Rebuild() error {
	teams, err := s.store.GetTeams()
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	standings := league.Standings(teams)

	ratings, err := engine.InitialRatings(standings, s.cfg.Rating.Params())
	if err != nil {
		return fmt.Errorf("rebuild ratings: %w", err)
	}
	model, err := engine.ModelFromStandings(standings, true)
	if err != nil {
		return fmt.Errorf("rebuild goal model: %w", err)
	}
	drawRate := engine.EstimateDrawRate(standings)

	if err := s.store.SaveRatings(ratings); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}

	s.mu.Lock()
	s.state = &modelState{
		ratings:  ratings,
		model:    model,
		drawRate: drawRate,
		builtAt:  time.Now().UTC(),
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"teams":     len(teams),
		"draw_rate": drawRate,
	}).Info("model rebuilt from standings")
	return nil
}

// currentState returns the latest rebuild output, nil before the first
// successful rebuild.
func (s *Server) currentState() *modelState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// applyRatingUpdates folds observed-result rating nudges into the live state
// without waiting for the next full rebuild.
func (s *Server) applyRatingUpdates(updates engine.RatingTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return
	}
	ratings := s.state.ratings.Clone()
	for team, elo := range updates {
		ratings[team] = elo
	}
	next := *s.state
	next.ratings = ratings
	s.state = &next
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Info("http request")
	})
}
