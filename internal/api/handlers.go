package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/exp/rand"

	"github.com/utakatalp/match-simulator/internal/engine"
	"github.com/utakatalp/match-simulator/internal/league"
	"github.com/utakatalp/match-simulator/internal/season"
	"github.com/utakatalp/match-simulator/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type tableResponse struct {
	Table []league.TableEntry `json:"table"`
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	teams, err := s.store.GetTable()
	if err != nil {
		s.log.WithError(err).Error("loading table")
		writeError(w, http.StatusInternalServerError, "loading table failed")
		return
	}
	writeJSON(w, http.StatusOK, tableResponse{Table: league.TableFromTeams(teams)})
}

type ratingsResponse struct {
	BuiltAt  time.Time          `json:"built_at"`
	DrawRate float64            `json:"draw_rate"`
	Ratings  engine.RatingTable `json:"ratings"`
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	state := s.currentState()
	if state == nil {
		writeError(w, http.StatusServiceUnavailable, "model not built yet")
		return
	}
	writeJSON(w, http.StatusOK, ratingsResponse{
		BuiltAt:  state.builtAt,
		DrawRate: state.drawRate,
		Ratings:  state.ratings,
	})
}

type standingsRequest struct {
	Teams []league.Team `json:"teams"`
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	var req standingsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Teams) == 0 {
		writeError(w, http.StatusBadRequest, "teams must not be empty")
		return
	}
	teams := make([]*league.Team, len(req.Teams))
	for i := range req.Teams {
		if req.Teams[i].Name == "" {
			writeError(w, http.StatusBadRequest, "team name must not be empty")
			return
		}
		teams[i] = &req.Teams[i]
	}

	if err := s.store.UpsertTeams(teams); err != nil {
		s.log.WithError(err).Error("upserting standings")
		writeError(w, http.StatusInternalServerError, "saving standings failed")
		return
	}
	if err := s.Rebuild(); err != nil {
		s.log.WithError(err).Error("rebuilding after standings ingest")
		writeError(w, rebuildStatus(err), "standings saved but model rebuild failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "teams": len(teams)})
}

type resultRequest struct {
	Round     int    `json:"round"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Home == "" || req.Away == "" || req.Home == req.Away {
		writeError(w, http.StatusBadRequest, "home and away must name two different teams")
		return
	}
	if req.HomeGoals < 0 || req.AwayGoals < 0 {
		writeError(w, http.StatusBadRequest, "goals must not be negative")
		return
	}

	teams, err := s.store.GetTeams()
	if err != nil {
		s.log.WithError(err).Error("loading teams")
		writeError(w, http.StatusInternalServerError, "loading teams failed")
		return
	}
	known := make(map[string]bool, len(teams))
	for _, t := range teams {
		known[t.Name] = true
	}
	for _, name := range []string{req.Home, req.Away} {
		if !known[name] {
			writeError(w, http.StatusNotFound, fmt.Sprintf("unknown team: %s", name))
			return
		}
	}

	m := &league.Match{
		Round:     req.Round,
		Home:      req.Home,
		Away:      req.Away,
		HomeGoals: req.HomeGoals,
		AwayGoals: req.AwayGoals,
	}
	if err := s.store.ApplyResult(m); err != nil {
		s.log.WithError(err).Error("applying result")
		writeError(w, http.StatusInternalServerError, "saving result failed")
		return
	}

	if err := s.nudgeRatings(m); err != nil {
		s.log.WithError(err).Warn("rating update after result skipped")
	}

	s.log.WithField("match", m.Score()).Info("result recorded")
	writeJSON(w, http.StatusCreated, m)
}

// nudgeRatings moves both teams' stored Elo after an observed result. Before
// the first rebuild there are no stored ratings and the nudge is skipped.
func (s *Server) nudgeRatings(m *league.Match) error {
	ratings, err := s.store.LoadRatings()
	if err != nil {
		return err
	}
	eloHome, okHome := ratings[m.Home]
	eloAway, okAway := ratings[m.Away]
	if !okHome || !okAway {
		return nil
	}

	outcome := engine.MatchResult(m.HomeGoals, m.AwayGoals)
	newHome, newAway := engine.UpdateElo(eloHome, eloAway, outcome, s.cfg.Sim.K)
	updates := engine.RatingTable{m.Home: newHome, m.Away: newAway}
	if err := s.store.SaveRatings(updates); err != nil {
		return err
	}
	s.applyRatingUpdates(updates)
	return nil
}

type matchesResponse struct {
	Matches []league.Match `json:"matches"`
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.store.LoadMatches()
	if err != nil {
		s.log.WithError(err).Error("loading matches")
		writeError(w, http.StatusInternalServerError, "loading matches failed")
		return
	}
	if matches == nil {
		matches = []league.Match{}
	}
	writeJSON(w, http.StatusOK, matchesResponse{Matches: matches})
}

type simulateMatchRequest struct {
	Home string `json:"home"`
	Away string `json:"away"`
	Seed uint64 `json:"seed"`
}

type simulateMatchResponse struct {
	Home          string                    `json:"home"`
	Away          string                    `json:"away"`
	Strategy      string                    `json:"strategy"`
	Seed          uint64                    `json:"seed"`
	Probabilities engine.MatchProbabilities `json:"probabilities"`
	Scoreline     engine.Scoreline          `json:"scoreline"`
	Outcome       engine.OutcomeScore       `json:"outcome"`
}

func (s *Server) handleSimulateMatch(w http.ResponseWriter, r *http.Request) {
	state := s.currentState()
	if state == nil {
		writeError(w, http.StatusServiceUnavailable, "model not built yet")
		return
	}

	var req simulateMatchRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Home == "" || req.Away == "" {
		writeError(w, http.StatusBadRequest, "home and away are required")
		return
	}

	eloHome, eloAway, err := state.ratings.Pair(req.Home, req.Away)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	probs, err := engine.MatchProbs(eloHome, eloAway, state.drawRate)
	if err != nil {
		s.log.WithError(err).Error("computing match probabilities")
		writeError(w, http.StatusInternalServerError, "probability model failed")
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	sim, err := engine.NewSimulator(s.cfg.Sim.Strategy, state.model, state.ratings, engine.HybridParams{
		EloFactor: s.cfg.Sim.EloFactor,
		DrawBias:  s.cfg.Sim.DrawBias,
	}, rand.NewSource(seed))
	if err != nil {
		s.log.WithError(err).Error("building simulator")
		writeError(w, http.StatusInternalServerError, "simulator init failed")
		return
	}
	sc, err := sim.Simulate(req.Home, req.Away)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownTeam) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.WithError(err).Error("simulating match")
		writeError(w, http.StatusInternalServerError, "simulation failed")
		return
	}

	writeJSON(w, http.StatusOK, simulateMatchResponse{
		Home:          req.Home,
		Away:          req.Away,
		Strategy:      s.cfg.Sim.Strategy,
		Seed:          seed,
		Probabilities: probs,
		Scoreline:     sc,
		Outcome:       engine.MatchResult(sc.HomeGoals, sc.AwayGoals),
	})
}

type simulateSeasonRequest struct {
	Runs int    `json:"runs"`
	Seed uint64 `json:"seed"`
}

type simulateSeasonResponse struct {
	RunID     string               `json:"run_id"`
	Strategy  string               `json:"strategy"`
	Runs      int                  `json:"runs"`
	Seed      uint64               `json:"seed"`
	Remaining int                  `json:"remaining"`
	Title     []league.Prediction  `json:"title"`
	Positions map[string][]float64 `json:"positions"`
}

func (s *Server) handleSimulateSeason(w http.ResponseWriter, r *http.Request) {
	state := s.currentState()
	if state == nil {
		writeError(w, http.StatusServiceUnavailable, "model not built yet")
		return
	}

	req := simulateSeasonRequest{Runs: s.cfg.Sim.Runs, Seed: s.cfg.Sim.Seed}
	if r.ContentLength != 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Runs <= 0 {
		req.Runs = s.cfg.Sim.Runs
	}
	if req.Seed == 0 {
		req.Seed = s.cfg.Sim.Seed
	}

	teams, err := s.store.GetTeams()
	if err != nil {
		s.log.WithError(err).Error("loading teams")
		writeError(w, http.StatusInternalServerError, "loading teams failed")
		return
	}
	if len(teams) < 2 {
		writeError(w, http.StatusUnprocessableEntity, "need at least two teams to simulate a season")
		return
	}
	played, err := s.store.LoadMatches()
	if err != nil {
		s.log.WithError(err).Error("loading matches")
		writeError(w, http.StatusInternalServerError, "loading matches failed")
		return
	}
	remaining := league.Remaining(league.Names(teams), played)

	cfg := season.Config{
		Strategy:  s.cfg.Sim.Strategy,
		K:         s.cfg.Sim.K,
		DrawBias:  s.cfg.Sim.DrawBias,
		EloFactor: s.cfg.Sim.EloFactor,
		Runs:      req.Runs,
		Seed:      req.Seed,
	}
	odds, err := season.New(cfg, state.model, state.ratings, s.log).TitleOdds(played, remaining)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownTeam) {
			writeError(w, http.StatusConflict, "model is out of date with the stored teams, rebuild first")
			return
		}
		s.log.WithError(err).Error("season simulation")
		writeError(w, http.StatusInternalServerError, "season simulation failed")
		return
	}

	id := uuid.New()
	if err := s.store.CreateRun(id, cfg.Strategy, cfg.Runs, cfg.Seed); err != nil {
		s.log.WithError(err).Error("creating simulation run")
		writeError(w, http.StatusInternalServerError, "saving simulation run failed")
		return
	}
	if err := s.store.SaveTitleOdds(id, odds.Title); err != nil {
		s.log.WithError(err).Error("saving title odds")
		writeError(w, http.StatusInternalServerError, "saving title odds failed")
		return
	}

	writeJSON(w, http.StatusCreated, simulateSeasonResponse{
		RunID:     id.String(),
		Strategy:  cfg.Strategy,
		Runs:      odds.Runs,
		Seed:      cfg.Seed,
		Remaining: len(remaining),
		Title:     odds.Title,
		Positions: odds.Positions,
	})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if err := s.Rebuild(); err != nil {
		s.log.WithError(err).Error("rebuild")
		writeError(w, rebuildStatus(err), "rebuild failed")
		return
	}
	state := s.currentState()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "rebuilt",
		"teams":    len(state.ratings),
		"built_at": state.builtAt,
	})
}

// rebuildStatus distinguishes bad standings data from infrastructure trouble.
func rebuildStatus(err error) int {
	if errors.Is(err, engine.ErrEmptyStandings) || errors.Is(err, engine.ErrZeroScoringRate) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

type oddsResponse struct {
	RunID string              `json:"run_id"`
	Title []league.Prediction `json:"title"`
}

func (s *Server) handleOdds(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	preds, err := s.store.TitleOdds(id)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		s.log.WithError(err).Error("loading title odds")
		writeError(w, http.StatusInternalServerError, "loading title odds failed")
		return
	}
	writeJSON(w, http.StatusOK, oddsResponse{RunID: id.String(), Title: preds})
}
