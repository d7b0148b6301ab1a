// Package season replays fixtures through the engine, carrying rating
// updates forward between matches, and aggregates Monte Carlo outcome odds.
package season

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/utakatalp/match-simulator/internal/engine"
	"github.com/utakatalp/match-simulator/internal/league"
)

// Config selects the sampling strategy and its tuning.
type Config struct {
	Strategy  string
	K         float64
	DrawBias  float64
	EloFactor float64
	Runs      int
	Seed      uint64
}

// DefaultConfig returns the tuning used when nothing is configured.
func DefaultConfig() Config {
	params := engine.DefaultHybridParams()
	return Config{
		Strategy:  engine.StrategyHybrid,
		K:         engine.DefaultK,
		DrawBias:  params.DrawBias,
		EloFactor: params.EloFactor,
		Runs:      10000,
		Seed:      1,
	}
}

// Simulation replays fixtures against a base model state. The base rating
// table is never mutated: every replay works on its own copy.
type Simulation struct {
	cfg   Config
	model *engine.GoalModel
	base  engine.RatingTable
	log   *logrus.Logger
}

// New builds a Simulation over the given model state.
func New(cfg Config, model *engine.GoalModel, ratings engine.RatingTable, log *logrus.Logger) *Simulation {
	return &Simulation{cfg: cfg, model: model, base: ratings, log: log}
}

// Replay plays every fixture in order with a fresh rating copy. Each fixture
// is one atomic step: simulate, classify, write both rating updates back, so
// later fixtures see the adjusted ratings. Returns the resolved fixtures and
// the final rating table.
func (s *Simulation) Replay(fixtures []league.Match, src rand.Source) ([]league.Match, engine.RatingTable, error) {
	ratings := s.base.Clone()
	sim, err := engine.NewSimulator(s.cfg.Strategy, s.model, ratings, engine.HybridParams{
		EloFactor: s.cfg.EloFactor,
		DrawBias:  s.cfg.DrawBias,
	}, src)
	if err != nil {
		return nil, nil, fmt.Errorf("replay: %w", err)
	}

	played := make([]league.Match, len(fixtures))
	for i, m := range fixtures {
		sc, err := sim.Simulate(m.Home, m.Away)
		if err != nil {
			return nil, nil, fmt.Errorf("replay round %d %s vs %s: %w", m.Round, m.Home, m.Away, err)
		}
		m.HomeGoals = sc.HomeGoals
		m.AwayGoals = sc.AwayGoals
		m.Played = true
		played[i] = m

		outcome := engine.MatchResult(sc.HomeGoals, sc.AwayGoals)
		ratings[m.Home], ratings[m.Away] = engine.UpdateElo(ratings[m.Home], ratings[m.Away], outcome, s.cfg.K)
	}
	return played, ratings, nil
}
