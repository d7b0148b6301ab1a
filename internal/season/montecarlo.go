package season

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/utakatalp/match-simulator/internal/league"
)

// Odds aggregates Monte Carlo season outcomes. Title carries each team's
// championship probability sorted descending; Positions maps a team to its
// probability of finishing in each table position (index 0 = first place).
type Odds struct {
	Runs      int                  `json:"runs"`
	Title     []league.Prediction  `json:"title"`
	Positions map[string][]float64 `json:"positions"`
}

// TitleOdds replays the remaining fixtures cfg.Runs times on top of the
// already-played matches and counts final table positions. Run r draws from
// a source seeded with Seed+r, so results are reproducible given the config.
func (s *Simulation) TitleOdds(playedMatches, remaining []league.Match) (*Odds, error) {
	if s.cfg.Runs <= 0 {
		return nil, fmt.Errorf("title odds: runs must be positive, got %d", s.cfg.Runs)
	}

	start := time.Now()
	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"runs":      s.cfg.Runs,
			"remaining": len(remaining),
			"strategy":  s.cfg.Strategy,
		}).Debug("starting title simulation")
	}

	titles := make(map[string]int)
	positions := make(map[string][]int)
	var teams int

	for run := 0; run < s.cfg.Runs; run++ {
		src := rand.NewSource(s.cfg.Seed + uint64(run))
		replayed, _, err := s.Replay(remaining, src)
		if err != nil {
			return nil, err
		}

		all := make([]league.Match, 0, len(playedMatches)+len(replayed))
		all = append(all, playedMatches...)
		all = append(all, replayed...)
		rows := league.Table(all)
		if len(rows) == 0 {
			return nil, fmt.Errorf("title odds: no resolved matches to rank")
		}
		if teams == 0 {
			teams = len(rows)
		}

		titles[rows[0].Name]++
		for pos, row := range rows {
			if _, ok := positions[row.Name]; !ok {
				positions[row.Name] = make([]int, teams)
			}
			positions[row.Name][pos]++
		}
	}

	odds := &Odds{
		Runs:      s.cfg.Runs,
		Title:     make([]league.Prediction, 0, teams),
		Positions: make(map[string][]float64, teams),
	}
	for name, counts := range positions {
		probs := make([]float64, len(counts))
		for pos, n := range counts {
			probs[pos] = roundProb(float64(n) / float64(s.cfg.Runs))
		}
		odds.Positions[name] = probs
		odds.Title = append(odds.Title, league.Prediction{
			Team:        name,
			Probability: roundProb(float64(titles[name]) / float64(s.cfg.Runs)),
		})
	}
	sort.Slice(odds.Title, func(i, j int) bool {
		if odds.Title[i].Probability != odds.Title[j].Probability {
			return odds.Title[i].Probability > odds.Title[j].Probability
		}
		return odds.Title[i].Team < odds.Title[j].Team
	})

	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"runs":     s.cfg.Runs,
			"teams":    teams,
			"duration": time.Since(start),
		}).Info("title simulation complete")
	}
	return odds, nil
}

func roundProb(p float64) float64 {
	return math.Round(p*10000) / 10000
}
