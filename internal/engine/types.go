// Package engine holds the rating and simulation core: Elo initialization
// and update, league goal modeling, outcome probabilities, and stochastic
// scoreline sampling. Everything here is a pure numeric transform; the only
// randomness is the injected source consumed by the simulators.
package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyStandings reports a model build over zero teams.
	ErrEmptyStandings = errors.New("standings are empty")

	// ErrUnknownTeam reports a lookup for a team the model has never seen.
	ErrUnknownTeam = errors.New("unknown team")

	// ErrInvalidDrawRate reports a draw probability outside [0, 1].
	ErrInvalidDrawRate = errors.New("draw rate outside [0,1]")

	// ErrZeroScoringRate reports a standings snapshot with no goals to
	// derive a scoring baseline from.
	ErrZeroScoringRate = errors.New("league scoring rate is zero")

	// ErrInvalidExpectedGoals reports a negative or non-finite Poisson mean.
	ErrInvalidExpectedGoals = errors.New("expected goals negative or non-finite")
)

// TeamStanding is one team's season snapshot as supplied by the standings
// loader. GoalDiff is expected to equal GoalsFor-GoalsAgainst.
type TeamStanding struct {
	Played       int `json:"played"`
	Points       int `json:"points"`
	GoalDiff     int `json:"goal_diff"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
	Draws        int `json:"draws"`
}

// Standings maps team name to its season snapshot.
type Standings map[string]TeamStanding

// RatingTable maps team name to an Elo rating centered near 1500. It is the
// single piece of state a season simulation mutates between fixtures.
type RatingTable map[string]float64

// Clone returns an independent copy, so one simulation run cannot leak
// rating updates into another.
func (r RatingTable) Clone() RatingTable {
	out := make(RatingTable, len(r))
	for name, elo := range r {
		out[name] = elo
	}
	return out
}

// Pair returns both teams' ratings, failing on a name the table does not
// contain.
func (r RatingTable) Pair(home, away string) (float64, float64, error) {
	eloHome, ok := r[home]
	if !ok {
		return 0, 0, fmt.Errorf("team %q: %w", home, ErrUnknownTeam)
	}
	eloAway, ok := r[away]
	if !ok {
		return 0, 0, fmt.Errorf("team %q: %w", away, ErrUnknownTeam)
	}
	return eloHome, eloAway, nil
}

// GoalModel carries the league scoring baseline and per-team attack/defense
// multipliers. After a normalized build both multiplier maps have mean 1, so
// BaseLambda*Attack[a]*Defense[b] reads as expected goals relative to a
// league-average pairing.
type GoalModel struct {
	BaseLambda float64            `json:"base_lambda"`
	Attack     map[string]float64 `json:"attack"`
	Defense    map[string]float64 `json:"defense"`
}

// Rates returns the team's attack and defense multipliers.
func (m *GoalModel) Rates(team string) (attack, defense float64, err error) {
	attack, ok := m.Attack[team]
	if !ok {
		return 0, 0, fmt.Errorf("team %q: %w", team, ErrUnknownTeam)
	}
	defense, ok = m.Defense[team]
	if !ok {
		return 0, 0, fmt.Errorf("team %q: %w", team, ErrUnknownTeam)
	}
	return attack, defense, nil
}

// MatchProbabilities is a win/draw/win split. Components are in [0,1] and
// sum to 1 after renormalization.
type MatchProbabilities struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

// Scoreline is a sampled or observed final score.
type Scoreline struct {
	HomeGoals int `json:"home_goals"`
	AwayGoals int `json:"away_goals"`
}

// OutcomeScore is the canonical match outcome pair: (1,0), (0.5,0.5) or
// (0,1).
type OutcomeScore struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}
