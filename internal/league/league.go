// Package league holds the plain season records the engine consumes:
// team standings rows, fixtures, and table computation.
package league

import (
	"fmt"

	"github.com/utakatalp/match-simulator/internal/engine"
)

// Team is one club's stored season record.
type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Played       int    `json:"played"`
	Win          int    `json:"win"`
	Draw         int    `json:"draw"`
	Lose         int    `json:"lose"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	Points       int    `json:"points"`
}

// Standing converts the record into the engine's snapshot form.
func (t *Team) Standing() engine.TeamStanding {
	return engine.TeamStanding{
		Played:       t.Played,
		Points:       t.Points,
		GoalDiff:     t.GoalsFor - t.GoalsAgainst,
		GoalsFor:     t.GoalsFor,
		GoalsAgainst: t.GoalsAgainst,
		Draws:        t.Draw,
	}
}

// Standings collects team records into an engine snapshot keyed by name.
func Standings(teams []*Team) engine.Standings {
	standings := make(engine.Standings, len(teams))
	for _, t := range teams {
		standings[t.Name] = t.Standing()
	}
	return standings
}

// Names lists the team names in record order.
func Names(teams []*Team) []string {
	names := make([]string, len(teams))
	for i, t := range teams {
		names[i] = t.Name
	}
	return names
}

// Match is one fixture, scheduled or resolved. Teams are referenced by name
// so fixtures stay decoupled from any particular standings snapshot.
type Match struct {
	ID        int    `json:"id,omitempty"`
	Round     int    `json:"round"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
	Played    bool   `json:"played"`
}

// Score renders the match result for logs.
func (m *Match) Score() string {
	return fmt.Sprintf("%s %d - %d %s", m.Home, m.HomeGoals, m.AwayGoals, m.Away)
}

// TableEntry is one row of the league table.
type TableEntry struct {
	Name         string `json:"name"`
	Played       int    `json:"played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	GoalDiff     int    `json:"goal_diff"`
	Points       int    `json:"points"`
}

// Prediction pairs a team with the probability of an outcome, as a fraction
// in [0,1] rounded to four decimals.
type Prediction struct {
	Team        string  `json:"team"`
	Probability float64 `json:"probability"`
}
