package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableFromMatches(t *testing.T) {
	matches := []Match{
		{Round: 1, Home: "A", Away: "B", HomeGoals: 2, AwayGoals: 0, Played: true},
		{Round: 1, Home: "C", Away: "D", HomeGoals: 1, AwayGoals: 1, Played: true},
		{Round: 2, Home: "B", Away: "C", HomeGoals: 0, AwayGoals: 3, Played: true},
		{Round: 2, Home: "D", Away: "A", HomeGoals: 2, AwayGoals: 2, Played: true},
		{Round: 3, Home: "A", Away: "C"}, // not played yet
	}

	rows := Table(matches)
	require.Len(t, rows, 4)

	// A: W+D = 4 pts, GD +2. C: W+D = 4 pts, GD +3. C tops on goal diff.
	assert.Equal(t, "C", rows[0].Name)
	assert.Equal(t, "A", rows[1].Name)
	assert.Equal(t, 4, rows[0].Points)
	assert.Equal(t, 4, rows[1].Points)
	assert.Equal(t, 3, rows[0].GoalDiff)
	assert.Equal(t, 2, rows[1].GoalDiff)

	assert.Equal(t, "D", rows[2].Name)
	assert.Equal(t, 2, rows[2].Points)
	assert.Equal(t, "B", rows[3].Name)
	assert.Equal(t, 0, rows[3].Points)

	// The unplayed fixture must not count.
	assert.Equal(t, 2, rows[1].Played)
}

func TestTableTiebreakers(t *testing.T) {
	matches := []Match{
		// One win each, engineered so points and goal diff tie and
		// goals-for decides.
		{Home: "X", Away: "Filler", HomeGoals: 3, AwayGoals: 1, Played: true},
		{Home: "Y", Away: "Filler", HomeGoals: 2, AwayGoals: 0, Played: true},
	}
	rows := Table(matches)
	require.Len(t, rows, 3)
	assert.Equal(t, "X", rows[0].Name, "equal points and goal diff resolve by goals for")
	assert.Equal(t, "Y", rows[1].Name)
}

func TestTableNameTiebreak(t *testing.T) {
	matches := []Match{
		{Home: "Zebra", Away: "Aardvark", HomeGoals: 0, AwayGoals: 0, Played: true},
	}
	rows := Table(matches)
	require.Len(t, rows, 2)
	assert.Equal(t, "Aardvark", rows[0].Name, "identical records sort by name")
}

func TestTableFromTeams(t *testing.T) {
	teams := []*Team{
		{Name: "B", Played: 2, Win: 1, Draw: 0, Lose: 1, GoalsFor: 3, GoalsAgainst: 3, Points: 3},
		{Name: "A", Played: 2, Win: 2, Draw: 0, Lose: 0, GoalsFor: 5, GoalsAgainst: 1, Points: 6},
	}
	rows := TableFromTeams(teams)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Name)
	assert.Equal(t, 4, rows[0].GoalDiff)
	assert.Equal(t, "B", rows[1].Name)
}

func TestStandingsConversion(t *testing.T) {
	team := &Team{
		Name: "A", Played: 10, Win: 6, Draw: 2, Lose: 2,
		GoalsFor: 20, GoalsAgainst: 9, Points: 20,
	}
	st := team.Standing()
	assert.Equal(t, 10, st.Played)
	assert.Equal(t, 20, st.Points)
	assert.Equal(t, 11, st.GoalDiff)
	assert.Equal(t, 2, st.Draws)

	standings := Standings([]*Team{team})
	require.Contains(t, standings, "A")
	assert.Equal(t, st, standings["A"])
}
