package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapMean(values map[string]float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func TestModelFromStandingsBaseLambda(t *testing.T) {
	standings := Standings{
		"A": {Played: 10, GoalsFor: 20, GoalsAgainst: 10},
		"B": {Played: 10, GoalsFor: 10, GoalsAgainst: 20},
	}
	model, err := ModelFromStandings(standings, false)
	require.NoError(t, err)

	// League mean of per-team scoring rates: (2.0 + 1.0) / 2.
	assert.InDelta(t, 1.5, model.BaseLambda, 1e-12)
	assert.InDelta(t, 2.0/1.5, model.Attack["A"], 1e-12)
	assert.InDelta(t, 1.0/1.5, model.Attack["B"], 1e-12)
	assert.InDelta(t, 1.0/1.5, model.Defense["A"], 1e-12)
	assert.InDelta(t, 2.0/1.5, model.Defense["B"], 1e-12)
}

func TestModelFromStandingsNormalized(t *testing.T) {
	standings := Standings{
		"A": {Played: 12, GoalsFor: 30, GoalsAgainst: 12},
		"B": {Played: 10, GoalsFor: 11, GoalsAgainst: 22},
		"C": {Played: 8, GoalsFor: 9, GoalsAgainst: 14},
		"D": {Played: 11, GoalsFor: 15, GoalsAgainst: 17},
	}
	model, err := ModelFromStandings(standings, true)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, mapMean(model.Attack), 1e-9, "attack multipliers must have mean 1")
	assert.InDelta(t, 1.0, mapMean(model.Defense), 1e-9, "defense multipliers must have mean 1")
	assert.Greater(t, model.BaseLambda, 0.0)
	assert.Greater(t, model.Attack["A"], model.Attack["C"], "higher scoring rate means higher attack")
}

func TestModelFromTotalsMatchesSnapshot(t *testing.T) {
	standings := Standings{
		"A": {Played: 10, GoalsFor: 20, GoalsAgainst: 10},
		"B": {Played: 10, GoalsFor: 10, GoalsAgainst: 20},
		"C": {Played: 10, GoalsFor: 15, GoalsAgainst: 15},
	}
	gf := map[string]int{"A": 20, "B": 10, "C": 15}
	ga := map[string]int{"A": 10, "B": 20, "C": 15}
	games := map[string]int{"A": 10, "B": 10, "C": 10}

	fromSnapshot, err := ModelFromStandings(standings, true)
	require.NoError(t, err)
	fromTotals, err := ModelFromTotals(gf, ga, games, true)
	require.NoError(t, err)

	assert.InDelta(t, fromSnapshot.BaseLambda, fromTotals.BaseLambda, 1e-12)
	for name := range standings {
		assert.InDelta(t, fromSnapshot.Attack[name], fromTotals.Attack[name], 1e-12)
		assert.InDelta(t, fromSnapshot.Defense[name], fromTotals.Defense[name], 1e-12)
	}
}

func TestModelImputesUnplayedTeams(t *testing.T) {
	gf := map[string]int{"A": 20, "B": 10, "New": 0}
	ga := map[string]int{"A": 10, "B": 20, "New": 0}
	games := map[string]int{"A": 10, "B": 10, "New": 0}

	model, err := ModelFromTotals(gf, ga, games, false)
	require.NoError(t, err)

	// The unplayed team is imputed at the average rate of the played ones,
	// so its raw multiplier is exactly 1 and the baseline ignores it.
	assert.InDelta(t, 1.5, model.BaseLambda, 1e-12)
	assert.InDelta(t, 1.0, model.Attack["New"], 1e-12)
	assert.InDelta(t, 1.0, model.Defense["New"], 1e-12)

	snapshot := Standings{
		"A":   {Played: 10, GoalsFor: 20, GoalsAgainst: 10},
		"B":   {Played: 10, GoalsFor: 10, GoalsAgainst: 20},
		"New": {},
	}
	fromSnapshot, err := ModelFromStandings(snapshot, false)
	require.NoError(t, err)
	assert.InDelta(t, model.Attack["New"], fromSnapshot.Attack["New"], 1e-12,
		"both rebuild paths must apply the same zero-games policy")
}

func TestModelZeroScoringRate(t *testing.T) {
	standings := Standings{
		"A": {Played: 10},
		"B": {Played: 10},
	}
	_, err := ModelFromStandings(standings, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrZeroScoringRate)

	_, err = ModelFromTotals(map[string]int{}, map[string]int{}, map[string]int{"A": 0, "B": 0}, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrZeroScoringRate)
}

func TestModelEmptyInputs(t *testing.T) {
	_, err := ModelFromStandings(Standings{}, true)
	assert.ErrorIs(t, err, ErrEmptyStandings)

	_, err = ModelFromTotals(nil, nil, map[string]int{}, true)
	assert.ErrorIs(t, err, ErrEmptyStandings)
}

func TestModelRatesUnknownTeam(t *testing.T) {
	model, err := ModelFromStandings(Standings{
		"A": {Played: 2, GoalsFor: 3, GoalsAgainst: 1},
		"B": {Played: 2, GoalsFor: 1, GoalsAgainst: 3},
	}, true)
	require.NoError(t, err)

	_, _, err = model.Rates("Nowhere FC")
	assert.ErrorIs(t, err, ErrUnknownTeam)
}
