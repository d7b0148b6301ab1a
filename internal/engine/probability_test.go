package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedScore(t *testing.T) {
	assert.InDelta(t, 0.5, ExpectedScore(1500, 1500), 1e-12)

	// 400 points of rating should be worth about a 10:1 expectancy.
	assert.InDelta(t, 10.0/11.0, ExpectedScore(1900, 1500), 1e-9)

	for _, gap := range []float64{0, 50, 120, 400, 900} {
		sum := ExpectedScore(1500+gap, 1500) + ExpectedScore(1500, 1500+gap)
		assert.InDelta(t, 1.0, sum, 1e-9, "expectancies of both sides must complement")
	}
}

func TestMatchProbsSumToOne(t *testing.T) {
	cases := []struct {
		name     string
		home     float64
		away     float64
		drawRate float64
	}{
		{"equal ratings", 1500, 1500, 0.25},
		{"strong home", 1780, 1430, 0.25},
		{"strong away", 1410, 1755, 0.30},
		{"no draws", 1600, 1500, 0.0},
		{"all draws", 1600, 1500, 1.0},
		{"tiny draw rate", 1502, 1498, 1e-9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			probs, err := MatchProbs(tc.home, tc.away, tc.drawRate)
			require.NoError(t, err)

			for _, p := range []float64{probs.HomeWin, probs.Draw, probs.AwayWin} {
				assert.GreaterOrEqual(t, p, 0.0)
				assert.LessOrEqual(t, p, 1.0)
			}
			sum := probs.HomeWin + probs.Draw + probs.AwayWin
			assert.InDelta(t, 1.0, sum, 1e-12)
		})
	}
}

func TestMatchProbsSymmetricAtEqualRatings(t *testing.T) {
	probs, err := MatchProbs(1500, 1500, 0.25)
	require.NoError(t, err)
	assert.Equal(t, probs.HomeWin, probs.AwayWin)
	assert.InDelta(t, 0.25, probs.Draw, 1e-12)
}

func TestMatchProbsFavorsHigherRating(t *testing.T) {
	probs, err := MatchProbs(1650, 1450, 0.25)
	require.NoError(t, err)
	assert.Greater(t, probs.HomeWin, probs.AwayWin)
}

func TestMatchProbsRejectsBadDrawRate(t *testing.T) {
	for _, rate := range []float64{-0.01, 1.01, math.NaN()} {
		_, err := MatchProbs(1500, 1500, rate)
		assert.ErrorIs(t, err, ErrInvalidDrawRate, "draw rate %v must be rejected", rate)
	}
}

func TestEstimateDrawRate(t *testing.T) {
	standings := Standings{
		"A": {Played: 10, Draws: 4},
		"B": {Played: 10, Draws: 2},
		"C": {Played: 10, Draws: 3},
		"D": {Played: 10, Draws: 1},
	}
	// 10 draw participations over 40 match participations.
	assert.InDelta(t, 0.25, EstimateDrawRate(standings), 1e-12)

	assert.Equal(t, DefaultDrawRate, EstimateDrawRate(Standings{}))
	assert.Equal(t, DefaultDrawRate, EstimateDrawRate(Standings{"A": {}, "B": {}}))
}
