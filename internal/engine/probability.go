package engine

import (
	"fmt"
	"math"
)

// DefaultDrawRate is the league draw probability assumed before any match
// has been observed.
const DefaultDrawRate = 0.25

// ExpectedScore returns the Elo win expectancy of the home side against the
// away side.
func ExpectedScore(eloHome, eloAway float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (eloAway-eloHome)/400.0))
}

// MatchProbs splits the non-draw probability mass between the two sides by
// Elo expectancy and renormalizes, so the three components always sum to
// exactly 1 despite floating-point drift. The draw rate is league-wide and
// deliberately independent of the rating gap.
func MatchProbs(eloHome, eloAway, drawRate float64) (MatchProbabilities, error) {
	if drawRate < 0 || drawRate > 1 || math.IsNaN(drawRate) {
		return MatchProbabilities{}, fmt.Errorf("match probabilities: draw rate %v: %w", drawRate, ErrInvalidDrawRate)
	}

	exp := ExpectedScore(eloHome, eloAway)
	pHome := (1 - drawRate) * exp
	pAway := (1 - drawRate) * (1 - exp)
	total := pHome + pAway + drawRate

	return MatchProbabilities{
		HomeWin: pHome / total,
		Draw:    drawRate / total,
		AwayWin: pAway / total,
	}, nil
}

// EstimateDrawRate estimates the league draw probability from a standings
// snapshot as total draws over total matches. Per-team counters record every
// match twice, once for each side, so the double counting cancels in the
// ratio. Returns DefaultDrawRate when nothing has been played yet.
func EstimateDrawRate(standings Standings) float64 {
	var draws, matches float64
	for _, st := range standings {
		draws += float64(st.Draws)
		matches += float64(st.Played)
	}
	if matches <= 0 {
		return DefaultDrawRate
	}
	return draws / matches
}
