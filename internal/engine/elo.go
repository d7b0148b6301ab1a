package engine

// DefaultK is the rating sensitivity used when nothing is configured.
const DefaultK = 20.0

// UpdateElo applies the standard Elo adjustment for one resolved match and
// returns both new ratings. The expectancy uses ratings only, never the draw
// rate. Pure function: the caller writes the results back into its
// RatingTable.
func UpdateElo(eloHome, eloAway float64, score OutcomeScore, k float64) (newHome, newAway float64) {
	expHome := ExpectedScore(eloHome, eloAway)
	expAway := ExpectedScore(eloAway, eloHome)
	newHome = eloHome + k*(score.Home-expHome)
	newAway = eloAway + k*(score.Away-expAway)
	return newHome, newAway
}
