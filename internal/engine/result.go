package engine

// MatchResult maps a final scoreline to the canonical outcome pair: win
// (1,0), draw (0.5,0.5), loss (0,1).
func MatchResult(homeGoals, awayGoals int) OutcomeScore {
	switch {
	case homeGoals > awayGoals:
		return OutcomeScore{Home: 1, Away: 0}
	case homeGoals < awayGoals:
		return OutcomeScore{Home: 0, Away: 1}
	default:
		return OutcomeScore{Home: 0.5, Away: 0.5}
	}
}
