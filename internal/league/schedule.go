package league

// Rounds builds a single round-robin schedule with the circle rotation
// method: the first team stays fixed while the rest rotate one slot per
// round. An odd team count gets a blank slot, and pairings against it are
// dropped, which gives every team one bye per cycle.
func Rounds(teams []string) [][]Match {
	if len(teams) < 2 {
		return nil
	}
	names := make([]string, len(teams))
	copy(names, teams)
	if len(names)%2 != 0 {
		names = append(names, "")
	}
	n := len(names)

	rounds := make([][]Match, n-1)
	for i := 0; i < n-1; i++ {
		round := make([]Match, 0, n/2)
		for j := 0; j < n/2; j++ {
			home, away := names[j], names[n-1-j]
			if home == "" || away == "" {
				continue
			}
			round = append(round, Match{Round: i + 1, Home: home, Away: away})
		}
		rounds[i] = round

		last := names[n-1]
		copy(names[2:], names[1:n-1])
		names[1] = last
	}
	return rounds
}

// FullSeason doubles the round-robin with home and away swapped in the
// second half, continuing the round numbering.
func FullSeason(teams []string) [][]Match {
	first := Rounds(teams)
	season := make([][]Match, 0, len(first)*2)
	season = append(season, first...)
	for i, rnd := range first {
		swapped := make([]Match, len(rnd))
		for j, m := range rnd {
			swapped[j] = Match{Round: len(first) + i + 1, Home: m.Away, Away: m.Home}
		}
		season = append(season, swapped)
	}
	return season
}

// Flatten lays rounds out in playing order.
func Flatten(rounds [][]Match) []Match {
	var matches []Match
	for _, rnd := range rounds {
		matches = append(matches, rnd...)
	}
	return matches
}

// Remaining returns the fixtures of a full double round-robin among teams
// that do not appear in played, keyed by home/away pairing. Each pairing is
// expected at most once per venue.
func Remaining(teams []string, played []Match) []Match {
	type pairing struct {
		home, away string
	}
	seen := make(map[pairing]bool, len(played))
	for _, m := range played {
		seen[pairing{m.Home, m.Away}] = true
	}
	var remaining []Match
	for _, m := range Flatten(FullSeason(teams)) {
		if seen[pairing{m.Home, m.Away}] {
			continue
		}
		remaining = append(remaining, m)
	}
	return remaining
}
