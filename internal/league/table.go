package league

import "sort"

// Table recomputes standings rows from resolved matches. Unplayed fixtures
// are skipped. Ordering: points, goal difference, goals for, then name.
func Table(matches []Match) []TableEntry {
	entries := make(map[string]*TableEntry)
	ensure := func(name string) *TableEntry {
		e, ok := entries[name]
		if !ok {
			e = &TableEntry{Name: name}
			entries[name] = e
		}
		return e
	}

	for _, m := range matches {
		if !m.Played {
			continue
		}
		home, away := ensure(m.Home), ensure(m.Away)

		home.Played++
		away.Played++
		home.GoalsFor += m.HomeGoals
		home.GoalsAgainst += m.AwayGoals
		away.GoalsFor += m.AwayGoals
		away.GoalsAgainst += m.HomeGoals

		switch {
		case m.HomeGoals > m.AwayGoals:
			home.Wins++
			away.Losses++
			home.Points += 3
		case m.HomeGoals < m.AwayGoals:
			away.Wins++
			home.Losses++
			away.Points += 3
		default:
			home.Draws++
			away.Draws++
			home.Points++
			away.Points++
		}
	}

	rows := make([]TableEntry, 0, len(entries))
	for _, e := range entries {
		e.GoalDiff = e.GoalsFor - e.GoalsAgainst
		rows = append(rows, *e)
	}
	SortTable(rows)
	return rows
}

// TableFromTeams renders stored records as table rows without replaying
// matches.
func TableFromTeams(teams []*Team) []TableEntry {
	rows := make([]TableEntry, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, TableEntry{
			Name:         t.Name,
			Played:       t.Played,
			Wins:         t.Win,
			Draws:        t.Draw,
			Losses:       t.Lose,
			GoalsFor:     t.GoalsFor,
			GoalsAgainst: t.GoalsAgainst,
			GoalDiff:     t.GoalsFor - t.GoalsAgainst,
			Points:       t.Points,
		})
	}
	SortTable(rows)
	return rows
}

// SortTable orders rows by points, goal difference, goals for, then name.
func SortTable(rows []TableEntry) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Name < b.Name
	})
}
