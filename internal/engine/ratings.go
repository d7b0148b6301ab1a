package engine

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RatingParams weight the standings signals that seed the initial ratings.
type RatingParams struct {
	Alpha float64 `json:"alpha"` // points per match
	Beta  float64 `json:"beta"`  // goal difference per match
	Gamma float64 `json:"gamma"` // goals scored per match
	Sigma float64 `json:"sigma"` // rating spread around 1500
}

// DefaultRatingParams returns the weights used when nothing is configured.
func DefaultRatingParams() RatingParams {
	return RatingParams{Alpha: 1.0, Beta: 0.8, Gamma: 0.2, Sigma: 100.0}
}

// InitialRatings derives a starting Elo table from a standings snapshot.
// Each team gets a raw skill score alpha*Pts/M + beta*GD/M + gamma*GF/M
// (M floored to 1 so an unplayed team scores 0 instead of dividing by
// zero), the scores are standardized over the league with the population
// deviation, and the z-scores are mapped onto 1500 + sigma*z rounded to the
// nearest integer. The rounded table keeps its mean at 1500 up to rounding.
func InitialRatings(standings Standings, p RatingParams) (RatingTable, error) {
	if len(standings) == 0 {
		return nil, fmt.Errorf("initial ratings: %w", ErrEmptyStandings)
	}

	names := sortedNames(standings)
	scores := make([]float64, len(names))
	for i, name := range names {
		st := standings[name]
		m := float64(st.Played)
		if m <= 0 {
			m = 1
		}
		scores[i] = p.Alpha*float64(st.Points)/m +
			p.Beta*float64(st.GoalDiff)/m +
			p.Gamma*float64(st.GoalsFor)/m
	}

	mean := stat.Mean(scores, nil)
	std := stat.PopStdDev(scores, nil)
	if std == 0 {
		std = 1
	}

	ratings := make(RatingTable, len(names))
	for i, name := range names {
		z := (scores[i] - mean) / std
		ratings[name] = math.Round(1500 + p.Sigma*z)
	}
	return ratings, nil
}

// sortedNames fixes an iteration order so score slices and name slices stay
// aligned across the package.
func sortedNames(standings Standings) []string {
	names := make([]string, 0, len(standings))
	for name := range standings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
