package engine

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ModelFromStandings derives the league goal model from a season snapshot.
// base_lambda is the league mean of per-team goals scored per match; each
// team's attack (defense) multiplier is its scoring (conceding) rate over
// that baseline. With normalize set, attack and defense are each rescaled by
// their own cross-team mean so both maps come out with mean exactly 1.
//
// Teams with zero recorded matches are imputed at the cross-team average
// rate instead of contributing a zero rate; the same policy applies to
// ModelFromTotals, so early-season rebuilds never drag the baseline down
// with phantom zeros.
func ModelFromStandings(standings Standings, normalize bool) (*GoalModel, error) {
	if len(standings) == 0 {
		return nil, fmt.Errorf("goal model: %w", ErrEmptyStandings)
	}

	names := sortedNames(standings)
	scored := make([]float64, len(names))
	conceded := make([]float64, len(names))
	seen := make([]bool, len(names))
	for i, name := range names {
		st := standings[name]
		if st.Played > 0 {
			scored[i] = float64(st.GoalsFor) / float64(st.Played)
			conceded[i] = float64(st.GoalsAgainst) / float64(st.Played)
			seen[i] = true
		}
	}
	imputeUnseen(scored, seen)
	imputeUnseen(conceded, seen)

	return buildModel(names, scored, conceded, normalize)
}

// ModelFromTotals rebuilds the goal model mid-season from running per-team
// counters, without a full standings snapshot. Keys are taken from games;
// missing goalsFor/goalsAgainst entries count as zero. Zero-games teams are
// imputed at the cross-team average rate, matching ModelFromStandings.
func ModelFromTotals(goalsFor, goalsAgainst, games map[string]int, normalize bool) (*GoalModel, error) {
	if len(games) == 0 {
		return nil, fmt.Errorf("goal model: %w", ErrEmptyStandings)
	}

	names := make([]string, 0, len(games))
	for name := range games {
		names = append(names, name)
	}
	sort.Strings(names)

	scored := make([]float64, len(names))
	conceded := make([]float64, len(names))
	seen := make([]bool, len(names))
	for i, name := range names {
		if n := games[name]; n > 0 {
			scored[i] = float64(goalsFor[name]) / float64(n)
			conceded[i] = float64(goalsAgainst[name]) / float64(n)
			seen[i] = true
		}
	}
	imputeUnseen(scored, seen)
	imputeUnseen(conceded, seen)

	return buildModel(names, scored, conceded, normalize)
}

// imputeUnseen fills rates of teams without matches with the average rate of
// the teams that have played. With no played teams at all the rates stay
// zero and buildModel rejects the snapshot.
func imputeUnseen(rates []float64, seen []bool) {
	var sum float64
	var n int
	for i, ok := range seen {
		if ok {
			sum += rates[i]
			n++
		}
	}
	if n == 0 || n == len(rates) {
		return
	}
	avg := sum / float64(n)
	for i, ok := range seen {
		if !ok {
			rates[i] = avg
		}
	}
}

func buildModel(names []string, scored, conceded []float64, normalize bool) (*GoalModel, error) {
	base := stat.Mean(scored, nil)
	if base <= 0 || math.IsNaN(base) || math.IsInf(base, 0) {
		return nil, fmt.Errorf("goal model: base lambda %v: %w", base, ErrZeroScoringRate)
	}

	attack := make([]float64, len(names))
	defense := make([]float64, len(names))
	for i := range names {
		attack[i] = scored[i] / base
		defense[i] = conceded[i] / base
	}

	if normalize {
		rescaleToUnitMean(attack)
		rescaleToUnitMean(defense)
	}

	model := &GoalModel{
		BaseLambda: base,
		Attack:     make(map[string]float64, len(names)),
		Defense:    make(map[string]float64, len(names)),
	}
	for i, name := range names {
		model.Attack[name] = attack[i]
		model.Defense[name] = defense[i]
	}
	return model, nil
}

// rescaleToUnitMean divides every multiplier by the cross-team mean. A zero
// mean (all-zero multipliers) is left alone; buildModel has already vetted
// the scoring baseline at that point.
func rescaleToUnitMean(values []float64) {
	mean := stat.Mean(values, nil)
	if mean == 0 {
		return
	}
	for i := range values {
		values[i] /= mean
	}
}
