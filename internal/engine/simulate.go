package engine

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Strategy names accepted by NewSimulator.
const (
	StrategyElo    = "elo"
	StrategyHybrid = "hybrid"
)

// goalScale is the Elo-to-goals divisor. It is deliberately flatter than the
// 400 used for win expectancy so rating gaps move goal counts gently.
const goalScale = 800.0

// Simulator samples a single match's final score. Implementations read the
// RatingTable they were built with on every call, so rating updates between
// fixtures feed forward into later ones.
type Simulator interface {
	Simulate(home, away string) (Scoreline, error)
}

// HybridParams tune the attack/defense strategy.
type HybridParams struct {
	// EloFactor scales the multiplicative rating correction on expected
	// goals; 0 disables the correction entirely.
	EloFactor float64
	// DrawBias is the probability of collapsing a decisive sample into a
	// draw, compensating for Poisson under-producing draws.
	DrawBias float64
}

// DefaultHybridParams returns the tuning used when nothing is configured.
func DefaultHybridParams() HybridParams {
	return HybridParams{EloFactor: goalScale, DrawBias: 0.1}
}

// NewSimulator builds the configured sampling strategy over the given model
// state and random source.
func NewSimulator(strategy string, model *GoalModel, ratings RatingTable, params HybridParams, src rand.Source) (Simulator, error) {
	switch strategy {
	case StrategyElo:
		return NewEloSimulator(ratings, model.BaseLambda, src), nil
	case StrategyHybrid:
		return NewHybridSimulator(model, ratings, params, src)
	default:
		return nil, fmt.Errorf("unknown simulator strategy %q", strategy)
	}
}

// EloSimulator derives expected goals from the rating gap alone: the league
// baseline scaled by 10^(gap/800) in opposite directions for the two sides.
type EloSimulator struct {
	ratings    RatingTable
	baseLambda float64
	src        rand.Source
}

// NewEloSimulator builds the rating-only strategy.
func NewEloSimulator(ratings RatingTable, baseLambda float64, src rand.Source) *EloSimulator {
	return &EloSimulator{ratings: ratings, baseLambda: baseLambda, src: src}
}

// Simulate samples one scoreline from two independent Poisson draws.
func (s *EloSimulator) Simulate(home, away string) (Scoreline, error) {
	eloHome, eloAway, err := s.ratings.Pair(home, away)
	if err != nil {
		return Scoreline{}, err
	}
	gap := (eloHome - eloAway) / goalScale
	expHome := s.baseLambda * math.Pow(10, gap)
	expAway := s.baseLambda * math.Pow(10, -gap)
	return samplePair(s.src, expHome, expAway)
}

// HybridSimulator derives expected goals from the attack/defense model, with
// an optional Elo correction and a post-sampling draw bias.
type HybridSimulator struct {
	model   *GoalModel
	ratings RatingTable
	params  HybridParams
	src     rand.Source
	rng     *rand.Rand
}

// NewHybridSimulator builds the attack/defense strategy. DrawBias must be a
// probability; EloFactor must be non-negative (0 turns the rating correction
// off).
func NewHybridSimulator(model *GoalModel, ratings RatingTable, params HybridParams, src rand.Source) (*HybridSimulator, error) {
	if params.DrawBias < 0 || params.DrawBias > 1 || math.IsNaN(params.DrawBias) {
		return nil, fmt.Errorf("hybrid simulator: draw bias %v: %w", params.DrawBias, ErrInvalidDrawRate)
	}
	if params.EloFactor < 0 {
		return nil, fmt.Errorf("hybrid simulator: elo factor must be non-negative, got %v", params.EloFactor)
	}
	return &HybridSimulator{
		model:   model,
		ratings: ratings,
		params:  params,
		src:     src,
		rng:     rand.New(src),
	}, nil
}

// Simulate samples one scoreline. Expected goals are
// base*attack(side)*defense(opponent), optionally corrected by the rating
// gap, and a decisive sample is collapsed into a draw with probability
// DrawBias by rounding both sides to their average.
func (s *HybridSimulator) Simulate(home, away string) (Scoreline, error) {
	attackHome, defenseHome, err := s.model.Rates(home)
	if err != nil {
		return Scoreline{}, err
	}
	attackAway, defenseAway, err := s.model.Rates(away)
	if err != nil {
		return Scoreline{}, err
	}

	expHome := s.model.BaseLambda * attackHome * defenseAway
	expAway := s.model.BaseLambda * attackAway * defenseHome

	if s.params.EloFactor > 0 {
		eloHome, eloAway, err := s.ratings.Pair(home, away)
		if err != nil {
			return Scoreline{}, err
		}
		corr := math.Pow(10, (eloHome-eloAway)/s.params.EloFactor)
		expHome *= corr
		expAway /= corr
	}

	sc, err := samplePair(s.src, expHome, expAway)
	if err != nil {
		return Scoreline{}, err
	}

	if sc.HomeGoals != sc.AwayGoals && s.rng.Float64() < s.params.DrawBias {
		avg := int(math.Round(float64(sc.HomeGoals+sc.AwayGoals) / 2))
		if avg < 0 {
			avg = 0
		}
		sc.HomeGoals, sc.AwayGoals = avg, avg
	}
	return sc, nil
}

// samplePair vets both Poisson means and draws the two goal counts
// independently. A zero mean is legitimate (a side that has never scored);
// negative or non-finite means indicate a corrupted model and fail fast.
func samplePair(src rand.Source, expHome, expAway float64) (Scoreline, error) {
	if err := checkLambda(expHome); err != nil {
		return Scoreline{}, fmt.Errorf("home expected goals: %w", err)
	}
	if err := checkLambda(expAway); err != nil {
		return Scoreline{}, fmt.Errorf("away expected goals: %w", err)
	}
	return Scoreline{
		HomeGoals: samplePoisson(src, expHome),
		AwayGoals: samplePoisson(src, expAway),
	}, nil
}

func checkLambda(lambda float64) error {
	if lambda < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return fmt.Errorf("%v: %w", lambda, ErrInvalidExpectedGoals)
	}
	return nil
}

func samplePoisson(src rand.Source, lambda float64) int {
	if lambda == 0 {
		return 0
	}
	p := distuv.Poisson{Lambda: lambda, Src: src}
	return int(p.Rand())
}
