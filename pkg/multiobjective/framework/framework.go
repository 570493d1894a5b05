package framework

import (
	"context"
	"math"
	"math/rand/v2"
)

// Problem describes the contract a specific multi-objective problem needs to implement.
type Problem interface {
	Name() string

	// NumObjectives is the length of every ObjectiveSpacePoint the
	// problem's evaluator produces.
	NumObjectives() int

	Evaluator() Evaluator
	Initialize(rng *rand.Rand, popSize int) ([]Solution, error)

	// TrueParetoFront is optional due to the difficulty of finding the true front
	// in some types of problems. When there isn't a way to find the true front,
	// just return nil.
	TrueParetoFront(int) []ObjectiveSpacePoint
}

// Solution is one point in the decision space. Crossover returns a child that
// shares no mutable state with either parent; Mutate perturbs the receiver in
// place. Both return an error when the receiver or counterpart violates the
// problem's schema, which indicates a broken caller rather than a noisy
// environment.
type Solution interface {
	Clone() Solution
	Crossover(rng *rand.Rand, other Solution) (Solution, error)
	Mutate(rng *rand.Rand, rate float64) error
}

// Identifiable is implemented by solutions that carry a stable identity,
// used when logging evaluation failures.
type Identifiable interface {
	ID() string
}

// Evaluator scores a solution. Implementations must be pure and deterministic
// for a fixed solution, must not mutate it, and report every objective on the
// maximize-all convention.
type Evaluator interface {
	Evaluate(ctx context.Context, s Solution) (ObjectiveSpacePoint, error)
}

// ObjectiveSpacePoint represents an N-dimensional point in the objective space.
// As an example, for a problem with 2 objective functions f1 and f2, a point
// in the objective space could be [f1(x'), f2(x')], for the input of x'.
type ObjectiveSpacePoint []float64

// ProgressObserver is invoked once per completed generation with the
// component-wise best and mean objective vectors of the surviving population.
// Consumers own formatting and storage.
type ProgressObserver interface {
	OnGeneration(generation int, best, mean ObjectiveSpacePoint)
}

// BestObserver optionally receives, once per generation, the front-0 survivor
// with the highest mean objective value. This is an observer convenience; the
// algorithm's result is always the full population.
type BestObserver interface {
	OnBestSolution(s Solution, objectives ObjectiveSpacePoint)
}

type Bounds struct {
	L float64
	H float64
}

// RealSolution represents a solution with real-valued variables.
type RealSolution struct {
	Variables []float64
	Bounds    []Bounds
}

func NewRealSolution(vars []float64, b []Bounds) *RealSolution {
	return &RealSolution{
		Variables: vars,
		Bounds:    b,
	}
}

func (sol *RealSolution) Clone() Solution {
	vars := make([]float64, len(sol.Variables))
	copy(vars, sol.Variables)
	return &RealSolution{
		Variables: vars,
		Bounds:    sol.Bounds,
	}
}

// Crossover performs SBX (Simulated Binary Crossover) and keeps the first child.
func (sol *RealSolution) Crossover(rng *rand.Rand, other Solution) (Solution, error) {
	o, ok := other.(*RealSolution)
	if !ok {
		return nil, ErrSolutionType
	}
	child := sol.Clone().(*RealSolution)

	for i := range sol.Variables {
		beta := 0.0
		if rng.Float64() <= 0.5 {
			beta = math.Pow(2*rng.Float64(), 1.0/3.0)
		} else {
			beta = math.Pow(1.0/(2*(1.0-rng.Float64())), 1.0/3.0)
		}

		child.Variables[i] = 0.5 * ((1+beta)*sol.Variables[i] + (1-beta)*o.Variables[i])

		// Bound checking
		child.Variables[i] = math.Max(sol.Bounds[i].L, math.Min(sol.Bounds[i].H, child.Variables[i]))
	}

	return child, nil
}

// Mutate performs polynomial mutation.
func (sol *RealSolution) Mutate(rng *rand.Rand, rate float64) error {
	for i := range sol.Variables {
		if rng.Float64() < rate {
			delta := 0.0
			if rng.Float64() <= 0.5 {
				delta = math.Pow(2*rng.Float64(), 1.0/3.0) - 1
			} else {
				delta = 1 - math.Pow(2*(1-rng.Float64()), 1.0/3.0)
			}

			sol.Variables[i] += delta * (sol.Bounds[i].H - sol.Bounds[i].L)
			sol.Variables[i] = math.Max(sol.Bounds[i].L, math.Min(sol.Bounds[i].H, sol.Variables[i]))
		}
	}
	return nil
}
