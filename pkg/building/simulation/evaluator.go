package simulation

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/evodesign/evodesign/pkg/building"
	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

// Evaluator scores a building genome across the seven objectives in the
// canonical order. It is pure: the genome is decoded, never mutated, and the
// same design always yields the same vector.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

var _ framework.Evaluator = &Evaluator{}

// Evaluate decodes the genome and runs the seven calculators. Each headline
// score is clamped to [0, 1] so the vector honors the evaluator contract
// even where a calculator's raw formula can stray outside it.
func (e *Evaluator) Evaluate(_ context.Context, s framework.Solution) (framework.ObjectiveSpacePoint, error) {
	genome, ok := s.(*building.Genome)
	if !ok {
		return nil, fmt.Errorf("%w: want *building.Genome, got %T", framework.ErrSolutionType, s)
	}
	d, err := building.Decode(genome)
	if err != nil {
		return nil, err
	}

	point := make(framework.ObjectiveSpacePoint, building.NumObjectives)
	point[building.StructuralIntegrity] = clamp01(AnalyseStructure(d).Overall)
	point[building.EnergyEfficiency] = clamp01(SimulateEnergy(d).Efficiency)
	point[building.Safety] = clamp01(AssessSafety(d).Overall)
	point[building.Livability] = clamp01(EvaluateLivability(d).Score)
	point[building.Cost] = clamp01(EstimateCost(d).Score)
	point[building.PedestrianFlow] = clamp01(SimulatePedestrianFlow(d).Efficiency)
	point[building.BlastResistance] = clamp01(SimulateBlast(d).Score)
	return point, nil
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

// designSeed hashes the decoded design into a seed for the per-design random
// streams used by the stochastic sub-models.
func designSeed(d building.Design) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%v", d)
	return h.Sum64()
}
