package simulation

import (
	"math/rand/v2"

	"github.com/evodesign/evodesign/pkg/building"
	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

const ProblemName = "BuildingDesign"

// Problem binds the building genome and its evaluator into the optimizer's
// Problem contract.
type Problem struct {
	evaluator *Evaluator
}

var _ framework.Problem = &Problem{}

func NewProblem() *Problem {
	return &Problem{evaluator: NewEvaluator()}
}

func (p *Problem) Name() string {
	return ProblemName
}

func (p *Problem) NumObjectives() int {
	return building.NumObjectives
}

func (p *Problem) Evaluator() framework.Evaluator {
	return p.evaluator
}

// Initialize samples popSize random genomes from the schema.
func (p *Problem) Initialize(rng *rand.Rand, popSize int) ([]framework.Solution, error) {
	population := make([]framework.Solution, popSize)
	for i := range population {
		population[i] = building.NewRandomGenome(rng)
	}
	return population, nil
}

// TrueParetoFront is unknown for real building designs.
func (p *Problem) TrueParetoFront(int) []framework.ObjectiveSpacePoint {
	return nil
}

// ScoreBounds is the valid range of every building objective; runs should set
// it on the config so malformed evaluator output degrades to a failure.
func ScoreBounds() *framework.Bounds {
	return &framework.Bounds{L: 0, H: 1}
}
