package benchmarks

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

const (
	Name = "ZDT1"
)

// ZDT1 is a benchmark function used to test the correctness
// of multi-objective algorithms. For more details, check the article below:
// https://datacrayon.com/practical-evolutionary-algorithms/synthetic-objective-functions-and-zdt1/
//
// ZDT1 is originally a minimization problem; both objectives are negated here
// so it fits the maximize-all domination convention.
type ZDT1 struct {
	numVars int
}

func NewZDT1(numVars int) *ZDT1 {
	return &ZDT1{
		numVars,
	}
}

func (p *ZDT1) Name() string {
	return Name
}

func (p *ZDT1) NumObjectives() int {
	return 2
}

func (p *ZDT1) Evaluator() framework.Evaluator {
	return p
}

// Evaluate implements framework.Evaluator.
func (p *ZDT1) Evaluate(_ context.Context, s framework.Solution) (framework.ObjectiveSpacePoint, error) {
	sol, ok := s.(*framework.RealSolution)
	if !ok {
		return nil, framework.ErrSolutionType
	}
	return framework.ObjectiveSpacePoint{-p.f1(sol), -p.f2(sol)}, nil
}

// F1 is the first ZDT1 benchmark objective
func (p *ZDT1) f1(x *framework.RealSolution) float64 {
	return x.Variables[0]
}

// F2 is the second ZDT1 benchmark objective
func (p *ZDT1) f2(x *framework.RealSolution) float64 {
	xx := x.Variables
	g := 1.0
	for i := 1; i < len(xx); i++ {
		g += 9.0 * xx[i] / float64(len(xx)-1)
	}
	return g * (1.0 - math.Sqrt(xx[0]/g))
}

func (p *ZDT1) Bounds() []framework.Bounds {
	b := make([]framework.Bounds, p.numVars)
	for i := range p.numVars {
		b[i] = framework.Bounds{
			L: 0.0,
			H: 1.0,
		}
	}
	return b
}

// Initialize creates an initial random population of individuals
func (p *ZDT1) Initialize(rng *rand.Rand, popSize int) ([]framework.Solution, error) {
	population := make([]framework.Solution, popSize)
	b := p.Bounds()

	for i := 0; i < popSize; i++ {
		vars := make([]float64, p.numVars)
		for j := 0; j < p.numVars; j++ {
			vars[j] = b[j].L + rng.Float64()*(b[j].H-b[j].L)
		}
		population[i] = framework.NewRealSolution(vars, b)
	}
	return population, nil
}

// TrueParetoFront generates numPoints points on the true Pareto front for
// ZDT1, negated to match the evaluator's sign convention.
func (p *ZDT1) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	points := make([]framework.ObjectiveSpacePoint, numPoints)
	for i := 0; i < numPoints; i++ {
		x := float64(i) / float64(numPoints-1)
		points[i] = framework.ObjectiveSpacePoint{
			-x, -(1.0 - math.Sqrt(x)),
		}
	}
	return points
}
