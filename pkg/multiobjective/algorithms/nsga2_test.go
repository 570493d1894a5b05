package algorithms

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evodesign/evodesign/pkg/multiobjective/benchmarks"
	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

func seeded(s uint64) *uint64 { return &s }

// stubSolution is the minimal Solution for driving the loop without a real
// decision space.
type stubSolution struct{}

func (s *stubSolution) Clone() framework.Solution { return &stubSolution{} }

func (s *stubSolution) Crossover(_ *rand.Rand, _ framework.Solution) (framework.Solution, error) {
	return &stubSolution{}, nil
}

func (s *stubSolution) Mutate(_ *rand.Rand, _ float64) error { return nil }

// stubProblem scores every solution through a caller-supplied function.
type stubProblem struct {
	objectives int
	eval       func(ctx context.Context, s framework.Solution) (framework.ObjectiveSpacePoint, error)
}

func (p *stubProblem) Name() string                   { return "stub" }
func (p *stubProblem) NumObjectives() int             { return p.objectives }
func (p *stubProblem) Evaluator() framework.Evaluator { return p }

func (p *stubProblem) Evaluate(ctx context.Context, s framework.Solution) (framework.ObjectiveSpacePoint, error) {
	return p.eval(ctx, s)
}

func (p *stubProblem) Initialize(_ *rand.Rand, popSize int) ([]framework.Solution, error) {
	population := make([]framework.Solution, popSize)
	for i := range population {
		population[i] = &stubSolution{}
	}
	return population, nil
}

func (p *stubProblem) TrueParetoFront(int) []framework.ObjectiveSpacePoint { return nil }

func constantProblem(objectives int, value float64) *stubProblem {
	return &stubProblem{
		objectives: objectives,
		eval: func(_ context.Context, _ framework.Solution) (framework.ObjectiveSpacePoint, error) {
			point := make(framework.ObjectiveSpacePoint, objectives)
			for i := range point {
				point[i] = value
			}
			return point, nil
		},
	}
}

func TestNSGAIIWithZDT1(t *testing.T) {
	zdt1 := benchmarks.NewZDT1(30)
	cfg := framework.Config{
		PopulationSize: 100,
		Generations:    100,
		MutationRate:   0.1,
		Seed:           seeded(42),
	}

	nsga, err := NewNSGAII(cfg, zdt1)
	require.NoError(t, err)

	result, err := nsga.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Population, cfg.PopulationSize)
	assert.Len(t, result.Objectives, cfg.PopulationSize)
	assert.Equal(t, cfg.Generations, result.Generations)
	require.NotEmpty(t, result.Fronts)

	// Check the first front is non-dominated
	first := result.Fronts[0]
	for _, i := range first {
		for _, j := range first {
			if i != j {
				assert.False(t, Dominates(result.Objectives[i], result.Objectives[j]),
					"first front contains dominated solutions")
			}
		}
	}
}

func TestNSGAIIDeterministicRuns(t *testing.T) {
	cfg := framework.Config{
		PopulationSize: 20,
		Generations:    10,
		MutationRate:   0.2,
		Seed:           seeded(7),
	}

	runOnce := func() *Result {
		nsga, err := NewNSGAII(cfg, benchmarks.NewZDT1(10))
		require.NoError(t, err)
		result, err := nsga.Run(context.Background())
		require.NoError(t, err)
		return result
	}

	a, b := runOnce(), runOnce()
	if diff := cmp.Diff(a.Objectives, b.Objectives); diff != "" {
		t.Errorf("same seed produced different objective matrices (-first +second):\n%s", diff)
	}
	assert.Equal(t, a.Fronts, b.Fronts)
}

func TestNSGAIIConstantScores(t *testing.T) {
	cfg := framework.Config{
		PopulationSize: 10,
		Generations:    5,
		MutationRate:   0.1,
		Seed:           seeded(1),
	}

	nsga, err := NewNSGAII(cfg, constantProblem(7, 0.5))
	require.NoError(t, err)

	result, err := nsga.Run(context.Background())
	require.NoError(t, err)

	// Every point ties, so the whole population is one front and the size
	// invariant still holds.
	require.Len(t, result.Fronts, 1)
	assert.Len(t, result.Fronts[0], cfg.PopulationSize)
	assert.Len(t, result.Population, cfg.PopulationSize)
	assert.Zero(t, result.EvaluationFailures)
}

func TestNSGAIIEvaluationFailurePolicy(t *testing.T) {
	failing := &stubProblem{objectives: 2}
	failing.eval = func(_ context.Context, _ framework.Solution) (framework.ObjectiveSpacePoint, error) {
		return nil, errors.New("solver crashed")
	}

	cfg := framework.Config{
		PopulationSize: 8,
		Generations:    2,
		MutationRate:   0.1,
		Seed:           seeded(3),
	}
	nsga, err := NewNSGAII(cfg, failing)
	require.NoError(t, err)

	result, err := nsga.Run(context.Background())
	require.NoError(t, err, "evaluation failures must not abort the run")

	for _, point := range result.Objectives {
		assert.Equal(t, framework.ObjectiveSpacePoint{0, 0}, point,
			"failed evaluations must score the zero vector")
	}
	// Initial N plus 2N per generation, every one failed.
	want := uint64(cfg.PopulationSize * (1 + 2*cfg.Generations))
	assert.Equal(t, want, result.EvaluationFailures)
}

func TestNSGAIIEvaluatorPanicIsFailure(t *testing.T) {
	panicking := &stubProblem{objectives: 2}
	panicking.eval = func(_ context.Context, _ framework.Solution) (framework.ObjectiveSpacePoint, error) {
		panic("index out of range")
	}

	cfg := framework.Config{
		PopulationSize: 4,
		Generations:    1,
		MutationRate:   0,
		Seed:           seeded(1),
		TournamentSize: 2,
	}
	nsga, err := NewNSGAII(cfg, panicking)
	require.NoError(t, err)

	result, err := nsga.Run(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, result.EvaluationFailures)
}

func TestNSGAIIMalformedScoresAreFailures(t *testing.T) {
	tests := []struct {
		name  string
		point framework.ObjectiveSpacePoint
	}{
		{name: "wrong length", point: framework.ObjectiveSpacePoint{0.5}},
		{name: "NaN", point: framework.ObjectiveSpacePoint{0.5, math.NaN()}},
		{name: "out of bounds", point: framework.ObjectiveSpacePoint{0.5, 1.5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			problem := &stubProblem{objectives: 2}
			problem.eval = func(_ context.Context, _ framework.Solution) (framework.ObjectiveSpacePoint, error) {
				return tc.point, nil
			}

			cfg := framework.Config{
				PopulationSize: 4,
				Generations:    1,
				MutationRate:   0,
				Seed:           seeded(1),
				TournamentSize: 2,
				ScoreBounds:    &framework.Bounds{L: 0, H: 1},
			}
			nsga, err := NewNSGAII(cfg, problem)
			require.NoError(t, err)

			result, err := nsga.Run(context.Background())
			require.NoError(t, err)
			assert.NotZero(t, result.EvaluationFailures)
			for _, point := range result.Objectives {
				assert.Equal(t, framework.ObjectiveSpacePoint{0, 0}, point)
			}
		})
	}
}

func TestNSGAIIEvalTimeout(t *testing.T) {
	slow := &stubProblem{objectives: 2}
	slow.eval = func(ctx context.Context, _ framework.Solution) (framework.ObjectiveSpacePoint, error) {
		select {
		case <-time.After(time.Second):
			return framework.ObjectiveSpacePoint{0.5, 0.5}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	cfg := framework.Config{
		PopulationSize: 4,
		Generations:    1,
		MutationRate:   0,
		Seed:           seeded(1),
		TournamentSize: 2,
		EvalTimeout:    5 * time.Millisecond,
	}
	nsga, err := NewNSGAII(cfg, slow)
	require.NoError(t, err)

	result, err := nsga.Run(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, result.EvaluationFailures, "timeouts count as evaluation failures")
}

func TestNSGAIIContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := framework.Config{
		PopulationSize: 10,
		Generations:    100,
		MutationRate:   0.1,
		Seed:           seeded(1),
	}
	nsga, err := NewNSGAII(cfg, constantProblem(2, 0.5))
	require.NoError(t, err)

	_, err = nsga.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNSGAIIRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  framework.Config
	}{
		{name: "population too small", cfg: framework.Config{PopulationSize: 2, Generations: 1, MutationRate: 0.1}},
		{name: "zero generations", cfg: framework.Config{PopulationSize: 10, Generations: 0, MutationRate: 0.1}},
		{name: "mutation rate above one", cfg: framework.Config{PopulationSize: 10, Generations: 1, MutationRate: 1.5}},
		{name: "negative mutation rate", cfg: framework.Config{PopulationSize: 10, Generations: 1, MutationRate: -0.1}},
		{name: "tournament exceeds population", cfg: framework.Config{PopulationSize: 4, Generations: 1, MutationRate: 0.1, TournamentSize: 8}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewNSGAII(tc.cfg, constantProblem(2, 0.5))
			assert.ErrorIs(t, err, framework.ErrInvalidConfig)
		})
	}
}

type recordingObserver struct {
	generations []int
	bestCalls   int
	lastBest    framework.ObjectiveSpacePoint
}

func (r *recordingObserver) OnGeneration(generation int, best, mean framework.ObjectiveSpacePoint) {
	r.generations = append(r.generations, generation)
	r.lastBest = best
}

func (r *recordingObserver) OnBestSolution(_ framework.Solution, _ framework.ObjectiveSpacePoint) {
	r.bestCalls++
}

func TestNSGAIIObservers(t *testing.T) {
	observer := &recordingObserver{}
	cfg := framework.Config{
		PopulationSize: 10,
		Generations:    5,
		MutationRate:   0.1,
		Seed:           seeded(1),
	}
	nsga, err := NewNSGAII(cfg, constantProblem(3, 0.25),
		WithProgressObserver(observer), WithBestObserver(observer))
	require.NoError(t, err)

	_, err = nsga.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, observer.generations)
	assert.Equal(t, cfg.Generations, observer.bestCalls)
	assert.Equal(t, framework.ObjectiveSpacePoint{0.25, 0.25, 0.25}, observer.lastBest)
}

func TestNSGAIITournamentPrefersBetterRank(t *testing.T) {
	nsga := &NSGAII{
		cfg: framework.Config{TournamentSize: 4},
		rng: rand.New(rand.NewPCG(1, 1)),
	}

	// Index 2 is the only rank-0 member; drawing all four must pick it.
	ranks := []int{1, 1, 0, 1}
	dists := []float64{1, 2, 0.5, 3}
	assert.Equal(t, 2, nsga.tournament(ranks, dists))
}

func TestNSGAIITournamentBreaksTiesByDistance(t *testing.T) {
	nsga := &NSGAII{
		cfg: framework.Config{TournamentSize: 3},
		rng: rand.New(rand.NewPCG(1, 1)),
	}

	ranks := []int{0, 0, 0}
	dists := []float64{0.1, 5.0, 0.2}
	assert.Equal(t, 1, nsga.tournament(ranks, dists))
}
