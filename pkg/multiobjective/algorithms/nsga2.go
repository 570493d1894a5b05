package algorithms

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/stat"
	"k8s.io/klog/v2"

	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

const (
	Name = "NSGA-II"
)

// NSGAII drives the elitist generational loop: evaluate, sort, select, vary,
// merge, truncate, report. The population and its parallel objective matrix
// are owned exclusively by the running loop; observers only see copies of the
// per-generation summaries.
type NSGAII struct {
	cfg     framework.Config
	problem framework.Problem
	rng     *rand.Rand

	progress framework.ProgressObserver
	best     framework.BestObserver

	failures atomic.Uint64
}

// Result is the final state of a run. The "best" design is a consumer-chosen
// pick over the front-0 members; the algorithm never collapses the Pareto set
// to a single winner.
type Result struct {
	Population  []framework.Solution
	Objectives  []framework.ObjectiveSpacePoint
	Fronts      [][]int
	Generations int

	// EvaluationFailures counts evaluator calls that errored, timed out, or
	// returned malformed scores and were substituted with the zero vector.
	EvaluationFailures uint64
}

type Option func(*NSGAII)

func WithProgressObserver(o framework.ProgressObserver) Option {
	return func(n *NSGAII) { n.progress = o }
}

func WithBestObserver(o framework.BestObserver) Option {
	return func(n *NSGAII) { n.best = o }
}

// NewNSGAII creates a new instance of NSGA-II with the given parameters.
// Configuration problems are rejected here, before any generation runs.
func NewNSGAII(cfg framework.Config, problem framework.Problem, opts ...Option) (*NSGAII, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.TournamentSize > cfg.PopulationSize {
		return nil, fmt.Errorf("%w: tournament size %d exceeds population size %d",
			framework.ErrInvalidConfig, cfg.TournamentSize, cfg.PopulationSize)
	}

	var seed uint64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	} else {
		seed = rand.Uint64()
	}

	n := &NSGAII{
		cfg:     cfg,
		problem: problem,
		rng:     rand.New(rand.NewPCG(seed, seed)),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

func (n *NSGAII) Name() string {
	return Name
}

// Failures reports the evaluation-failure counter for the run so far.
func (n *NSGAII) Failures() uint64 {
	return n.failures.Load()
}

// Run executes the configured number of generations and returns the surviving
// population with its objective matrix. Evaluation-level problems degrade to
// zero-score vectors; only schema and initialization errors abort the run.
func (n *NSGAII) Run(ctx context.Context) (*Result, error) {
	logger := klog.FromContext(ctx)

	population, err := n.problem.Initialize(n.rng, n.cfg.PopulationSize)
	if err != nil {
		return nil, fmt.Errorf("initializing population: %w", err)
	}
	if len(population) != n.cfg.PopulationSize {
		return nil, fmt.Errorf("%w: problem initialized %d solutions, want %d",
			framework.ErrInvalidConfig, len(population), n.cfg.PopulationSize)
	}

	objectives := n.evaluate(ctx, population)

	for gen := 0; gen < n.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Rank the current parents for tournament selection
		fronts := NonDominatedSort(objectives)
		ranks, dists := rankAndDistance(fronts, objectives)

		offspring, err := n.vary(population, ranks, dists)
		if err != nil {
			return nil, err
		}

		// Merge parents and offspring, evaluate the 2N pool once, and let
		// the sorter consume only that cached matrix.
		combined := append(append([]framework.Solution{}, population...), offspring...)
		combinedObjectives := n.evaluate(ctx, combined)

		fronts = NonDominatedSort(combinedObjectives)
		survivors := selectNextGeneration(fronts, combinedObjectives, n.cfg.PopulationSize)

		population = make([]framework.Solution, len(survivors))
		objectives = make([]framework.ObjectiveSpacePoint, len(survivors))
		for i, idx := range survivors {
			population[i] = combined[idx]
			objectives[i] = combinedObjectives[idx]
		}

		n.report(gen, population, objectives)
		logger.V(2).Info("generation complete",
			"algorithm", Name, "generation", gen, "failures", n.failures.Load())
	}

	return &Result{
		Population:         population,
		Objectives:         objectives,
		Fronts:             NonDominatedSort(objectives),
		Generations:        n.cfg.Generations,
		EvaluationFailures: n.failures.Load(),
	}, nil
}

// vary produces PopulationSize offspring by tournament selection, crossover,
// and mutation. Variation is sequential so a fixed seed reproduces the run.
func (n *NSGAII) vary(population []framework.Solution, ranks []int, dists []float64) ([]framework.Solution, error) {
	offspring := make([]framework.Solution, 0, n.cfg.PopulationSize)
	for len(offspring) < n.cfg.PopulationSize {
		p1 := n.tournament(ranks, dists)
		p2 := n.tournament(ranks, dists)

		child, err := population[p1].Crossover(n.rng, population[p2])
		if err != nil {
			return nil, fmt.Errorf("crossover: %w", err)
		}
		if err := child.Mutate(n.rng, n.cfg.MutationRate); err != nil {
			return nil, fmt.Errorf("mutation: %w", err)
		}
		offspring = append(offspring, child)
	}
	return offspring, nil
}

// tournament draws TournamentSize distinct indices and keeps the one with the
// better front rank, breaking ties by larger crowding distance and then by
// the lower index.
func (n *NSGAII) tournament(ranks []int, dists []float64) int {
	drawn := make(map[int]struct{}, n.cfg.TournamentSize)
	best := -1
	for len(drawn) < n.cfg.TournamentSize {
		c := n.rng.IntN(len(ranks))
		if _, ok := drawn[c]; ok {
			continue
		}
		drawn[c] = struct{}{}

		if best < 0 {
			best = c
			continue
		}
		switch {
		case ranks[c] < ranks[best]:
			best = c
		case ranks[c] == ranks[best] && dists[c] > dists[best]:
			best = c
		case ranks[c] == ranks[best] && dists[c] == dists[best] && c < best:
			best = c
		}
	}
	return best
}

// evaluate scores every solution through a bounded worker pool and collects
// the results back into the positional matrix. Sorting only starts after the
// whole pool drains, which is the per-generation synchronization barrier.
func (n *NSGAII) evaluate(ctx context.Context, population []framework.Solution) []framework.ObjectiveSpacePoint {
	logger := klog.FromContext(ctx)
	evaluator := n.problem.Evaluator()
	points := make([]framework.ObjectiveSpacePoint, len(population))

	workers := n.cfg.Parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := pool.New().WithMaxGoroutines(workers)
	for i := range population {
		p.Go(func() {
			point, err := n.evaluateOne(ctx, evaluator, population[i])
			if err != nil {
				n.failures.Add(1)
				logger.Error(err, "evaluation failed, substituting zero scores",
					"index", i, "solution", solutionID(population[i]))
				point = make(framework.ObjectiveSpacePoint, n.problem.NumObjectives())
			}
			points[i] = point
		})
	}
	p.Wait()

	return points
}

// evaluateOne guards a single evaluator call: panics become errors, an
// optional deadline applies, and malformed score vectors are rejected.
func (n *NSGAII) evaluateOne(ctx context.Context, evaluator framework.Evaluator, s framework.Solution) (framework.ObjectiveSpacePoint, error) {
	if n.cfg.EvalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.cfg.EvalTimeout)
		defer cancel()
	}

	type outcome struct {
		point framework.ObjectiveSpacePoint
		err   error
	}
	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("evaluator panic: %v", r)}
			}
		}()
		point, err := evaluator.Evaluate(ctx, s)
		ch <- outcome{point: point, err: err}
	}()

	var point framework.ObjectiveSpacePoint
	select {
	case out := <-ch:
		if out.err != nil {
			return nil, out.err
		}
		point = out.point
	case <-ctx.Done():
		return nil, fmt.Errorf("evaluation timed out: %w", ctx.Err())
	}

	if len(point) != n.problem.NumObjectives() {
		return nil, fmt.Errorf("evaluator returned %d objectives, want %d", len(point), n.problem.NumObjectives())
	}
	for m, v := range point {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("objective %d is not finite: %v", m, v)
		}
		if b := n.cfg.ScoreBounds; b != nil && (v < b.L || v > b.H) {
			return nil, fmt.Errorf("objective %d out of range [%v, %v]: %v", m, b.L, b.H, v)
		}
	}
	return point, nil
}

// report emits the component-wise best and mean vectors of the surviving
// population. The best vector is per-objective and not necessarily achieved
// by any one individual.
func (n *NSGAII) report(generation int, population []framework.Solution, points []framework.ObjectiveSpacePoint) {
	if n.progress == nil && n.best == nil {
		return
	}

	numObjectives := n.problem.NumObjectives()
	best := make(framework.ObjectiveSpacePoint, numObjectives)
	mean := make(framework.ObjectiveSpacePoint, numObjectives)
	column := make([]float64, len(points))
	for m := 0; m < numObjectives; m++ {
		for i, p := range points {
			column[i] = p[m]
		}
		best[m] = column[0]
		for _, v := range column[1:] {
			best[m] = math.Max(best[m], v)
		}
		mean[m] = stat.Mean(column, nil)
	}

	if n.progress != nil {
		n.progress.OnGeneration(generation, best, mean)
	}
	if n.best != nil {
		if idx := bestOfFrontZero(points); idx >= 0 {
			n.best.OnBestSolution(population[idx], points[idx])
		}
	}
}

// bestOfFrontZero picks the non-dominated member with the highest mean score,
// the derived "single winner" handed to the optional best observer.
func bestOfFrontZero(points []framework.ObjectiveSpacePoint) int {
	fronts := NonDominatedSort(points)
	if len(fronts) == 0 || len(fronts[0]) == 0 {
		return -1
	}
	best, bestScore := -1, math.Inf(-1)
	for _, idx := range fronts[0] {
		if score := stat.Mean(points[idx], nil); score > bestScore {
			best, bestScore = idx, score
		}
	}
	return best
}

func solutionID(s framework.Solution) string {
	if id, ok := s.(framework.Identifiable); ok {
		return id.ID()
	}
	return "unknown"
}
