// Command evodesign evolves building designs against seven competing
// objectives and reports the best design found on the final Pareto front.
package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/evodesign/evodesign/pkg/analysis"
	"github.com/evodesign/evodesign/pkg/building"
	"github.com/evodesign/evodesign/pkg/building/simulation"
	"github.com/evodesign/evodesign/pkg/multiobjective/algorithms"
	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
	"github.com/evodesign/evodesign/pkg/multiobjective/util"
	"github.com/evodesign/evodesign/pkg/storage"
)

var (
	configPath     = pflag.String("config", "", "optional YAML run config path")
	population     = pflag.Int("population", 100, "population size")
	generations    = pflag.Int("generations", 50, "generation count")
	mutationRate   = pflag.Float64("mutation-rate", 0.1, "per-leaf mutation probability")
	tournamentSize = pflag.Int("tournament-size", framework.DefaultTournamentSize, "tournament draw count")
	workers        = pflag.Int("workers", 0, "evaluation worker count (0 uses GOMAXPROCS)")
	evalTimeout    = pflag.Duration("eval-timeout", 0, "per-evaluation timeout (0 disables)")
	seed           = pflag.Uint64("seed", 0, "rng seed for a reproducible run")
	dbPath         = pflag.String("db", "", "sqlite path for run history (empty disables persistence)")
	plotPath       = pflag.String("plot", "", "html path for the final front scatter plot (empty disables)")
	reportPath     = pflag.String("report", "", "xlsx path for the best-design report (empty disables)")
)

func main() {
	klog.InitFlags(nil)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		klog.ErrorS(err, "run failed")
		klog.FlushAndExit(time.Second, 1)
	}
	klog.Flush()
}

func run(ctx context.Context) error {
	cfg, err := loadRunConfig(*configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(&cfg)

	cfg.Optimizer.ApplyDefaults()
	cfg.Optimizer.ScoreBounds = simulation.ScoreBounds()

	var opts []algorithms.Option
	var store *storage.Store
	if cfg.Output.Database != "" {
		store = storage.NewStore(cfg.Output.Database)
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer store.Close()
		opts = append(opts, algorithms.WithProgressObserver(store), algorithms.WithBestObserver(store))
	}

	problem := simulation.NewProblem()
	optimizer, err := algorithms.NewNSGAII(cfg.Optimizer, problem, opts...)
	if err != nil {
		return err
	}

	logger := klog.FromContext(ctx)
	logger.Info("starting optimization",
		"problem", problem.Name(),
		"population", cfg.Optimizer.PopulationSize,
		"generations", cfg.Optimizer.Generations)

	start := time.Now()
	result, err := optimizer.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("optimization finished",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"frontSize", len(result.Fronts[0]),
		"evaluationFailures", result.EvaluationFailures)

	best, scores, err := pickBest(result)
	if err != nil {
		return err
	}
	design, err := building.Decode(best)
	if err != nil {
		return fmt.Errorf("decoding best genome %s: %w", best.ID(), err)
	}
	report := analysis.Build(design)
	fmt.Printf("best design %s\n%s", best.ID(), analysis.Summary(report))

	if cfg.Output.Plot != "" {
		if err := plotFront(result, cfg.Output.Plot); err != nil {
			return fmt.Errorf("writing plot: %w", err)
		}
		logger.Info("wrote front plot", "path", cfg.Output.Plot)
	}
	if cfg.Output.Report != "" {
		if err := analysis.ExportXLSX(report, cfg.Output.Report); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		logger.Info("wrote design report", "path", cfg.Output.Report)
	}
	if store != nil {
		overall := building.DefaultWeights.WeightedScore(scores)
		if _, err := store.SaveBuilding(ctx, best.ID(), design, scores, overall); err != nil {
			return fmt.Errorf("persisting best design: %w", err)
		}
	}
	return nil
}

// applyFlagOverrides lets explicitly set flags win over the config file.
func applyFlagOverrides(cfg *runConfig) {
	pflag.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "population":
			cfg.Optimizer.PopulationSize = *population
		case "generations":
			cfg.Optimizer.Generations = *generations
		case "mutation-rate":
			cfg.Optimizer.MutationRate = *mutationRate
		case "tournament-size":
			cfg.Optimizer.TournamentSize = *tournamentSize
		case "workers":
			cfg.Optimizer.Parallelism = *workers
		case "eval-timeout":
			cfg.Optimizer.EvalTimeout = *evalTimeout
		case "seed":
			s := *seed
			cfg.Optimizer.Seed = &s
		case "db":
			cfg.Output.Database = *dbPath
		case "plot":
			cfg.Output.Plot = *plotPath
		case "report":
			cfg.Output.Report = *reportPath
		}
	})
}

// pickBest selects the front-zero genome with the highest weighted aggregate.
func pickBest(result *algorithms.Result) (*building.Genome, framework.ObjectiveSpacePoint, error) {
	front := result.Fronts[0]
	frontPoints := make([]framework.ObjectiveSpacePoint, len(front))
	for i, idx := range front {
		frontPoints[i] = result.Objectives[idx]
	}
	winner := front[building.DefaultWeights.BestIndex(frontPoints)]

	genome, ok := result.Population[winner].(*building.Genome)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %T", framework.ErrSolutionType, result.Population[winner])
	}
	return genome, result.Objectives[winner], nil
}

func plotFront(result *algorithms.Result, path string) error {
	frontPoints := make([]framework.ObjectiveSpacePoint, len(result.Fronts[0]))
	for i, idx := range result.Fronts[0] {
		frontPoints[i] = result.Objectives[idx]
	}
	return util.PlotObjectivePair(
		frontPoints,
		int(building.Cost), int(building.Safety),
		building.Cost.String(), building.Safety.String(),
		"Final Pareto front", path,
	)
}
