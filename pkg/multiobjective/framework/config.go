package framework

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidConfig wraps every configuration rejection; it is returned
	// before any generation runs.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSolutionType signals a solution of an unexpected concrete type
	// crossing a problem boundary.
	ErrSolutionType = errors.New("unexpected solution type")
)

const DefaultTournamentSize = 3

// Config holds the run parameters consumed at construction. Even population
// sizes are recommended so the parent+offspring pool stays at exactly 2N.
type Config struct {
	PopulationSize int     `yaml:"populationSize" validate:"gte=4"`
	Generations    int     `yaml:"generations" validate:"gte=1"`
	MutationRate   float64 `yaml:"mutationRate" validate:"gte=0,lte=1"`
	TournamentSize int     `yaml:"tournamentSize" validate:"gte=2"`

	// Parallelism bounds the evaluation worker pool; 0 means GOMAXPROCS.
	Parallelism int `yaml:"parallelism" validate:"gte=0"`

	// EvalTimeout, when positive, bounds a single evaluator call. A timeout
	// is treated identically to an evaluation failure.
	EvalTimeout time.Duration `yaml:"evalTimeout" validate:"gte=0"`

	// Seed fixes the run's random stream for reproducibility. Nil seeds
	// from entropy.
	Seed *uint64 `yaml:"seed"`

	// ScoreBounds, when set, makes any evaluator result outside [L, H] an
	// evaluation failure. Left nil for problems with unbounded objectives.
	ScoreBounds *Bounds `yaml:"-"`
}

var validate = validator.New()

// ApplyDefaults fills the fields a caller may leave zero.
func (c *Config) ApplyDefaults() {
	if c.TournamentSize == 0 {
		c.TournamentSize = DefaultTournamentSize
	}
}

// Validate rejects broken configurations before any generation runs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
