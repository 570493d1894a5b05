package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

// runConfig is the YAML file layout. Flags parsed on the command line
// override whatever the file sets.
type runConfig struct {
	Optimizer framework.Config `yaml:"optimizer"`
	Output    outputConfig     `yaml:"output"`
}

type outputConfig struct {
	Database string `yaml:"database"`
	Plot     string `yaml:"plot"`
	Report   string `yaml:"report"`
}

func defaultRunConfig() runConfig {
	return runConfig{
		Optimizer: framework.Config{
			PopulationSize: 100,
			Generations:    50,
			MutationRate:   0.1,
			TournamentSize: framework.DefaultTournamentSize,
		},
	}
}

func loadRunConfig(path string) (runConfig, error) {
	cfg := defaultRunConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return runConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return runConfig{}, fmt.Errorf("%w: parsing config %s: %v", framework.ErrInvalidConfig, path, err)
	}
	return cfg, nil
}
