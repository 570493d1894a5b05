package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

func TestLoadRunConfigDefaults(t *testing.T) {
	cfg, err := loadRunConfig("")
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Optimizer.PopulationSize)
	assert.Equal(t, 50, cfg.Optimizer.Generations)
	assert.Equal(t, framework.DefaultTournamentSize, cfg.Optimizer.TournamentSize)
	assert.Empty(t, cfg.Output.Database)
}

func TestLoadRunConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
optimizer:
  populationSize: 40
  generations: 12
  mutationRate: 0.25
  seed: 7
output:
  database: runs.db
  report: best.xlsx
`), 0o644))

	cfg, err := loadRunConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Optimizer.PopulationSize)
	assert.Equal(t, 12, cfg.Optimizer.Generations)
	assert.Equal(t, 0.25, cfg.Optimizer.MutationRate)
	require.NotNil(t, cfg.Optimizer.Seed)
	assert.Equal(t, uint64(7), *cfg.Optimizer.Seed)
	assert.Equal(t, "runs.db", cfg.Output.Database)
	assert.Equal(t, "best.xlsx", cfg.Output.Report)

	// File values merge over defaults, not replace them wholesale.
	assert.Equal(t, framework.DefaultTournamentSize, cfg.Optimizer.TournamentSize)
}

func TestLoadRunConfigErrors(t *testing.T) {
	_, err := loadRunConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("optimizer: ["), 0o644))
	_, err = loadRunConfig(path)
	assert.ErrorIs(t, err, framework.ErrInvalidConfig)
}
