package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

func TestPlotObjectivePair(t *testing.T) {
	results := []framework.ObjectiveSpacePoint{
		{0.1, 0.9, 0.5},
		{0.5, 0.5, 0.5},
		{0.9, 0.1, 0.5},
	}
	path := filepath.Join(t.TempDir(), "front.html")

	require.NoError(t, PlotObjectivePair(results, 0, 1, "cost", "safety", "Final front", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.True(t, strings.Contains(html, "Final front"))
	assert.True(t, strings.Contains(html, "cost"))
}

func TestPlotObjectivePairRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "front.html")

	assert.Error(t, PlotObjectivePair(nil, 0, 1, "x", "y", "t", path))

	results := []framework.ObjectiveSpacePoint{{0.1, 0.9}}
	assert.Error(t, PlotObjectivePair(results, 0, 5, "x", "y", "t", path))
}
