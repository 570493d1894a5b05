package building

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	total := 0.0
	for _, w := range DefaultWeights {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestWeightedScore(t *testing.T) {
	uniform := framework.ObjectiveSpacePoint{1, 1, 1, 1, 1, 1, 1}
	assert.InDelta(t, 1.0, DefaultWeights.WeightedScore(uniform), 1e-9)

	zero := make(framework.ObjectiveSpacePoint, NumObjectives)
	assert.Zero(t, DefaultWeights.WeightedScore(zero))

	// Only safety set: the score is exactly the safety weight.
	p := make(framework.ObjectiveSpacePoint, NumObjectives)
	p[Safety] = 1
	assert.InDelta(t, DefaultWeights[Safety], DefaultWeights.WeightedScore(p), 1e-9)
}

func TestBestIndex(t *testing.T) {
	points := []framework.ObjectiveSpacePoint{
		{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
		{0.9, 0.9, 0.9, 0.9, 0.9, 0.9, 0.9},
		{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
	}
	assert.Equal(t, 1, DefaultWeights.BestIndex(points))
	assert.Equal(t, -1, DefaultWeights.BestIndex(nil))
}

func TestObjectiveNames(t *testing.T) {
	names := ObjectiveNames()
	assert.Len(t, names, NumObjectives)
	assert.Equal(t, "structural_integrity", StructuralIntegrity.String())
	assert.Equal(t, "blast_resistance", BlastResistance.String())
	assert.Equal(t, int(BlastResistance), NumObjectives-1, "canonical order ends at blast resistance")
}
