package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evodesign/evodesign/pkg/building"
	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "evodesign.db"))
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleDesign() building.Design {
	return building.Design{
		Envelope:   building.Envelope{Height: 50, Width: 20, Length: 30, Shape: "L-shaped"},
		Structure:  building.StructuralSystem{Material: "steel", FrameType: "moment frame"},
		FloorPlans: building.FloorPlans{NumFloors: 10, FloorHeight: 3},
		MEP: building.MEPSystems{
			HVACType:     "hybrid",
			LightingType: "LED",
			PlumbingType: "central",
		},
		Facade: building.Facade{WindowRatio: 0.4, Material: "metal"},
	}
}

func TestStoreRequiresInit(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "late.db"))
	_, _, err := s.GetBuilding(context.Background(), 1)
	assert.Error(t, err)
}

func TestStoreRejectsEmptyPath(t *testing.T) {
	assert.Error(t, NewStore("").Init(context.Background()))
}

func TestSaveAndGetBuilding(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	design := sampleDesign()
	scores := framework.ObjectiveSpacePoint{0.8, 0.6, 0.9, 0.7, 0.5, 0.6, 0.4}

	id, err := s.SaveBuilding(ctx, "genome-1", design, scores, 0.73)
	require.NoError(t, err)
	require.Positive(t, id)

	rec, ok, err := s.GetBuilding(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "genome-1", rec.GenomeID)
	assert.Equal(t, 0.73, rec.OverallFitness)
	if diff := cmp.Diff(design, rec.Design); diff != "" {
		t.Errorf("design roundtrip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(scores, rec.Scores); diff != "" {
		t.Errorf("scores roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestGetBuildingMissing(t *testing.T) {
	s := newTestStore(t)
	_, ok, err := s.GetBuilding(context.Background(), 12345)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHistoryOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for gen := 0; gen < 3; gen++ {
		best := framework.ObjectiveSpacePoint{float64(gen) / 10, 0.5}
		mean := framework.ObjectiveSpacePoint{float64(gen) / 20, 0.25}
		require.NoError(t, s.SaveHistory(ctx, gen, best, mean))
	}

	history, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for gen, rec := range history {
		assert.Equal(t, gen, rec.Generation)
		assert.InDelta(t, float64(gen)/10, rec.Best[0], 1e-9)
		assert.InDelta(t, float64(gen)/20, rec.Mean[0], 1e-9)
	}
}

func TestObserverCallbacksPersist(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.OnGeneration(0, framework.ObjectiveSpacePoint{0.9}, framework.ObjectiveSpacePoint{0.5})
	s.OnGeneration(1, framework.ObjectiveSpacePoint{0.95}, framework.ObjectiveSpacePoint{0.6})

	history, err := s.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	genome, err := building.Encode(sampleDesign())
	require.NoError(t, err)
	s.OnBestSolution(genome, framework.ObjectiveSpacePoint{0.8, 0.6, 0.9, 0.7, 0.5, 0.6, 0.4})

	rec, ok, err := s.GetBuilding(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, genome.ID(), rec.GenomeID)
}
