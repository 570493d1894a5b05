package building

import (
	"math"

	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

// Weights scalarize an objective vector for consumer-side ranking. The
// optimizer itself never collapses objectives; this exists for picking one
// design to persist or report.
type Weights [NumObjectives]float64

// DefaultWeights favor safety and structural integrity, mirroring the
// priorities of the stakeholder review board.
var DefaultWeights = Weights{
	StructuralIntegrity: 0.3,
	EnergyEfficiency:    0.1,
	Safety:              0.3,
	Livability:          0.15,
	Cost:                0.05,
	PedestrianFlow:      0.05,
	BlastResistance:     0.05,
}

// WeightedScore is the weighted sum of one objective vector.
func (w Weights) WeightedScore(p framework.ObjectiveSpacePoint) float64 {
	total := 0.0
	for i := 0; i < NumObjectives && i < len(p); i++ {
		total += w[i] * p[i]
	}
	return total
}

// BestIndex returns the index of the highest weighted score, -1 for an empty
// set. Ties keep the lower index.
func (w Weights) BestIndex(points []framework.ObjectiveSpacePoint) int {
	best, bestScore := -1, math.Inf(-1)
	for i, p := range points {
		if score := w.WeightedScore(p); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
