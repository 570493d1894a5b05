package simulation

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/evodesign/evodesign/pkg/building"
)

// Social-force model parameters.
const (
	numPedestrians = 80  // raise to 200 for high-occupancy scenarios
	timeSteps      = 800 // raise to 2000 for longer simulations
	desiredSpeed   = 1.4 // m/s, average walking speed
	maxForce       = 5.0
	relaxationTime = 0.5 // s, time to adjust velocity
	panicFactor    = 1.5 // emergency speed-up
	exitThreshold  = 1.0 // m, proximity at which a pedestrian has exited
)

// PedestrianResult summarizes the per-floor evacuation runs. Efficiency is
// the pedestrian_flow objective.
type PedestrianResult struct {
	Efficiency        float64
	AvgEvacuationTime float64
	AvgCongestion     float64
}

type vec2 struct{ x, y float64 }

func (a vec2) sub(b vec2) vec2      { return vec2{a.x - b.x, a.y - b.y} }
func (a vec2) add(b vec2) vec2      { return vec2{a.x + b.x, a.y + b.y} }
func (a vec2) scale(s float64) vec2 { return vec2{a.x * s, a.y * s} }
func (a vec2) norm() float64        { return math.Hypot(a.x, a.y) }

// SimulatePedestrianFlow runs a social-force evacuation per floor: agents
// accelerate toward their nearest exit, repel each other and the obstacles,
// and the run ends when every agent reaches an exit or the step budget runs
// out. Placement draws from a design-derived stream so results are
// deterministic per design.
func SimulatePedestrianFlow(d building.Design) PedestrianResult {
	rng := designRand(d)
	width, length := d.Envelope.Width, d.Envelope.Length
	numFloors := d.FloorPlans.NumFloors
	if numFloors < 1 {
		numFloors = 1
	}

	totalCongestion := 0.0
	totalEvacuationTime := 0.0
	for floor := 0; floor < numFloors; floor++ {
		congestion, evacTime := simulateFloor(rng, width, length)
		totalCongestion += congestion
		totalEvacuationTime += evacTime
	}

	avgCongestion := totalCongestion / float64(numFloors*timeSteps)
	avgEvacuationTime := totalEvacuationTime / float64(numFloors)

	return PedestrianResult{
		Efficiency:        evacuationEfficiency(width, length, avgEvacuationTime),
		AvgEvacuationTime: avgEvacuationTime,
		AvgCongestion:     avgCongestion,
	}
}

func simulateFloor(rng *rand.Rand, width, length float64) (congestion, evacuationTime float64) {
	positions := randomPoints(rng, numPedestrians, width, length)
	velocities := make([]vec2, numPedestrians)

	numExits := int(math.Max(2, math.Floor(math.Sqrt(width*length)/8)))
	exits := randomPoints(rng, numExits, width, length)
	numObstacles := int(math.Sqrt(width*length) / 5)
	obstacles := randomPoints(rng, numObstacles, width, length)

	for step := 0; step < timeSteps; step++ {
		forces := socialForces(positions, velocities, exits, obstacles)
		for i := range velocities {
			velocities[i] = velocities[i].add(forces[i].scale(relaxationTime))
		}
		updatePositions(positions, velocities, obstacles, width, length)

		congestion += measureCongestion(positions)

		if allExited(positions, exits) {
			evacuationTime = float64(step + 1)
			break
		}
	}
	if evacuationTime == 0 {
		evacuationTime = timeSteps
	}
	return congestion, evacuationTime
}

func randomPoints(rng *rand.Rand, n int, width, length float64) []vec2 {
	points := make([]vec2, n)
	for i := range points {
		points[i] = vec2{rng.Float64() * width, rng.Float64() * length}
	}
	return points
}

func socialForces(positions, velocities, exits, obstacles []vec2) []vec2 {
	forces := make([]vec2, len(positions))
	for i, p := range positions {
		// Drive toward the nearest exit
		target := nearestPoint(p, exits)
		dir := target.sub(p)
		if n := dir.norm(); n > 1e-6 {
			dir = dir.scale(1 / n)
		}
		desired := dir.scale(desiredSpeed * panicFactor)
		forces[i] = desired.sub(velocities[i]).scale(1 / relaxationTime)

		// Repulsion from other pedestrians
		for j, q := range positions {
			if i == j {
				continue
			}
			diff := p.sub(q)
			dist := math.Max(diff.norm(), 1e-6)
			forces[i] = forces[i].sub(diff.scale(math.Exp(-dist/0.3) / dist))
		}

		// Repulsion from obstacles
		for _, o := range obstacles {
			diff := p.sub(o)
			dist := math.Max(diff.norm(), 1e-6)
			forces[i] = forces[i].sub(diff.scale(math.Exp(-dist/0.5) / dist))
		}

		if magnitude := forces[i].norm(); magnitude > maxForce {
			forces[i] = forces[i].scale(maxForce / magnitude)
		}
	}
	return forces
}

func updatePositions(positions, velocities, obstacles []vec2, width, length float64) {
	for i, p := range positions {
		next := p.add(velocities[i].scale(relaxationTime))
		next.x = math.Min(math.Max(next.x, 0), width)
		next.y = math.Min(math.Max(next.y, 0), length)

		// Pedestrians cannot step into an obstacle's footprint
		blocked := false
		for _, o := range obstacles {
			if next.sub(o).norm() < 0.5 {
				blocked = true
				break
			}
		}
		if !blocked {
			positions[i] = next
		}
	}
}

func nearestPoint(p vec2, points []vec2) vec2 {
	distances := make([]float64, len(points))
	for i, q := range points {
		distances[i] = p.sub(q).norm()
	}
	return points[floats.MinIdx(distances)]
}

func measureCongestion(positions []vec2) float64 {
	crowded := 0
	for i, p := range positions {
		for j, q := range positions {
			if i != j && p.sub(q).norm() < 0.5 {
				crowded++
			}
		}
	}
	return float64(crowded) / float64(len(positions))
}

func allExited(positions, exits []vec2) bool {
	for _, p := range positions {
		if p.sub(nearestPoint(p, exits)).norm() >= exitThreshold {
			return false
		}
	}
	return true
}

func evacuationEfficiency(width, length, avgEvacuationTime float64) float64 {
	if avgEvacuationTime == 0 {
		return 1.0
	}
	idealTime := math.Hypot(width, length) / desiredSpeed
	return math.Min(1.0, idealTime/avgEvacuationTime)
}
