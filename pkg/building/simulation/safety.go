package simulation

import (
	"math"
	"math/rand/v2"

	"github.com/evodesign/evodesign/pkg/building"
)

// SafetyResult breaks down the safety assessment. Overall is the safety
// objective.
type SafetyResult struct {
	Overall                 float64
	FireSafety              float64
	StructuralSafety        float64
	EmergencyExitSafety     float64
	HazardousMaterialSafety float64
	SecurityMeasures        float64
	EarthquakeSafety        float64
	FloodSafety             float64
	WindSafety              float64
}

// AssessSafety covers fire, structural, emergency-exit, hazardous-material,
// security, earthquake, flood, and wind safety. The hazmat and security
// sub-scores model survey variance; they draw from a design-derived stream so
// the same design always assesses identically.
func AssessSafety(d building.Design) SafetyResult {
	rng := designRand(d)

	r := SafetyResult{
		FireSafety:              fireSafety(d),
		StructuralSafety:        structuralSafety(d),
		EmergencyExitSafety:     emergencyExitSafety(d),
		HazardousMaterialSafety: 0.7 + 0.3*rng.Float64(),
		SecurityMeasures:        0.6 + 0.4*rng.Float64(),
		EarthquakeSafety:        earthquakeSafety(d),
		FloodSafety:             floodSafety(d),
		WindSafety:              windSafety(d),
	}
	r.Overall = r.FireSafety*0.3 +
		r.StructuralSafety*0.3 +
		r.EmergencyExitSafety*0.1 +
		r.HazardousMaterialSafety*0.1 +
		r.SecurityMeasures*0.05 +
		r.EarthquakeSafety*0.05 +
		r.FloodSafety*0.05 +
		r.WindSafety*0.05
	return r
}

func fireSafety(d building.Design) float64 {
	var base float64
	switch d.Structure.Material {
	case "concrete":
		base = 0.8
	case "steel":
		base = 0.7
	default: // wood
		base = 0.5
	}

	// More floors are harder to evacuate
	floorFactor := math.Max(0, 1-float64(d.FloorPlans.NumFloors-5)*0.02)
	return base * floorFactor
}

func structuralSafety(d building.Design) float64 {
	var base float64
	switch d.Structure.Material {
	case "concrete":
		base = 0.8
	case "steel":
		base = 0.9
	default: // wood
		base = 0.6
	}

	heightFactor := math.Max(0, 1-(d.Envelope.Height-20)*0.005)
	return base * frameFactor(d.Structure.FrameType) * heightFactor
}

func emergencyExitSafety(d building.Design) float64 {
	area := d.Envelope.Width * d.Envelope.Length
	// One exit per 100 m^2, minimum two
	numExits := math.Max(2, math.Floor(math.Sqrt(area)/10))

	// Ideal: two exits per floor
	return math.Min(1, numExits/(float64(d.FloorPlans.NumFloors)/2))
}

func earthquakeSafety(d building.Design) float64 {
	var base float64
	switch d.Structure.FrameType {
	case "moment frame":
		base = 0.7
	case "braced frame":
		base = 0.8
	default: // shear wall
		base = 0.9
	}

	heightFactor := math.Max(0, 1-(d.Envelope.Height-20)*0.005)
	return base * heightFactor
}

func floodSafety(d building.Design) float64 {
	// 20m assumed maximum flood height
	return math.Min(1, d.Envelope.Height/20)
}

func windSafety(d building.Design) float64 {
	var base float64
	switch d.Envelope.Shape {
	case "rectangular":
		base = 0.7
	case "L-shaped":
		base = 0.8
	default: // U-shaped
		base = 0.9
	}

	heightFactor := math.Max(0, 1-(d.Envelope.Height-50)*0.005)
	return base * heightFactor
}

// designRand derives a random stream from the design itself, keeping every
// stochastic sub-model deterministic per design as the evaluator contract
// requires.
func designRand(d building.Design) *rand.Rand {
	seed := designSeed(d)
	return rand.New(rand.NewPCG(seed, seed))
}
