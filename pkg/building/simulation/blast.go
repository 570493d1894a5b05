package simulation

import (
	"math"

	"github.com/evodesign/evodesign/pkg/building"
)

// Blast load and integration parameters.
const (
	peakPressure          = 1000e3 // Pa
	positivePhaseDuration = 0.02   // s
	blastDuration         = 0.5    // s
	blastSteps            = 1000
	yieldDisplacement     = 0.1 // m
	ultimateDisplacement  = 0.5 // m
)

// BlastResult summarizes the single-degree-of-freedom blast response. Score
// is the blast_resistance objective (1 - damage index).
type BlastResult struct {
	Score           float64
	DamageIndex     float64
	MaxDisplacement float64
	MaxVelocity     float64
}

// SimulateBlast models the building as a single-degree-of-freedom oscillator
// under a triangular blast pulse, integrating displacement with fixed-step
// RK4 and mapping the peak displacement to a damage index.
func SimulateBlast(d building.Design) BlastResult {
	mass := blastMass(d)
	stiffness := blastStiffness(d)
	loadedArea := d.Envelope.Width * d.Envelope.Length

	// State: displacement, velocity
	x, v := 0.0, 0.0
	maxDisplacement, maxVelocity := 0.0, 0.0
	h := blastDuration / blastSteps

	accel := func(t, x, v float64) float64 {
		f := 0.0
		if t <= positivePhaseDuration {
			f = peakPressure * (1 - t/positivePhaseDuration) * loadedArea
		}
		return (f - stiffness*x) / mass
	}

	for i := 0; i < blastSteps; i++ {
		t := float64(i) * h

		k1x := v
		k1v := accel(t, x, v)
		k2x := v + 0.5*h*k1v
		k2v := accel(t+0.5*h, x+0.5*h*k1x, v+0.5*h*k1v)
		k3x := v + 0.5*h*k2v
		k3v := accel(t+0.5*h, x+0.5*h*k2x, v+0.5*h*k2v)
		k4x := v + h*k3v
		k4v := accel(t+h, x+h*k3x, v+h*k3v)

		x += h / 6 * (k1x + 2*k2x + 2*k3x + k4x)
		v += h / 6 * (k1v + 2*k2v + 2*k3v + k4v)

		maxDisplacement = math.Max(maxDisplacement, math.Abs(x))
		maxVelocity = math.Max(maxVelocity, math.Abs(v))
	}

	damage := damageIndex(maxDisplacement)
	return BlastResult{
		Score:           1 - damage,
		DamageIndex:     damage,
		MaxDisplacement: maxDisplacement,
		MaxVelocity:     maxVelocity,
	}
}

func blastMass(d building.Design) float64 {
	volume := d.Envelope.Height * d.Envelope.Width * d.Envelope.Length
	var density float64
	switch d.Structure.Material {
	case "concrete":
		density = 2400
	case "steel":
		density = 7850
	default: // wood
		density = 500
	}
	return volume * density
}

func blastStiffness(d building.Design) float64 {
	var elasticModulus float64
	switch d.Structure.Material {
	case "concrete":
		elasticModulus = 30e9
	case "steel":
		elasticModulus = 200e9
	default: // wood
		elasticModulus = 11e9
	}

	momentOfInertia := d.Envelope.Width * math.Pow(d.Envelope.Length, 3) / 12

	var factor float64
	switch d.Structure.FrameType {
	case "moment frame":
		factor = 1
	case "braced frame":
		factor = 1.5
	default: // shear wall
		factor = 2
	}

	return factor * 3 * elasticModulus * momentOfInertia / math.Pow(d.Envelope.Height, 3)
}

func damageIndex(maxDisplacement float64) float64 {
	switch {
	case maxDisplacement < yieldDisplacement:
		return 0
	case maxDisplacement > ultimateDisplacement:
		return 1
	default:
		return (maxDisplacement - yieldDisplacement) / (ultimateDisplacement - yieldDisplacement)
	}
}
