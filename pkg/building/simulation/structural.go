// Package simulation implements the seven objective calculators for building
// designs. Each calculator is a pure function of the decoded design; the
// Evaluator assembles their headline scores into the canonical objective
// vector.
package simulation

import (
	"math"

	"github.com/evodesign/evodesign/pkg/building"
)

const gravity = 9.81 // m/s^2

// StructuralResult breaks down the structural analysis. Overall is the
// weighted combination used as the structural_integrity objective.
type StructuralResult struct {
	Overall              float64
	LateralStability     float64
	VerticalLoadCapacity float64
	FoundationStability  float64
	SeismicPerformance   float64
	WindResistance       float64
}

// AnalyseStructure assesses lateral stability, vertical load capacity,
// foundation stability, seismic performance, and wind resistance.
func AnalyseStructure(d building.Design) StructuralResult {
	e, s := d.Envelope, d.Structure

	r := StructuralResult{
		LateralStability:     lateralStability(e, s),
		VerticalLoadCapacity: verticalLoadCapacity(e, s),
		FoundationStability:  foundationStability(e, s),
		SeismicPerformance:   seismicPerformance(e, s),
		WindResistance:       windResistance(e, s),
	}
	r.Overall = r.LateralStability*0.25 +
		r.VerticalLoadCapacity*0.25 +
		r.FoundationStability*0.2 +
		r.SeismicPerformance*0.15 +
		r.WindResistance*0.15
	return r
}

func lateralStability(e building.Envelope, s building.StructuralSystem) float64 {
	aspectRatio := e.Height / math.Min(e.Width, e.Length)
	base := 0.9
	switch {
	case aspectRatio > 5:
		base = 0.5
	case aspectRatio > 3:
		base = 0.7
	}
	return base * frameFactor(s.FrameType) * materialFactor(s.Material)
}

func verticalLoadCapacity(e building.Envelope, s building.StructuralSystem) float64 {
	volume := e.Height * e.Width * e.Length

	var density, strength float64
	switch s.Material {
	case "concrete":
		density, strength = 2400, 30e6
	case "steel":
		density, strength = 7850, 250e6
	default: // wood
		density, strength = 500, 20e6
	}

	mass := volume * density
	loadCapacity := strength * e.Width * e.Length
	safetyFactor := loadCapacity / (mass * gravity)

	// Ideal safety factor of 3
	return math.Min(1, safetyFactor/3)
}

func foundationStability(e building.Envelope, s building.StructuralSystem) float64 {
	area := e.Width * e.Length

	var basePressure float64
	switch s.Material {
	case "concrete":
		basePressure = 300e3
	case "steel":
		basePressure = 250e3
	default: // wood
		basePressure = 150e3
	}

	foundationCapacity := area * basePressure
	estimatedWeight := area * 5000 // 5000 N/m^2

	// Ideal safety factor of 2
	return math.Min(1, foundationCapacity/estimatedWeight/2)
}

func seismicPerformance(e building.Envelope, s building.StructuralSystem) float64 {
	var base float64
	switch s.FrameType {
	case "moment frame":
		base = 0.7
	case "braced frame":
		base = 0.8
	default: // shear wall
		base = 0.9
	}

	heightFactor := math.Max(0, 1-(e.Height-20)*0.005)
	return base * materialFactor(s.Material) * heightFactor
}

func windResistance(e building.Envelope, s building.StructuralSystem) float64 {
	aspectRatio := e.Height / math.Min(e.Width, e.Length)
	base := 1.0
	switch {
	case aspectRatio > 5:
		base = 0.6
	case aspectRatio > 3:
		base = 0.8
	}
	return base * frameFactor(s.FrameType) * materialFactor(s.Material)
}

func frameFactor(frameType string) float64 {
	switch frameType {
	case "moment frame":
		return 0.9
	case "braced frame":
		return 1.0
	default: // shear wall
		return 1.1
	}
}

func materialFactor(material string) float64 {
	switch material {
	case "steel":
		return 1.1
	case "concrete":
		return 1.0
	default: // wood
		return 0.8
	}
}
