package simulation

import (
	"math"

	"github.com/evodesign/evodesign/pkg/building"
)

// Material and labour rates, GBP.
const (
	concreteRate  = 100  // per m^3
	steelRate     = 2000 // per ton
	woodRate      = 500  // per m^3
	labourRate    = 50   // per hour
	mepRate       = 50   // per m^3
	finishingRate = 100  // per m^3
)

// CostResult breaks down the construction estimate. Score is the normalized
// cost objective (higher is cheaper); the raw totals are kept for reporting.
type CostResult struct {
	Score         float64
	TotalCost     float64
	CostPerSqm    float64
	MaterialCost  float64
	LabourCost    float64
	MEPCost       float64
	FinishingCost float64
}

// EstimateCost totals material, labour, MEP, and finishing costs, then
// normalizes against a 2000/sqm benchmark so the objective stays on the
// maximize convention.
func EstimateCost(d building.Design) CostResult {
	volume := d.Envelope.Height * d.Envelope.Width * d.Envelope.Length

	r := CostResult{
		MaterialCost:  materialCost(volume, d.Structure.Material),
		LabourCost:    labourCost(volume, d.Structure.FrameType),
		MEPCost:       mepCost(volume, d.MEP),
		FinishingCost: volume * finishingRate,
	}
	r.TotalCost = r.MaterialCost + r.LabourCost + r.MEPCost + r.FinishingCost

	floorArea := d.Envelope.Width * d.Envelope.Length * float64(d.FloorPlans.NumFloors)
	r.CostPerSqm = r.TotalCost / floorArea
	r.Score = math.Max(0, 1-(r.CostPerSqm-2000)/1000)
	return r
}

func materialCost(volume float64, material string) float64 {
	switch material {
	case "steel":
		// Roughly 100kg of steel per cubic meter of building
		return volume * 0.1 * steelRate
	case "concrete":
		return volume * concreteRate
	default: // wood
		return volume * woodRate
	}
}

func labourCost(volume float64, frameType string) float64 {
	var hoursPerCubicMeter float64
	switch frameType {
	case "moment frame":
		hoursPerCubicMeter = 0.5
	case "braced frame":
		hoursPerCubicMeter = 0.4
	default: // shear wall
		hoursPerCubicMeter = 0.3
	}
	return volume * hoursPerCubicMeter * labourRate
}

func mepCost(volume float64, mep building.MEPSystems) float64 {
	base := volume * mepRate

	var hvacFactor float64
	switch mep.HVACType {
	case "central":
		hvacFactor = 1.2
	case "distributed":
		hvacFactor = 1.0
	default: // hybrid
		hvacFactor = 1.1
	}

	renewableFactor := 1.0
	if mep.RenewableEnergy {
		renewableFactor = 1.3
	}

	return base * hvacFactor * renewableFactor
}
