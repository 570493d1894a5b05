package simulation

import (
	"math"

	"github.com/evodesign/evodesign/pkg/building"
)

// LivabilityResult breaks down occupant comfort. Score is the livability
// objective.
type LivabilityResult struct {
	Score           float64
	SpatialQuality  float64
	NaturalLight    float64
	ThermalComfort  float64
	AcousticComfort float64
	AirQuality      float64
}

// EvaluateLivability averages spatial quality, natural light, thermal
// comfort, acoustic comfort, and air quality.
func EvaluateLivability(d building.Design) LivabilityResult {
	r := LivabilityResult{
		SpatialQuality:  spatialQuality(d),
		NaturalLight:    naturalLight(d),
		ThermalComfort:  thermalComfort(d),
		AcousticComfort: acousticComfort(d),
		AirQuality:      airQuality(d),
	}
	r.Score = (r.SpatialQuality + r.NaturalLight + r.ThermalComfort + r.AcousticComfort + r.AirQuality) / 5
	return r
}

func spatialQuality(d building.Design) float64 {
	area := d.Envelope.Width * d.Envelope.Length
	volume := area * d.FloorPlans.FloorHeight

	// Ideal area 50-200 m^2, ideal volume 150-600 m^3
	areaScore := 1 - math.Min(math.Abs(area-125)/75, 1)
	volumeScore := 1 - math.Min(math.Abs(volume-375)/225, 1)

	var shapeScore float64
	switch d.Envelope.Shape {
	case "rectangular":
		shapeScore = 0.8
	case "L-shaped":
		shapeScore = 0.9
	default: // U-shaped
		shapeScore = 1.0
	}

	return (areaScore + volumeScore + shapeScore) / 3
}

func naturalLight(d building.Design) float64 {
	// Ideal window ratio 0.3-0.6
	lightScore := 1 - math.Min(math.Abs(d.Facade.WindowRatio-0.45)/0.15, 1)

	var shapeScore float64
	switch d.Envelope.Shape {
	case "rectangular":
		shapeScore = 0.9
	case "L-shaped":
		shapeScore = 0.8
	default: // U-shaped
		shapeScore = 0.7
	}

	return (lightScore + shapeScore) / 2
}

func thermalComfort(d building.Design) float64 {
	var hvacScore float64
	switch d.MEP.HVACType {
	case "central":
		hvacScore = 0.9
	case "distributed":
		hvacScore = 0.8
	default: // hybrid
		hvacScore = 1.0
	}

	// Ideal window ratio 0.3-0.5 for thermal performance
	windowScore := 1 - math.Min(math.Abs(d.Facade.WindowRatio-0.4)/0.1, 1)

	return (hvacScore + windowScore) / 2
}

func acousticComfort(d building.Design) float64 {
	floorFactor := math.Max(0, 1-float64(d.FloorPlans.NumFloors-5)*0.05)

	var shapeScore float64
	switch d.Envelope.Shape {
	case "rectangular":
		shapeScore = 0.8
	case "L-shaped":
		shapeScore = 0.9
	default:
		// U-shape creates quieter inner spaces
		shapeScore = 1.0
	}

	return (floorFactor + shapeScore) / 2
}

func airQuality(d building.Design) float64 {
	var hvacScore float64
	switch d.MEP.HVACType {
	case "central":
		hvacScore = 0.8
	case "distributed":
		hvacScore = 0.7
	default: // hybrid
		hvacScore = 0.9
	}

	// Higher window ratio allows for better natural ventilation
	windowScore := math.Min(d.Facade.WindowRatio/0.5, 1)

	return (hvacScore + windowScore) / 2
}
