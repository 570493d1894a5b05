package simulation

import (
	"github.com/evodesign/evodesign/pkg/building"
)

// EnergyResult holds the annual energy estimate. Efficiency is the
// energy_efficiency objective before clamping.
type EnergyResult struct {
	Efficiency   float64
	Consumption  float64 // kWh/year
	CO2Emissions float64 // kg CO2/year
}

// SimulateEnergy estimates annual consumption from the envelope volume and
// the MEP package, then scores it against the expected worst case.
func SimulateEnergy(d building.Design) EnergyResult {
	volume := d.Envelope.Height * d.Envelope.Width * d.Envelope.Length

	consumption := volume * 100 // kWh/year baseline

	// More glazing leaks more energy
	consumption *= 1 + d.Facade.WindowRatio

	switch d.MEP.HVACType {
	case "central":
		consumption *= 0.9
	case "distributed":
		consumption *= 1.1
	}

	switch d.MEP.LightingType {
	case "LED":
		consumption *= 0.8
	case "fluorescent":
		consumption *= 1.2
	}

	if d.MEP.PlumbingType == "central" {
		consumption *= 0.95
	}

	if d.MEP.RenewableEnergy {
		// Roughly 30% offset from renewables
		consumption *= 0.7
	}

	maxEnergy := volume * 150
	return EnergyResult{
		Efficiency:   1 - consumption/maxEnergy,
		Consumption:  consumption,
		CO2Emissions: consumption * 0.5,
	}
}
