// Package analysis produces human-readable reports for a finished design:
// the full per-discipline simulation breakdown plus a spreadsheet export.
package analysis

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/evodesign/evodesign/pkg/building"
	"github.com/evodesign/evodesign/pkg/building/simulation"
	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

// Report bundles the design characteristics with every simulator's detailed
// result so a reviewer can see why each objective scored the way it did.
type Report struct {
	Design     building.Design
	Objectives framework.ObjectiveSpacePoint
	Overall    float64

	Structural StructuralSection
	Energy     EnergySection
	Safety     SafetySection
	Livability LivabilitySection
	Cost       CostSection
	Pedestrian PedestrianSection
	Blast      BlastSection
}

type StructuralSection = simulation.StructuralResult
type EnergySection = simulation.EnergyResult
type SafetySection = simulation.SafetyResult
type LivabilitySection = simulation.LivabilityResult
type CostSection = simulation.CostResult
type PedestrianSection = simulation.PedestrianResult
type BlastSection = simulation.BlastResult

// Build reruns every simulator against the design and assembles the report.
// The simulators are deterministic per design, so the detailed sections agree
// with the objective vector the optimizer saw.
func Build(d building.Design) Report {
	r := Report{
		Design:     d,
		Structural: simulation.AnalyseStructure(d),
		Energy:     simulation.SimulateEnergy(d),
		Safety:     simulation.AssessSafety(d),
		Livability: simulation.EvaluateLivability(d),
		Cost:       simulation.EstimateCost(d),
		Pedestrian: simulation.SimulatePedestrianFlow(d),
		Blast:      simulation.SimulateBlast(d),
	}
	r.Objectives = framework.ObjectiveSpacePoint{
		r.Structural.Overall,
		r.Energy.Efficiency,
		r.Safety.Overall,
		r.Livability.Score,
		r.Cost.Score,
		r.Pedestrian.Efficiency,
		r.Blast.Score,
	}
	for i, v := range r.Objectives {
		r.Objectives[i] = clamp01(v)
	}
	r.Overall = building.DefaultWeights.WeightedScore(r.Objectives)
	return r
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ExportXLSX writes the report as a two-sheet workbook: a summary sheet with
// the design characteristics and objective scores, and a breakdown sheet with
// every simulator sub-score.
func ExportXLSX(r Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}

	d := r.Design
	summaryRows := [][]interface{}{
		{"Design characteristics", ""},
		{"Height (m)", d.Envelope.Height},
		{"Width (m)", d.Envelope.Width},
		{"Length (m)", d.Envelope.Length},
		{"Shape", d.Envelope.Shape},
		{"Material", d.Structure.Material},
		{"Frame type", d.Structure.FrameType},
		{"Floors", d.FloorPlans.NumFloors},
		{"Floor height (m)", d.FloorPlans.FloorHeight},
		{"HVAC", d.MEP.HVACType},
		{"Lighting", d.MEP.LightingType},
		{"Plumbing", d.MEP.PlumbingType},
		{"Renewable energy", d.MEP.RenewableEnergy},
		{"Window ratio", d.Facade.WindowRatio},
		{"Facade material", d.Facade.Material},
		{"", ""},
		{"Objective scores", ""},
	}
	for obj, score := range r.Objectives {
		summaryRows = append(summaryRows, []interface{}{building.Objective(obj).String(), score})
	}
	summaryRows = append(summaryRows,
		[]interface{}{"", ""},
		[]interface{}{"Overall fitness", r.Overall},
	)
	if err := writeRows(f, summary, summaryRows); err != nil {
		return err
	}

	const breakdown = "Breakdown"
	if _, err := f.NewSheet(breakdown); err != nil {
		return err
	}
	breakdownRows := [][]interface{}{
		{"Structural", ""},
		{"Lateral stability", r.Structural.LateralStability},
		{"Vertical load capacity", r.Structural.VerticalLoadCapacity},
		{"Foundation stability", r.Structural.FoundationStability},
		{"Seismic performance", r.Structural.SeismicPerformance},
		{"Wind resistance", r.Structural.WindResistance},
		{"", ""},
		{"Energy", ""},
		{"Consumption (kWh/year)", r.Energy.Consumption},
		{"CO2 emissions (kg/year)", r.Energy.CO2Emissions},
		{"", ""},
		{"Safety", ""},
		{"Fire safety", r.Safety.FireSafety},
		{"Structural safety", r.Safety.StructuralSafety},
		{"Emergency exits", r.Safety.EmergencyExitSafety},
		{"Hazardous materials", r.Safety.HazardousMaterialSafety},
		{"Security measures", r.Safety.SecurityMeasures},
		{"Earthquake safety", r.Safety.EarthquakeSafety},
		{"Flood safety", r.Safety.FloodSafety},
		{"Wind safety", r.Safety.WindSafety},
		{"", ""},
		{"Livability", ""},
		{"Spatial quality", r.Livability.SpatialQuality},
		{"Natural light", r.Livability.NaturalLight},
		{"Thermal comfort", r.Livability.ThermalComfort},
		{"Acoustic comfort", r.Livability.AcousticComfort},
		{"Air quality", r.Livability.AirQuality},
		{"", ""},
		{"Cost", ""},
		{"Total cost", r.Cost.TotalCost},
		{"Cost per sqm", r.Cost.CostPerSqm},
		{"Material cost", r.Cost.MaterialCost},
		{"Labour cost", r.Cost.LabourCost},
		{"MEP cost", r.Cost.MEPCost},
		{"Finishing cost", r.Cost.FinishingCost},
		{"", ""},
		{"Pedestrian flow", ""},
		{"Avg evacuation time (s)", r.Pedestrian.AvgEvacuationTime},
		{"Avg congestion", r.Pedestrian.AvgCongestion},
		{"", ""},
		{"Blast resistance", ""},
		{"Damage index", r.Blast.DamageIndex},
		{"Max displacement (m)", r.Blast.MaxDisplacement},
		{"Max velocity (m/s)", r.Blast.MaxVelocity},
	}
	if err := writeRows(f, breakdown, breakdownRows); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// Summary renders a short plain-text view of the report for log output.
func Summary(r Report) string {
	s := fmt.Sprintf("overall fitness %.4f\n", r.Overall)
	for obj, score := range r.Objectives {
		s += fmt.Sprintf("  %-21s %.4f\n", building.Objective(obj).String(), score)
	}
	return s
}
