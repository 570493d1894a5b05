package building

// Objective enumerates the seven evaluation criteria in the one canonical
// order used everywhere. Every evaluator and consumer conforms to this order;
// any other ordering is a bug, not a variant.
type Objective int

const (
	StructuralIntegrity Objective = iota
	EnergyEfficiency
	Safety
	Livability
	Cost
	PedestrianFlow
	BlastResistance
)

// NumObjectives is the fixed length of every objective vector.
const NumObjectives = int(BlastResistance) + 1

var objectiveNames = [NumObjectives]string{
	"structural_integrity",
	"energy_efficiency",
	"safety",
	"livability",
	"cost",
	"pedestrian_flow",
	"blast_resistance",
}

func (o Objective) String() string {
	if o < 0 || int(o) >= NumObjectives {
		return "unknown"
	}
	return objectiveNames[o]
}

// ObjectiveNames returns the canonical names in canonical order.
func ObjectiveNames() []string {
	names := make([]string, NumObjectives)
	copy(names, objectiveNames[:])
	return names
}
