package building

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/evodesign/evodesign/pkg/multiobjective/framework"
)

// LeafSpec describes one typed leaf of the schema, with its initialization
// range or option set.
type LeafSpec struct {
	Name string
	Kind GeneKind

	Min, Max       float64  // continuous sampling range
	IntMin, IntMax int      // discrete sampling range, inclusive
	Options        []string // categorical choices
}

// GroupSpec is one of the five fixed top-level gene groups.
type GroupSpec struct {
	Name   string
	Leaves []LeafSpec
}

// Group names, in schema order.
const (
	GroupEnvelope   = "building_envelope"
	GroupStructural = "structural_system"
	GroupFloorPlans = "floor_plans"
	GroupMEP        = "mep_systems"
	GroupFacade     = "facade"
)

// Schema is the fixed five-group layout of every building genome. It is
// process-wide constant metadata; the ordering gives positional
// correspondence between individuals for crossover.
var Schema = []GroupSpec{
	{Name: GroupEnvelope, Leaves: []LeafSpec{
		{Name: "height", Kind: Continuous, Min: 10, Max: 100},
		{Name: "width", Kind: Continuous, Min: 10, Max: 50},
		{Name: "length", Kind: Continuous, Min: 10, Max: 50},
		{Name: "shape", Kind: Categorical, Options: []string{"rectangular", "L-shaped", "U-shaped"}},
	}},
	{Name: GroupStructural, Leaves: []LeafSpec{
		{Name: "material", Kind: Categorical, Options: []string{"concrete", "steel", "wood"}},
		{Name: "frame_type", Kind: Categorical, Options: []string{"moment frame", "braced frame", "shear wall"}},
	}},
	{Name: GroupFloorPlans, Leaves: []LeafSpec{
		{Name: "num_floors", Kind: Discrete, IntMin: 1, IntMax: 19},
		{Name: "floor_height", Kind: Continuous, Min: 2.5, Max: 4},
	}},
	{Name: GroupMEP, Leaves: []LeafSpec{
		{Name: "hvac_type", Kind: Categorical, Options: []string{"central", "distributed", "hybrid"}},
		{Name: "lighting_type", Kind: Categorical, Options: []string{"LED", "fluorescent", "incandescent"}},
		{Name: "plumbing_type", Kind: Categorical, Options: []string{"central", "distributed"}},
		{Name: "renewable_energy", Kind: Boolean},
	}},
	{Name: GroupFacade, Leaves: []LeafSpec{
		{Name: "window_ratio", Kind: Continuous, Min: 0.1, Max: 0.6},
		{Name: "material", Kind: Categorical, Options: []string{"glass", "metal", "composite"}},
	}},
}

// Genome is one building design: the five schema groups in schema order, plus
// a stable identity for logging and persistence. Per-generation metrics
// (front rank, crowding distance) are tracked positionally by the optimizer,
// never stored here.
type Genome struct {
	id     string
	Groups []*Gene
}

var _ framework.Solution = &Genome{}
var _ framework.Identifiable = &Genome{}

func newGenomeID() string {
	return uuid.NewString()
}

// NewRandomGenome samples every leaf from its schema range.
func NewRandomGenome(rng *rand.Rand) *Genome {
	g := &Genome{
		id:     newGenomeID(),
		Groups: make([]*Gene, len(Schema)),
	}
	for i, group := range Schema {
		node := &Gene{Name: group.Name, Kind: Group, Children: make([]*Gene, len(group.Leaves))}
		for j, spec := range group.Leaves {
			node.Children[j] = sampleLeaf(rng, spec)
		}
		g.Groups[i] = node
	}
	return g
}

func sampleLeaf(rng *rand.Rand, spec LeafSpec) *Gene {
	leaf := &Gene{Name: spec.Name, Kind: spec.Kind}
	switch spec.Kind {
	case Continuous:
		leaf.Float = spec.Min + rng.Float64()*(spec.Max-spec.Min)
	case Discrete:
		leaf.Int = spec.IntMin + rng.IntN(spec.IntMax-spec.IntMin+1)
	case Categorical:
		leaf.Enum = spec.Options[rng.IntN(len(spec.Options))]
	case Boolean:
		leaf.Bool = rng.IntN(2) == 0
	}
	return leaf
}

func (g *Genome) ID() string {
	return g.id
}

// Clone deep-copies every gene; the clone gets its own identity.
func (g *Genome) Clone() framework.Solution {
	c := &Genome{
		id:     newGenomeID(),
		Groups: make([]*Gene, len(g.Groups)),
	}
	for i, group := range g.Groups {
		c.Groups[i] = group.Clone()
	}
	return c
}

// Mutate perturbs leaves in place. Malformed genomes are rejected before any
// leaf changes.
func (g *Genome) Mutate(rng *rand.Rand, rate float64) error {
	if err := g.Validate(); err != nil {
		return err
	}
	for _, group := range g.Groups {
		group.mutate(rng, rate)
	}
	return nil
}

// Crossover assembles a child by taking, for each of the five groups
// independently with probability 0.5, a deep clone of this genome's group or
// of other's. Group-level exchange preserves correlated sub-designs (a whole
// MEP package moves as a unit).
func (g *Genome) Crossover(rng *rand.Rand, other framework.Solution) (framework.Solution, error) {
	o, ok := other.(*Genome)
	if !ok {
		return nil, framework.ErrSolutionType
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	child := &Genome{
		id:     newGenomeID(),
		Groups: make([]*Gene, len(Schema)),
	}
	for i := range Schema {
		if rng.Float64() < 0.5 {
			child.Groups[i] = g.Groups[i].Clone()
		} else {
			child.Groups[i] = o.Groups[i].Clone()
		}
	}
	return child, nil
}

// Group returns the named top-level group, or nil.
func (g *Genome) Group(name string) *Gene {
	for _, group := range g.Groups {
		if group.Name == name {
			return group
		}
	}
	return nil
}

// Validate checks the genome against the schema: all five groups present in
// order, with all expected leaves of the expected kinds.
func (g *Genome) Validate() error {
	if len(g.Groups) != len(Schema) {
		return fmt.Errorf("%w: %d groups, want %d", ErrSchemaViolation, len(g.Groups), len(Schema))
	}
	for i, spec := range Schema {
		group := g.Groups[i]
		if group == nil || group.Name != spec.Name {
			return fmt.Errorf("%w: group %d is not %q", ErrSchemaViolation, i, spec.Name)
		}
		if group.Kind != Group {
			return fmt.Errorf("%w: %q is not a group node", ErrSchemaViolation, spec.Name)
		}
		if len(group.Children) != len(spec.Leaves) {
			return fmt.Errorf("%w: group %q has %d leaves, want %d",
				ErrSchemaViolation, spec.Name, len(group.Children), len(spec.Leaves))
		}
		for j, leafSpec := range spec.Leaves {
			if err := group.Children[j].validate(leafSpec); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Genome) String() string {
	var b strings.Builder
	for _, group := range g.Groups {
		fmt.Fprintf(&b, "%s:\n", group.Name)
		for _, leaf := range group.Children {
			switch leaf.Kind {
			case Continuous:
				fmt.Fprintf(&b, "  %s: %.3f\n", leaf.Name, leaf.Float)
			case Discrete:
				fmt.Fprintf(&b, "  %s: %d\n", leaf.Name, leaf.Int)
			case Categorical:
				fmt.Fprintf(&b, "  %s: %s\n", leaf.Name, leaf.Enum)
			case Boolean:
				fmt.Fprintf(&b, "  %s: %t\n", leaf.Name, leaf.Bool)
			}
		}
	}
	return b.String()
}
