package building

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrSchemaViolation signals a genome with missing or extra genes, or a type
// mismatch on a leaf. It indicates a broken caller and is never tolerated.
var ErrSchemaViolation = errors.New("genome schema violation")

// GeneKind tags the typed payload of a leaf, or marks a grouping node.
type GeneKind int

const (
	Continuous GeneKind = iota
	Discrete
	Categorical
	Boolean
	Group
)

func (k GeneKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Discrete:
		return "discrete"
	case Categorical:
		return "categorical"
	case Boolean:
		return "boolean"
	case Group:
		return "group"
	}
	return "unknown"
}

// Gene is a named node: either a scalar leaf or a grouping node with an
// ordered, non-empty list of children. Never both.
type Gene struct {
	Name string
	Kind GeneKind

	Float    float64
	Int      int
	Enum     string
	Bool     bool
	Children []*Gene
}

// Clone deep-copies the gene including nested children; the copy shares no
// mutable state with the source.
func (g *Gene) Clone() *Gene {
	c := &Gene{
		Name:  g.Name,
		Kind:  g.Kind,
		Float: g.Float,
		Int:   g.Int,
		Enum:  g.Enum,
		Bool:  g.Bool,
	}
	if len(g.Children) > 0 {
		c.Children = make([]*Gene, len(g.Children))
		for i, child := range g.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// mutate perturbs leaves in place, each independently with probability rate:
// continuous values scale by a factor in [0.8, 1.2], discrete values scale by
// the same factor and round, booleans flip. Categorical leaves only change
// through crossover; that asymmetry is a known limitation of the operator.
// Group structure is never changed.
func (g *Gene) mutate(rng *rand.Rand, rate float64) {
	switch g.Kind {
	case Group:
		for _, child := range g.Children {
			child.mutate(rng, rate)
		}
		return
	case Continuous:
		if rng.Float64() < rate {
			g.Float *= 0.8 + 0.4*rng.Float64()
		}
	case Discrete:
		if rng.Float64() < rate {
			scaled := int(math.Round(float64(g.Int) * (0.8 + 0.4*rng.Float64())))
			if scaled < 1 {
				scaled = 1
			}
			g.Int = scaled
		}
	case Boolean:
		if rng.Float64() < rate {
			g.Bool = !g.Bool
		}
	case Categorical:
	}
}

// validate checks the leaf-xor-group invariant and the expected name/kind.
func (g *Gene) validate(spec LeafSpec) error {
	if g.Name != spec.Name {
		return fmt.Errorf("%w: leaf %q, want %q", ErrSchemaViolation, g.Name, spec.Name)
	}
	if g.Kind != spec.Kind {
		return fmt.Errorf("%w: leaf %q is %s, want %s", ErrSchemaViolation, g.Name, g.Kind, spec.Kind)
	}
	if len(g.Children) != 0 {
		return fmt.Errorf("%w: leaf %q has children", ErrSchemaViolation, g.Name)
	}
	if g.Kind == Categorical {
		found := false
		for _, opt := range spec.Options {
			if g.Enum == opt {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: leaf %q has value %q outside %v", ErrSchemaViolation, g.Name, g.Enum, spec.Options)
		}
	}
	return nil
}
