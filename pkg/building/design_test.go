package building

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDesign() Design {
	return Design{
		Envelope:   Envelope{Height: 45, Width: 30, Length: 25, Shape: "rectangular"},
		Structure:  StructuralSystem{Material: "concrete", FrameType: "braced frame"},
		FloorPlans: FloorPlans{NumFloors: 12, FloorHeight: 3.2},
		MEP: MEPSystems{
			HVACType:        "central",
			LightingType:    "LED",
			PlumbingType:    "distributed",
			RenewableEnergy: true,
		},
		Facade: Facade{WindowRatio: 0.35, Material: "glass"},
	}
}

func TestDesignRoundtrip(t *testing.T) {
	want := testDesign()

	g, err := Encode(want)
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	got, err := Decode(g)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decode(encode(d)) mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRandomGenome(t *testing.T) {
	g := NewRandomGenome(testRand(30))
	d, err := Decode(g)
	require.NoError(t, err)

	assert.Equal(t, g.Groups[0].Children[0].Float, d.Envelope.Height)
	assert.Equal(t, g.Groups[2].Children[0].Int, d.FloorPlans.NumFloors)
	assert.Equal(t, g.Groups[3].Children[3].Bool, d.MEP.RenewableEnergy)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	g := NewRandomGenome(testRand(31))
	g.Groups[4].Children[1].Enum = "cardboard"

	_, err := Decode(g)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestEncodeRejectsBadEnums(t *testing.T) {
	d := testDesign()
	d.Structure.FrameType = "space frame"

	_, err := Encode(d)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestDesignJSONKeys(t *testing.T) {
	data, err := json.Marshal(testDesign())
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))
	for _, key := range []string{
		GroupEnvelope, GroupStructural, GroupFloorPlans, GroupMEP, GroupFacade,
	} {
		assert.Contains(t, m, key)
	}
}
