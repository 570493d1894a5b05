package building

// Design is the decoded, fixed-field view of a genome. Each group maps to a
// typed struct resolved at compile time; there are no runtime scheme lookup
// tables.
type Design struct {
	Envelope   Envelope         `json:"building_envelope"`
	Structure  StructuralSystem `json:"structural_system"`
	FloorPlans FloorPlans       `json:"floor_plans"`
	MEP        MEPSystems       `json:"mep_systems"`
	Facade     Facade           `json:"facade"`
}

type Envelope struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Shape  string  `json:"shape"`
}

type StructuralSystem struct {
	Material  string `json:"material"`
	FrameType string `json:"frame_type"`
}

type FloorPlans struct {
	NumFloors   int     `json:"num_floors"`
	FloorHeight float64 `json:"floor_height"`
}

type MEPSystems struct {
	HVACType        string `json:"hvac_type"`
	LightingType    string `json:"lighting_type"`
	PlumbingType    string `json:"plumbing_type"`
	RenewableEnergy bool   `json:"renewable_energy"`
}

type Facade struct {
	WindowRatio float64 `json:"window_ratio"`
	Material    string  `json:"material"`
}

// Decode turns a genome into its architectural design. The genome is schema
// validated first, so downstream consumers never see malformed data.
func Decode(g *Genome) (Design, error) {
	if err := g.Validate(); err != nil {
		return Design{}, err
	}

	envelope := g.Groups[0].Children
	structural := g.Groups[1].Children
	floors := g.Groups[2].Children
	mep := g.Groups[3].Children
	facade := g.Groups[4].Children

	return Design{
		Envelope: Envelope{
			Height: envelope[0].Float,
			Width:  envelope[1].Float,
			Length: envelope[2].Float,
			Shape:  envelope[3].Enum,
		},
		Structure: StructuralSystem{
			Material:  structural[0].Enum,
			FrameType: structural[1].Enum,
		},
		FloorPlans: FloorPlans{
			NumFloors:   floors[0].Int,
			FloorHeight: floors[1].Float,
		},
		MEP: MEPSystems{
			HVACType:        mep[0].Enum,
			LightingType:    mep[1].Enum,
			PlumbingType:    mep[2].Enum,
			RenewableEnergy: mep[3].Bool,
		},
		Facade: Facade{
			WindowRatio: facade[0].Float,
			Material:    facade[1].Enum,
		},
	}, nil
}

// Encode builds a genome from an architectural design and validates the
// result, rejecting designs with out-of-schema categorical values.
func Encode(d Design) (*Genome, error) {
	g := &Genome{
		id: newGenomeID(),
		Groups: []*Gene{
			{Name: GroupEnvelope, Kind: Group, Children: []*Gene{
				{Name: "height", Kind: Continuous, Float: d.Envelope.Height},
				{Name: "width", Kind: Continuous, Float: d.Envelope.Width},
				{Name: "length", Kind: Continuous, Float: d.Envelope.Length},
				{Name: "shape", Kind: Categorical, Enum: d.Envelope.Shape},
			}},
			{Name: GroupStructural, Kind: Group, Children: []*Gene{
				{Name: "material", Kind: Categorical, Enum: d.Structure.Material},
				{Name: "frame_type", Kind: Categorical, Enum: d.Structure.FrameType},
			}},
			{Name: GroupFloorPlans, Kind: Group, Children: []*Gene{
				{Name: "num_floors", Kind: Discrete, Int: d.FloorPlans.NumFloors},
				{Name: "floor_height", Kind: Continuous, Float: d.FloorPlans.FloorHeight},
			}},
			{Name: GroupMEP, Kind: Group, Children: []*Gene{
				{Name: "hvac_type", Kind: Categorical, Enum: d.MEP.HVACType},
				{Name: "lighting_type", Kind: Categorical, Enum: d.MEP.LightingType},
				{Name: "plumbing_type", Kind: Categorical, Enum: d.MEP.PlumbingType},
				{Name: "renewable_energy", Kind: Boolean, Bool: d.MEP.RenewableEnergy},
			}},
			{Name: GroupFacade, Kind: Group, Children: []*Gene{
				{Name: "window_ratio", Kind: Continuous, Float: d.Facade.WindowRatio},
				{Name: "material", Kind: Categorical, Enum: d.Facade.Material},
			}},
		},
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
