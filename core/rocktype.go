package core

// RockType is a closed enum of twelve rock/soil variants grouped into four
// geological categories. Each variant carries a fixed hardness and
// erosion-resistance drawn from a static table below.
type RockType uint8

const (
	SedimentaryLimestone RockType = iota
	SedimentarySandstone
	SedimentaryShale
	IgneousGranite
	IgneousBasalt
	IgneousObsidian
	MetamorphicMarble
	MetamorphicSlate
	MetamorphicQuartzite
	SoilClay
	SoilSand
	SoilLoam

	rockTypeCount
)

// String returns the display name for a rock type.
func (r RockType) String() string {
	switch r {
	case SedimentaryLimestone:
		return "Limestone"
	case SedimentarySandstone:
		return "Sandstone"
	case SedimentaryShale:
		return "Shale"
	case IgneousGranite:
		return "Granite"
	case IgneousBasalt:
		return "Basalt"
	case IgneousObsidian:
		return "Obsidian"
	case MetamorphicMarble:
		return "Marble"
	case MetamorphicSlate:
		return "Slate"
	case MetamorphicQuartzite:
		return "Quartzite"
	case SoilClay:
		return "Clay"
	case SoilSand:
		return "Sand"
	case SoilLoam:
		return "Loam"
	default:
		return "Unknown"
	}
}

// rockProperties holds the static hardness/resistance table. Hardness is on
// a 0-10 scale; erosion resistance is a unitless factor that micro-weathering
// multiplies its per-step decrement by.
type rockProperties struct {
	hardness        float64
	erosionResistance float64
	permeability    float64 // used by WaterSystemSimulator; default 0.5
}

var rockTable = [rockTypeCount]rockProperties{
	SedimentaryLimestone: {hardness: 3.0, erosionResistance: 0.4, permeability: 0.9},
	SedimentarySandstone: {hardness: 4.0, erosionResistance: 0.5, permeability: 0.8},
	SedimentaryShale:     {hardness: 2.0, erosionResistance: 0.3, permeability: 0.2},
	IgneousGranite:       {hardness: 8.0, erosionResistance: 0.9, permeability: 0.3},
	IgneousBasalt:        {hardness: 6.0, erosionResistance: 0.7, permeability: 0.4},
	IgneousObsidian:      {hardness: 5.0, erosionResistance: 0.6, permeability: 0.1},
	MetamorphicMarble:    {hardness: 3.5, erosionResistance: 0.45, permeability: 0.5},
	MetamorphicSlate:     {hardness: 4.5, erosionResistance: 0.55, permeability: 0.5},
	MetamorphicQuartzite: {hardness: 9.0, erosionResistance: 0.95, permeability: 0.5},
	SoilClay:             {hardness: 1.0, erosionResistance: 0.15, permeability: 0.5},
	SoilSand:             {hardness: 0.5, erosionResistance: 0.1, permeability: 0.5},
	SoilLoam:             {hardness: 1.5, erosionResistance: 0.2, permeability: 0.5},
}

// Hardness returns the static hardness (0-10) for a rock type.
func (r RockType) Hardness() float64 {
	if int(r) >= len(rockTable) {
		return 5.0
	}
	return rockTable[r].hardness
}

// ErosionResistance returns the static erosion-resistance multiplier.
func (r RockType) ErosionResistance() float64 {
	if int(r) >= len(rockTable) {
		return 0.5
	}
	return rockTable[r].erosionResistance
}

// Permeability returns water permeability, used by the water-flow engine
// to decide how much surface water infiltrates per step.
func (r RockType) Permeability() float64 {
	if int(r) >= len(rockTable) {
		return 0.5
	}
	return rockTable[r].permeability
}

// IsKarstic reports whether caves/spring amplification applies to this rock
// (limestone and sandstone only).
func (r RockType) IsKarstic() bool {
	return r == SedimentaryLimestone || r == SedimentarySandstone
}
