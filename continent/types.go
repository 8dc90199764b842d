// Package continent seeds the simulator's initial elevation, rock-type and
// mantle-stress fields from a handful of tectonic plates placed across a
// 2-D toroidal grid, with ocean depth and river/ridge templates generated
// from placement, noise classification, and L-system formulas.
package continent

import "github.com/voxelcastle/geosim/core"

// Plate is one tectonic plate placed by a Seeder.
type Plate struct {
	ID            int
	CenterX       float64
	CenterZ       float64
	Radius        float64
	BaseElevation float64
	RockType      core.RockType
	Activity      float64
}

// Path is a polyline in world coordinates, used for both river and ridge
// templates.
type Path [][2]float64

// River is one main-stem river plus its tributaries, retained for later
// query (e.g. by WaterSystemSimulator) rather than stamped into any field.
type River struct {
	ContinentID int
	MainStem    Path
	Tributaries []Path
}

// Ridge is a mountain-building seam between two plates; unlike rivers its
// polyline is stamped directly into the elevation field during seeding.
type Ridge struct {
	PlateA, PlateB int
	Path           Path
}

// Result is everything a Seeder produces: the plates it placed plus the
// river/ridge templates retained for later query.
type Result struct {
	Plates []Plate
	Rivers []River
	Ridges []Ridge
}

// NumericWriter is the subset of *field.NumericField a Seeder writes into.
// Kept as an interface so continent stays decoupled from the field package's
// concrete type and is trivially testable against a fake.
type NumericWriter interface {
	Set(ix, iz int, v float64)
	Get(ix, iz int) float64
	Width() int
	Height() int
	Spacing() float64
	ToroidalDistance(px, pz, qx, qz float64) float64
}

// RockWriter is the subset of *field.CategoricalField[core.RockType] a
// Seeder writes into.
type RockWriter interface {
	Set(ix, iz int, v core.RockType)
	Get(ix, iz int) core.RockType
}

// Params bundles a Seeder's inputs.
type Params struct {
	WorldSizeM       float64
	Seed             int64
	TargetContinents int // 0 means "derive from seed"
	OceanRatio       float64
}

// Seeder writes a continent layout into caller-owned fields and returns the
// templates it generated.
type Seeder interface {
	Seed(elevation NumericWriter, rock RockWriter, stress NumericWriter, p Params) Result
}
