package physics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/diagnostics"
	"github.com/voxelcastle/geosim/field"
	"github.com/voxelcastle/geosim/physics"
)

func newTectonicFieldSet(res int, spacing float64) *physics.TectonicFieldSet {
	return &physics.TectonicFieldSet{
		MantleStress:      field.NewNumericField(res, res, spacing),
		CrustStress:       field.NewNumericField(res, res, spacing),
		Elevation:         field.NewNumericField(res, res, spacing),
		CrustalThickness:  field.NewNumericField(res, res, spacing),
		MantleTemperature: field.NewNumericField(res, res, spacing),
		Isostasy:          field.NewNumericField(res, res, spacing),
		RockType:          field.NewCategoricalField[core.RockType](res, res, spacing),
		RockHardness:      field.NewNumericField(res, res, spacing),
	}
}

func TestMantleConvectionKeepsElevationWithinBounds(t *testing.T) {
	fs := newTectonicFieldSet(16, 1000)
	eng := physics.NewTectonicEngine(diagnostics.NoopSink{}, 1)
	for i := 0; i < 20; i++ {
		eng.MantleConvection(fs, 500)
	}
	for iz := 0; iz < 16; iz++ {
		for ix := 0; ix < 16; ix++ {
			e := fs.Elevation.Get(ix, iz)
			assert.GreaterOrEqual(t, e, -core.ElevationMax)
			assert.LessOrEqual(t, e, core.ElevationMax)
			s := fs.MantleStress.Get(ix, iz)
			assert.GreaterOrEqual(t, s, -core.MantleStressMax)
			assert.LessOrEqual(t, s, core.MantleStressMax)
		}
	}
}

func TestMountainBuildingRaisesElevationUnderHighStress(t *testing.T) {
	fs := newTectonicFieldSet(4, 1000)
	fs.CrustStress.Fill(3.0)
	fs.RockType.Fill(core.SedimentarySandstone)
	before := fs.Elevation.Get(1, 1)

	eng := physics.NewTectonicEngine(diagnostics.NoopSink{}, 2)
	eng.MountainBuilding(fs, 1000)

	after := fs.Elevation.Get(1, 1)
	assert.Greater(t, after, before)
	assert.Equal(t, core.MetamorphicSlate, fs.RockType.Get(1, 1))
}

func TestVolcanicActivitySetsBasaltAboveStressThreshold(t *testing.T) {
	fs := newTectonicFieldSet(4, 1000)
	fs.MantleStress.Fill(5.0)
	fs.RockType.Fill(core.SedimentaryLimestone)

	eng := physics.NewTectonicEngine(diagnostics.NoopSink{}, 3)
	eng.VolcanicActivity(fs, 10)

	assert.Equal(t, core.IgneousBasalt, fs.RockType.Get(0, 0))
	assert.Equal(t, core.IgneousBasalt.Hardness(), fs.RockHardness.Get(0, 0))
}

func TestIsostasyAdjustmentRaisesElevationForThickCrust(t *testing.T) {
	fs := newTectonicFieldSet(4, 1000)
	fs.CrustalThickness.Fill(50000)

	eng := physics.NewTectonicEngine(diagnostics.NoopSink{}, 4)
	eng.IsostasyAdjustment(fs, 1)

	// Thicker-than-standard crust should push elevation up (positive rate).
	assert.Greater(t, fs.Isostasy.Get(0, 0), 0.0)
}

func TestExtremeElevationTriggersDiagnostic(t *testing.T) {
	fs := newTectonicFieldSet(2, 1000)
	fs.Elevation.Fill(50000) // bypass the clamp to force an extreme unclamped delta
	sink := diagnostics.NewStdLogSink(5)

	eng := physics.NewTectonicEngine(sink, 9)
	eng.MantleConvection(fs, 10000)

	assert.Greater(t, sink.Count("extreme_elevation"), int64(0))
	for iz := 0; iz < 2; iz++ {
		for ix := 0; ix < 2; ix++ {
			assert.LessOrEqual(t, fs.Elevation.Get(ix, iz), core.ElevationMax)
		}
	}
}
