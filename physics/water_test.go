package physics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/field"
	"github.com/voxelcastle/geosim/physics"
)

func newWaterFieldSet(res int, spacing float64) *physics.WaterFieldSet {
	return &physics.WaterFieldSet{
		Elevation:     field.NewNumericField(res, res, spacing),
		RockType:      field.NewCategoricalField[core.RockType](res, res, spacing),
		Precipitation: field.NewNumericField(res, res, spacing),
		SurfaceWater:  field.NewNumericField(res, res, spacing),
		Groundwater:   field.NewNumericField(res, res, spacing),
		Sediment:      field.NewNumericField(res, res, spacing),
		SpringFlow:    field.NewNumericField(res, res, spacing),
		WaterFlow:     field.NewNumericField(res, res, spacing),
	}
}

func TestPrecipitationIsNonNegativeAndElevationDependent(t *testing.T) {
	fs := newWaterFieldSet(8, 1000)
	fs.Elevation.Fill(2000)

	w := physics.NewWaterSystemSimulator(1)
	w.Precipitation(fs)

	low := newWaterFieldSet(8, 1000)
	low.Elevation.Fill(0)
	physics.NewWaterSystemSimulator(1).Precipitation(low)

	for iz := 0; iz < 8; iz++ {
		for ix := 0; ix < 8; ix++ {
			assert.GreaterOrEqual(t, fs.Precipitation.Get(ix, iz), 0.0)
			assert.Greater(t, fs.Precipitation.Get(ix, iz), low.Precipitation.Get(ix, iz))
		}
	}
}

func TestSurfaceAccumulationStaysNonNegative(t *testing.T) {
	fs := newWaterFieldSet(4, 1000)
	fs.Precipitation.Fill(600)
	fs.Elevation.Fill(0)

	w := physics.NewWaterSystemSimulator(2)
	for i := 0; i < 10; i++ {
		w.SurfaceAccumulation(fs, 1)
	}
	for iz := 0; iz < 4; iz++ {
		for ix := 0; ix < 4; ix++ {
			assert.GreaterOrEqual(t, fs.SurfaceWater.Get(ix, iz), 0.0)
		}
	}
}

func TestGroundwaterDepthClampedAtOneMeter(t *testing.T) {
	fs := newWaterFieldSet(3, 1000)
	fs.Groundwater.Fill(1.5)
	fs.Precipitation.Fill(5000)
	fs.RockType.Fill(core.SedimentaryLimestone)

	w := physics.NewWaterSystemSimulator(3)
	for i := 0; i < 50; i++ {
		w.Groundwater(fs, 10)
	}
	for iz := 0; iz < 3; iz++ {
		for ix := 0; ix < 3; ix++ {
			assert.GreaterOrEqual(t, fs.Groundwater.Get(ix, iz), 1.0)
		}
	}
}

func TestSpringsFireOnlyWithinElevationBandAndShallowGroundwater(t *testing.T) {
	fs := newWaterFieldSet(2, 1000)
	fs.Groundwater.Fill(2)
	fs.Elevation.Set(0, 0, 500) // qualifies
	fs.Elevation.Set(1, 0, 50)  // too low

	w := physics.NewWaterSystemSimulator(4)
	w.Springs(fs)

	assert.Greater(t, fs.SpringFlow.Get(0, 0), 0.0)
	assert.Equal(t, 0.0, fs.SpringFlow.Get(1, 0))
}

func TestCaveWaterCouplingOnlyAppliesToKarsticRock(t *testing.T) {
	fs := newWaterFieldSet(2, 1000)
	fs.Groundwater.Fill(10)
	fs.WaterFlow.Fill(1.0)
	fs.RockType.Set(0, 0, core.SedimentaryLimestone)
	fs.RockType.Set(1, 0, core.IgneousGranite)

	w := physics.NewWaterSystemSimulator(5)
	w.CaveWaterCoupling(fs, 10)

	assert.Greater(t, fs.WaterFlow.Get(0, 0), 1.0)
	assert.Equal(t, 1.0, fs.WaterFlow.Get(1, 0))
}
