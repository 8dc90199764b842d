package physics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/diagnostics"
	"github.com/voxelcastle/geosim/field"
	"github.com/voxelcastle/geosim/physics"
)

func newErosionFieldSet(res int, spacing float64) *physics.ErosionFieldSet {
	fs := &physics.ErosionFieldSet{
		Elevation:     field.NewNumericField(res, res, spacing),
		RockType:      field.NewCategoricalField[core.RockType](res, res, spacing),
		RockHardness:  field.NewNumericField(res, res, spacing),
		WaterFlow:     field.NewNumericField(res, res, spacing),
		Precipitation: field.NewNumericField(res, res, spacing),
		SurfaceWater:  field.NewNumericField(res, res, spacing),
		Sediment:      field.NewNumericField(res, res, spacing),
		ErosionRate:   field.NewNumericField(res, res, spacing),
	}
	fs.RockType.Fill(core.SedimentaryShale)
	for iz := 0; iz < res; iz++ {
		for ix := 0; ix < res; ix++ {
			fs.RockHardness.Set(ix, iz, core.SedimentaryShale.Hardness())
		}
	}
	return fs
}

func TestChemicalWeatheringLowersElevationAndFeedsSediment(t *testing.T) {
	fs := newErosionFieldSet(4, 1000)
	fs.Elevation.Fill(500)
	fs.Precipitation.Fill(1000)

	eng := physics.NewErosionEngine(diagnostics.NoopSink{})
	eng.ChemicalWeathering(fs, 100, 1.0)

	assert.Less(t, fs.Elevation.Get(0, 0), 500.0)
	assert.Greater(t, fs.Sediment.Get(0, 0), 0.0)
}

func TestPhysicalErosionCappedPerStep(t *testing.T) {
	fs := newErosionFieldSet(4, 1000)
	fs.Elevation.Set(1, 1, 2000)
	fs.RockHardness.Fill(0.2)

	eng := physics.NewErosionEngine(diagnostics.NoopSink{})
	before := fs.Elevation.Get(1, 1)
	eng.PhysicalErosion(fs, 1e9)
	after := fs.Elevation.Get(1, 1)

	assert.LessOrEqual(t, before-after, 0.5+1e-9)
}

func TestRiverCarvingOnlyAffectsHighFlowCells(t *testing.T) {
	fs := newErosionFieldSet(3, 1000)
	fs.Elevation.Fill(100)
	fs.WaterFlow.Set(1, 1, 10)

	eng := physics.NewErosionEngine(diagnostics.NoopSink{})
	eng.RiverCarving(fs, 10)

	assert.Less(t, fs.Elevation.Get(1, 1), 100.0)
	assert.Equal(t, 100.0, fs.Elevation.Get(0, 0))
}

func TestGlacialCarvingOnlyAboveElevationThreshold(t *testing.T) {
	fs := newErosionFieldSet(3, 1000)
	fs.Elevation.Fill(500)
	fs.Elevation.Set(2, 2, 1500)

	eng := physics.NewErosionEngine(diagnostics.NoopSink{})
	eng.GlacialCarving(fs, 1)

	assert.Less(t, fs.Elevation.Get(2, 2), 1500.0)
	assert.Equal(t, 500.0, fs.Elevation.Get(0, 0))
}

func TestErosionUpliftBalanceIsNearlyNoOp(t *testing.T) {
	fs := newErosionFieldSet(3, 1000)
	fs.Elevation.Fill(500)

	eng := physics.NewErosionEngine(diagnostics.NoopSink{})
	eng.ErosionUpliftBalance(fs, 1000)

	assert.InDelta(t, 500.0, fs.Elevation.Get(0, 0), 0.001)
}

func TestMicroWeatheringIsRockResistanceWeighted(t *testing.T) {
	softFs := newErosionFieldSet(2, 1000)
	softFs.Elevation.Fill(500)
	softFs.RockType.Fill(core.SoilSand) // low erosion resistance

	hardFs := newErosionFieldSet(2, 1000)
	hardFs.Elevation.Fill(500)
	hardFs.RockType.Fill(core.MetamorphicQuartzite) // high erosion resistance

	eng := physics.NewErosionEngine(diagnostics.NoopSink{})
	eng.MicroWeathering(softFs, 1000)
	eng.MicroWeathering(hardFs, 1000)

	softLoss := 500 - softFs.Elevation.Get(0, 0)
	hardLoss := 500 - hardFs.Elevation.Get(0, 0)
	assert.Greater(t, hardLoss, softLoss)
}

func TestSedimentBudgetReportSumsTotalLoad(t *testing.T) {
	fs := newErosionFieldSet(4, 1000)
	fs.Sediment.Fill(2.0)

	eng := physics.NewErosionEngine(diagnostics.NoopSink{})
	budget := eng.SedimentBudgetReport(fs)

	assert.InDelta(t, 32.0, budget.TotalLoad, 1e-9) // 16 cells * 2.0
	assert.InDelta(t, 2.0, budget.MeanLoad, 1e-9)
	assert.InDelta(t, 0.0, budget.StdDev, 1e-9)
}

func TestSedimentBudgetReportWarnsOnUnevenDistribution(t *testing.T) {
	fs := newErosionFieldSet(8, 1000)
	fs.Sediment.Fill(0.001)
	fs.Sediment.Set(0, 0, 1000.0) // single extreme outlier

	sink := diagnostics.NewStdLogSink(10)
	eng := physics.NewErosionEngine(sink)
	eng.SedimentBudgetReport(fs)

	assert.Greater(t, sink.Count("sediment_budget"), int64(0))
}
