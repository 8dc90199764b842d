package continent_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelcastle/geosim/continent"
	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/field"
	"github.com/voxelcastle/geosim/noisefield"
)

func newFields(t *testing.T, res int, spacing float64) (*field.NumericField, *field.CategoricalField[core.RockType], *field.NumericField) {
	t.Helper()
	return field.NewNumericField(res, res, spacing),
		field.NewCategoricalField[core.RockType](res, res, spacing),
		field.NewNumericField(res, res, spacing)
}

func TestFractalContinentGeneratorIsDeterministic(t *testing.T) {
	const res = 64
	spacing := 1000.0
	params := continent.Params{WorldSizeM: res * spacing, Seed: 42, OceanRatio: 0.65}

	elev1, rock1, stress1 := newFields(t, res, spacing)
	gen1 := continent.NewFractalContinentGenerator(noisefield.NewHashSource(42), 42)
	result1 := gen1.Seed(elev1, rock1, stress1, params)

	elev2, rock2, stress2 := newFields(t, res, spacing)
	gen2 := continent.NewFractalContinentGenerator(noisefield.NewHashSource(42), 42)
	result2 := gen2.Seed(elev2, rock2, stress2, params)

	require.Equal(t, len(result1.Plates), len(result2.Plates))
	for iz := 0; iz < res; iz++ {
		for ix := 0; ix < res; ix++ {
			assert.Equal(t, elev1.Get(ix, iz), elev2.Get(ix, iz))
			assert.Equal(t, rock1.Get(ix, iz), rock2.Get(ix, iz))
			assert.Equal(t, stress1.Get(ix, iz), stress2.Get(ix, iz))
		}
	}
}

func TestFractalContinentGeneratorPlateCountStaysBetweenThreeAndSeven(t *testing.T) {
	const res = 32
	spacing := 2000.0
	elev, rock, stress := newFields(t, res, spacing)
	gen := continent.NewFractalContinentGenerator(noisefield.NewHashSource(7), 7)
	result := gen.Seed(elev, rock, stress, continent.Params{WorldSizeM: res * spacing, Seed: 7})

	assert.GreaterOrEqual(t, len(result.Plates), 3)
	assert.LessOrEqual(t, len(result.Plates), 7)
}

func TestFractalContinentGeneratorOceanElevationWithinBounds(t *testing.T) {
	const res = 48
	spacing := 1500.0
	elev, rock, stress := newFields(t, res, spacing)
	gen := continent.NewFractalContinentGenerator(noisefield.NewHashSource(99), 99)
	result := gen.Seed(elev, rock, stress, continent.Params{WorldSizeM: res * spacing, Seed: 99})
	require.NotEmpty(t, result.Plates)

	// Ridge stamping raises every cell on a ridge path, whatever its rock
	// type, so those cells are not ocean floor any more.
	cellOf := func(v float64) int {
		i := int(math.Floor(v/spacing)) % res
		if i < 0 {
			i += res
		}
		return i
	}
	ridgeCells := map[[2]int]bool{}
	for _, r := range result.Ridges {
		for _, pt := range r.Path {
			ridgeCells[[2]int{cellOf(pt[0]), cellOf(pt[1])}] = true
		}
	}

	for iz := 0; iz < res; iz++ {
		for ix := 0; ix < res; ix++ {
			if rock.Get(ix, iz) == core.IgneousBasalt && !ridgeCells[[2]int{ix, iz}] {
				v := elev.Get(ix, iz)
				assert.GreaterOrEqual(t, v, -2000.0)
				assert.LessOrEqual(t, v, -100.0)
			}
		}
	}
}

func TestFractalContinentGeneratorMantleStressClampedToUnitRange(t *testing.T) {
	const res = 32
	spacing := 1000.0
	elev, rock, stress := newFields(t, res, spacing)
	gen := continent.NewFractalContinentGenerator(noisefield.NewHashSource(5), 5)
	gen.Seed(elev, rock, stress, continent.Params{WorldSizeM: res * spacing, Seed: 5})

	for iz := 0; iz < res; iz++ {
		for ix := 0; ix < res; ix++ {
			v := stress.Get(ix, iz)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestFractalContinentGeneratorRiversStayWithinWorldVicinity(t *testing.T) {
	const res = 64
	spacing := 1000.0
	worldSize := res * spacing
	elev, rock, stress := newFields(t, res, spacing)
	gen := continent.NewFractalContinentGenerator(noisefield.NewHashSource(11), 11)
	result := gen.Seed(elev, rock, stress, continent.Params{WorldSizeM: worldSize, Seed: 11})

	assert.NotEmpty(t, result.Rivers)
	for _, r := range result.Rivers {
		assert.GreaterOrEqual(t, len(r.MainStem), 1)
		for _, pt := range r.MainStem {
			assert.GreaterOrEqual(t, pt[0], -worldSize)
			assert.LessOrEqual(t, pt[0], 2*worldSize)
			assert.GreaterOrEqual(t, pt[1], -worldSize)
			assert.LessOrEqual(t, pt[1], 2*worldSize)
		}
	}
}

func TestVoronoiSeederProducesPlatesAndFields(t *testing.T) {
	const res = 32
	spacing := 1000.0
	elev, rock, stress := newFields(t, res, spacing)
	seeder := continent.NewVoronoiSeeder(noisefield.NewHashSource(3))
	result := seeder.Seed(elev, rock, stress, continent.Params{WorldSizeM: res * spacing, Seed: 3})

	assert.GreaterOrEqual(t, len(result.Plates), 3)
	assert.LessOrEqual(t, len(result.Plates), 7)
	assert.Empty(t, result.Rivers)
	assert.Empty(t, result.Ridges)
}
