package physics

import (
	"math"

	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/field"
	"github.com/voxelcastle/geosim/noisefield"
)

// WaterFieldSet bundles the fields WaterSystemSimulator owns; other
// engines reference them by handle rather than copying.
type WaterFieldSet struct {
	Elevation     *field.NumericField
	RockType      *field.CategoricalField[core.RockType]
	Precipitation *field.NumericField
	SurfaceWater  *field.NumericField
	Groundwater   *field.NumericField
	Sediment      *field.NumericField
	SpringFlow    *field.NumericField
	WaterFlow     *field.NumericField
}

// WaterSystemSimulator is stateless; every method takes the field bundle
// and a Δt in the simulator's own base time unit.
type WaterSystemSimulator struct {
	precipNoise noisefield.Source
}

// NewWaterSystemSimulator builds a simulator using seed for the
// precipitation noise term.
func NewWaterSystemSimulator(seed int64) *WaterSystemSimulator {
	return &WaterSystemSimulator{
		precipNoise: &noisefield.HashSource{Octaves: 3, BaseFreq: 1e-3, Persistence: 0.5, Lacunarity: 2.0, Seed: seed + 303},
	}
}

// neighborOffsets is the 8-neighborhood used by steepest-descent river
// formation.
var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Precipitation computes an orographic+latitudinal precipitation field,
// fully resampled every water step with no dependency on the previous
// value, so it is trivially parallel-safe.
func (w *WaterSystemSimulator) Precipitation(fs *WaterFieldSet) {
	width, height := fs.Precipitation.Width(), fs.Precipitation.Height()
	spacing := fs.Precipitation.Spacing()
	for iz := 0; iz < height; iz++ {
		z := float64(iz) * spacing
		for ix := 0; ix < width; ix++ {
			x := float64(ix) * spacing
			e := fs.Elevation.Get(ix, iz)
			p := 500*(1+math.Min(2, 1+e/1000)) + 200*w.precipNoise.Noise2D(x, z)
			fs.Precipitation.Set(ix, iz, math.Max(p, 0))
		}
	}
}

// SurfaceAccumulation balances surface-water inflow, evaporation and
// drainage. dt is in the simulator's own base time unit.
func (w *WaterSystemSimulator) SurfaceAccumulation(fs *WaterFieldSet, dt float64) {
	width, height := fs.SurfaceWater.Width(), fs.SurfaceWater.Height()
	for iz := 0; iz < height; iz++ {
		for ix := 0; ix < width; ix++ {
			e := fs.Elevation.Get(ix, iz)
			p := fs.Precipitation.Get(ix, iz)
			inflow := p / 1000 * dt * math.Max(0.1, 1-e/1000)

			depth := fs.SurfaceWater.Get(ix, iz)
			depth += inflow
			depth -= depth * 0.01 * dt // evaporation
			depth -= depth * 0.05 * dt // drainage
			fs.SurfaceWater.Set(ix, iz, math.Max(depth, 0))
		}
	}
}

// RiverFormation derives water flow from steepest-descent slope and
// surface-water depth.
func (w *WaterSystemSimulator) RiverFormation(fs *WaterFieldSet, dt float64) {
	width, height := fs.Elevation.Width(), fs.Elevation.Height()
	for iz := 0; iz < height; iz++ {
		for ix := 0; ix < width; ix++ {
			e := fs.Elevation.Get(ix, iz)
			depth := fs.SurfaceWater.Get(ix, iz)

			maxSlope := 0.0
			for _, off := range neighborOffsets {
				ne := fs.Elevation.Get(ix+off[0], iz+off[1])
				slope := (e - ne) / fs.Elevation.Spacing()
				if slope > maxSlope {
					maxSlope = slope
				}
			}

			fs.WaterFlow.Set(ix, iz, maxSlope*depth*dt*0.1)
		}
	}
}

// Groundwater updates the groundwater table depth from precipitation
// recharge, weighted by rock permeability.
func (w *WaterSystemSimulator) Groundwater(fs *WaterFieldSet, dt float64) {
	width, height := fs.Groundwater.Width(), fs.Groundwater.Height()
	for iz := 0; iz < height; iz++ {
		for ix := 0; ix < width; ix++ {
			perm := fs.RockType.Get(ix, iz).Permeability()
			recharge := fs.Precipitation.Get(ix, iz) / 1000 * perm * dt * 0.1

			depth := fs.Groundwater.Get(ix, iz)
			depth -= recharge
			fs.Groundwater.Set(ix, iz, math.Max(depth, 1))
		}
	}
}

// Springs marks spring flow where the water table is shallow within a
// mid-elevation band.
func (w *WaterSystemSimulator) Springs(fs *WaterFieldSet) {
	width, height := fs.Groundwater.Width(), fs.Groundwater.Height()
	for iz := 0; iz < height; iz++ {
		for ix := 0; ix < width; ix++ {
			depth := fs.Groundwater.Get(ix, iz)
			e := fs.Elevation.Get(ix, iz)
			if depth < 5 && e > 100 && e < 800 {
				fs.SpringFlow.Set(ix, iz, (5-depth)/5*0.1)
			} else {
				fs.SpringFlow.Set(ix, iz, 0)
			}
		}
	}
}

// CaveWaterCoupling amplifies water flow through karstic rock with a
// shallow water table, invoked by the driver only when caves are enabled.
func (w *WaterSystemSimulator) CaveWaterCoupling(fs *WaterFieldSet, dt float64) {
	width, height := fs.RockType.Width(), fs.RockType.Height()
	for iz := 0; iz < height; iz++ {
		for ix := 0; ix < width; ix++ {
			if !fs.RockType.Get(ix, iz).IsKarstic() {
				continue
			}
			depth := fs.Groundwater.Get(ix, iz)
			if depth >= 50 {
				continue
			}
			amplification := math.Min(1, (50-depth)/50) * dt * 0.1
			fs.WaterFlow.Add(ix, iz, fs.WaterFlow.Get(ix, iz)*amplification)
		}
	}
}

// FloodPlains, Lakes and Wetlands are "present but inactive" hooks: the
// driver calls them on their documented cadence, but they currently
// perform no mutation, reserved for future extension.
func (w *WaterSystemSimulator) FloodPlains(fs *WaterFieldSet, dt float64) {}
func (w *WaterSystemSimulator) Lakes(fs *WaterFieldSet, dt float64)       {}
func (w *WaterSystemSimulator) Wetlands(fs *WaterFieldSet, dt float64)   {}
