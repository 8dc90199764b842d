package physics

import (
	"math"

	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/diagnostics"
	"github.com/voxelcastle/geosim/field"
)

// ErosionFieldSet bundles the non-owning mutable field handles an
// ErosionEngine method needs.
type ErosionFieldSet struct {
	Elevation     *field.NumericField
	RockType      *field.CategoricalField[core.RockType]
	RockHardness  *field.NumericField
	WaterFlow     *field.NumericField
	Precipitation *field.NumericField
	SurfaceWater  *field.NumericField
	Sediment      *field.NumericField
	ErosionRate   *field.NumericField
}

// ErosionEngine is stateless: every public method takes the field bundle
// and a Δt in kyr.
type ErosionEngine struct {
	Diagnostics diagnostics.Sink
}

// NewErosionEngine builds an engine reporting to sink.
func NewErosionEngine(sink diagnostics.Sink) *ErosionEngine {
	if sink == nil {
		sink = diagnostics.NoopSink{}
	}
	return &ErosionEngine{Diagnostics: sink}
}

func (e *ErosionEngine) applyElevationDelta(fs *ErosionFieldSet, ix, iz int, delta float64) {
	unclamped := fs.Elevation.Get(ix, iz) + delta
	if math.Abs(unclamped) > core.ElevationExtremeThreshold {
		e.Diagnostics.Warnf("extreme_elevation", "elevation %.1f at cell (%d,%d) exceeded extreme threshold", unclamped, ix, iz)
	}
	fs.Elevation.Set(ix, iz, core.ClampElevation(unclamped))
	fs.ErosionRate.Set(ix, iz, delta)
}

// slopeAt is the local slope magnitude from central differences, shared by
// every per-cell rate law below.
func slopeAt(elevation *field.NumericField, ix, iz int) float64 {
	spacing := elevation.Spacing()
	gx := (elevation.Get(ix+1, iz) - elevation.Get(ix-1, iz)) / (2 * spacing)
	gz := (elevation.Get(ix, iz+1) - elevation.Get(ix, iz-1)) / (2 * spacing)
	return math.Sqrt(gx*gx + gz*gz)
}

// ChemicalWeathering applies a precipitation- and hardness-driven
// weathering rate. climateFactor is a caller-supplied multiplier (e.g.
// derived from temperature); callers default it to 1.0 when no climate
// model is wired in.
func (e *ErosionEngine) ChemicalWeathering(fs *ErosionFieldSet, dtKyr, climateFactor float64) {
	if climateFactor <= 0 {
		climateFactor = 1.0
	}
	w, h := fs.Elevation.Width(), fs.Elevation.Height()
	for iz := 0; iz < h; iz++ {
		for ix := 0; ix < w; ix++ {
			hardness := math.Max(fs.RockHardness.Get(ix, iz), 0.01)
			precip := fs.Precipitation.Get(ix, iz)
			rate := precip / 1000 * climateFactor / hardness * dtKyr * 10
			e.applyElevationDelta(fs, ix, iz, -rate)
			fs.Sediment.Add(ix, iz, rate*0.3)
		}
	}
}

// PhysicalErosion applies slope-driven erosion, capped per step.
func (e *ErosionEngine) PhysicalErosion(fs *ErosionFieldSet, dtKyr float64) {
	w, h := fs.Elevation.Width(), fs.Elevation.Height()
	for iz := 0; iz < h; iz++ {
		for ix := 0; ix < w; ix++ {
			hardness := fs.RockHardness.Get(ix, iz)
			if hardness <= 0.01 {
				continue
			}
			slope := slopeAt(fs.Elevation, ix, iz)
			if slope <= 0.001 {
				continue
			}
			rate := 50 * (1 + math.Min(5*slope, 4)) / math.Max(hardness, 0.1) * dtKyr / 1e6
			rate = math.Min(rate, 0.5)
			e.applyElevationDelta(fs, ix, iz, -rate)
			fs.Sediment.Add(ix, iz, rate*0.5)
		}
	}
}

// WaterDrivenErosion applies Manning-velocity erosion from surface
// water flow and depth.
func (e *ErosionEngine) WaterDrivenErosion(fs *ErosionFieldSet, dtKyr float64) {
	w, h := fs.Elevation.Width(), fs.Elevation.Height()
	for iz := 0; iz < h; iz++ {
		for ix := 0; ix < w; ix++ {
			flow := fs.WaterFlow.Get(ix, iz)
			depth := fs.SurfaceWater.Get(ix, iz)
			if flow <= 0.01 && depth <= 0.01 {
				continue
			}
			slope := slopeAt(fs.Elevation, ix, iz)
			v := (1 / 0.03) * math.Pow(math.Max(depth, 0), 2.0/3.0) * math.Sqrt(math.Max(slope, 0))
			power := 500 * (1 + math.Min(0.5*v*v*math.Min(flow, 10), 3)) * dtKyr / 1e6
			power = math.Min(power, 200)
			e.applyElevationDelta(fs, ix, iz, -power)
		}
	}
}

// RiverCarving carves channels at cells with high water flow.
func (e *ErosionEngine) RiverCarving(fs *ErosionFieldSet, dtKyr float64) {
	w, h := fs.Elevation.Width(), fs.Elevation.Height()
	for iz := 0; iz < h; iz++ {
		for ix := 0; ix < w; ix++ {
			flow := fs.WaterFlow.Get(ix, iz)
			if flow <= 0.5 {
				continue
			}
			carve := 3 * (1 + math.Min(0.5*flow, 5)) * dtKyr / 1000
			carve = math.Min(carve, 0.3)
			e.applyElevationDelta(fs, ix, iz, -carve)
		}
	}
}

// GlacialCarving carves high-elevation terrain above the snowline,
// invoked by the driver every 5 steps.
func (e *ErosionEngine) GlacialCarving(fs *ErosionFieldSet, dtKyr float64) {
	w, h := fs.Elevation.Width(), fs.Elevation.Height()
	for iz := 0; iz < h; iz++ {
		for ix := 0; ix < w; ix++ {
			elev := fs.Elevation.Get(ix, iz)
			if elev <= 800 {
				continue
			}
			carve := 5000 * (1 + math.Min((elev-800)/1000, 2)) * dtKyr / 1e6
			carve = math.Min(carve, 1000)
			e.applyElevationDelta(fs, ix, iz, -carve)
		}
	}
}

// SedimentTransport moves sediment toward the flow-and-slope-derived
// carrying capacity at each cell, depositing or picking up the difference.
func (e *ErosionEngine) SedimentTransport(fs *ErosionFieldSet, dtKyr float64) {
	w, h := fs.Elevation.Width(), fs.Elevation.Height()
	for iz := 0; iz < h; iz++ {
		for ix := 0; ix < w; ix++ {
			flow := fs.WaterFlow.Get(ix, iz)
			slope := slopeAt(fs.Elevation, ix, iz)
			capacity := flow * (1 + 5*slope) * 0.1
			load := fs.Sediment.Get(ix, iz)

			if load > capacity {
				excess := math.Min(load-capacity, 5*dtKyr)
				fs.Sediment.Add(ix, iz, -excess)
				e.applyElevationDelta(fs, ix, iz, excess)
			} else if load < capacity {
				deficit := capacity - load
				taken := math.Min(deficit, 0.1*dtKyr)
				fs.Sediment.Add(ix, iz, taken)
				e.applyElevationDelta(fs, ix, iz, -taken)
			}
		}
	}
}

// SedimentDeposition deposits sediment load at cells with negligible
// water flow.
func (e *ErosionEngine) SedimentDeposition(fs *ErosionFieldSet, dtKyr float64) {
	cap := 20 * dtKyr
	w, h := fs.Elevation.Width(), fs.Elevation.Height()
	for iz := 0; iz < h; iz++ {
		for ix := 0; ix < w; ix++ {
			if fs.WaterFlow.Get(ix, iz) >= 0.01 {
				continue
			}
			load := fs.Sediment.Get(ix, iz)
			if load <= 0 {
				continue
			}
			deposit := math.Min(load, cap)
			fs.Sediment.Add(ix, iz, -deposit)
			e.applyElevationDelta(fs, ix, iz, deposit)
		}
	}
}

// MicroWeathering applies a small rock-resistance-weighted background
// decrement every step.
func (e *ErosionEngine) MicroWeathering(fs *ErosionFieldSet, dtKyr float64) {
	w, h := fs.Elevation.Width(), fs.Elevation.Height()
	for iz := 0; iz < h; iz++ {
		for ix := 0; ix < w; ix++ {
			resistance := fs.RockType.Get(ix, iz).ErosionResistance()
			decrement := resistance * dtKyr * 1e-3
			e.applyElevationDelta(fs, ix, iz, -decrement)
		}
	}
}

// isostaticReboundAmplitudeM is the deliberately tiny erosion-uplift-balance
// correction, in millimeters/kyr converted to meters. A prior aggressive
// version of this op caused catastrophic elevation collapse; the contract
// is "do almost nothing".
const isostaticReboundAmplitudeM = 0.0001 // 0.1 mm

// ErosionUpliftBalance applies the near-no-op isostatic correction.
func (e *ErosionEngine) ErosionUpliftBalance(fs *ErosionFieldSet, dtKyr float64) {
	w, h := fs.Elevation.Width(), fs.Elevation.Height()
	for iz := 0; iz < h; iz++ {
		for ix := 0; ix < w; ix++ {
			correction := isostaticReboundAmplitudeM * math.Min(dtKyr, 1)
			e.applyElevationDelta(fs, ix, iz, correction)
		}
	}
}
