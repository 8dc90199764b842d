// Package physics holds the stateless process engines that mutate the
// simulator's fields: TectonicEngine, ErosionEngine and WaterSystemSimulator.
// Each engine operates on the 2-D toroidal field substrate as plain
// functions/methods walking every cell once per call, taking the fields
// they touch as explicit parameters rather than owning them.
package physics

import (
	"math"

	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/diagnostics"
	"github.com/voxelcastle/geosim/field"
	"github.com/voxelcastle/geosim/noisefield"
)

// TectonicFieldSet bundles the non-owning mutable field handles a
// TectonicEngine method needs. The caller (GeologicalSimulator) owns
// the storage; the engine retains nothing across calls.
type TectonicFieldSet struct {
	MantleStress      *field.NumericField
	CrustStress       *field.NumericField
	Elevation         *field.NumericField
	CrustalThickness  *field.NumericField
	MantleTemperature *field.NumericField
	Isostasy          *field.NumericField
	RockType          *field.CategoricalField[core.RockType]
	RockHardness      *field.NumericField
}

// TectonicEngine is stateless: every public method takes the field bundle
// and a Δt in million years.
type TectonicEngine struct {
	Diagnostics diagnostics.Sink

	convectionA noisefield.Source
	convectionB noisefield.Source
}

// NewTectonicEngine builds an engine reporting to sink (diagnostics.NoopSink
// is fine for tests). seed drives the two convection-intensity noise
// layers: two independent low-frequency hash sources blended together to
// approximate fractal convection intensity.
func NewTectonicEngine(sink diagnostics.Sink, seed int64) *TectonicEngine {
	if sink == nil {
		sink = diagnostics.NoopSink{}
	}
	return &TectonicEngine{
		Diagnostics: sink,
		convectionA: &noisefield.HashSource{Octaves: 3, BaseFreq: 1e-4, Persistence: 0.5, Lacunarity: 2.0, Seed: seed + 101},
		convectionB: &noisefield.HashSource{Octaves: 2, BaseFreq: 3e-4, Persistence: 0.6, Lacunarity: 2.1, Seed: seed + 202},
	}
}

// applyElevationDelta is the central clamp + rate-limited diagnostic every
// elevation mutation routes through.
func (e *TectonicEngine) applyElevationDelta(fs *TectonicFieldSet, ix, iz int, delta float64) {
	unclamped := fs.Elevation.Get(ix, iz) + delta
	if math.Abs(unclamped) > core.ElevationExtremeThreshold {
		e.Diagnostics.Warnf("extreme_elevation", "elevation %.1f at cell (%d,%d) exceeded extreme threshold", unclamped, ix, iz)
	}
	fs.Elevation.Set(ix, iz, core.ClampElevation(unclamped))
}

func (e *TectonicEngine) refreshHardness(fs *TectonicFieldSet, ix, iz int) {
	fs.RockHardness.Set(ix, iz, fs.RockType.Get(ix, iz).Hardness())
}

// MantleConvection advances mantle stress and elevation from the blended
// convection-intensity noise.
func (e *TectonicEngine) MantleConvection(fs *TectonicFieldSet, dtMyr float64) {
	timeFactor := math.Min(1, dtMyr/10000)

	w, h := fs.Elevation.Width(), fs.Elevation.Height()
	spacing := fs.Elevation.Spacing()
	for iz := 0; iz < h; iz++ {
		z := float64(iz) * spacing
		for ix := 0; ix < w; ix++ {
			x := float64(ix) * spacing

			f1 := e.convectionA.Noise2D(x, z)
			f2 := e.convectionB.Noise2D(x, z)
			zoneMult := 1 + 0.3*(math.Sin(0.0005*x)+math.Cos(0.0005*z))
			intensity := (0.7*f1 + 0.3*f2) * timeFactor * zoneMult

			sigma := fs.MantleStress.Get(ix, iz)
			target := sigma + intensity
			sigma += 0.95 * (target - sigma)
			fs.MantleStress.Set(ix, iz, core.ClampRange(sigma, -core.MantleStressMax, core.MantleStressMax))

			delta := 100 * intensity
			if fs.Elevation.Get(ix, iz) < -500 {
				delta -= 20 * intensity
			}
			e.applyElevationDelta(fs, ix, iz, delta)
		}
	}
}

// PlateMovement drives crust-stress accumulation from a central-difference
// stress gradient, with a slow equilibrium dissipation (0.1%/kyr).
func (e *TectonicEngine) PlateMovement(fs *TectonicFieldSet, dtMyr float64) {
	w, h := fs.CrustStress.Width(), fs.CrustStress.Height()
	spacing := fs.CrustStress.Spacing()
	dissipation := 1 - 0.001*(dtMyr*1000)
	if dissipation < 0 {
		dissipation = 0
	}

	for iz := 0; iz < h; iz++ {
		for ix := 0; ix < w; ix++ {
			gx := (fs.MantleStress.Get(ix+1, iz) - fs.MantleStress.Get(ix-1, iz)) / (2 * spacing)
			gz := (fs.MantleStress.Get(ix, iz+1) - fs.MantleStress.Get(ix, iz-1)) / (2 * spacing)
			gradMag := math.Sqrt(gx*gx + gz*gz)

			stress := fs.CrustStress.Get(ix, iz)
			stress += 0.01 * gradMag * dtMyr
			stress *= dissipation
			fs.CrustStress.Set(ix, iz, core.ClampRange(stress, -core.CrustalStressMax, core.CrustalStressMax))
		}
	}
}

// geologicalElevationCapPerStep bounds mountain building's per-step uplift.
const geologicalElevationCapPerStep = 50.0

// MountainBuilding converts accumulated crust stress above a threshold into
// uplift, and metamorphoses rock under sustained high stress.
func (e *TectonicEngine) MountainBuilding(fs *TectonicFieldSet, dtMyr float64) {
	w, h := fs.CrustStress.Width(), fs.CrustStress.Height()
	for iz := 0; iz < h; iz++ {
		for ix := 0; ix < w; ix++ {
			sigma := fs.CrustStress.Get(ix, iz)
			if sigma <= 0.5 {
				continue
			}
			elev := fs.Elevation.Get(ix, iz)
			compression := (sigma - 0.5) / (1 + 0.0005*elev) * dtMyr * 5e-6
			compression = core.Clamp(compression, geologicalElevationCapPerStep)
			e.applyElevationDelta(fs, ix, iz, compression)

			if sigma > 2 {
				switch fs.RockType.Get(ix, iz) {
				case core.SedimentarySandstone:
					fs.RockType.Set(ix, iz, core.MetamorphicSlate)
					e.refreshHardness(fs, ix, iz)
				case core.IgneousGranite:
					fs.RockType.Set(ix, iz, core.MetamorphicMarble)
					e.refreshHardness(fs, ix, iz)
				}
			}
		}
	}
}

// VolcanicActivity converts extreme mantle stress into basalt uplift.
func (e *TectonicEngine) VolcanicActivity(fs *TectonicFieldSet, dtMyr float64) {
	w, h := fs.MantleStress.Width(), fs.MantleStress.Height()
	for iz := 0; iz < h; iz++ {
		for ix := 0; ix < w; ix++ {
			sigma := fs.MantleStress.Get(ix, iz)
			if sigma <= 3 {
				continue
			}
			uplift := (sigma - 3) * dtMyr * 1e-4
			e.applyElevationDelta(fs, ix, iz, uplift)
			fs.RockType.Set(ix, iz, core.IgneousBasalt)
			e.refreshHardness(fs, ix, iz)
		}
	}
}

// isostasySafeDtCapYears pre-clamps Δt to ≤100 yr to prevent instability.
const isostasySafeDtCapYears = 100.0

// IsostasyAdjustment relaxes elevation toward the equilibrium implied by
// crustal thickness. dtMyr is converted to years and clamped before use.
func (e *TectonicEngine) IsostasyAdjustment(fs *TectonicFieldSet, dtMyr float64) {
	dtYears := math.Min(dtMyr*1e6, isostasySafeDtCapYears)

	w, h := fs.CrustalThickness.Width(), fs.CrustalThickness.Height()
	for iz := 0; iz < h; iz++ {
		for ix := 0; ix < w; ix++ {
			thickness := fs.CrustalThickness.Get(ix, iz)
			rate := (thickness - core.CrustalThicknessStd) * 1e-6 * dtYears
			rate = core.Clamp(rate, 10.0)
			e.applyElevationDelta(fs, ix, iz, rate)
			fs.Isostasy.Set(ix, iz, rate)
		}
	}
}
