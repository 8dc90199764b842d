// Package detail is the FractalDetailEngine: a stateless multi-scale noise
// oracle with a bounded result cache, used both standalone (fine surface
// texture atop the field-based simulator) and by the hybrid particle/detail
// composition in package hybrid.
package detail

import (
	"math"

	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/noisefield"
)

// layerSpec is one of the five fixed noise layers.
type layerSpec struct {
	name        string
	scaleM      float64 // wavelength in meters
	amplitudeM  float64
	octaves     int
	persistence float64
}

var layerSpecs = [5]layerSpec{
	{name: "continental", scaleM: 100000, amplitudeM: 500, octaves: 4, persistence: 0.6},
	{name: "coastline", scaleM: 10000, amplitudeM: 200, octaves: 5, persistence: 0.5},
	{name: "mountain", scaleM: 5000, amplitudeM: 1000, octaves: 6, persistence: 0.5},
	{name: "hill", scaleM: 1000, amplitudeM: 100, octaves: 4, persistence: 0.6},
	{name: "fine", scaleM: 100, amplitudeM: 10, octaves: 3, persistence: 0.4},
}

// Context carries the per-sample modifiers detail_at applies on top of
// the raw layer sum.
type Context struct {
	ContinentalProximity float64 // 0-1
	DistanceToCoastM     float64
	StressPa             float64
	ThicknessM           float64
	PlateVelocityMPerYr  float64
	RockType             core.RockType
}

type cacheKey struct {
	qx, qz int64
	res    int64
}

// Engine is the FractalDetailEngine. It is logically stateless (every
// method is a pure function of its arguments) except for the bounded result
// cache, which exists purely as a performance optimization.
type Engine struct {
	layers    [5]noisefield.Source
	cache     map[cacheKey]float64
	cacheCap  int
}

// NewEngine builds a detail engine with five independently seeded layers.
// When useOpenSimplex is set (Config.Custom.UseOpenSimplexDetail), the two
// finest layers use noisefield.OpenSimplexSource instead of hash noise.
func NewEngine(seed int64, useOpenSimplex bool, cacheCapacity int) *Engine {
	if cacheCapacity <= 0 {
		cacheCapacity = 10000
	}
	e := &Engine{cache: make(map[cacheKey]float64), cacheCap: cacheCapacity}
	for i, spec := range layerSpecs {
		freq := 1.0 / spec.scaleM
		subSeed := seed + int64(i)*1009 + 17
		if useOpenSimplex && (spec.name == "hill" || spec.name == "fine") {
			e.layers[i] = noisefield.NewOpenSimplexSource(subSeed, freq)
			continue
		}
		e.layers[i] = &noisefield.HashSource{
			Octaves:     spec.octaves,
			BaseFreq:    freq,
			Persistence: spec.persistence,
			Lacunarity:  2.0,
			Seed:        subSeed,
		}
	}
	return e
}

func rockMultiplier(r core.RockType) float64 {
	switch r {
	case core.IgneousGranite:
		return 1.3
	case core.SedimentarySandstone:
		return 0.9
	case core.MetamorphicSlate:
		return 1.1
	case core.IgneousBasalt:
		return 1.0
	case core.SedimentaryLimestone:
		return 0.8
	default:
		return 1.0
	}
}

func quantize(v, resolution float64) int64 {
	if resolution <= 0 {
		resolution = 1
	}
	return int64(math.Floor(v / resolution))
}

// DetailAt computes baseElevation plus the composed, context-modulated,
// rock/stress-weighted layer sum.
func (e *Engine) DetailAt(x, z, baseElevation float64, ctx Context, resolution float64) float64 {
	key := cacheKey{qx: quantize(x, resolution), qz: quantize(z, resolution), res: int64(resolution)}
	if v, ok := e.cache[key]; ok {
		return v
	}

	geoWeight := 0.5 * (1 + ctx.ThicknessM/35000) * (0.8 + 0.2*math.Min(1, math.Abs(ctx.PlateVelocityMPerYr)/0.1))

	total := 0.0
	for i, spec := range layerSpecs {
		if resolution < 0.1*spec.scaleM {
			continue
		}
		raw := e.layers[i].Noise2D(x, z) * spec.amplitudeM

		switch spec.name {
		case "continental":
			raw *= ctx.ContinentalProximity
		case "coastline":
			raw *= math.Exp(-ctx.DistanceToCoastM / 50000)
		case "mountain":
			raw *= math.Min(1, ctx.StressPa/1e6) * ctx.ContinentalProximity
		}
		total += raw * geoWeight
	}

	total *= rockMultiplier(ctx.RockType)
	total *= 1 + math.Min(0.5, ctx.StressPa/1e7)

	result := baseElevation + total
	e.store(key, result)
	return result
}

// store inserts into the cache, evicting the first half of entries (in Go
// map iteration order, which is randomized) once the bound is exceeded.
// This is a plain "evict something" policy rather than true LRU.
func (e *Engine) store(key cacheKey, v float64) {
	if len(e.cache) >= e.cacheCap {
		toEvict := len(e.cache) / 2
		for k := range e.cache {
			delete(e.cache, k)
			toEvict--
			if toEvict <= 0 {
				break
			}
		}
	}
	e.cache[key] = v
}

// CacheLen reports the current cache occupancy (test/introspection hook).
func (e *Engine) CacheLen() int { return len(e.cache) }

// ClearCache drops every cached sample. Callers that mutate whatever the
// layers' context depends on (e.g. the hybrid simulator after moving
// particles) must clear the cache first, since a stale entry would
// otherwise outlive the state it was computed from.
func (e *Engine) ClearCache() {
	e.cache = make(map[cacheKey]float64)
}
