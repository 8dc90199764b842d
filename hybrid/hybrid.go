// Package hybrid is the HybridGeologicalSimulator: an alternative
// realization of the same elevation oracle built by composing the particle
// engine (package particle, tectonic state as moving particles) with the
// fractal detail engine (package detail, resolution-independent noise)
// instead of the field-based simulator in package simulation.
package hybrid

import (
	"math"

	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/detail"
	"github.com/voxelcastle/geosim/particle"
)

// targetTimeYears is the hybrid simulator's fixed run length.
const targetTimeYears = 100000.0

// defaultStepYears is Step's default dt when the caller passes 0.
const defaultStepYears = 1000.0

// fractalWeight sets how strongly fractal detail perturbs the blended
// elevation away from the particle engine's coarse value.
const fractalWeight = 0.3

// coastSampleRadiusM and coastSampleCount implement the eight-radial-sample
// coastline search; coastBinarySearchIters controls the refinement once a
// land/ocean sign flip is found.
const (
	coastSampleRadiusM     = 5000.0
	coastSampleCount       = 8
	coastBinarySearchIters = 5
	coastMaxSearchRadiusM  = coastSampleRadiusM * 8
)

// Simulator composes a particle engine and a detail engine behind one
// elevation oracle.
type Simulator struct {
	Particles *particle.Engine
	Detail    *detail.Engine

	domainSizeM     float64
	simulationTimeYears float64
	useOpenSimplex  bool
	cacheCapacity   int
}

// New builds an uninitialized hybrid simulator over a domainSizeM x
// domainSizeM world.
func New(domainSizeM float64, seed int64, useOpenSimplex bool, detailCacheCapacity int) *Simulator {
	return &Simulator{
		Particles:      particle.NewEngine(domainSizeM),
		Detail:         detail.NewEngine(seed, useOpenSimplex, detailCacheCapacity),
		domainSizeM:    domainSizeM,
		useOpenSimplex: useOpenSimplex,
		cacheCapacity:  detailCacheCapacity,
	}
}

// Initialize delegates to the particle engine.
func (s *Simulator) Initialize(seed int64, continentCount int, oceanRatio float64) {
	s.Particles.Initialize(seed, continentCount, oceanRatio)
	s.simulationTimeYears = 0
}

// SimulationTimeYears reports elapsed simulated time.
func (s *Simulator) SimulationTimeYears() float64 { return s.simulationTimeYears }

// IsComplete reports whether the fixed 100,000-year run has finished.
func (s *Simulator) IsComplete() bool { return s.simulationTimeYears >= targetTimeYears }

// Step advances particles by dtYr (0 selects the 1000-year default), clears
// the detail cache (new particle positions invalidate every cached sample)
// and advances simulated time, clamped at targetTime.
func (s *Simulator) Step(dtYr float64) bool {
	if s.IsComplete() {
		return false
	}
	if dtYr <= 0 {
		dtYr = defaultStepYears
	}
	if s.simulationTimeYears+dtYr > targetTimeYears {
		dtYr = targetTimeYears - s.simulationTimeYears
	}

	s.Particles.Step(dtYr)
	s.Detail.ClearCache()
	s.simulationTimeYears += dtYr
	return !s.IsComplete()
}

// ElevationAt blends particle-derived elevation with fractal detail.
func (s *Simulator) ElevationAt(x, z, resolution float64) float64 {
	sample := s.Particles.SampleAt(x, z)
	ctx := detail.Context{
		ContinentalProximity: s.continentalProximity(sample.Elevation, 35000),
		DistanceToCoastM:     s.distanceToCoast(x, z),
		StressPa:             sample.Stress * 1e6,
		ThicknessM:           35000,
		RockType:             sample.RockType,
	}
	fractalElevation := s.Detail.DetailAt(x, z, sample.Elevation, ctx, resolution)
	return blend(sample.Elevation, fractalElevation)
}

func blend(particleElevation, fractalElevation float64) float64 {
	return particleElevation + fractalWeight*(fractalElevation-particleElevation)
}

// continentalProximity combines elevation and crustal thickness into a
// 0-1 "how continental is this point" signal.
func (s *Simulator) continentalProximity(elevation, thicknessM float64) float64 {
	a := 0.7 * math.Min(1, math.Max(0, elevation)/1000)
	b := 0.3 * math.Min(1, math.Max(0, thicknessM-5000)/30000)
	return a + b
}

// distanceToCoast runs an on-the-fly coastline search: eight radial
// samples, binary-search refinement on any land/ocean sign flip, minimum
// across all eight directions.
func (s *Simulator) distanceToCoast(x, z float64) float64 {
	here := s.Particles.SampleAt(x, z).Elevation
	hereIsLand := here >= core.SeaLevel

	best := coastMaxSearchRadiusM
	for i := 0; i < coastSampleCount; i++ {
		angle := 2 * math.Pi * float64(i) / coastSampleCount
		dx, dz := math.Cos(angle), math.Sin(angle)

		lo, hi := 0.0, coastMaxSearchRadiusM
		found := false
		for r := coastSampleRadiusM; r <= coastMaxSearchRadiusM; r += coastSampleRadiusM {
			elev := s.Particles.SampleAt(x+dx*r, z+dz*r).Elevation
			isLand := elev >= core.SeaLevel
			if isLand != hereIsLand {
				lo, hi = r-coastSampleRadiusM, r
				found = true
				break
			}
		}
		if !found {
			continue
		}

		for iter := 0; iter < coastBinarySearchIters; iter++ {
			mid := (lo + hi) / 2
			elev := s.Particles.SampleAt(x+dx*mid, z+dz*mid).Elevation
			isLand := elev >= core.SeaLevel
			if isLand == hereIsLand {
				lo = mid
			} else {
				hi = mid
			}
		}
		if hi < best {
			best = hi
		}
	}
	return best
}
