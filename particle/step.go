package particle

import (
	"math"

	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/spatialhash"
)

// stressDecayPerStep is the 5%/step stress decay.
const stressDecayPerStep = 0.95

// reflectDamping halves velocity on a boundary bounce.
const reflectDamping = 0.5

// overlapRepulsionFactor scales the symmetric separation impulse applied
// when two particles overlap.
const overlapRepulsionFactor = 0.02

// overlapStressTransferFraction is the 1% stress transfer on overlap
// resolution.
const overlapStressTransferFraction = 0.01

// Step advances every particle by dtYr years: rebuild the spatial hash,
// integrate positions with boundary reflection, accumulate and decay
// neighbor stress, resolve pairwise overlaps, then prune stragglers that
// ended up outside the domain.
func (e *Engine) Step(dtYr float64) {
	e.rebuildHash()
	e.integratePositions(dtYr)
	e.rebuildHash() // positions moved; neighbor queries below need fresh cells
	e.accumulateStress()
	e.resolveOverlaps()
	e.pruneOutOfBounds()
	e.rebuildHash() // pruning compacts the slice; SampleAt needs current indices
}

func (e *Engine) rebuildHash() {
	e.hash.Clear()
	for i, p := range e.Particles {
		e.hash.Insert(i, spatialhash.Point{X: p.X, Z: p.Z})
	}
}

func (e *Engine) integratePositions(dtYr float64) {
	for i := range e.Particles {
		p := &e.Particles[i]
		p.X += p.VX * dtYr
		p.Z += p.VZ * dtYr

		if p.X < 0 {
			p.X = -p.X
			p.VX = -p.VX * reflectDamping
		} else if p.X > e.DomainSizeM {
			p.X = 2*e.DomainSizeM - p.X
			p.VX = -p.VX * reflectDamping
		}
		if p.Z < 0 {
			p.Z = -p.Z
			p.VZ = -p.VZ * reflectDamping
		} else if p.Z > e.DomainSizeM {
			p.Z = 2*e.DomainSizeM - p.Z
			p.VZ = -p.VZ * reflectDamping
		}
	}
}

func (e *Engine) accumulateStress() {
	next := make([]float64, len(e.Particles))
	for i, p := range e.Particles {
		neighbors := e.hash.Query(spatialhash.Point{X: p.X, Z: p.Z}, influenceRadiusM)
		acc := 0.0
		for _, j := range neighbors {
			if j == i {
				continue
			}
			q := e.Particles[j]
			dist := math.Hypot(p.X-q.X, p.Z-q.Z)
			if dist < 1 {
				dist = 1
			}
			relVel := math.Hypot(p.VX-q.VX, p.VZ-q.VZ)
			acc += relVel / dist
		}
		next[i] = (p.Stress + acc) * stressDecayPerStep
	}
	for i := range e.Particles {
		e.Particles[i].Stress = next[i]
	}
}

func (e *Engine) resolveOverlaps() {
	for i := range e.Particles {
		p := &e.Particles[i]
		neighbors := e.hash.Query(spatialhash.Point{X: p.X, Z: p.Z}, particleRadiusM*2)
		for _, j := range neighbors {
			if j <= i {
				continue // each pair resolved once
			}
			q := &e.Particles[j]
			dx, dz := p.X-q.X, p.Z-q.Z
			dist := math.Hypot(dx, dz)
			overlap := 2*particleRadiusM - dist
			if overlap <= 0 {
				continue
			}
			if dist < 1e-6 {
				dx, dz, dist = 1, 0, 1
			}
			nx, nz := dx/dist, dz/dist
			push := overlap * overlapRepulsionFactor
			p.X += nx * push
			p.Z += nz * push
			q.X -= nx * push
			q.Z -= nz * push

			transfer := (p.Stress - q.Stress) * overlapStressTransferFraction
			p.Stress -= transfer
			q.Stress += transfer
		}
	}
}

func (e *Engine) pruneOutOfBounds() {
	kept := e.Particles[:0]
	for _, p := range e.Particles {
		if p.X >= 0 && p.X <= e.DomainSizeM && p.Z >= 0 && p.Z <= e.DomainSizeM {
			kept = append(kept, p)
		}
	}
	e.Particles = kept
}

// SampleAt performs inverse-square-distance-weighted interpolation over
// neighbors within 2*R_interaction, with weighted-mode rock-type selection.
// Returns a default oceanic sample when no particle is found nearby.
func (e *Engine) SampleAt(x, z float64) core.GeologicalSample {
	if e.hash == nil || len(e.Particles) == 0 {
		return defaultOceanicSample()
	}
	neighbors := e.hash.Query(spatialhash.Point{X: x, Z: z}, influenceRadiusM*2)
	if len(neighbors) == 0 {
		return defaultOceanicSample()
	}

	var sumW, elevW, stressW float64
	rockWeight := make(map[core.RockType]float64)

	for _, idx := range neighbors {
		p := e.Particles[idx]
		d := math.Hypot(p.X-x, p.Z-z)
		if d < 1 {
			d = 1
		}
		w := 1.0 / (d * d)
		sumW += w
		elevW += p.Elevation * w
		stressW += p.Stress * w
		rockWeight[p.RockType] += w
	}
	if sumW == 0 {
		return defaultOceanicSample()
	}

	var bestRock core.RockType
	bestW := -1.0
	for r, w := range rockWeight {
		if w > bestW {
			bestW = w
			bestRock = r
		}
	}

	elevation := elevW / sumW
	return core.GeologicalSample{
		Elevation:    elevation,
		RockType:     bestRock,
		RockHardness: bestRock.Hardness(),
		Temperature:  core.TemperatureFromElevation(15, elevation),
		Stress:       core.Clamp(stressW/sumW, 10),
	}
}

func defaultOceanicSample() core.GeologicalSample {
	return core.GeologicalSample{
		Elevation:    -100,
		RockType:     core.IgneousBasalt,
		RockHardness: core.IgneousBasalt.Hardness(),
		Temperature:  core.TemperatureFromElevation(15, -100),
	}
}
