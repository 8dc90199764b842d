// Package particle is the ParticleSimulationEngine: the hybrid variant's
// alternative to field-based tectonics, carrying crustal state as a flat
// collection of particles resolved through the spatialhash package instead
// of a grid, reworked from a fixed voxel shell into free-floating
// particles on the toroidal plane.
package particle

import (
	"math"
	"math/rand"

	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/spatialhash"
)

// ShapeClass is a continent's silhouette archetype.
type ShapeClass int

const (
	ShapeCircular ShapeClass = iota
	ShapeOval
	ShapeElongated
	ShapeCrescent
)

// Continent is one placed landmass: a center, a nominal radius, and the
// shape parameters used to bias particle placement around it.
type Continent struct {
	ID          int
	CenterX     float64
	CenterZ     float64
	Radius      float64
	Shape       ShapeClass
	Elongation  float64
	OrientationRad float64
	RockType    core.RockType
}

// Particle is one crustal element: continental (ContinentID >= 0) or
// oceanic (ContinentID == -1).
type Particle struct {
	X, Z         float64
	VX, VZ       float64 // m/yr
	AgeYears     float64
	DensityKgM3  float64
	ThicknessM   float64
	Elevation    float64
	RockType     core.RockType
	Stress       float64
	ContinentID  int
}

// influenceRadiusM is R_interaction, the neighborhood used for stress
// accumulation and, doubled, for sample_at's neighbor search.
const influenceRadiusM = 8000.0

// particleRadiusM is each particle's nominal footprint, used for the
// pairwise-overlap test in step 4.
const particleRadiusM = 2000.0

// Engine owns the particle collection plus the spatial hash rebuilt each
// step.
type Engine struct {
	DomainSizeM float64
	Continents  []Continent
	Particles   []Particle

	hash *spatialhash.Grid
	rng  *rand.Rand
}

var rockWeights = []struct {
	rock   core.RockType
	weight float64
}{
	{core.IgneousGranite, 0.4},
	{core.MetamorphicQuartzite, 0.3},
	{core.SedimentarySandstone, 0.3},
}

func pickContinentalRock(rng *rand.Rand) core.RockType {
	r := rng.Float64()
	acc := 0.0
	for _, c := range rockWeights {
		acc += c.weight
		if r <= acc {
			return c.rock
		}
	}
	return rockWeights[len(rockWeights)-1].rock
}

// NewEngine builds an uninitialized engine over a domainSizeM x domainSizeM
// world.
func NewEngine(domainSizeM float64) *Engine {
	return &Engine{
		DomainSizeM: domainSizeM,
		hash:        spatialhash.New(domainSizeM, spatialhash.DefaultCellSize),
	}
}

// Initialize places continentCount continents by Poisson-disk-style retry
// and emits their particles plus an oceanic fill.
func (e *Engine) Initialize(seed int64, continentCount int, oceanRatio float64) {
	e.rng = rand.New(rand.NewSource(seed))
	rAvg := e.DomainSizeM * 0.12
	minSeparation := 1.2 * rAvg

	e.Continents = make([]Continent, 0, continentCount)
	for i := 0; i < continentCount; i++ {
		var center [2]float64
		for attempt := 0; attempt < 200; attempt++ {
			cand := [2]float64{e.rng.Float64() * e.DomainSizeM, e.rng.Float64() * e.DomainSizeM}
			ok := true
			for _, c := range e.Continents {
				if math.Hypot(cand[0]-c.CenterX, cand[1]-c.CenterZ) < minSeparation {
					ok = false
					break
				}
			}
			center = cand
			if ok {
				break
			}
		}

		e.Continents = append(e.Continents, Continent{
			ID:             i,
			CenterX:        center[0],
			CenterZ:        center[1],
			Radius:         rAvg * (0.7 + e.rng.Float64()*0.6),
			Shape:          ShapeClass(e.rng.Intn(4)),
			Elongation:     0.8 + e.rng.Float64()*1.7,
			OrientationRad: e.rng.Float64() * 2 * math.Pi,
			RockType:       pickContinentalRock(e.rng),
		})
	}

	e.Particles = e.Particles[:0]
	for _, c := range e.Continents {
		e.emitContinentParticles(c)
	}
	e.emitOceanicParticles()
	e.rebuildHash()
}

// emitContinentParticles emits 300-1200 particles per continent: 85% in a
// concentrated core with radial density ~r^0.5, 15% on the periphery.
func (e *Engine) emitContinentParticles(c Continent) {
	count := 300 + e.rng.Intn(901)
	coreCount := int(float64(count) * 0.85)

	for i := 0; i < count; i++ {
		isCore := i < coreCount
		u := e.rng.Float64()
		var frac float64
		if isCore {
			frac = math.Pow(u, 2.0/3.0) // CDF inversion for density ~ r^0.5
		} else {
			frac = 0.85 + 0.15*u // periphery: outer 15% of the radius band
		}

		angle := e.rng.Float64() * 2 * math.Pi
		radius := c.Radius * frac

		x, z := e.placeOnShape(c, angle, radius)

		elevation := 200 + e.rng.Float64()*300
		if !isCore {
			elevation = 80 + e.rng.Float64()*120
		}

		e.Particles = append(e.Particles, Particle{
			X: x, Z: z,
			VX: (e.rng.Float64()*2 - 1) * 0.05,
			VZ: (e.rng.Float64()*2 - 1) * 0.05,
			AgeYears:    e.rng.Float64() * 4.5e9,
			DensityKgM3: 2700,
			ThicknessM:  35000 + e.rng.Float64()*15000,
			Elevation:   elevation,
			RockType:    c.RockType,
			ContinentID: c.ID,
		})
	}
}

// placeOnShape maps a (angle, radius) polar sample onto the continent's
// shape class: elongation stretches the radial coordinate along
// OrientationRad, and a crescent carves out a wedge on its far side.
func (e *Engine) placeOnShape(c Continent, angle, radius float64) (float64, float64) {
	switch c.Shape {
	case ShapeOval, ShapeElongated:
		major := radius * c.Elongation
		minor := radius / math.Sqrt(c.Elongation)
		lx := major * math.Cos(angle)
		lz := minor * math.Sin(angle)
		cosO, sinO := math.Cos(c.OrientationRad), math.Sin(c.OrientationRad)
		return c.CenterX + lx*cosO - lz*sinO, c.CenterZ + lx*sinO + lz*cosO
	case ShapeCrescent:
		rel := angle - c.OrientationRad
		for rel > math.Pi {
			rel -= 2 * math.Pi
		}
		for rel < -math.Pi {
			rel += 2 * math.Pi
		}
		if math.Abs(rel) < math.Pi*0.3 {
			radius *= 1.6 // push the far-side wedge outward, thinning the crescent's back
		}
		return c.CenterX + radius*math.Cos(angle), c.CenterZ + radius*math.Sin(angle)
	default: // ShapeCircular
		return c.CenterX + radius*math.Cos(angle), c.CenterZ + radius*math.Sin(angle)
	}
}

// emitOceanicParticles fills the remainder of the domain on a grid with
// slight overlap.
func (e *Engine) emitOceanicParticles() {
	spacing := particleRadiusM * 1.8
	for z := spacing / 2; z < e.DomainSizeM; z += spacing {
		for x := spacing / 2; x < e.DomainSizeM; x += spacing {
			if e.withinAnyContinent(x, z) {
				continue
			}
			e.Particles = append(e.Particles, Particle{
				X: x, Z: z,
				VX: (e.rng.Float64()*2 - 1) * 0.05,
				VZ: (e.rng.Float64()*2 - 1) * 0.05,
				AgeYears:    e.rng.Float64() * 4.5e9,
				DensityKgM3: 2900,
				ThicknessM:  5000 + e.rng.Float64()*3000,
				Elevation:   -100,
				RockType:    core.IgneousBasalt,
				ContinentID: -1,
			})
		}
	}
}

func (e *Engine) withinAnyContinent(x, z float64) bool {
	for _, c := range e.Continents {
		if math.Hypot(x-c.CenterX, z-c.CenterZ) <= c.Radius*c.Elongation {
			return true
		}
	}
	return false
}
