package continent

import (
	"math"
	"math/rand"

	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/noisefield"
)

// VoronoiSeeder is an alternative seeding strategy: a cell within some
// plate's radius joins the nearest such plate, and every other cell becomes
// flat basalt ocean floor, with no depth-by-distance ocean profile,
// coastline noise or L-system river/ridge templates. It trades the default
// generator's detail for a flat, fast partition useful as a quick preview,
// selected via Config.Custom.SeedingStrategy == "voronoi".
type VoronoiSeeder struct {
	Noise noisefield.Source
}

// NewVoronoiSeeder builds a seeder using backend for the small per-cell
// elevation jitter applied within each plate's territory.
func NewVoronoiSeeder(backend noisefield.Source) *VoronoiSeeder {
	return &VoronoiSeeder{Noise: backend}
}

func (v *VoronoiSeeder) Seed(elevation NumericWriter, rock RockWriter, stress NumericWriter, p Params) Result {
	rng := rand.New(rand.NewSource(p.Seed))
	n := continentCount(p.Seed, p.TargetContinents)
	worldSize := p.WorldSizeM

	plates := make([]Plate, 0, n)
	for i := 0; i < n; i++ {
		plates = append(plates, Plate{
			ID:            i,
			CenterX:       rng.Float64() * worldSize,
			CenterZ:       rng.Float64() * worldSize,
			Radius:        0.5 * worldSize * (0.05 + rng.Float64()*0.35),
			BaseElevation: 100 + rng.Float64()*300,
			RockType:      pickRock(rng),
			Activity:      0.3 + rng.Float64()*0.7,
		})
	}

	oceanLevel := -1200.0
	for iz := 0; iz < elevation.Height(); iz++ {
		z := float64(iz) * elevation.Spacing()
		for ix := 0; ix < elevation.Width(); ix++ {
			x := float64(ix) * elevation.Spacing()

			bestIdx := -1
			bestEdge := math.MaxFloat64
			for i, pl := range plates {
				d := elevation.ToroidalDistance(x, z, pl.CenterX, pl.CenterZ)
				edge := d - pl.Radius
				if edge < bestEdge {
					bestEdge = edge
					bestIdx = i
				}
			}

			jitter := v.Noise.Noise2D(x, z)
			if bestIdx >= 0 && bestEdge <= 0 {
				pl := plates[bestIdx]
				elevation.Set(ix, iz, core.ClampElevation(pl.BaseElevation+40*jitter))
				rock.Set(ix, iz, pl.RockType)
			} else {
				elevation.Set(ix, iz, clampF(oceanLevel+jitter*150, -2000, -100))
				rock.Set(ix, iz, core.IgneousBasalt)
			}
		}
	}

	for iz := 0; iz < stress.Height(); iz++ {
		z := float64(iz) * stress.Spacing()
		for ix := 0; ix < stress.Width(); ix++ {
			x := float64(ix) * stress.Spacing()
			s := 0.1
			for _, pl := range plates {
				d := stress.ToroidalDistance(x, z, pl.CenterX, pl.CenterZ)
				edge := d - pl.Radius
				if edge < 0 {
					edge = 0
				}
				s += pl.Activity * math.Exp(-edge/10000) * 0.5
			}
			stress.Set(ix, iz, clampF(s, 0, 1))
		}
	}

	return Result{Plates: plates}
}
