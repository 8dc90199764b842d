package continent

import (
	"math"
	"math/rand"

	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/noisefield"
)

// rockCandidates and their continental rock-type selection weights.
var rockCandidates = []struct {
	rock   core.RockType
	weight float64
}{
	{core.IgneousGranite, 0.40},
	{core.MetamorphicQuartzite, 0.30},
	{core.SedimentarySandstone, 0.30},
}

// FractalContinentGenerator is the default Seeder: Mitchell's-best-candidate
// plate placement plus ridge/basin/trench noise classification and
// L-system river/ridge templates, generalized from a sphere of continent
// seeds to this package's toroidal plane.
type FractalContinentGenerator struct {
	CoastlineNoise noisefield.Source
	RidgeNoise     noisefield.Source
	TrenchNoise    noisefield.Source
	JitterNoise    noisefield.Source
}

// NewFractalContinentGenerator builds a generator whose coastline
// perturbation uses backend (selected per Config.Custom.CoastlineNoiseBackend);
// ridge/trench/jitter classification always uses hash noise at fixed
// frequencies.
func NewFractalContinentGenerator(backend noisefield.Source, seed int64) *FractalContinentGenerator {
	return &FractalContinentGenerator{
		CoastlineNoise: backend,
		RidgeNoise:     &noisefield.HashSource{Octaves: 1, BaseFreq: 2e-4, Persistence: 0.5, Lacunarity: 2.0, Seed: seed + 1},
		TrenchNoise:    &noisefield.HashSource{Octaves: 1, BaseFreq: 5e-4, Persistence: 0.5, Lacunarity: 2.0, Seed: seed + 2},
		JitterNoise:    &noisefield.HashSource{Octaves: 2, BaseFreq: 3e-4, Persistence: 0.5, Lacunarity: 2.0, Seed: seed + 3},
	}
}

// continentCount derives the number of continents to place: the caller's
// target if given, otherwise a value between 3 and 7 derived from the seed.
func continentCount(seed int64, target int) int {
	if target > 0 {
		return clampInt(target, 3, 7)
	}
	m := seed % 5
	if m < 0 {
		m += 5
	}
	return int(m) + 3
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// pickRock draws a rock type from rockCandidates' weighted distribution.
func pickRock(rng *rand.Rand) core.RockType {
	r := rng.Float64()
	acc := 0.0
	for _, c := range rockCandidates {
		acc += c.weight
		if r <= acc {
			return c.rock
		}
	}
	return rockCandidates[len(rockCandidates)-1].rock
}

func (g *FractalContinentGenerator) Seed(elevation NumericWriter, rock RockWriter, stress NumericWriter, p Params) Result {
	rng := rand.New(rand.NewSource(p.Seed))
	n := continentCount(p.Seed, p.TargetContinents)
	worldSize := p.WorldSizeM

	plates := g.placeCenters(rng, n, worldSize, elevation)

	// Classify every cell and write elevation + rock together.
	for iz := 0; iz < elevation.Height(); iz++ {
		z := float64(iz) * elevation.Spacing()
		for ix := 0; ix < elevation.Width(); ix++ {
			x := float64(ix) * elevation.Spacing()

			bestIdx := -1
			bestEdge := math.MaxFloat64
			for i, pl := range plates {
				d := elevation.ToroidalDistance(x, z, pl.CenterX, pl.CenterZ)
				effRadius := pl.Radius * (1 + 0.15*g.CoastlineNoise.Noise2D(x, z))
				edge := d - effRadius
				if edge < bestEdge {
					bestEdge = edge
					bestIdx = i
				}
			}
			if bestIdx >= 0 && bestEdge <= 0 {
				pl := plates[bestIdx]
				elev := pl.BaseElevation + 60*g.CoastlineNoise.Noise2D(x*1.7, z*1.7)
				elevation.Set(ix, iz, core.ClampElevation(elev))
				rock.Set(ix, iz, pl.RockType)
				continue
			}

			elev := g.oceanDepth(x, z, bestEdge, worldSize)
			elevation.Set(ix, iz, elev)
			rock.Set(ix, iz, core.IgneousBasalt)
		}
	}

	g.stampMantleStress(stress, plates)

	rivers := g.generateRivers(rng, plates)
	ridges := g.generateRidges(rng, plates, elevation)

	return Result{Plates: plates, Rivers: rivers, Ridges: ridges}
}

// placeCenters performs Mitchell's-best-candidate placement followed by
// per-plate attribute assignment.
func (g *FractalContinentGenerator) placeCenters(rng *rand.Rand, n int, worldSize float64, geo NumericWriter) []Plate {
	plates := make([]Plate, 0, n)
	minSeparation := 0.15 * worldSize

	for i := 0; i < n; i++ {
		var bestX, bestZ float64
		bestScore := -1.0
		for c := 0; c < 100; c++ {
			cx := rng.Float64() * worldSize
			cz := rng.Float64() * worldSize

			score := math.MaxFloat64
			if len(plates) > 0 {
				score = math.MaxFloat64
				for _, pl := range plates {
					d := geo.ToroidalDistance(cx, cz, pl.CenterX, pl.CenterZ)
					if d < score {
						score = d
					}
				}
			}
			if score > bestScore {
				bestScore = score
				bestX, bestZ = cx, cz
			}
			if bestScore >= minSeparation {
				break
			}
		}

		radius := 0.5 * worldSize * (0.05 + rng.Float64()*0.35)
		plates = append(plates, Plate{
			ID:            i,
			CenterX:       bestX,
			CenterZ:       bestZ,
			Radius:        radius,
			BaseElevation: 100 + rng.Float64()*300,
			RockType:      pickRock(rng),
			Activity:      0.3 + rng.Float64()*0.7,
		})
	}
	return plates
}

// oceanDepth computes ocean-floor elevation from ridge/trench/basin noise
// classification. edgeDist is the signed distance from the cell to the
// nearest plate's coastline (positive = offshore).
func (g *FractalContinentGenerator) oceanDepth(x, z, edgeDist, worldSize float64) float64 {
	jitter := g.JitterNoise.Noise2D(x, z) * 200

	if g.RidgeNoise.Noise2D(x, z) > 0.6 {
		return clampF(-400+jitter*0.75, -2000, -100)
	}
	if edgeDist < 0.15*worldSize && g.TrenchNoise.Noise2D(x, z) < -0.5 {
		return clampF(-1900+jitter*0.5, -2000, -100)
	}

	t := clampF(edgeDist/(worldSize/2), 0, 1)
	basin := lerp(-1000, -1800, t) + jitter
	return clampF(basin, -2000, -100)
}

// stampMantleStress writes a baseline mantle-stress field peaking near
// each plate's boundary and decaying with distance from it.
func (g *FractalContinentGenerator) stampMantleStress(stress NumericWriter, plates []Plate) {
	for iz := 0; iz < stress.Height(); iz++ {
		z := float64(iz) * stress.Spacing()
		for ix := 0; ix < stress.Width(); ix++ {
			x := float64(ix) * stress.Spacing()

			v := 0.1
			for _, pl := range plates {
				d := stress.ToroidalDistance(x, z, pl.CenterX, pl.CenterZ)
				edge := d - pl.Radius
				if edge < 0 {
					edge = 0
				}
				v += pl.Activity * math.Exp(-edge/10000) * 0.5
			}
			stress.Set(ix, iz, clampF(v, 0, 1))
		}
	}
}

// generateRivers walks an L-system program from a random interior source
// toward the continent's edge for each plate, plus a handful of tributaries.
// The step length spreads the source-to-mouth distance over every F in the
// program, branches included, so the main stem stops short of the edge.
func (g *FractalContinentGenerator) generateRivers(rng *rand.Rand, plates []Plate) []River {
	rivers := make([]River, 0, len(plates)*3)
	const axiom = "F"
	rules := lsystemRules{'F': "F[+F]F[-F]F"}

	for _, pl := range plates {
		numRivers := 2 + rng.Intn(3) // U{2,4}
		for r := 0; r < numRivers; r++ {
			sourceAngle := rng.Float64() * 2 * math.Pi
			sourceFrac := 0.3 + rng.Float64()*0.4
			source := [2]float64{
				pl.CenterX + math.Cos(sourceAngle)*sourceFrac*pl.Radius,
				pl.CenterZ + math.Sin(sourceAngle)*sourceFrac*pl.Radius,
			}
			mouth := [2]float64{
				pl.CenterX + math.Cos(sourceAngle)*pl.Radius,
				pl.CenterZ + math.Sin(sourceAngle)*pl.Radius,
			}

			program := expandLSystem(axiom, rules, 3)
			steps := countByte(program, 'F')
			pathLen := math.Hypot(mouth[0]-source[0], mouth[1]-source[1])
			stepLen := 1.0
			if steps > 0 {
				stepLen = pathLen / float64(steps)
			}
			heading := headingTo(source, mouth)

			tp := walkLSystem(program, source, heading, stepLen, 30, rng)
			mainStemLen := pathLength(tp.Main)

			tributaries := append([]Path{}, tp.Branches...)
			numExtra := 1 + rng.Intn(3)
			for t := 0; t < numExtra && len(tp.Main) > 2; t++ {
				anchorIdx := 1 + rng.Intn(len(tp.Main)-1)
				anchor := tp.Main[anchorIdx]
				branchHeading := heading + (rng.Float64()-0.5)*120
				branchProgram := expandLSystem(axiom, rules, 2)
				branchSteps := countByte(branchProgram, 'F')
				branchStepLen := stepLen
				if branchSteps > 0 {
					branchStepLen = (mainStemLen * 0.3) / float64(branchSteps)
				}
				extra := walkLSystem(branchProgram, anchor, branchHeading, branchStepLen, 30, rng)
				tributaries = append(tributaries, extra.Main)
			}

			rivers = append(rivers, River{ContinentID: pl.ID, MainStem: tp.Main, Tributaries: tributaries})
		}
	}
	return rivers
}

// generateRidges stamps elevation as it builds each ridge's template,
// one per pair of plates close enough to collide.
func (g *FractalContinentGenerator) generateRidges(rng *rand.Rand, plates []Plate, elevation NumericWriter) []Ridge {
	const axiom = "F"
	rules := lsystemRules{'F': "F+F-F-F+F"}
	const ridgeUplift = 800.0

	var ridges []Ridge
	for i := 0; i < len(plates); i++ {
		for j := i + 1; j < len(plates); j++ {
			a, b := plates[i], plates[j]
			d := elevation.ToroidalDistance(a.CenterX, a.CenterZ, b.CenterX, b.CenterZ)
			if d > 1.2*(a.Radius+b.Radius) {
				continue
			}

			program := expandLSystem(axiom, rules, 2)
			steps := countByte(program, 'F')
			stepLen := 1.0
			if steps > 0 {
				stepLen = d / float64(steps)
			}
			heading := headingTo([2]float64{a.CenterX, a.CenterZ}, [2]float64{b.CenterX, b.CenterZ})
			tp := walkLSystem(program, [2]float64{a.CenterX, a.CenterZ}, heading, stepLen, 0, rng)

			base := (a.BaseElevation + b.BaseElevation) / 2
			for _, pt := range tp.Main {
				ix, iz := cellIndexOf(elevation, pt[0], pt[1])
				target := base + ridgeUplift*rng.Float64()
				cur := elevation.Get(ix, iz)
				if target > cur {
					elevation.Set(ix, iz, core.ClampElevation(target))
				}
			}

			ridges = append(ridges, Ridge{PlateA: a.ID, PlateB: b.ID, Path: tp.Main})
		}
	}
	return ridges
}

func cellIndexOf(geo NumericWriter, x, z float64) (int, int) {
	spacing := geo.Spacing()
	ix := int(math.Floor(x/spacing)) % geo.Width()
	if ix < 0 {
		ix += geo.Width()
	}
	iz := int(math.Floor(z/spacing)) % geo.Height()
	if iz < 0 {
		iz += geo.Height()
	}
	return ix, iz
}

func countByte(s string, b byte) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			n++
		}
	}
	return n
}
