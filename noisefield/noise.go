// Package noisefield provides the coherent-noise primitives shared by the
// field substrate, the continent generator and the fractal detail engine.
// It exposes a single Source interface so callers (ContinuousField,
// FractalContinentGenerator, FractalDetailEngine) can be built against
// whichever noise backend the host configures: the default hash-value
// noise, or github.com/ojrac/opensimplex-go and github.com/aquilax/go-perlin
// as alternate backends.
package noisefield

import "math"

// Source returns deterministic coherent noise in [-1, 1] for a 2-D point.
// Implementations must be pure functions of (x, z) (and their own fixed
// seed), with no hidden mutable state.
type Source interface {
	Noise2D(x, z float64) float64
}

// HashSource is the default noise: 4-octave value noise, base frequency
// 0.01, geometric amplitude decay of 1/2, hash-based and deterministic in
// (x,z) alone. This is the only backend used by
// ContinuousField.sample_at.
type HashSource struct {
	Octaves     int
	BaseFreq    float64
	Persistence float64
	Lacunarity  float64
	Seed        int64
}

// NewHashSource returns the default 4-octave/0.01/0.5 configuration.
func NewHashSource(seed int64) *HashSource {
	return &HashSource{Octaves: 4, BaseFreq: 0.01, Persistence: 0.5, Lacunarity: 2.0, Seed: seed}
}

func (h *HashSource) Noise2D(x, z float64) float64 {
	octaves := h.Octaves
	if octaves <= 0 {
		octaves = 4
	}
	lacunarity := h.Lacunarity
	if lacunarity == 0 {
		lacunarity = 2.0
	}
	persistence := h.Persistence
	if persistence == 0 {
		persistence = 0.5
	}
	freq := h.BaseFreq
	if freq == 0 {
		freq = 0.01
	}

	amp := 1.0
	sum := 0.0
	maxAmp := 0.0
	for i := 0; i < octaves; i++ {
		sum += amp * valueNoise2D(x*freq+float64(h.Seed)*17.0, z*freq-float64(h.Seed)*31.0)
		maxAmp += amp
		amp *= persistence
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// valueNoise2D is smooth-interpolated hash noise over unit lattice cells,
// returning a value in [-1, 1].
func valueNoise2D(x, z float64) float64 {
	ix := math.Floor(x)
	iz := math.Floor(z)
	fx := x - ix
	fz := z - iz

	u := fx * fx * (3 - 2*fx)
	v := fz * fz * (3 - 2*fz)

	ixi, izi := int64(ix), int64(iz)
	h00 := hash2(ixi, izi)
	h10 := hash2(ixi+1, izi)
	h01 := hash2(ixi, izi+1)
	h11 := hash2(ixi+1, izi+1)

	a := lerp(h00, h10, u)
	b := lerp(h01, h11, u)
	return lerp(a, b, v)*2.0 - 1.0
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// hash2 returns a deterministic pseudo-random value in [0,1] for an integer
// lattice point. Pure integer hash, no global state.
func hash2(ix, iz int64) float64 {
	h := ix*374761393 + iz*668265263
	h = (h ^ (h >> 13)) * 1274126177
	h = h ^ (h >> 16)
	u := uint32(h)
	return float64(u) / float64(math.MaxUint32)
}
