package noisefield

import (
	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// OpenSimplexSource adapts github.com/ojrac/opensimplex-go to the Source
// interface. Selected by FractalDetailEngine's hill/fine layers when the
// host sets Config.Custom.UseOpenSimplexDetail.
type OpenSimplexSource struct {
	noise opensimplex.Noise
	freq  float64
}

// NewOpenSimplexSource builds a seeded OpenSimplex source sampled at the
// given base frequency.
func NewOpenSimplexSource(seed int64, freq float64) *OpenSimplexSource {
	return &OpenSimplexSource{noise: opensimplex.New(seed), freq: freq}
}

func (s *OpenSimplexSource) Noise2D(x, z float64) float64 {
	return s.noise.Eval2(x*s.freq, z*s.freq)
}

// PerlinSource adapts github.com/aquilax/go-perlin. Selected for
// FractalContinentGenerator's coastline perturbation when the host sets
// Config.Custom.CoastlineNoiseBackend to "perlin".
type PerlinSource struct {
	p    *perlin.Perlin
	freq float64
}

// NewPerlinSource builds a Perlin source with standard alpha/beta/octaves.
func NewPerlinSource(seed int64, freq float64) *PerlinSource {
	return &PerlinSource{p: perlin.NewPerlin(2.0, 2.0, 3, seed), freq: freq}
}

func (s *PerlinSource) Noise2D(x, z float64) float64 {
	v := s.p.Noise2D(x*s.freq, z*s.freq)
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return v
}
