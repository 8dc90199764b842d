// Package config defines the simulator's construction-time configuration:
// the quality preset and the custom knobs that control generation. It uses
// a JSON-tagged struct with sane defaults loaded from a reader, but the
// core never touches the filesystem itself; the host supplies the io.Reader.
package config

import (
	"encoding/json"
	"fmt"
	"io"
)

// Preset selects the resolution/step-count band for a generation run.
type Preset string

const (
	PresetPerformance Preset = "performance"
	PresetBalanced    Preset = "balanced"
	PresetQuality     Preset = "quality"
	PresetUltra       Preset = "ultra"
	PresetCustom      Preset = "custom"
)

// presetShape is the (resolution, stepBudget) pair for a non-custom preset.
type presetShape struct {
	resolution int
	steps      int
}

var presetTable = map[Preset]presetShape{
	PresetPerformance: {resolution: 256, steps: 100},
	PresetBalanced:    {resolution: 512, steps: 200},
	PresetQuality:     {resolution: 1024, steps: 500},
	PresetUltra:       {resolution: 2048, steps: 1000},
}

// Resolution returns the field resolution for this preset given the custom
// detail level (used only when preset == PresetCustom).
func (p Preset) Resolution(customDetailLevel int) int {
	if shape, ok := presetTable[p]; ok {
		return shape.resolution
	}
	r := customDetailLevel / 4
	if r < 256 {
		r = 256
	}
	if r > 2048 {
		r = 2048
	}
	return r
}

// StepBudget returns the total step count for this preset given the custom
// detail level (used only when preset == PresetCustom, where the detail
// level itself is the step budget).
func (p Preset) StepBudget(customDetailLevel int) int {
	if shape, ok := presetTable[p]; ok {
		return shape.steps
	}
	return customDetailLevel
}

// Describe returns a short human-readable blurb about expected generation
// cost; informational only, no behavior depends on it.
func (p Preset) Describe() string {
	switch p {
	case PresetPerformance:
		return "Performance: fast generation, basic geological detail"
	case PresetBalanced:
		return "Balanced: recommended default, realistic erosion and geology"
	case PresetQuality:
		return "Quality: high detail, longer generation, complex cave systems"
	case PresetUltra:
		return "Ultra: research-grade accuracy, slow generation"
	case PresetCustom:
		return "Custom: user-defined settings"
	default:
		return "Unknown preset"
	}
}

// SeedingStrategy selects the continent-seeding path.
type SeedingStrategy string

const (
	SeedingFractal SeedingStrategy = "fractal" // FractalContinentGenerator (default)
	SeedingVoronoi SeedingStrategy = "voronoi" // alternative plate simulator seeding, optional
)

// NoiseBackend selects an alternate coherent-noise source for the
// continent generator's coastline perturbation.
type NoiseBackend string

const (
	NoiseBackendHash   NoiseBackend = "hash" // deterministic hash-value noise (default)
	NoiseBackendPerlin NoiseBackend = "perlin"
)

// CustomSettings holds the tunables recognized under preset=Custom, plus
// the feature toggles that apply regardless of preset.
type CustomSettings struct {
	EnableChemicalWeathering bool    `json:"enableChemicalWeathering"`
	EnableJointSystems       bool    `json:"enableJointSystems"`
	EnableCaveSystems        bool    `json:"enableCaveSystems"`
	EnableGlacialFeatures    bool    `json:"enableGlacialFeatures"`
	TimeScaleMultiplier      float64 `json:"timeScaleMultiplier"`
	SimulationDetailLevel    int     `json:"simulationDetailLevel"`
	NumContinents            int     `json:"numContinents"`
	MaxContinentSize         float64 `json:"maxContinentSize"`
	MinOceanCoverage         float64 `json:"minOceanCoverage"`
	ForceOceanGeneration     bool    `json:"forceOceanGeneration"`

	SeedingStrategy        SeedingStrategy `json:"seedingStrategy"`
	CoastlineNoiseBackend  NoiseBackend    `json:"coastlineNoiseBackend"`
	UseOpenSimplexDetail   bool            `json:"useOpenSimplexDetail"`
}

// DefaultCustomSettings returns the recognized defaults.
func DefaultCustomSettings() CustomSettings {
	return CustomSettings{
		EnableChemicalWeathering: true,
		EnableJointSystems:       true,
		EnableCaveSystems:        true,
		EnableGlacialFeatures:    false,
		TimeScaleMultiplier:      1.0,
		SimulationDetailLevel:    1000,
		NumContinents:            4,
		MaxContinentSize:         8.0,
		MinOceanCoverage:         65.0,
		ForceOceanGeneration:     true,
		SeedingStrategy:          SeedingFractal,
		CoastlineNoiseBackend:    NoiseBackendHash,
		UseOpenSimplexDetail:     false,
	}
}

// Config is the simulator's construction-time configuration.
type Config struct {
	Preset Preset         `json:"preset"`
	Custom CustomSettings `json:"custom"`
}

// Default returns the recognized-defaults configuration: Balanced preset,
// all custom defaults.
func Default() Config {
	return Config{Preset: PresetBalanced, Custom: DefaultCustomSettings()}
}

// Load decodes a Config from JSON, applying defaults for any field the
// reader's document omits. The core takes no dependency on *where* the
// reader's bytes come from.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := json.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize silently clamps every recognized option to its documented
// legal range.
func (c *Config) Normalize() {
	switch c.Preset {
	case PresetPerformance, PresetBalanced, PresetQuality, PresetUltra, PresetCustom:
	default:
		c.Preset = PresetBalanced
	}

	if c.Custom.TimeScaleMultiplier < 0.1 {
		c.Custom.TimeScaleMultiplier = 0.1
	}
	if c.Custom.TimeScaleMultiplier > 5.0 {
		c.Custom.TimeScaleMultiplier = 5.0
	}
	if c.Custom.SimulationDetailLevel < 100 {
		c.Custom.SimulationDetailLevel = 100
	}
	if c.Custom.SimulationDetailLevel > 10000 {
		c.Custom.SimulationDetailLevel = 10000
	}
	if c.Custom.NumContinents < 3 {
		c.Custom.NumContinents = 3
	}
	if c.Custom.NumContinents > 7 {
		c.Custom.NumContinents = 7
	}
	if c.Custom.MaxContinentSize < 6 {
		c.Custom.MaxContinentSize = 6
	}
	if c.Custom.MaxContinentSize > 12 {
		c.Custom.MaxContinentSize = 12
	}
	if c.Custom.MinOceanCoverage < 60 {
		c.Custom.MinOceanCoverage = 60
	}
	if c.Custom.MinOceanCoverage > 80 {
		c.Custom.MinOceanCoverage = 80
	}
	if c.Custom.SeedingStrategy == "" {
		c.Custom.SeedingStrategy = SeedingFractal
	}
	if c.Custom.CoastlineNoiseBackend == "" {
		c.Custom.CoastlineNoiseBackend = NoiseBackendHash
	}
}

// Resolution returns the field resolution implied by this config.
func (c Config) Resolution() int {
	return c.Preset.Resolution(c.Custom.SimulationDetailLevel)
}

// StepBudget returns the total step count implied by this config.
func (c Config) StepBudget() int {
	return c.Preset.StepBudget(c.Custom.SimulationDetailLevel)
}
