package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigUsesBalancedPresetWithFeaturesOn(t *testing.T) {
	c := Default()
	assert.Equal(t, PresetBalanced, c.Preset)
	assert.True(t, c.Custom.EnableChemicalWeathering)
	assert.True(t, c.Custom.EnableJointSystems)
	assert.True(t, c.Custom.EnableCaveSystems)
	assert.False(t, c.Custom.EnableGlacialFeatures)
	assert.Equal(t, 1.0, c.Custom.TimeScaleMultiplier)
}

func TestPresetResolutionAndSteps(t *testing.T) {
	cases := []struct {
		preset     Preset
		resolution int
		steps      int
	}{
		{PresetPerformance, 256, 100},
		{PresetBalanced, 512, 200},
		{PresetQuality, 1024, 500},
		{PresetUltra, 2048, 1000},
	}
	for _, c := range cases {
		assert.Equal(t, c.resolution, c.preset.Resolution(0))
		assert.Equal(t, c.steps, c.preset.StepBudget(0))
	}
}

func TestCustomPresetDerivesFromDetailLevel(t *testing.T) {
	assert.Equal(t, 256, PresetCustom.Resolution(100))
	assert.Equal(t, 2048, PresetCustom.Resolution(100000))
	assert.Equal(t, 400, PresetCustom.Resolution(1600))
	assert.Equal(t, 1600, PresetCustom.StepBudget(1600))
}

func TestNormalizeClampsOutOfRangeValues(t *testing.T) {
	c := Config{Preset: "bogus", Custom: CustomSettings{
		TimeScaleMultiplier:   50,
		SimulationDetailLevel: 999999,
		NumContinents:         50,
		MaxContinentSize:      1,
		MinOceanCoverage:      99,
	}}
	c.Normalize()

	assert.Equal(t, PresetBalanced, c.Preset)
	assert.Equal(t, 5.0, c.Custom.TimeScaleMultiplier)
	assert.Equal(t, 10000, c.Custom.SimulationDetailLevel)
	assert.Equal(t, 7, c.Custom.NumContinents)
	assert.Equal(t, 6.0, c.Custom.MaxContinentSize)
	assert.Equal(t, 80.0, c.Custom.MinOceanCoverage)
}

func TestLoadFillsDefaultsForOmittedFields(t *testing.T) {
	r := strings.NewReader(`{"preset":"quality"}`)
	c, err := Load(r)
	require.NoError(t, err)
	assert.Equal(t, PresetQuality, c.Preset)
	assert.True(t, c.Custom.EnableCaveSystems, "omitted custom fields keep their defaults")
}
