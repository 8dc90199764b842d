package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelcastle/geosim/config"
	"github.com/voxelcastle/geosim/core"
	"github.com/voxelcastle/geosim/diagnostics"
	"github.com/voxelcastle/geosim/simulation"
)

func testConfig() config.Config {
	cfg := config.Config{Preset: config.PresetCustom, Custom: config.DefaultCustomSettings()}
	cfg.Custom.SimulationDetailLevel = 200 // smallest custom grid (256x256) and a 200-step budget
	cfg.Normalize()
	return cfg
}

func TestInitializeTransitionsToInitializedState(t *testing.T) {
	sim := simulation.New(500, testConfig(), diagnostics.NoopSink{})
	assert.Equal(t, simulation.StateUninitialized, sim.State())
	sim.Initialize(1)
	assert.Equal(t, simulation.StateInitialized, sim.State())
	require.NotEmpty(t, sim.Plates())
}

func TestDoubleInitializeIsNoOp(t *testing.T) {
	sim := simulation.New(500, testConfig(), diagnostics.NoopSink{})
	sim.Initialize(1)
	platesBefore := len(sim.Plates())
	sim.Initialize(2) // different seed, should be ignored
	assert.Equal(t, platesBefore, len(sim.Plates()))
}

func TestStepBeforeInitializeIsNoOp(t *testing.T) {
	sim := simulation.New(500, testConfig(), diagnostics.NoopSink{})
	assert.False(t, sim.Step())
	assert.Equal(t, simulation.StateUninitialized, sim.State())
}

func TestStepRunsUntilComplete(t *testing.T) {
	sim := simulation.New(200, testConfig(), diagnostics.NoopSink{})
	sim.Initialize(7)

	steps := 0
	for sim.Step() {
		steps++
		if steps > 1000 {
			t.Fatal("simulator never completed")
		}
	}
	assert.Equal(t, simulation.StateComplete, sim.State())
	assert.True(t, sim.IsComplete())
}

func TestPauseStopsStepFromAdvancing(t *testing.T) {
	sim := simulation.New(200, testConfig(), diagnostics.NoopSink{})
	sim.Initialize(3)
	sim.Step()
	sim.Pause()
	assert.True(t, sim.IsPaused())
	assert.False(t, sim.Step(), "step() is a no-op while paused")
}

func TestSampleAtReturnsPlausibleValues(t *testing.T) {
	sim := simulation.New(200, testConfig(), diagnostics.NoopSink{})
	sim.Initialize(9)
	sample := sim.SampleAt(12345, 6789)

	assert.GreaterOrEqual(t, sample.Elevation, -core.ElevationMax)
	assert.LessOrEqual(t, sample.Elevation, core.ElevationMax)
	assert.GreaterOrEqual(t, sample.RockHardness, 0.0)
}

func TestFinalSnapshotIsEmittedOnCompletion(t *testing.T) {
	sim := simulation.New(200, testConfig(), diagnostics.NoopSink{})
	var lastSnapshot *core.Snapshot
	sim.SetSnapshotCallback(func(s *core.Snapshot) { lastSnapshot = s })
	sim.Initialize(11)

	for sim.Step() {
	}
	require.NotNil(t, lastSnapshot)
	assert.Equal(t, "Complete", lastSnapshot.PhaseDescription)
	assert.Equal(t, 1.0, lastSnapshot.CompletionFraction)
	assert.True(t, lastSnapshot.HasWaterData())
}

func TestDeterministicSeedProducesIdenticalFirstStep(t *testing.T) {
	sim1 := simulation.New(200, testConfig(), diagnostics.NoopSink{})
	sim1.Initialize(42)
	sim1.Step()
	sample1 := sim1.SampleAt(5000, 5000)

	sim2 := simulation.New(200, testConfig(), diagnostics.NoopSink{})
	sim2.Initialize(42)
	sim2.Step()
	sample2 := sim2.SampleAt(5000, 5000)

	assert.Equal(t, sample1, sample2)
}
