package particle_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelcastle/geosim/particle"
)

func TestInitializePlacesRequestedContinentCount(t *testing.T) {
	e := particle.NewEngine(100000)
	e.Initialize(1, 4, 0.7)
	assert.Len(t, e.Continents, 4)
	assert.NotEmpty(t, e.Particles)
}

func TestInitializeEmitsBothContinentalAndOceanicParticles(t *testing.T) {
	e := particle.NewEngine(100000)
	e.Initialize(2, 3, 0.7)

	sawContinental, sawOceanic := false, false
	for _, p := range e.Particles {
		if p.ContinentID >= 0 {
			sawContinental = true
		} else {
			sawOceanic = true
		}
	}
	assert.True(t, sawContinental)
	assert.True(t, sawOceanic)
}

func TestInitializeIsDeterministic(t *testing.T) {
	e1 := particle.NewEngine(50000)
	e1.Initialize(42, 3, 0.7)

	e2 := particle.NewEngine(50000)
	e2.Initialize(42, 3, 0.7)

	require.Equal(t, len(e1.Particles), len(e2.Particles))
	for i := range e1.Particles {
		assert.Equal(t, e1.Particles[i], e2.Particles[i])
	}
}

func TestStepKeepsParticlesWithinDomainBounds(t *testing.T) {
	e := particle.NewEngine(20000)
	e.Initialize(3, 2, 0.6)

	for i := 0; i < 20; i++ {
		e.Step(1000)
	}

	for _, p := range e.Particles {
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.LessOrEqual(t, p.X, 20000.0)
		assert.GreaterOrEqual(t, p.Z, 0.0)
		assert.LessOrEqual(t, p.Z, 20000.0)
	}
}

func TestStepDoesNotExplodeParticleCount(t *testing.T) {
	e := particle.NewEngine(20000)
	e.Initialize(4, 2, 0.6)
	before := len(e.Particles)

	e.Step(500)

	assert.LessOrEqual(t, len(e.Particles), before)
}

func TestSampleAtNearKnownParticleReturnsPlausibleElevation(t *testing.T) {
	e := particle.NewEngine(50000)
	e.Initialize(5, 3, 0.7)

	c := e.Continents[0]
	sample := e.SampleAt(c.CenterX, c.CenterZ)

	assert.Greater(t, sample.Elevation, -2048.0)
	assert.Less(t, sample.Elevation, 2048.0)
}

func TestSampleAtFarFromAnyParticleReturnsDefaultOceanicSample(t *testing.T) {
	e := particle.NewEngine(1000)
	e.Initialize(6, 1, 0.7)
	e.Particles = nil // simulate an empty world

	sample := e.SampleAt(500, 500)
	assert.Equal(t, -100.0, sample.Elevation)
}

func TestPlacedContinentsRespectMinimumSeparationWhenRoomAllows(t *testing.T) {
	e := particle.NewEngine(200000) // generous domain: retries should succeed
	e.Initialize(7, 3, 0.7)

	for i := 0; i < len(e.Continents); i++ {
		for j := i + 1; j < len(e.Continents); j++ {
			a, b := e.Continents[i], e.Continents[j]
			d := math.Hypot(a.CenterX-b.CenterX, a.CenterZ-b.CenterZ)
			assert.GreaterOrEqual(t, d, 1.2*0.12*200000.0) // 1.2 x max continent radius
		}
	}
}
