package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericFieldToroidalWrap(t *testing.T) {
	f := NewNumericField(32, 32, 10.0)
	for i := 0; i < 32*32; i++ {
		f.data[i] = float64(i%7) - 3
	}

	x, z := 123.4, 77.1
	want := f.SampleAt(x, z)
	worldW := f.worldWidth()
	worldH := f.worldHeight()

	got := f.SampleAt(x+2*worldW, z-3*worldH)
	assert.InDelta(t, want, got, 1e-9, "toroidal wrap must be exact for integer world-extent offsets")
}

func TestNumericFieldGridCoincidenceBoundedByNoise(t *testing.T) {
	f := NewNumericField(16, 16, 5.0)
	for iz := 0; iz < 16; iz++ {
		for ix := 0; ix < 16; ix++ {
			f.Set(ix, iz, float64((ix+iz*3)%11)+1)
		}
	}

	for iz := 0; iz < 16; iz++ {
		for ix := 0; ix < 16; ix++ {
			cell := f.Get(ix, iz)
			sampled := f.SampleAt(float64(ix)*5.0, float64(iz)*5.0)
			assert.LessOrEqual(t, math.Abs(sampled-cell), 0.1*math.Abs(cell)+1e-9)
		}
	}
}

func TestNumericFieldContinuity(t *testing.T) {
	f := NewNumericField(24, 24, 2.0)
	for i := range f.data {
		f.data[i] = float64(i%5) - 2
	}

	eps := 0.0001 * f.Spacing()
	for _, pt := range [][2]float64{{10, 10}, {0, 0}, {33.3, 7.7}} {
		a := f.SampleAt(pt[0], pt[1])
		b := f.SampleAt(pt[0]+eps, pt[1])
		assert.Less(t, math.Abs(b-a), 0.5)
	}
}

func TestNumericFieldPropagateMonotonicityAndLocality(t *testing.T) {
	f := NewNumericField(100, 100, 1.0)
	unitResistance := func(wx, wz float64) float64 { return 1.0 }

	f.Propagate(100, 50, 50, 10, unitResistance)

	center := f.Get(50, 50)
	near := f.Get(60, 50) // distance 10, at the boundary
	require.Greater(t, center, 0.0)
	assert.Greater(t, center, near)

	// locality: anything further than R must be untouched
	far := f.Get(0, 0)
	assert.Equal(t, 0.0, far)
}

func TestNumericFieldPropagateRatioDecaysExponentially(t *testing.T) {
	f := NewNumericField(100, 100, 1.0)
	unitResistance := func(wx, wz float64) float64 { return 1.0 }
	f.Propagate(100, 50, 50, 10, unitResistance)

	center := f.Get(50, 50)
	edge := f.Get(60, 50)
	require.NotZero(t, edge)
	ratio := center / edge
	want := math.Exp(10.0 / 3.0)
	assert.InDelta(t, want, ratio, want*0.05)
}

func TestCategoricalFieldNearestNoBlend(t *testing.T) {
	f := NewCategoricalField[int](8, 8, 4.0)
	f.Set(2, 2, 7)
	f.Set(3, 2, 9)

	got := f.SampleAt(2.1*4.0, 2.0*4.0)
	assert.Equal(t, 7, got)
}

func TestToroidalDistanceWraps(t *testing.T) {
	g := geometry{width: 10, height: 10, spacing: 1.0}
	d := g.ToroidalDistance(0.5, 0.5, 9.5, 0.5)
	assert.InDelta(t, 1.0, d, 1e-9)
}
