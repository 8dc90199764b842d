package field

import (
	"math"

	"github.com/voxelcastle/geosim/noisefield"
)

// baseNoise is the 4-octave value noise used by every NumericField's
// sample_at. It is deterministic in (x,z) only, independent of any
// per-field seed, so it is a single package-level source rather than a
// per-field one.
var baseNoise noisefield.Source = noisefield.NewHashSource(0)

// NumericField is the ContinuousField<T> specialization for a floating
// scalar T (elevation, stress, flow, precipitation, ...). It answers
// sample_at with bicubic Hermite interpolation plus a small organic noise
// perturbation, and provides the distance-weighted propagate primitive.
type NumericField struct {
	geometry
	data []float64
}

// NewNumericField allocates a W x H field with uniform spacing s, zeroed.
func NewNumericField(width, height int, spacing float64) *NumericField {
	return &NumericField{
		geometry: geometry{width: width, height: height, spacing: spacing},
		data:     make([]float64, width*height),
	}
}

func (f *NumericField) index(ix, iz int) int {
	ix = wrapIndex(ix, f.width)
	iz = wrapIndex(iz, f.height)
	return iz*f.width + ix
}

// Set writes a cell, indices taken modulo (W,H).
func (f *NumericField) Set(ix, iz int, v float64) { f.data[f.index(ix, iz)] = v }

// Get reads a cell, indices taken modulo (W,H).
func (f *NumericField) Get(ix, iz int) float64 { return f.data[f.index(ix, iz)] }

// Add accumulates a value into a cell.
func (f *NumericField) Add(ix, iz int, v float64) { f.data[f.index(ix, iz)] += v }

// Fill sets every cell to v.
func (f *NumericField) Fill(v float64) {
	for i := range f.data {
		f.data[i] = v
	}
}

// Clear zeroes every cell.
func (f *NumericField) Clear() { f.Fill(0) }

// SampleAt wraps (x,z) into the world rectangle, forms the 4x4 bicubic
// Hermite neighborhood, and adds a small organic perturbation of
// 0.1*baseValue*n(x,z).
func (f *NumericField) SampleAt(x, z float64) float64 {
	wx := wrapCoord(x, f.worldWidth())
	wz := wrapCoord(z, f.worldHeight())

	ix0, fx := cellOf(wx, f.spacing, f.width)
	iz0, fz := cellOf(wz, f.spacing, f.height)

	// 4x4 neighborhood rows at iz0-1..iz0+2, each interpolated across x,
	// then the four row results interpolated across z.
	var rows [4]float64
	for r := -1; r <= 2; r++ {
		iz := iz0 + r
		p0 := f.Get(ix0-1, iz)
		p1 := f.Get(ix0, iz)
		p2 := f.Get(ix0+1, iz)
		p3 := f.Get(ix0+2, iz)
		rows[r+1] = cubicHermite(p0, p1, p2, p3, fx)
	}
	base := cubicHermite(rows[0], rows[1], rows[2], rows[3], fz)

	n := baseNoise.Noise2D(wx, wz)
	return base + 0.1*base*n
}

// cubicHermite evaluates the Catmull-Rom cubic Hermite basis through four
// equally-spaced control points at parameter t in [0,1) between p1 and p2.
func cubicHermite(p0, p1, p2, p3, t float64) float64 {
	a := -0.5*p0 + 1.5*p1 - 1.5*p2 + 0.5*p3
	b := p0 - 2.5*p1 + 2*p2 - 0.5*p3
	c := -0.5*p0 + 0.5*p2
	d := p1
	return ((a*t+b)*t+c)*t + d
}

// Propagate distributes v into neighboring cells weighted by toroidal
// distance and a caller-supplied positional resistance.
// For every cell within Chebyshev grid-radius ceil(R/s) of (x,z), the true
// toroidal distance d is computed; if d <= R, v*exp(-d/(0.3R))/f(wx,wz) is
// added to that cell.
func (f *NumericField) Propagate(v, x, z, r float64, resistance func(wx, wz float64) float64) {
	if r <= 0 {
		return
	}
	gridRadius := int(math.Ceil(r / f.spacing))
	if gridRadius > f.width {
		gridRadius = f.width
	}
	if gridRadius > f.height {
		gridRadius = f.height
	}

	icx, _ := cellOf(wrapCoord(x, f.worldWidth()), f.spacing, f.width)
	icz, _ := cellOf(wrapCoord(z, f.worldHeight()), f.spacing, f.height)

	for dz := -gridRadius; dz <= gridRadius; dz++ {
		iz := icz + dz
		wiz := wrapIndex(iz, f.height)
		cellZ := float64(wiz) * f.spacing
		for dx := -gridRadius; dx <= gridRadius; dx++ {
			ix := icx + dx
			wix := wrapIndex(ix, f.width)
			cellX := float64(wix) * f.spacing

			d := f.ToroidalDistance(x, z, cellX, cellZ)
			if d > r {
				continue
			}
			res := resistance(cellX, cellZ)
			if res == 0 {
				continue
			}
			weight := expDecay(d, r) / res
			f.Add(wix, wiz, v*weight)
		}
	}
}

func expDecay(d, r float64) float64 {
	return math.Exp(-d / (0.3 * r))
}

// Snapshot returns a flat row-major copy of the field's data, for building
// an immutable Snapshot grid.
func (f *NumericField) Snapshot() (width, height int, spacing float64, data []float64) {
	out := make([]float64, len(f.data))
	copy(out, f.data)
	return f.width, f.height, f.spacing, out
}
