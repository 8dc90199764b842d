package field

// CategoricalField is the ContinuousField<T> specialization for a small
// enum T (rock type). sample_at returns the nearest-cell value with no
// blending; the categorical branch never applies the bicubic basis or the
// noise term.
type CategoricalField[T comparable] struct {
	geometry
	data []T
}

// NewCategoricalField allocates a W x H field with uniform spacing s,
// every cell set to the zero value of T.
func NewCategoricalField[T comparable](width, height int, spacing float64) *CategoricalField[T] {
	return &CategoricalField[T]{
		geometry: geometry{width: width, height: height, spacing: spacing},
		data:     make([]T, width*height),
	}
}

func (f *CategoricalField[T]) index(ix, iz int) int {
	ix = wrapIndex(ix, f.width)
	iz = wrapIndex(iz, f.height)
	return iz*f.width + ix
}

// Set writes a cell, indices taken modulo (W,H).
func (f *CategoricalField[T]) Set(ix, iz int, v T) { f.data[f.index(ix, iz)] = v }

// Get reads a cell, indices taken modulo (W,H).
func (f *CategoricalField[T]) Get(ix, iz int) T { return f.data[f.index(ix, iz)] }

// Fill sets every cell to v.
func (f *CategoricalField[T]) Fill(v T) {
	for i := range f.data {
		f.data[i] = v
	}
}

// Clear resets every cell to the zero value of T.
func (f *CategoricalField[T]) Clear() {
	var zero T
	f.Fill(zero)
}

// SampleAt returns the nearest-cell value for a real-valued coordinate; no
// interpolation is performed for categorical fields.
func (f *CategoricalField[T]) SampleAt(x, z float64) T {
	wx := wrapCoord(x, f.worldWidth())
	wz := wrapCoord(z, f.worldHeight())
	ix, _ := cellOf(wx, f.spacing, f.width)
	iz, _ := cellOf(wz, f.spacing, f.height)
	return f.Get(ix, iz)
}

// Snapshot returns a flat row-major copy of the field's data, for building
// an immutable Snapshot grid.
func (f *CategoricalField[T]) Snapshot() (width, height int, spacing float64, data []T) {
	out := make([]T, len(f.data))
	copy(out, f.data)
	return f.width, f.height, f.spacing, out
}
