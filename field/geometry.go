package field

import "math"

// geometry holds the shape shared by both field specializations: a
// rectangular grid of width x height cells with uniform spacing s,
// wrapped into a torus of extent (width*s, height*s).
type geometry struct {
	width, height int
	spacing       float64
}

func (g geometry) worldWidth() float64  { return float64(g.width) * g.spacing }
func (g geometry) worldHeight() float64 { return float64(g.height) * g.spacing }

// wrapIndex reduces an integer cell index modulo n, always returning a
// value in [0, n).
func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// wrapCoord reduces a real-valued world coordinate into [0, worldExtent).
func wrapCoord(x, worldExtent float64) float64 {
	x = math.Mod(x, worldExtent)
	if x < 0 {
		x += worldExtent
	}
	return x
}

// ToroidalDistance computes the true wrapped distance between two world
// points:
//
//	d²(p,q) = min(|px−qx|, W·s−|px−qx|)² + min(|pz−qz|, H·s−|pz−qz|)²
func (g geometry) ToroidalDistance(px, pz, qx, qz float64) float64 {
	w := g.worldWidth()
	h := g.worldHeight()

	dx := math.Abs(px - qx)
	if alt := w - dx; alt < dx {
		dx = alt
	}
	dz := math.Abs(pz - qz)
	if alt := h - dz; alt < dz {
		dz = alt
	}
	return math.Sqrt(dx*dx + dz*dz)
}

// Width returns the number of cells along X.
func (g geometry) Width() int { return g.width }

// Height returns the number of cells along Z.
func (g geometry) Height() int { return g.height }

// Spacing returns the uniform sample spacing in meters.
func (g geometry) Spacing() float64 { return g.spacing }

// cellOf returns the wrapped integer cell and fractional in-cell offset
// [0,1) for a real world coordinate along one axis.
func cellOf(x, spacing float64, n int) (cell int, frac float64) {
	g := x / spacing
	ic := math.Floor(g)
	frac = g - ic
	cell = wrapIndex(int(ic), n)
	return
}
