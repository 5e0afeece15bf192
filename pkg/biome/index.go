package biome

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxBuckets bounds the number of cells an Index allocates.
const MaxBuckets = 1 << 20

// Index is a coarse bucket grid mapping world tiles to the zones whose disc
// can reach them. Candidate lists keep catalog order so tie-breaks match a
// full scan.
type Index struct {
	min, max   mgl64.Vec2
	cell       float64
	cols, rows int
	buckets    [][]int
}

// NewIndex buckets the catalog over the rectangle [lo, hi] using square
// cells of the given size. A non-positive cell size picks one that yields
// about 32 buckets along the longer axis; a size that would exceed
// MaxBuckets is coarsened. A non-finite or inverted rectangle yields a nil
// Index, whose Candidates always scan every zone.
func NewIndex(c *Catalog, lo, hi mgl64.Vec2, cell float64) *Index {
	span := hi.Sub(lo)
	if !finite(span.X()) || !finite(span.Y()) || span.X() < 0 || span.Y() < 0 {
		return nil
	}
	if !(cell > 0) || math.IsInf(cell, 0) {
		cell = math.Max(span.X(), span.Y()) / 32
		if !(cell > 0) {
			cell = 1
		}
	}
	// Coarsen until the grid fits.
	for (math.Ceil(span.X()/cell)+1)*(math.Ceil(span.Y()/cell)+1) > MaxBuckets {
		cell *= 2
	}
	cols := int(math.Ceil(span.X()/cell)) + 1
	rows := int(math.Ceil(span.Y()/cell)) + 1
	idx := &Index{
		min:     lo,
		max:     hi,
		cell:    cell,
		cols:    cols,
		rows:    rows,
		buckets: make([][]int, cols*rows),
	}

	for by := 0; by < rows; by++ {
		for bx := 0; bx < cols; bx++ {
			cellLo := mgl64.Vec2{lo.X() + float64(bx)*cell, lo.Y() + float64(by)*cell}
			cellHi := cellLo.Add(mgl64.Vec2{cell, cell})
			ids := []int{}
			for i, z := range c.zones {
				if rectDistance(z.Center, cellLo, cellHi) < z.Radius {
					ids = append(ids, i)
				}
			}
			idx.buckets[by*cols+bx] = ids
		}
	}
	return idx
}

// Candidates returns the zone ids that may influence p, in catalog order.
// Outside the indexed rectangle it returns nil, which callers treat as
// "scan every zone".
func (x *Index) Candidates(p mgl64.Vec2) []int {
	if x == nil {
		return nil
	}
	if p.X() < x.min.X() || p.Y() < x.min.Y() || p.X() > x.max.X() || p.Y() > x.max.Y() {
		return nil
	}
	bx := int((p.X() - x.min.X()) / x.cell)
	by := int((p.Y() - x.min.Y()) / x.cell)
	bx = min(bx, x.cols-1)
	by = min(by, x.rows-1)
	return x.buckets[by*x.cols+bx]
}

// rectDistance is the distance from p to the closest point of [lo, hi].
func rectDistance(p, lo, hi mgl64.Vec2) float64 {
	dx := math.Max(math.Max(lo.X()-p.X(), 0), p.X()-hi.X())
	dy := math.Max(math.Max(lo.Y()-p.Y(), 0), p.Y()-hi.Y())
	return math.Hypot(dx, dy)
}
