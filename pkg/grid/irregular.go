package grid

import "slices"

// IrregularGrid snaps to an explicit set of grid lines, e.g. lines traced
// along the rows of a standard cell layout.
type IrregularGrid struct {
	orientation Orientation
	offsets     []int
}

// NewIrregularGrid creates an empty grid for the given axis.
func NewIrregularGrid(o Orientation) *IrregularGrid {
	return &IrregularGrid{orientation: o}
}

func (g *IrregularGrid) Orientation() Orientation { return g.orientation }

// Add inserts a grid line; duplicates are ignored.
func (g *IrregularGrid) Add(offset int) {
	i, found := slices.BinarySearch(g.offsets, offset)
	if found {
		return
	}
	g.offsets = slices.Insert(g.offsets, i, offset)
}

// Remove deletes a grid line if present.
func (g *IrregularGrid) Remove(offset int) {
	if i, found := slices.BinarySearch(g.offsets, offset); found {
		g.offsets = slices.Delete(g.offsets, i, i+1)
	}
}

func (g *IrregularGrid) Clear() { g.offsets = nil }

func (g *IrregularGrid) Offsets() []int { return slices.Clone(g.offsets) }

// Min returns the lowest grid line, or 0 for an empty grid.
func (g *IrregularGrid) Min() int {
	if len(g.offsets) == 0 {
		return 0
	}
	return g.offsets[0]
}

// Max returns the highest grid line, or 0 for an empty grid.
func (g *IrregularGrid) Max() int {
	if len(g.offsets) == 0 {
		return 0
	}
	return g.offsets[len(g.offsets)-1]
}

// SnapToGrid returns the nearest grid line. Ties go to the lower line and an
// empty grid returns pos unchanged.
func (g *IrregularGrid) SnapToGrid(pos int) int {
	if len(g.offsets) == 0 {
		return pos
	}
	i, found := slices.BinarySearch(g.offsets, pos)
	switch {
	case found:
		return pos
	case i == 0:
		return g.offsets[0]
	case i == len(g.offsets):
		return g.offsets[len(g.offsets)-1]
	}
	lo, hi := g.offsets[i-1], g.offsets[i]
	if hi-pos < pos-lo {
		return hi
	}
	return lo
}

var (
	_ Grid = (*RegularGrid)(nil)
	_ Grid = (*IrregularGrid)(nil)
)
