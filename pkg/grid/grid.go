// Package grid provides snapping grids for interactive placement.
//
// A grid covers one axis. A RegularGrid has equidistant lines between a min
// and max coordinate; an IrregularGrid holds an explicit list of offsets.
package grid

// Orientation selects the axis a grid applies to.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// Grid is the query interface used by placement code.
type Grid interface {
	Orientation() Orientation

	// SnapToGrid returns the grid coordinate closest to pos.
	SnapToGrid(pos int) int

	// Offsets returns the grid lines in ascending order.
	Offsets() []int

	Min() int
	Max() int
	Clear()
}
