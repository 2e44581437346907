package grid

import (
	"fmt"
	"math"
	"slices"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

// RegularGrid is a grid with equidistant lines. A distance of zero means no
// snapping is configured.
type RegularGrid struct {
	orientation Orientation
	min, max    int
	distance    float64
	offsets     []int
}

// NewRegularGrid creates an empty grid for the given axis.
func NewRegularGrid(o Orientation) *RegularGrid {
	return &RegularGrid{orientation: o}
}

func (g *RegularGrid) Orientation() Orientation { return g.orientation }
func (g *RegularGrid) Min() int                 { return g.min }
func (g *RegularGrid) Max() int                 { return g.max }
func (g *RegularGrid) Distance() float64        { return g.distance }

// SetRange sets the covered range; the bounds may be given in any order.
func (g *RegularGrid) SetRange(from, to int) {
	if from > to {
		from, to = to, from
	}
	g.min, g.max = from, to
	g.precalcSteps()
}

// SetDistance sets the line spacing. Negative spacing is rejected and
// leaves the grid unchanged.
func (g *RegularGrid) SetDistance(distance float64) error {
	if distance < 0 || math.IsNaN(distance) {
		return fmt.Errorf("grid: distance %g: %w", distance, modelerr.ErrPreconditionViolation)
	}
	g.distance = distance
	g.precalcSteps()
	return nil
}

// Clear resets range and spacing.
func (g *RegularGrid) Clear() {
	g.min, g.max = 0, 0
	g.distance = 0
	g.offsets = nil
}

// Offsets returns a copy of the precomputed grid lines.
func (g *RegularGrid) Offsets() []int {
	return slices.Clone(g.offsets)
}

func (g *RegularGrid) precalcSteps() {
	g.offsets = g.offsets[:0]
	if g.distance <= 0 {
		return
	}
	for i := float64(g.min); i < float64(g.max); i += g.distance {
		g.offsets = append(g.offsets, int(math.Round(i)))
	}
	// Accumulated float error can reorder neighbours after rounding.
	slices.Sort(g.offsets)
}

// SnapToGrid clamps pos to [min, max] and otherwise returns the nearer of the
// two surrounding grid lines. On an exact tie the lower line wins.
func (g *RegularGrid) SnapToGrid(pos int) int {
	switch {
	case pos <= g.min:
		return g.min
	case pos >= g.max:
		return g.max
	case g.distance == 0:
		return pos
	}

	p := float64(pos)
	lo := math.Floor(p / g.distance)
	hi := lo + 1

	loCoord := lo*g.distance - float64(g.min)
	hiCoord := hi*g.distance - float64(g.min)

	if math.Abs(hiCoord-p) < math.Abs(p-loCoord) {
		return int(hiCoord)
	}
	return int(loCoord)
}
