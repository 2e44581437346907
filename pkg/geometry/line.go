package geometry

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/deepcopy"
	"gonum.org/v1/gonum/spatial/r2"
)

// Line is a stroked segment. The diameter is the full stroke width.
type Line struct {
	fromX, fromY float64
	toX, toY     float64
	diameter     uint

	bbox BoundingBox
}

// NewLine creates a line from (fromX, fromY) to (toX, toY).
func NewLine(fromX, fromY, toX, toY float64, diameter uint) *Line {
	l := &Line{fromX: fromX, fromY: fromY, toX: toX, toY: toY, diameter: diameter}
	l.calculateBoundingBox()
	return l
}

func (l *Line) FromX() float64 { return l.fromX }
func (l *Line) FromY() float64 { return l.fromY }
func (l *Line) ToX() float64   { return l.toX }
func (l *Line) ToY() float64   { return l.toY }
func (l *Line) Diameter() uint { return l.diameter }

// From returns the start point.
func (l *Line) From() Point { return Point{X: l.fromX, Y: l.fromY} }

// To returns the end point.
func (l *Line) To() Point { return Point{X: l.toX, Y: l.toY} }

func (l *Line) SetFromX(v float64) { l.fromX = v; l.calculateBoundingBox() }
func (l *Line) SetFromY(v float64) { l.fromY = v; l.calculateBoundingBox() }
func (l *Line) SetToX(v float64)   { l.toX = v; l.calculateBoundingBox() }
func (l *Line) SetToY(v float64)   { l.toY = v; l.calculateBoundingBox() }

// SetFrom moves the start point.
func (l *Line) SetFrom(p Point) {
	l.fromX, l.fromY = p.X, p.Y
	l.calculateBoundingBox()
}

// SetTo moves the end point.
func (l *Line) SetTo(p Point) {
	l.toX, l.toY = p.X, p.Y
	l.calculateBoundingBox()
}

// SetDiameter changes the stroke width.
func (l *Line) SetDiameter(d uint) {
	l.diameter = d
	l.calculateBoundingBox()
}

func (l *Line) IsVertical() bool   { return l.toX-l.fromX == 0 }
func (l *Line) IsHorizontal() bool { return l.toY-l.fromY == 0 }

// Length returns the length of the segment.
func (l *Line) Length() float64 {
	return l.From().Distance(l.To())
}

// DistanceToLine returns the distance from p to the nearest point of the
// segment. Points beyond either end are measured to that endpoint.
func (l *Line) DistanceToLine(p Point) float64 {
	a := l.From().vec()
	b := l.To().vec()
	c := p.vec()

	if a == b {
		return r2.Norm(r2.Sub(c, a))
	}

	ab := r2.Sub(b, a)
	ac := r2.Sub(c, a)

	dot := r2.Dot(ab, ac)
	if dot < 0 {
		return r2.Norm(ac)
	}

	abSquared := r2.Norm2(ab)
	if dot > abSquared {
		return r2.Norm(r2.Sub(c, b))
	}

	// |AH|² = (AB·AC)² / |AB|², HC = sqrt(|AC|² - |AH|²)
	ahSquared := dot * dot / abSquared
	return math.Sqrt(math.Max(r2.Norm2(ac)-ahSquared, 0))
}

// InShape uses the padded bounding box for axis-aligned lines and the
// point-to-segment distance otherwise.
func (l *Line) InShape(x, y, maxDistance float64) bool {
	if l.IsVertical() || l.IsHorizontal() {
		return l.bbox.InShape(x, y, maxDistance)
	}
	return l.DistanceToLine(Point{X: x, Y: y}) <= float64(l.diameter)/2+maxDistance
}

func (l *Line) InBoundingBox(bb BoundingBox) bool {
	return l.bbox.InBoundingBox(bb)
}

func (l *Line) BoundingBox() BoundingBox {
	return l.bbox
}

func (l *Line) ShiftX(deltaX float64) {
	l.fromX += deltaX
	l.toX += deltaX
	l.calculateBoundingBox()
}

func (l *Line) ShiftY(deltaY float64) {
	l.fromY += deltaY
	l.toY += deltaY
	l.calculateBoundingBox()
}

func (l *Line) calculateBoundingBox() {
	radius := float64(l.diameter) / 2

	switch {
	case l.IsVertical():
		l.bbox = NewBoundingBox(l.fromX-radius, l.toX+radius, l.fromY, l.toY)
	case l.IsHorizontal():
		l.bbox = NewBoundingBox(l.fromX, l.toX, l.fromY-radius, l.toY+radius)
	default:
		l.bbox = NewBoundingBox(l.fromX, l.toX, l.fromY, l.toY)
	}
}

// CloneShallow implements deepcopy.Copyable. A line has no references, so
// the shallow clone is already complete.
func (l *Line) CloneShallow() deepcopy.Copyable {
	clone := *l
	return &clone
}

func (l *Line) CloneDeepInto(dst deepcopy.Copyable, _ *deepcopy.Table) error {
	clone, ok := dst.(*Line)
	if !ok {
		return deepcopy.Mismatch("*geometry.Line", dst)
	}
	*clone = *l
	return nil
}
