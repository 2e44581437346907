package geometry

import (
	"fmt"
	"math"
)

// BoundingBox is an axis-aligned rectangle. The constructors and every
// setter keep min <= max on both axes, swapping the values if needed.
type BoundingBox struct {
	minX, maxX float64
	minY, maxY float64
}

// NewBoundingBox creates a box from its edges in any order.
func NewBoundingBox(minX, maxX, minY, maxY float64) BoundingBox {
	var bb BoundingBox
	bb.Set(minX, maxX, minY, maxY)
	return bb
}

// NewBoundingBoxSize creates a box anchored at the origin.
func NewBoundingBoxSize(width, height float64) BoundingBox {
	return NewBoundingBox(0, width, 0, height)
}

// Set replaces all four edges.
func (bb *BoundingBox) Set(minX, maxX, minY, maxY float64) {
	bb.minX, bb.maxX = minMax(minX, maxX)
	bb.minY, bb.maxY = minMax(minY, maxY)
}

func (bb BoundingBox) MinX() float64 { return bb.minX }
func (bb BoundingBox) MaxX() float64 { return bb.maxX }
func (bb BoundingBox) MinY() float64 { return bb.minY }
func (bb BoundingBox) MaxY() float64 { return bb.maxY }

func (bb *BoundingBox) SetMinX(v float64) { bb.minX, bb.maxX = minMax(v, bb.maxX) }
func (bb *BoundingBox) SetMaxX(v float64) { bb.minX, bb.maxX = minMax(bb.minX, v) }
func (bb *BoundingBox) SetMinY(v float64) { bb.minY, bb.maxY = minMax(v, bb.maxY) }
func (bb *BoundingBox) SetMaxY(v float64) { bb.minY, bb.maxY = minMax(bb.minY, v) }

// Width returns the width of the bounding box
func (bb BoundingBox) Width() float64 {
	return bb.maxX - bb.minX
}

// Height returns the height of the bounding box
func (bb BoundingBox) Height() float64 {
	return bb.maxY - bb.minY
}

// CenterX returns the horizontal center.
func (bb BoundingBox) CenterX() float64 {
	return bb.minX + bb.Width()/2
}

// CenterY returns the vertical center.
func (bb BoundingBox) CenterY() float64 {
	return bb.minY + bb.Height()/2
}

// Center returns the center point of the bounding box
func (bb BoundingBox) Center() Point {
	return Point{X: bb.CenterX(), Y: bb.CenterY()}
}

// Intersects checks if two bounding boxes overlap. Boxes that share only an
// edge count as intersecting.
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	return !(other.minX > bb.maxX ||
		other.maxX < bb.minX ||
		other.minY > bb.maxY ||
		other.maxY < bb.minY)
}

// CompleteWithin reports whether other lies completely inside bb (edges inclusive).
func (bb BoundingBox) CompleteWithin(other BoundingBox) bool {
	return bb.minX <= other.minX &&
		bb.maxX >= other.maxX &&
		bb.minY <= other.minY &&
		bb.maxY >= other.maxY
}

// InBoundingBox reports whether bb lies completely inside other. Note the
// direction is the reverse of CompleteWithin.
func (bb BoundingBox) InBoundingBox(other BoundingBox) bool {
	return bb.minX >= other.minX &&
		bb.maxX <= other.maxX &&
		bb.minY >= other.minY &&
		bb.maxY <= other.maxY
}

// InShape checks if (x, y) is within the box grown by maxDistance on every side.
func (bb BoundingBox) InShape(x, y, maxDistance float64) bool {
	return x >= bb.minX-maxDistance && x <= bb.maxX+maxDistance &&
		y >= bb.minY-maxDistance && y <= bb.maxY+maxDistance
}

// Contains checks if a point is within the bounding box
func (bb BoundingBox) Contains(p Point) bool {
	return bb.InShape(p.X, p.Y, 0)
}

// BoundingBox returns the box itself so BoundingBox satisfies Shape.
func (bb BoundingBox) BoundingBox() BoundingBox {
	return bb
}

func (bb *BoundingBox) ShiftX(deltaX float64) {
	bb.minX += deltaX
	bb.maxX += deltaX
}

func (bb *BoundingBox) ShiftY(deltaY float64) {
	bb.minY += deltaY
	bb.maxY += deltaY
}

// Shift moves the box by (deltaX, deltaY).
func (bb *BoundingBox) Shift(deltaX, deltaY float64) {
	bb.ShiftX(deltaX)
	bb.ShiftY(deltaY)
}

// Union returns the smallest box containing both boxes.
func (bb BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		minX: math.Min(bb.minX, other.minX),
		maxX: math.Max(bb.maxX, other.maxX),
		minY: math.Min(bb.minY, other.minY),
		maxY: math.Max(bb.maxY, other.maxY),
	}
}

// Expand grows the box to include p.
func (bb *BoundingBox) Expand(p Point) {
	bb.minX = math.Min(bb.minX, p.X)
	bb.maxX = math.Max(bb.maxX, p.X)
	bb.minY = math.Min(bb.minY, p.Y)
	bb.maxY = math.Max(bb.maxY, p.Y)
}

func (bb BoundingBox) String() string {
	return fmt.Sprintf("x = %g .. %g / y = %g .. %g", bb.minX, bb.maxX, bb.minY, bb.maxY)
}
