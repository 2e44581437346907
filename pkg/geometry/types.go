// Package geometry provides the shape primitives of the logic model.
//
// Every shape keeps its bounding box up to date on each mutation. Spatial
// indexes that cache a bounding box are not notified: callers refresh them
// after any shift or resize.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Shape is the contract shared by all geometric entities.
type Shape interface {
	// InShape reports whether (x, y) lies within the shape, widened by maxDistance.
	InShape(x, y, maxDistance float64) bool

	// InBoundingBox reports whether the shape lies completely inside bb.
	InBoundingBox(bb BoundingBox) bool

	// BoundingBox returns the box for the current geometry.
	BoundingBox() BoundingBox

	ShiftX(deltaX float64)
	ShiftY(deltaY float64)
}

// Point is a 2D position in image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint creates a new Point.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	return r2.Norm(r2.Sub(p.vec(), other.vec()))
}

// Shift returns the point moved by (dx, dy).
func (p Point) Shift(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

func (p Point) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func minMax(a, b float64) (float64, float64) {
	return math.Min(a, b), math.Max(a, b)
}
