package geometry

// Circle is a disc described by its center and diameter.
type Circle struct {
	x, y     float64
	diameter uint

	bbox BoundingBox
}

// NewCircle creates a circle centered at (x, y).
func NewCircle(x, y float64, diameter uint) Circle {
	c := Circle{x: x, y: y, diameter: diameter}
	c.calculateBoundingBox()
	return c
}

func (c *Circle) X() float64     { return c.x }
func (c *Circle) Y() float64     { return c.y }
func (c *Circle) Diameter() uint { return c.diameter }

// Center returns the center of the circle.
func (c *Circle) Center() Point { return Point{X: c.x, Y: c.y} }

func (c *Circle) SetX(x float64) {
	c.x = x
	c.calculateBoundingBox()
}

func (c *Circle) SetY(y float64) {
	c.y = y
	c.calculateBoundingBox()
}

func (c *Circle) SetDiameter(d uint) {
	c.diameter = d
	c.calculateBoundingBox()
}

func (c *Circle) InShape(x, y, maxDistance float64) bool {
	return c.Center().Distance(Point{X: x, Y: y}) <= float64(c.diameter)/2+maxDistance
}

func (c *Circle) InBoundingBox(bb BoundingBox) bool {
	return c.bbox.InBoundingBox(bb)
}

func (c *Circle) BoundingBox() BoundingBox {
	return c.bbox
}

func (c *Circle) ShiftX(deltaX float64) {
	c.x += deltaX
	c.calculateBoundingBox()
}

func (c *Circle) ShiftY(deltaY float64) {
	c.y += deltaY
	c.calculateBoundingBox()
}

func (c *Circle) calculateBoundingBox() {
	r := float64(c.diameter) / 2
	c.bbox = NewBoundingBox(c.x-r, c.x+r, c.y-r, c.y+r)
}

// Rectangle is a filled axis-aligned area. Unlike BoundingBox it is meant to
// be embedded in entities that are themselves placed shapes.
type Rectangle struct {
	bbox BoundingBox
}

// NewRectangle creates a rectangle from its edges in any order.
func NewRectangle(minX, maxX, minY, maxY float64) Rectangle {
	return Rectangle{bbox: NewBoundingBox(minX, maxX, minY, maxY)}
}

func (r *Rectangle) MinX() float64    { return r.bbox.minX }
func (r *Rectangle) MaxX() float64    { return r.bbox.maxX }
func (r *Rectangle) MinY() float64    { return r.bbox.minY }
func (r *Rectangle) MaxY() float64    { return r.bbox.maxY }
func (r *Rectangle) Width() float64   { return r.bbox.Width() }
func (r *Rectangle) Height() float64  { return r.bbox.Height() }
func (r *Rectangle) CenterX() float64 { return r.bbox.CenterX() }
func (r *Rectangle) CenterY() float64 { return r.bbox.CenterY() }

func (r *Rectangle) SetMinX(v float64) { r.bbox.SetMinX(v) }
func (r *Rectangle) SetMaxX(v float64) { r.bbox.SetMaxX(v) }
func (r *Rectangle) SetMinY(v float64) { r.bbox.SetMinY(v) }
func (r *Rectangle) SetMaxY(v float64) { r.bbox.SetMaxY(v) }

// Resize keeps (minX, minY) and sets the width and height.
func (r *Rectangle) Resize(width, height float64) {
	r.bbox.Set(r.bbox.minX, r.bbox.minX+width, r.bbox.minY, r.bbox.minY+height)
}

func (r *Rectangle) InShape(x, y, maxDistance float64) bool {
	return r.bbox.InShape(x, y, maxDistance)
}

func (r *Rectangle) InBoundingBox(bb BoundingBox) bool {
	return r.bbox.InBoundingBox(bb)
}

func (r *Rectangle) BoundingBox() BoundingBox {
	return r.bbox
}

func (r *Rectangle) ShiftX(deltaX float64) { r.bbox.ShiftX(deltaX) }
func (r *Rectangle) ShiftY(deltaY float64) { r.bbox.ShiftY(deltaY) }

var (
	_ Shape = (*BoundingBox)(nil)
	_ Shape = (*Line)(nil)
	_ Shape = (*Circle)(nil)
	_ Shape = (*Rectangle)(nil)
)
