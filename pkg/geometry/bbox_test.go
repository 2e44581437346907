package geometry

import "testing"

func TestNewBoundingBoxSwapsEdges(t *testing.T) {
	bb := NewBoundingBox(10, 2, 8, -4)

	if bb.MinX() != 2 || bb.MaxX() != 10 {
		t.Errorf("x edges = %g..%g, want 2..10", bb.MinX(), bb.MaxX())
	}
	if bb.MinY() != -4 || bb.MaxY() != 8 {
		t.Errorf("y edges = %g..%g, want -4..8", bb.MinY(), bb.MaxY())
	}
}

func TestBoundingBoxSettersKeepOrder(t *testing.T) {
	bb := NewBoundingBox(0, 10, 0, 10)

	bb.SetMinX(20)
	if bb.MinX() != 10 || bb.MaxX() != 20 {
		t.Errorf("after SetMinX(20): %s", bb)
	}

	bb.SetMaxY(-5)
	if bb.MinY() != -5 || bb.MaxY() != 0 {
		t.Errorf("after SetMaxY(-5): %s", bb)
	}
}

func TestBoundingBoxDimensions(t *testing.T) {
	bb := NewBoundingBox(2, 12, 4, 8)

	if bb.Width() != 10 {
		t.Errorf("Width = %g, want 10", bb.Width())
	}
	if bb.Height() != 4 {
		t.Errorf("Height = %g, want 4", bb.Height())
	}
	if c := bb.Center(); c.X != 7 || c.Y != 6 {
		t.Errorf("Center = %+v, want (7, 6)", c)
	}
}

var boxes = []BoundingBox{
	NewBoundingBox(0, 10, 0, 10),
	NewBoundingBox(5, 15, 5, 15),
	NewBoundingBox(10, 20, 0, 10),
	NewBoundingBox(11, 20, 11, 20),
	NewBoundingBox(2, 3, 2, 3),
	NewBoundingBox(-5, 30, -5, 30),
	NewBoundingBox(0, 0, 0, 0),
}

func TestIntersectsIsSymmetric(t *testing.T) {
	for i, a := range boxes {
		for j, b := range boxes {
			if a.Intersects(b) != b.Intersects(a) {
				t.Errorf("boxes %d and %d: Intersects not symmetric", i, j)
			}
		}
	}
}

func TestIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b BoundingBox
		want bool
	}{
		{"overlap", boxes[0], boxes[1], true},
		{"shared edge", boxes[0], boxes[2], true},
		{"disjoint", boxes[0], boxes[3], false},
		{"contained", boxes[0], boxes[4], true},
	}

	for _, tt := range tests {
		if got := tt.a.Intersects(tt.b); got != tt.want {
			t.Errorf("%s: Intersects = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCompleteWithinIsReflexiveAndTransitive(t *testing.T) {
	for i, a := range boxes {
		if !a.CompleteWithin(a) {
			t.Errorf("box %d not CompleteWithin itself", i)
		}
	}

	for i, a := range boxes {
		for j, b := range boxes {
			for k, c := range boxes {
				if a.CompleteWithin(b) && b.CompleteWithin(c) && !a.CompleteWithin(c) {
					t.Errorf("transitivity broken for %d, %d, %d", i, j, k)
				}
			}
		}
	}
}

func TestCompleteWithinAndInBoundingBoxAreMirrored(t *testing.T) {
	outer := boxes[5]
	inner := boxes[4]

	if !outer.CompleteWithin(inner) {
		t.Errorf("outer should contain inner")
	}
	if outer.InBoundingBox(inner) {
		t.Errorf("outer should not be inside inner")
	}
	if !inner.InBoundingBox(outer) {
		t.Errorf("inner should be inside outer")
	}
	if inner.CompleteWithin(outer) {
		t.Errorf("inner should not contain outer")
	}
}

func TestBoundingBoxInShapeTolerance(t *testing.T) {
	bb := NewBoundingBox(0, 10, 0, 10)

	if !bb.InShape(10, 10, 0) {
		t.Errorf("corner should be inside")
	}
	if bb.InShape(11, 5, 0) {
		t.Errorf("(11, 5) should be outside without tolerance")
	}
	if !bb.InShape(11, 5, 1) {
		t.Errorf("(11, 5) should be inside with tolerance 1")
	}
}

func TestBoundingBoxShift(t *testing.T) {
	bb := NewBoundingBox(0, 10, 0, 5)
	bb.Shift(3, -2)

	want := NewBoundingBox(3, 13, -2, 3)
	if bb != want {
		t.Errorf("shifted box = %s, want %s", bb, want)
	}
}

func TestUnionAndExpand(t *testing.T) {
	u := boxes[0].Union(boxes[3])
	if u != NewBoundingBox(0, 20, 0, 20) {
		t.Errorf("Union = %s", u)
	}

	bb := NewBoundingBox(0, 1, 0, 1)
	bb.Expand(Point{X: -3, Y: 4})
	if bb != NewBoundingBox(-3, 1, 0, 4) {
		t.Errorf("Expand = %s", bb)
	}
}
