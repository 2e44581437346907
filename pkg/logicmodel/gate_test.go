package logicmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

func TestOrientationTransform(t *testing.T) {
	tmpl := newTemplate(1, "nand2", 10, 20)

	tests := []struct {
		orientation Orientation
		relX, relY  float64
		wantX       float64
		wantY       float64
	}{
		{OrientationNormal, 2, 5, 2, 5},
		{OrientationFlippedUpDown, 2, 5, 2, 15},
		{OrientationFlippedLeftRight, 2, 5, 8, 5},
		{OrientationFlippedBoth, 2, 5, 8, 15},
		{OrientationFlippedBoth, 0, 0, 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.orientation.String(), func(t *testing.T) {
			g, err := NewGateAt(100, 200, tmpl, tt.orientation)
			require.NoError(t, err)

			x, err := g.RelativeXPosition(tt.relX)
			require.NoError(t, err)
			y, err := g.RelativeYPosition(tt.relY)
			require.NoError(t, err)

			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestOrientationInvolution(t *testing.T) {
	tmpl := newTemplate(1, "nand2", 12, 30)

	for _, o := range []Orientation{OrientationNormal, OrientationFlippedUpDown, OrientationFlippedLeftRight, OrientationFlippedBoth} {
		g, err := NewGateAt(0, 0, tmpl, o)
		require.NoError(t, err)

		for _, rel := range []float64{0, 1.5, 6, 11, 12} {
			x, err := g.RelativeXPosition(rel)
			require.NoError(t, err)
			x, err = g.RelativeXPosition(x)
			require.NoError(t, err)
			assert.Equal(t, rel, x, "orientation %s x=%g", o, rel)

			y, err := g.RelativeYPosition(rel)
			require.NoError(t, err)
			y, err = g.RelativeYPosition(y)
			require.NoError(t, err)
			assert.Equal(t, rel, y, "orientation %s y=%g", o, rel)
		}
	}

	g, err := NewGateAt(0, 0, tmpl, OrientationNormal)
	require.NoError(t, err)
	x, err := g.RelativeXPosition(7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, x)
}

func TestOrientationTransformPreconditions(t *testing.T) {
	tmpl := newTemplate(1, "nand2", 10, 20)

	g, err := NewGateAt(0, 0, tmpl, OrientationUndefined)
	require.NoError(t, err)
	_, err = g.RelativeXPosition(1)
	assert.ErrorIs(t, err, modelerr.ErrPreconditionViolation)
	_, err = g.RelativeYPosition(1)
	assert.ErrorIs(t, err, modelerr.ErrPreconditionViolation)

	bare := NewGate(0, 10, 0, 20, OrientationNormal)
	_, err = bare.RelativeXPosition(1)
	assert.ErrorIs(t, err, modelerr.ErrPreconditionViolation)
}

func TestSetGateTemplate(t *testing.T) {
	tmpl := newTemplate(7, "nand2", 10, 20)
	g := NewGate(50, 55, 60, 61, OrientationNormal)

	require.NoError(t, g.SetGateTemplate(tmpl))

	assert.Equal(t, 50.0, g.MinX())
	assert.Equal(t, 60.0, g.MinY())
	assert.Equal(t, 10.0, g.Width())
	assert.Equal(t, 20.0, g.Height())
	assert.Equal(t, ObjectID(7), g.TemplateTypeID())
	assert.Equal(t, 1, tmpl.ReferenceCount())

	require.NoError(t, g.SetGateTemplate(tmpl))
	assert.Equal(t, 1, tmpl.ReferenceCount())

	other := newTemplate(8, "inv", 5, 20)
	require.NoError(t, g.SetGateTemplate(other))
	assert.Equal(t, 0, tmpl.ReferenceCount())
	assert.Equal(t, 1, other.ReferenceCount())

	assert.ErrorIs(t, g.SetGateTemplate(nil), modelerr.ErrInvalidReference)
	assert.Same(t, other, g.Template())
}

func TestGateAddPort(t *testing.T) {
	tp := newTemplatePort(11, "A", 2, 5, PortTypeIn)
	tmpl := newTemplate(1, "nand2", 10, 20, tp)

	g, err := NewGateAt(100, 200, tmpl, OrientationFlippedLeftRight)
	require.NoError(t, err)
	g.SetID(2)

	noID := NewGatePort(g, tp, DefaultPortDiameter)
	assert.ErrorIs(t, g.AddPort(noID), modelerr.ErrInvalidReference)

	noTemplate := NewGatePort(g, nil, DefaultPortDiameter)
	noTemplate.SetID(3)
	assert.ErrorIs(t, g.AddPort(noTemplate), modelerr.ErrInvalidReference)

	assert.ErrorIs(t, g.AddPort(nil), modelerr.ErrInvalidReference)

	p := NewGatePort(g, tp, DefaultPortDiameter)
	p.SetID(3)
	require.NoError(t, g.AddPort(p))
	assert.Equal(t, 108.0, p.X())
	assert.Equal(t, 205.0, p.Y())
	assert.True(t, g.HasTemplatePort(tp))

	dup := NewGatePort(g, tp, DefaultPortDiameter)
	dup.SetID(3)
	assert.ErrorIs(t, g.AddPort(dup), modelerr.ErrDuplicateIdentity)

	g.SetOrientation(OrientationUndefined)
	late := NewGatePort(g, tp, DefaultPortDiameter)
	late.SetID(4)
	assert.ErrorIs(t, g.AddPort(late), modelerr.ErrPreconditionViolation)
	assert.Equal(t, 1, g.PortCount())
}

func TestGateRemovePortAndTemplate(t *testing.T) {
	tpA := newTemplatePort(11, "A", 2, 5, PortTypeIn)
	tpY := newTemplatePort(12, "Y", 8, 10, PortTypeOut)
	tmpl := newTemplate(1, "nand2", 10, 20, tpA, tpY)

	g, err := NewGateAt(0, 0, tmpl, OrientationNormal)
	require.NoError(t, err)

	a := NewGatePort(g, tpA, DefaultPortDiameter)
	a.SetID(3)
	y := NewGatePort(g, tpY, DefaultPortDiameter)
	y.SetID(4)
	require.NoError(t, g.AddPort(a))
	require.NoError(t, g.AddPort(y))

	n := NewNet()
	n.SetID(5)
	require.NoError(t, n.Add(y))

	require.NoError(t, g.RemovePort(a))
	assert.Nil(t, a.Gate())
	assert.ErrorIs(t, g.RemovePort(a), modelerr.ErrLookupFailure)

	require.NoError(t, g.RemoveTemplate())
	assert.False(t, g.HasTemplate())
	assert.Equal(t, NoID, g.TemplateTypeID())
	assert.Empty(t, g.Ports())
	assert.Nil(t, y.Net())
	assert.Zero(t, n.Size())
	assert.Equal(t, 0, tmpl.ReferenceCount())
}

func TestGateRemovePortWithBrokenNet(t *testing.T) {
	tpA := newTemplatePort(11, "A", 2, 5, PortTypeIn)
	tpY := newTemplatePort(12, "Y", 8, 10, PortTypeOut)
	tmpl := newTemplate(1, "nand2", 10, 20, tpA, tpY)

	g, err := NewGateAt(0, 0, tmpl, OrientationNormal)
	require.NoError(t, err)
	a := NewGatePort(g, tpA, DefaultPortDiameter)
	a.SetID(3)
	y := NewGatePort(g, tpY, DefaultPortDiameter)
	y.SetID(4)
	require.NoError(t, g.AddPort(a))
	require.NoError(t, g.AddPort(y))

	// Both ports point at a net that does not list them.
	n := NewNet()
	n.SetID(5)
	a.setNet(n)
	y.setNet(n)

	assert.ErrorIs(t, g.RemovePort(a), modelerr.ErrStructuralInvariant)
	assert.Nil(t, a.Net())
	assert.Nil(t, a.Gate())
	assert.Equal(t, 1, g.PortCount())

	assert.ErrorIs(t, g.RemoveTemplate(), modelerr.ErrStructuralInvariant)
	assert.Nil(t, y.Net())
	assert.Empty(t, g.Ports())
	assert.False(t, g.HasTemplate())
}

func TestParseOrientation(t *testing.T) {
	o, err := ParseOrientation("Flipped-Both")
	require.NoError(t, err)
	assert.Equal(t, OrientationFlippedBoth, o)

	_, err = ParseOrientation("rotated")
	assert.ErrorIs(t, err, modelerr.ErrPreconditionViolation)
}
