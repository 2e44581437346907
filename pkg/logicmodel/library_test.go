package logicmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

func newTemplate(id ObjectID, name string, w, h float64, ports ...*GateTemplatePort) *GateTemplate {
	t := NewGateTemplate(w, h)
	t.SetID(id)
	t.SetName(name)
	for _, p := range ports {
		if err := t.AddPort(p); err != nil {
			panic(err)
		}
	}
	return t
}

func newTemplatePort(id ObjectID, name string, x, y float64, pt PortType) *GateTemplatePort {
	p := NewGateTemplatePort(x, y, pt)
	p.SetID(id)
	p.SetName(name)
	return p
}

func TestLibraryAddTemplate(t *testing.T) {
	lib := NewGateLibrary()

	require.NoError(t, lib.AddTemplate(newTemplate(1, "nand2", 10, 20)))

	err := lib.AddTemplate(newTemplate(1, "nor2", 10, 20))
	assert.ErrorIs(t, err, modelerr.ErrDuplicateIdentity)

	err = lib.AddTemplate(newTemplate(NoID, "inv", 5, 20))
	assert.ErrorIs(t, err, modelerr.ErrInvalidReference)

	err = lib.AddTemplate(nil)
	assert.ErrorIs(t, err, modelerr.ErrInvalidReference)

	assert.Equal(t, 1, lib.Len())
}

func TestLibraryLookup(t *testing.T) {
	lib := NewGateLibrary()
	a := newTemplate(1, "nand2", 10, 20,
		newTemplatePort(11, "A", 2, 5, PortTypeIn),
		newTemplatePort(12, "Y", 8, 10, PortTypeOut))
	b := newTemplate(2, "inv", 5, 20,
		newTemplatePort(21, "A", 1, 5, PortTypeIn))
	require.NoError(t, lib.AddTemplate(b))
	require.NoError(t, lib.AddTemplate(a))

	got, err := lib.Template(1)
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = lib.Template(99)
	assert.ErrorIs(t, err, modelerr.ErrLookupFailure)

	assert.True(t, lib.IsNameInUse("inv"))
	assert.False(t, lib.IsNameInUse("xor2"))

	tp, err := lib.TemplatePort(21)
	require.NoError(t, err)
	assert.Equal(t, "A", tp.Name())
	assert.True(t, lib.ExistsTemplatePort(12))
	assert.False(t, lib.ExistsTemplatePort(13))

	templates := lib.Templates()
	require.Len(t, templates, 2)
	assert.Equal(t, ObjectID(1), templates[0].ID())
	assert.Equal(t, ObjectID(2), templates[1].ID())

	require.NoError(t, lib.RemoveTemplate(2))
	assert.False(t, lib.ExistsTemplate(2))
	assert.ErrorIs(t, lib.RemoveTemplate(2), modelerr.ErrLookupFailure)
}

func TestTemplatePorts(t *testing.T) {
	tmpl := newTemplate(1, "nand2", 10, 20,
		newTemplatePort(13, "Y", 8, 10, PortTypeOut),
		newTemplatePort(11, "A", 2, 5, PortTypeIn))

	ports := tmpl.Ports()
	require.Len(t, ports, 2)
	assert.Equal(t, ObjectID(11), ports[0].ID())
	assert.Equal(t, ObjectID(13), ports[1].ID())

	assert.ErrorIs(t, tmpl.AddPort(newTemplatePort(11, "B", 2, 15, PortTypeIn)), modelerr.ErrDuplicateIdentity)
	assert.ErrorIs(t, tmpl.AddPort(newTemplatePort(NoID, "B", 2, 15, PortTypeIn)), modelerr.ErrInvalidReference)

	p, ok := tmpl.PortByName("Y")
	require.True(t, ok)
	assert.True(t, p.IsOutport())

	require.NoError(t, tmpl.RemovePort(11))
	assert.False(t, tmpl.HasPort(11))
	_, err := tmpl.Port(11)
	assert.ErrorIs(t, err, modelerr.ErrLookupFailure)
}

func TestParsePortType(t *testing.T) {
	for _, pt := range []PortType{PortTypeUndefined, PortTypeIn, PortTypeOut, PortTypeInOut} {
		got, err := ParsePortType(pt.String())
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
	_, err := ParsePortType("tristate")
	assert.ErrorIs(t, err, modelerr.ErrPreconditionViolation)
}
