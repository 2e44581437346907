package design

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/libfile"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/logicmodel"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

const cells = `
library "test" is
  template NAND2 is
    size 10 20;
    port A : in at 0 5;
    port B : in at 0 15;
    port Y : out at 10 10;
  end NAND2;
  template INV is
    size 10 10;
    port A : in at 0 5;
    port Y : out at 10 5;
  end INV;
end;
`

const twoGates = `{
  "name": "chain",
  "gates": [
    {"name": "U1", "template": "NAND2", "x": 0, "y": 0},
    {"name": "U2", "template": "INV", "x": 50, "y": 0, "orientation": "flipped-left-right"}
  ],
  "markers": [{"name": "OUT", "x": 80, "y": 5, "module_port": true}],
  "connections": [["U1.Y", "U2.A"], ["U2.Y", "OUT"]]
}`

func loadModel(t *testing.T, src string) (*logicmodel.LogicModel, error) {
	t.Helper()
	ids := logicmodel.NewSequentialIDs()
	lib, err := libfile.Load("cells", strings.NewReader(cells), ids)
	require.NoError(t, err)

	d, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	return d.Build(lib, logicmodel.WithIDAllocator(ids))
}

func TestBuild(t *testing.T) {
	m, err := loadModel(t, twoGates)
	require.NoError(t, err)

	require.Len(t, m.Gates(), 2)
	assert.Len(t, m.Ports(), 5)
	require.Len(t, m.Nets(), 2)
	for _, n := range m.Nets() {
		assert.Equal(t, 2, n.Size())
	}

	out, err := MarkerByName(m, "OUT")
	require.NoError(t, err)
	assert.True(t, out.IsModulePort())
	require.True(t, out.IsConnected())

	var u2 *logicmodel.Gate
	for _, g := range m.Gates() {
		if g.Name() == "U2" {
			u2 = g
		}
	}
	require.NotNil(t, u2)
	assert.Equal(t, logicmodel.OrientationFlippedLeftRight, u2.Orientation())
	for _, p := range u2.Ports() {
		if p.TemplatePort().Name() == "Y" {
			assert.Equal(t, 50.0, p.X(), "flipped output sits on the left edge")
			assert.True(t, out.Net().Contains(p.ID()))
		}
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown template", `{"gates": [{"name": "U1", "template": "XOR", "x": 0, "y": 0}]}`, modelerr.ErrLookupFailure},
		{"missing gate name", `{"gates": [{"template": "INV", "x": 0, "y": 0}]}`, modelerr.ErrMissingAttribute},
		{"duplicate gate", `{"gates": [{"name": "U1", "template": "INV"}, {"name": "U1", "template": "INV"}]}`, modelerr.ErrDuplicateIdentity},
		{"bad orientation", `{"gates": [{"name": "U1", "template": "INV", "orientation": "sideways"}]}`, modelerr.ErrPreconditionViolation},
		{"unknown port", `{"gates": [{"name": "U1", "template": "INV"}], "connections": [["U1.Q", "U1.A"]]}`, modelerr.ErrLookupFailure},
		{"self connection", `{"gates": [{"name": "U1", "template": "INV"}], "connections": [["U1.A", "U1.A"]]}`, modelerr.ErrPreconditionViolation},
		{"single endpoint", `{"gates": [{"name": "U1", "template": "INV"}], "connections": [["U1.A"]]}`, modelerr.ErrPreconditionViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadModel(t, tt.src)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadRejectsUnknownFields(t *testing.T) {
	_, err := Read(strings.NewReader(`{"gates": [], "wires": []}`))
	assert.Error(t, err)
}
