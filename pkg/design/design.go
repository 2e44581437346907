// Package design reads placement files: JSON descriptions of gates,
// markers and their connections on top of a gate library.
//
// Example:
//
//	{
//	  "name": "counter",
//	  "gates": [{"name": "U1", "template": "NAND2", "x": 0, "y": 0, "orientation": "normal"}],
//	  "markers": [{"name": "VDD", "x": 100, "y": 5, "module_port": true}],
//	  "connections": [["U1.Y", "VDD"]]
//	}
//
// Connection endpoints are either "<gate>.<port>" or a marker name.
package design

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/logicmodel"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

type Design struct {
	Name        string         `json:"name,omitempty"`
	Gates       []PlacedGate   `json:"gates"`
	Markers     []PlacedMarker `json:"markers,omitempty"`
	Connections [][]string     `json:"connections,omitempty"`
}

type PlacedGate struct {
	Name        string  `json:"name"`
	Template    string  `json:"template"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Orientation string  `json:"orientation,omitempty"`
}

type PlacedMarker struct {
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Diameter   uint    `json:"diameter,omitempty"`
	ModulePort bool    `json:"module_port,omitempty"`
}

// Read decodes a design from r. Unknown fields are rejected.
func Read(r io.Reader) (*Design, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var d Design
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("design: decode: %w", err)
	}
	return &d, nil
}

// ReadFile decodes the design stored at path.
func ReadFile(path string) (*Design, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("design: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Build places the design in a new logic model backed by lib.
func (d *Design) Build(lib *logicmodel.GateLibrary, opts ...logicmodel.Option) (*logicmodel.LogicModel, error) {
	if lib == nil {
		return nil, fmt.Errorf("design: nil library: %w", modelerr.ErrInvalidReference)
	}
	m := logicmodel.New(append(opts, logicmodel.WithLibrary(lib))...)

	gates := make(map[string]*logicmodel.Gate, len(d.Gates))
	for i, gs := range d.Gates {
		if gs.Name == "" {
			return nil, fmt.Errorf("design: gate %d: name: %w", i, modelerr.ErrMissingAttribute)
		}
		if _, dup := gates[gs.Name]; dup {
			return nil, fmt.Errorf("design: gate %q defined twice: %w", gs.Name, modelerr.ErrDuplicateIdentity)
		}
		g, err := placeGate(lib, gs)
		if err != nil {
			return nil, err
		}
		if err := m.AddGate(g); err != nil {
			return nil, fmt.Errorf("design: gate %q: %w", gs.Name, err)
		}
		gates[gs.Name] = g
	}

	markers := make(map[string]*logicmodel.EMarker, len(d.Markers))
	for i, ms := range d.Markers {
		if ms.Name == "" {
			return nil, fmt.Errorf("design: marker %d: name: %w", i, modelerr.ErrMissingAttribute)
		}
		if _, dup := markers[ms.Name]; dup {
			return nil, fmt.Errorf("design: marker %q defined twice: %w", ms.Name, modelerr.ErrDuplicateIdentity)
		}
		if _, clash := gates[ms.Name]; clash {
			return nil, fmt.Errorf("design: marker %q shadows a gate: %w", ms.Name, modelerr.ErrDuplicateIdentity)
		}
		diameter := ms.Diameter
		if diameter == 0 {
			diameter = logicmodel.DefaultMarkerDiameter
		}
		mk := logicmodel.NewEMarker(ms.X, ms.Y, diameter)
		mk.SetName(ms.Name)
		mk.SetModulePort(ms.ModulePort)
		if err := m.AddMarker(mk); err != nil {
			return nil, fmt.Errorf("design: marker %q: %w", ms.Name, err)
		}
		markers[ms.Name] = mk
	}

	for i, conn := range d.Connections {
		if len(conn) < 2 {
			return nil, fmt.Errorf("design: connection %d needs two endpoints: %w", i, modelerr.ErrPreconditionViolation)
		}
		first, err := endpoint(conn[0], gates, markers)
		if err != nil {
			return nil, err
		}
		for _, ref := range conn[1:] {
			other, err := endpoint(ref, gates, markers)
			if err != nil {
				return nil, err
			}
			if _, err := m.Connect(first, other); err != nil {
				return nil, fmt.Errorf("design: connect %s %s: %w", conn[0], ref, err)
			}
		}
	}
	return m, nil
}

func placeGate(lib *logicmodel.GateLibrary, gs PlacedGate) (*logicmodel.Gate, error) {
	if gs.Template == "" {
		return nil, fmt.Errorf("design: gate %q: template: %w", gs.Name, modelerr.ErrMissingAttribute)
	}
	t, err := lib.TemplateByName(gs.Template)
	if err != nil {
		return nil, fmt.Errorf("design: gate %q: %w", gs.Name, err)
	}
	o := logicmodel.OrientationNormal
	if gs.Orientation != "" {
		if o, err = logicmodel.ParseOrientation(gs.Orientation); err != nil {
			return nil, fmt.Errorf("design: gate %q: %w", gs.Name, err)
		}
	}
	g, err := logicmodel.NewGateAt(gs.X, gs.Y, t, o)
	if err != nil {
		return nil, fmt.Errorf("design: gate %q: %w", gs.Name, err)
	}
	g.SetName(gs.Name)
	return g, nil
}

func endpoint(ref string, gates map[string]*logicmodel.Gate, markers map[string]*logicmodel.EMarker) (logicmodel.Connectable, error) {
	if mk, ok := markers[ref]; ok {
		return mk, nil
	}
	gateName, portName, ok := strings.Cut(ref, ".")
	if !ok {
		return nil, fmt.Errorf("design: endpoint %q: %w", ref, modelerr.ErrLookupFailure)
	}
	g, ok := gates[gateName]
	if !ok {
		return nil, fmt.Errorf("design: endpoint %q: no gate %q: %w", ref, gateName, modelerr.ErrLookupFailure)
	}
	for _, p := range g.Ports() {
		if p.TemplatePort().Name() == portName {
			return p, nil
		}
	}
	return nil, fmt.Errorf("design: endpoint %q: no port %q: %w", ref, portName, modelerr.ErrLookupFailure)
}

// MarkerByName returns the named marker of m.
func MarkerByName(m *logicmodel.LogicModel, name string) (*logicmodel.EMarker, error) {
	for _, mk := range m.Markers() {
		if mk.Name() == name {
			return mk, nil
		}
	}
	return nil, fmt.Errorf("design: marker %q: %w", name, modelerr.ErrLookupFailure)
}
