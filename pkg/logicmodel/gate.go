package logicmodel

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/deepcopy"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

// Orientation is the mirroring of a placed gate relative to its template.
type Orientation int

const (
	OrientationUndefined Orientation = iota
	OrientationNormal
	OrientationFlippedUpDown
	OrientationFlippedLeftRight
	OrientationFlippedBoth
)

var orientationNames = map[Orientation]string{
	OrientationUndefined:        "undefined",
	OrientationNormal:           "normal",
	OrientationFlippedUpDown:    "flipped-up-down",
	OrientationFlippedLeftRight: "flipped-left-right",
	OrientationFlippedBoth:      "flipped-both",
}

func (o Orientation) String() string {
	if s, ok := orientationNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// ParseOrientation parses the names produced by Orientation.String.
func ParseOrientation(s string) (Orientation, error) {
	for o, name := range orientationNames {
		if strings.EqualFold(name, s) {
			return o, nil
		}
	}
	return OrientationUndefined, fmt.Errorf("unknown orientation %q: %w", s, modelerr.ErrPreconditionViolation)
}

// Gate is a placed instance of a gate template.
//
// A gate keeps two references to its template: the shared *GateTemplate and
// the template's ID. The ID survives RemoveTemplate and lets a loader bind
// the template later (see LogicModel.ResolveTemplates).
type Gate struct {
	Object
	geometry.Rectangle

	template       *GateTemplate
	templateTypeID ObjectID
	orientation    Orientation
	ports          []*GatePort
}

// NewGate creates a gate covering the given box.
func NewGate(minX, maxX, minY, maxY float64, o Orientation) *Gate {
	return &Gate{
		Rectangle:   geometry.NewRectangle(minX, maxX, minY, maxY),
		orientation: o,
	}
}

// NewGateAt creates a gate with its top-left corner at (x, y) and the size
// of t. The template is assigned to the gate.
func NewGateAt(x, y float64, t *GateTemplate, o Orientation) (*Gate, error) {
	if t == nil {
		return nil, fmt.Errorf("gate: nil template: %w", modelerr.ErrInvalidReference)
	}
	g := NewGate(x, x+t.Width(), y, y+t.Height(), o)
	if err := g.SetGateTemplate(t); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Gate) Orientation() Orientation      { return g.orientation }
func (g *Gate) SetOrientation(o Orientation)  { g.orientation = o }
func (g *Gate) HasOrientation() bool          { return g.orientation != OrientationUndefined }
func (g *Gate) Template() *GateTemplate       { return g.template }
func (g *Gate) HasTemplate() bool             { return g.template != nil }
func (g *Gate) TemplateTypeID() ObjectID      { return g.templateTypeID }
func (g *Gate) SetTemplateTypeID(id ObjectID) { g.templateTypeID = id }

// SetGateTemplate binds the gate to t. The gate is resized to the template's
// size keeping its top-left corner and records the template's ID. Ports are
// not touched; call LogicModel.UpdatePorts afterwards.
func (g *Gate) SetGateTemplate(t *GateTemplate) error {
	if t == nil {
		return fmt.Errorf("gate %d: nil template: %w", g.ID(), modelerr.ErrInvalidReference)
	}
	if g.template != t {
		if g.template != nil {
			g.template.release()
		}
		t.retain()
		g.template = t
	}
	if g.Width() != t.Width() || g.Height() != t.Height() {
		g.Resize(t.Width(), t.Height())
	}
	g.templateTypeID = t.ID()
	return nil
}

// RemoveTemplate unbinds the template and destroys all ports. Ports are
// disconnected from their nets first. The gate is always cleared; an error
// reports ports whose net did not list them.
func (g *Gate) RemoveTemplate() error {
	if g.template != nil {
		g.template.release()
		g.template = nil
	}
	g.templateTypeID = NoID
	var errs []error
	for _, p := range g.ports {
		if err := detach(p); err != nil {
			errs = append(errs, fmt.Errorf("gate %d: port %d: %w", g.ID(), p.ID(), err))
		}
		p.gate = nil
	}
	g.ports = nil
	return errors.Join(errs...)
}

// AddPort attaches p to the gate. The port needs a valid ID and a template
// port, and the gate needs an orientation to place it.
func (g *Gate) AddPort(p *GatePort) error {
	if p == nil {
		return fmt.Errorf("gate %d: add nil port: %w", g.ID(), modelerr.ErrInvalidReference)
	}
	if !p.HasValidID() {
		return fmt.Errorf("gate %d: port has no object id: %w", g.ID(), modelerr.ErrInvalidReference)
	}
	if p.templatePort == nil {
		return fmt.Errorf("gate %d: port %d has no template port: %w", g.ID(), p.ID(), modelerr.ErrInvalidReference)
	}
	if p.gate != nil && p.gate != g {
		return fmt.Errorf("gate %d: port %d belongs to gate %d: %w", g.ID(), p.ID(), p.gate.ID(), modelerr.ErrInvalidReference)
	}
	if !g.HasOrientation() {
		return fmt.Errorf("gate %d: orientation undefined: %w", g.ID(), modelerr.ErrPreconditionViolation)
	}
	i, found := slices.BinarySearchFunc(g.ports, p.ID(), gatePortIDCmp)
	if found {
		return fmt.Errorf("gate %d: port %d exists: %w", g.ID(), p.ID(), modelerr.ErrDuplicateIdentity)
	}
	prev := p.gate
	p.gate = g
	if g.template != nil {
		if err := p.UpdatePosition(); err != nil {
			p.gate = prev
			return err
		}
	}
	g.ports = slices.Insert(g.ports, i, p)
	return nil
}

// RemovePort detaches p from the gate and from its net. The port is removed
// even when its net did not list it; that case returns ErrStructuralInvariant.
func (g *Gate) RemovePort(p *GatePort) error {
	if p == nil {
		return fmt.Errorf("gate %d: remove nil port: %w", g.ID(), modelerr.ErrInvalidReference)
	}
	i, found := slices.BinarySearchFunc(g.ports, p.ID(), gatePortIDCmp)
	if !found || g.ports[i] != p {
		return fmt.Errorf("gate %d: port %d: %w", g.ID(), p.ID(), modelerr.ErrLookupFailure)
	}
	err := detach(p)
	g.ports = slices.Delete(g.ports, i, i+1)
	p.gate = nil
	if err != nil {
		return fmt.Errorf("gate %d: port %d: %w", g.ID(), p.ID(), err)
	}
	return nil
}

// Ports returns the gate's ports ordered by ID.
func (g *Gate) Ports() []*GatePort { return slices.Clone(g.ports) }

func (g *Gate) PortCount() int { return len(g.ports) }

// PortByTemplatePort returns the port instantiating tp.
func (g *Gate) PortByTemplatePort(tp *GateTemplatePort) (*GatePort, error) {
	if tp == nil {
		return nil, fmt.Errorf("gate %d: nil template port: %w", g.ID(), modelerr.ErrInvalidReference)
	}
	for _, p := range g.ports {
		if p.templatePort == tp {
			return p, nil
		}
	}
	return nil, fmt.Errorf("gate %d: no port for template port %d: %w", g.ID(), tp.ID(), modelerr.ErrLookupFailure)
}

// HasTemplatePort reports whether a port of the gate instantiates tp.
func (g *Gate) HasTemplatePort(tp *GateTemplatePort) bool {
	_, err := g.PortByTemplatePort(tp)
	return err == nil
}

// RelativeXPosition maps an x offset in template coordinates to an offset
// from the gate's left edge, honouring left/right mirroring.
func (g *Gate) RelativeXPosition(relX float64) (float64, error) {
	if err := g.checkTransform(); err != nil {
		return 0, err
	}
	switch g.orientation {
	case OrientationFlippedLeftRight, OrientationFlippedBoth:
		return g.Width() - relX, nil
	}
	return relX, nil
}

// RelativeYPosition maps a y offset in template coordinates to an offset
// from the gate's top edge, honouring up/down mirroring.
func (g *Gate) RelativeYPosition(relY float64) (float64, error) {
	if err := g.checkTransform(); err != nil {
		return 0, err
	}
	switch g.orientation {
	case OrientationFlippedUpDown, OrientationFlippedBoth:
		return g.Height() - relY, nil
	}
	return relY, nil
}

func (g *Gate) checkTransform() error {
	if g.template == nil {
		return fmt.Errorf("gate %d: no template: %w", g.ID(), modelerr.ErrPreconditionViolation)
	}
	if !g.HasOrientation() {
		return fmt.Errorf("gate %d: orientation undefined: %w", g.ID(), modelerr.ErrPreconditionViolation)
	}
	return nil
}

func (g *Gate) DescriptiveIdentifier() string {
	var b strings.Builder
	if g.Name() != "" {
		b.WriteString(g.Name())
	} else {
		fmt.Fprintf(&b, "gate %d", g.ID())
	}
	if g.template != nil && g.template.Name() != "" {
		fmt.Fprintf(&b, " (%s)", g.template.Name())
	}
	return b.String()
}

func (g *Gate) ObjectTypeName() string { return "Gate" }

func (g *Gate) CloneShallow() deepcopy.Copyable {
	return &Gate{
		Object:         g.Object,
		Rectangle:      g.Rectangle,
		templateTypeID: g.templateTypeID,
		orientation:    g.orientation,
	}
}

func (g *Gate) CloneDeepInto(dst deepcopy.Copyable, t *deepcopy.Table) error {
	clone, ok := dst.(*Gate)
	if !ok {
		return deepcopy.Mismatch("*Gate", dst)
	}
	if g.template != nil {
		tc, err := deepcopy.CloneWith(t, g.template)
		if err != nil {
			return err
		}
		clone.template = tc
		tc.retain()
	}
	clone.ports = make([]*GatePort, 0, len(g.ports))
	for _, p := range g.ports {
		if p == nil {
			return deepcopy.Broken("gate %d has a nil port", g.ID())
		}
		if p.gate != g {
			return deepcopy.Broken("gate %d: port %d points to another gate", g.ID(), p.ID())
		}
		pc, err := deepcopy.CloneWith(t, p)
		if err != nil {
			return err
		}
		clone.ports = append(clone.ports, pc)
	}
	return nil
}

func gatePortIDCmp(p *GatePort, id ObjectID) int {
	switch {
	case p.ID() < id:
		return -1
	case p.ID() > id:
		return 1
	}
	return 0
}
