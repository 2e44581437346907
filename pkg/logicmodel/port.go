package logicmodel

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/deepcopy"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

// DefaultPortDiameter is the diameter of gate ports created by the model.
const DefaultPortDiameter uint = 5

// GatePort is a placed instance of a template port on a gate.
type GatePort struct {
	Object
	geometry.Circle
	connection

	gate           *Gate
	templatePort   *GateTemplatePort
	templatePortID ObjectID
}

// NewGatePort creates a port of gate g instantiating tp. The port is placed
// when it is added to the gate.
func NewGatePort(g *Gate, tp *GateTemplatePort, diameter uint) *GatePort {
	p := &GatePort{
		Circle: geometry.NewCircle(0, 0, diameter),
		gate:   g,
	}
	if tp != nil {
		p.templatePort = tp
		p.templatePortID = tp.ID()
	}
	return p
}

// Gate returns the gate the port belongs to, or nil for a detached port.
func (p *GatePort) Gate() *Gate { return p.gate }

func (p *GatePort) TemplatePort() *GateTemplatePort { return p.templatePort }
func (p *GatePort) TemplatePortID() ObjectID        { return p.templatePortID }
func (p *GatePort) HasTemplatePort() bool           { return p.templatePort != nil }

// SetTemplatePort rebinds the port and moves it to the new position.
func (p *GatePort) SetTemplatePort(tp *GateTemplatePort) error {
	if tp == nil {
		return fmt.Errorf("gate port %d: nil template port: %w", p.ID(), modelerr.ErrInvalidReference)
	}
	p.templatePort = tp
	p.templatePortID = tp.ID()
	if p.gate != nil && p.gate.HasTemplate() {
		return p.UpdatePosition()
	}
	return nil
}

// UpdatePosition places the port on its gate according to the template port
// and the gate's orientation.
func (p *GatePort) UpdatePosition() error {
	if p.gate == nil {
		return fmt.Errorf("gate port %d: detached: %w", p.ID(), modelerr.ErrPreconditionViolation)
	}
	if p.templatePort == nil {
		return fmt.Errorf("gate port %d: no template port: %w", p.ID(), modelerr.ErrPreconditionViolation)
	}
	dx, err := p.gate.RelativeXPosition(p.templatePort.X())
	if err != nil {
		return err
	}
	dy, err := p.gate.RelativeYPosition(p.templatePort.Y())
	if err != nil {
		return err
	}
	p.SetX(p.gate.MinX() + dx)
	p.SetY(p.gate.MinY() + dy)
	return nil
}

func (p *GatePort) DescriptiveIdentifier() string {
	name := p.Name()
	if name == "" && p.templatePort != nil {
		name = p.templatePort.Name()
	}
	if name == "" {
		name = fmt.Sprintf("port %d", p.ID())
	}
	if p.gate == nil {
		return name
	}
	return p.gate.DescriptiveIdentifier() + ": " + name
}

func (p *GatePort) ObjectTypeName() string { return "Gate port" }

func (p *GatePort) CloneShallow() deepcopy.Copyable {
	return &GatePort{
		Object:         p.Object,
		Circle:         p.Circle,
		templatePortID: p.templatePortID,
	}
}

func (p *GatePort) CloneDeepInto(dst deepcopy.Copyable, t *deepcopy.Table) error {
	clone, ok := dst.(*GatePort)
	if !ok {
		return deepcopy.Mismatch("*GatePort", dst)
	}
	if p.templatePort == nil {
		return deepcopy.Broken("gate port %d has no template port", p.ID())
	}
	tp, err := deepcopy.CloneWith(t, p.templatePort)
	if err != nil {
		return err
	}
	clone.templatePort = tp

	if p.gate != nil {
		g, err := deepcopy.CloneWith(t, p.gate)
		if err != nil {
			return err
		}
		clone.gate = g
	}
	return p.linkNet(&clone.connection, t)
}

var (
	_ PlacedObject = (*Gate)(nil)
	_ PlacedObject = (*GatePort)(nil)
	_ Connectable  = (*GatePort)(nil)
)
