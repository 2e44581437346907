package logicmodel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/deepcopy"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

// PortType is the signal direction of a template port.
type PortType int

const (
	PortTypeUndefined PortType = iota
	PortTypeIn
	PortTypeOut
	PortTypeInOut
)

func (p PortType) String() string {
	switch p {
	case PortTypeIn:
		return "in"
	case PortTypeOut:
		return "out"
	case PortTypeInOut:
		return "inout"
	default:
		return "undefined"
	}
}

// ParsePortType parses the names produced by PortType.String.
func ParsePortType(s string) (PortType, error) {
	switch strings.ToLower(s) {
	case "in":
		return PortTypeIn, nil
	case "out":
		return PortTypeOut, nil
	case "inout":
		return PortTypeInOut, nil
	case "undefined", "":
		return PortTypeUndefined, nil
	}
	return PortTypeUndefined, fmt.Errorf("unknown port type %q: %w", s, modelerr.ErrPreconditionViolation)
}

// GateTemplatePort is a port of a gate template. Its position is relative to
// the template's top-left corner.
type GateTemplatePort struct {
	Object

	point    geometry.Point
	portType PortType
}

// NewGateTemplatePort creates a template port at (x, y).
func NewGateTemplatePort(x, y float64, t PortType) *GateTemplatePort {
	return &GateTemplatePort{point: geometry.NewPoint(x, y), portType: t}
}

func (p *GateTemplatePort) Point() geometry.Point      { return p.point }
func (p *GateTemplatePort) X() float64                 { return p.point.X }
func (p *GateTemplatePort) Y() float64                 { return p.point.Y }
func (p *GateTemplatePort) SetPoint(pt geometry.Point) { p.point = pt }
func (p *GateTemplatePort) PortType() PortType         { return p.portType }
func (p *GateTemplatePort) SetPortType(t PortType)     { p.portType = t }

func (p *GateTemplatePort) IsInport() bool             { return p.portType == PortTypeIn }
func (p *GateTemplatePort) IsOutport() bool            { return p.portType == PortTypeOut }
func (p *GateTemplatePort) IsInOutPort() bool          { return p.portType == PortTypeInOut }
func (p *GateTemplatePort) HasUndefinedPortType() bool { return p.portType == PortTypeUndefined }

func (p *GateTemplatePort) ObjectTypeName() string { return "Gate template port" }

func (p *GateTemplatePort) CloneShallow() deepcopy.Copyable {
	clone := *p
	return &clone
}

func (p *GateTemplatePort) CloneDeepInto(dst deepcopy.Copyable, _ *deepcopy.Table) error {
	if _, ok := dst.(*GateTemplatePort); !ok {
		return deepcopy.Mismatch("*GateTemplatePort", dst)
	}
	return nil
}

// GateTemplate describes a standard cell: its size, logic class and ports.
// Gates share templates; ReferenceCount tracks how many gates use one.
type GateTemplate struct {
	Object

	width, height float64
	logicClass    string
	ports         []*GateTemplatePort

	references int
}

// NewGateTemplate creates a template of the given size.
func NewGateTemplate(width, height float64) *GateTemplate {
	return &GateTemplate{width: width, height: height}
}

func (t *GateTemplate) Width() float64  { return t.width }
func (t *GateTemplate) Height() float64 { return t.height }

// SetSize changes the template's size. Gates using the template are resized
// by LogicModel.UpdateTemplate.
func (t *GateTemplate) SetSize(width, height float64) {
	t.width, t.height = width, height
}

// BoundingBox returns the template's extent in template coordinates.
func (t *GateTemplate) BoundingBox() geometry.BoundingBox {
	return geometry.NewBoundingBoxSize(t.width, t.height)
}

func (t *GateTemplate) LogicClass() string     { return t.logicClass }
func (t *GateTemplate) SetLogicClass(c string) { t.logicClass = c }

// AddPort adds a port to the template. The port needs a valid, unused ID.
func (t *GateTemplate) AddPort(p *GateTemplatePort) error {
	if p == nil {
		return fmt.Errorf("template %d: add nil port: %w", t.ID(), modelerr.ErrInvalidReference)
	}
	if !p.HasValidID() {
		return fmt.Errorf("template %d: port has no object id: %w", t.ID(), modelerr.ErrInvalidReference)
	}
	i, found := slices.BinarySearchFunc(t.ports, p.ID(), portIDCmp)
	if found {
		return fmt.Errorf("template %d: port %d exists: %w", t.ID(), p.ID(), modelerr.ErrDuplicateIdentity)
	}
	t.ports = slices.Insert(t.ports, i, p)
	return nil
}

// RemovePort removes the port with the given ID.
func (t *GateTemplate) RemovePort(id ObjectID) error {
	i, found := slices.BinarySearchFunc(t.ports, id, portIDCmp)
	if !found {
		return fmt.Errorf("template %d: port %d: %w", t.ID(), id, modelerr.ErrLookupFailure)
	}
	t.ports = slices.Delete(t.ports, i, i+1)
	return nil
}

// Port returns the port with the given ID.
func (t *GateTemplate) Port(id ObjectID) (*GateTemplatePort, error) {
	i, found := slices.BinarySearchFunc(t.ports, id, portIDCmp)
	if !found {
		return nil, fmt.Errorf("template %d: port %d: %w", t.ID(), id, modelerr.ErrLookupFailure)
	}
	return t.ports[i], nil
}

// HasPort reports whether the template has a port with the given ID.
func (t *GateTemplate) HasPort(id ObjectID) bool {
	_, found := slices.BinarySearchFunc(t.ports, id, portIDCmp)
	return found
}

// PortByName returns the first port with the given name.
func (t *GateTemplate) PortByName(name string) (*GateTemplatePort, bool) {
	for _, p := range t.ports {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Ports returns the ports ordered by ID.
func (t *GateTemplate) Ports() []*GateTemplatePort { return slices.Clone(t.ports) }

func (t *GateTemplate) PortCount() int { return len(t.ports) }

// ReferenceCount returns the number of gates using the template.
func (t *GateTemplate) ReferenceCount() int { return t.references }

func (t *GateTemplate) retain() { t.references++ }

func (t *GateTemplate) release() {
	if t.references > 0 {
		t.references--
	}
}

func (t *GateTemplate) DescriptiveIdentifier() string {
	if t.Name() != "" {
		return t.Name()
	}
	return fmt.Sprintf("template %d", t.ID())
}

func (t *GateTemplate) ObjectTypeName() string { return "Gate template" }

// CloneShallow copies the template's attributes. The clone's reference count
// starts at zero and is rebuilt as cloned gates attach to it.
func (t *GateTemplate) CloneShallow() deepcopy.Copyable {
	return &GateTemplate{
		Object:     t.Object,
		width:      t.width,
		height:     t.height,
		logicClass: t.logicClass,
	}
}

func (t *GateTemplate) CloneDeepInto(dst deepcopy.Copyable, tbl *deepcopy.Table) error {
	clone, ok := dst.(*GateTemplate)
	if !ok {
		return deepcopy.Mismatch("*GateTemplate", dst)
	}
	clone.ports = make([]*GateTemplatePort, 0, len(t.ports))
	for _, p := range t.ports {
		if p == nil {
			return deepcopy.Broken("template %d has a nil port", t.ID())
		}
		pc, err := deepcopy.CloneWith(tbl, p)
		if err != nil {
			return err
		}
		clone.ports = append(clone.ports, pc)
	}
	return nil
}

func portIDCmp(p *GateTemplatePort, id ObjectID) int {
	switch {
	case p.ID() < id:
		return -1
	case p.ID() > id:
		return 1
	}
	return 0
}
