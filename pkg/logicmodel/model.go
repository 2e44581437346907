package logicmodel

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/deepcopy"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

// LogicModel is the aggregate of one project layer: the gate library, the
// placed gates with their ports, electrical markers and nets.
//
// The model owns a port index over all gate ports. Operations on the model
// keep it current; code that calls Gate.AddPort or Gate.RemovePort directly
// must call UpdatePorts afterwards.
//
// A LogicModel is not safe for concurrent use.
type LogicModel struct {
	ids          IDAllocator
	logger       *slog.Logger
	portDiameter uint

	library *GateLibrary
	gates   map[ObjectID]*Gate
	ports   map[ObjectID]*GatePort
	markers map[ObjectID]*EMarker
	nets    map[ObjectID]*Net
}

// Option configures a LogicModel.
type Option func(*LogicModel)

// WithIDAllocator sets the allocator used for new objects.
func WithIDAllocator(ids IDAllocator) Option {
	return func(m *LogicModel) { m.ids = ids }
}

// WithLogger sets the logger for model mutations.
func WithLogger(l *slog.Logger) Option {
	return func(m *LogicModel) { m.logger = l }
}

// WithPortDiameter sets the diameter of gate ports created by UpdatePorts.
func WithPortDiameter(d uint) Option {
	return func(m *LogicModel) { m.portDiameter = d }
}

// WithLibrary sets the gate library.
func WithLibrary(lib *GateLibrary) Option {
	return func(m *LogicModel) { m.library = lib }
}

// New creates an empty model.
func New(opts ...Option) *LogicModel {
	m := &LogicModel{
		portDiameter: DefaultPortDiameter,
		gates:        make(map[ObjectID]*Gate),
		ports:        make(map[ObjectID]*GatePort),
		markers:      make(map[ObjectID]*EMarker),
		nets:         make(map[ObjectID]*Net),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.ids == nil {
		m.ids = NewSequentialIDs()
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.library == nil {
		m.library = NewGateLibrary()
	}
	if r, ok := m.ids.(reserver); ok {
		for _, t := range m.library.Templates() {
			r.Reserve(t.ID())
			for _, p := range t.ports {
				r.Reserve(p.ID())
			}
		}
	}
	return m
}

func (m *LogicModel) Library() *GateLibrary { return m.library }
func (m *LogicModel) IDs() IDAllocator      { return m.ids }
func (m *LogicModel) PortDiameter() uint    { return m.portDiameter }
func (m *LogicModel) Logger() *slog.Logger  { return m.logger }

// NextID allocates an object ID.
func (m *LogicModel) NextID() ObjectID { return m.ids.Next() }

type identifiable interface {
	ID() ObjectID
	SetID(ObjectID)
	HasValidID() bool
}

type reserver interface {
	Reserve(ObjectID)
}

// idInUse reports whether any object of the model or its library has id.
func (m *LogicModel) idInUse(id ObjectID) bool {
	if _, ok := m.gates[id]; ok {
		return true
	}
	if _, ok := m.ports[id]; ok {
		return true
	}
	if _, ok := m.markers[id]; ok {
		return true
	}
	if _, ok := m.nets[id]; ok {
		return true
	}
	return m.library.ExistsTemplate(id) || m.library.ExistsTemplatePort(id)
}

// checkID fails if obj carries an ID that is already taken.
func (m *LogicModel) checkID(obj identifiable) error {
	if obj.HasValidID() && m.idInUse(obj.ID()) {
		return fmt.Errorf("logicmodel: object id %d in use: %w", obj.ID(), modelerr.ErrDuplicateIdentity)
	}
	return nil
}

// claimID gives obj a fresh ID or reserves the one it carries. Fresh IDs
// skip any the model or its library already uses.
func (m *LogicModel) claimID(obj identifiable) {
	if !obj.HasValidID() {
		id := m.ids.Next()
		for m.idInUse(id) {
			id = m.ids.Next()
		}
		obj.SetID(id)
		return
	}
	if r, ok := m.ids.(reserver); ok {
		r.Reserve(obj.ID())
	}
}

// AddTemplate adds t to the library, assigning IDs to the template and its
// ports where missing.
func (m *LogicModel) AddTemplate(t *GateTemplate) error {
	if t == nil {
		return fmt.Errorf("logicmodel: add nil template: %w", modelerr.ErrInvalidReference)
	}
	if err := m.checkID(t); err != nil {
		return err
	}
	for _, p := range t.ports {
		if err := m.checkID(p); err != nil {
			return err
		}
	}
	m.claimID(t)
	for _, p := range t.ports {
		m.claimID(p)
	}
	if err := m.library.AddTemplate(t); err != nil {
		return err
	}
	m.logger.Debug("template added", "id", t.ID(), "name", t.Name(), "ports", t.PortCount())
	return nil
}

// AddTemplatePort adds a port to a library template and instantiates it on
// every gate using the template.
func (m *LogicModel) AddTemplatePort(templateID ObjectID, p *GateTemplatePort) error {
	t, err := m.library.Template(templateID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("logicmodel: add nil template port: %w", modelerr.ErrInvalidReference)
	}
	if err := m.checkID(p); err != nil {
		return err
	}
	users := m.gatesUsing(t)
	for _, g := range users {
		if !g.HasOrientation() {
			return fmt.Errorf("logicmodel: gate %d: orientation undefined: %w", g.ID(), modelerr.ErrPreconditionViolation)
		}
	}
	m.claimID(p)
	if err := t.AddPort(p); err != nil {
		return err
	}
	for _, g := range users {
		if err := m.UpdatePorts(g); err != nil {
			return err
		}
	}
	return nil
}

// UpdateTemplate re-applies template t to every gate using it, after its
// size or ports changed.
func (m *LogicModel) UpdateTemplate(templateID ObjectID) error {
	t, err := m.library.Template(templateID)
	if err != nil {
		return err
	}
	users := m.gatesUsing(t)
	if t.PortCount() > 0 {
		for _, g := range users {
			if !g.HasOrientation() {
				return fmt.Errorf("logicmodel: gate %d: orientation undefined: %w", g.ID(), modelerr.ErrPreconditionViolation)
			}
		}
	}
	for _, g := range users {
		if err := g.SetGateTemplate(t); err != nil {
			return err
		}
		if err := m.UpdatePorts(g); err != nil {
			return err
		}
	}
	return nil
}

// RemoveTemplate removes a template from the library. Gates using it lose
// their template and ports.
func (m *LogicModel) RemoveTemplate(templateID ObjectID) error {
	t, err := m.library.Template(templateID)
	if err != nil {
		return err
	}
	var errs []error
	for _, g := range m.gatesUsing(t) {
		m.dropPorts(g)
		errs = append(errs, g.RemoveTemplate())
	}
	m.pruneNets()
	m.logger.Debug("template removed", "id", templateID)
	errs = append(errs, m.library.RemoveTemplate(templateID))
	return m.reportBroken(errors.Join(errs...))
}

func (m *LogicModel) gatesUsing(t *GateTemplate) []*Gate {
	var out []*Gate
	for _, g := range m.Gates() {
		if g.template == t {
			out = append(out, g)
		}
	}
	return out
}

// AddGate places g in the model. A gate without ID gets one. If the gate
// has a template, the template must be in the library and ports are created.
func (m *LogicModel) AddGate(g *Gate) error {
	if g == nil {
		return fmt.Errorf("logicmodel: add nil gate: %w", modelerr.ErrInvalidReference)
	}
	if err := m.checkID(g); err != nil {
		return err
	}
	for _, p := range g.ports {
		if err := m.checkID(p); err != nil {
			return err
		}
	}
	if t := g.template; t != nil {
		lt, err := m.library.Template(t.ID())
		if err != nil {
			return err
		}
		if lt != t {
			return fmt.Errorf("logicmodel: gate template %d is not the library's: %w", t.ID(), modelerr.ErrInvalidReference)
		}
		if t.PortCount() > 0 && !g.HasOrientation() {
			return fmt.Errorf("logicmodel: gate orientation undefined: %w", modelerr.ErrPreconditionViolation)
		}
	}

	m.claimID(g)
	for _, p := range g.ports {
		m.claimID(p)
	}
	m.gates[g.ID()] = g
	m.logger.Debug("gate added", "id", g.ID(), "template", g.templateTypeID)

	if g.template != nil {
		return m.UpdatePorts(g)
	}
	m.indexPorts(g)
	return nil
}

// RemoveGate removes a gate and its ports. Ports are disconnected and nets
// left empty are removed.
func (m *LogicModel) RemoveGate(id ObjectID) error {
	g, err := m.Gate(id)
	if err != nil {
		return err
	}
	m.dropPorts(g)
	err = g.RemoveTemplate()
	delete(m.gates, id)
	m.pruneNets()
	m.logger.Debug("gate removed", "id", id)
	return m.reportBroken(err)
}

// AssignTemplate binds a library template to a gate and rebuilds its ports.
func (m *LogicModel) AssignTemplate(gateID, templateID ObjectID) error {
	g, err := m.Gate(gateID)
	if err != nil {
		return err
	}
	t, err := m.library.Template(templateID)
	if err != nil {
		return err
	}
	if t.PortCount() > 0 && !g.HasOrientation() {
		return fmt.Errorf("logicmodel: gate %d: orientation undefined: %w", gateID, modelerr.ErrPreconditionViolation)
	}
	if err := g.SetGateTemplate(t); err != nil {
		return err
	}
	return m.UpdatePorts(g)
}

// DetachTemplate removes the template from a gate, destroying its ports.
func (m *LogicModel) DetachTemplate(gateID ObjectID) error {
	g, err := m.Gate(gateID)
	if err != nil {
		return err
	}
	m.dropPorts(g)
	err = g.RemoveTemplate()
	m.pruneNets()
	return m.reportBroken(err)
}

// SetOrientation changes a gate's orientation and moves its ports.
func (m *LogicModel) SetOrientation(gateID ObjectID, o Orientation) error {
	g, err := m.Gate(gateID)
	if err != nil {
		return err
	}
	if o == OrientationUndefined && g.PortCount() > 0 {
		return fmt.Errorf("logicmodel: gate %d has ports: %w", gateID, modelerr.ErrPreconditionViolation)
	}
	g.SetOrientation(o)
	if g.HasTemplate() {
		return m.UpdatePorts(g)
	}
	return nil
}

// UpdatePorts makes the ports of g mirror its template: missing ports are
// created, ports of foreign template ports are removed and all ports are
// placed according to the gate's orientation. The port index is refreshed.
func (m *LogicModel) UpdatePorts(g *Gate) error {
	if g == nil {
		return fmt.Errorf("logicmodel: update ports of nil gate: %w", modelerr.ErrInvalidReference)
	}
	if m.gates[g.ID()] != g {
		return fmt.Errorf("logicmodel: gate %d: %w", g.ID(), modelerr.ErrLookupFailure)
	}

	var broken error
	if t := g.template; t != nil {
		if t.PortCount() > 0 && !g.HasOrientation() {
			return fmt.Errorf("logicmodel: gate %d: orientation undefined: %w", g.ID(), modelerr.ErrPreconditionViolation)
		}
		for _, p := range g.Ports() {
			tp, err := t.Port(p.templatePortID)
			if err != nil || tp != p.templatePort {
				if err := g.RemovePort(p); err != nil {
					broken = errors.Join(broken, err)
				}
			}
		}
		for _, tp := range t.Ports() {
			if g.HasTemplatePort(tp) {
				continue
			}
			p := NewGatePort(g, tp, m.portDiameter)
			m.claimID(p)
			if err := g.AddPort(p); err != nil {
				return err
			}
		}
		for _, p := range g.ports {
			if err := p.UpdatePosition(); err != nil {
				return err
			}
		}
	}

	for id, p := range m.ports {
		if p.gate == g || p.gate == nil {
			delete(m.ports, id)
		}
	}
	m.indexPorts(g)
	m.pruneNets()
	return m.reportBroken(broken)
}

func (m *LogicModel) indexPorts(g *Gate) {
	for _, p := range g.ports {
		m.ports[p.ID()] = p
	}
}

func (m *LogicModel) dropPorts(g *Gate) {
	for _, p := range g.ports {
		delete(m.ports, p.ID())
	}
}

// MoveGate shifts a gate and its ports.
func (m *LogicModel) MoveGate(id ObjectID, dx, dy float64) error {
	g, err := m.Gate(id)
	if err != nil {
		return err
	}
	g.ShiftX(dx)
	g.ShiftY(dy)
	for _, p := range g.ports {
		p.ShiftX(dx)
		p.ShiftY(dy)
	}
	return nil
}

// ResolveTemplates binds gates that carry only a template type ID to the
// library template with that ID. It returns the IDs of gates that could not
// be bound: the template is missing, or it has ports and the gate has no
// orientation.
func (m *LogicModel) ResolveTemplates() []ObjectID {
	var unresolved []ObjectID
	for _, g := range m.Gates() {
		if g.HasTemplate() || g.templateTypeID == NoID {
			continue
		}
		if err := m.resolveTemplate(g); err != nil {
			m.logger.Warn("unresolved gate template", "gate", g.ID(), "template", g.templateTypeID, "err", err)
			unresolved = append(unresolved, g.ID())
		}
	}
	return unresolved
}

func (m *LogicModel) resolveTemplate(g *Gate) error {
	t, err := m.library.Template(g.templateTypeID)
	if err != nil {
		return err
	}
	if t.PortCount() > 0 && !g.HasOrientation() {
		return fmt.Errorf("logicmodel: gate %d: orientation undefined: %w", g.ID(), modelerr.ErrPreconditionViolation)
	}
	if err := g.SetGateTemplate(t); err != nil {
		return err
	}
	return m.UpdatePorts(g)
}

// AddMarker places an electrical marker in the model.
func (m *LogicModel) AddMarker(mk *EMarker) error {
	if mk == nil {
		return fmt.Errorf("logicmodel: add nil marker: %w", modelerr.ErrInvalidReference)
	}
	if err := m.checkID(mk); err != nil {
		return err
	}
	if n := mk.Net(); n != nil && m.nets[n.ID()] != n {
		return fmt.Errorf("logicmodel: marker net %d: %w", n.ID(), modelerr.ErrLookupFailure)
	}
	m.claimID(mk)
	m.markers[mk.ID()] = mk
	m.logger.Debug("marker added", "id", mk.ID(), "module_port", mk.IsModulePort())
	return nil
}

// RemoveMarker removes a marker, disconnecting it first.
func (m *LogicModel) RemoveMarker(id ObjectID) error {
	mk, err := m.Marker(id)
	if err != nil {
		return err
	}
	err = detach(mk)
	delete(m.markers, id)
	m.pruneNets()
	if err != nil {
		err = fmt.Errorf("logicmodel: marker %d: %w", id, err)
	}
	return m.reportBroken(err)
}

// MoveMarker shifts a marker.
func (m *LogicModel) MoveMarker(id ObjectID, dx, dy float64) error {
	mk, err := m.Marker(id)
	if err != nil {
		return err
	}
	mk.ShiftX(dx)
	mk.ShiftY(dy)
	return nil
}

// AddNet adds a net. All its members must already be in the model.
func (m *LogicModel) AddNet(n *Net) error {
	if n == nil {
		return fmt.Errorf("logicmodel: add nil net: %w", modelerr.ErrInvalidReference)
	}
	if err := m.checkID(n); err != nil {
		return err
	}
	for _, obj := range n.members {
		if !m.owns(obj) {
			return fmt.Errorf("logicmodel: net member %d: %w", obj.ID(), modelerr.ErrLookupFailure)
		}
	}
	m.claimID(n)
	m.nets[n.ID()] = n
	return nil
}

// RemoveNet removes a net and clears the membership of its members.
func (m *LogicModel) RemoveNet(id ObjectID) error {
	n, err := m.Net(id)
	if err != nil {
		return err
	}
	var errs []error
	for _, obj := range n.Members() {
		errs = append(errs, n.Remove(obj))
	}
	delete(m.nets, id)
	return m.reportBroken(errors.Join(errs...))
}

// Connect puts a and b into the same net. If both already belong to
// different nets the nets are merged into a's net.
func (m *LogicModel) Connect(a, b Connectable) (*Net, error) {
	for _, obj := range []Connectable{a, b} {
		if obj == nil {
			return nil, fmt.Errorf("logicmodel: connect nil object: %w", modelerr.ErrInvalidReference)
		}
		if !m.owns(obj) {
			return nil, fmt.Errorf("logicmodel: connect object %d: %w", obj.ID(), modelerr.ErrLookupFailure)
		}
	}
	if a == b {
		return nil, fmt.Errorf("logicmodel: connect object %d to itself: %w", a.ID(), modelerr.ErrPreconditionViolation)
	}

	na, nb := a.Net(), b.Net()
	switch {
	case na == nil && nb == nil:
		n := NewNet()
		n.SetID(m.ids.Next())
		m.nets[n.ID()] = n
		if err := n.Add(a); err != nil {
			return nil, err
		}
		return n, n.Add(b)
	case nb == nil:
		return na, na.Add(b)
	case na == nil:
		return nb, nb.Add(a)
	case na == nb:
		return na, nil
	}

	for _, obj := range nb.Members() {
		if err := na.Add(obj); err != nil {
			return nil, err
		}
	}
	delete(m.nets, nb.ID())
	m.logger.Debug("nets merged", "into", na.ID(), "from", nb.ID())
	return na, nil
}

// Disconnect removes obj from its net. An emptied net is removed.
func (m *LogicModel) Disconnect(obj Connectable) error {
	if obj == nil {
		return fmt.Errorf("logicmodel: disconnect nil object: %w", modelerr.ErrInvalidReference)
	}
	if !m.owns(obj) {
		return fmt.Errorf("logicmodel: disconnect object %d: %w", obj.ID(), modelerr.ErrLookupFailure)
	}
	n := obj.Net()
	if n == nil {
		return fmt.Errorf("logicmodel: object %d is not connected: %w", obj.ID(), modelerr.ErrPreconditionViolation)
	}
	if err := n.Remove(obj); err != nil {
		return err
	}
	if n.Size() == 0 {
		delete(m.nets, n.ID())
	}
	return nil
}

func (m *LogicModel) owns(obj Connectable) bool {
	switch o := obj.(type) {
	case *GatePort:
		return m.ports[o.ID()] == o
	case *EMarker:
		return m.markers[o.ID()] == o
	}
	return false
}

// reportBroken logs err when it reports an inconsistent graph and returns it
// unchanged.
func (m *LogicModel) reportBroken(err error) error {
	if errors.Is(err, modelerr.ErrStructuralInvariant) {
		m.logger.Warn("inconsistent net membership", "err", err)
	}
	return err
}

func (m *LogicModel) pruneNets() {
	for id, n := range m.nets {
		if n.Size() == 0 {
			delete(m.nets, id)
		}
	}
}

// Gate returns the gate with the given ID.
func (m *LogicModel) Gate(id ObjectID) (*Gate, error) {
	g, ok := m.gates[id]
	if !ok {
		return nil, fmt.Errorf("logicmodel: gate %d: %w", id, modelerr.ErrLookupFailure)
	}
	return g, nil
}

// Port returns the gate port with the given ID.
func (m *LogicModel) Port(id ObjectID) (*GatePort, error) {
	p, ok := m.ports[id]
	if !ok {
		return nil, fmt.Errorf("logicmodel: gate port %d: %w", id, modelerr.ErrLookupFailure)
	}
	return p, nil
}

// Marker returns the marker with the given ID.
func (m *LogicModel) Marker(id ObjectID) (*EMarker, error) {
	mk, ok := m.markers[id]
	if !ok {
		return nil, fmt.Errorf("logicmodel: marker %d: %w", id, modelerr.ErrLookupFailure)
	}
	return mk, nil
}

// Net returns the net with the given ID.
func (m *LogicModel) Net(id ObjectID) (*Net, error) {
	n, ok := m.nets[id]
	if !ok {
		return nil, fmt.Errorf("logicmodel: net %d: %w", id, modelerr.ErrLookupFailure)
	}
	return n, nil
}

// Object returns the placed object with the given ID.
func (m *LogicModel) Object(id ObjectID) (PlacedObject, error) {
	if g, ok := m.gates[id]; ok {
		return g, nil
	}
	if p, ok := m.ports[id]; ok {
		return p, nil
	}
	if mk, ok := m.markers[id]; ok {
		return mk, nil
	}
	return nil, fmt.Errorf("logicmodel: object %d: %w", id, modelerr.ErrLookupFailure)
}

func (m *LogicModel) Gates() []*Gate      { return sortedByID(m.gates) }
func (m *LogicModel) Ports() []*GatePort  { return sortedByID(m.ports) }
func (m *LogicModel) Markers() []*EMarker { return sortedByID(m.markers) }
func (m *LogicModel) Nets() []*Net        { return sortedByID(m.nets) }

// PlacedObjects returns gates, ports and markers ordered by ID.
func (m *LogicModel) PlacedObjects() []PlacedObject {
	out := make([]PlacedObject, 0, len(m.gates)+len(m.ports)+len(m.markers))
	for _, g := range m.gates {
		out = append(out, g)
	}
	for _, p := range m.ports {
		out = append(out, p)
	}
	for _, mk := range m.markers {
		out = append(out, mk)
	}
	slices.SortFunc(out, compareByID[PlacedObject])
	return out
}

// ObjectsAt returns the objects whose shape contains (x, y) within
// tolerance.
func (m *LogicModel) ObjectsAt(x, y, tolerance float64) []PlacedObject {
	var out []PlacedObject
	for _, o := range m.PlacedObjects() {
		if o.InShape(x, y, tolerance) {
			out = append(out, o)
		}
	}
	return out
}

// ObjectsIn returns the objects lying completely inside bb.
func (m *LogicModel) ObjectsIn(bb geometry.BoundingBox) []PlacedObject {
	var out []PlacedObject
	for _, o := range m.PlacedObjects() {
		if o.InBoundingBox(bb) {
			out = append(out, o)
		}
	}
	return out
}

// Bounds returns the union of all object bounding boxes. ok is false for an
// empty model.
func (m *LogicModel) Bounds() (bb geometry.BoundingBox, ok bool) {
	for _, o := range m.PlacedObjects() {
		if !ok {
			bb, ok = o.BoundingBox(), true
			continue
		}
		bb = bb.Union(o.BoundingBox())
	}
	return bb, ok
}

// Clone returns an independent copy of the model. The copy shares the ID
// allocator so objects added to either model get distinct IDs.
func (m *LogicModel) Clone() (*LogicModel, error) {
	return deepcopy.Clone(m)
}

func (m *LogicModel) CloneShallow() deepcopy.Copyable {
	return &LogicModel{
		ids:          m.ids,
		logger:       m.logger,
		portDiameter: m.portDiameter,
		gates:        make(map[ObjectID]*Gate, len(m.gates)),
		ports:        make(map[ObjectID]*GatePort, len(m.ports)),
		markers:      make(map[ObjectID]*EMarker, len(m.markers)),
		nets:         make(map[ObjectID]*Net, len(m.nets)),
	}
}

func (m *LogicModel) CloneDeepInto(dst deepcopy.Copyable, t *deepcopy.Table) error {
	clone, ok := dst.(*LogicModel)
	if !ok {
		return deepcopy.Mismatch("*LogicModel", dst)
	}
	lib, err := deepcopy.CloneWith(t, m.library)
	if err != nil {
		return err
	}
	clone.library = lib

	for _, g := range m.Gates() {
		gc, err := deepcopy.CloneWith(t, g)
		if err != nil {
			return err
		}
		clone.gates[gc.ID()] = gc
		clone.indexPorts(gc)
	}
	for _, mk := range m.Markers() {
		mc, err := deepcopy.CloneWith(t, mk)
		if err != nil {
			return err
		}
		clone.markers[mc.ID()] = mc
	}
	for _, n := range m.Nets() {
		nc, err := deepcopy.CloneWith(t, n)
		if err != nil {
			return err
		}
		clone.nets[nc.ID()] = nc
	}
	return nil
}
