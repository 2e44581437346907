package logicmodel

import (
	"context"
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/deepcopy"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

// DefaultMarkerDiameter is the diameter of markers created without one.
const DefaultMarkerDiameter uint = 5

// EMarker is an electrical marker: a connectable point on the image, used
// to tie traces together or to mark a module port.
type EMarker struct {
	Object
	geometry.Circle
	connection
	RemoteObject

	modulePort bool
}

// NewEMarker creates a marker at (x, y).
func NewEMarker(x, y float64, diameter uint) *EMarker {
	return &EMarker{Circle: geometry.NewCircle(x, y, diameter)}
}

func (m *EMarker) IsModulePort() bool     { return m.modulePort }
func (m *EMarker) SetModulePort(b bool)   { m.modulePort = b }
func (m *EMarker) ObjectTypeName() string { return "EMarker" }

func (m *EMarker) DescriptiveIdentifier() string {
	if m.Name() != "" {
		return m.Name()
	}
	return fmt.Sprintf("emarker %d", m.ID())
}

// RemotePayload is the representation of an object pushed to a
// collaboration server.
type RemotePayload struct {
	Type       string            `json:"type"`
	LocalID    ObjectID          `json:"local_id"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// RemoteSync transfers objects to a collaboration server.
type RemoteSync interface {
	PushObject(ctx context.Context, serverURL string, p RemotePayload) (ObjectID, error)
}

// Payload returns the marker's server representation.
func (m *EMarker) Payload() RemotePayload {
	attrs := map[string]string{
		"x":           strconv.FormatFloat(m.X(), 'g', -1, 64),
		"y":           strconv.FormatFloat(m.Y(), 'g', -1, 64),
		"diameter":    strconv.FormatUint(uint64(m.Diameter()), 10),
		"module_port": strconv.FormatBool(m.modulePort),
	}
	if m.Name() != "" {
		attrs["name"] = m.Name()
	}
	return RemotePayload{Type: "emarker", LocalID: m.ID(), Attributes: attrs}
}

// PushObjectToServer sends the marker to serverURL and records the ID the
// server assigns.
func (m *EMarker) PushObjectToServer(ctx context.Context, sync RemoteSync, serverURL string) (ObjectID, error) {
	if sync == nil {
		return NoID, fmt.Errorf("emarker %d: nil remote sync: %w", m.ID(), modelerr.ErrInvalidReference)
	}
	id, err := sync.PushObject(ctx, serverURL, m.Payload())
	if err != nil {
		return NoID, fmt.Errorf("emarker %d: push: %w", m.ID(), err)
	}
	m.SetRemoteID(id)
	return id, nil
}

func (m *EMarker) CloneShallow() deepcopy.Copyable {
	return &EMarker{
		Object:       m.Object,
		Circle:       m.Circle,
		RemoteObject: m.RemoteObject,
		modulePort:   m.modulePort,
	}
}

func (m *EMarker) CloneDeepInto(dst deepcopy.Copyable, t *deepcopy.Table) error {
	clone, ok := dst.(*EMarker)
	if !ok {
		return deepcopy.Mismatch("*EMarker", dst)
	}
	return m.linkNet(&clone.connection, t)
}

var (
	_ PlacedObject = (*EMarker)(nil)
	_ Connectable  = (*EMarker)(nil)
)
