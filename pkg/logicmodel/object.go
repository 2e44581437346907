package logicmodel

import (
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/deepcopy"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/geometry"
)

// Object carries the identity and naming shared by every entity.
type Object struct {
	id          ObjectID
	name        string
	description string
}

func (o *Object) ID() ObjectID            { return o.id }
func (o *Object) SetID(id ObjectID)       { o.id = id }
func (o *Object) HasValidID() bool        { return o.id != NoID }
func (o *Object) Name() string            { return o.name }
func (o *Object) SetName(n string)        { o.name = n }
func (o *Object) Description() string     { return o.description }
func (o *Object) SetDescription(d string) { o.description = d }

// PlacedObject is an entity with a position on the image.
type PlacedObject interface {
	geometry.Shape
	ID() ObjectID
	DescriptiveIdentifier() string
	ObjectTypeName() string
}

// Connectable is an entity that can be a member of a Net.
type Connectable interface {
	deepcopy.Copyable
	ID() ObjectID
	HasValidID() bool
	Net() *Net
	DescriptiveIdentifier() string

	setNet(n *Net)
}

// connection is the net-membership capability embedded by connectable entities.
type connection struct {
	net *Net
}

// Net returns the net the object belongs to, or nil.
func (c *connection) Net() *Net { return c.net }

// IsConnected reports whether the object belongs to a net.
func (c *connection) IsConnected() bool { return c.net != nil }

func (c *connection) setNet(n *Net) { c.net = n }

// linkNet points dst's membership at the clone of src's net.
func (c *connection) linkNet(dst *connection, t *deepcopy.Table) error {
	if c.net == nil {
		return nil
	}
	net, err := deepcopy.CloneWith(t, c.net)
	if err != nil {
		return err
	}
	dst.net = net
	return nil
}

// RemoteObject is the capability of entities that can be mirrored on a
// collaboration server.
type RemoteObject struct {
	remoteID ObjectID
}

// RemoteID returns the ID the server assigned, or NoID.
func (r *RemoteObject) RemoteID() ObjectID { return r.remoteID }

func (r *RemoteObject) SetRemoteID(id ObjectID) { r.remoteID = id }

func (r *RemoteObject) HasRemoteID() bool { return r.remoteID != NoID }
