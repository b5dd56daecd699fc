package scene

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RegionHandle identifies a simulated region. The zero handle means "no region".
type RegionHandle uint64

// String renders the handle in the hex form used by the viewer.
func (h RegionHandle) String() string {
	return fmt.Sprintf("0x%016x", uint64(h))
}

// Vector is a global position in meters.
type Vector [3]float64

// Object is a snapshot of one entry in the scene object registry.
type Object struct {
	ID       uuid.UUID
	Region   RegionHandle
	Position Vector

	Root           bool
	Avatar         bool
	Attachment     bool
	Temporary      bool
	TemporaryOnRez bool
}

// Event is a message published by a host collaborator.
type Event interface {
	// EventName is a short stable name used in logs.
	EventName() string
}

// PropertiesFamily is the response to a properties-family request.
type PropertiesFamily struct {
	ObjectID    uuid.UUID
	OwnerID     uuid.UUID
	GroupID     uuid.UUID
	Name        string
	Description string
}

// EventName implements Event.
func (PropertiesFamily) EventName() string { return "object_properties_family" }

// NameResolved reports that the name cache finished a lookup.
type NameResolved struct {
	ID      uuid.UUID
	IsGroup bool
	Name    string
}

// EventName implements Event.
func (NameResolved) EventName() string { return "name_resolved" }

// Registry enumerates the objects currently known to the viewer.
type Registry interface {
	Objects() []Object
	Find(id uuid.UUID) (Object, bool)
}

// Agent reports where the user currently is.
type Agent interface {
	Region() RegionHandle
}

// Transport sends outbound property requests. Responses arrive later as
// PropertiesFamily events.
type Transport interface {
	RequestObjectPropertiesFamily(ctx context.Context, objectID uuid.UUID) error
}

// NameCache resolves agent and group display names.
//
// FullName and GroupName only report names that are already cached. Request
// starts a lookup whose completion is published as a NameResolved event.
type NameCache interface {
	FullName(id uuid.UUID) (string, bool)
	GroupName(id uuid.UUID) (string, bool)
	Request(id uuid.UUID, isGroup bool)
}

// Tracker points the user at a location in the world.
type Tracker interface {
	TrackLocation(pos Vector, label string)
	LookAt(id uuid.UUID)
}
