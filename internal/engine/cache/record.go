package cache

import (
	"time"

	"github.com/google/uuid"

	"github.com/rshade/areasearch/internal/scene"
)

// Record is the last known property set of one in-world object.
type Record struct {
	// Name is the object's name as reported by the region.
	Name string

	// Description is the object's description text.
	Description string

	// OwnerID is the key of the owning agent.
	OwnerID uuid.UUID

	// GroupID is the key of the group the object is set to.
	GroupID uuid.UUID

	// Ready is true once a properties-family response has been applied.
	Ready bool

	// RequestedAt is when the request was sent. Zero for records created by
	// an unsolicited response.
	RequestedAt time.Time

	// ReceivedAt is when the latest response was applied.
	ReceivedAt time.Time
}

// apply copies the response fields into the record and marks it ready.
func (r *Record) apply(p scene.PropertiesFamily, now time.Time) {
	r.OwnerID = p.OwnerID
	r.GroupID = p.GroupID
	r.Name = p.Name
	r.Description = p.Description
	r.Ready = true
	r.ReceivedAt = now
}

// Latency returns how long the response took. Returns 0 for records that
// are not ready or were never requested.
func (r *Record) Latency() time.Duration {
	if !r.Ready || r.RequestedAt.IsZero() {
		return 0
	}
	return r.ReceivedAt.Sub(r.RequestedAt)
}
