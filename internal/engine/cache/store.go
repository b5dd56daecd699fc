package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rshade/areasearch/internal/scene"
)

// Common cache errors.
var (
	ErrNilObjectID = errors.New("object id cannot be nil")
	ErrNilSend     = errors.New("send function cannot be nil")
)

// SendFunc issues one properties-family request.
type SendFunc func(ctx context.Context, objectID uuid.UUID) error

// Store maps object identities to their detail records and counts the
// requests still waiting for a response.
type Store struct {
	// records holds one entry per identity seen since the last Clear.
	records map[uuid.UUID]*Record

	// pending is the number of requests without a response yet.
	pending int

	// now is the clock used to stamp records.
	now func() time.Time
}

// NewStore creates an empty store. A nil clock means time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		records: make(map[uuid.UUID]*Record),
		now:     now,
	}
}

// Get returns the record for id, if one exists.
func (s *Store) Get(id uuid.UUID) (*Record, bool) {
	r, ok := s.records[id]
	return r, ok
}

// EnsureRequested makes sure a request for id has been sent. When no record
// exists it creates a not-ready one, calls send once and increments the
// pending counter. It reports whether a request was issued.
//
// If send fails the record is dropped again, so the next call retries, and
// the pending counter is left unchanged.
func (s *Store) EnsureRequested(ctx context.Context, id uuid.UUID, send SendFunc) (bool, error) {
	if id == uuid.Nil {
		return false, ErrNilObjectID
	}
	if send == nil {
		return false, ErrNilSend
	}
	if _, ok := s.records[id]; ok {
		return false, nil
	}

	s.records[id] = &Record{RequestedAt: s.now()}
	if err := send(ctx, id); err != nil {
		delete(s.records, id)
		return false, fmt.Errorf("requesting properties for %s: %w", id, err)
	}
	s.pending++
	return true, nil
}

// Apply stores a properties-family response. Unknown identities get a record
// too, so they never need to be requested later. It returns the updated
// record and whether it was waiting for this response.
func (s *Store) Apply(p scene.PropertiesFamily) (*Record, bool) {
	r, ok := s.records[p.ObjectID]
	if !ok {
		r = &Record{}
		s.records[p.ObjectID] = r
	}

	wasPending := !r.Ready
	if wasPending && s.pending > 0 {
		s.pending--
	}
	r.apply(p, s.now())
	return r, wasPending
}

// Clear drops every record and resets the pending counter.
func (s *Store) Clear() {
	clear(s.records)
	s.pending = 0
}

// Len returns the number of records, ready or not.
func (s *Store) Len() int {
	return len(s.records)
}

// Ready returns the number of records that have received a response.
func (s *Store) Ready() int {
	n := 0
	for _, r := range s.records {
		if r.Ready {
			n++
		}
	}
	return n
}

// Pending returns the number of requests waiting for a response.
func (s *Store) Pending() int {
	return s.pending
}
