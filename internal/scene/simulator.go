package scene

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultEventBuffer is the capacity of the simulator's event channel.
const DefaultEventBuffer = 256

// ErrSimulatorClosed is returned by requests made after Close.
var ErrSimulatorClosed = errors.New("simulator is closed")

// TrackRequest records a call to the Tracker.
type TrackRequest struct {
	ObjectID uuid.UUID
	Position Vector
	Label    string
}

// Simulator is an in-memory viewer host built from a World.
// It implements Registry, Agent, Transport, NameCache and Tracker.
// Responses are published on Events after the configured latency.
// All methods are safe for concurrent use.
type Simulator struct {
	mu sync.Mutex

	region  RegionHandle
	regions []RegionHandle
	objects []Object
	index   map[uuid.UUID]int
	props   map[uuid.UUID]PropertiesFamily

	people map[uuid.UUID]string
	groups map[uuid.UUID]string
	cached map[uuid.UUID]bool

	latency  time.Duration
	requests int
	tracked  []TrackRequest

	events chan Event
	done   chan struct{}
	closed bool

	logger zerolog.Logger
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithLatency delays every response by d.
func WithLatency(d time.Duration) SimulatorOption {
	return func(s *Simulator) {
		if d > 0 {
			s.latency = d
		}
	}
}

// WithLogger sets the simulator's logger.
func WithLogger(l zerolog.Logger) SimulatorOption {
	return func(s *Simulator) {
		s.logger = l.With().Str("component", "simulator").Logger()
	}
}

// NewSimulator builds a host from a validated world.
func NewSimulator(w *World, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		region: RegionHandle(w.Agent.Region),
		index:  make(map[uuid.UUID]int, len(w.Objects)),
		props:  make(map[uuid.UUID]PropertiesFamily, len(w.Objects)),
		people: make(map[uuid.UUID]string, len(w.People)),
		groups: make(map[uuid.UUID]string, len(w.Groups)),
		cached: make(map[uuid.UUID]bool),
		events: make(chan Event, DefaultEventBuffer),
		done:   make(chan struct{}),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, r := range w.Regions {
		s.regions = append(s.regions, RegionHandle(r.Handle))
	}
	for _, p := range w.People {
		s.people[uuid.MustParse(p.ID)] = p.Name
	}
	for _, g := range w.Groups {
		s.groups[uuid.MustParse(g.ID)] = g.Name
	}
	for _, o := range w.Objects {
		obj := o.object()
		s.index[obj.ID] = len(s.objects)
		s.objects = append(s.objects, obj)
		s.props[obj.ID] = o.properties()
	}

	return s
}

// Events returns the channel responses are published on.
func (s *Simulator) Events() <-chan Event {
	return s.events
}

// Close stops delivery of pending responses. Events is not closed, so a
// consumer blocked on it must also watch its own context.
func (s *Simulator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

// Objects implements Registry.
func (s *Simulator) Objects() []Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Find implements Registry.
func (s *Simulator) Find(id uuid.UUID) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return Object{}, false
	}
	return s.objects[i], true
}

// Region implements Agent.
func (s *Simulator) Region() RegionHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.region
}

// Teleport moves the agent to region h.
func (s *Simulator) Teleport(h RegionHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug().Stringer("from", s.region).Stringer("to", h).Msg("teleport")
	s.region = h
}

// TeleportNext moves the agent to the next declared region and returns it.
func (s *Simulator) TeleportNext() RegionHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.region
	for i, h := range s.regions {
		if h == s.region {
			next = s.regions[(i+1)%len(s.regions)]
			break
		}
	}
	s.logger.Debug().Stringer("from", s.region).Stringer("to", next).Msg("teleport")
	s.region = next
	return next
}

// Remove drops an object from the registry, as when it is derezzed.
func (s *Simulator) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.objects = append(s.objects[:i], s.objects[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.objects); j++ {
		s.index[s.objects[j].ID] = j
	}
	return true
}

// Requests returns how many property requests were received.
func (s *Simulator) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// RequestObjectPropertiesFamily implements Transport. Unknown objects never
// get a response, like a server that dropped the request.
func (s *Simulator) RequestObjectPropertiesFamily(_ context.Context, objectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSimulatorClosed
	}
	s.requests++

	props, ok := s.props[objectID]
	if !ok {
		s.logger.Debug().Stringer("object_id", objectID).Msg("no properties for object, request dropped")
		return nil
	}
	s.deliverLocked(props)
	return nil
}

// FullName implements NameCache.
func (s *Simulator) FullName(id uuid.UUID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cached[id] {
		return "", false
	}
	name, ok := s.people[id]
	return name, ok
}

// GroupName implements NameCache.
func (s *Simulator) GroupName(id uuid.UUID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cached[id] {
		return "", false
	}
	name, ok := s.groups[id]
	return name, ok
}

// Request implements NameCache. Keys the world does not know are never
// resolved.
func (s *Simulator) Request(id uuid.UUID, isGroup bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	table := s.people
	if isGroup {
		table = s.groups
	}
	name, ok := table[id]
	if !ok {
		return
	}

	if s.cached[id] {
		s.deliverLocked(NameResolved{ID: id, IsGroup: isGroup, Name: name})
		return
	}
	ev := NameResolved{ID: id, IsGroup: isGroup, Name: name}
	s.afterLocked(func() {
		s.mu.Lock()
		s.cached[id] = true
		s.mu.Unlock()
		s.publish(ev)
	})
}

// TrackLocation implements Tracker.
func (s *Simulator) TrackLocation(pos Vector, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracked = append(s.tracked, TrackRequest{Position: pos, Label: label})
}

// LookAt implements Tracker.
func (s *Simulator) LookAt(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.tracked); n > 0 && s.tracked[n-1].ObjectID == uuid.Nil {
		s.tracked[n-1].ObjectID = id
		return
	}
	s.tracked = append(s.tracked, TrackRequest{ObjectID: id})
}

// Tracked returns every tracking request made so far.
func (s *Simulator) Tracked() []TrackRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TrackRequest, len(s.tracked))
	copy(out, s.tracked)
	return out
}

func (s *Simulator) deliverLocked(ev Event) {
	s.afterLocked(func() { s.publish(ev) })
}

// afterLocked runs f on another goroutine after the configured latency.
func (s *Simulator) afterLocked(f func()) {
	if s.latency > 0 {
		time.AfterFunc(s.latency, f)
		return
	}
	go f()
}

func (s *Simulator) publish(ev Event) {
	select {
	case <-s.done:
	case s.events <- ev:
	}
}
