package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rshade/areasearch/internal/engine/cache"
	"github.com/rshade/areasearch/internal/scene"
)

// DefaultMinRefreshInterval is the shortest gap between refreshes while
// requests are outstanding.
const DefaultMinRefreshInterval = 250 * time.Millisecond

// ErrMissingDependency is returned when a session is built without a required
// host collaborator.
var ErrMissingDependency = errors.New("missing host dependency")

// Deps are the host collaborators a session reads from and writes to.
type Deps struct {
	Registry  scene.Registry
	Agent     scene.Agent
	Transport scene.Transport
	Names     scene.NameCache
	Tracker   scene.Tracker
}

func (d Deps) validate() error {
	switch {
	case d.Registry == nil:
		return errors.Join(ErrMissingDependency, errors.New("registry"))
	case d.Agent == nil:
		return errors.Join(ErrMissingDependency, errors.New("agent"))
	case d.Transport == nil:
		return errors.Join(ErrMissingDependency, errors.New("transport"))
	case d.Names == nil:
		return errors.Join(ErrMissingDependency, errors.New("name cache"))
	}
	return nil
}

// Options tune a session. Zero values select the defaults.
type Options struct {
	// MinRefreshInterval throttles refreshes while requests are outstanding.
	MinRefreshInterval time.Duration

	// FilterMinLength is the length a filter text must exceed to be active.
	FilterMinLength int

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time

	// Metrics receives session counters. Sessions created from the same
	// registry must share one Metrics value.
	Metrics *Metrics

	// Logger is the session's logger.
	Logger zerolog.Logger
}

// Session is the area search state for one open search window: the detail
// cache, the search criteria and the region it was filled in.
//
// A session is not safe for concurrent use; drive it from a single event loop.
type Session struct {
	deps     Deps
	cache    *cache.Store
	region   RegionTracker
	criteria Criteria

	minInterval time.Duration
	now         func() time.Time
	lastRefresh time.Time

	metrics *Metrics
	logger  zerolog.Logger
}

// NewSession creates a session with an empty cache for the agent's current
// region.
func NewSession(deps Deps, opts Options) (*Session, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	if opts.MinRefreshInterval <= 0 {
		opts.MinRefreshInterval = DefaultMinRefreshInterval
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}

	s := &Session{
		deps:        deps,
		cache:       cache.NewStore(opts.Clock),
		criteria:    NewCriteria(opts.FilterMinLength),
		minInterval: opts.MinRefreshInterval,
		now:         opts.Clock,
		metrics:     opts.Metrics,
		logger:      opts.Logger.With().Str("component", "session").Logger(),
	}
	s.region.Check(deps.Agent.Region())
	return s, nil
}

// CheckRegion compares the agent's region with the last one seen. On change
// it clears the detail cache and the pending counter, and reports true so the
// caller can clear its displayed rows.
func (s *Session) CheckRegion() bool {
	current := s.deps.Agent.Region()
	if !s.region.Check(current) {
		return false
	}

	dropped := s.cache.Len()
	s.cache.Clear()
	s.metrics.RegionChanges.Inc()
	s.updateGauges()
	s.logger.Debug().Stringer("region", current).Int("dropped", dropped).Msg("region changed, detail cache cleared")
	return true
}

// SetFilter stores filter text and reports whether the filter is active.
// Callers refresh only when it is.
func (s *Session) SetFilter(f Field, text string) bool {
	return s.criteria.Set(f, text)
}

// Filter returns the current filter for a field.
func (s *Session) Filter(f Field) Filter {
	return s.criteria.Get(f)
}

// ResetCriteria clears every filter.
func (s *Session) ResetCriteria() {
	s.criteria.Reset()
}

// Pending returns the number of requests waiting for a response.
func (s *Session) Pending() int {
	return s.cache.Pending()
}

// Known returns the number of detail records, ready or not.
func (s *Session) Known() int {
	return s.cache.Len()
}

// Region returns the region the cache belongs to.
func (s *Session) Region() scene.RegionHandle {
	return s.region.Last()
}

// Refresh scans the scene, requests details for unknown objects and returns
// the rows matching the criteria. It reports false, and does nothing, when
// requests are outstanding and the last refresh was less than the minimum
// interval ago.
func (s *Session) Refresh(ctx context.Context) (Result, bool) {
	now := s.now()
	if s.cache.Pending() > 0 && now.Sub(s.lastRefresh) < s.minInterval {
		s.metrics.Refreshes.WithLabelValues(refreshThrottled).Inc()
		return Result{}, false
	}

	region := s.deps.Agent.Region()
	rows := []Row{}

	for _, obj := range s.deps.Registry.Objects() {
		if !searchable(obj, region) {
			continue
		}

		rec, ok := s.cache.Get(obj.ID)
		if !ok {
			s.request(ctx, obj.ID)
			continue
		}
		if !rec.Ready {
			continue
		}

		owner, haveOwner := s.deps.Names.FullName(rec.OwnerID)
		group, haveGroup := s.deps.Names.GroupName(rec.GroupID)
		d := candidate{
			name:        rec.Name,
			description: rec.Description,
			owner:       owner,
			group:       group,
			haveOwner:   haveOwner,
			haveGroup:   haveGroup,
		}
		if !s.criteria.match(d) {
			continue
		}

		rows = append(rows, Row{
			ID:          obj.ID,
			Name:        rec.Name,
			Description: rec.Description,
			Owner:       owner,
			Group:       group,
		})
	}

	s.lastRefresh = now
	s.metrics.Refreshes.WithLabelValues(refreshRan).Inc()
	s.updateGauges()

	if e := s.logger.Debug(); e.Enabled() {
		e.Int("listed", len(rows)).
			Int("ready", s.cache.Ready()).
			Int("pending", s.cache.Pending()).
			Int("total", s.cache.Len()).
			Msg("refresh complete")
	}

	return Result{
		Rows: rows,
		Status: Status{
			Listed:  len(rows),
			Pending: s.cache.Pending(),
			Total:   s.cache.Len(),
		},
	}, true
}

// HandleProperties applies a properties-family response and starts owner and
// group name lookups. It first checks the region and reports whether that
// cleared the cache.
func (s *Session) HandleProperties(_ context.Context, p scene.PropertiesFamily) bool {
	changed := s.CheckRegion()

	rec, wasPending := s.cache.Apply(p)
	s.metrics.Responses.Inc()
	s.updateGauges()

	s.logger.Trace().
		Stringer("object_id", p.ObjectID).
		Bool("was_pending", wasPending).
		Dur("latency", rec.Latency()).
		Msg("object properties received")

	s.deps.Names.Request(rec.OwnerID, false)
	s.deps.Names.Request(rec.GroupID, true)
	return changed
}

// HandleNameResolved accepts a name-resolution completion. Names are read
// back from the name cache during the next refresh, so there is nothing to
// store here.
func (s *Session) HandleNameResolved(_ context.Context, n scene.NameResolved) {
	s.logger.Trace().Stringer("id", n.ID).Bool("group", n.IsGroup).Msg("name resolved")
}

// Dispatch routes a host event to its handler and reports whether it
// cleared the cache.
func (s *Session) Dispatch(ctx context.Context, ev scene.Event) bool {
	switch e := ev.(type) {
	case scene.PropertiesFamily:
		return s.HandleProperties(ctx, e)
	case scene.NameResolved:
		s.HandleNameResolved(ctx, e)
	default:
		s.logger.Debug().Str("event", ev.EventName()).Msg("ignoring unknown host event")
	}
	return false
}

// Locate returns a ready object and the label to track it with.
func (s *Session) Locate(id uuid.UUID) (scene.Object, string, bool) {
	obj, ok := s.deps.Registry.Find(id)
	if !ok {
		return scene.Object{}, "", false
	}
	rec, ok := s.cache.Get(id)
	if !ok {
		return obj, "", true
	}
	return obj, rec.Name, true
}

// Track points the host tracker at an object. It reports false when the
// object no longer exists or no tracker is configured.
func (s *Session) Track(id uuid.UUID) bool {
	if s.deps.Tracker == nil {
		return false
	}
	obj, label, ok := s.Locate(id)
	if !ok {
		return false
	}
	s.deps.Tracker.TrackLocation(obj.Position, label)
	s.deps.Tracker.LookAt(id)
	s.logger.Debug().Stringer("object_id", id).Str("label", label).Msg("tracking object")
	return true
}

func (s *Session) request(ctx context.Context, id uuid.UUID) {
	issued, err := s.cache.EnsureRequested(ctx, id, s.deps.Transport.RequestObjectPropertiesFamily)
	if err != nil {
		s.metrics.RequestFailures.Inc()
		s.logger.Warn().Err(err).Stringer("object_id", id).Msg("properties request failed")
		return
	}
	if issued {
		s.metrics.Requests.Inc()
	}
}

func (s *Session) updateGauges() {
	s.metrics.Pending.Set(float64(s.cache.Pending()))
	s.metrics.Cached.Set(float64(s.cache.Len()))
}

// searchable reports whether an object belongs in the search: a root prim in
// region that is not an avatar, an attachment or temporary.
func searchable(obj scene.Object, region scene.RegionHandle) bool {
	return obj.Region == region &&
		obj.Root &&
		!obj.Avatar &&
		!obj.Attachment &&
		!obj.Temporary &&
		!obj.TemporaryOnRez
}
