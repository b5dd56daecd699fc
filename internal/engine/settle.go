package engine

import (
	"context"
	"errors"
	"time"

	"github.com/rshade/areasearch/internal/scene"
)

// ErrEventsClosed is returned when the host event channel closes mid-scan.
var ErrEventsClosed = errors.New("host event channel closed")

// Settle runs a headless search: it refreshes once, then feeds host events
// into the session, refreshing after each, until no request is pending and
// no event has arrived for quiet. It returns the result of a final refresh.
//
// Requests that are never answered keep it waiting until ctx is done; the
// last result is returned with ctx.Err().
func (s *Session) Settle(ctx context.Context, events <-chan scene.Event, quiet time.Duration) (Result, error) {
	if quiet < s.minInterval {
		quiet = s.minInterval
	}

	s.CheckRegion()
	last, _ := s.Refresh(ctx)

	timer := time.NewTimer(quiet)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return last, ErrEventsClosed
			}
			s.Dispatch(ctx, ev)
			if r, ran := s.Refresh(ctx); ran {
				last = r
			}
			timer.Reset(quiet)

		case <-timer.C:
			if r, ran := s.Refresh(ctx); ran {
				last = r
			}
			if s.Pending() == 0 {
				return last, nil
			}
			s.logger.Debug().Int("pending", s.Pending()).Msg("waiting for unanswered requests")
			timer.Reset(quiet)
		}
	}
}
