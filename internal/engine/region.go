package engine

import "github.com/rshade/areasearch/internal/scene"

// RegionTracker remembers the last region a session saw.
type RegionTracker struct {
	last scene.RegionHandle
	seen bool
}

// Check records current and reports whether it differs from the last region
// checked. The first check always reports a change.
func (t *RegionTracker) Check(current scene.RegionHandle) bool {
	if t.seen && current == t.last {
		return false
	}
	t.last = current
	t.seen = true
	return true
}

// Last returns the last region checked.
func (t *RegionTracker) Last() scene.RegionHandle {
	return t.last
}
