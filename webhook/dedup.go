package webhook

import (
	"sync"
	"time"
)

// DefaultDedupWindow is how long message IDs are remembered. The platform
// redelivers unacknowledged notifications within minutes.
const DefaultDedupWindow = time.Hour

// seenSet remembers message IDs for a fixed window.
type seenSet struct {
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	ids       map[string]time.Time
	lastPrune time.Time
}

func newSeenSet(window time.Duration) *seenSet {
	return &seenSet{
		window: window,
		now:    time.Now,
		ids:    make(map[string]time.Time),
	}
}

// checkAndAdd records id and reports whether it was seen within the window.
// Expired entries are swept at most once per window.
func (s *seenSet) checkAndAdd(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastPrune) >= s.window {
		s.prune(now)
	}

	if at, ok := s.ids[id]; ok && now.Sub(at) <= s.window {
		return true
	}
	s.ids[id] = now
	return false
}

// prune must be called with lock held.
func (s *seenSet) prune(now time.Time) {
	for seen, at := range s.ids {
		if now.Sub(at) > s.window {
			delete(s.ids, seen)
		}
	}
	s.lastPrune = now
}

// forget removes id so a redelivery is processed again.
func (s *seenSet) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}
