package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/dressup/pkg/pipeline"
)

// SessionHeader carries the client session ID in requests and responses.
const SessionHeader = "X-Dressup-Session"

type sessionEntry struct {
	planner  *pipeline.Planner
	lastUsed time.Time
}

// sessions maps client IDs to planners. Idle sessions expire after ttl; when
// full, the least recently used one is evicted.
type sessions struct {
	mu     sync.Mutex
	m      map[string]*sessionEntry
	ttl    time.Duration
	max    int
	create func(id string) *pipeline.Planner
	now    func() time.Time
}

func newSessions(ttl time.Duration, max int, mk func(string) *pipeline.Planner) *sessions {
	return &sessions{
		m:      make(map[string]*sessionEntry),
		ttl:    ttl,
		max:    max,
		create: mk,
		now:    time.Now,
	}
}

// get returns the planner for id, creating one if id is unknown. An id that
// is not a UUID is replaced with a fresh one. The returned id is the one the
// client should send next time.
func (s *sessions) get(id string) (*pipeline.Planner, string) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.m[id]; ok && now.Sub(e.lastUsed) <= s.ttl {
		e.lastUsed = now
		return e.planner, id
	}

	s.sweep(now)
	if len(s.m) >= s.max {
		s.evictOldest()
	}
	e := &sessionEntry{planner: s.create(id), lastUsed: now}
	s.m[id] = e
	return e.planner, id
}

func (s *sessions) sweep(now time.Time) {
	for id, e := range s.m {
		if now.Sub(e.lastUsed) > s.ttl {
			delete(s.m, id)
		}
	}
}

func (s *sessions) evictOldest() {
	var (
		oldest string
		at     time.Time
	)
	for id, e := range s.m {
		if oldest == "" || e.lastUsed.Before(at) {
			oldest, at = id, e.lastUsed
		}
	}
	delete(s.m, oldest)
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
