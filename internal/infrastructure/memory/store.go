// Package memory holds process-local stand-ins for shared stores.
// A Store is passed explicitly to whoever needs it; there is no package-level instance.
package memory

import (
	"sync"
	"time"
)

type entry struct {
	count     int64
	expiresAt time.Time // zero = no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Store is a mutex-guarded map of counters with per-key TTL.
// Expired keys are dropped lazily on access.
type Store struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{data: make(map[string]entry), now: now}
}

// Incr bumps the counter at key. A missing or expired key starts at 1 with
// a fresh ttl; live keys keep their original expiry.
func (s *Store) Incr(key string, ttl time.Duration) (int64, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key)
	if !ok {
		e = entry{expiresAt: s.expiry(ttl)}
	}
	e.count++
	s.data[key] = e
	return e.count, e.expiresAt
}

// Len counts live keys. It backs the tracked-keys gauge.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for k, e := range s.data {
		if e.expired(now) {
			delete(s.data, k)
			continue
		}
		n++
	}
	return n
}

// lookup must be called with mu held.
func (s *Store) lookup(key string) (entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return entry{}, false
	}
	if e.expired(s.now()) {
		delete(s.data, key)
		return entry{}, false
	}
	return e, true
}

func (s *Store) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}
