// Package cache provides a small, concurrency-safe, in-memory key/value
// store with per-entry expiry. It exists purely as a performance
// optimization in front of the upstream gateways: losing its contents on
// restart is acceptable and never a correctness problem.
//
// Design:
//   - Generic over the value type so each gateway gets a typed store
//   - Expired entries are evicted as a side effect of Get
//   - Put replaces an existing entry wholesale (entries are never mutated)
//   - An optional background sweep bounds memory growth between lookups
//   - No logging in the library (callers decide how/what to log)
package cache

import (
	"sync"
	"time"
)

// entry pairs a cached value with the time it was stored.
type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Store is a TTL-bounded in-memory map. The zero value is not usable;
// construct with New. Safe for concurrent use.
type Store[V any] struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]entry[V]

	// now is a test seam; defaults to time.Now.
	now func() time.Time
}

// New constructs a Store whose entries expire ttl after they are put.
// A non-positive ttl disables expiry.
func New[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// Get returns the value stored under key and true when present and fresh.
// An expired entry is deleted before reporting a miss, so repeated lookups
// of stale keys do not accumulate garbage.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if s.expired(e, s.now()) {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent Put may have
		// refreshed the entry since the read above.
		if cur, still := s.entries[key]; still && s.expired(cur, s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Put stores value under key, replacing any existing entry and stamping
// the current time.
func (s *Store[V]) Put(key string, value V) {
	now := s.now()
	s.mu.Lock()
	s.entries[key] = entry[V]{value: value, storedAt: now}
	s.mu.Unlock()
}

// Len reports the number of entries currently held, including any that
// have expired but not yet been swept.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes every expired entry and returns how many were evicted.
func (s *Store[V]) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until stop is closed. It returns
// immediately; the sweep runs on its own goroutine. Intervals <= 0 disable
// the sweeper.
func (s *Store[V]) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.Sweep()
			case <-stop:
				return
			}
		}
	}()
}

func (s *Store[V]) expired(e entry[V], now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.storedAt) > s.ttl
}
