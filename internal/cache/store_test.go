package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fixedClock is a mutable test clock assigned to Store.now.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore[V any](ttl time.Duration) (*Store[V], *fixedClock) {
	s := New[V](ttl)
	clk := &fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s.now = clk.Now
	return s, clk
}

func TestPutGet_RoundTrip(t *testing.T) {
	s, _ := newTestStore[string](time.Hour)

	s.Put("k", "value")
	got, ok := s.Get("k")
	if !ok {
		t.Fatalf("expected hit for fresh entry")
	}
	if got != "value" {
		t.Fatalf("Get = %q; want %q", got, "value")
	}
}

func TestGet_MissingKey(t *testing.T) {
	s, _ := newTestStore[int](time.Hour)

	if v, ok := s.Get("absent"); ok {
		t.Fatalf("expected miss, got %v", v)
	}
}

func TestGet_ExpiredEntryIsEvicted(t *testing.T) {
	s, clk := newTestStore[string](24 * time.Hour)

	s.Put("k", "v")
	clk.Advance(24*time.Hour + time.Minute)

	if _, ok := s.Get("k"); ok {
		t.Fatalf("expected miss after TTL elapsed")
	}
	// Eviction is a side effect of the lookup: size must have decreased.
	if n := s.Len(); n != 0 {
		t.Fatalf("Len after expired Get = %d; want 0", n)
	}
}

func TestGet_JustBeforeTTLStillFresh(t *testing.T) {
	s, clk := newTestStore[string](24 * time.Hour)

	s.Put("k", "v")
	clk.Advance(24*time.Hour - time.Second)

	if _, ok := s.Get("k"); !ok {
		t.Fatalf("entry within TTL should be served")
	}
}

func TestPut_ReplacesWholesale(t *testing.T) {
	s, clk := newTestStore[string](time.Hour)

	s.Put("k", "old")
	clk.Advance(50 * time.Minute)
	s.Put("k", "new")
	// The replacement re-stamped the entry; advancing past the original
	// expiry must not evict it.
	clk.Advance(30 * time.Minute)

	got, ok := s.Get("k")
	if !ok || got != "new" {
		t.Fatalf("Get = %q, %v; want \"new\", true", got, ok)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d; want 1", s.Len())
	}
}

func TestSweep_RemovesOnlyExpired(t *testing.T) {
	s, clk := newTestStore[int](time.Hour)

	s.Put("old", 1)
	clk.Advance(59 * time.Minute)
	s.Put("fresh", 2)
	clk.Advance(2 * time.Minute) // "old" is now past TTL, "fresh" is not

	if removed := s.Sweep(); removed != 1 {
		t.Fatalf("Sweep removed %d; want 1", removed)
	}
	if _, ok := s.Get("fresh"); !ok {
		t.Fatalf("fresh entry must survive the sweep")
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d; want 1", s.Len())
	}
}

func TestZeroTTL_DisablesExpiry(t *testing.T) {
	s, clk := newTestStore[int](0)

	s.Put("k", 7)
	clk.Advance(1000 * time.Hour)
	if _, ok := s.Get("k"); !ok {
		t.Fatalf("ttl<=0 should disable expiry")
	}
	if removed := s.Sweep(); removed != 0 {
		t.Fatalf("Sweep removed %d; want 0", removed)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New[int](time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", j%10)
				s.Put(key, n)
				s.Get(key)
				if j%50 == 0 {
					s.Sweep()
				}
			}
		}(i)
	}
	wg.Wait()

	if s.Len() == 0 {
		t.Fatalf("expected entries to remain after concurrent writes")
	}
}

func TestStartSweeper_StopsOnClose(t *testing.T) {
	s := New[int](time.Nanosecond)
	stop := make(chan struct{})
	s.StartSweeper(time.Millisecond, stop)

	s.Put("k", 1)
	time.Sleep(20 * time.Millisecond)
	close(stop)

	if s.Len() != 0 {
		t.Fatalf("sweeper should have evicted the expired entry")
	}
}
