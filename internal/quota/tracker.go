// Package quota tracks observed upstream rate-limit and quota signals.
//
// The tracker is advisory only: it never blocks or throttles outgoing
// calls. It exists so that the /status endpoint can report how much of
// each provider's budget has been consumed, and so gateway failures can
// be translated into specific user-facing error kinds with some context.
//
// Two providers are tracked:
//   - Search provider: a process-side daily call counter that lazily
//     resets once more than 24h have elapsed since the last reset.
//   - Availability provider: remaining/limit counters as most recently
//     reported by upstream response telemetry; unknown until observed.
package quota

import (
	"sync"
	"time"

	"github.com/sushilbang/stream-where/internal/domain"
)

// searchWindow is how long a search-provider counting window lasts.
const searchWindow = 24 * time.Hour

// Tracker holds process-wide quota state. Construct with New; safe for
// concurrent use.
type Tracker struct {
	mu sync.Mutex

	searchCount   int
	searchResetAt time.Time

	availRemaining *int
	availLimit     *int

	// now is a test seam; defaults to time.Now.
	now func() time.Time
}

// New returns a Tracker with an empty window starting now.
func New() *Tracker {
	t := &Tracker{now: time.Now}
	t.searchResetAt = t.now()
	return t
}

// RecordSearchCall increments the search-provider daily counter, first
// resetting the window if it is stale. Called by the metadata gateway on
// every outgoing network call, cache hits excluded.
func (t *Tracker) RecordSearchCall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.maybeResetLocked()
	t.searchCount++
}

// RecordAvailabilityTelemetry stores the latest remaining/limit counters
// reported by the availability provider. Negative values are ignored so a
// missing header never clobbers a previously observed reading.
func (t *Tracker) RecordAvailabilityTelemetry(remaining, limit int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if remaining >= 0 {
		r := remaining
		t.availRemaining = &r
	}
	if limit >= 0 {
		l := limit
		t.availLimit = &l
	}
}

// Snapshot returns a read-only copy of the current quota state. The lazy
// daily reset is applied on read as well, so a snapshot taken after a
// quiet day reports a fresh window.
func (t *Tracker) Snapshot() domain.QuotaSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.maybeResetLocked()

	snap := domain.QuotaSnapshot{
		SearchDailyCount: t.searchCount,
		SearchResetAt:    t.searchResetAt,
	}
	if t.availRemaining != nil {
		r := *t.availRemaining
		snap.AvailabilityRemaining = &r
	}
	if t.availLimit != nil {
		l := *t.availLimit
		snap.AvailabilityLimit = &l
	}
	return snap
}

// maybeResetLocked starts a new counting window when the current one is
// older than 24h. Caller must hold t.mu.
func (t *Tracker) maybeResetLocked() {
	if now := t.now(); now.Sub(t.searchResetAt) > searchWindow {
		t.searchCount = 0
		t.searchResetAt = now
	}
}
