package quota

import (
	"sync"
	"testing"
	"time"
)

func newTestTracker() (*Tracker, *time.Time) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	now := start
	t := New()
	t.now = func() time.Time { return now }
	t.searchResetAt = start
	return t, &now
}

func TestRecordSearchCall_Counts(t *testing.T) {
	tr, _ := newTestTracker()

	for i := 0; i < 3; i++ {
		tr.RecordSearchCall()
	}
	snap := tr.Snapshot()
	if snap.SearchDailyCount != 3 {
		t.Fatalf("SearchDailyCount = %d; want 3", snap.SearchDailyCount)
	}
}

func TestSearchCounter_LazyDailyReset(t *testing.T) {
	tr, now := newTestTracker()

	tr.RecordSearchCall()
	tr.RecordSearchCall()

	// Within the window: counter persists.
	*now = now.Add(23 * time.Hour)
	if got := tr.Snapshot().SearchDailyCount; got != 2 {
		t.Fatalf("count within window = %d; want 2", got)
	}

	// Past the window: increment first resets, then counts.
	*now = now.Add(2 * time.Hour)
	tr.RecordSearchCall()
	snap := tr.Snapshot()
	if snap.SearchDailyCount != 1 {
		t.Fatalf("count after reset = %d; want 1", snap.SearchDailyCount)
	}
	if !snap.SearchResetAt.Equal(*now) {
		t.Fatalf("SearchResetAt = %v; want %v", snap.SearchResetAt, *now)
	}
}

func TestSearchCounter_ResetAppliesOnRead(t *testing.T) {
	tr, now := newTestTracker()

	tr.RecordSearchCall()
	*now = now.Add(25 * time.Hour)

	// No increment since the window lapsed; Snapshot alone must reset.
	snap := tr.Snapshot()
	if snap.SearchDailyCount != 0 {
		t.Fatalf("count after quiet day = %d; want 0", snap.SearchDailyCount)
	}
}

func TestAvailabilityTelemetry_AbsentUntilObserved(t *testing.T) {
	tr, _ := newTestTracker()

	snap := tr.Snapshot()
	if snap.AvailabilityRemaining != nil || snap.AvailabilityLimit != nil {
		t.Fatalf("availability counters should be nil before first observation")
	}

	tr.RecordAvailabilityTelemetry(87, 100)
	snap = tr.Snapshot()
	if snap.AvailabilityRemaining == nil || *snap.AvailabilityRemaining != 87 {
		t.Fatalf("AvailabilityRemaining = %v; want 87", snap.AvailabilityRemaining)
	}
	if snap.AvailabilityLimit == nil || *snap.AvailabilityLimit != 100 {
		t.Fatalf("AvailabilityLimit = %v; want 100", snap.AvailabilityLimit)
	}
}

func TestAvailabilityTelemetry_NegativeDoesNotClobber(t *testing.T) {
	tr, _ := newTestTracker()

	tr.RecordAvailabilityTelemetry(50, 100)
	tr.RecordAvailabilityTelemetry(-1, -1) // headers missing on this response
	snap := tr.Snapshot()
	if snap.AvailabilityRemaining == nil || *snap.AvailabilityRemaining != 50 {
		t.Fatalf("missing telemetry must not clobber last observation")
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	tr, _ := newTestTracker()
	tr.RecordAvailabilityTelemetry(10, 20)

	snap := tr.Snapshot()
	*snap.AvailabilityRemaining = 999

	if got := tr.Snapshot(); *got.AvailabilityRemaining != 10 {
		t.Fatalf("mutating a snapshot leaked into tracker state")
	}
}

func TestTracker_ConcurrentUse(t *testing.T) {
	tr := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.RecordSearchCall()
				tr.RecordAvailabilityTelemetry(j, 100)
				tr.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	if got := tr.Snapshot().SearchDailyCount; got != 800 {
		t.Fatalf("SearchDailyCount = %d; want 800", got)
	}
}
