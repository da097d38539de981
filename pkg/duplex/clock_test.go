package duplex

import (
	"testing"
	"time"
)

// fakeTime is a manually advanced clock for scheduling tests.
type fakeTime struct {
	t time.Time
}

func newFakeTime() *fakeTime {
	return &fakeTime{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeTime) now() time.Time          { return f.t }
func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClockFirstChunkStartsNow(t *testing.T) {
	ft := newFakeTime()
	clock := newPlaybackClock(ft.now)

	start := clock.schedule(100 * time.Millisecond)
	if !start.Equal(ft.now()) {
		t.Errorf("start = %v, want %v", start, ft.now())
	}
}

func TestClockBurstIsGapless(t *testing.T) {
	ft := newFakeTime()
	clock := newPlaybackClock(ft.now)

	// Three chunks arrive in the same instant. Each must start
	// exactly when the previous one ends.
	durs := []time.Duration{100 * time.Millisecond, 250 * time.Millisecond, 50 * time.Millisecond}
	prev := ft.now()
	for i, d := range durs {
		start := clock.schedule(d)
		if !start.Equal(prev) {
			t.Errorf("chunk %d starts at %v, want %v", i, start, prev)
		}
		prev = start.Add(d)
	}
}

func TestClockIdleGapResets(t *testing.T) {
	ft := newFakeTime()
	clock := newPlaybackClock(ft.now)

	clock.schedule(100 * time.Millisecond)

	// After the horizon has passed, the next chunk starts now, not at
	// the stale horizon.
	ft.advance(time.Second)
	start := clock.schedule(100 * time.Millisecond)
	if !start.Equal(ft.now()) {
		t.Errorf("start = %v, want now %v", start, ft.now())
	}
}

func TestClockMonotonic(t *testing.T) {
	ft := newFakeTime()
	clock := newPlaybackClock(ft.now)

	var prevStart, prevEnd time.Time
	durs := []time.Duration{
		30 * time.Millisecond, 200 * time.Millisecond, 10 * time.Millisecond,
		500 * time.Millisecond, 80 * time.Millisecond,
	}
	for i, d := range durs {
		start := clock.schedule(d)
		if i > 0 {
			if start.Before(prevStart) {
				t.Fatalf("chunk %d start %v before previous start %v", i, start, prevStart)
			}
			if start.Before(prevEnd) {
				t.Fatalf("chunk %d start %v overlaps previous end %v", i, start, prevEnd)
			}
		}
		prevStart = start
		prevEnd = start.Add(d)
		// Arrival times jitter but never run backwards.
		ft.advance(time.Duration(i) * 7 * time.Millisecond)
	}
}

func TestClockAhead(t *testing.T) {
	ft := newFakeTime()
	clock := newPlaybackClock(ft.now)

	if clock.ahead() != 0 {
		t.Fatalf("ahead = %v before any chunk", clock.ahead())
	}
	clock.schedule(300 * time.Millisecond)
	if got := clock.ahead(); got != 300*time.Millisecond {
		t.Errorf("ahead = %v, want 300ms", got)
	}
	ft.advance(time.Second)
	if got := clock.ahead(); got != 0 {
		t.Errorf("ahead = %v after horizon passed, want 0", got)
	}
}

func TestClockReset(t *testing.T) {
	ft := newFakeTime()
	clock := newPlaybackClock(ft.now)

	clock.schedule(10 * time.Second)
	clock.reset()
	start := clock.schedule(100 * time.Millisecond)
	if !start.Equal(ft.now()) {
		t.Errorf("start after reset = %v, want now %v", start, ft.now())
	}
}
