package duplex

import "time"

// playbackClock hands out gapless start times for inbound audio chunks.
// Chunks are scheduled in arrival order: each one starts either now or
// exactly when the previous chunk ends, whichever is later. The horizon
// only moves when a chunk is actually accepted, so dropped chunks leave
// scheduling untouched.
type playbackClock struct {
	now  func() time.Time
	next time.Time
}

func newPlaybackClock(now func() time.Time) *playbackClock {
	if now == nil {
		now = time.Now
	}
	return &playbackClock{now: now}
}

// schedule reserves a slot for a chunk of the given duration and
// returns its start time.
func (c *playbackClock) schedule(d time.Duration) time.Time {
	start := c.now()
	if c.next.After(start) {
		start = c.next
	}
	c.next = start.Add(d)
	return start
}

// ahead reports how far past now the horizon currently extends.
func (c *playbackClock) ahead() time.Duration {
	d := c.next.Sub(c.now())
	if d < 0 {
		return 0
	}
	return d
}

// reset discards the horizon so the next chunk starts immediately.
// Used when the model is interrupted and queued audio goes stale.
func (c *playbackClock) reset() {
	c.next = time.Time{}
}
