package engine

import "sync/atomic"

// Clock is the Store's logical clock. Every committed action is stamped
// with the next value, so a commit sequence number identifies one state
// transition regardless of wall time or goroutine scheduling.
//
// The Store calls Next only under its writer lock; the atomic makes
// Current safe to read from observers.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first commit is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that continues after start. Journal replay
// uses it to resume numbering from a recorded run.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next advances the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out, or the start value.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
