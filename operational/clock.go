package operational

import "sync/atomic"

// Clock is the logical clock stamping operations within one diff call.
// Timestamps are strictly increasing from the seed; ordering is
// caller-imposed, never wall-clock-guaranteed. Safe for concurrent use,
// though a diff call drives it from a single goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClockAt returns a clock whose first Next call yields start.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the current timestamp and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1) - 1
}

// Current returns the next timestamp that would be issued.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
