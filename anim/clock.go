package anim

import "time"

// Clock is the monotonic time source of the driver.
// Sample returns the seconds since the previous sample and the seconds since
// the clock was created.
type Clock interface {
	Sample() (delta, elapsed float64)
}

type systemClock struct {
	now   func() time.Time
	start time.Time
	last  time.Time
}

// NewClock returns a Clock backed by the monotonic wall clock.
func NewClock() Clock {
	return newSystemClock(time.Now)
}

func newSystemClock(now func() time.Time) *systemClock {
	t := now()
	return &systemClock{now: now, start: t, last: t}
}

func (c *systemClock) Sample() (float64, float64) {
	t := c.now()
	delta := t.Sub(c.last).Seconds()
	c.last = t
	return delta, t.Sub(c.start).Seconds()
}

// ManualClock advances by a fixed step on every sample. It drives headless
// runs and tests.
type ManualClock struct {
	Step    float64
	elapsed float64
}

// NewManualClock creates a clock advancing step seconds per sample.
func NewManualClock(step float64) *ManualClock {
	return &ManualClock{Step: step}
}

func (c *ManualClock) Sample() (float64, float64) {
	c.elapsed += c.Step
	return c.Step, c.elapsed
}
