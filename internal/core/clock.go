package core

// Clock is the monotone simulation clock used to timestamp output. Time is
// derived from the step count rather than accumulated, so long runs do not
// drift.
type Clock struct {
	start float64
	dt    float64
	steps int
}

// NewClock constructs a clock starting at start and advancing dt per step. A
// non-positive dt falls back to 1.
func NewClock(start, dt float64) *Clock {
	if dt <= 0 {
		dt = 1
	}
	return &Clock{start: start, dt: dt}
}

// Time returns the current simulation time.
func (c *Clock) Time() float64 { return c.start + float64(c.steps)*c.dt }

// Dt returns the time increment per step.
func (c *Clock) Dt() float64 { return c.dt }

// Steps returns the number of completed steps.
func (c *Clock) Steps() int { return c.steps }

// Advance completes one step.
func (c *Clock) Advance() { c.steps++ }

// Reset rewinds the clock to its start time.
func (c *Clock) Reset() { c.steps = 0 }
