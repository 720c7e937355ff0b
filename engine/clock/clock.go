// Package clock provides the fixed-rate "check now" signal that paces edit handling in the render loop.
package clock

import (
	"sync"
	"time"
)

// DefaultRate is the number of checks per second when no rate is configured.
const DefaultRate = 1.0

// Clock signals at a fixed wall-clock rate, independent of how often it is polled.
type Clock interface {
	// Check reports whether a tick elapsed since the previous true result. It never blocks.
	// At most one tick is remembered, so a slow caller sees a single true rather than a burst.
	//
	// Returns:
	//   - bool: true if the caller should act this frame
	Check() bool

	// SetRate changes the tick rate. Values <= 0 restore DefaultRate.
	//
	// Parameters:
	//   - perSecond: ticks per second
	SetRate(perSecond float64)

	// Rate returns the current tick period.
	//
	// Returns:
	//   - time.Duration: time between ticks
	Rate() time.Duration

	// Stop releases the underlying timer. Check reports false afterwards.
	Stop()
}

// tickerClock implements Clock on top of a time.Ticker.
type tickerClock struct {
	mu        sync.Mutex
	ticker    *time.Ticker
	period    time.Duration
	immediate bool
	stopped   bool
}

var _ Clock = &tickerClock{}

// NewClock creates a running Clock.
// Applies defaults (DefaultRate, no immediate tick) and then each option in order.
//
// Parameters:
//   - options: functional options to configure the clock
//
// Returns:
//   - Clock: the started clock
func NewClock(options ...ClockBuilderOption) Clock {
	c := &tickerClock{
		period: periodOf(DefaultRate),
	}
	for _, opt := range options {
		opt(c)
	}
	c.ticker = time.NewTicker(c.period)
	return c
}

func (c *tickerClock) Check() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return false
	}
	if c.immediate {
		c.immediate = false
		return true
	}

	select {
	case <-c.ticker.C:
		return true
	default:
		return false
	}
}

func (c *tickerClock) SetRate(perSecond float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.period = periodOf(perSecond)
	if !c.stopped {
		c.ticker.Reset(c.period)
	}
}

func (c *tickerClock) Rate() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.period
}

func (c *tickerClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.stopped {
		c.stopped = true
		c.ticker.Stop()
	}
}

// periodOf converts a per-second rate into a tick period, falling back to DefaultRate.
func periodOf(perSecond float64) time.Duration {
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	period := time.Duration(float64(time.Second) / perSecond)
	if period <= 0 {
		period = time.Nanosecond
	}
	return period
}
