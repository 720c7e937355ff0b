package clock

// ClockBuilderOption is a functional option for configuring a Clock.
type ClockBuilderOption func(*tickerClock)

// WithRate sets the number of ticks per second. Values <= 0 are treated as DefaultRate.
//
// Parameters:
//   - perSecond: ticks per second (default 1)
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithRate(perSecond float64) ClockBuilderOption {
	return func(c *tickerClock) {
		c.period = periodOf(perSecond)
	}
}

// WithImmediateTick makes the first Check after construction report true.
//
// Parameters:
//   - enabled: if true, the clock starts with a pending tick
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithImmediateTick(enabled bool) ClockBuilderOption {
	return func(c *tickerClock) {
		c.immediate = enabled
	}
}
