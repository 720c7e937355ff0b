package loop

import (
	"time"

	"github.com/Overpeek/shaderpg/engine/clock"
	"github.com/Overpeek/shaderpg/engine/input"
	"github.com/Overpeek/shaderpg/engine/overlay"
	"github.com/Overpeek/shaderpg/engine/profiler"
)

// DriverBuilderOption is a functional option for configuring a Driver.
type DriverBuilderOption func(*driver)

// WithClock sets the clock that paces edit handling.
//
// Parameters:
//   - c: the clock; the driver stops it when Run returns
//
// Returns:
//   - DriverBuilderOption: option function to apply
func WithClock(c clock.Clock) DriverBuilderOption {
	return func(d *driver) {
		d.clock = c
	}
}

// WithTimeSource replaces time.Now for the time uniform.
func WithTimeSource(now func() time.Time) DriverBuilderOption {
	return func(d *driver) {
		if now != nil {
			d.now = now
		}
	}
}

// WithWindowSize sets the initial window size used before the first resize event.
//
// Parameters:
//   - width: framebuffer width in pixels
//   - height: framebuffer height in pixels
//
// Returns:
//   - DriverBuilderOption: option function to apply
func WithWindowSize(width, height int) DriverBuilderOption {
	return func(d *driver) {
		d.state.Apply(input.Resize(width, height))
	}
}

// WithRenderFrameLimit caps the loop at fps frames per second. Pass 0 to leave it uncapped.
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - DriverBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) DriverBuilderOption {
	return func(d *driver) {
		if fps <= 0 {
			d.frameLimit = 0
			return
		}
		d.frameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithProfiler ticks p once per frame.
func WithProfiler(p *profiler.Profiler) DriverBuilderOption {
	return func(d *driver) {
		d.profiler = p
	}
}

// WithErrorOverlay draws the latest failed outcome over the frame until the next successful edit.
//
// Parameters:
//   - r: rasterizes diagnostics; nil disables the overlay
//
// Returns:
//   - DriverBuilderOption: option function to apply
func WithErrorOverlay(r overlay.Rasterizer) DriverBuilderOption {
	return func(d *driver) {
		d.overlay = r
	}
}

// WithDropHandler calls fn with the paths of files dropped onto the window.
// fn runs on its own goroutine, so it may block without stalling frames.
func WithDropHandler(fn func(paths []string)) DriverBuilderOption {
	return func(d *driver) {
		d.onDrop = fn
	}
}
