package engine

import (
	"github.com/Overpeek/shaderpg/engine/renderer"
	"github.com/Overpeek/shaderpg/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

func withTitle(title string) EngineBuilderOption {
	return func(e *engine) {
		e.title = title
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally. The engine does not close a window it did not create.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithSize sets the initial size of the window the engine creates.
//
// Parameters:
//   - width: window width in pixels (0 keeps the window default)
//   - height: window height in pixels (0 keeps the window default)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSize(width, height int) EngineBuilderOption {
	return func(e *engine) {
		e.width = width
		e.height = height
	}
}

// WithUpdateRate sets how many times per second the render loop checks for a pending edit.
// Values <= 0 are treated as the clock default (once per second).
//
// Parameters:
//   - perSecond: edit checks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithUpdateRate(perSecond float64) EngineBuilderOption {
	return func(e *engine) {
		e.updateRate = perSecond
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps < 0 {
			fps = 0
		}
		e.renderFrameLimit = fps
	}
}

// WithErrorOverlay draws the most recent failed outcome over the frame until the next successful edit.
func WithErrorOverlay(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.errorOverlay = enabled
	}
}

// WithPresentMode sets the surface present mode. The default is renderer.PresentModeVSync.
//
// Parameters:
//   - mode: the PresentMode to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPresentMode(mode renderer.PresentMode) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, renderer.WithPresentMode(mode))
	}
}

// WithRendererOptions passes options through to the renderer, e.g. renderer.WithMSAA or renderer.WithClearColor.
func WithRendererOptions(opts ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, opts...)
	}
}

// WithHostWorkers bounds the number of asynchronous host sends running at once.
// Values <= 0 give each asynchronous send its own goroutine.
//
// Parameters:
//   - workers: maximum number of concurrent host tasks
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithHostWorkers(workers int) EngineBuilderOption {
	return func(e *engine) {
		e.hostWorkers = workers
	}
}

// WithDropCallback calls fn with the paths of files dropped onto the window.
// fn runs on its own goroutine, so it may read files and submit edits synchronously.
func WithDropCallback(fn func(paths []string)) EngineBuilderOption {
	return func(e *engine) {
		e.dropCallback = fn
	}
}

// WithMaxTextureSize sets the largest accepted image width or height. 0 keeps the manager default.
func WithMaxTextureSize(size uint32) EngineBuilderOption {
	return func(e *engine) {
		e.maxTextureSize = size
	}
}
