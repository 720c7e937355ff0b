// Package engine wires the playground together: window, renderer, managers, edit channel and render loop.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/Overpeek/shaderpg/common"
	"github.com/Overpeek/shaderpg/engine/channel"
	"github.com/Overpeek/shaderpg/engine/clock"
	"github.com/Overpeek/shaderpg/engine/loop"
	"github.com/Overpeek/shaderpg/engine/manager"
	"github.com/Overpeek/shaderpg/engine/overlay"
	"github.com/Overpeek/shaderpg/engine/profiler"
	"github.com/Overpeek/shaderpg/engine/renderer"
	"github.com/Overpeek/shaderpg/engine/window"
)

// DefaultTitle is the window title used when no container identifier is given.
const DefaultTitle = "shaderpg"

// engine implements the Engine interface.
type engine struct {
	window     window.Window
	ownsWindow bool
	title      string
	width      int
	height     int

	renderer  renderer.Renderer
	pipelines manager.PipelineManager
	textures  manager.TextureManager
	handle    channel.Handle
	driver    loop.Driver

	updateRate       float64
	profilingEnabled bool
	renderFrameLimit float64
	errorOverlay     bool
	hostWorkers      int
	maxTextureSize   uint32
	dropCallback     func(paths []string)
	rendererOptions  []renderer.RendererBuilderOption

	ctx      context.Context
	cancel   context.CancelFunc
	quitOnce sync.Once
}

// Engine owns a running playground. Run must be called from the main goroutine; every other
// method is safe to call from anywhere.
type Engine interface {
	// Handle returns the host side of the edit channel. Clone it freely.
	//
	// Returns:
	//   - channel.Handle: the handle bound to this engine's render loop
	Handle() channel.Handle

	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Run drives the render loop on the calling goroutine until the window closes, Quit is called
	// or a fatal error occurs, then releases every GPU object and the window.
	//
	// Returns:
	//   - error: nil on close or Quit, the fatal error otherwise
	Run() error

	// Quit stops the render loop. Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// Start creates a playground titled with containerID and returns it together with its handle.
// The render loop does not run until Engine.Run is called.
//
// Parameters:
//   - containerID: identifies the host container; used as the window title
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine, ready to Run
//   - channel.Handle: the handle the host submits edits through
//   - error: an error if the window or GPU could not be initialized
func Start(containerID string, options ...EngineBuilderOption) (Engine, channel.Handle, error) {
	opts := append([]EngineBuilderOption{withTitle(containerID)}, options...)
	e, err := NewEngine(opts...)
	if err != nil {
		return nil, nil, err
	}
	return e, e.Handle(), nil
}

// NewEngine creates an Engine with the provided options.
// A window is created unless WithWindow supplies one.
//
// Parameters:
//   - options: functional options for engine configuration (window, update rate, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if any component could not be initialized
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := newEngine(options...)
	if err := e.init(); err != nil {
		e.release()
		return nil, err
	}
	return e, nil
}

func newEngine(options ...EngineBuilderOption) *engine {
	e := &engine{
		updateRate: clock.DefaultRate,
	}
	for _, opt := range options {
		opt(e)
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	return e
}

func (e *engine) init() error {
	if e.window == nil {
		w, err := window.NewWindow(e.windowOptions()...)
		if err != nil {
			return fmt.Errorf("failed to create window: %w", err)
		}
		e.window = w
		e.ownsWindow = true
	}

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, e.window, e.rendererOptions...)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	e.renderer = r

	e.pipelines = manager.NewPipelineManager(r)
	var textureOpts []manager.TextureManagerBuilderOption
	if e.maxTextureSize > 0 {
		textureOpts = append(textureOpts, manager.WithMaxTextureSize(e.maxTextureSize))
	}
	e.textures, err = manager.NewTextureManager(r, textureOpts...)
	if err != nil {
		return fmt.Errorf("failed to create placeholder texture: %w", err)
	}

	handle, receiver := channel.New(channel.WithWorkers(e.hostWorkers))
	e.handle = handle

	driverOpts, err := e.driverOptions()
	if err != nil {
		return err
	}
	e.driver = loop.NewDriver(r, e.window, receiver, e.pipelines, e.textures, driverOpts...)

	common.Logger().Info("engine ready", "title", e.window.Title(), "width", e.window.Width(), "height", e.window.Height())
	return nil
}

func (e *engine) windowOptions() []window.WindowBuilderOption {
	opts := []window.WindowBuilderOption{window.WithTitle(common.Coalesce(e.title, DefaultTitle))}
	if e.width > 0 {
		opts = append(opts, window.WithWidth(e.width))
	}
	if e.height > 0 {
		opts = append(opts, window.WithHeight(e.height))
	}
	return opts
}

func (e *engine) driverOptions() ([]loop.DriverBuilderOption, error) {
	opts := []loop.DriverBuilderOption{
		loop.WithClock(clock.NewClock(clock.WithRate(e.updateRate), clock.WithImmediateTick(true))),
		loop.WithWindowSize(e.window.Width(), e.window.Height()),
		loop.WithRenderFrameLimit(e.renderFrameLimit),
	}
	if e.profilingEnabled {
		opts = append(opts, loop.WithProfiler(profiler.NewProfiler()))
	}
	if e.errorOverlay {
		rasterizer, err := overlay.NewRasterizer()
		if err != nil {
			return nil, fmt.Errorf("failed to create error overlay: %w", err)
		}
		opts = append(opts, loop.WithErrorOverlay(rasterizer))
	}
	if e.dropCallback != nil {
		opts = append(opts, loop.WithDropHandler(e.dropCallback))
	}
	return opts, nil
}

func (e *engine) Handle() channel.Handle {
	return e.handle
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() error {
	defer e.release()
	return e.driver.Run(e.ctx)
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.cancel()
	})
}

// release frees the managers before the renderer that created their resources, then the window.
func (e *engine) release() {
	if e.pipelines != nil {
		e.pipelines.Release()
		e.pipelines = nil
	}
	if e.textures != nil {
		e.textures.Release()
		e.textures = nil
	}
	if e.renderer != nil {
		e.renderer.Release()
		e.renderer = nil
	}
	if e.window != nil && e.ownsWindow {
		if err := e.window.Close(); err != nil {
			common.Logger().Warn("failed to close window", "error", err)
		}
	}
}
