// Package loop drives the per-frame algorithm of the playground: dispatch window events, apply at most
// one edit per clock tick, upload the frame uniforms, draw and present.
package loop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Overpeek/shaderpg/common"
	"github.com/Overpeek/shaderpg/engine/channel"
	"github.com/Overpeek/shaderpg/engine/clock"
	"github.com/Overpeek/shaderpg/engine/input"
	"github.com/Overpeek/shaderpg/engine/manager"
	"github.com/Overpeek/shaderpg/engine/overlay"
	"github.com/Overpeek/shaderpg/engine/profiler"
	"github.com/Overpeek/shaderpg/engine/uniforms"
)

// ErrCloseRequested is returned by Frame once the window asked to close.
var ErrCloseRequested = errors.New("window close requested")

// Renderer is the GPU side of a frame.
type Renderer interface {
	// Resize reconfigures the presentation surface.
	Resize(width, height int)
	// WriteUniforms uploads the 16-byte frame uniform block.
	WriteUniforms(data []byte)
	// BeginFrame acquires the next surface texture and begins the render pass with the clear color.
	// An error wrapping common.ErrDeviceLost is fatal; any other error skips the frame.
	BeginFrame() error
	// Draw binds program and texture and draws the full-screen quad.
	Draw(program manager.Program, texture manager.Resource)
	// SetOverlay replaces the overlay image; nil hides it.
	SetOverlay(staging *common.TextureStagingData) error
	// DrawOverlay draws the overlay image on top of the frame.
	DrawOverlay()
	// EndFrame ends the render pass and submits the commands.
	EndFrame()
	// Present shows the frame.
	Present()
}

// EventSource delivers the window events that arrived since the previous call.
type EventSource interface {
	PollEvents() []input.Event
}

// Driver runs the render loop. All methods must be called from the goroutine that owns the window.
type Driver interface {
	// Frame runs one iteration of the loop.
	//
	// Returns:
	//   - error: ErrCloseRequested, channel.ErrChannelClosed or an error wrapping common.ErrDeviceLost
	Frame() error

	// Run calls Frame until the window closes, ctx is done or a fatal error occurs.
	// The channels are closed on return so pending and future host calls fail with channel.ErrChannelClosed.
	//
	// Parameters:
	//   - ctx: stops the loop when done
	//
	// Returns:
	//   - error: nil on close request or cancellation, the fatal error otherwise
	Run(ctx context.Context) error

	// WindowState returns the state after the most recent frame.
	WindowState() input.WindowState

	// Frames returns the number of presented frames.
	Frames() uint64
}

type driver struct {
	renderer  Renderer
	events    EventSource
	receiver  channel.Receiver
	pipelines manager.PipelineManager
	textures  manager.TextureManager

	clock      clock.Clock
	now        func() time.Time
	start      time.Time
	state      input.WindowState
	frameLimit time.Duration
	frames     uint64

	profiler *profiler.Profiler
	onDrop   func(paths []string)

	overlay        overlay.Rasterizer
	overlayMessage string
}

var _ Driver = &driver{}

// NewDriver creates a Driver over the given components.
// Defaults: a 1 Hz clock with an immediate first tick, time.Now, a 600x400 window with the cursor outside.
//
// Parameters:
//   - renderer: records and presents frames
//   - events: the window event source
//   - receiver: the render loop side of the edit channel
//   - pipelines: owns the active program
//   - textures: owns the bound texture
//   - options: functional options for the driver
//
// Returns:
//   - Driver: the driver, ready to Run
func NewDriver(
	renderer Renderer,
	events EventSource,
	receiver channel.Receiver,
	pipelines manager.PipelineManager,
	textures manager.TextureManager,
	options ...DriverBuilderOption,
) Driver {
	d := &driver{
		renderer:  renderer,
		events:    events,
		receiver:  receiver,
		pipelines: pipelines,
		textures:  textures,
		now:       time.Now,
		state:     input.NewWindowState(600, 400),
	}
	for _, opt := range options {
		opt(d)
	}
	if d.clock == nil {
		d.clock = clock.NewClock(clock.WithImmediateTick(true))
	}
	d.start = d.now()
	return d
}

func (d *driver) Frame() error {
	for _, ev := range d.events.PollEvents() {
		d.dispatch(ev)
	}
	if d.state.CloseRequested {
		return ErrCloseRequested
	}

	if d.clock.Check() {
		ev, ok, err := d.receiver.TryRecv()
		if err != nil {
			return err
		}
		if ok {
			msg := d.apply(ev)
			if err := d.receiver.Reply(ev, msg); err != nil {
				return err
			}
			d.setOverlay(msg)
		}
	}

	u := uniforms.Compute(d.state, d.now().Sub(d.start))
	d.renderer.WriteUniforms(u.Marshal())

	if err := d.renderer.BeginFrame(); err != nil {
		if errors.Is(err, common.ErrDeviceLost) {
			return err
		}
		common.Logger().Debug("frame skipped", "error", err)
		return nil
	}
	if active, ok := d.pipelines.State().(manager.Active); ok {
		d.renderer.Draw(active.Program, d.textures.Current())
	}
	if d.overlay != nil && d.overlayMessage != "" {
		d.renderer.DrawOverlay()
	}
	d.renderer.EndFrame()
	d.renderer.Present()
	d.frames++
	return nil
}

func (d *driver) Run(ctx context.Context) (err error) {
	defer d.clock.Stop()
	defer d.receiver.Close()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render loop panic: %v", r)
			common.Logger().Error("render loop recovered from panic", "panic", r)
		}
	}()

	common.Logger().Info("render loop started", "width", d.state.Width, "height", d.state.Height, "update_period", d.clock.Rate())
	for {
		if ctx.Err() != nil {
			common.Logger().Info("render loop stopped", "reason", ctx.Err(), "frames", d.frames)
			return nil
		}

		frameStart := time.Now()
		if err := d.Frame(); err != nil {
			if errors.Is(err, ErrCloseRequested) {
				common.Logger().Info("render loop stopped", "reason", err, "frames", d.frames)
				return nil
			}
			common.Logger().Error("render loop failed", "error", err, "frames", d.frames)
			return err
		}

		if d.profiler != nil {
			d.profiler.Tick()
		}
		if d.frameLimit > 0 {
			if remaining := d.frameLimit - time.Since(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

func (d *driver) WindowState() input.WindowState {
	return d.state
}

func (d *driver) Frames() uint64 {
	return d.frames
}

func (d *driver) dispatch(ev input.Event) {
	d.state.Apply(ev)
	switch ev.Kind {
	case input.EventResize:
		d.renderer.Resize(d.state.Width, d.state.Height)
		d.refreshOverlay()
	case input.EventFileDrop:
		common.Logger().Info("files dropped", "paths", ev.Paths)
		if d.onDrop != nil {
			// The handler reads files and submits edits, so it runs off the render loop.
			go d.onDrop(append([]string(nil), ev.Paths...))
		}
	}
}

// apply hands an edit to its manager and returns the outcome sent back to the host.
func (d *driver) apply(ev channel.EditEvent) string {
	common.Logger().Debug("edit received", "kind", ev.Kind, "bytes", ev.Size())
	switch ev.Kind {
	case channel.EditShaderSource:
		return d.pipelines.Update(ev.Source)
	case channel.EditTextureBytes:
		return d.textures.Update(ev.Bytes)
	default:
		return fmt.Sprintf("unsupported edit kind %d", ev.Kind)
	}
}

// setOverlay shows the latest failed outcome and hides the overlay after a successful one.
func (d *driver) setOverlay(msg string) {
	if d.overlay == nil {
		return
	}
	if msg == channel.OutcomeOK {
		if d.overlayMessage != "" {
			d.overlayMessage = ""
			if err := d.renderer.SetOverlay(nil); err != nil {
				common.Logger().Warn("failed to clear error overlay", "error", err)
			}
		}
		return
	}
	d.overlayMessage = msg
	d.refreshOverlay()
}

// refreshOverlay re-rasterizes the current message at the current window size.
func (d *driver) refreshOverlay() {
	if d.overlay == nil || d.overlayMessage == "" {
		return
	}
	staging, err := d.overlay.Render(d.overlayMessage, d.state.Width, d.state.Height)
	if err != nil {
		common.Logger().Debug("error overlay not rendered", "error", err)
		return
	}
	if err := d.renderer.SetOverlay(&staging); err != nil {
		common.Logger().Warn("failed to upload error overlay", "error", err)
	}
}
