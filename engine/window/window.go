// Package window opens the playground window and turns its callbacks into input events.
package window

import (
	"fmt"

	"github.com/Overpeek/shaderpg/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides the platform window and its input events.
// All methods must be called from the thread that created the window.
type Window interface {
	// PollEvents processes pending platform events and returns the input events they produced,
	// oldest first. It never blocks.
	//
	// Returns:
	//   - []input.Event: the events since the previous call
	PollEvents() []input.Event

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true until the window has been closed.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never opened
	Close() error

	// Title returns the window title.
	Title() string

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int
	resizable bool

	// width and height are the framebuffer size in pixels.
	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// pending collects events raised by platform callbacks until the next PollEvents.
	pending []input.Event
}

var _ Window = &engineWindow{}

// NewWindow opens a window with the specified options.
// The defaults are a resizable 600x400 window titled "shaderpg".
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the opened window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "shaderpg",
		minWidth:  64,
		minHeight: 64,
		resizable: true,
		width:     600,
		height:    400,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) PollEvents() []input.Event {
	platformProcessMessages(w)
	return w.drain()
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// push records an event for the next PollEvents call.
func (w *engineWindow) push(e input.Event) {
	if e.Kind == input.EventResize {
		w.width, w.height = e.Width, e.Height
	}
	w.pending = append(w.pending, e)
}

// toFramebuffer scales a cursor position from screen coordinates to framebuffer pixels.
// The position is returned unchanged when the screen size is unknown.
func (w *engineWindow) toFramebuffer(xpos, ypos float64, screenWidth, screenHeight int) (float64, float64) {
	if screenWidth <= 0 || screenHeight <= 0 {
		return xpos, ypos
	}
	return xpos * float64(w.width) / float64(screenWidth), ypos * float64(w.height) / float64(screenHeight)
}

// seedCursor queues the cursor state found when the window opens. The platform only reports
// enter events on crossings, so a cursor already over the window would otherwise read as outside.
//
// Parameters:
//   - hovered: whether the cursor is over the window
//   - xpos, ypos: the cursor position in screen coordinates
//   - screenWidth, screenHeight: the window size in screen coordinates
func (w *engineWindow) seedCursor(hovered bool, xpos, ypos float64, screenWidth, screenHeight int) {
	if !hovered {
		return
	}
	w.push(input.CursorEnter())
	w.push(input.CursorMove(w.toFramebuffer(xpos, ypos, screenWidth, screenHeight)))
}

// drain returns the pending events and starts a new batch.
func (w *engineWindow) drain() []input.Event {
	if len(w.pending) == 0 {
		return nil
	}
	events := w.pending
	w.pending = nil
	return events
}
