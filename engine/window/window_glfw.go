package window

import (
	"fmt"
	"runtime"

	"github.com/Overpeek/shaderpg/common"
	"github.com/Overpeek/shaderpg/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	if w.resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, limitOrDontCare(w.maxWidth), limitOrDontCare(w.maxHeight))

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.push(input.CloseRequest())
		}
	})

	win.SetCloseCallback(func(_ *glfw.Window) {
		w.push(input.CloseRequest())
	})

	// Cursor positions arrive in screen coordinates; the window state works in framebuffer pixels.
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		sw, sh := win.GetSize()
		w.push(input.CursorMove(w.toFramebuffer(xpos, ypos, sw, sh)))
	})

	win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if entered {
			w.push(input.CursorEnter())
		} else {
			w.push(input.CursorLeave())
		}
	})

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays the framebuffer size differs from the window size.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.push(input.Resize(width, height))
	})

	win.SetDropCallback(func(_ *glfw.Window, names []string) {
		common.Logger().Debug("files dropped", "paths", names)
		w.push(input.FileDrop(names...))
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	xpos, ypos := win.GetCursorPos()
	sw, sh := win.GetSize()
	w.seedCursor(win.GetAttrib(glfw.Hovered) == glfw.True, xpos, ypos, sw, sh)

	return nil
}

func limitOrDontCare(limit int) int {
	if limit <= 0 {
		return glfw.DontCare
	}
	return limit
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformIsRunningCheck returns whether the GLFW window is still open.
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	return w.internalWindow.(*glfwWindow).running
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
//
// Parameters:
//   - w: the engineWindow to close
//
// Returns:
//   - error: error if the window is not initialized
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	if !gw.running {
		return nil
	}
	gw.running = false
	gw.window.Destroy()
	glfw.Terminate()
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
// Callbacks run during the poll and queue their events on the window.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) {
	if !platformIsRunningCheck(w) {
		return
	}
	glfw.PollEvents()
}
