// Package input holds the window events consumed by the render loop and the window state they mutate.
package input

// EventKind identifies what happened to the window.
type EventKind int

const (
	EventResize EventKind = iota
	EventCursorMove
	EventCursorEnter
	EventCursorLeave
	EventCloseRequest
	EventFileDrop
)

func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventCursorMove:
		return "cursor-move"
	case EventCursorEnter:
		return "cursor-enter"
	case EventCursorLeave:
		return "cursor-leave"
	case EventCloseRequest:
		return "close-request"
	case EventFileDrop:
		return "file-drop"
	default:
		return "unknown"
	}
}

// Event is a single window event. Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind
	// Width and Height are the new framebuffer size for EventResize.
	Width, Height int
	// X and Y are the cursor position in window pixels for EventCursorMove, origin top-left.
	X, Y float64
	// Paths lists the dropped files for EventFileDrop.
	Paths []string
}

// Resize returns an EventResize.
func Resize(width, height int) Event {
	return Event{Kind: EventResize, Width: width, Height: height}
}

// CursorMove returns an EventCursorMove.
func CursorMove(x, y float64) Event {
	return Event{Kind: EventCursorMove, X: x, Y: y}
}

// CursorEnter returns an EventCursorEnter.
func CursorEnter() Event {
	return Event{Kind: EventCursorEnter}
}

// CursorLeave returns an EventCursorLeave.
func CursorLeave() Event {
	return Event{Kind: EventCursorLeave}
}

// CloseRequest returns an EventCloseRequest.
func CloseRequest() Event {
	return Event{Kind: EventCloseRequest}
}

// FileDrop returns an EventFileDrop for the given paths.
func FileDrop(paths ...string) Event {
	return Event{Kind: EventFileDrop, Paths: paths}
}

// WindowState is the render loop's view of the window: current size, cursor position and
// whether the cursor is inside the client area.
type WindowState struct {
	Width, Height    int
	CursorX, CursorY float64
	CursorInside     bool
	CloseRequested   bool
}

// NewWindowState returns the state of a freshly opened window of the given size with the cursor outside.
func NewWindowState(width, height int) WindowState {
	return WindowState{Width: width, Height: height}
}

// Apply folds one event into the state.
// Resize events with a negative dimension are clamped to zero; a minimized window reports 0x0.
//
// Parameters:
//   - e: the event to apply
func (s *WindowState) Apply(e Event) {
	switch e.Kind {
	case EventResize:
		s.Width = max(e.Width, 0)
		s.Height = max(e.Height, 0)
	case EventCursorMove:
		s.CursorX = e.X
		s.CursorY = e.Y
	case EventCursorEnter:
		s.CursorInside = true
	case EventCursorLeave:
		s.CursorInside = false
	case EventCloseRequest:
		s.CloseRequested = true
	}
}

// Aspect returns width divided by height, or 1 while the window has no height.
func (s WindowState) Aspect() float32 {
	if s.Height <= 0 || s.Width <= 0 {
		return 1
	}
	return float32(s.Width) / float32(s.Height)
}
