// Package uniforms computes the per-frame uniform block from the window state and the loop clock.
package uniforms

import (
	"time"

	"github.com/Overpeek/shaderpg/engine/input"
)

// OutsideCursor is the cursor value reported while the pointer is outside the window.
var OutsideCursor = [2]float32{-1, -1}

// Compute builds the uniforms for one frame.
// The cursor is normalized to [0, 1] on both axes with the origin at the bottom-left corner and y
// pointing up, so (0, 1) is the top-left pixel. Positions past the edges are clamped. When the pointer
// is outside the window, or the window has no area, the cursor is exactly OutsideCursor (-1, -1).
//
// Parameters:
//   - state: the window state after this frame's events were applied
//   - elapsed: time since the render loop started
//
// Returns:
//   - GPUFrameUniforms: the uniform block to upload
func Compute(state input.WindowState, elapsed time.Duration) GPUFrameUniforms {
	u := GPUFrameUniforms{
		Aspect: state.Aspect(),
		Time:   float32(elapsed.Seconds()),
		Cursor: OutsideCursor,
	}

	if state.CursorInside && state.Width > 0 && state.Height > 0 {
		x := state.CursorX / float64(state.Width)
		y := 1 - state.CursorY/float64(state.Height)
		u.Cursor = [2]float32{float32(clamp01(x)), float32(clamp01(y))}
	}
	return u
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
