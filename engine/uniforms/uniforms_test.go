package uniforms

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Overpeek/shaderpg/engine/input"
)

func TestComputeCursor(t *testing.T) {
	tests := []struct {
		name  string
		state input.WindowState
		want  [2]float32
	}{
		{
			name:  "outside",
			state: input.WindowState{Width: 600, Height: 400, CursorX: 300, CursorY: 200},
			want:  OutsideCursor,
		},
		{
			name:  "center",
			state: input.WindowState{Width: 600, Height: 400, CursorX: 300, CursorY: 200, CursorInside: true},
			want:  [2]float32{0.5, 0.5},
		},
		{
			name:  "top left",
			state: input.WindowState{Width: 600, Height: 400, CursorInside: true},
			want:  [2]float32{0, 1},
		},
		{
			name:  "bottom right",
			state: input.WindowState{Width: 600, Height: 400, CursorX: 600, CursorY: 400, CursorInside: true},
			want:  [2]float32{1, 0},
		},
		{
			name:  "top right",
			state: input.WindowState{Width: 600, Height: 400, CursorX: 600, CursorInside: true},
			want:  [2]float32{1, 1},
		},
		{
			name:  "bottom left",
			state: input.WindowState{Width: 600, Height: 400, CursorY: 400, CursorInside: true},
			want:  [2]float32{0, 0},
		},
		{
			name:  "clamped past the edge",
			state: input.WindowState{Width: 600, Height: 400, CursorX: -10, CursorY: 900, CursorInside: true},
			want:  [2]float32{0, 0},
		},
		{
			name:  "minimized window",
			state: input.WindowState{CursorInside: true},
			want:  OutsideCursor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.state, 0)
			if got.Cursor != tt.want {
				t.Errorf("Cursor = %v, want %v", got.Cursor, tt.want)
			}
		})
	}
}

func TestComputeAspectAndTime(t *testing.T) {
	got := Compute(input.NewWindowState(600, 400), 2500*time.Millisecond)
	if got.Aspect != 1.5 {
		t.Errorf("Aspect = %v, want 1.5", got.Aspect)
	}
	if got.Time != 2.5 {
		t.Errorf("Time = %v, want 2.5", got.Time)
	}
}

func TestMarshal(t *testing.T) {
	u := GPUFrameUniforms{Aspect: 1, Time: 2, Cursor: [2]float32{-1, 0.5}}
	want := []byte{
		0x00, 0x00, 0x80, 0x3f,
		0x00, 0x00, 0x00, 0x40,
		0x00, 0x00, 0x80, 0xbf,
		0x00, 0x00, 0x00, 0x3f,
	}
	if got := u.Marshal(); !bytes.Equal(got, want) {
		t.Errorf("Marshal() = %x, want %x", got, want)
	}
	if u.Size() != GPUFrameUniformSize {
		t.Errorf("Size() = %d, want %d", u.Size(), GPUFrameUniformSize)
	}
}

func TestFrameUniformSource(t *testing.T) {
	for _, field := range []string{"aspect: f32", "time: f32", "cursor: vec2<f32>", "y up", "(-1, -1)"} {
		if !strings.Contains(GPUFrameUniformSource, field) {
			t.Errorf("GPUFrameUniformSource missing %q", field)
		}
	}
}
