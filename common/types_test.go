package common

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"
)

func TestDecodeTexturePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	img.Set(1, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}

	got, err := DecodeTexture(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeTexture() error = %v", err)
	}
	if got.Width != 2 || got.Height != 3 {
		t.Errorf("size = %dx%d, want 2x3", got.Width, got.Height)
	}
	if len(got.Pixels) != 2*3*4 {
		t.Fatalf("len(Pixels) = %d, want %d", len(got.Pixels), 2*3*4)
	}
	last := got.Pixels[len(got.Pixels)-4:]
	if !bytes.Equal(last, []byte{10, 20, 30, 255}) {
		t.Errorf("last pixel = %v, want [10 20 30 255]", last)
	}
}

func TestDecodeTexturePaletted(t *testing.T) {
	pal := color.Palette{color.RGBA{A: 255}, color.RGBA{R: 255, A: 255}}
	img := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
	img.SetColorIndex(0, 0, 1)
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("gif.Encode() error = %v", err)
	}

	got, err := DecodeTexture(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeTexture() error = %v", err)
	}
	if !bytes.Equal(got.Pixels[:4], []byte{255, 0, 0, 255}) {
		t.Errorf("first pixel = %v, want [255 0 0 255]", got.Pixels[:4])
	}
}

func TestDecodeTextureErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"garbage", []byte("definitely not an image")},
		{"truncated png", []byte("\x89PNG\r\n\x1a\n\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTexture(tt.data)
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("DecodeTexture() error = %v, want *DecodeError", err)
			}
			if de.Error() == "" {
				t.Error("DecodeError has an empty message")
			}
		})
	}
}

func TestPlaceholderTexture(t *testing.T) {
	p := PlaceholderTexture()
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if p.Width != 1 || p.Height != 1 {
		t.Errorf("size = %dx%d, want 1x1", p.Width, p.Height)
	}
}

func TestTextureStagingDataValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    TextureStagingData
		wantErr bool
	}{
		{"ok", TextureStagingData{Pixels: make([]byte, 8), Width: 2, Height: 1}, false},
		{"zero width", TextureStagingData{Width: 0, Height: 1}, true},
		{"short buffer", TextureStagingData{Pixels: make([]byte, 4), Width: 2, Height: 1}, true},
	}
	for _, tt := range tests {
		if err := tt.data.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestAsCompileError(t *testing.T) {
	if AsCompileError(nil) != nil {
		t.Error("AsCompileError(nil) != nil")
	}
	orig := &CompileError{Diagnostic: "x"}
	if got := AsCompileError(orig); got != orig {
		t.Errorf("AsCompileError() = %v, want the original", got)
	}
	if got := AsCompileError(errors.New("boom")); got.Diagnostic != "boom" {
		t.Errorf("Diagnostic = %q, want %q", got.Diagnostic, "boom")
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "a", "b"); got != "a" {
		t.Errorf("Coalesce() = %q, want %q", got, "a")
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("Coalesce() = %d, want 0", got)
	}
}
