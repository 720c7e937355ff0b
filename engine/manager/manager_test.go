package manager

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/Overpeek/shaderpg/common"
)

type fakeProgram struct {
	key      string
	released bool
}

func (p *fakeProgram) PipelineKey() string { return p.key }
func (p *fakeProgram) Release()            { p.released = true }

type fakeCompiler struct {
	built []*fakeProgram
}

func (c *fakeCompiler) CompileProgram(source string) (Program, error) {
	if strings.HasPrefix(source, "broken") {
		return nil, &common.CompileError{Diagnostic: "error: " + source}
	}
	if source == "plain failure" {
		return nil, errors.New("device refused pipeline")
	}
	p := &fakeProgram{key: fmt.Sprintf("user-%d", len(c.built))}
	c.built = append(c.built, p)
	return p, nil
}

type fakeTexture struct {
	staging  common.TextureStagingData
	released bool
}

func (t *fakeTexture) Release() { t.released = true }

type fakeUploader struct {
	fail    bool
	created []*fakeTexture
}

func (u *fakeUploader) CreateTexture(staging common.TextureStagingData) (Resource, error) {
	if u.fail {
		return nil, errors.New("out of memory")
	}
	t := &fakeTexture{staging: staging}
	u.created = append(u.created, t)
	return t, nil
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestPipelineManagerStartsIdle(t *testing.T) {
	m := NewPipelineManager(&fakeCompiler{})
	if _, ok := m.State().(Idle); !ok {
		t.Errorf("State() = %T, want Idle", m.State())
	}
	if m.Generation() != 0 {
		t.Errorf("Generation() = %d, want 0", m.Generation())
	}
}

func TestPipelineManagerUpdateSequence(t *testing.T) {
	c := &fakeCompiler{}
	m := NewPipelineManager(c)

	if got := m.Update("first"); got != "ok" {
		t.Fatalf("Update(first) = %q, want ok", got)
	}
	active, ok := m.State().(Active)
	if !ok {
		t.Fatalf("State() = %T, want Active", m.State())
	}
	first := active.Program

	if got := m.Update("broken shader"); got != "error: broken shader" {
		t.Errorf("Update(broken) = %q, want diagnostic", got)
	}
	if got := m.State().(Active).Program; got != first {
		t.Errorf("active program changed after a failed update")
	}
	if c.built[0].released {
		t.Error("active program released after a failed update")
	}

	if got := m.Update("second"); got != "ok" {
		t.Fatalf("Update(second) = %q, want ok", got)
	}
	if !c.built[0].released {
		t.Error("replaced program was not released")
	}
	if got := m.State().(Active).Program.PipelineKey(); got != "user-1" {
		t.Errorf("PipelineKey() = %q, want user-1", got)
	}
	if m.Generation() != 2 {
		t.Errorf("Generation() = %d, want 2", m.Generation())
	}
}

func TestPipelineManagerFailureWhileIdle(t *testing.T) {
	m := NewPipelineManager(&fakeCompiler{})
	if got := m.Update("broken"); got != "error: broken" {
		t.Errorf("Update() = %q, want diagnostic", got)
	}
	if _, ok := m.State().(Idle); !ok {
		t.Errorf("State() = %T, want Idle", m.State())
	}
}

func TestPipelineManagerCompileWrapsErrors(t *testing.T) {
	m := NewPipelineManager(&fakeCompiler{})
	_, err := m.Compile("plain failure")
	var ce *common.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("Compile() error = %T, want *common.CompileError", err)
	}
	if ce.Diagnostic != "device refused pipeline" {
		t.Errorf("Diagnostic = %q, want %q", ce.Diagnostic, "device refused pipeline")
	}
}

func TestPipelineManagerRelease(t *testing.T) {
	c := &fakeCompiler{}
	m := NewPipelineManager(c)
	m.Update("a")
	m.Release()
	if !c.built[0].released {
		t.Error("Release() did not release the active program")
	}
	if _, ok := m.State().(Idle); !ok {
		t.Errorf("State() = %T, want Idle", m.State())
	}
}

func TestTextureManagerPlaceholder(t *testing.T) {
	u := &fakeUploader{}
	m, err := NewTextureManager(u)
	if err != nil {
		t.Fatalf("NewTextureManager() error = %v", err)
	}
	tex := m.Current().(*fakeTexture)
	if tex.staging.Width != 1 || tex.staging.Height != 1 {
		t.Errorf("placeholder = %dx%d, want 1x1", tex.staging.Width, tex.staging.Height)
	}
}

func TestTextureManagerPlaceholderFailure(t *testing.T) {
	if _, err := NewTextureManager(&fakeUploader{fail: true}); err == nil {
		t.Error("NewTextureManager() error = nil, want error")
	}
}

func TestTextureManagerUpdate(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantOK   bool
		wantSize uint32
	}{
		{name: "png", data: nil, wantOK: true, wantSize: 3},
		{name: "empty", data: []byte{}, wantOK: false},
		{name: "garbage", data: []byte("not an image"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data
			if tt.wantOK {
				data = encodePNG(t, int(tt.wantSize), 2)
			}

			u := &fakeUploader{}
			m, _ := NewTextureManager(u)
			placeholder := m.Current()

			got := m.Update(data)
			if tt.wantOK {
				if got != "ok" {
					t.Fatalf("Update() = %q, want ok", got)
				}
				if m.Current() == placeholder {
					t.Error("Current() still the placeholder after a successful update")
				}
				if !placeholder.(*fakeTexture).released {
					t.Error("placeholder was not released")
				}
				if w := m.Current().(*fakeTexture).staging.Width; w != tt.wantSize {
					t.Errorf("Width = %d, want %d", w, tt.wantSize)
				}
				return
			}

			if got == "ok" || got == "" {
				t.Errorf("Update() = %q, want a decoder message", got)
			}
			if m.Current() != placeholder {
				t.Error("Current() changed after a failed update")
			}
		})
	}
}

func TestTextureManagerMaxSize(t *testing.T) {
	m, _ := NewTextureManager(&fakeUploader{}, WithMaxTextureSize(4))
	_, err := m.Load(encodePNG(t, 5, 1))
	var de *common.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Load() error = %v, want *common.DecodeError", err)
	}
	if !strings.Contains(de.Message, "5x1") {
		t.Errorf("Message = %q, want it to name the size", de.Message)
	}
}

func TestTextureManagerUploadFailure(t *testing.T) {
	u := &fakeUploader{}
	m, _ := NewTextureManager(u)
	placeholder := m.Current()
	u.fail = true

	if got := m.Update(encodePNG(t, 2, 2)); !strings.Contains(got, "out of memory") {
		t.Errorf("Update() = %q, want upload error", got)
	}
	if m.Current() != placeholder {
		t.Error("Current() changed after a failed upload")
	}
}
