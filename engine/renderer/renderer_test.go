package renderer

import (
	"errors"
	"testing"

	"github.com/Overpeek/shaderpg/common"
	"github.com/Overpeek/shaderpg/engine/renderer/bind_group_provider"
	"github.com/Overpeek/shaderpg/engine/renderer/pipeline"
	"github.com/Overpeek/shaderpg/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const userFragment = `//@shaderpg:bindings

@fragment
fn main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(tex, samp, uv) * frame.time;
}
`

type fakeDraw struct {
	pipelineKey string
	provider    string
	vertices    uint32
}

// fakeBackend records calls instead of talking to a GPU. Every GPU handle it stores is nil.
type fakeBackend struct {
	width, height int
	layout        bool
	buffers       map[int]uint64
	samplers      []int
	textures      []string
	bindGroups    []string
	modules       []string
	pipelines     []string
	writes        []bind_group_provider.BufferWrite
	draws         []fakeDraw
	moduleErr     map[string]error
	beginErr      error
	frames        int
	released      bool
}

var _ RendererBackend = &fakeBackend{}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		buffers:   make(map[int]uint64),
		moduleErr: make(map[string]error),
	}
}

func (f *fakeBackend) ConfigureSurface(width, height int) error {
	f.width, f.height = width, height
	return nil
}
func (f *fakeBackend) SetPresentMode(PresentMode) {}
func (f *fakeBackend) SetClearColor(wgpu.Color)   {}
func (f *fakeBackend) InitLayout(wgpu.BindGroupLayoutDescriptor) error {
	f.layout = true
	return nil
}
func (f *fakeBackend) CreateShaderModule(s shader.Shader) (*wgpu.ShaderModule, error) {
	if err := f.moduleErr[s.Key()]; err != nil {
		return nil, err
	}
	f.modules = append(f.modules, s.Key())
	return nil, nil
}
func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline, _, _ *wgpu.ShaderModule) error {
	f.pipelines = append(f.pipelines, p.PipelineKey())
	return nil
}
func (f *fakeBackend) InitBuffer(_ bind_group_provider.BindGroupProvider, binding int, size uint64, _ wgpu.BufferUsage) error {
	f.buffers[binding] = size
	return nil
}
func (f *fakeBackend) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error {
	f.textures = append(f.textures, provider.Label())
	provider.SetTexture(binding, nil, nil, staging.Width, staging.Height)
	return nil
}
func (f *fakeBackend) InitSampler(_ bind_group_provider.BindGroupProvider, binding int, _ common.SamplerStagingData) error {
	f.samplers = append(f.samplers, binding)
	return nil
}
func (f *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, _ wgpu.BindGroupLayoutDescriptor) error {
	f.bindGroups = append(f.bindGroups, provider.Label())
	return nil
}
func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}
func (f *fakeBackend) BeginFrame() error { return f.beginErr }
func (f *fakeBackend) DrawCall(p pipeline.Pipeline, provider bind_group_provider.BindGroupProvider, vertexCount uint32) {
	f.draws = append(f.draws, fakeDraw{pipelineKey: p.PipelineKey(), provider: provider.Label(), vertices: vertexCount})
}
func (f *fakeBackend) EndFrame() {}
func (f *fakeBackend) Present()  { f.frames++ }
func (f *fakeBackend) Release()  { f.released = true }

func newTestRenderer(t *testing.T, backend *fakeBackend) *renderer {
	t.Helper()
	r := newRenderer(BackendTypeWGPU, WithShaderOptions(shader.WithValidator(nil)))
	if err := r.init(backend, 640, 480); err != nil {
		t.Fatalf("init() error = %v", err)
	}
	return r
}

func TestRendererInit(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)

	if backend.width != 640 || backend.height != 480 {
		t.Errorf("surface = %dx%d, want 640x480", backend.width, backend.height)
	}
	if !backend.layout {
		t.Error("layout was not initialized")
	}
	if got := backend.buffers[shader.BindingFrame]; got != 16 {
		t.Errorf("frame buffer size = %d, want 16", got)
	}
	if len(backend.samplers) != 1 || backend.samplers[0] != shader.BindingSampler {
		t.Errorf("samplers = %v, want [%d]", backend.samplers, shader.BindingSampler)
	}
	if len(backend.modules) != 2 || backend.modules[0] != vertexShaderKey || backend.modules[1] != overlayPipelineKey {
		t.Errorf("modules = %v, want [quad overlay]", backend.modules)
	}

	p := r.Pipeline(overlayPipelineKey)
	if p == nil {
		t.Fatal("overlay pipeline not cached")
	}
	if !p.BlendEnabled() {
		t.Error("overlay pipeline should blend")
	}
	if r.Pipeline("missing") != nil {
		t.Error("Pipeline(missing) should be nil")
	}
}

func TestCompileProgramKeys(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)

	for _, want := range []string{"user-1", "user-2"} {
		prog, err := r.CompileProgram(userFragment)
		if err != nil {
			t.Fatalf("CompileProgram() error = %v", err)
		}
		if prog.PipelineKey() != want {
			t.Errorf("PipelineKey() = %q, want %q", prog.PipelineKey(), want)
		}
		p, ok := prog.(pipeline.Pipeline)
		if !ok {
			t.Fatalf("program type = %T, want pipeline.Pipeline", prog)
		}
		if p.BlendEnabled() {
			t.Error("user pipelines should not blend")
		}
		if p.Topology() != wgpu.PrimitiveTopologyTriangleStrip {
			t.Errorf("Topology() = %v, want triangle strip", p.Topology())
		}
	}

	if got := backend.pipelines; len(got) != 3 || got[1] != "user-1" || got[2] != "user-2" {
		t.Errorf("registered pipelines = %v", got)
	}
}

func TestCompileProgramErrors(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		moduleErr error
		want      string
	}{
		{
			name:   "missing entry point",
			source: "fn helper() {}",
			want:   "no @fragment entry point found",
		},
		{
			name: "wrong group",
			source: `@group(1) @binding(0) var<uniform> u: vec4<f32>;
@fragment fn main() -> @location(0) vec4<f32> { return u; }`,
			want: "invalid resource binding @group(1) @binding(0) u: only @group(0) is available",
		},
		{
			name:      "driver rejects module",
			source:    userFragment,
			moduleErr: errors.New("error: unknown identifier 'frme'"),
			want:      "error: unknown identifier 'frme'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			r := newTestRenderer(t, backend)
			if tt.moduleErr != nil {
				backend.moduleErr["user-1"] = tt.moduleErr
			}

			prog, err := r.CompileProgram(tt.source)
			if prog != nil {
				t.Errorf("CompileProgram() program = %v, want nil", prog)
			}
			var ce *common.CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("CompileProgram() error = %v (%T), want *common.CompileError", err, err)
			}
			if ce.Diagnostic != tt.want {
				t.Errorf("Diagnostic = %q, want %q", ce.Diagnostic, tt.want)
			}
			if len(backend.pipelines) != 1 {
				t.Errorf("registered pipelines = %v, want only the overlay", backend.pipelines)
			}
		})
	}
}

func TestCreateTexture(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)

	if _, err := r.CreateTexture(common.TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 3)}); err == nil {
		t.Fatal("CreateTexture() with a short pixel buffer should fail")
	} else {
		var de *common.DecodeError
		if !errors.As(err, &de) {
			t.Errorf("error = %T, want *common.DecodeError", err)
		}
	}

	res, err := r.CreateTexture(common.PlaceholderTexture())
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	provider, ok := res.(bind_group_provider.BindGroupProvider)
	if !ok {
		t.Fatalf("resource type = %T, want BindGroupProvider", res)
	}
	if !provider.Shared(shader.BindingFrame) || !provider.Shared(shader.BindingSampler) {
		t.Error("texture should share the frame buffer and sampler")
	}
	if provider.Shared(shader.BindingTexture) {
		t.Error("texture binding should be owned")
	}
	if w, h := provider.Size(); w != 1 || h != 1 {
		t.Errorf("Size() = %dx%d, want 1x1", w, h)
	}
	if len(backend.bindGroups) != 1 || backend.bindGroups[0] != provider.Label() {
		t.Errorf("bind groups = %v", backend.bindGroups)
	}
}

func TestDrawAndOverlay(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)

	prog, err := r.CompileProgram(userFragment)
	if err != nil {
		t.Fatalf("CompileProgram() error = %v", err)
	}
	tex, err := r.CreateTexture(common.PlaceholderTexture())
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}

	r.WriteUniforms(make([]byte, 16))
	if len(backend.writes) != 1 || backend.writes[0].Binding != shader.BindingFrame || len(backend.writes[0].Data) != 16 {
		t.Errorf("writes = %+v, want one 16 byte write to binding 0", backend.writes)
	}

	r.Draw(prog, tex)
	r.DrawOverlay()
	if len(backend.draws) != 1 {
		t.Fatalf("draws = %+v, want the program only", backend.draws)
	}
	if d := backend.draws[0]; d.pipelineKey != "user-1" || d.vertices != 4 {
		t.Errorf("draw = %+v, want user-1 with 4 vertices", d)
	}

	overlay := common.PlaceholderTexture()
	if err := r.SetOverlay(&overlay); err != nil {
		t.Fatalf("SetOverlay() error = %v", err)
	}
	r.DrawOverlay()
	if len(backend.draws) != 2 || backend.draws[1].pipelineKey != overlayPipelineKey || backend.draws[1].provider != "Overlay" {
		t.Errorf("draws = %+v, want the overlay last", backend.draws)
	}

	if err := r.SetOverlay(nil); err != nil {
		t.Fatalf("SetOverlay(nil) error = %v", err)
	}
	r.DrawOverlay()
	if len(backend.draws) != 2 {
		t.Errorf("hidden overlay was drawn: %+v", backend.draws)
	}
}

type foreignProgram struct{}

func (foreignProgram) Release()            {}
func (foreignProgram) PipelineKey() string { return "foreign" }

func TestDrawSkipsForeignResources(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)

	tex, err := r.CreateTexture(common.PlaceholderTexture())
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	r.Draw(foreignProgram{}, tex)
	if len(backend.draws) != 0 {
		t.Errorf("draws = %+v, want none", backend.draws)
	}
}

func TestRendererRelease(t *testing.T) {
	backend := newFakeBackend()
	r := newTestRenderer(t, backend)

	r.Release()
	if !backend.released {
		t.Error("backend was not released")
	}
	if r.Pipeline(overlayPipelineKey) != nil {
		t.Error("overlay pipeline still cached after Release")
	}
	r.Release()
}
