package renderer

import (
	"fmt"
	"sync"

	"github.com/Overpeek/shaderpg/common"
	"github.com/Overpeek/shaderpg/engine/loop"
	"github.com/Overpeek/shaderpg/engine/manager"
	"github.com/Overpeek/shaderpg/engine/renderer/bind_group_provider"
	"github.com/Overpeek/shaderpg/engine/renderer/pipeline"
	"github.com/Overpeek/shaderpg/engine/renderer/shader"
	"github.com/Overpeek/shaderpg/engine/uniforms"
	"github.com/Overpeek/shaderpg/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	vertexShaderKey    = "quad"
	overlayPipelineKey = "overlay"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	// pipelineCache holds the built-in pipelines. User programs are owned by the pipeline manager.
	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	vertexShader shader.Shader
	vertexModule *wgpu.ShaderModule

	// frame owns the uniform buffer and the sampler every texture bind group shares.
	frame   bind_group_provider.BindGroupProvider
	overlay bind_group_provider.BindGroupProvider

	programCount int
	textureCount int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	clearColor           wgpu.Color
	sampler              common.SamplerStagingData
	shaderOptions        []shader.ShaderBuilderOption
}

// Renderer draws the playground: one user program over a full-screen quad, optionally followed by
// the overlay image. It compiles programs for the pipeline manager and uploads textures for the texture manager.
//
// All methods must be called from the goroutine that owns the window.
type Renderer interface {
	loop.Renderer
	manager.ProgramCompiler
	manager.TextureUploader

	// Pipeline retrieves a built-in pipeline by key, or nil if there is none.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the cached pipeline or nil
	Pipeline(key string) pipeline.Pipeline

	// SetPresentMode sets the surface present mode. A call to Resize is required after changing
	// this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Release frees every GPU object the renderer owns. Programs and textures handed out earlier
	// must be released by their owners first.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into the given window's surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the ready renderer
//   - error: an error if the GPU could not be initialized or a built-in shader was rejected
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(backendType, options...)

	var backend RendererBackend
	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
	}
	if err != nil {
		return nil, err
	}

	if err := r.init(backend, win.Width(), win.Height()); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func newRenderer(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
		msaa:          MSAAOff,
		sampler:       common.NearestClampSampler(),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	return r
}

// init creates the fixed layout, the shared frame resources, the vertex stage and the overlay pipeline.
func (r *renderer) init(backend RendererBackend, width, height int) error {
	r.backend = backend
	r.backend.SetPresentMode(r.presentMode)
	r.backend.SetClearColor(r.clearColor)
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return fmt.Errorf("failed to configure surface: %w", err)
	}

	layout := shader.FixedBindGroupLayout()
	if err := r.backend.InitLayout(layout); err != nil {
		return err
	}

	r.frame = bind_group_provider.NewBindGroupProvider("Frame")
	if err := r.backend.InitBuffer(r.frame, shader.BindingFrame, uniforms.GPUFrameUniformSize, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst); err != nil {
		return fmt.Errorf("failed to create frame uniform buffer: %w", err)
	}
	if err := r.backend.InitSampler(r.frame, shader.BindingSampler, r.sampler); err != nil {
		return fmt.Errorf("failed to create sampler: %w", err)
	}

	vs, err := shader.NewShader(vertexShaderKey, shader.ShaderTypeVertex, shader.QuadVertexSource, r.shaderOptions...)
	if err != nil {
		return fmt.Errorf("built-in vertex shader: %w", err)
	}
	r.vertexShader = vs
	r.vertexModule, err = r.backend.CreateShaderModule(vs)
	if err != nil {
		return fmt.Errorf("built-in vertex shader: %w", err)
	}

	fs, err := shader.NewShader(overlayPipelineKey, shader.ShaderTypeFragment, shader.OverlayFragmentSource, r.shaderOptions...)
	if err != nil {
		return fmt.Errorf("built-in overlay shader: %w", err)
	}
	overlayPipeline := pipeline.NewPipeline(overlayPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithBlendEnabled(true),
	)
	if err := r.buildPipeline(overlayPipeline); err != nil {
		overlayPipeline.Release()
		return fmt.Errorf("built-in overlay pipeline: %w", err)
	}
	r.pipelineCache[overlayPipelineKey] = overlayPipeline

	return nil
}

// buildPipeline creates the fragment module, hands it to p and registers the GPU pipeline.
func (r *renderer) buildPipeline(p pipeline.Pipeline) error {
	fs, err := r.backend.CreateShaderModule(p.Shader(shader.ShaderTypeFragment))
	if err != nil {
		return err
	}
	p.AdoptModule(fs)
	return r.backend.RegisterRenderPipeline(p, r.vertexModule, fs)
}

func (r *renderer) CompileProgram(source string) (manager.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.programCount++
	key := fmt.Sprintf("user-%d", r.programCount)

	fs, err := shader.NewShader(key, shader.ShaderTypeFragment, source, r.shaderOptions...)
	if err != nil {
		return nil, err
	}

	p := pipeline.NewPipeline(key,
		pipeline.WithVertexShader(r.vertexShader),
		pipeline.WithFragmentShader(fs),
	)
	if err := r.buildPipeline(p); err != nil {
		p.Release()
		return nil, common.AsCompileError(err)
	}

	common.Logger().Debug("program compiled", "key", key)
	return p, nil
}

func (r *renderer) CreateTexture(staging common.TextureStagingData) (manager.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.textureCount++
	return r.createTexture(fmt.Sprintf("texture-%d", r.textureCount), staging)
}

// createTexture uploads staging and builds a bind group around it that shares the frame buffer and sampler.
func (r *renderer) createTexture(label string, staging common.TextureStagingData) (bind_group_provider.BindGroupProvider, error) {
	if err := staging.Validate(); err != nil {
		return nil, err
	}

	provider := bind_group_provider.NewBindGroupProvider(label,
		bind_group_provider.WithSharedBuffer(shader.BindingFrame, r.frame.Buffer(shader.BindingFrame)),
		bind_group_provider.WithSharedSampler(shader.BindingSampler, r.frame.Sampler(shader.BindingSampler)),
	)
	if err := r.backend.InitTextureView(provider, shader.BindingTexture, staging); err != nil {
		provider.Release()
		return nil, fmt.Errorf("failed to upload %s: %w", label, err)
	}
	if err := r.backend.InitBindGroup(provider, shader.FixedBindGroupLayout()); err != nil {
		provider.Release()
		return nil, fmt.Errorf("failed to bind %s: %w", label, err)
	}
	return provider, nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Resize(width, height int) {
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		common.Logger().Warn("surface reconfiguration failed", "width", width, "height", height, "error", err)
	}
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) WriteUniforms(data []byte) {
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: r.frame, Binding: shader.BindingFrame, Offset: 0, Data: data},
	})
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) Draw(program manager.Program, texture manager.Resource) {
	p, ok := program.(pipeline.Pipeline)
	if !ok {
		common.Logger().Warn("draw skipped, program was not compiled by this renderer", "type", fmt.Sprintf("%T", program))
		return
	}
	tex, ok := texture.(bind_group_provider.BindGroupProvider)
	if !ok {
		common.Logger().Warn("draw skipped, texture was not uploaded by this renderer", "type", fmt.Sprintf("%T", texture))
		return
	}
	r.backend.DrawCall(p, tex, shader.QuadVertexCount)
}

func (r *renderer) SetOverlay(staging *common.TextureStagingData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if staging == nil {
		if r.overlay != nil {
			r.overlay.Release()
			r.overlay = nil
		}
		return nil
	}

	next, err := r.createTexture("Overlay", *staging)
	if err != nil {
		return err
	}
	if r.overlay != nil {
		r.overlay.Release()
	}
	r.overlay = next
	return nil
}

func (r *renderer) DrawOverlay() {
	r.mu.Lock()
	overlay := r.overlay
	p := r.pipelineCache[overlayPipelineKey]
	r.mu.Unlock()

	if overlay == nil || p == nil {
		return
	}
	r.backend.DrawCall(p, overlay, shader.QuadVertexCount)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.overlay != nil {
		r.overlay.Release()
		r.overlay = nil
	}
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	if r.vertexModule != nil {
		r.vertexModule.Release()
		r.vertexModule = nil
	}
	if r.frame != nil {
		r.frame.Release()
		r.frame = nil
	}
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}
