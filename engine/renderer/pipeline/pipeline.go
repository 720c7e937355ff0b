// Package pipeline holds a compiled playground program: the fixed quad vertex stage, a user
// fragment stage and the GPU render pipeline built from them.
package pipeline

import (
	"github.com/Overpeek/shaderpg/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used as the GPU object label
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is nil until the renderer has created the GPU pipeline
	renderPipeline *wgpu.RenderPipeline
	// modules are the shader modules owned by this pipeline, released with it
	modules []*wgpu.ShaderModule
	released bool

	blendEnabled bool
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask
	blendState   *wgpu.BlendState
}

// Pipeline is a render pipeline together with the configuration it was created from.
// It is the Program handed to the pipeline manager.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader of the given stage, or nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader for that stage
	Shader(shaderType shader.ShaderType) shader.Shader

	// Pipeline returns the GPU render pipeline, or nil before creation and after Release.
	Pipeline() *wgpu.RenderPipeline

	BlendEnabled() bool
	CullMode() wgpu.CullMode
	Topology() wgpu.PrimitiveTopology
	FrontFace() wgpu.FrontFace
	WriteMask() wgpu.ColorWriteMask
	BlendState() *wgpu.BlendState

	// SetRenderPipeline stores the GPU pipeline created by the renderer.
	//
	// Parameters:
	//   - rp: the created render pipeline
	SetRenderPipeline(rp *wgpu.RenderPipeline)

	// AdoptModule hands ownership of a shader module to the pipeline so Release frees it.
	// Modules shared between pipelines must not be adopted.
	//
	// Parameters:
	//   - module: the shader module to release with this pipeline
	AdoptModule(module *wgpu.ShaderModule)

	// Release frees the GPU pipeline and every adopted module. Calling it again has no effect.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a Pipeline description. The defaults draw a triangle strip with no culling,
// no blending and all color channels written.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:  pipelineKey,
		blendEnabled: false,
		cullMode:     wgpu.CullModeNone,
		topology:     wgpu.PrimitiveTopologyTriangleStrip,
		frontFace:    wgpu.FrontFaceCCW,
		writeMask:    wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Pipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) AdoptModule(module *wgpu.ShaderModule) {
	if module != nil {
		p.modules = append(p.modules, module)
	}
}

func (p *pipeline) Release() {
	if p.released {
		return
	}
	p.released = true

	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	for _, m := range p.modules {
		m.Release()
	}
	p.modules = nil
}
