package renderer

import (
	"github.com/Overpeek/shaderpg/common"
	"github.com/Overpeek/shaderpg/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
// The default is PresentModeVSync.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAAOff.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff or MSAA4x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.msaa = count
	}
}

// WithForceSoftwareRenderer forces the backend to request a fallback (software) adapter.
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that applies the option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithClearColor sets the color every frame is cleared to. The default is transparent black.
func WithClearColor(red, green, blue, alpha float64) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = wgpu.Color{R: red, G: green, B: blue, A: alpha}
	}
}

// WithSampler replaces the sampler shared by every texture. The default is common.NearestClampSampler.
func WithSampler(sampler common.SamplerStagingData) RendererBuilderOption {
	return func(r *renderer) {
		r.sampler = sampler
	}
}

// WithShaderOptions appends options applied to every shader the renderer builds, e.g. shader.WithValidator.
func WithShaderOptions(opts ...shader.ShaderBuilderOption) RendererBuilderOption {
	return func(r *renderer) {
		r.shaderOptions = append(r.shaderOptions, opts...)
	}
}
