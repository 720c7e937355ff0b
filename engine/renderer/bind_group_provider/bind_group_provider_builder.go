package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option for configuring a BindGroupProvider.
type BindGroupProviderOption func(*bindGroupProvider)

// WithSharedBuffer references a buffer owned elsewhere at the given binding.
// The provider never releases it.
//
// Parameters:
//   - binding: the binding index
//   - buf: the borrowed buffer
//
// Returns:
//   - BindGroupProviderOption: a function that applies the buffer to a provider
func WithSharedBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
		p.shared[binding] = true
	}
}

// WithSharedSampler references a sampler owned elsewhere at the given binding.
// The provider never releases it.
//
// Parameters:
//   - binding: the binding index
//   - s: the borrowed sampler
//
// Returns:
//   - BindGroupProviderOption: a function that applies the sampler to a provider
func WithSharedSampler(binding int, s *wgpu.Sampler) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.samplers[binding] = s
		p.shared[binding] = true
	}
}
