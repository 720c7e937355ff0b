// Package bind_group_provider holds the GPU objects behind one bind group: the bind group itself
// and the buffers, textures, views and samplers it references.
package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized by the renderer.
	bindGroup *wgpu.BindGroup
	// buffers holds the GPU buffers referenced by the bind group, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// textures holds the GPU textures backing textureViews, keyed by binding index.
	textures map[int]*wgpu.Texture
	// textureViews holds the GPU texture views referenced by the bind group, keyed by binding index.
	textureViews map[int]*wgpu.TextureView
	// samplers holds the GPU samplers referenced by the bind group, keyed by binding index.
	samplers map[int]*wgpu.Sampler

	// shared marks bindings whose resources belong to another provider and survive Release.
	shared map[int]bool

	width, height uint32
}

// BindGroupProvider owns the GPU resources of one bind group.
//
// Usage pattern:
//  1. The renderer creates a provider, sharing the uniform buffer and sampler with WithSharedBuffer / WithSharedSampler
//  2. The renderer uploads a texture and stores it with SetTexture
//  3. The renderer creates the bind group and stores it with SetBindGroup
//  4. Draw calls bind BindGroup(); Release frees everything the provider owns
type BindGroupProvider interface {
	// Release releases the GPU resources owned by this provider. Shared bindings are left alone.
	// Calling Release more than once is safe.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group, or nil if it has not been created.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	BindGroup() *wgpu.BindGroup

	// Buffer returns the buffer at the given binding, or nil.
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view at the given binding, or nil.
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler at the given binding, or nil.
	Sampler(binding int) *wgpu.Sampler

	// Size returns the dimensions of the most recently stored texture.
	//
	// Returns:
	//   - uint32: width in pixels
	//   - uint32: height in pixels
	Size() (uint32, uint32)

	// Shared reports whether the resource at binding is borrowed from another provider.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - bool: true if Release leaves the binding's resource alive
	Shared(binding int) bool

	// SetBindGroup stores the bind group, releasing any previous one.
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBuffer stores an owned buffer at the given binding.
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTexture stores an owned texture and its view at the given binding.
	//
	// Parameters:
	//   - binding: the binding index of the texture
	//   - tex: the texture, released with the provider
	//   - view: the view bound in the bind group, released with the provider
	//   - width: the texture width in pixels
	//   - height: the texture height in pixels
	SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView, width, height uint32)

	// SetSampler stores an owned sampler at the given binding.
	SetSampler(binding int, s *wgpu.Sampler)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty BindGroupProvider with all options applied.
//
// Parameters:
//   - label: a debug label used for GPU object names
//   - options: functional options for the provider
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textures:     make(map[int]*wgpu.Texture),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
		shared:       make(map[int]bool),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) Size() (uint32, uint32) {
	return p.width, p.height
}

func (p *bindGroupProvider) Shared(binding int) bool {
	return p.shared[binding]
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.releaseBinding(binding)
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView, width, height uint32) {
	p.releaseBinding(binding)
	p.textures[binding] = tex
	p.textureViews[binding] = view
	p.width, p.height = width, height
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.releaseBinding(binding)
	p.samplers[binding] = s
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for _, binding := range p.bindings() {
		p.releaseBinding(binding)
	}
}

// bindings lists every binding index that holds a resource.
func (p *bindGroupProvider) bindings() []int {
	seen := make(map[int]bool)
	var out []int
	add := func(b int) {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	for b := range p.buffers {
		add(b)
	}
	for b := range p.textures {
		add(b)
	}
	for b := range p.textureViews {
		add(b)
	}
	for b := range p.samplers {
		add(b)
	}
	return out
}

// releaseBinding frees the owned resources at binding and forgets the binding.
// Shared resources are forgotten without being released.
func (p *bindGroupProvider) releaseBinding(binding int) {
	owned := !p.shared[binding]
	delete(p.shared, binding)

	if v := p.textureViews[binding]; v != nil && owned {
		v.Release()
	}
	if t := p.textures[binding]; t != nil && owned {
		t.Release()
	}
	if b := p.buffers[binding]; b != nil && owned {
		b.Release()
	}
	if s := p.samplers[binding]; s != nil && owned {
		s.Release()
	}
	delete(p.textureViews, binding)
	delete(p.textures, binding)
	delete(p.buffers, binding)
	delete(p.samplers, binding)
}
