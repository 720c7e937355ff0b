package shader

import (
	"fmt"
	"strings"

	"github.com/Overpeek/shaderpg/common"
	"github.com/Overpeek/shaderpg/engine/uniforms"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// BindingFrame is the binding index of the FrameUniforms uniform buffer.
	BindingFrame = 0

	// BindingTexture is the binding index of the user texture.
	BindingTexture = 1

	// BindingSampler is the binding index of the shared sampler.
	BindingSampler = 2
)

// FixedBindGroupLayout describes the only bind group a playground fragment shader may use.
// Group 0 holds the frame uniforms, the user texture and the sampler, all visible to the fragment stage.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout shared by every compiled program
func FixedBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Playground Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    BindingFrame,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uniforms.GPUFrameUniformSize,
				},
			},
			{
				Binding:    BindingTexture,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    BindingSampler,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// ValidateBindings checks the resource declarations of a fragment shader against the fixed layout.
// A shader may declare any subset of the three bindings, but nothing outside them. Each declaration is
// reflected into the layout entry it would need, and that entry must be bindable where
// FixedBindGroupLayout puts it.
//
// Parameters:
//   - source: the pre-processed WGSL source
//
// Returns:
//   - error: a *common.CompileError naming the first offending declaration, or nil
func ValidateBindings(source string) error {
	structSizes := computeStructSizes(parseStructBlocks(stripComments(source)))
	fixed := make(map[int]wgpu.BindGroupLayoutEntry)
	for _, entry := range FixedBindGroupLayout().Entries {
		fixed[int(entry.Binding)] = entry
	}
	seen := make(map[[2]int]string)

	for _, b := range parseBindings(source) {
		slot := [2]int{b.group, b.binding}
		if prev, ok := seen[slot]; ok {
			return contractError(b, fmt.Sprintf("slot already used by %q", prev))
		}
		seen[slot] = b.varName

		if b.group != 0 {
			return contractError(b, "only @group(0) is available")
		}

		want, ok := fixed[b.binding]
		if !ok {
			return contractError(b, "only bindings 0, 1 and 2 are available")
		}
		if reason := compareLayoutEntry(reflectBinding(b, wgpu.ShaderStageFragment, structSizes), want); reason != "" {
			return contractError(b, reason)
		}
	}

	return nil
}

// reflectBinding classifies one declaration into a layout entry. Buffer entries are sized from the declared type.
func reflectBinding(b parsedBinding, visibility wgpu.ShaderStage, structSizes map[string]wgslTypeLayout) wgpu.BindGroupLayoutEntry {
	typeName := strings.ReplaceAll(b.typeName, " ", "")
	entry := classifyResource(uint32(b.binding), visibility, b.addressSpace, typeName)
	if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
		if layout, ok := resolveTypeLayout(typeName, structSizes); ok {
			entry.Buffer.MinBindingSize = layout.size
		}
	}
	return entry
}

// compareLayoutEntry reports why a reflected entry cannot be bound in place of want, or "" if it can.
// An entry with no resource set, such as a storage texture, matches nothing.
//
// Parameters:
//   - got: the entry reflected from the shader
//   - want: the fixed layout entry at the same binding
//
// Returns:
//   - string: the mismatch, empty when got is compatible
func compareLayoutEntry(got, want wgpu.BindGroupLayoutEntry) string {
	switch {
	case want.Buffer.Type != wgpu.BufferBindingTypeUndefined:
		if got.Buffer.Type != want.Buffer.Type {
			return fmt.Sprintf("binding %d must be a var<uniform>", want.Binding)
		}
		if got.Buffer.MinBindingSize > want.Buffer.MinBindingSize {
			return fmt.Sprintf("uniform is %d bytes, at most %d are bound", got.Buffer.MinBindingSize, want.Buffer.MinBindingSize)
		}
	case want.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
		if got.Texture.SampleType != want.Texture.SampleType ||
			got.Texture.ViewDimension != want.Texture.ViewDimension ||
			got.Texture.Multisampled != want.Texture.Multisampled {
			return fmt.Sprintf("binding %d must be a texture_2d<f32>", want.Binding)
		}
	case want.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
		if got.Sampler.Type != want.Sampler.Type {
			return fmt.Sprintf("binding %d must be a sampler", want.Binding)
		}
	}
	return ""
}

func contractError(b parsedBinding, reason string) error {
	return &common.CompileError{
		Diagnostic: fmt.Sprintf("invalid resource binding @group(%d) @binding(%d) %s: %s", b.group, b.binding, b.varName, reason),
	}
}
