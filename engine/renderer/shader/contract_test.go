package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/Overpeek/shaderpg/common"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestValidateBindings(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{name: "no resources", source: "@fragment fn main() {}"},
		{name: "full layout", source: playgroundFragmentProcessed()},
		{
			name:   "subset",
			source: "@group(0) @binding(2) var s: sampler;",
		},
		{
			name:   "reversed attributes",
			source: "@binding(1) @group(0) var t: texture_2d<f32>;",
		},
		{
			name:   "smaller uniform",
			source: "@group(0) @binding(0) var<uniform> t: f32;",
		},
		{
			name:   "struct uniform",
			source: "struct U { aspect: f32, time: f32, }\n@group(0) @binding(0) var<uniform> u: U;",
		},
		{
			name:    "other group",
			source:  "@group(1) @binding(0) var<uniform> t: f32;",
			wantErr: "only @group(0) is available",
		},
		{
			name:    "binding out of range",
			source:  "@group(0) @binding(3) var s2: sampler;",
			wantErr: "only bindings 0, 1 and 2 are available",
		},
		{
			name:    "storage at 0",
			source:  "@group(0) @binding(0) var<storage, read> data: array<f32>;",
			wantErr: "binding 0 must be a var<uniform>",
		},
		{
			name:    "uniform too large",
			source:  "@group(0) @binding(0) var<uniform> m: mat4x4<f32>;",
			wantErr: "uniform is 64 bytes, at most 16 are bound",
		},
		{
			name:    "integer texture",
			source:  "@group(0) @binding(1) var t: texture_2d<u32>;",
			wantErr: "binding 1 must be a texture_2d<f32>",
		},
		{
			name:    "cube texture",
			source:  "@group(0) @binding(1) var t: texture_cube<f32>;",
			wantErr: "binding 1 must be a texture_2d<f32>",
		},
		{
			name:    "storage texture",
			source:  "@group(0) @binding(1) var t: texture_storage_2d<rgba8unorm, write>;",
			wantErr: "binding 1 must be a texture_2d<f32>",
		},
		{
			name:    "depth texture",
			source:  "@group(0) @binding(1) var t: texture_depth_2d;",
			wantErr: "binding 1 must be a texture_2d<f32>",
		},
		{
			name:    "multisampled texture",
			source:  "@group(0) @binding(1) var t: texture_multisampled_2d<f32>;",
			wantErr: "binding 1 must be a texture_2d<f32>",
		},
		{
			name:    "texture where the sampler goes",
			source:  "@group(0) @binding(2) var t: texture_2d<f32>;",
			wantErr: "binding 2 must be a sampler",
		},
		{
			name:    "sampler where the uniform goes",
			source:  "@group(0) @binding(0) var s: sampler;",
			wantErr: "binding 0 must be a var<uniform>",
		},
		{
			name:   "spaced texture parameter",
			source: "@group(0) @binding(1) var t: texture_2d< f32 >;",
		},
		{
			name:    "comparison sampler",
			source:  "@group(0) @binding(2) var s: sampler_comparison;",
			wantErr: "binding 2 must be a sampler",
		},
		{
			name:    "duplicate slot",
			source:  "@group(0) @binding(2) var a: sampler;\n@group(0) @binding(2) var b: sampler;",
			wantErr: `slot already used by "a"`,
		},
		{
			name:   "commented out declaration",
			source: "// @group(3) @binding(9) var s: sampler;\n/* @group(4) @binding(0) var t: sampler; */",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBindings(tt.source)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateBindings() error = %v, want nil", err)
				}
				return
			}
			var ce *common.CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("ValidateBindings() error = %v, want *common.CompileError", err)
			}
			if !strings.Contains(ce.Diagnostic, tt.wantErr) {
				t.Errorf("Diagnostic = %q, want it to contain %q", ce.Diagnostic, tt.wantErr)
			}
		})
	}
}

func playgroundFragmentProcessed() string {
	out, err := NewPreProcessor().Process(playgroundFragment)
	if err != nil {
		panic(err)
	}
	return out
}

func TestFixedBindGroupLayoutMatchesReflection(t *testing.T) {
	fixed := FixedBindGroupLayout()
	source := playgroundFragmentProcessed()
	structSizes := computeStructSizes(parseStructBlocks(stripComments(source)))

	bindings := parseBindings(source)
	if len(bindings) != len(fixed.Entries) {
		t.Fatalf("reflected %d bindings, want %d", len(bindings), len(fixed.Entries))
	}
	for i, b := range bindings {
		got := reflectBinding(b, wgpu.ShaderStageFragment, structSizes)
		want := fixed.Entries[i]
		if got.Binding != want.Binding ||
			got.Visibility != want.Visibility ||
			got.Buffer.Type != want.Buffer.Type ||
			got.Buffer.MinBindingSize != want.Buffer.MinBindingSize ||
			got.Texture.SampleType != want.Texture.SampleType ||
			got.Texture.ViewDimension != want.Texture.ViewDimension ||
			got.Sampler.Type != want.Sampler.Type {
			t.Errorf("entry %d = %+v, want %+v", i, got, want)
		}
		if reason := compareLayoutEntry(got, want); reason != "" {
			t.Errorf("compareLayoutEntry(entry %d) = %q, want compatible", i, reason)
		}
	}
}

func TestCompareLayoutEntryRejectsUnclassified(t *testing.T) {
	for _, want := range FixedBindGroupLayout().Entries {
		if reason := compareLayoutEntry(wgpu.BindGroupLayoutEntry{Binding: want.Binding}, want); reason == "" {
			t.Errorf("binding %d accepted an entry with no resource set", want.Binding)
		}
	}
}

func TestComputeStructSizes(t *testing.T) {
	source := `
struct Inner { a: vec3<f32>, b: f32, }
struct Outer { inner: Inner, scale: vec2<f32>, values: array<f32, 4>, }
struct Frame { aspect: f32, time: f32, cursor: vec2<f32>, }
`
	sizes := computeStructSizes(parseStructBlocks(source))
	tests := []struct {
		name string
		want uint64
	}{
		{"Inner", 16},
		{"Outer", 48},
		{"Frame", 16},
	}
	for _, tt := range tests {
		if got := sizes[tt.name].size; got != tt.want {
			t.Errorf("size(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestStripCommentsKeepsLines(t *testing.T) {
	source := "a /* one\ntwo /* nested */ three */ b\n// c\nd"
	got := stripComments(source)
	if strings.Count(got, "\n") < strings.Count(source, "\n") {
		t.Errorf("stripComments() dropped lines: %q", got)
	}
	if strings.Contains(got, "two") || strings.Contains(got, "c") {
		t.Errorf("stripComments() = %q, comment text survived", got)
	}
}
