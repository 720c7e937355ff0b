package bind_group_provider

import "testing"

func TestNewBindGroupProviderEmpty(t *testing.T) {
	p := NewBindGroupProvider("texture")

	if p.Label() != "texture" {
		t.Errorf("Label() = %q, want texture", p.Label())
	}
	if p.BindGroup() != nil || p.Buffer(0) != nil || p.TextureView(1) != nil || p.Sampler(2) != nil {
		t.Error("new provider holds resources")
	}
	if w, h := p.Size(); w != 0 || h != 0 {
		t.Errorf("Size() = %dx%d, want 0x0", w, h)
	}
}

func TestSharedBindings(t *testing.T) {
	p := NewBindGroupProvider("texture",
		WithSharedBuffer(0, nil),
		WithSharedSampler(2, nil),
	)

	tests := []struct {
		binding int
		want    bool
	}{
		{0, true},
		{1, false},
		{2, true},
	}
	for _, tt := range tests {
		if got := p.Shared(tt.binding); got != tt.want {
			t.Errorf("Shared(%d) = %v, want %v", tt.binding, got, tt.want)
		}
	}

	p.Release()
	if p.Shared(0) || p.Shared(2) {
		t.Error("Release() kept shared markers")
	}
	p.Release()
}

func TestSetTextureRecordsSize(t *testing.T) {
	p := NewBindGroupProvider("texture")
	p.SetTexture(1, nil, nil, 64, 32)

	if w, h := p.Size(); w != 64 || h != 32 {
		t.Errorf("Size() = %dx%d, want 64x32", w, h)
	}
}
