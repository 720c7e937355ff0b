package shader

import (
	"strings"
	"testing"
)

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantType AnnotationType
		wantNil  bool
		wantErr  bool
	}{
		{name: "plain code", line: "let x = 1.0;", wantNil: true},
		{name: "plain comment", line: "// just a note", wantNil: true},
		{name: "prefix outside comment", line: "let s = 1; @shaderpg:include frame", wantNil: true},
		{name: "include", line: "//@shaderpg:include frame", wantType: annotationTypeInclude},
		{name: "include with spaces", line: "  // @shaderpg:include frame  ", wantType: annotationTypeInclude},
		{name: "group", line: "//@shaderpg:group 0 1 texture tex", wantType: AnnotationTypeBindingGroup},
		{name: "bindings", line: "//@shaderpg:bindings", wantType: AnnotationTypeBindings},
		{name: "empty", line: "//@shaderpg:", wantErr: true},
		{name: "unknown type", line: "//@shaderpg:provider 0 0 camera", wantErr: true},
		{name: "unknown struct", line: "//@shaderpg:include camera", wantErr: true},
		{name: "include arity", line: "//@shaderpg:include", wantErr: true},
		{name: "group arity", line: "//@shaderpg:group 0 1 texture", wantErr: true},
		{name: "group bad number", line: "//@shaderpg:group zero 1 texture tex", wantErr: true},
		{name: "group bad binding", line: "//@shaderpg:group 0 one texture tex", wantErr: true},
		{name: "group bad resource", line: "//@shaderpg:group 0 1 storage tex", wantErr: true},
		{name: "bindings arity", line: "//@shaderpg:bindings extra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnnotation(tt.line, 7)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseAnnotation(%q) error = nil, want error", tt.line)
				}
				if !strings.Contains(err.Error(), "line 7") {
					t.Errorf("parseAnnotation(%q) error = %q, want line number", tt.line, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAnnotation(%q) error = %v", tt.line, err)
			}
			if tt.wantNil {
				if a != nil {
					t.Errorf("parseAnnotation(%q) = %+v, want nil", tt.line, a)
				}
				return
			}
			if a == nil || a.Type != tt.wantType {
				t.Fatalf("parseAnnotation(%q) = %+v, want type %q", tt.line, a, tt.wantType)
			}
			if a.Line != 7 {
				t.Errorf("Line = %d, want 7", a.Line)
			}
		})
	}
}

func TestPreProcessorKeepsLineCount(t *testing.T) {
	source := strings.Join([]string{
		"//@shaderpg:include frame",
		"//@shaderpg:group 0 0 frame u",
		"//@shaderpg:group 0 1 texture t",
		"//@shaderpg:group 0 2 sampler s",
		"@fragment",
		"fn main() -> @location(0) vec4<f32> { return vec4<f32>(u.time); }",
	}, "\n")

	pp := NewPreProcessor()
	out, err := pp.Process(source)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("Process() produced %d lines, want 6:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "struct FrameUniforms {") {
		t.Errorf("line 1 = %q, want injected struct", lines[0])
	}
	if lines[1] != "@group(0) @binding(0) var<uniform> u: FrameUniforms;" {
		t.Errorf("line 2 = %q", lines[1])
	}
	if lines[2] != "@group(0) @binding(1) var t: texture_2d<f32>;" {
		t.Errorf("line 3 = %q", lines[2])
	}
	if lines[3] != "@group(0) @binding(2) var s: sampler;" {
		t.Errorf("line 4 = %q", lines[3])
	}
	if lines[4] != "@fragment" {
		t.Errorf("line 5 = %q, want untouched source", lines[4])
	}
	if strings.Count(out, "struct FrameUniforms") != 1 {
		t.Errorf("FrameUniforms injected %d times, want 1", strings.Count(out, "struct FrameUniforms"))
	}
	if got := len(pp.Declarations()); got != 3 {
		t.Errorf("len(Declarations()) = %d, want 3", got)
	}
}

func TestPreProcessorFrameBindingInjectsStruct(t *testing.T) {
	out, err := NewPreProcessor().Process("//@shaderpg:group 0 0 frame frame")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if strings.Contains(out, "\n") {
		t.Errorf("Process() output spans several lines: %q", out)
	}
	if !strings.HasPrefix(out, "struct FrameUniforms {") || !strings.HasSuffix(out, "var<uniform> frame: FrameUniforms;") {
		t.Errorf("Process() = %q, want struct then declaration", out)
	}
}

func TestPreProcessorBindings(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@shaderpg:bindings\n//@shaderpg:include frame")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("Process() produced %d lines, want 2", len(lines))
	}
	for _, want := range []string{
		"var<uniform> frame: FrameUniforms;",
		"@group(0) @binding(1) var tex: texture_2d<f32>;",
		"@group(0) @binding(2) var samp: sampler;",
	} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("bindings line %q missing %q", lines[0], want)
		}
	}
	if lines[1] != "" {
		t.Errorf("repeated include = %q, want empty line", lines[1])
	}
}

func TestPreProcessorResetsBetweenCalls(t *testing.T) {
	pp := NewPreProcessor()
	if _, err := pp.Process("//@shaderpg:bindings"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	out, err := pp.Process("//@shaderpg:include frame")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.Contains(out, "struct FrameUniforms") {
		t.Errorf("second Process() = %q, want struct injected again", out)
	}
	if got := len(pp.Declarations()); got != 0 {
		t.Errorf("len(Declarations()) = %d, want 0", got)
	}
}
