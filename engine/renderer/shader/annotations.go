// annotations.go defines the annotation types and the parser for the WGSL pre-processor.
// Annotations are single-line WGSL comments prefixed with @shaderpg: that inject the
// FrameUniforms struct or declare one of the fixed playground bindings without writing
// the @group/@binding boilerplate by hand.
//
// Every annotation is replaced by exactly one output line so that line numbers in
// compiler diagnostics still point at the author's source.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an annotation within a WGSL comment line.
const annotationPrefix = "@shaderpg:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects a registered struct definition at the annotation site.
	//
	// Syntax: //@shaderpg:include <struct_type>
	//
	// Example: //@shaderpg:include frame
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup declares a single binding of the playground layout.
	// When the resource is "frame" the FrameUniforms struct is injected as well, unless
	// it was already included earlier in the source.
	//
	// Syntax: //@shaderpg:group <group> <binding> <resource> <var_name>
	//
	// Example: //@shaderpg:group 0 1 texture tex
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeBindings declares the whole playground layout at once, using the
	// variable names frame, tex and samp.
	//
	// Syntax: //@shaderpg:bindings
	AnnotationTypeBindings AnnotationType = "bindings"
)

// Annotation represents a single parsed annotation from a WGSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = struct type key (e.g. "frame")
	//   - group:    [0] = resource kind, [1] = var name
	//   - bindings: empty
	Args []AnnotationArg

	// Line is the 1-based line number in the original WGSL source.
	Line int

	// Group is the @group index for group annotations. Nil otherwise.
	Group *int

	// Binding is the @binding index for group annotations. Nil otherwise.
	Binding *int
}

// AnnotationArg is a typed string constant used as an argument in annotations.
type AnnotationArg string

const (
	// AnnotationArgFrame identifies the FrameUniforms struct and the uniform binding that holds it.
	// Source: engine/uniforms/assets/frame_uniforms.wgsl
	AnnotationArgFrame AnnotationArg = "frame"

	// AnnotationArgTexture identifies the user texture binding, a texture_2d<f32>.
	AnnotationArgTexture AnnotationArg = "texture"

	// AnnotationArgSampler identifies the shared sampler binding.
	AnnotationArgSampler AnnotationArg = "sampler"
)

// validStructTypes lists the arguments accepted by include annotations.
var validStructTypes = []AnnotationArg{
	AnnotationArgFrame,
}

// validResources lists the arguments accepted as the resource kind of group annotations.
var validResources = []AnnotationArg{
	AnnotationArgFrame,
	AnnotationArgTexture,
	AnnotationArgSampler,
}

// parseAnnotation attempts to parse a single line of WGSL source as an annotation.
// Lines without the prefix yield nil and no error.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @shaderpg annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @shaderpg include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @shaderpg include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 5 {
			return nil, fmt.Errorf("line %d: @shaderpg group annotation requires exactly four arguments (group, binding, resource, var name)", lineNum)
		}
		groupInt, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group number %q in @shaderpg group annotation: %v", lineNum, args[1], err)
		}
		bindingInt, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binding number %q in @shaderpg group annotation: %v", lineNum, args[2], err)
		}
		if !slices.Contains(validResources, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown resource %q in @shaderpg group annotation", lineNum, args[3])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4])},
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	case AnnotationTypeBindings:
		if len(args) != 1 {
			return nil, fmt.Errorf("line %d: @shaderpg bindings annotation takes no arguments", lineNum)
		}
		return &Annotation{
			Type: AnnotationTypeBindings,
			Line: lineNum,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @shaderpg annotation type %q", lineNum, args[0])
	}
}
