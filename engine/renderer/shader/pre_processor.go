// pre_processor.go implements the WGSL shader pre-processor. It scans shader source for
// @shaderpg: annotations, replaces each with generated WGSL on a single line, and collects
// the binding declarations it produced.
//
// The pre-processor keeps two registries:
//   - structRegistry: maps struct keys to embedded WGSL struct sources and their type names.
//   - resourceRegistry: maps resource kinds to the var<> qualifier and WGSL type they declare.
package shader

import (
	"fmt"
	"strings"

	"github.com/Overpeek/shaderpg/engine/uniforms"
)

// registryEntry pairs a WGSL struct source string with the WGSL type name used in declarations.
type registryEntry struct {
	// Source is the raw WGSL struct definition text injected by include.
	Source string

	// Type is the WGSL type name emitted in generated declarations (e.g. "FrameUniforms").
	Type string
}

// resourceEntry describes how a resource kind is declared in WGSL.
type resourceEntry struct {
	// Qualifier is the var keyword with its address space, e.g. "var<uniform>" or "var".
	Qualifier string

	// Type is the WGSL type of the variable.
	Type string

	// Struct is the struct key that must be in scope before the declaration, empty for handle types.
	Struct AnnotationArg
}

// defaultBindings is the layout emitted by the bindings annotation.
var defaultBindings = []struct {
	binding  int
	resource AnnotationArg
	varName  string
}{
	{0, AnnotationArgFrame, "frame"},
	{1, AnnotationArgTexture, "tex"},
	{2, AnnotationArgSampler, "samp"},
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry   map[AnnotationArg]registryEntry
	resourceRegistry map[AnnotationArg]resourceEntry

	// included tracks which structs were injected during the current Process call.
	included map[AnnotationArg]bool

	// declarations accumulates group and bindings annotations during a Process call.
	declarations []Annotation
}

// PreProcessor processes raw WGSL shader source containing @shaderpg: annotations.
type PreProcessor interface {
	// Process replaces every annotation with its generated WGSL. Each annotation line becomes
	// exactly one output line. A struct is injected at most once per call.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing annotations to be processed
	//
	// Returns:
	//   - string: the processed WGSL shader source code
	//   - error: an error if any annotation is malformed
	Process(source string) (string, error)

	// Declarations returns the group and bindings annotations collected by the most recent Process call.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the frame uniform struct and the playground
// resource kinds registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgFrame: {Source: uniforms.GPUFrameUniformSource, Type: "FrameUniforms"},
		},
		resourceRegistry: map[AnnotationArg]resourceEntry{
			AnnotationArgFrame:   {Qualifier: "var<uniform>", Type: "FrameUniforms", Struct: AnnotationArgFrame},
			AnnotationArgTexture: {Qualifier: "var", Type: "texture_2d<f32>"},
			AnnotationArgSampler: {Qualifier: "var", Type: "sampler"},
		},
		included: make(map[AnnotationArg]bool),
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	clear(p.included)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		var parts []string
		switch a.Type {
		case annotationTypeInclude:
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @shaderpg:include argument %q", a.Line, a.Args[0])
			}
			if !p.included[a.Args[0]] {
				p.included[a.Args[0]] = true
				parts = append(parts, flatten(entry.Source))
			}
		case AnnotationTypeBindingGroup:
			decl, err := p.declare(*a.Group, *a.Binding, a.Args[0], string(a.Args[1]))
			if err != nil {
				return "", fmt.Errorf("line %d: %w", a.Line, err)
			}
			parts = append(parts, decl...)
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeBindings:
			for _, b := range defaultBindings {
				decl, err := p.declare(0, b.binding, b.resource, b.varName)
				if err != nil {
					return "", fmt.Errorf("line %d: %w", a.Line, err)
				}
				parts = append(parts, decl...)
			}
			p.declarations = append(p.declarations, *a)
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", a.Line, a.Type)
		}

		out = append(out, strings.Join(parts, " "))
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

// declare renders one binding declaration, preceded by its struct when that struct is not yet in scope.
func (p *preProcessor) declare(group, binding int, resource AnnotationArg, varName string) ([]string, error) {
	res, ok := p.resourceRegistry[resource]
	if !ok {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}

	var parts []string
	if res.Struct != "" && !p.included[res.Struct] {
		p.included[res.Struct] = true
		parts = append(parts, flatten(p.structRegistry[res.Struct].Source))
	}
	parts = append(parts, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", group, binding, res.Qualifier, varName, res.Type))
	return parts, nil
}

// flatten collapses a multi-line WGSL snippet onto one line, dropping comments and blank lines.
func flatten(source string) string {
	fields := strings.Fields(stripComments(source))
	return strings.Join(fields, " ")
}
