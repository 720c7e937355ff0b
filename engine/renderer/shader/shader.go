package shader

import (
	"fmt"

	"github.com/Overpeek/shaderpg/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

// ShaderType identifies the pipeline stage a shader is written for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage. The playground only uses its built-in quad vertex shader.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage supplied by the user.
	ShaderTypeFragment
)

// String returns the WGSL attribute name of the stage.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
	declarations               []Annotation

	validate func(source string) error
}

// Shader is a pre-processed and validated WGSL shader ready for module creation.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used as the module label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "main")
	EntryPoint() string

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor holding the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the stage of the shader.
	ShaderType() ShaderType

	// Declarations returns the binding annotations the pre-processor expanded.
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes and validates WGSL source.
// Fragment shaders are also checked against FixedBindGroupLayout.
//
// Parameters:
//   - key: a unique identifier for the shader, used as the module label
//   - shaderType: the pipeline stage the source is written for
//   - source: the WGSL source text
//   - options: functional options for the shader
//
// Returns:
//   - Shader: the parsed shader
//   - error: a *common.CompileError holding the diagnostic if the source is rejected
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:        key,
		shaderType: shaderType,
		validate:   validateWGSL,
	}
	for _, opt := range options {
		opt(s)
	}

	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, &common.CompileError{Diagnostic: err.Error()}
	}
	s.source = processed
	s.declarations = append([]Annotation(nil), pp.Declarations()...)

	if s.validate != nil {
		if err := s.validate(s.source); err != nil {
			return nil, common.AsCompileError(err)
		}
	}

	s.entryPoint = parseEntryPoint(s.source, s.shaderType)
	if s.entryPoint == "" {
		return nil, &common.CompileError{Diagnostic: fmt.Sprintf("no @%s entry point found", s.shaderType)}
	}

	if s.shaderType == ShaderTypeFragment {
		if err := ValidateBindings(s.source); err != nil {
			return nil, err
		}
	}

	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}

	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

// validateWGSL runs the source through the naga front end and reports its diagnostic verbatim.
func validateWGSL(source string) error {
	if _, err := naga.Compile(source); err != nil {
		return &common.CompileError{Diagnostic: err.Error()}
	}
	return nil
}
