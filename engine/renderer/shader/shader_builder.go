package shader

// ShaderBuilderOption is a functional option for configuring a Shader.
type ShaderBuilderOption func(*shader)

// WithValidator replaces the WGSL front end used to validate the source.
// A nil validator skips front-end validation, leaving it to the GPU driver at module creation.
//
// Parameters:
//   - validate: reports a diagnostic for invalid source
//
// Returns:
//   - ShaderBuilderOption: a function that applies the validator to a shader
func WithValidator(validate func(source string) error) ShaderBuilderOption {
	return func(s *shader) {
		s.validate = validate
	}
}
