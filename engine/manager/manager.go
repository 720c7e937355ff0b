// Package manager owns the current render pipeline and the current texture, replacing each only
// when a new one has been built successfully.
package manager

import "github.com/Overpeek/shaderpg/common"

// Resource is a GPU object that must be released when it is replaced.
type Resource interface {
	Release()
}

// Program is a compiled render pipeline built from a user fragment shader.
type Program interface {
	Resource
	// PipelineKey returns the identifier of the pipeline.
	PipelineKey() string
}

// ProgramCompiler builds render programs from fragment shader source.
type ProgramCompiler interface {
	// CompileProgram validates source and creates a program from it.
	//
	// Parameters:
	//   - source: WGSL fragment shader source
	//
	// Returns:
	//   - Program: the new program
	//   - error: a *common.CompileError when the source is rejected
	CompileProgram(source string) (Program, error)
}

// TextureUploader creates GPU textures from decoded pixel data.
type TextureUploader interface {
	// CreateTexture uploads staging and returns the bindable texture.
	//
	// Parameters:
	//   - staging: RGBA8 pixels
	//
	// Returns:
	//   - Resource: the texture together with its binding
	//   - error: if the device refused the texture
	CreateTexture(staging common.TextureStagingData) (Resource, error)
}

// State is the pipeline manager's current program: Idle before any shader compiled, Active afterwards.
// The concrete types are Idle and Active.
type State interface {
	isState()
}

// Idle means no shader has compiled yet. Frames clear the target and draw nothing.
type Idle struct{}

// Active holds the program drawn every frame.
type Active struct {
	Program Program
}

func (Idle) isState()   {}
func (Active) isState() {}

// outcomeOf maps the result of an edit to the string sent back to the host.
func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	return err.Error()
}
