package manager

import (
	"github.com/Overpeek/shaderpg/common"
)

// PipelineManager compiles fragment shaders and swaps the active program on success.
// It is owned by the render loop and is not safe for concurrent use.
type PipelineManager interface {
	// Compile builds a program without installing it.
	//
	// Parameters:
	//   - source: WGSL fragment shader source
	//
	// Returns:
	//   - Program: the new program
	//   - error: a *common.CompileError carrying the compiler diagnostic
	Compile(source string) (Program, error)

	// Update compiles source and installs the result, releasing the program it replaces.
	// On failure the current state is left untouched.
	//
	// Parameters:
	//   - source: WGSL fragment shader source
	//
	// Returns:
	//   - string: "ok" or the compiler diagnostic, verbatim
	Update(source string) string

	// State returns Idle or Active.
	State() State

	// Generation counts successful updates.
	Generation() uint64

	// Release releases the active program and returns to Idle.
	Release()
}

type pipelineManager struct {
	compiler   ProgramCompiler
	state      State
	generation uint64
}

var _ PipelineManager = &pipelineManager{}

// NewPipelineManager creates a manager in the Idle state.
//
// Parameters:
//   - compiler: builds programs from source
//
// Returns:
//   - PipelineManager: the idle manager
func NewPipelineManager(compiler ProgramCompiler) PipelineManager {
	return &pipelineManager{
		compiler: compiler,
		state:    Idle{},
	}
}

func (m *pipelineManager) Compile(source string) (Program, error) {
	p, err := m.compiler.CompileProgram(source)
	if err != nil {
		return nil, common.AsCompileError(err)
	}
	return p, nil
}

func (m *pipelineManager) Update(source string) string {
	p, err := m.Compile(source)
	if err != nil {
		common.Logger().Warn("fragment shader rejected", "generation", m.generation, "error", err)
		return outcomeOf(err)
	}

	if prev, ok := m.state.(Active); ok {
		prev.Program.Release()
	}
	m.state = Active{Program: p}
	m.generation++
	common.Logger().Debug("fragment shader installed", "pipeline", p.PipelineKey(), "generation", m.generation)
	return outcomeOf(nil)
}

func (m *pipelineManager) State() State {
	return m.state
}

func (m *pipelineManager) Generation() uint64 {
	return m.generation
}

func (m *pipelineManager) Release() {
	if prev, ok := m.state.(Active); ok {
		prev.Program.Release()
	}
	m.state = Idle{}
}
