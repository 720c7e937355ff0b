package common

import "errors"

// ErrDeviceLost is reported when the GPU device or presentation surface cannot be recovered.
// The render loop treats it as fatal.
var ErrDeviceLost = errors.New("gpu device or surface lost")

// CompileError carries the shader compiler's diagnostic for a rejected source.
// Error returns the diagnostic unchanged so it can be sent back to the host verbatim.
type CompileError struct {
	Diagnostic string
}

func (e *CompileError) Error() string {
	return e.Diagnostic
}

// DecodeError carries the image decoder's message for texture bytes that could not be turned into RGBA8.
type DecodeError struct {
	Message string
}

func (e *DecodeError) Error() string {
	return e.Message
}

// AsCompileError converts err into a *CompileError, keeping an existing one intact.
//
// Parameters:
//   - err: the error to convert, may be nil
//
// Returns:
//   - *CompileError: nil when err is nil
func AsCompileError(err error) *CompileError {
	if err == nil {
		return nil
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce
	}
	return &CompileError{Diagnostic: err.Error()}
}
