package tcl

import "github.com/gtcl-project/gtcl/internal/core"

// EvalError is returned by [Interp.Eval] when a script terminates with an
// error return code. It carries the return code alongside the message so
// callers that need to distinguish ERROR from an escaped BREAK/CONTINUE
// (e.g. one invoked outside a loop) can do so without string matching.
type EvalError struct {
	Code    core.ReturnCode
	Message string
}

func (e *EvalError) Error() string { return e.Message }

func newEvalError(code core.ReturnCode, err error) *EvalError {
	return &EvalError{Code: code, Message: err.Error()}
}
