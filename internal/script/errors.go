package script

import (
	"errors"
	"fmt"
)

// Errors for script operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a call runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoFrame is raised when a drawing function runs outside draw().
	ErrNoFrame = errors.New("grid drawing is only allowed inside draw()")
)

// ScriptError reports a failure inside a script callback.
type ScriptError struct {
	Path string
	Func string
	Err  error
}

func (e *ScriptError) Error() string {
	if e.Func == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Func, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
