// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"

	"cookbook-cli/pkg/cookfile"
)

// ErrExecution is the sentinel error wrapped by ExecutionError.
var ErrExecution = errors.New("command execution failed")

// ExecutionError reports a recipe line that failed: either the shell could
// not be spawned (Cause set) or the line exited non-zero (ExitCode set).
type ExecutionError struct {
	Recipe cookfile.RecipeName
	// Line is the 1-based cookfile line number of the failed command.
	Line     int
	Command  string
	ExitCode int
	Cause    error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("recipe %q: line %d: %v", e.Recipe, e.Line, e.Cause)
	}
	return fmt.Sprintf("recipe %q: command %q exited with status %d", e.Recipe, e.Command, e.ExitCode)
}

// Unwrap returns the error chain for errors.Is and errors.As.
func (e *ExecutionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrExecution, e.Cause}
	}
	return []error{ErrExecution}
}
