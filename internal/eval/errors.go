// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"errors"
	"fmt"
)

// ErrResolution is the sentinel error wrapped by every resolver failure.
var ErrResolution = errors.New("resolution error")

type (
	// ResolutionError reports a failed expression evaluation: a syntax error
	// in the expression, a failed builtin call, or a failed external capture.
	ResolutionError struct {
		// Expr is the expression source that failed.
		Expr string
		// Reason describes the failure when Cause is nil.
		Reason string
		// Cause is the underlying error, if any.
		Cause error
	}

	// UndefinedVariableError is returned when an expression references a
	// name that is neither a bound parameter nor a top-level variable.
	// It wraps ErrResolution for errors.Is() compatibility.
	UndefinedVariableError struct {
		Name string
	}

	// UnknownFunctionError is returned when an expression calls a function
	// outside the builtin set. It wraps ErrResolution.
	UnknownFunctionError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to resolve %q: %v", e.Expr, e.Cause)
	}
	return fmt.Sprintf("failed to resolve %q: %s", e.Expr, e.Reason)
}

// Unwrap returns ErrResolution plus the cause when present, so both
// errors.Is(err, ErrResolution) and cause-chain inspection work.
func (e *ResolutionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrResolution, e.Cause}
	}
	return []error{ErrResolution}
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}

// Unwrap returns ErrResolution so callers can use errors.Is for programmatic detection.
func (e *UndefinedVariableError) Unwrap() error { return ErrResolution }

// Error implements the error interface.
func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q (valid: env_var, env_var_or_default, shell, executable_path)", e.Name)
}

// Unwrap returns ErrResolution so callers can use errors.Is for programmatic detection.
func (e *UnknownFunctionError) Unwrap() error { return ErrResolution }

// resolutionErrorf builds a ResolutionError for an expression with a
// formatted reason.
func resolutionErrorf(expr, format string, args ...any) *ResolutionError {
	return &ResolutionError{Expr: expr, Reason: fmt.Sprintf(format, args...)}
}
