// SPDX-License-Identifier: MPL-2.0

package cookfile

import (
	"errors"
	"fmt"
)

// ErrInvalidVariadicKind is the sentinel error wrapped by InvalidVariadicKindError.
var ErrInvalidVariadicKind = errors.New("invalid variadic kind")

const (
	// VariadicNone marks a regular single-value parameter.
	VariadicNone VariadicKind = ""
	// VariadicOneOrMore marks a `+name` parameter: absorbs all remaining
	// invocation tokens and requires at least one.
	VariadicOneOrMore VariadicKind = "+"
	// VariadicZeroOrMore marks a `*name` parameter: absorbs all remaining
	// invocation tokens and may be empty.
	VariadicZeroOrMore VariadicKind = "*"
)

type (
	// VariadicKind describes how a parameter captures invocation tokens.
	VariadicKind string

	// InvalidVariadicKindError is returned when a VariadicKind value is not
	// one of the defined markers. It wraps ErrInvalidVariadicKind.
	InvalidVariadicKindError struct {
		Value VariadicKind
	}

	// Parameter is a declared positional parameter of a recipe. A parameter
	// without a default and without a variadic marker is required.
	Parameter struct {
		// Name is the parameter name, visible to the recipe's own body as an
		// interpolation identifier.
		Name string
		// Default is the default expression source, used when the invocation
		// supplies no token for this parameter. Meaningful only when
		// HasDefault is true (the empty expression "" is a valid default).
		Default string
		// HasDefault distinguishes "no default" from an empty default.
		HasDefault bool
		// Variadic marks the trailing greedy parameter, if any.
		Variadic VariadicKind
		// Line is the 1-based source line of the declaration.
		Line int
	}
)

// Error implements the error interface.
func (e *InvalidVariadicKindError) Error() string {
	return fmt.Sprintf("invalid variadic kind %q (valid: %q, %q, %q)",
		e.Value, VariadicNone, VariadicOneOrMore, VariadicZeroOrMore)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidVariadicKindError) Unwrap() error { return ErrInvalidVariadicKind }

// IsValid returns whether the VariadicKind is one of the defined markers,
// and a list of validation errors if it is not.
func (k VariadicKind) IsValid() (bool, []error) {
	switch k {
	case VariadicNone, VariadicOneOrMore, VariadicZeroOrMore:
		return true, nil
	default:
		return false, []error{&InvalidVariadicKindError{Value: k}}
	}
}

// Required reports whether the parameter must receive at least one
// invocation token.
func (p *Parameter) Required() bool {
	if p.Variadic == VariadicOneOrMore {
		return true
	}
	return p.Variadic == VariadicNone && !p.HasDefault
}
