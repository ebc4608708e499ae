// SPDX-License-Identifier: MPL-2.0

package cookfile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecipeName is the sentinel error wrapped by InvalidRecipeNameError.
	ErrInvalidRecipeName = errors.New("invalid recipe name")
	// ErrInvalidAttribute is the sentinel error wrapped by InvalidAttributeError.
	ErrInvalidAttribute = errors.New("invalid attribute")
)

const (
	// AttributePrivate excludes a recipe from listings. The recipe remains
	// invocable by name, both from the CLI and as a dependency.
	AttributePrivate Attribute = "private"
	// AttributeNoEcho suppresses command-line echoing for the whole recipe.
	AttributeNoEcho Attribute = "no-echo"
)

type (
	// RecipeName identifies a recipe within a cookfile. Names must start with
	// a letter or underscore and may contain letters, digits, hyphens, and
	// underscores.
	RecipeName string

	// InvalidRecipeNameError is returned when a RecipeName value is malformed.
	// It wraps ErrInvalidRecipeName for errors.Is() compatibility.
	InvalidRecipeNameError struct {
		Value RecipeName
	}

	// Attribute is an annotation attached to a recipe declaration, written
	// as `[name]` on its own line directly above the declaration.
	Attribute string

	// InvalidAttributeError is returned when an Attribute is not one of the
	// recognized annotations. It wraps ErrInvalidAttribute.
	InvalidAttributeError struct {
		Value Attribute
	}

	// CommandLine is a single body line of a recipe: the raw text, its
	// pre-split interpolation fragments, and the execution modifiers parsed
	// from the line prefix.
	CommandLine struct {
		// Raw is the line text with prefixes stripped, interpolations intact.
		Raw string
		// Fragments is Raw split into literal and expression segments.
		Fragments []Fragment
		// Line is the 1-based source line number.
		Line int
		// Quiet suppresses echoing of this line (`@` prefix).
		Quiet bool
		// IgnoreError continues past a non-zero exit status (`-` prefix).
		IgnoreError bool
	}

	// Recipe is a named, parameterized unit of work: ordered parameters,
	// ordered dependencies, and ordered command lines.
	Recipe struct {
		Name       RecipeName
		Attributes []Attribute
		Params     []Parameter
		Deps       []Dependency
		Lines      []CommandLine
		// Line is the 1-based source line of the declaration.
		Line int
	}
)

// Error implements the error interface.
func (e *InvalidRecipeNameError) Error() string {
	return fmt.Sprintf("invalid recipe name %q (must start with a letter or underscore and contain only letters, digits, hyphens, and underscores)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidRecipeNameError) Unwrap() error { return ErrInvalidRecipeName }

// IsValid returns whether the RecipeName is well-formed, and a list of
// validation errors if it is not.
func (n RecipeName) IsValid() (bool, []error) {
	if !isValidName(string(n)) {
		return false, []error{&InvalidRecipeNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q (valid: private, no-echo)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidAttributeError) Unwrap() error { return ErrInvalidAttribute }

// IsValid returns whether the Attribute is one of the recognized annotations,
// and a list of validation errors if it is not.
func (a Attribute) IsValid() (bool, []error) {
	switch a {
	case AttributePrivate, AttributeNoEcho:
		return true, nil
	default:
		return false, []error{&InvalidAttributeError{Value: a}}
	}
}

// HasAttribute reports whether the recipe carries the given annotation.
func (r *Recipe) HasAttribute(attr Attribute) bool {
	for _, a := range r.Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// IsPrivate reports whether the recipe is excluded from listings.
func (r *Recipe) IsPrivate() bool { return r.HasAttribute(AttributePrivate) }

// NoEcho reports whether command echoing is suppressed for the whole recipe.
func (r *Recipe) NoEcho() bool { return r.HasAttribute(AttributeNoEcho) }

// Variadic returns the trailing variadic parameter, or nil when the recipe
// has none. The parser guarantees at most one, in last position.
func (r *Recipe) Variadic() *Parameter {
	if len(r.Params) == 0 {
		return nil
	}
	last := &r.Params[len(r.Params)-1]
	if last.Variadic == VariadicNone {
		return nil
	}
	return last
}

// MinArgs returns the minimum number of invocation tokens the recipe accepts.
func (r *Recipe) MinArgs() int {
	n := 0
	for _, p := range r.Params {
		switch {
		case p.Variadic == VariadicOneOrMore:
			n++
		case p.Variadic == VariadicZeroOrMore:
		case !p.HasDefault:
			n++
		}
	}
	return n
}

// MaxArgs returns the maximum number of invocation tokens the recipe accepts,
// or -1 when a variadic parameter makes the recipe unbounded.
func (r *Recipe) MaxArgs() int {
	if r.Variadic() != nil {
		return -1
	}
	return len(r.Params)
}

// isValidName reports whether s is a well-formed recipe, parameter, or
// variable name: a letter or underscore followed by letters, digits,
// hyphens, or underscores.
func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case i > 0 && (c >= '0' && c <= '9' || c == '-'):
		default:
			return false
		}
	}
	return true
}
