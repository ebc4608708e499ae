// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"errors"
	"fmt"

	"cookbook-cli/pkg/cookfile"
)

// ErrArgument is the sentinel for invocation problems: unknown recipes and
// argument counts a recipe cannot accept.
var ErrArgument = errors.New("invalid invocation")

type (
	// UnknownRecipeError indicates the invocation named a recipe the cookfile
	// does not define.
	UnknownRecipeError struct {
		Name cookfile.RecipeName
		// Suggestion is a defined recipe with a similar name, empty when
		// nothing comes close.
		Suggestion cookfile.RecipeName
	}

	// ArgumentError indicates a recipe received fewer or more argument values
	// than its parameter list can bind.
	ArgumentError struct {
		Recipe cookfile.RecipeName
		Min    int
		// Max is -1 when a variadic parameter accepts unbounded values.
		Max int
		Got int
	}
)

// Error implements the error interface.
func (e *UnknownRecipeError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown recipe %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown recipe %q", e.Name)
}

// Unwrap implements the errors.Is chain.
func (e *UnknownRecipeError) Unwrap() error { return ErrArgument }

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("recipe %q expects %s, got %d", e.Recipe, e.expected(), e.Got)
}

// Unwrap implements the errors.Is chain.
func (e *ArgumentError) Unwrap() error { return ErrArgument }

func (e *ArgumentError) expected() string {
	switch {
	case e.Max < 0:
		return fmt.Sprintf("at least %d argument%s", e.Min, plural(e.Min))
	case e.Min == e.Max:
		return fmt.Sprintf("%d argument%s", e.Min, plural(e.Min))
	default:
		return fmt.Sprintf("between %d and %d arguments", e.Min, e.Max)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
