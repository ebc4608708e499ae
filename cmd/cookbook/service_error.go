// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"cookbook-cli/internal/dag"
	"cookbook-cli/internal/eval"
	"cookbook-cli/internal/issue"
	"cookbook-cli/internal/plan"
	"cookbook-cli/internal/runtime"
	"cookbook-cli/pkg/cookfile"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before formatting the underlying error.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError maps a failure to its issue catalog entry so the terminal
// output can point at the relevant help text. Returns 0 for errors with no
// catalog entry.
func classifyError(err error) issue.Id {
	var (
		parseErr *cookfile.ParseError
		cycleErr *dag.CycleError
		unknown  *plan.UnknownRecipeError
		argErr   *plan.ArgumentError
		execErr  *runtime.ExecutionError
	)
	switch {
	case errors.As(err, &parseErr):
		return issue.CookfileParseErrorId
	case errors.As(err, &cycleErr):
		return issue.DependencyCycleId
	case errors.As(err, &unknown):
		return issue.RecipeNotFoundId
	case errors.As(err, &argErr):
		return issue.RecipeArgumentsId
	case errors.Is(err, eval.ErrResolution):
		return issue.VariableResolutionId
	case errors.As(err, &execErr):
		if execErr.Cause != nil {
			return issue.ShellNotFoundId
		}
		// A plain non-zero exit is ordinary recipe failure; the child already
		// printed its own diagnostics.
		return 0
	default:
		return 0
	}
}

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
