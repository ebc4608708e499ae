// SPDX-License-Identifier: MPL-2.0

// Package runtime executes the shell lines of a recipe. Two runtimes are
// provided: the native runtime spawns the system shell, the virtual runtime
// interprets POSIX shell in-process. Both expose a recipe's bound parameter
// values to the line as positional parameters $1..$n.
package runtime

import (
	"context"
	"fmt"
	"io"
)

// Runtime names accepted by Select and the default_runtime config key.
const (
	NativeRuntimeName  = "native"
	VirtualRuntimeName = "virtual"
)

type (
	// ExecutionContext carries everything a runtime needs to run one shell
	// line of a recipe.
	ExecutionContext struct {
		Context context.Context
		// Command is the fully interpolated shell line.
		Command string
		// Dir is the working directory, normally the cookfile's directory.
		Dir string
		// ExtraEnv is merged over the inherited process environment: exported
		// cookfile bindings plus orchestrator-provided variables.
		ExtraEnv map[string]string
		// Positional are the recipe's bound parameter values, exposed to the
		// line as $1, $2, ...
		Positional []string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Runtime runs shell lines. Execute streams output to the context's
	// stdio; ExecuteCapture buffers it for expression captures.
	Runtime interface {
		Name() string
		Available() bool
		Execute(ctx *ExecutionContext) *Result
		ExecuteCapture(ctx *ExecutionContext) *Result
	}
)

// Select returns the runtime with the given name. Shell and shellArgs apply
// to the native runtime only; the virtual runtime is its own interpreter.
func Select(name, shell string, shellArgs []string) (Runtime, error) {
	switch name {
	case NativeRuntimeName, "":
		return &NativeRuntime{Shell: shell, ShellArgs: shellArgs}, nil
	case VirtualRuntimeName:
		return NewVirtualRuntime(), nil
	default:
		return nil, fmt.Errorf("unknown runtime %q (valid: %s, %s)", name, NativeRuntimeName, VirtualRuntimeName)
	}
}
