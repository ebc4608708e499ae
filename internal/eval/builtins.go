// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"context"
	"strings"
)

// evaluator carries the per-call evaluation state: the context for external
// captures and the scope for identifier lookup.
type evaluator struct {
	ctx   context.Context
	scope Scope
}

func (n *litNode) eval(*evaluator) (string, error) { return n.value, nil }

func (n *identNode) eval(ev *evaluator) (string, error) {
	if v, ok := ev.scope.lookup(n.name); ok {
		return v, nil
	}
	return "", &UndefinedVariableError{Name: n.name}
}

func (n *concatNode) eval(ev *evaluator) (string, error) {
	left, err := n.left.eval(ev)
	if err != nil {
		return "", err
	}
	right, err := n.right.eval(ev)
	if err != nil {
		return "", err
	}
	return left + right, nil
}

func (n *backtickNode) eval(ev *evaluator) (string, error) {
	return ev.capture(n.command)
}

func (n *callNode) eval(ev *evaluator) (string, error) {
	args := make([]string, len(n.args))
	for i, arg := range n.args {
		v, err := arg.eval(ev)
		if err != nil {
			return "", err
		}
		args[i] = v
	}

	r := ev.scope.resolver
	switch n.name {
	case "env_var":
		if len(args) != 1 {
			return "", resolutionErrorf(n.name, "env_var expects 1 argument, got %d", len(args))
		}
		v, ok := r.LookupEnv(args[0])
		if !ok {
			return "", resolutionErrorf(n.name, "environment variable %q is not set", args[0])
		}
		return v, nil

	case "env_var_or_default":
		if len(args) != 2 {
			return "", resolutionErrorf(n.name, "env_var_or_default expects 2 arguments, got %d", len(args))
		}
		if v, ok := r.LookupEnv(args[0]); ok {
			return v, nil
		}
		return args[1], nil

	case "shell":
		if len(args) != 1 {
			return "", resolutionErrorf(n.name, "shell expects 1 argument, got %d", len(args))
		}
		return ev.capture(args[0])

	case "executable_path":
		if len(args) != 0 {
			return "", resolutionErrorf(n.name, "executable_path expects no arguments, got %d", len(args))
		}
		path, err := r.Executable()
		if err != nil {
			return "", &ResolutionError{Expr: "executable_path()", Cause: err}
		}
		r.executablePath = path
		r.usedExecutable = true
		return path, nil

	default:
		return "", &UnknownFunctionError{Name: n.name}
	}
}

// capture runs a command through the resolver's Runner and returns its
// standard output with trailing newlines trimmed. A non-zero exit status or
// a spawn failure aborts resolution.
func (ev *evaluator) capture(command string) (string, error) {
	r := ev.scope.resolver
	if r.Runner == nil {
		return "", resolutionErrorf(command, "no command runner available for capture")
	}
	out, code, err := r.Runner.Capture(ev.ctx, command)
	if err != nil {
		return "", &ResolutionError{Expr: command, Cause: err}
	}
	if code != 0 {
		return "", resolutionErrorf(command, "captured command exited with status %d", code)
	}
	return strings.TrimRight(out, "\r\n"), nil
}
