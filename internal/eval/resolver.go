// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"context"
	"os"
	"strings"

	"cookbook-cli/pkg/cookfile"
)

type (
	// Runner executes a shell command and captures its standard output.
	// Backticks and the shell() builtin are the only expression forms that
	// spawn processes during resolution.
	Runner interface {
		Capture(ctx context.Context, command string) (stdout string, exitCode int, err error)
	}

	// GlobalValue is a resolved top-level binding, used by --evaluate output.
	GlobalValue struct {
		Name  string
		Value string
	}

	// Resolver evaluates top-level bindings eagerly and recipe-scoped
	// expressions lazily. After ResolveGlobals returns, the global binding
	// table is immutable and safe to share across every recipe in a plan.
	Resolver struct {
		// Runner executes captured commands. A nil Runner fails any
		// expression that needs process capture.
		Runner Runner
		// LookupEnv reads an environment variable. Defaults to os.LookupEnv;
		// tests inject a fixed table.
		LookupEnv func(string) (string, bool)
		// Executable returns the orchestrator's own binary path. Defaults to
		// os.Executable.
		Executable func() (string, error)

		globals map[string]string
		order   []string
		exports []string

		executablePath string
		usedExecutable bool
	}

	// Scope is a read-only view for expression evaluation: a recipe's bound
	// parameters layered over the resolver's global bindings. The zero-layer
	// scope (no parameters) is the global scope used for top-level bindings.
	Scope struct {
		resolver *Resolver
		params   map[string]string
	}
)

// NewResolver creates a Resolver that captures external commands through the
// given runner.
func NewResolver(runner Runner) *Resolver {
	return &Resolver{
		Runner:     runner,
		LookupEnv:  os.LookupEnv,
		Executable: os.Executable,
		globals:    make(map[string]string),
	}
}

// ResolveGlobals evaluates every top-level binding exactly once, left to
// right, with later bindings able to reference earlier ones. An override
// replaces the file-declared expression for that binding; overriding a name
// the cookfile does not declare is an error. Evaluating a binding may spawn
// a process (backticks, shell()); any such failure aborts the invocation.
func (r *Resolver) ResolveGlobals(ctx context.Context, bindings []cookfile.Binding, overrides map[string]string) error {
	declared := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		declared[b.Name] = true
	}
	for name := range overrides {
		if !declared[name] {
			return resolutionErrorf(name+"=...", "cookfile does not define variable %q", name)
		}
	}

	for _, b := range bindings {
		value, ok := overrides[b.Name]
		if !ok {
			var err error
			value, err = r.GlobalScope().Eval(ctx, b.Expr)
			if err != nil {
				return err
			}
		}
		r.globals[b.Name] = value
		r.order = append(r.order, b.Name)
		if b.Export {
			r.exports = append(r.exports, b.Name)
		}
	}
	return nil
}

// Global returns a resolved top-level binding value.
func (r *Resolver) Global(name string) (string, bool) {
	v, ok := r.globals[name]
	return v, ok
}

// Globals returns the resolved top-level bindings in declaration order.
func (r *Resolver) Globals() []GlobalValue {
	out := make([]GlobalValue, len(r.order))
	for i, name := range r.order {
		out[i] = GlobalValue{Name: name, Value: r.globals[name]}
	}
	return out
}

// ExportedEnv returns the resolved values of `export` bindings, to be merged
// into the environment of every child process.
func (r *Resolver) ExportedEnv() map[string]string {
	env := make(map[string]string, len(r.exports))
	for _, name := range r.exports {
		env[name] = r.globals[name]
	}
	return env
}

// UsedExecutablePath returns the orchestrator's own binary path and whether
// any evaluated expression requested it via executable_path(). The Executor
// exports the path to children only when it was requested.
func (r *Resolver) UsedExecutablePath() (string, bool) {
	return r.executablePath, r.usedExecutable
}

// GlobalScope returns the scope holding only the top-level bindings.
func (r *Resolver) GlobalScope() Scope {
	return Scope{resolver: r}
}

// ScopeWith returns a scope with the given parameter values layered over
// the global bindings. Parameters shadow globals of the same name and are
// visible only through this scope, never to sibling recipes.
func (r *Resolver) ScopeWith(params map[string]string) Scope {
	return Scope{resolver: r, params: params}
}

func (s Scope) lookup(name string) (string, bool) {
	if v, ok := s.params[name]; ok {
		return v, true
	}
	return s.resolver.globals[name], hasKey(s.resolver.globals, name)
}

func hasKey(m map[string]string, k string) bool {
	_, ok := m[k]
	return ok
}

// Eval resolves an expression source to its literal string value.
func (s Scope) Eval(ctx context.Context, src string) (string, error) {
	node, err := parseExpr(src)
	if err != nil {
		return "", &ResolutionError{Expr: src, Reason: err.Error()}
	}
	ev := &evaluator{ctx: ctx, scope: s}
	value, err := node.eval(ev)
	if err != nil {
		if isResolutionKind(err) {
			return "", err
		}
		return "", &ResolutionError{Expr: src, Cause: err}
	}
	return value, nil
}

// Interpolate resolves a command line's fragments into the literal command
// string: literal fragments pass through, expression fragments are evaluated
// in this scope.
func (s Scope) Interpolate(ctx context.Context, fragments []cookfile.Fragment) (string, error) {
	var b strings.Builder
	for _, f := range fragments {
		if !f.IsExpr {
			b.WriteString(f.Text)
			continue
		}
		value, err := s.Eval(ctx, f.Text)
		if err != nil {
			return "", err
		}
		b.WriteString(value)
	}
	return b.String(), nil
}

func isResolutionKind(err error) bool {
	switch err.(type) {
	case *ResolutionError, *UndefinedVariableError, *UnknownFunctionError:
		return true
	}
	return false
}
