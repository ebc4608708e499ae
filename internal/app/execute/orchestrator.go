// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"cookbook-cli/internal/eval"
	"cookbook-cli/internal/plan"
	"cookbook-cli/internal/runtime"
	"cookbook-cli/pkg/cookfile"
)

// ExecutableEnvVar is exported to child processes when any evaluated
// expression called executable_path().
const ExecutableEnvVar = "COOKBOOK_BIN"

type (
	// Orchestrator runs plans. Recipes execute strictly in plan order, one
	// command line at a time; there is no intra-plan concurrency.
	Orchestrator struct {
		Runtime runtime.Runtime
		Logger  *log.Logger
		// Quiet suppresses line echoing for every recipe in the plan.
		Quiet bool

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Invocation bundles the resolved inputs of one run.
	Invocation struct {
		File     *cookfile.Cookfile
		Plan     *plan.Plan
		Binder   *plan.Binder
		Resolver *eval.Resolver
	}
)

// NewOrchestrator creates an orchestrator bound to the process stdio.
func NewOrchestrator(rt runtime.Runtime, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		Runtime: rt,
		Logger:  logger,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// RunPlan executes every step of the plan in order. Each recipe's lines are
// fully interpolated before its first line spawns, so a resolution failure
// surfaces before the recipe has any side effect. The first failing line
// stops the run and its exit status becomes the error's; lines prefixed with
// `-` log the failure and continue.
func (o *Orchestrator) RunPlan(ctx context.Context, inv *Invocation) error {
	workDir := filepath.Dir(inv.File.FilePath)

	for _, step := range inv.Plan.Steps() {
		if err := o.runStep(ctx, inv, step, workDir); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) runStep(ctx context.Context, inv *Invocation, step *plan.Step, workDir string) error {
	recipe := step.Recipe
	o.Logger.Debug("running recipe", "recipe", recipe.Name)

	bound, err := inv.Binder.For(ctx, recipe.Name)
	if err != nil {
		return err
	}

	commands := make([]string, len(recipe.Lines))
	for i, line := range recipe.Lines {
		commands[i], err = bound.Scope.Interpolate(ctx, line.Fragments)
		if err != nil {
			return err
		}
	}

	env := o.childEnv(inv.Resolver)
	for i, line := range recipe.Lines {
		if !o.Quiet && !line.Quiet && !recipe.NoEcho() {
			fmt.Fprintln(o.Stderr, commands[i])
		}

		result := o.Runtime.Execute(&runtime.ExecutionContext{
			Context:    ctx,
			Command:    commands[i],
			Dir:        workDir,
			ExtraEnv:   env,
			Positional: bound.Positional,
			Stdin:      o.Stdin,
			Stdout:     o.Stdout,
			Stderr:     o.Stderr,
		})
		if result.Success() {
			continue
		}
		if line.IgnoreError && result.Error == nil {
			o.Logger.Debug("ignoring failed line", "recipe", recipe.Name, "line", line.Line, "exit_code", result.ExitCode)
			continue
		}
		return &runtime.ExecutionError{
			Recipe:   recipe.Name,
			Line:     line.Line,
			Command:  commands[i],
			ExitCode: result.ExitCode,
			Cause:    result.Error,
		}
	}
	return nil
}

// childEnv builds the extra environment for child processes: exported
// bindings, plus the orchestrator's own path when an expression asked for it.
func (o *Orchestrator) childEnv(resolver *eval.Resolver) map[string]string {
	env := resolver.ExportedEnv()
	if path, used := resolver.UsedExecutablePath(); used {
		env[ExecutableEnvVar] = path
	}
	return env
}

// CaptureRunner adapts a runtime to the resolver's capture interface, so
// backticks and shell() run through the same runtime as recipe lines.
type CaptureRunner struct {
	Runtime runtime.Runtime
	Dir     string
}

// Capture runs a command and returns its buffered standard output.
func (c *CaptureRunner) Capture(ctx context.Context, command string) (string, int, error) {
	result := c.Runtime.ExecuteCapture(&runtime.ExecutionContext{
		Context: ctx,
		Command: command,
		Dir:     c.Dir,
	})
	if result.Error != nil {
		return "", 0, result.Error
	}
	return result.Output, result.ExitCode, nil
}
