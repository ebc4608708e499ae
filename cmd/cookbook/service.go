// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"cookbook-cli/internal/app/execute"
	"cookbook-cli/internal/eval"
	"cookbook-cli/internal/issue"
	"cookbook-cli/internal/plan"
	"cookbook-cli/internal/runtime"
	"cookbook-cli/pkg/cookfile"
	"cookbook-cli/pkg/types"
)

// overridePattern matches NAME=VALUE tokens ahead of the recipe name.
var overridePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*=`)

// runRoot dispatches the invocation: query flags short-circuit, anything
// else resolves to running a recipe.
func runRoot(cmd *cobra.Command, args []string) error {
	path, err := cookfile.Discover(".", cookfilePath)
	if err != nil {
		wrapped := issue.CookfileLoad(cookfilePath).
			WithSuggestion("Create a cookfile in the working directory").
			WithSuggestion("Point at one explicitly with --cookfile").
			Wrap(err).
			BuildError()
		svcErr := newServiceError(wrapped, issue.CookfileNotFoundId, "")
		renderServiceError(cmd.ErrOrStderr(), svcErr)
		return &ExitError{Code: 1, Err: svcErr}
	}

	file, err := cookfile.Parse(path)
	if err != nil {
		return failWith(cmd, err)
	}

	overrides, rest := splitOverrides(args)

	switch {
	case listRecipes:
		return runList(cmd, file)
	case dumpFile:
		return runDump(cmd, file)
	case evaluate:
		return runEvaluate(cmd, file, overrides)
	default:
		return runRecipe(cmd, file, overrides, rest)
	}
}

// splitOverrides separates leading NAME=VALUE variable overrides from the
// recipe name and its arguments. The first token that is not an override
// ends the override section, so recipe arguments may contain '='.
func splitOverrides(args []string) (map[string]string, []string) {
	overrides := make(map[string]string)
	for i, arg := range args {
		if !overridePattern.MatchString(arg) {
			return overrides, args[i:]
		}
		name, value, _ := strings.Cut(arg, "=")
		overrides[name] = value
	}
	return overrides, nil
}

// runRecipe plans and executes the named recipe, or the cookfile's first
// recipe when the invocation names none.
func runRecipe(cmd *cobra.Command, file *cookfile.Cookfile, overrides map[string]string, rest []string) error {
	var target cookfile.RecipeName
	var tokens []string
	if len(rest) > 0 {
		target = cookfile.RecipeName(rest[0])
		tokens = rest[1:]
	} else {
		def := file.DefaultRecipe()
		if def == nil {
			return failWith(cmd, fmt.Errorf("cookfile %s defines no recipes", file.FilePath))
		}
		target = def.Name
	}

	rt, err := selectRuntime()
	if err != nil {
		svcErr := newServiceError(err, issue.RuntimeNotAvailableId, "")
		renderServiceError(cmd.ErrOrStderr(), svcErr)
		return &ExitError{Code: 1, Err: svcErr}
	}

	ctx := cmd.Context()
	workDir := filepath.Dir(file.FilePath)
	resolver := eval.NewResolver(&execute.CaptureRunner{Runtime: rt, Dir: workDir})
	if err := resolver.ResolveGlobals(ctx, file.Bindings, overrides); err != nil {
		return failWith(cmd, err)
	}

	p, err := plan.Build(file, target, tokens)
	if err != nil {
		return failWith(cmd, err)
	}

	logger := newLogger()
	orchestrator := execute.NewOrchestrator(rt, logger)
	orchestrator.Quiet = quiet
	err = orchestrator.RunPlan(ctx, &execute.Invocation{
		File:     file,
		Plan:     p,
		Binder:   plan.NewBinder(resolver, p),
		Resolver: resolver,
	})
	if err != nil {
		var execErr *runtime.ExecutionError
		if errors.As(err, &execErr) && execErr.Cause == nil {
			// The child exited non-zero; its status is ours.
			logger.Error("recipe failed", "recipe", execErr.Recipe, "exit_code", execErr.ExitCode)
			return &ExitError{Code: types.ClampExitCode(execErr.ExitCode), Err: err}
		}
		return failWith(cmd, err)
	}
	return nil
}

// selectRuntime builds the runtime from config plus CLI overrides.
func selectRuntime() (runtime.Runtime, error) {
	shell := cfg.Shell
	if shellOverride != "" {
		shell = shellOverride
	}
	rt, err := runtime.Select(cfg.DefaultRuntime, shell, cfg.ShellArgs)
	if err != nil {
		return nil, err
	}
	if !rt.Available() {
		return nil, fmt.Errorf("runtime %q is not available on this system", rt.Name())
	}
	return rt, nil
}

// runList prints the public recipes: alphabetical by default, declaration
// order with --unsorted.
func runList(cmd *cobra.Command, file *cookfile.Cookfile) error {
	recipes := file.PublicRecipes()
	if !unsorted {
		sort.Slice(recipes, func(i, j int) bool { return recipes[i].Name < recipes[j].Name })
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Available recipes:"))
	for _, r := range recipes {
		fmt.Fprintf(out, "  %s%s\n", RecipeStyle.Render(string(r.Name)), formatSignature(r))
	}
	return nil
}

// formatSignature renders a recipe's parameters and dependencies for the
// listing.
func formatSignature(r *cookfile.Recipe) string {
	var b strings.Builder
	for _, p := range r.Params {
		b.WriteString(" ")
		b.WriteString(ParamStyle.Render(string(p.Variadic) + p.Name))
		if p.HasDefault {
			b.WriteString(SubtitleStyle.Render("=" + p.Default))
		}
	}
	if len(r.Deps) > 0 {
		names := make([]string, len(r.Deps))
		for i, d := range r.Deps {
			names[i] = string(d.Name)
		}
		b.WriteString(SubtitleStyle.Render("  (deps: " + strings.Join(names, ", ") + ")"))
	}
	return b.String()
}

// runEvaluate resolves the top-level bindings (with overrides applied) and
// prints them in declaration order.
func runEvaluate(cmd *cobra.Command, file *cookfile.Cookfile, overrides map[string]string) error {
	rt, err := selectRuntime()
	if err != nil {
		svcErr := newServiceError(err, issue.RuntimeNotAvailableId, "")
		renderServiceError(cmd.ErrOrStderr(), svcErr)
		return &ExitError{Code: 1, Err: svcErr}
	}

	workDir := filepath.Dir(file.FilePath)
	resolver := eval.NewResolver(&execute.CaptureRunner{Runtime: rt, Dir: workDir})
	if err := resolver.ResolveGlobals(cmd.Context(), file.Bindings, overrides); err != nil {
		return failWith(cmd, err)
	}

	out := cmd.OutOrStdout()
	for _, g := range resolver.Globals() {
		fmt.Fprintf(out, "%s := %q\n", g.Name, g.Value)
	}
	return nil
}

// failWith classifies the error, renders its issue help to stderr, and
// converts it to the CLI exit contract (1 for orchestrator errors).
func failWith(cmd *cobra.Command, err error) error {
	styled := ErrorStyle.Render("Error: ") + formatErrorForDisplay(err, verbose) + "\n"
	svcErr := newServiceError(err, classifyError(err), styled)
	renderServiceError(cmd.ErrOrStderr(), svcErr)
	return &ExitError{Code: 1, Err: svcErr}
}
