// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"cookbook-cli/internal/dag"
	"cookbook-cli/internal/eval"
	"cookbook-cli/internal/issue"
	"cookbook-cli/internal/plan"
	"cookbook-cli/internal/runtime"
	"cookbook-cli/pkg/cookfile"
)

func TestSplitOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		args          []string
		wantOverrides map[string]string
		wantRest      []string
	}{
		{
			name:          "no args",
			args:          nil,
			wantOverrides: map[string]string{},
			wantRest:      nil,
		},
		{
			name:          "recipe only",
			args:          []string{"build"},
			wantOverrides: map[string]string{},
			wantRest:      []string{"build"},
		},
		{
			name:          "single override",
			args:          []string{"profile=release", "build"},
			wantOverrides: map[string]string{"profile": "release"},
			wantRest:      []string{"build"},
		},
		{
			name:          "override section ends at recipe name",
			args:          []string{"a=1", "b=2", "run", "c=3"},
			wantOverrides: map[string]string{"a": "1", "b": "2"},
			wantRest:      []string{"run", "c=3"},
		},
		{
			name:          "empty value",
			args:          []string{"flag=", "run"},
			wantOverrides: map[string]string{"flag": ""},
			wantRest:      []string{"run"},
		},
		{
			name:          "value containing equals",
			args:          []string{"url=http://x?a=b", "run"},
			wantOverrides: map[string]string{"url": "http://x?a=b"},
			wantRest:      []string{"run"},
		},
		{
			name:          "leading dash is not an override",
			args:          []string{"--weird", "a=1"},
			wantOverrides: map[string]string{},
			wantRest:      []string{"--weird", "a=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			overrides, rest := splitOverrides(tt.args)
			if len(overrides) != len(tt.wantOverrides) {
				t.Errorf("overrides = %v, want %v", overrides, tt.wantOverrides)
			}
			for k, v := range tt.wantOverrides {
				if overrides[k] != v {
					t.Errorf("override %q = %q, want %q", k, overrides[k], v)
				}
			}
			if len(rest) != len(tt.wantRest) {
				t.Fatalf("rest = %v, want %v", rest, tt.wantRest)
			}
			for i := range rest {
				if rest[i] != tt.wantRest[i] {
					t.Errorf("rest[%d] = %q, want %q", i, rest[i], tt.wantRest[i])
				}
			}
		})
	}
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"parse error", &cookfile.ParseError{Path: "cookfile", Line: 3, Reason: "x"}, issue.CookfileParseErrorId},
		{"cycle", &dag.CycleError{Cycle: []cookfile.RecipeName{"a", "b", "a"}}, issue.DependencyCycleId},
		{"unknown recipe", &plan.UnknownRecipeError{Name: "biuld"}, issue.RecipeNotFoundId},
		{"argument count", &plan.ArgumentError{Recipe: "test", Min: 1, Max: 1, Got: 0}, issue.RecipeArgumentsId},
		{"resolution", &eval.UndefinedVariableError{Name: "ghost"}, issue.VariableResolutionId},
		{"spawn failure", &runtime.ExecutionError{Recipe: "r", Cause: errors.New("no shell")}, issue.ShellNotFoundId},
		{"plain exit status", &runtime.ExecutionError{Recipe: "r", ExitCode: 2}, 0},
		{"unclassified", errors.New("boom"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatSignature(t *testing.T) {
	t.Parallel()

	file, err := cookfile.ParseBytes([]byte(`
add name +args: fmt
  cargo add {{ name }} {{ args }}

greet who="world":
  echo {{ who }}

fmt:
  cargo fmt
`), "cookfile")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	sig := formatSignature(file.Get("add"))
	for _, want := range []string{"name", "+args", "deps: fmt"} {
		if !strings.Contains(sig, want) {
			t.Errorf("signature %q should contain %q", sig, want)
		}
	}

	sig = formatSignature(file.Get("greet"))
	if !strings.Contains(sig, `="world"`) {
		t.Errorf("signature %q should show the default", sig)
	}
}

func TestRunDump(t *testing.T) {
	t.Parallel()

	file, err := cookfile.ParseBytes([]byte(`
export tag := "v1"

[private]
helper:
  true

build: helper
  cargo build
`), "cookfile")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	if err := runDump(c, file); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dump := out.String()
	for _, want := range []string{
		"tag",
		"export = true",
		"helper",
		"private = true",
		"build",
		"cargo build",
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump missing %q:\n%s", want, dump)
		}
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	err := &ExitError{Code: 42}
	if err.Error() != "exit status 42" {
		t.Errorf("got %q", err.Error())
	}

	inner := errors.New("inner")
	err = &ExitError{Code: 1, Err: inner}
	if err.Error() != "inner" || !errors.Is(err, inner) {
		t.Errorf("wrapped ExitError misbehaves: %v", err)
	}
}
