// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"cookbook-cli/internal/eval"
	"cookbook-cli/internal/plan"
	"cookbook-cli/internal/runtime"
	"cookbook-cli/pkg/cookfile"
)

type runResult struct {
	stdout string
	stderr string
	err    error
}

// runSource parses src, resolves globals, plans the target, and executes the
// plan through the in-process virtual runtime.
func runSource(t *testing.T, src string, target cookfile.RecipeName, tokens []string, overrides map[string]string) runResult {
	t.Helper()

	dir := t.TempDir()
	file, err := cookfile.ParseBytes([]byte(src), filepath.Join(dir, "cookfile"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rt := runtime.NewVirtualRuntime()
	resolver := eval.NewResolver(&CaptureRunner{Runtime: rt, Dir: dir})
	resolver.Executable = func() (string, error) { return "/opt/bin/cookbook", nil }
	if err := resolver.ResolveGlobals(context.Background(), file.Bindings, overrides); err != nil {
		return runResult{err: err}
	}

	p, err := plan.Build(file, target, tokens)
	if err != nil {
		return runResult{err: err}
	}

	var stdout, stderr bytes.Buffer
	o := &Orchestrator{
		Runtime: rt,
		Logger:  log.New(io.Discard),
		Stdout:  &stdout,
		Stderr:  &stderr,
	}
	runErr := o.RunPlan(context.Background(), &Invocation{
		File:     file,
		Plan:     p,
		Binder:   plan.NewBinder(resolver, p),
		Resolver: resolver,
	})
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: runErr}
}

func TestRunPlan_DependencyOrderAndDedup(t *testing.T) {
	t.Parallel()
	src := `
release: build test
  @echo release

build: prep
  @echo build

test: prep
  @echo test

prep:
  @echo prep
`
	res := runSource(t, src, "release", nil, nil)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	want := "prep\nbuild\ntest\nrelease\n"
	if res.stdout != want {
		t.Errorf("got %q, want %q", res.stdout, want)
	}
}

func TestRunPlan_ExitCodePropagates(t *testing.T) {
	t.Parallel()
	src := `
fail:
  @echo before
  @exit 42
  @echo after
`
	res := runSource(t, src, "fail", nil, nil)
	var ee *runtime.ExecutionError
	if !errors.As(res.err, &ee) {
		t.Fatalf("expected ExecutionError, got %v", res.err)
	}
	if ee.ExitCode != 42 {
		t.Errorf("expected exit code 42, got %d", ee.ExitCode)
	}
	if res.stdout != "before\n" {
		t.Errorf("lines after the failure must not run, got %q", res.stdout)
	}
}

func TestRunPlan_FailedDependencyStopsDependent(t *testing.T) {
	t.Parallel()
	src := `
run: build
  @echo run

build:
  @exit 1
`
	res := runSource(t, src, "run", nil, nil)
	if res.err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(res.stdout, "run") {
		t.Errorf("dependent must not run after its prerequisite fails, got %q", res.stdout)
	}
}

func TestRunPlan_IgnoreErrorContinues(t *testing.T) {
	t.Parallel()
	src := `
cleanup:
  -@exit 9
  @echo done
`
	res := runSource(t, src, "cleanup", nil, nil)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if res.stdout != "done\n" {
		t.Errorf("got %q", res.stdout)
	}
}

func TestRunPlan_EchoGoesToStderr(t *testing.T) {
	t.Parallel()
	src := `
noisy:
  true
  @true
`
	res := runSource(t, src, "noisy", nil, nil)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if res.stderr != "true\n" {
		t.Errorf("exactly the unquiet line should echo, got %q", res.stderr)
	}
}

func TestRunPlan_NoEchoAttribute(t *testing.T) {
	t.Parallel()
	src := `
[no-echo]
silent:
  true
`
	res := runSource(t, src, "silent", nil, nil)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if res.stderr != "" {
		t.Errorf("no-echo recipe must not echo, got %q", res.stderr)
	}
}

func TestRunPlan_QuietSuppressesAllEcho(t *testing.T) {
	t.Parallel()
	src := `
noisy:
  true
  echo out
`
	dir := t.TempDir()
	file, err := cookfile.ParseBytes([]byte(src), filepath.Join(dir, "cookfile"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rt := runtime.NewVirtualRuntime()
	resolver := eval.NewResolver(&CaptureRunner{Runtime: rt, Dir: dir})
	p, err := plan.Build(file, "noisy", nil)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	var stdout, stderr bytes.Buffer
	o := &Orchestrator{
		Runtime: rt,
		Logger:  log.New(io.Discard),
		Quiet:   true,
		Stdout:  &stdout,
		Stderr:  &stderr,
	}
	err = o.RunPlan(context.Background(), &Invocation{
		File:     file,
		Plan:     p,
		Binder:   plan.NewBinder(resolver, p),
		Resolver: resolver,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stderr.String() != "" {
		t.Errorf("quiet mode must not echo, got %q", stderr.String())
	}
	if stdout.String() != "out\n" {
		t.Errorf("command output still flows, got %q", stdout.String())
	}
}

func TestRunPlan_ResolutionFailureBeforeAnySpawn(t *testing.T) {
	t.Parallel()
	src := `
broken:
  @echo first
  @echo {{ ghost }}
`
	res := runSource(t, src, "broken", nil, nil)
	if !errors.Is(res.err, eval.ErrResolution) {
		t.Fatalf("expected resolution error, got %v", res.err)
	}
	if res.stdout != "" {
		t.Errorf("no line may spawn when any line fails to interpolate, got %q", res.stdout)
	}
}

func TestRunPlan_VariadicInterpolationAndPositional(t *testing.T) {
	t.Parallel()
	src := `
add name +args:
  @echo add {{ name }} {{ args }}
  @echo "argv:$1:$2:$3"
`
	res := runSource(t, src, "add", []string{"serde", "--feature=derive", "--offline"}, nil)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	want := "add serde --feature=derive --offline\nargv:serde:--feature=derive:--offline\n"
	if res.stdout != want {
		t.Errorf("got %q, want %q", res.stdout, want)
	}
}

func TestRunPlan_GlobalsAndOverrides(t *testing.T) {
	t.Parallel()
	src := `
profile := "debug"

build:
  @echo building {{ profile }}
`
	res := runSource(t, src, "build", nil, nil)
	if res.err != nil || res.stdout != "building debug\n" {
		t.Errorf("got %q, %v", res.stdout, res.err)
	}

	res = runSource(t, src, "build", nil, map[string]string{"profile": "release"})
	if res.err != nil || res.stdout != "building release\n" {
		t.Errorf("override: got %q, %v", res.stdout, res.err)
	}
}

func TestRunPlan_ExportedBindingReachesChild(t *testing.T) {
	t.Parallel()
	src := `
export RELEASE_TAG := "v9"
hidden := "nope"

show:
  @echo "tag=${RELEASE_TAG:-unset} hidden=${hidden:-unset}"
`
	res := runSource(t, src, "show", nil, nil)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if res.stdout != "tag=v9 hidden=unset\n" {
		t.Errorf("only export bindings reach children, got %q", res.stdout)
	}
}

func TestRunPlan_BacktickCaptureInBinding(t *testing.T) {
	t.Parallel()
	src := "rev := `printf abc123`\n\nshow:\n  @echo rev={{ rev }}\n"
	res := runSource(t, src, "show", nil, nil)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if res.stdout != "rev=abc123\n" {
		t.Errorf("got %q", res.stdout)
	}
}

func TestRunPlan_ExecutablePathExported(t *testing.T) {
	t.Parallel()
	src := `
me := executable_path()

inner:
  @echo "bin=${COOKBOOK_BIN:-unset}"
`
	res := runSource(t, src, "inner", nil, nil)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if res.stdout != "bin=/opt/bin/cookbook\n" {
		t.Errorf("got %q", res.stdout)
	}
}

func TestRunPlan_DependencyArgsFromInvokerScope(t *testing.T) {
	t.Parallel()
	src := `
profile := "debug"

deploy: (announce profile + "-fast")
  @echo deploy

announce what:
  @echo announcing {{ what }}
`
	res := runSource(t, src, "deploy", nil, nil)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	want := "announcing debug-fast\ndeploy\n"
	if res.stdout != want {
		t.Errorf("got %q, want %q", res.stdout, want)
	}
}
