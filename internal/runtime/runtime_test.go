// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	rt, err := Select("native", "/bin/sh", nil)
	if err != nil || rt.Name() != NativeRuntimeName {
		t.Errorf("native: got %v, %v", rt, err)
	}

	rt, err = Select("", "", nil)
	if err != nil || rt.Name() != NativeRuntimeName {
		t.Errorf("empty name should default to native: got %v, %v", rt, err)
	}

	rt, err = Select("virtual", "", nil)
	if err != nil || rt.Name() != VirtualRuntimeName {
		t.Errorf("virtual: got %v, %v", rt, err)
	}

	if _, err = Select("container", "", nil); err == nil {
		t.Error("unknown runtime should fail")
	}
}

func TestEnvToSlice_Sorted(t *testing.T) {
	t.Parallel()

	got := EnvToSlice(map[string]string{"ZETA": "1", "ALPHA": "2", "MID": "3"})
	want := []string{"ALPHA=2", "MID=3", "ZETA=1"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestVirtual_Execute(t *testing.T) {
	t.Parallel()
	rt := NewVirtualRuntime()

	var stdout bytes.Buffer
	res := rt.Execute(&ExecutionContext{
		Context: context.Background(),
		Command: "echo hello",
		Dir:     t.TempDir(),
		Stdout:  &stdout,
		Stderr:  &bytes.Buffer{},
	})
	if !res.Success() {
		t.Fatalf("unexpected failure: %+v", res)
	}
	if got := strings.TrimSpace(stdout.String()); got != "hello" {
		t.Errorf("got %q", got)
	}
}

func TestVirtual_ExitCode(t *testing.T) {
	t.Parallel()
	rt := NewVirtualRuntime()

	res := rt.Execute(&ExecutionContext{
		Context: context.Background(),
		Command: "exit 7",
		Dir:     t.TempDir(),
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
	})
	if res.ExitCode != 7 || res.Error != nil {
		t.Errorf("got %+v, want exit code 7", res)
	}
}

func TestVirtual_PositionalParams(t *testing.T) {
	t.Parallel()
	rt := NewVirtualRuntime()

	var stdout bytes.Buffer
	res := rt.Execute(&ExecutionContext{
		Context:    context.Background(),
		Command:    `printf '%s|' "$1" "$2"`,
		Dir:        t.TempDir(),
		Positional: []string{"-v", "--release"},
		Stdout:     &stdout,
		Stderr:     &bytes.Buffer{},
	})
	if !res.Success() {
		t.Fatalf("unexpected failure: %+v", res)
	}
	if stdout.String() != "-v|--release|" {
		t.Errorf("dash-prefixed values must survive as positional params, got %q", stdout.String())
	}
}

func TestVirtual_ExtraEnv(t *testing.T) {
	t.Parallel()
	rt := NewVirtualRuntime()

	var stdout bytes.Buffer
	res := rt.Execute(&ExecutionContext{
		Context:  context.Background(),
		Command:  `printf '%s' "$RELEASE_TAG"`,
		Dir:      t.TempDir(),
		ExtraEnv: map[string]string{"RELEASE_TAG": "v1.2.3"},
		Stdout:   &stdout,
		Stderr:   &bytes.Buffer{},
	})
	if !res.Success() {
		t.Fatalf("unexpected failure: %+v", res)
	}
	if stdout.String() != "v1.2.3" {
		t.Errorf("got %q", stdout.String())
	}
}

func TestVirtual_ExecuteCapture(t *testing.T) {
	t.Parallel()
	rt := NewVirtualRuntime()

	res := rt.ExecuteCapture(&ExecutionContext{
		Context: context.Background(),
		Command: "echo out; echo err >&2",
		Dir:     t.TempDir(),
	})
	if !res.Success() {
		t.Fatalf("unexpected failure: %+v", res)
	}
	if strings.TrimSpace(res.Output) != "out" || strings.TrimSpace(res.ErrOutput) != "err" {
		t.Errorf("got stdout %q, stderr %q", res.Output, res.ErrOutput)
	}
}

func TestVirtual_SyntaxError(t *testing.T) {
	t.Parallel()
	rt := NewVirtualRuntime()

	res := rt.Execute(&ExecutionContext{
		Context: context.Background(),
		Command: "if then fi (",
		Dir:     t.TempDir(),
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
	})
	if res.Error == nil || res.ExitCode == 0 {
		t.Errorf("malformed command should fail, got %+v", res)
	}
}

func TestNative_Execute(t *testing.T) {
	t.Parallel()
	rt := NewNativeRuntime()
	if !rt.Available() {
		t.Skip("no system shell available")
	}

	res := rt.ExecuteCapture(&ExecutionContext{
		Context:    context.Background(),
		Command:    `printf '%s-%s' "$1" "$2"`,
		Dir:        t.TempDir(),
		Positional: []string{"a", "b"},
	})
	if !res.Success() {
		t.Fatalf("unexpected failure: %+v", res)
	}
	if res.Output != "a-b" {
		t.Errorf("got %q", res.Output)
	}
}

func TestNative_ExitCode(t *testing.T) {
	t.Parallel()
	rt := NewNativeRuntime()
	if !rt.Available() {
		t.Skip("no system shell available")
	}

	res := rt.ExecuteCapture(&ExecutionContext{
		Context: context.Background(),
		Command: "exit 3",
		Dir:     t.TempDir(),
	})
	if res.ExitCode != 3 || res.Error != nil {
		t.Errorf("got %+v, want exit code 3", res)
	}
}

func TestExecutionError(t *testing.T) {
	t.Parallel()

	err := &ExecutionError{Recipe: "build", Line: 4, Command: "cargo build", ExitCode: 101}
	if !errors.Is(err, ErrExecution) {
		t.Error("ExecutionError should wrap ErrExecution")
	}
	if !strings.Contains(err.Error(), "status 101") {
		t.Errorf("message should carry the exit status: %v", err)
	}

	cause := errors.New("spawn failed")
	err = &ExecutionError{Recipe: "build", Line: 4, Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable through errors.Is")
	}
}
