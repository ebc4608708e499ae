// SPDX-License-Identifier: MPL-2.0

package cookfile

import (
	"errors"
	"strings"
	"testing"
)

const sampleSource = `# build recipes
version := "1.2.3"
export greeting := "hello"

build target="debug":
	cargo build --profile {{ target }}

run: build
	./bin/app

[private]
clean:
	rm -rf target

add +args:
	cargo add {{ args }}
`

func mustParse(t *testing.T, src string) *Cookfile {
	t.Helper()
	c, err := ParseBytes([]byte(src), "cookfile")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return c
}

func TestParse_RecipeTable(t *testing.T) {
	t.Parallel()
	c := mustParse(t, sampleSource)

	if got := len(c.Recipes); got != 4 {
		t.Fatalf("expected 4 recipes, got %d", got)
	}
	wantOrder := []RecipeName{"build", "run", "clean", "add"}
	for i, name := range wantOrder {
		if c.Recipes[i].Name != name {
			t.Errorf("recipe %d: expected %q, got %q", i, name, c.Recipes[i].Name)
		}
	}
	if c.Get("run") == nil || c.Get("missing") != nil {
		t.Error("Get: lookup mismatch")
	}
	if c.DefaultRecipe().Name != "build" {
		t.Errorf("expected default recipe 'build', got %q", c.DefaultRecipe().Name)
	}
}

func TestParse_Bindings(t *testing.T) {
	t.Parallel()
	c := mustParse(t, sampleSource)

	if len(c.Bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(c.Bindings))
	}
	if b := c.Bindings[0]; b.Name != "version" || b.Expr != `"1.2.3"` || b.Export {
		t.Errorf("unexpected first binding: %+v", b)
	}
	if b := c.Bindings[1]; b.Name != "greeting" || !b.Export {
		t.Errorf("expected exported 'greeting', got %+v", b)
	}
}

func TestParse_Parameters(t *testing.T) {
	t.Parallel()
	c := mustParse(t, sampleSource)

	build := c.Get("build")
	if len(build.Params) != 1 {
		t.Fatalf("expected 1 parameter, got %d", len(build.Params))
	}
	p := build.Params[0]
	if p.Name != "target" || !p.HasDefault || p.Default != `"debug"` || p.Variadic != VariadicNone {
		t.Errorf("unexpected parameter: %+v", p)
	}
	if build.MinArgs() != 0 || build.MaxArgs() != 1 {
		t.Errorf("expected arity [0,1], got [%d,%d]", build.MinArgs(), build.MaxArgs())
	}

	add := c.Get("add")
	v := add.Variadic()
	if v == nil || v.Name != "args" || v.Variadic != VariadicOneOrMore {
		t.Fatalf("expected '+args' variadic, got %+v", v)
	}
	if add.MinArgs() != 1 || add.MaxArgs() != -1 {
		t.Errorf("expected arity [1,unbounded], got [%d,%d]", add.MinArgs(), add.MaxArgs())
	}
}

func TestParse_DependenciesAndAttributes(t *testing.T) {
	t.Parallel()
	c := mustParse(t, sampleSource)

	run := c.Get("run")
	if len(run.Deps) != 1 || run.Deps[0].Name != "build" {
		t.Fatalf("expected dependency on 'build', got %+v", run.Deps)
	}
	if !c.Get("clean").IsPrivate() {
		t.Error("expected 'clean' to be private")
	}
	public := c.PublicRecipes()
	if len(public) != 3 {
		t.Errorf("expected 3 public recipes, got %d", len(public))
	}
}

func TestParse_DependencyArguments(t *testing.T) {
	t.Parallel()
	c := mustParse(t, `
build profile:
	echo {{ profile }}

release: (build "release")
	echo done

both: (build "debug") (build "release")
	echo done
`)
	rel := c.Get("release")
	if len(rel.Deps) != 1 {
		t.Fatalf("expected 1 dependency, got %d", len(rel.Deps))
	}
	dep := rel.Deps[0]
	if dep.Name != "build" || len(dep.Args) != 1 || dep.Args[0] != `"release"` {
		t.Errorf("unexpected dependency: %+v", dep)
	}
	if deps := c.Get("both").Deps; len(deps) != 2 {
		t.Errorf("expected 2 dependencies, got %d", len(deps))
	}
}

func TestParse_DependencyArgumentExpressions(t *testing.T) {
	t.Parallel()
	c := mustParse(t, `
profile := "debug"

build p:
	echo {{ p }}

fast: (build profile + "-fast")
	echo done

pair: (build env_var_or_default("P", "x") profile)
	echo done
`)
	fast := c.Get("fast").Deps[0]
	if len(fast.Args) != 1 || fast.Args[0] != `profile + "-fast"` {
		t.Errorf("spaced concatenation should stay one argument, got %+v", fast.Args)
	}

	pair := c.Get("pair").Deps[0]
	if len(pair.Args) != 2 {
		t.Fatalf("expected 2 arguments, got %+v", pair.Args)
	}
	if pair.Args[0] != `env_var_or_default("P", "x")` || pair.Args[1] != "profile" {
		t.Errorf("unexpected arguments: %+v", pair.Args)
	}
}

func TestParse_CommandLinePrefixes(t *testing.T) {
	t.Parallel()
	c := mustParse(t, `
tidy:
	@echo quiet
	-rm might-not-exist
	-@true
	echo plain
`)
	lines := c.Get("tidy").Lines
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	cases := []struct {
		quiet, ignore bool
		raw           string
	}{
		{true, false, "echo quiet"},
		{false, true, "rm might-not-exist"},
		{true, true, "true"},
		{false, false, "echo plain"},
	}
	for i, want := range cases {
		got := lines[i]
		if got.Quiet != want.quiet || got.IgnoreError != want.ignore || got.Raw != want.raw {
			t.Errorf("line %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestParse_Fragments(t *testing.T) {
	t.Parallel()
	c := mustParse(t, `
greet name:
	echo "hi, {{ name }}!" {{ name + "!" }}
`)
	frags := c.Get("greet").Lines[0].Fragments
	want := []Fragment{
		{Text: `echo "hi, `},
		{Text: "name", IsExpr: true},
		{Text: `!" `},
		{Text: `name + "!"`, IsExpr: true},
	}
	if len(frags) != len(want) {
		t.Fatalf("expected %d fragments, got %d: %+v", len(want), len(frags), frags)
	}
	for i := range want {
		if frags[i] != want[i] {
			t.Errorf("fragment %d: got %+v, want %+v", i, frags[i], want[i])
		}
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		src      string
		wantLine int
		contains string
	}{
		{
			name:     "duplicate recipe",
			src:      "a:\n\techo one\na:\n\techo two\n",
			wantLine: 3,
			contains: "duplicate recipe name",
		},
		{
			name:     "variadic not last",
			src:      "a +rest tail:\n\techo\n",
			wantLine: 1,
			contains: "must be the last parameter",
		},
		{
			name:     "duplicate parameter",
			src:      "a x x:\n\techo\n",
			wantLine: 1,
			contains: "duplicate parameter",
		},
		{
			name:     "unterminated interpolation",
			src:      "a:\n\techo {{ oops\n",
			wantLine: 2,
			contains: "unterminated interpolation",
		},
		{
			name:     "command outside recipe",
			src:      "\techo hi\n",
			wantLine: 1,
			contains: "outside of a recipe",
		},
		{
			name:     "unknown attribute",
			src:      "[nope]\na:\n\techo\n",
			wantLine: 1,
			contains: "unknown attribute",
		},
		{
			name:     "dangling attribute",
			src:      "a:\n\techo\n[private]\n",
			wantLine: 3,
			contains: "must precede a recipe declaration",
		},
		{
			name:     "unknown dependency",
			src:      "a: missing\n\techo\n",
			wantLine: 1,
			contains: "unknown recipe",
		},
		{
			name:     "dependency argument overflow",
			src:      "b:\n\techo\na: (b \"x\")\n\techo\n",
			wantLine: 3,
			contains: "at most 0 argument",
		},
		{
			name:     "missing header colon",
			src:      "a b c\n",
			wantLine: 1,
			contains: "missing ':'",
		},
		{
			name:     "unterminated dependency arguments",
			src:      "b x:\n\techo\na: (b \"x\"\n\techo\n",
			wantLine: 3,
			contains: "unterminated dependency arguments",
		},
		{
			name:     "duplicate variable",
			src:      "v := \"a\"\nv := \"b\"\n",
			wantLine: 2,
			contains: "duplicate variable",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseBytes([]byte(tc.src), "cookfile")
			if err == nil {
				t.Fatal("expected a parse error")
			}
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Line != tc.wantLine {
				t.Errorf("expected line %d, got %d (%v)", tc.wantLine, pe.Line, pe)
			}
			if !strings.Contains(pe.Reason, tc.contains) {
				t.Errorf("expected reason containing %q, got %q", tc.contains, pe.Reason)
			}
		})
	}
}

func TestParse_CommentsAndBlankLines(t *testing.T) {
	t.Parallel()
	c := mustParse(t, `
# leading comment
a: # trailing comment

	echo one

	echo two
b:
	echo '# not a comment'
`)
	if got := len(c.Get("a").Lines); got != 2 {
		t.Errorf("expected blank lines skipped, got %d lines", got)
	}
	if raw := c.Get("b").Lines[0].Raw; raw != `echo '# not a comment'` {
		t.Errorf("body line mangled: %q", raw)
	}
	if len(c.Get("a").Deps) != 0 {
		t.Errorf("trailing comment parsed as dependency: %+v", c.Get("a").Deps)
	}
}
