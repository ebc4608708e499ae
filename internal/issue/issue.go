// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	CookfileNotFoundId Id = iota + 1
	CookfileParseErrorId
	RecipeNotFoundId
	RecipeArgumentsId
	VariableResolutionId
	DependencyCycleId
	RecipeExecutionFailedId
	RuntimeNotAvailableId
	ShellNotFoundId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	cookfileNotFoundIssue = &Issue{
		id: CookfileNotFoundId,
		mdMsg: `
# No cookfile found!

We searched upward from the current directory but couldn't find a cookfile.

## Things you can try:
- Create a cookfile in your project root:
~~~
$ cat > cookfile <<'EOF'
build:
  go build ./...
EOF
~~~

- Or point cookbook at an explicit file:
~~~
$ cookbook --cookfile path/to/cookfile build
~~~`,
	}

	cookfileParseErrorIssue = &Issue{
		id: CookfileParseErrorId,
		mdMsg: `
# Failed to parse the cookfile!

The cookfile contains a syntax error.

## Common issues:
- A command line outside any recipe (indented line before the first recipe)
- A missing ` + "`:`" + ` after the recipe name and parameters
- An unterminated ` + "`{{ ... }}`" + ` interpolation
- A variadic parameter that is not last
- An ` + "`[attribute]`" + ` line with nothing below it

## Things you can try:
- Check the line number in the error message above
- Recipe headers look like:
~~~
build profile="debug": fmt
  cargo build --profile {{ profile }}
~~~
- Variable bindings look like:
~~~
version := "1.0"
export RUST_LOG := "info"
~~~`,
	}

	recipeNotFoundIssue = &Issue{
		id: RecipeNotFoundId,
		mdMsg: `
# Recipe not found!

The recipe you named is not defined in the cookfile.

## Things you can try:
- List the available recipes:
~~~
$ cookbook --list
~~~

- Check for typos (the error message suggests close matches)
- Private recipes (marked ` + "`[private]`" + `) don't show in listings but can
  still be invoked by exact name`,
	}

	recipeArgumentsIssue = &Issue{
		id: RecipeArgumentsId,
		mdMsg: `
# Wrong number of recipe arguments!

The recipe's parameter list cannot bind the arguments you passed.

## How parameters bind:
- Each plain parameter takes one argument
- Parameters with ` + "`=default`" + ` may be omitted
- A trailing ` + "`+rest`" + ` parameter takes one or more remaining arguments
- A trailing ` + "`*rest`" + ` parameter takes zero or more

## Example:
~~~
add name +args:
  cargo add {{ name }} {{ args }}
~~~
~~~
$ cookbook add serde --feature=derive
~~~`,
	}

	variableResolutionIssue = &Issue{
		id: VariableResolutionId,
		mdMsg: `
# Variable resolution failed!

An expression in the cookfile could not be evaluated.

## Common causes:
- A ` + "`{{ name }}`" + ` interpolation referencing an undefined variable
- ` + "`env_var(\"NAME\")`" + ` with the environment variable unset
- A backtick or ` + "`shell(...)`" + ` capture exiting non-zero
- An unknown function name

## Things you can try:
- Inspect the resolved bindings:
~~~
$ cookbook --evaluate
~~~
- Use ` + "`env_var_or_default(\"NAME\", \"fallback\")`" + ` for optional
  environment variables`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

The recipe dependencies form a cycle, so no execution order exists.

## Example of a cycle:
~~~
a: b
  echo a

b: a
  echo b
~~~

## Things you can try:
- Follow the cycle path printed in the error message
- Remove one edge of the cycle
- Extract the shared work into a third recipe both can depend on`,
	}

	recipeExecutionFailedIssue = &Issue{
		id: RecipeExecutionFailedId,
		mdMsg: `
# Recipe execution failed!

A command line of the recipe exited with a non-zero status. cookbook stops at
the first failing line and exits with that line's status.

## Things you can try:
- Run with verbose mode for more details:
~~~
$ cookbook --verbose <recipe>
~~~
- Test the failing line manually in your shell
- Prefix the line with ` + "`-`" + ` if the failure is expected:
~~~
clean:
  -rm -r target
~~~`,
	}

	runtimeNotAvailableIssue = &Issue{
		id: RuntimeNotAvailableId,
		mdMsg: `
# Runtime not available!

The configured runtime cannot run on this system.

## Available runtimes:
- **native**: uses your system shell (bash, sh, powershell, ...)
- **virtual**: uses the built-in POSIX shell interpreter

## Things you can try:
- Switch the runtime in your config file:
~~~toml
default_runtime = "virtual"
~~~`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

Could not find a suitable shell for the 'native' runtime.

## Shells we look for:
- Linux/macOS: $SHELL, bash, sh
- Windows: pwsh, powershell, cmd

## Things you can try:
- Install bash or another POSIX shell
- Set the SHELL environment variable
- Pass an explicit shell:
~~~
$ cookbook --shell /bin/dash <recipe>
~~~
- Use the built-in interpreter instead:
~~~toml
default_runtime = "virtual"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the cookbook configuration file.

## Configuration file locations:
- Linux: ~/.config/cookbook/config.toml
- macOS: ~/Library/Application Support/cookbook/config.toml
- Windows: %APPDATA%\cookbook\config.toml

## Things you can try:
- Check the TOML syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/cookbook/config.toml
~~~

## Example configuration:
~~~toml
default_runtime = "native"
shell = "/bin/bash"

[ui]
color_scheme = "auto"
verbose = false
~~~`,
	}

	issues = map[Id]*Issue{
		cookfileNotFoundIssue.Id():      cookfileNotFoundIssue,
		cookfileParseErrorIssue.Id():    cookfileParseErrorIssue,
		recipeNotFoundIssue.Id():        recipeNotFoundIssue,
		recipeArgumentsIssue.Id():       recipeArgumentsIssue,
		variableResolutionIssue.Id():    variableResolutionIssue,
		dependencyCycleIssue.Id():       dependencyCycleIssue,
		recipeExecutionFailedIssue.Id(): recipeExecutionFailedIssue,
		runtimeNotAvailableIssue.Id():   runtimeNotAvailableIssue,
		shellNotFoundIssue.Id():         shellNotFoundIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
