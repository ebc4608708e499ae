// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI surface for cookbook.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"cookbook-cli/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string
	// cookfilePath overrides cookfile discovery.
	cookfilePath string
	// shellOverride overrides the native runtime's shell.
	shellOverride string
	// listRecipes prints the recipe listing instead of running.
	listRecipes bool
	// unsorted keeps the listing in declaration order.
	unsorted bool
	// dumpFile prints the parsed cookfile as TOML instead of running.
	dumpFile bool
	// evaluate prints the resolved top-level bindings instead of running.
	evaluate bool
	// quiet suppresses recipe line echoing.
	quiet bool

	// cfg is the loaded configuration, populated by initRootConfig.
	cfg = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "cookbook [flags] [NAME=VALUE]... [recipe [args]...]",
		Short: "A declarative recipe runner",
		Long: TitleStyle.Render("cookbook") + SubtitleStyle.Render(" - A declarative recipe runner") + `

cookbook runs named recipes defined in a 'cookfile': small units of
shell work with parameters, defaults, dependencies, and {{ expression }}
interpolation. Dependencies run first, each exactly once, in a
deterministic order.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a cookfile in your project directory
  2. Define recipes, one indented shell line at a time
  3. Run them with: cookbook <recipe-name>

` + SubtitleStyle.Render("Examples:") + `
  cookbook                       Run the first recipe in the cookfile
  cookbook build                 Run the 'build' recipe
  cookbook add serde --offline   Pass arguments to a recipe
  cookbook profile=release run   Override a variable, then run
  cookbook --list                List available recipes
  cookbook --evaluate            Show resolved variable values`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/cookbook/config.toml)")

	rootCmd.Flags().StringVar(&cookfilePath, "cookfile", "", "use this cookfile instead of searching the working directory")
	rootCmd.Flags().StringVar(&shellOverride, "shell", "", "shell to run recipe lines with (native runtime)")
	rootCmd.Flags().BoolVarP(&listRecipes, "list", "l", false, "list available recipes and exit")
	rootCmd.Flags().BoolVar(&unsorted, "unsorted", false, "list recipes in declaration order instead of alphabetically")
	rootCmd.Flags().BoolVar(&dumpFile, "dump", false, "print the parsed cookfile as TOML and exit")
	rootCmd.Flags().BoolVar(&evaluate, "evaluate", false, "print resolved variable bindings and exit")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress recipe line echoing")

	// Everything after the recipe name is the recipe's, verbatim: flag-like
	// tokens such as --release forward as arguments instead of being parsed.
	rootCmd.Flags().SetInterspersed(false)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. This is called by main.main(). Recipe
// failures exit with the failing line's status; orchestrator errors exit 1.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads the config file before the command body runs.
func initRootConfig() {
	loaded, _, err := config.Load(cfgFile)
	if err != nil {
		// Config problems must not block a run on defaults, but the user
		// should see them.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		return
	}
	cfg = loaded

	if !verbose {
		verbose = cfg.UI.Verbose
	}
}

// newLogger builds the CLI logger honoring the verbose flag.
func newLogger() *log.Logger {
	logger := log.New(os.Stderr)
	logger.SetReportTimestamp(false)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}
