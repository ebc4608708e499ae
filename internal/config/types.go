// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"

	"cookbook-cli/internal/runtime"
)

type (
	// Config is the cookbook configuration tree.
	Config struct {
		// Shell overrides the native runtime's shell binary.
		Shell string `mapstructure:"shell" toml:"shell"`
		// ShellArgs override the arguments that make the shell run a command
		// string (normally "-c").
		ShellArgs []string `mapstructure:"shell_args" toml:"shell_args"`
		// DefaultRuntime selects how recipe lines run: "native" or "virtual".
		DefaultRuntime string `mapstructure:"default_runtime" toml:"default_runtime"`

		UI UIConfig `mapstructure:"ui" toml:"ui"`
	}

	// UIConfig holds terminal output settings.
	UIConfig struct {
		// ColorScheme is "auto", "dark", or "light".
		ColorScheme string `mapstructure:"color_scheme" toml:"color_scheme"`
		// Verbose enables debug logging.
		Verbose bool `mapstructure:"verbose" toml:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		DefaultRuntime: runtime.NativeRuntimeName,
		UI: UIConfig{
			ColorScheme: "auto",
		},
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	switch c.DefaultRuntime {
	case runtime.NativeRuntimeName, runtime.VirtualRuntimeName:
	default:
		return fmt.Errorf("invalid default_runtime %q (valid: %s, %s)",
			c.DefaultRuntime, runtime.NativeRuntimeName, runtime.VirtualRuntimeName)
	}
	switch c.UI.ColorScheme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("invalid ui.color_scheme %q (valid: auto, dark, light)", c.UI.ColorScheme)
	}
	return nil
}
