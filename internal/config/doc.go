// SPDX-License-Identifier: MPL-2.0

// Package config loads the cookbook configuration: a TOML file layered over
// built-in defaults, resolved from platform config directories or an explicit
// --config path.
package config
