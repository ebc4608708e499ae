// SPDX-License-Identifier: MPL-2.0

// Package eval implements the variable and expression resolver: a small
// expression language (string literals, identifiers, `+` concatenation,
// backtick capture, and a fixed set of builtin functions) evaluated in two
// phases. Top-level bindings are resolved eagerly, once, left to right;
// recipe bodies and parameter defaults are resolved lazily per recipe, with
// the recipe's bound parameters layered over the global bindings.
package eval
