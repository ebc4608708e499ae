// SPDX-License-Identifier: MPL-2.0

// Package cookfile defines the recipe data model and the parser for the
// cookfile format: a line-oriented text file declaring variable bindings,
// attribute annotations, and named recipes with parameters, dependencies,
// and indented shell command lines containing {{ ... }} interpolations.
//
// Parsing is a pure transform from source text to an immutable *Cookfile;
// evaluation of expressions and interpolations lives in internal/eval.
package cookfile
