// SPDX-License-Identifier: MPL-2.0

// Package issue holds the catalog of user-facing failure explanations and
// the ActionableError type used to attach operation context and fix
// suggestions to errors on their way to the terminal.
package issue
