// SPDX-License-Identifier: MPL-2.0

// Package execute drives an execution plan: it binds each recipe's scope,
// interpolates its command lines, and runs them sequentially through a
// runtime, propagating the first failing line's exit status.
package execute
