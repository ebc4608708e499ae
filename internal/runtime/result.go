// SPDX-License-Identifier: MPL-2.0

package runtime

// Result is the outcome of running one shell line.
type Result struct {
	// ExitCode is the line's exit status; 0 on success.
	ExitCode int
	// Output is captured standard output (ExecuteCapture only).
	Output string
	// ErrOutput is captured standard error (ExecuteCapture only).
	ErrOutput string
	// Error is set when the line could not be run at all, as opposed to
	// running and exiting non-zero.
	Error error
}

// Success reports whether the line ran and exited zero.
func (r *Result) Success() bool {
	return r.Error == nil && r.ExitCode == 0
}
