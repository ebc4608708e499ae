// SPDX-License-Identifier: MPL-2.0

package cookfile

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel error wrapped by ParseError.
var ErrParse = errors.New("cookfile parse error")

type (
	// ParseError reports malformed cookfile source. It carries the source
	// path and the 1-based line number where parsing failed, so the user
	// can jump straight to the offending line.
	ParseError struct {
		// Path is the cookfile path ("" when parsing from bytes without one).
		Path string
		// Line is the 1-based source line where the problem was found.
		Line int
		// Reason describes what is wrong with the line.
		Reason string
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

// Unwrap returns ErrParse so callers can use errors.Is for programmatic detection.
func (e *ParseError) Unwrap() error { return ErrParse }

// parseErrorf builds a ParseError for the given line with a formatted reason.
func parseErrorf(path string, line int, format string, args ...any) *ParseError {
	return &ParseError{Path: path, Line: line, Reason: fmt.Sprintf(format, args...)}
}
