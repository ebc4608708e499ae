// SPDX-License-Identifier: MPL-2.0

package cookfile

import "strings"

type (
	// Fragment is one segment of a command line: either literal text or the
	// source of an interpolation expression (the part between {{ and }}).
	Fragment struct {
		Text   string
		IsExpr bool
	}
)

// splitFragments splits a command line into literal and expression fragments.
// An opening {{ without a matching }} is a parse error; the matching scan is
// string-aware so a }} inside a quoted literal does not terminate the
// expression.
func splitFragments(raw, path string, line int) ([]Fragment, *ParseError) {
	var fragments []Fragment
	rest := raw
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			if rest != "" {
				fragments = append(fragments, Fragment{Text: rest})
			}
			return fragments, nil
		}
		if open > 0 {
			fragments = append(fragments, Fragment{Text: rest[:open]})
		}
		expr, remainder, ok := scanInterpolation(rest[open+2:])
		if !ok {
			return nil, parseErrorf(path, line, "unterminated interpolation expression")
		}
		fragments = append(fragments, Fragment{Text: strings.TrimSpace(expr), IsExpr: true})
		rest = remainder
	}
}

// scanInterpolation consumes an expression up to the closing }}, honoring
// single-quoted, double-quoted, and backtick literals inside the expression.
// It returns the expression source, the remainder after }}, and whether the
// closing delimiter was found.
func scanInterpolation(s string) (expr, rest string, ok bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				return s[:i], s[i+2:], true
			}
		case '\'', '"', '`':
			end, found := scanStringLiteral(s, i)
			if !found {
				return "", "", false
			}
			i = end
		}
	}
	return "", "", false
}

// scanStringLiteral scans a string literal starting at s[start] (one of
// ', ", or `) and returns the index of the closing delimiter. Double-quoted
// literals honor backslash escapes; single-quoted and backtick literals are
// raw.
func scanStringLiteral(s string, start int) (end int, ok bool) {
	quote := s[start]
	for i := start + 1; i < len(s); i++ {
		switch {
		case quote == '"' && s[i] == '\\':
			i++
		case s[i] == quote:
			return i, true
		}
	}
	return 0, false
}
