// SPDX-License-Identifier: MPL-2.0

package cookfile

import (
	"strings"
)

// parseSource is the line-oriented cookfile parser. Unindented lines declare
// bindings, attributes, or recipes; indented lines are command lines of the
// most recent recipe. Blank lines and comment lines are ignored and do not
// terminate a recipe body.
func parseSource(data []byte, path string) (*Cookfile, error) {
	c := &Cookfile{
		FilePath: path,
		byName:   make(map[RecipeName]*Recipe),
	}

	var (
		current     *Recipe
		pending     []Attribute
		pendingLine int
	)

	lines := strings.Split(string(data), "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if current == nil {
				return nil, parseErrorf(path, lineNo, "command line outside of a recipe")
			}
			if pending != nil {
				return nil, parseErrorf(path, pendingLine, "attribute must precede a recipe declaration")
			}
			cmdLine, err := parseCommandLine(trimmed, path, lineNo)
			if err != nil {
				return nil, err
			}
			if cmdLine != nil {
				current.Lines = append(current.Lines, *cmdLine)
			}
			continue
		}

		// Any unindented line ends the current recipe body.
		current = nil
		stripped := strings.TrimSpace(stripComment(line))
		if stripped == "" {
			continue
		}

		switch {
		case stripped[0] == '[':
			attr, err := parseAttributeLine(stripped, path, lineNo)
			if err != nil {
				return nil, err
			}
			if pending == nil {
				pendingLine = lineNo
			}
			pending = append(pending, attr)

		case isBindingLine(stripped):
			if pending != nil {
				return nil, parseErrorf(path, pendingLine, "attribute must precede a recipe declaration")
			}
			binding, err := parseBindingLine(stripped, path, lineNo)
			if err != nil {
				return nil, err
			}
			if c.HasBinding(binding.Name) {
				return nil, parseErrorf(path, lineNo, "duplicate variable %q", binding.Name)
			}
			c.Bindings = append(c.Bindings, *binding)

		default:
			recipe, err := parseRecipeHeader(stripped, path, lineNo)
			if err != nil {
				return nil, err
			}
			if c.byName[recipe.Name] != nil {
				return nil, parseErrorf(path, lineNo, "duplicate recipe name %q", recipe.Name)
			}
			recipe.Attributes = pending
			pending = nil
			c.Recipes = append(c.Recipes, recipe)
			c.byName[recipe.Name] = recipe
			current = recipe
		}
	}

	if pending != nil {
		return nil, parseErrorf(path, pendingLine, "attribute must precede a recipe declaration")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// parseCommandLine parses an indented body line: optional `@` (quiet) and
// `-` (ignore failure) prefixes in either order, then the command text with
// its interpolation fragments. Returns (nil, nil) for a line that is empty
// after its prefixes.
func parseCommandLine(text, path string, lineNo int) (*CommandLine, error) {
	cmd := CommandLine{Line: lineNo}
	for len(text) > 0 {
		if text[0] == '@' && !cmd.Quiet {
			cmd.Quiet = true
			text = text[1:]
			continue
		}
		if text[0] == '-' && !cmd.IgnoreError {
			cmd.IgnoreError = true
			text = text[1:]
			continue
		}
		break
	}
	text = strings.TrimLeft(text, " \t")
	if text == "" {
		return nil, nil
	}
	fragments, err := splitFragments(text, path, lineNo)
	if err != nil {
		return nil, err
	}
	cmd.Raw = text
	cmd.Fragments = fragments
	return &cmd, nil
}

// parseAttributeLine parses a `[name]` annotation line.
func parseAttributeLine(text, path string, lineNo int) (Attribute, error) {
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return "", parseErrorf(path, lineNo, "malformed attribute %q (expected [name])", text)
	}
	attr := Attribute(strings.TrimSpace(text[1 : len(text)-1]))
	if isValid, errs := attr.IsValid(); !isValid {
		return "", parseErrorf(path, lineNo, "%s", errs[0].Error())
	}
	return attr, nil
}

// isBindingLine reports whether an unindented line is a variable binding:
// an optional `export` keyword, a name, and `:=`.
func isBindingLine(text string) bool {
	s := newLineScanner(text)
	if name := s.readName(); name == "" {
		return false
	}
	s.skipSpaces()
	if s.rest() == "" {
		return false
	}
	if strings.HasPrefix(s.rest(), ":=") {
		return true
	}
	// `export name := expr`
	if strings.HasPrefix(text, "export ") || strings.HasPrefix(text, "export\t") {
		inner := newLineScanner(strings.TrimSpace(text[len("export"):]))
		if inner.readName() == "" {
			return false
		}
		inner.skipSpaces()
		return strings.HasPrefix(inner.rest(), ":=")
	}
	return false
}

// parseBindingLine parses `name := expression` or `export name := expression`.
func parseBindingLine(text, path string, lineNo int) (*Binding, error) {
	b := Binding{Line: lineNo}
	body := text
	if strings.HasPrefix(text, "export ") || strings.HasPrefix(text, "export\t") {
		b.Export = true
		body = strings.TrimSpace(text[len("export"):])
	}
	s := newLineScanner(body)
	b.Name = s.readName()
	if b.Name == "" {
		return nil, parseErrorf(path, lineNo, "malformed variable binding %q", text)
	}
	s.skipSpaces()
	if !strings.HasPrefix(s.rest(), ":=") {
		return nil, parseErrorf(path, lineNo, "malformed variable binding %q (expected ':=')", text)
	}
	s.pos += 2
	b.Expr = strings.TrimSpace(s.rest())
	return &b, nil
}

// parseRecipeHeader parses a recipe declaration line:
//
//	name param other="default" +rest: dep (dep2 arg) ...
func parseRecipeHeader(text, path string, lineNo int) (*Recipe, error) {
	s := newLineScanner(text)
	name := s.readName()
	if name == "" {
		return nil, parseErrorf(path, lineNo, "malformed recipe declaration %q", text)
	}
	r := &Recipe{Name: RecipeName(name), Line: lineNo}

	// Parameters, up to the header colon.
	seen := map[string]bool{}
	var variadicName string
	for {
		s.skipSpaces()
		if s.eof() {
			return nil, parseErrorf(path, lineNo, "missing ':' in recipe declaration")
		}
		if s.peek() == ':' {
			s.pos++
			break
		}

		p := Parameter{Line: lineNo}
		switch s.peek() {
		case '+':
			p.Variadic = VariadicOneOrMore
			s.pos++
		case '*':
			p.Variadic = VariadicZeroOrMore
			s.pos++
		}
		p.Name = s.readName()
		if p.Name == "" {
			return nil, parseErrorf(path, lineNo, "malformed parameter list in recipe %q", name)
		}
		if variadicName != "" {
			return nil, parseErrorf(path, lineNo,
				"variadic parameter %q must be the last parameter of recipe %q", variadicName, name)
		}
		if seen[p.Name] {
			return nil, parseErrorf(path, lineNo, "duplicate parameter %q in recipe %q", p.Name, name)
		}
		seen[p.Name] = true
		if !s.eof() && s.peek() == '=' {
			s.pos++
			expr, err := s.readExprToken(path, lineNo)
			if err != nil {
				return nil, err
			}
			p.Default = expr
			p.HasDefault = true
		}
		if p.Variadic != VariadicNone {
			variadicName = p.Name
		}
		r.Params = append(r.Params, p)
	}

	// Dependencies, to end of line.
	for {
		s.skipSpaces()
		if s.eof() {
			break
		}
		dep := Dependency{Line: lineNo}
		if s.peek() == '(' {
			s.pos++
			s.skipSpaces()
			depName := s.readName()
			if depName == "" {
				return nil, parseErrorf(path, lineNo, "malformed dependency list in recipe %q", name)
			}
			dep.Name = RecipeName(depName)
			for {
				s.skipSpaces()
				if s.eof() {
					return nil, parseErrorf(path, lineNo,
						"unterminated dependency arguments for %q in recipe %q", depName, name)
				}
				if s.peek() == ')' {
					s.pos++
					break
				}
				arg, err := s.readExprToken(path, lineNo)
				if err != nil {
					return nil, err
				}
				dep.Args = append(dep.Args, arg)
			}
		} else {
			depName := s.readName()
			if depName == "" {
				return nil, parseErrorf(path, lineNo, "malformed dependency list in recipe %q", name)
			}
			dep.Name = RecipeName(depName)
		}
		r.Deps = append(r.Deps, dep)
	}

	return r, nil
}

// stripComment removes an unquoted trailing `#` comment from an unindented
// line. Quoted and backtick sections are respected so a `#` inside a string
// literal survives.
func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '#':
			return line[:i]
		case '\'', '"', '`':
			end, ok := scanStringLiteral(line, i)
			if !ok {
				return line
			}
			i = end
		}
	}
	return line
}

type lineScanner struct {
	src string
	pos int
}

func newLineScanner(src string) *lineScanner {
	return &lineScanner{src: src}
}

func (s *lineScanner) eof() bool    { return s.pos >= len(s.src) }
func (s *lineScanner) peek() byte   { return s.src[s.pos] }
func (s *lineScanner) rest() string { return s.src[s.pos:] }

func (s *lineScanner) skipSpaces() {
	for !s.eof() && (s.peek() == ' ' || s.peek() == '\t') {
		s.pos++
	}
}

// readName consumes a name token (letter or underscore, then letters,
// digits, hyphens, underscores). Returns "" when no name starts at the
// current position.
func (s *lineScanner) readName() string {
	start := s.pos
	for !s.eof() {
		c := s.peek()
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case s.pos > start && (c >= '0' && c <= '9' || c == '-'):
		default:
			if s.pos == start {
				return ""
			}
			return s.src[start:s.pos]
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

// readExprToken consumes one expression source token: it runs until
// whitespace, an unnested ')', or an unnested ':' and keeps quoted strings,
// backticks, and parenthesized groups intact, so `env_var("A B")` survives
// as a single token. A `+` operator continues the token across whitespace,
// so `profile + "-fast"` is one expression rather than three.
func (s *lineScanner) readExprToken(path string, lineNo int) (string, error) {
	start := s.pos
	depth := 0
	var prev byte
	for !s.eof() {
		c := s.peek()
		switch c {
		case ' ', '\t':
			if depth > 0 {
				s.pos++
				continue
			}
			next := s.peekPastSpaces()
			if prev == '+' || next == '+' {
				s.pos++
				continue
			}
			return s.src[start:s.pos], nil
		case '(':
			depth++
			prev = c
			s.pos++
		case ')':
			if depth == 0 {
				return s.src[start:s.pos], nil
			}
			depth--
			prev = c
			s.pos++
		case ':':
			if depth == 0 {
				return s.src[start:s.pos], nil
			}
			prev = c
			s.pos++
		case '\'', '"', '`':
			end, ok := scanStringLiteral(s.src, s.pos)
			if !ok {
				return "", parseErrorf(path, lineNo, "unterminated string literal")
			}
			prev = s.src[end]
			s.pos = end + 1
		default:
			prev = c
			s.pos++
		}
	}
	if depth > 0 {
		return "", parseErrorf(path, lineNo, "unterminated parenthesized expression")
	}
	if s.pos == start {
		return "", parseErrorf(path, lineNo, "expected an expression")
	}
	return s.src[start:s.pos], nil
}

// peekPastSpaces returns the first byte after the current run of spaces and
// tabs, or 0 at end of line.
func (s *lineScanner) peekPastSpaces() byte {
	for i := s.pos; i < len(s.src); i++ {
		if s.src[i] != ' ' && s.src[i] != '\t' {
			return s.src[i]
		}
	}
	return 0
}
