// SPDX-License-Identifier: MPL-2.0

package eval

import (
	"fmt"
	"strings"
)

// The expression grammar, parsed by recursive descent:
//
//	expr    := term ('+' term)*
//	term    := STRING | RAWSTRING | BACKTICK | '(' expr ')'
//	         | IDENT | IDENT '(' (expr (',' expr)*)? ')'
//
// Double-quoted strings honor \n, \t, \r, \", \\ escapes; single-quoted
// strings are raw; backticks capture the trimmed output of a shell command.

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenBacktick
	tokenPlus
	tokenComma
	tokenLParen
	tokenRParen
)

type (
	token struct {
		kind tokenKind
		// text is the decoded payload: the string value for tokenString,
		// the command for tokenBacktick, the name for tokenIdent.
		text string
	}

	exprNode interface {
		// eval resolves the node to its literal string value.
		eval(ev *evaluator) (string, error)
	}

	litNode    struct{ value string }
	identNode  struct{ name string }
	concatNode struct{ left, right exprNode }
	callNode   struct {
		name string
		args []exprNode
	}
	backtickNode struct{ command string }
)

// lexExpr tokenizes an expression source string.
func lexExpr(src string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+':
			tokens = append(tokens, token{kind: tokenPlus})
			i++
		case c == ',':
			tokens = append(tokens, token{kind: tokenComma})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokenLParen})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenRParen})
			i++
		case c == '\'':
			end := strings.IndexByte(src[i+1:], '\'')
			if end < 0 {
				return nil, fmt.Errorf("unterminated string literal")
			}
			tokens = append(tokens, token{kind: tokenString, text: src[i+1 : i+1+end]})
			i += end + 2
		case c == '"':
			value, next, err := lexCookedString(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, text: value})
			i = next
		case c == '`':
			end := strings.IndexByte(src[i+1:], '`')
			if end < 0 {
				return nil, fmt.Errorf("unterminated backtick expression")
			}
			tokens = append(tokens, token{kind: tokenBacktick, text: src[i+1 : i+1+end]})
			i += end + 2
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: src[start:i]})
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	return append(tokens, token{kind: tokenEOF}), nil
}

// lexCookedString decodes a double-quoted string starting at src[start].
// Returns the decoded value and the index just past the closing quote.
func lexCookedString(src string, start int) (string, int, error) {
	var b strings.Builder
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '"':
			return b.String(), i + 1, nil
		case '\\':
			i++
			if i >= len(src) {
				return "", 0, fmt.Errorf("unterminated string literal")
			}
			switch src[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"', '\\':
				b.WriteByte(src[i])
			default:
				return "", 0, fmt.Errorf("unsupported escape sequence \\%c", src[i])
			}
		default:
			b.WriteByte(src[i])
		}
	}
	return "", 0, fmt.Errorf("unterminated string literal")
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9' || c == '-'
}

type exprParser struct {
	tokens []token
	pos    int
}

// parseExpr parses an expression source into its AST.
func parseExpr(src string) (exprNode, error) {
	tokens, err := lexExpr(src)
	if err != nil {
		return nil, err
	}
	p := &exprParser{tokens: tokens}
	node, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenEOF {
		return nil, fmt.Errorf("unexpected trailing tokens")
	}
	return node, nil
}

func (p *exprParser) peek() token { return p.tokens[p.pos] }

func (p *exprParser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *exprParser) expr() (exprNode, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenPlus {
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &concatNode{left: left, right: right}
	}
	return left, nil
}

func (p *exprParser) term() (exprNode, error) {
	t := p.next()
	switch t.kind {
	case tokenString:
		return &litNode{value: t.text}, nil
	case tokenBacktick:
		return &backtickNode{command: t.text}, nil
	case tokenLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokenRParen {
			return nil, fmt.Errorf("expected ')'")
		}
		return inner, nil
	case tokenIdent:
		if p.peek().kind != tokenLParen {
			return &identNode{name: t.text}, nil
		}
		p.next()
		call := &callNode{name: t.text}
		if p.peek().kind == tokenRParen {
			p.next()
			return call, nil
		}
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			call.args = append(call.args, arg)
			switch p.next().kind {
			case tokenComma:
			case tokenRParen:
				return call, nil
			default:
				return nil, fmt.Errorf("expected ',' or ')' in call to %s", t.text)
			}
		}
	case tokenEOF:
		return nil, fmt.Errorf("empty expression")
	default:
		return nil, fmt.Errorf("unexpected token")
	}
}
