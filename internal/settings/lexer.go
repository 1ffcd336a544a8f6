// Package settings implements the small declarative configuration grammar
// of spec.md §4.6: a hand-rolled KDL-flavored lexer/parser for the
// settings note's `bind`/`global`/`ai` blocks, plus the evaluator that
// resets and reinstalls bindings and global hotkeys from them.
package settings

import (
	"fmt"
	"strconv"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokLBrace
	tokRBrace
	tokEquals
	tokTerminator // newline or ';' — separates sibling nodes
)

type token struct {
	kind   tokenKind
	text   string
	num    float64
	offset int
}

type lexer struct {
	src []byte
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: []byte(src)}
}

func (l *lexer) tokens() ([]token, error) {
	var out []token

	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}

		out = append(out, t)

		if t.kind == tokEOF {
			return out, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()

	if l.pos >= len(l.src) {
		return token{kind: tokEOF, offset: l.pos}, nil
	}

	offset := l.pos
	c := l.src[l.pos]

	switch {
	case c == '\n' || c == ';':
		l.pos++

		return token{kind: tokTerminator, offset: offset}, nil
	case c == '{':
		l.pos++

		return token{kind: tokLBrace, offset: offset}, nil
	case c == '}':
		l.pos++

		return token{kind: tokRBrace, offset: offset}, nil
	case c == '=':
		l.pos++

		return token{kind: tokEquals, offset: offset}, nil
	case c == '"':
		return l.lexString()
	case c == '-' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]):
		return l.lexNumber()
	case isDigit(c):
		return l.lexNumber()
	case isIdentStart(c):
		return l.lexIdent(), nil
	default:
		return token{}, fmt.Errorf("settings lexer: unexpected byte %q at offset %d", c, offset)
	}
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) lexString() (token, error) {
	offset := l.pos
	l.pos++ // opening quote

	var out []byte
	for {
		if l.pos >= len(l.src) {
			return token{}, fmt.Errorf("settings lexer: unterminated string starting at offset %d", offset)
		}

		c := l.src[l.pos]
		if c == '"' {
			l.pos++

			return token{kind: tokString, text: string(out), offset: offset}, nil
		}

		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos++

			switch l.src[l.pos] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			default:
				out = append(out, l.src[l.pos])
			}

			l.pos++

			continue
		}

		out = append(out, c)
		l.pos++
	}
}

func (l *lexer) lexNumber() (token, error) {
	offset := l.pos
	start := l.pos

	if l.src[l.pos] == '-' {
		l.pos++
	}

	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
		l.pos++
	}

	text := string(l.src[start:l.pos])

	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, fmt.Errorf("settings lexer: invalid number %q at offset %d", text, offset)
	}

	return token{kind: tokNumber, num: n, text: text, offset: offset}, nil
}

func (l *lexer) lexIdent() token {
	offset := l.pos
	start := l.pos

	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.pos++
	}

	return token{kind: tokIdent, text: string(l.src[start:l.pos]), offset: offset}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
