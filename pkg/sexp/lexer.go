package sexp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenOpen
	tokenClose
	tokenAtom
	tokenQuoted
)

type token struct {
	kind  tokenKind
	value string
	line  int
}

// lexer reads tokens from a stream, so arbitrarily large netlists can be
// parsed without loading them whole.
type lexer struct {
	r      *bufio.Reader
	line   int
	peeked rune
	hasPk  bool
}

func newLexer(r io.Reader) *lexer {
	return &lexer{r: bufio.NewReader(r), line: 1}
}

func (l *lexer) peek() (rune, error) {
	if l.hasPk {
		return l.peeked, nil
	}
	ch, _, err := l.r.ReadRune()
	if err != nil {
		return 0, err
	}
	l.peeked, l.hasPk = ch, true
	return ch, nil
}

func (l *lexer) read() (rune, error) {
	ch, err := l.peek()
	if err != nil {
		return 0, err
	}
	l.hasPk = false
	if ch == '\n' {
		l.line++
	}
	return ch, nil
}

// next returns the next token. Whitespace and '#' line comments are skipped.
func (l *lexer) next() (token, error) {
	for {
		ch, err := l.peek()
		if errors.Is(err, io.EOF) {
			return token{kind: tokenEOF, line: l.line}, nil
		}
		if err != nil {
			return token{}, err
		}
		switch {
		case unicode.IsSpace(ch):
			l.read()
		case ch == '#':
			for {
				c, err := l.read()
				if err != nil || c == '\n' {
					break
				}
			}
		case ch == '(':
			l.read()
			return token{kind: tokenOpen, value: "(", line: l.line}, nil
		case ch == ')':
			l.read()
			return token{kind: tokenClose, value: ")", line: l.line}, nil
		case ch == '"':
			return l.quoted()
		default:
			return l.atom()
		}
	}
}

func (l *lexer) quoted() (token, error) {
	start := l.line
	l.read()

	var b strings.Builder
	for {
		ch, err := l.read()
		if err != nil {
			return token{}, fmt.Errorf("sexp: line %d: unterminated string", start)
		}
		switch ch {
		case '"':
			return token{kind: tokenQuoted, value: b.String(), line: start}, nil
		case '\\':
			esc, err := l.read()
			if err != nil {
				return token{}, fmt.Errorf("sexp: line %d: dangling escape", l.line)
			}
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			default:
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(ch)
		}
	}
}

func (l *lexer) atom() (token, error) {
	var b strings.Builder
	for {
		ch, err := l.peek()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return token{}, err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			break
		}
		l.read()
		b.WriteRune(ch)
	}
	return token{kind: tokenAtom, value: b.String(), line: l.line}, nil
}
