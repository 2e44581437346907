// Package sexp reads and writes the S-expression netlist format exchanged
// with KiCad.
package sexp

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is an S-expression: an atom or a list.
type Node interface {
	IsAtom() bool
	String() string
}

// Atom is a symbol, number or quoted string.
type Atom struct {
	Value  string
	Quoted bool
}

func (a Atom) IsAtom() bool { return true }

func (a Atom) String() string {
	if a.Quoted || needsQuoting(a.Value) {
		return strconv.Quote(a.Value)
	}
	return a.Value
}

func needsQuoting(s string) bool {
	return s == "" || strings.ContainsAny(s, " \t\r\n()\"#")
}

// List is a parenthesised sequence of nodes.
type List struct {
	Items []Node
}

func (l *List) IsAtom() bool { return false }

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.Items) }

// At returns item i or nil when out of range.
func (l *List) At(i int) Node {
	if i < 0 || i >= len(l.Items) {
		return nil
	}
	return l.Items[i]
}

// Head returns the list's first atom, its key, or "".
func (l *List) Head() string {
	if a, ok := l.At(0).(Atom); ok {
		return a.Value
	}
	return ""
}

// Sym builds an unquoted atom.
func Sym(s string) Atom { return Atom{Value: s} }

// Str builds a quoted atom.
func Str(s string) Atom { return Atom{Value: s, Quoted: true} }

// Int builds a numeric atom.
func Int(v int) Atom { return Atom{Value: strconv.Itoa(v)} }

// L builds a list whose first item is the key.
func L(key string, items ...Node) *List {
	return &List{Items: append([]Node{Sym(key)}, items...)}
}

// Parse reads all top-level expressions from r.
func Parse(r io.Reader) ([]Node, error) {
	p := &parser{lex: newLexer(r)}
	return p.parseAll()
}

// ParseString parses all top-level expressions in s.
func ParseString(s string) ([]Node, error) {
	return Parse(strings.NewReader(s))
}

type parser struct {
	lex *lexer
}

func (p *parser) parseAll() ([]Node, error) {
	var out []Node
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenEOF {
			return out, nil
		}
		n, err := p.parse(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
}

func (p *parser) parse(tok token) (Node, error) {
	switch tok.kind {
	case tokenAtom:
		return Atom{Value: tok.value}, nil
	case tokenQuoted:
		return Atom{Value: tok.value, Quoted: true}, nil
	case tokenOpen:
		return p.list(tok.line)
	case tokenClose:
		return nil, fmt.Errorf("sexp: line %d: unexpected ')'", tok.line)
	}
	return nil, fmt.Errorf("sexp: line %d: unexpected end of input", tok.line)
}

func (p *parser) list(line int) (Node, error) {
	l := &List{}
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenClose:
			return l, nil
		case tokenEOF:
			return nil, fmt.Errorf("sexp: line %d: list not closed", line)
		}
		n, err := p.parse(tok)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, n)
	}
}
