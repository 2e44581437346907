package sexp

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Find returns the first child list of n whose key is key.
// Example: Find(net, "code") finds (code 3) in (net (code 3) (name GND)).
func Find(n Node, key string) (*List, bool) {
	l, ok := n.(*List)
	if !ok {
		return nil, false
	}
	for _, item := range l.Items {
		if child, ok := item.(*List); ok && child.Head() == key {
			return child, true
		}
	}
	return nil, false
}

// FindAll returns every child list of n whose key is key.
func FindAll(n Node, key string) []*List {
	l, ok := n.(*List)
	if !ok {
		return nil
	}
	var out []*List
	for _, item := range l.Items {
		if child, ok := item.(*List); ok && child.Head() == key {
			out = append(out, child)
		}
	}
	return out
}

// String returns the atom at index i of list l.
func String(l *List, i int) (string, error) {
	a, ok := l.At(i).(Atom)
	if !ok {
		return "", fmt.Errorf("sexp: %s: no atom at index %d", l.Head(), i)
	}
	return a.Value, nil
}

// Float returns the number at index i of list l.
func Float(l *List, i int) (float64, error) {
	s, err := String(l, i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("sexp: %s: %w", l.Head(), err)
	}
	return v, nil
}

// IntAt returns the integer at index i of list l.
func IntAt(l *List, i int) (int, error) {
	s, err := String(l, i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("sexp: %s: %w", l.Head(), err)
	}
	return v, nil
}

// Value returns the first atom of the child list key, e.g. "GND" for
// Value(net, "name").
func Value(n Node, key string) (string, bool) {
	child, ok := Find(n, key)
	if !ok {
		return "", false
	}
	s, err := String(child, 1)
	return s, err == nil
}

// Write prints n with one nested list per line. Lists containing only atoms
// stay on one line.
func Write(w io.Writer, n Node) error {
	var b strings.Builder
	write(&b, n, 0)
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func write(b *strings.Builder, n Node, depth int) {
	l, ok := n.(*List)
	if !ok || flat(l) {
		b.WriteString(n.String())
		return
	}
	b.WriteByte('(')
	for i, item := range l.Items {
		if _, isList := item.(*List); isList && i > 0 {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat("  ", depth+1))
		} else if i > 0 {
			b.WriteByte(' ')
		}
		write(b, item, depth+1)
	}
	b.WriteByte(')')
}

func flat(l *List) bool {
	for _, item := range l.Items {
		if child, ok := item.(*List); ok && !flat(child) {
			return false
		}
		if _, ok := item.(*List); ok && len(l.Items) > 3 {
			return false
		}
	}
	return true
}
