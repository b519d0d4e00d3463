// Package kicadsexp parses the S-expression syntax used by KiCad board
// files. The whole file is held in memory; atoms keep a flag telling
// whether they were quoted so "1" and 1 stay distinguishable.
package kicadsexp

import "strings"

// Sexp is either an *Atom or a *List.
type Sexp interface {
	IsLeaf() bool
	String() string
}

// Atom is a symbol, number or quoted string.
type Atom struct {
	Value  string
	Quoted bool
}

func (a *Atom) IsLeaf() bool { return true }

func (a *Atom) String() string {
	if a.Quoted {
		return `"` + strings.ReplaceAll(a.Value, `"`, `\"`) + `"`
	}
	return a.Value
}

// List is a parenthesised sequence.
type List struct {
	Items []Sexp
}

func (l *List) IsLeaf() bool { return false }

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(item.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.Items)
}

// Get returns the item at index, or nil when out of range.
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.Items) {
		return nil
	}
	return l.Items[index]
}

// Head returns the unquoted leading symbol of the list, e.g. "at" for
// (at 1 2). Lists starting with a quoted string or a sub-list have no head.
func (l *List) Head() string {
	if len(l.Items) == 0 {
		return ""
	}
	if a, ok := l.Items[0].(*Atom); ok && !a.Quoted {
		return a.Value
	}
	return ""
}

// Find returns the first child list whose head is key.
func (l *List) Find(key string) (*List, bool) {
	for _, item := range l.Items {
		if sub, ok := item.(*List); ok && sub.Head() == key {
			return sub, true
		}
	}
	return nil, false
}

// FindAll returns every child list whose head is key, in order.
func (l *List) FindAll(key string) []*List {
	var out []*List
	for _, item := range l.Items {
		if sub, ok := item.(*List); ok && sub.Head() == key {
			out = append(out, sub)
		}
	}
	return out
}

// AtomAt returns the atom value at index and whether one is present.
func (l *List) AtomAt(index int) (string, bool) {
	a, ok := l.Get(index).(*Atom)
	if !ok {
		return "", false
	}
	return a.Value, true
}
