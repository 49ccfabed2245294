package sets

import "golang.org/x/text/cases"

var folder = cases.Fold()

// Fold normalizes s for caseless comparison using Unicode case folding.
func Fold(s string) string { return folder.String(s) }

// Folded is a set of strings with caseless membership semantics.
// All items are case folded on insert and lookup, so "ModA", "moda"
// and "MODA" are the same element.
type Folded map[string]Empty

// NewFolded creates a Folded set from a list of values.
func NewFolded(items ...string) Folded {
	return Folded{}.Insert(items...)
}

// Insert adds items to the set.
func (s Folded) Insert(items ...string) Folded {
	for _, insert := range items {
		s[Fold(insert)] = Empty{}
	}
	return s
}

// Has returns true if and only if item is contained in the set,
// ignoring case.
func (s Folded) Has(item string) bool {
	_, ok := s[Fold(item)]
	return ok
}

// Len returns the size of the set.
func (s Folded) Len() int {
	return len(s)
}
