// Package selection holds the ordered set of names a user is comparing and
// its URL representation. A Selection is an immutable value: Add, Remove and
// Clear return a new Selection and never modify the receiver, so clients can
// treat it as the state of a small reducer.
package selection

import (
	"slices"

	"github.com/pkordes/prenoms/internal/domain"
)

// Selection is an ordered list of distinct, normalized names.
// The zero value is an empty selection.
type Selection struct {
	names []string
}

// New builds a Selection from names, normalizing them and dropping blanks
// and duplicates while keeping first-seen order.
func New(names ...string) Selection {
	n := domain.NormalizeNames(names)
	if len(n) == 0 {
		return Selection{}
	}
	return Selection{names: n}
}

// Add appends name unless it is blank or already selected.
func (s Selection) Add(name string) Selection {
	name = domain.NormalizeName(name)
	if name == "" || s.Contains(name) {
		return s
	}
	next := make([]string, len(s.names), len(s.names)+1)
	copy(next, s.names)
	return Selection{names: append(next, name)}
}

// Remove drops name if it is selected.
func (s Selection) Remove(name string) Selection {
	name = domain.NormalizeName(name)
	i := slices.Index(s.names, name)
	if i < 0 {
		return s
	}
	next := slices.Delete(slices.Clone(s.names), i, i+1)
	if len(next) == 0 {
		return Selection{}
	}
	return Selection{names: next}
}

// Clear returns the empty selection.
func (s Selection) Clear() Selection {
	return Selection{}
}

// Contains reports whether name is selected.
func (s Selection) Contains(name string) bool {
	return slices.Contains(s.names, domain.NormalizeName(name))
}

// Names returns a copy of the selected names in order.
func (s Selection) Names() []string {
	return slices.Clone(s.names)
}

// Len is the number of selected names.
func (s Selection) Len() int { return len(s.names) }

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return len(s.names) == 0 }

// Equal reports whether s and other hold the same names in the same order.
func (s Selection) Equal(other Selection) bool {
	return slices.Equal(s.names, other.names)
}
