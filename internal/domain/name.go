// Package domain contains the core data types for the name statistics service.
// Apart from golang.org/x/text for Unicode casing it has no external
// dependencies and is imported by every other internal package.
package domain

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinQueryLength is the number of runes a search query needs before it hits the store.
const MinQueryLength = 2

// SearchLimit caps the number of (name, gender) pairs returned by a prefix search.
const SearchLimit = 20

// Gender is the INSEE sex code stored with every record.
type Gender int

const (
	Male   Gender = 1
	Female Gender = 2
)

// Valid reports whether g is one of the two known codes.
func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// Label returns the display label used by the clients.
func (g Gender) Label() string {
	switch g {
	case Male:
		return "Garçon"
	case Female:
		return "Fille"
	default:
		return "?"
	}
}

// NameRecord is one row of the name store: births for a name, gender and year.
// The triple (Name, Gender, Year) is unique. Records are written once by the
// importer and never updated.
type NameRecord struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
	Year   int    `json:"year"`
	Count  int    `json:"count"`
}

// NameMatch is a prefix search hit.
type NameMatch struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
}

// SeriesPoint is one year of a single-name series.
type SeriesPoint struct {
	Year   int    `json:"year"`
	Count  int    `json:"count"`
	Gender Gender `json:"gender"`
}

// NormalizeName trims s and uppercases it with French casing rules, so
// "léa" and "LÉA" address the same records.
// A cases.Caser is stateful, hence one per call.
func NormalizeName(s string) string {
	return cases.Upper(language.French).String(strings.TrimSpace(s))
}

// NormalizeNames normalizes every entry, dropping blanks and duplicates while
// keeping first-seen order.
func NormalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = NormalizeName(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// SearchableQuery reports whether q is long enough to be searched.
func SearchableQuery(q string) bool {
	return utf8.RuneCountInString(q) >= MinQueryLength
}
