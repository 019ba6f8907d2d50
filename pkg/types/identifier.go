package types

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Identifier is a 128-bit game content identifier in its canonical
// 36-character lowercase hyphenated form
type Identifier string

// IdentifierPattern matches canonical identifiers in any letter case
var IdentifierPattern = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// ParseIdentifier validates s and returns its canonical form
func ParseIdentifier(s string) (Identifier, error) {
	s = strings.TrimSpace(s)
	if len(s) != 36 {
		return "", fmt.Errorf("identifier %q is not 36 characters", s)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("identifier %q: %w", s, err)
	}
	return Identifier(u.String()), nil
}

// MustIdentifier is ParseIdentifier for constants; it panics on bad input
func MustIdentifier(s string) Identifier {
	id, err := ParseIdentifier(s)
	if err != nil {
		panic(err)
	}
	return id
}

// NewIdentifier draws a fresh random (version 4) identifier
func NewIdentifier() Identifier {
	return Identifier(uuid.New().String())
}

// String implements fmt.Stringer
func (id Identifier) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty
func (id Identifier) IsZero() bool {
	return id == ""
}

// IdentifierIndex returns the [start, end) offsets of the identifiers in
// data. A match that touches a letter, digit or hyphen is a slice of some
// longer token and is not reported.
func IdentifierIndex(data []byte) [][]int {
	matches := IdentifierPattern.FindAllIndex(data, -1)
	out := matches[:0]
	for _, loc := range matches {
		if loc[0] > 0 && joinsToken(data[loc[0]-1]) {
			continue
		}
		if loc[1] < len(data) && joinsToken(data[loc[1]]) {
			continue
		}
		out = append(out, loc)
	}
	return out
}

func joinsToken(c byte) bool {
	return c == '-' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// FindIdentifiers returns every canonical identifier occurring in data,
// lowercased, in order of first occurrence
func FindIdentifiers(data []byte) []Identifier {
	matches := IdentifierIndex(data)
	seen := make(map[Identifier]struct{}, len(matches))
	out := make([]Identifier, 0, len(matches))
	for _, loc := range matches {
		id := Identifier(strings.ToLower(string(data[loc[0]:loc[1]])))
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// IdentifierSet is an unordered set of identifiers
type IdentifierSet map[Identifier]struct{}

// Add inserts id into the set
func (s IdentifierSet) Add(id Identifier) {
	s[id] = struct{}{}
}

// Has reports membership
func (s IdentifierSet) Has(id Identifier) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in lexical order
func (s IdentifierSet) Sorted() []Identifier {
	out := make([]Identifier, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
