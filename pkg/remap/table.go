package remap

import (
	"sort"

	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/races"
	"github.com/arthur-debert/bg3compat/pkg/types"
)

// maxAttempts bounds collision retries for a single identifier
const maxAttempts = 64

// Pair is one table entry
type Pair struct {
	Old types.Identifier
	New types.Identifier
}

// Table maps original identifiers to their replacements.
// Values are unique and never vanilla race identifiers.
type Table struct {
	forward map[types.Identifier]types.Identifier
}

// Generator draws candidate identifiers
type Generator func() types.Identifier

// BuildTable builds the table for a run's referenced set.
// Vanilla race ids are never entered. With regenerate false every other id
// maps to itself; with regenerate true each gets a fresh random identifier.
func BuildTable(referenced []types.Identifier, regenerate bool) (*Table, error) {
	return BuildTableWith(referenced, regenerate, types.NewIdentifier)
}

// BuildTableWith is BuildTable with an explicit identifier generator
func BuildTableWith(referenced []types.Identifier, regenerate bool, gen Generator) (*Table, error) {
	t := &Table{forward: make(map[types.Identifier]types.Identifier, len(referenced))}

	ref := types.IdentifierSet{}
	for _, id := range referenced {
		ref.Add(id)
	}
	taken := types.IdentifierSet{}

	for _, id := range ref.Sorted() {
		if races.IsVanilla(id.String()) {
			continue
		}
		if !regenerate {
			t.forward[id] = id
			continue
		}
		fresh, err := allocate(gen, ref, taken)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrRemap, "cannot allocate a replacement for %s", id).
				WithDetail("identifier", id.String())
		}
		taken.Add(fresh)
		t.forward[id] = fresh
	}
	return t, nil
}

func allocate(gen Generator, referenced, taken types.IdentifierSet) (types.Identifier, error) {
	for i := 0; i < maxAttempts; i++ {
		id, err := types.ParseIdentifier(gen().String())
		if err != nil {
			continue
		}
		if races.IsVanilla(id.String()) || referenced.Has(id) || taken.Has(id) {
			continue
		}
		return id, nil
	}
	return "", errors.Newf(errors.ErrRemap, "no unique identifier after %d attempts", maxAttempts)
}

// Lookup returns the replacement for id
func (t *Table) Lookup(id types.Identifier) (types.Identifier, bool) {
	v, ok := t.forward[id]
	return v, ok
}

// Len returns the number of entries
func (t *Table) Len() int {
	return len(t.forward)
}

// Pairs returns the entries ordered by original identifier
func (t *Table) Pairs() []Pair {
	out := make([]Pair, 0, len(t.forward))
	for k, v := range t.forward {
		out = append(out, Pair{Old: k, New: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Old < out[j].Old })
	return out
}

// Values returns the replacement identifiers in lexical order
func (t *Table) Values() []types.Identifier {
	set := types.IdentifierSet{}
	for _, v := range t.forward {
		set.Add(v)
	}
	return set.Sorted()
}

// Mapping returns a copy of the table as a plain map, ready for Rewrite
func (t *Table) Mapping() map[types.Identifier]types.Identifier {
	out := make(map[types.Identifier]types.Identifier, len(t.forward))
	for k, v := range t.forward {
		out[k] = v
	}
	return out
}
