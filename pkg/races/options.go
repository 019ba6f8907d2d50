package races

import (
	"sort"

	"github.com/arthur-debert/bg3compat/pkg/types"
)

// LocalizationProvider looks up display strings by key.
// An empty result means the key is unknown.
type LocalizationProvider interface {
	Lookup(key string) string
}

// Option is one selectable race for presentation
type Option struct {
	Display string
	ID      types.Identifier
}

// DisplayName renders an entry for presentation.
// Without a provider (or without a translation) it falls back to
// "<local name> (<English name>)".
func DisplayName(e Entry, provider LocalizationProvider) string {
	name := ""
	if provider != nil && e.LocalizationKey != "" {
		name = provider.Lookup(e.LocalizationKey)
	}
	if name == "" {
		name = e.NameLocal + " (" + e.NameEn + ")"
	}
	if e.Subrace != "" {
		name += " - " + e.Subrace
	}
	return name
}

// DisplayOptions returns every vanilla race as a display option sorted by
// display name. provider may be nil.
func DisplayOptions(provider LocalizationProvider) []Option {
	return OptionsFor(AllIDs(), provider)
}

// OptionsFor builds sorted display options for a subset of identifiers.
// Unknown identifiers are skipped.
func OptionsFor(ids []types.Identifier, provider LocalizationProvider) []Option {
	options := make([]Option, 0, len(ids))
	for _, id := range ids {
		e, ok := InfoFor(string(id))
		if !ok {
			continue
		}
		options = append(options, Option{Display: DisplayName(e, provider), ID: e.ID})
	}
	sort.SliceStable(options, func(i, j int) bool { return options[i].Display < options[j].Display })
	return options
}
