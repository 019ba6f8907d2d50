// Package races holds the fixed catalog of Baldur's Gate 3 vanilla playable
// races and the lookups the engine needs against it.
package races

import (
	"sort"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/types"
)

// Entry describes one vanilla race
type Entry struct {
	ID              types.Identifier
	NameEn          string
	NameLocal       string
	LocalizationKey string
	Subrace         string
}

// Count is the fixed number of vanilla races
const Count = 11

var catalog = []Entry{
	{ID: "0eb594cb-8820-4be6-a58d-8be7a1a98fba", NameEn: "Human", NameLocal: "人类", LocalizationKey: "race_human"},
	{ID: "6c038dcb-7eb5-431d-84f8-cecfaf1c0c5a", NameEn: "Elf", NameLocal: "精灵", LocalizationKey: "race_elf"},
	{ID: "4f5d1434-5175-4fa9-b7dc-ab24fba37929", NameEn: "Drow", NameLocal: "卓尔精灵", LocalizationKey: "race_drow"},
	{ID: "b6dccbed-30f3-424b-a181-c4540cf38197", NameEn: "Tiefling", NameLocal: "提夫林", LocalizationKey: "race_tiefling"},
	{ID: "0ab2874d-cfdc-405e-8a97-d37bfbb23c52", NameEn: "Dwarf", NameLocal: "矮人", LocalizationKey: "race_dwarf"},
	{ID: "78cd3bcc-1c43-4a2a-aa80-c34322c16a04", NameEn: "Halfling", NameLocal: "半身人", LocalizationKey: "race_halfling"},
	{ID: "f1b3f884-4029-4f0f-b158-1f9fe0ae5a0d", NameEn: "Gnome", NameLocal: "侏儒", LocalizationKey: "race_gnome"},
	{ID: "45f4ac10-3c89-4fb2-b37d-f973bb9110c0", NameEn: "Half-Elf", NameLocal: "半精灵", LocalizationKey: "race_half_elf"},
	{ID: "5c39a726-71c8-4748-ba8d-f768b3c11a91", NameEn: "Half-Orc", NameLocal: "半兽人", LocalizationKey: "race_half_orc"},
	{ID: "9c61a74a-20df-4119-89c5-d996956b6c66", NameEn: "Dragonborn", NameLocal: "龙裔", LocalizationKey: "race_dragonborn"},
	{ID: "bdf9b779-002c-4077-b377-8ea7c1faa795", NameEn: "Githyanki", NameLocal: "吉斯洋基人", LocalizationKey: "race_githyanki"},
}

var byID = func() map[types.Identifier]Entry {
	m := make(map[types.Identifier]Entry, len(catalog))
	for _, e := range catalog {
		m[e.ID] = e
	}
	return m
}()

// InfoFor returns the entry for id, matched case-insensitively
func InfoFor(id string) (Entry, bool) {
	e, ok := byID[types.Identifier(strings.ToLower(strings.TrimSpace(id)))]
	return e, ok
}

// IsVanilla reports whether id is one of the vanilla race identifiers
func IsVanilla(id string) bool {
	_, ok := InfoFor(id)
	return ok
}

// AllIDs returns every vanilla race identifier in catalog order
func AllIDs() []types.Identifier {
	ids := make([]types.Identifier, len(catalog))
	for i, e := range catalog {
		ids[i] = e.ID
	}
	return ids
}

// All returns a copy of the catalog in catalog order
func All() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Resolve finds an entry by identifier, English name or localization key
func Resolve(nameOrID string) (Entry, bool) {
	if e, ok := InfoFor(nameOrID); ok {
		return e, true
	}
	needle := strings.ToLower(strings.TrimSpace(nameOrID))
	for _, e := range catalog {
		if strings.ToLower(e.NameEn) == needle || e.LocalizationKey == needle || e.NameLocal == nameOrID {
			return e, true
		}
	}
	return Entry{}, false
}

// SortByName orders ids by English display name; unknown ids sort last by value
func SortByName(ids []types.Identifier) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, aok := byID[ids[i]]
		b, bok := byID[ids[j]]
		switch {
		case aok && bok:
			return a.NameEn < b.NameEn
		case aok != bok:
			return aok
		default:
			return ids[i] < ids[j]
		}
	})
}
