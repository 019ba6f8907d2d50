// pkg/races/catalog_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test the vanilla race catalog lookups and display options

package races_test

import (
	"strings"
	"testing"

	"github.com/arthur-debert/bg3compat/pkg/races"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const elfID = "6c038dcb-7eb5-431d-84f8-cecfaf1c0c5a"

func TestCatalog_FixedCardinality(t *testing.T) {
	ids := races.AllIDs()
	require.Len(t, ids, races.Count)

	seen := map[types.Identifier]bool{}
	for _, id := range ids {
		_, err := types.ParseIdentifier(string(id))
		assert.NoError(t, err, "catalog id %s must be canonical", id)
		assert.Equal(t, strings.ToLower(string(id)), string(id))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestInfoFor_CaseInsensitive(t *testing.T) {
	e, ok := races.InfoFor(strings.ToUpper(elfID))
	require.True(t, ok)
	assert.Equal(t, "Elf", e.NameEn)
	assert.Equal(t, "race_elf", e.LocalizationKey)

	_, ok = races.InfoFor("00000000-0000-0000-0000-000000000000")
	assert.False(t, ok)
}

func TestIsVanilla(t *testing.T) {
	assert.True(t, races.IsVanilla(elfID))
	assert.True(t, races.IsVanilla(" "+elfID+" "))
	assert.False(t, races.IsVanilla("not-an-id"))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Elf", "Elf"},
		{"half-orc", "Half-Orc"},
		{"race_githyanki", "Githyanki"},
		{"龙裔", "Dragonborn"},
		{elfID, "Elf"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, ok := races.Resolve(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, e.NameEn)
		})
	}

	_, ok := races.Resolve("Warforged")
	assert.False(t, ok)
}

func TestSortByName(t *testing.T) {
	human, _ := races.Resolve("Human")
	drow, _ := races.Resolve("Drow")
	elf, _ := races.Resolve("Elf")
	unknown := types.Identifier("ffffffff-0000-0000-0000-000000000000")

	ids := []types.Identifier{unknown, human.ID, elf.ID, drow.ID}
	races.SortByName(ids)

	assert.Equal(t, []types.Identifier{drow.ID, elf.ID, human.ID, unknown}, ids)
}

type mapProvider map[string]string

func (m mapProvider) Lookup(key string) string { return m[key] }

func TestDisplayOptions(t *testing.T) {
	t.Run("fallback format without provider", func(t *testing.T) {
		opts := races.DisplayOptions(nil)
		require.Len(t, opts, races.Count)

		for i := 1; i < len(opts); i++ {
			assert.LessOrEqual(t, opts[i-1].Display, opts[i].Display)
		}

		var elf races.Option
		for _, o := range opts {
			if o.ID == elfID {
				elf = o
			}
		}
		assert.Equal(t, "精灵 (Elf)", elf.Display)
	})

	t.Run("provider wins, missing keys fall back", func(t *testing.T) {
		opts := races.OptionsFor([]types.Identifier{elfID}, mapProvider{"race_elf": "Elf"})
		require.Len(t, opts, 1)
		assert.Equal(t, "Elf", opts[0].Display)

		human, _ := races.Resolve("Human")
		opts = races.OptionsFor([]types.Identifier{human.ID}, mapProvider{})
		assert.Equal(t, "人类 (Human)", opts[0].Display)
	})

	t.Run("subrace suffix", func(t *testing.T) {
		e := races.Entry{NameEn: "Elf", NameLocal: "精灵", Subrace: "High"}
		assert.Equal(t, "精灵 (Elf) - High", races.DisplayName(e, nil))
	})
}
