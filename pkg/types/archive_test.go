// pkg/types/archive_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test archive kinds and archive records

package types_test

import (
	"testing"

	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestParseArchiveKind(t *testing.T) {
	for _, in := range []string{"race", "Races", " RACE "} {
		kind, err := types.ParseArchiveKind(in)
		assert.NoError(t, err, in)
		assert.Equal(t, types.KindRace, kind, in)
	}
	for _, in := range []string{"appearance", "looks"} {
		kind, err := types.ParseArchiveKind(in)
		assert.NoError(t, err, in)
		assert.Equal(t, types.KindAppearance, kind, in)
	}
	_, err := types.ParseArchiveKind("voice")
	assert.Error(t, err)
}

func TestModArchive(t *testing.T) {
	a := types.NewModArchive("/mods/appearance/ElfHair.v2.pak", types.KindAppearance)
	assert.Equal(t, "ElfHair.v2.pak", a.Name())
	assert.Equal(t, "ElfHair.v2", a.Stem())
	assert.False(t, a.IsExtracted())

	a.ExtractedRoot = "/mods/appearance/ElfHair.v2"
	assert.True(t, a.IsExtracted())
}
