// pkg/manifest/manifest_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory filesystem
// PURPOSE: Test manifest defaults, fallback to an existing manifest,
// meta.lsx rendering and version packing

package manifest_test

import (
	"testing"

	compaterrors "github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/filesystem"
	"github.com/arthur-debert/bg3compat/pkg/manifest"
	"github.com/arthur-debert/bg3compat/pkg/testutil"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	existingID = "abcabcab-0000-4000-8000-000000000001"
	freshID    = "f0f0f0f0-0000-4000-8000-000000000001"
)

func gen() types.Identifier { return freshID }

func boolPtr(b bool) *bool { return &b }

func TestWrite_Defaults(t *testing.T) {
	m := manifest.Write(nil, manifest.UserInput{}, gen)

	assert.Equal(t, manifest.DefaultModName, m.ModName)
	assert.Equal(t, manifest.DefaultAuthor, m.Author)
	assert.Equal(t, "Auto-generated compatibility patch for selected races and appearance mods", m.Description)
	assert.Equal(t, "1.0.0.0", m.Version)
	assert.Equal(t, types.Identifier(freshID), m.UUID)
	assert.False(t, m.Exists)
	assert.Equal(t, manifest.DefaultModName, m.Folder)
}

func TestWrite_ScenarioD_BlankInputKeepsExisting(t *testing.T) {
	existing := &manifest.PatchManifest{
		ModName: "MyPatch",
		UUID:    existingID,
		Exists:  true,
	}

	m := manifest.Write(existing, manifest.UserInput{}, gen)
	assert.Equal(t, "MyPatch", m.ModName)
	assert.Equal(t, types.Identifier(existingID), m.UUID)
	assert.True(t, m.Exists)
	assert.Equal(t, "MyPatch", m.Folder)
}

func TestWrite_RoundTrip(t *testing.T) {
	existing := &manifest.PatchManifest{
		ModName:     "MyPatch",
		Author:      "me",
		Description: "Hand written",
		Version:     "2.1.0.7",
		UUID:        existingID,
		Folder:      "MyPatch",
		Exists:      true,
	}

	m := manifest.Write(existing, manifest.UserInput{}, gen)
	assert.Equal(t, *existing, m)

	t.Run("explicit override", func(t *testing.T) {
		m := manifest.Write(existing, manifest.UserInput{Author: "you"}, gen)
		assert.Equal(t, "you", m.Author)
		assert.Equal(t, "Hand written", m.Description)
		assert.Equal(t, types.Identifier(existingID), m.UUID)
	})

	t.Run("regenerate identifier", func(t *testing.T) {
		m := manifest.Write(existing, manifest.UserInput{RegenerateUUID: boolPtr(true)}, gen)
		assert.Equal(t, types.Identifier(freshID), m.UUID)
		assert.True(t, m.RegenerateUUID)
	})

	t.Run("regenerate false keeps identifier", func(t *testing.T) {
		m := manifest.Write(existing, manifest.UserInput{RegenerateUUID: boolPtr(false)}, gen)
		assert.Equal(t, types.Identifier(existingID), m.UUID)
	})
}

func TestWrite_DescriptionFollowsRename(t *testing.T) {
	existing := &manifest.PatchManifest{
		ModName:     "MyPatch",
		Description: manifest.DefaultDescription("MyPatch"),
		UUID:        existingID,
	}
	m := manifest.Write(existing, manifest.UserInput{ModName: "Elf Fixes"}, gen)
	assert.Equal(t, "Auto-generated compatibility patch for Elf Fixes", m.Description)
	assert.Equal(t, "Elf_Fixes", m.Folder)

	existing.Description = "Custom"
	m = manifest.Write(existing, manifest.UserInput{ModName: "Elf Fixes"}, gen)
	assert.Equal(t, "Custom", m.Description)
}

func TestUserInput_Validate(t *testing.T) {
	assert.NoError(t, manifest.UserInput{}.Validate())
	assert.NoError(t, manifest.UserInput{Version: "1.2"}.Validate())
	assert.Error(t, manifest.UserInput{Version: "one"}.Validate())
}

func TestVersion64(t *testing.T) {
	n, err := manifest.Version64("1.0.0.0")
	require.NoError(t, err)
	assert.Equal(t, int64(36028797018963968), n)

	n, err = manifest.Version64("1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", manifest.FromVersion64(n).String())

	for _, bad := range []string{"", "1.2.3.4.5", "1.-2", "256.0.0.0", "x"} {
		_, err := manifest.Version64(bad)
		assert.Error(t, err, bad)
	}
}

func TestRenderAndLoad(t *testing.T) {
	m := manifest.Write(nil, manifest.UserInput{
		ModName: "ElfPatch",
		Version: "1.4.0.2",
		Sources: []manifest.Source{
			{Archive: "SunElf.pak", Kind: types.KindRace, Name: "Sun Elf", Folder: "SunElf", UUID: "5e000000-0000-4000-8000-0000000000ff", Version: "1.0.0.0"},
			{Archive: "Loose.zip", Kind: types.KindAppearance},
		},
	}, gen)

	data, err := manifest.Render(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<attribute id="Version64" type="int64" value="36591746972385282"/>`)

	fs := filesystem.NewMemory()
	testutil.NewModTree().File(manifest.DescriptorPath(m.Folder), string(data)).WriteTo(t, fs, "/out")

	loaded, err := manifest.Load(fs, "/out/Mods/ElfPatch/meta.lsx")
	require.NoError(t, err)
	assert.Equal(t, m.ModName, loaded.ModName)
	assert.Equal(t, m.Author, loaded.Author)
	assert.Equal(t, m.Description, loaded.Description)
	assert.Equal(t, m.Version, loaded.Version)
	assert.Equal(t, m.UUID, loaded.UUID)
	assert.Equal(t, m.Folder, loaded.Folder)
	assert.True(t, loaded.Exists)
	require.Len(t, loaded.Sources, 1, "sources without a module identifier are not dependencies")
	assert.Equal(t, "SunElf", loaded.Sources[0].Folder)

	assert.False(t, loaded.RegenerateUUID)
	assert.NotContains(t, string(data), "RegenerateUUID")

	found, err := manifest.Find(fs, "/out")
	require.NoError(t, err)
	assert.Equal(t, loaded, found)
}

func TestRenderAndLoad_RegenerateSettingSurvives(t *testing.T) {
	first := manifest.Write(nil, manifest.UserInput{ModName: "ElfPatch", RegenerateUUID: boolPtr(true)}, gen)
	require.True(t, first.RegenerateUUID)

	data, err := manifest.Render(first)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<attribute id="RegenerateUUID" type="bool" value="true"/>`)

	loaded, err := manifest.Parse(data)
	require.NoError(t, err)
	assert.True(t, loaded.RegenerateUUID)

	// a later run with no opinion keeps the stored setting
	next := manifest.Write(loaded, manifest.UserInput{}, gen)
	assert.True(t, next.RegenerateUUID)
}

func TestLoad_Failures(t *testing.T) {
	fs := filesystem.NewMemory()
	testutil.NewModTree().
		File("Mods/Bad/meta.lsx", "<save><<").
		File("Mods/Empty/meta.lsx", "<save><region id=\"Config\"/></save>").
		WriteTo(t, fs, "/out")

	for _, p := range []string{"/out/Mods/Missing/meta.lsx", "/out/Mods/Bad/meta.lsx", "/out/Mods/Empty/meta.lsx"} {
		_, err := manifest.Load(fs, p)
		require.Error(t, err, p)
		assert.True(t, compaterrors.IsErrorCode(err, compaterrors.ErrManifest), p)
	}
}

func TestRender_InvalidVersion(t *testing.T) {
	_, err := manifest.Render(manifest.PatchManifest{ModName: "x", Version: "bad", UUID: freshID})
	require.Error(t, err)
	assert.True(t, compaterrors.IsErrorCode(err, compaterrors.ErrManifest))
}

func TestSourceFrom(t *testing.T) {
	fs := filesystem.NewMemory()
	testutil.NewModTree().
		File("Mods/SunElf/meta.lsx", testutil.MetaLSX("SunElf", "Sun Elf", "5e000000-0000-4000-8000-0000000000ff")).
		WriteTo(t, fs, "/ws/race/SunElf")
	a := types.NewModArchive("/ws/race/SunElf.pak", types.KindRace)
	a.ExtractedRoot = "/ws/race/SunElf"

	s := manifest.SourceFrom(fs, a)
	assert.Equal(t, "SunElf.pak", s.Archive)
	assert.Equal(t, "Sun Elf", s.Name)
	assert.Equal(t, types.Identifier("5e000000-0000-4000-8000-0000000000ff"), s.UUID)
}
