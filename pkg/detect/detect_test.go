// pkg/detect/detect_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory filesystem
// PURPOSE: Test vanilla race detection, ordering, tolerance and caching

package detect_test

import (
	"context"
	"strings"
	"testing"

	"github.com/arthur-debert/bg3compat/pkg/detect"
	compaterrors "github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/filesystem"
	"github.com/arthur-debert/bg3compat/pkg/testutil"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/ws/appearance/Looks"

func TestDetect_OrderedByEnglishName(t *testing.T) {
	fs := filesystem.NewMemory()
	testutil.NewModTree().
		File("Public/Looks/Visuals.lsx", testutil.VisualsLSX(
			testutil.Visual{UUID: "aaaaaaaa-0000-4000-8000-000000000001", RaceUUID: testutil.TieflingID},
			testutil.Visual{UUID: "aaaaaaaa-0000-4000-8000-000000000002", RaceUUID: strings.ToUpper(testutil.ElfID)},
		)).
		File("Public/Looks/Presets.lsj", `{"save":{"Race":{"type":"guid","value":"`+testutil.DwarfID+`"}}}`).
		File("Public/Looks/Textures/skin.dds", testutil.HumanID).
		WriteTo(t, fs, root)

	d := detect.New(fs)
	got, err := d.Detect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []types.Identifier{testutil.DwarfID, testutil.ElfID, testutil.TieflingID}, got,
		"ordered Dwarf, Elf, Tiefling; the .dds file is not scanned")
}

func TestDetect_NoReferences(t *testing.T) {
	fs := filesystem.NewMemory()
	testutil.NewModTree().
		File("Public/Looks/Visuals.lsx", testutil.VisualsLSX(testutil.Visual{
			UUID:     "aaaaaaaa-0000-4000-8000-000000000001",
			RaceUUID: "bbbbbbbb-0000-4000-8000-000000000001",
		})).
		WriteTo(t, fs, root)

	res, err := detect.New(fs).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, res.Candidates)
	assert.False(t, res.HasCandidates())
}

func TestDetect_MalformedFileIsNotFatal(t *testing.T) {
	fs := filesystem.NewMemory()
	testutil.NewModTree().
		File("Public/Looks/Broken.lsx", "<save><region").
		File("Public/Looks/Visuals.lsx", testutil.VisualsLSX(testutil.Visual{
			UUID: "aaaaaaaa-0000-4000-8000-000000000001", RaceUUID: testutil.HumanID,
		})).
		WriteTo(t, fs, root)

	res, err := detect.New(fs).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []types.Identifier{testutil.HumanID}, res.Candidates)
	require.Len(t, res.Warnings, 1)
	assert.True(t, compaterrors.IsErrorCode(res.Warnings[0], compaterrors.ErrDetection))
}

func TestDetect_CacheAndInvalidate(t *testing.T) {
	fs := filesystem.NewMemory()
	tree := testutil.NewModTree().
		File("Public/Looks/Visuals.lsx", testutil.VisualsLSX(testutil.Visual{
			UUID: "aaaaaaaa-0000-4000-8000-000000000001", RaceUUID: testutil.HumanID,
		}))
	tree.WriteTo(t, fs, root)

	d := detect.New(fs)
	first, err := d.Detect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []types.Identifier{testutil.HumanID}, first)

	// re-import with different content
	tree.File("Public/Looks/Visuals.lsx", testutil.VisualsLSX(testutil.Visual{
		UUID: "aaaaaaaa-0000-4000-8000-000000000001", RaceUUID: testutil.ElfID,
	})).WriteTo(t, fs, root)

	cached, err := d.Detect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, first, cached, "cached until invalidated")

	d.Invalidate(root)
	fresh, err := d.Detect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []types.Identifier{testutil.ElfID}, fresh)
}

func TestDetect_MissingRoot(t *testing.T) {
	got, err := detect.New(filesystem.NewMemory()).Detect(context.Background(), "/nowhere")
	require.NoError(t, err)
	assert.Empty(t, got)
}
