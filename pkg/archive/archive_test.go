// pkg/archive/archive_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (t.TempDir)
// PURPOSE: Test extraction into the workspace, batch progress and zip codec

package archive_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/bg3compat/pkg/archive"
	compaterrors "github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/filesystem"
	"github.com/arthur-debert/bg3compat/pkg/paths"
	"github.com/arthur-debert/bg3compat/pkg/testutil"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, registry *archive.Registry) (*archive.Extractor, *paths.Paths, string) {
	t.Helper()
	root := t.TempDir()
	p, err := paths.New(filepath.Join(root, "workspace"))
	require.NoError(t, err)
	return archive.NewExtractor(registry, p, filesystem.NewOS()), p, root
}

func elfHair() *testutil.ModTree {
	return testutil.NewModTree().
		File("Mods/ElfHair/meta.lsx", testutil.MetaLSX("ElfHair", "Elf Hair", "aaaaaaaa-0000-4000-8000-000000000001")).
		File("Public/ElfHair/Content/Visuals.lsx", testutil.VisualsLSX(testutil.Visual{
			UUID:     "aaaaaaaa-0000-4000-8000-000000000002",
			RaceUUID: testutil.ElfID,
		}))
}

func TestExtract_Zip(t *testing.T) {
	ex, p, root := setup(t, archive.DefaultRegistry(nil))
	zipPath := elfHair().WriteZip(t, filepath.Join(root, "in", "ElfHair.zip"))
	a := types.NewModArchive(zipPath, types.KindAppearance)

	dest, err := ex.Extract(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, p.ExtractDir(types.KindAppearance, "ElfHair"), dest)
	assert.True(t, testutil.FileExists(t, filepath.Join(dest, "Public", "ElfHair", "Content", "Visuals.lsx")))
	assert.Equal(t, []string{"ElfHair"}, testutil.ListDir(t, p.WorkspaceDir(types.KindAppearance)))

	t.Run("idempotent per stem", func(t *testing.T) {
		require.NoError(t, os.Remove(zipPath))
		again, err := ex.Extract(context.Background(), a)
		require.NoError(t, err)
		assert.Equal(t, dest, again)
	})
}

func TestExtract_UnknownContainer(t *testing.T) {
	ex, p, root := setup(t, archive.DefaultRegistry(nil))
	path := testutil.CreateFile(t, root, "in/notes.rar", "whatever")

	_, err := ex.Extract(context.Background(), types.NewModArchive(path, types.KindRace))
	require.Error(t, err)
	assert.True(t, compaterrors.IsErrorCode(err, compaterrors.ErrExtraction))
	assert.False(t, testutil.DirExists(t, p.ExtractDir(types.KindRace, "notes")))
}

func TestExtract_MissingArchive(t *testing.T) {
	ex, _, root := setup(t, archive.DefaultRegistry(nil))

	_, err := ex.Extract(context.Background(), types.NewModArchive(filepath.Join(root, "gone.zip"), types.KindRace))
	require.Error(t, err)
	assert.True(t, compaterrors.IsErrorCode(err, compaterrors.ErrExtraction))
}

func TestExtract_CorruptZip(t *testing.T) {
	ex, p, root := setup(t, archive.DefaultRegistry(nil))
	path := testutil.CreateFile(t, root, "in/Broken.zip", "this is not a zip")

	_, err := ex.Extract(context.Background(), types.NewModArchive(path, types.KindRace))
	require.Error(t, err)
	assert.True(t, compaterrors.IsErrorCode(err, compaterrors.ErrExtraction))
	assert.False(t, testutil.DirExists(t, p.ExtractDir(types.KindRace, "Broken")))
}

func TestExtract_FailureLeavesNoPartialTree(t *testing.T) {
	codec := &testutil.MockCodec{}
	codec.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.String(2)
			_ = os.WriteFile(filepath.Join(dest, "half.lsx"), []byte("<save>"), 0644)
		}).
		Return(errors.New("divine crashed"))

	registry := archive.NewRegistry()
	registry.Register("pak", codec)
	ex, p, root := setup(t, registry)
	path := testutil.CreateFile(t, root, "in/SunElf.pak", "LSPK")

	_, err := ex.Extract(context.Background(), types.NewModArchive(path, types.KindRace))
	require.Error(t, err)
	assert.True(t, compaterrors.IsErrorCode(err, compaterrors.ErrExtraction))
	assert.Contains(t, err.Error(), "divine crashed")
	assert.Empty(t, testutil.ListDir(t, p.WorkspaceDir(types.KindRace)), "staging dir must be removed")
	codec.AssertExpectations(t)
}

func TestExtractBatch_ProgressInOrder(t *testing.T) {
	ex, _, root := setup(t, archive.DefaultRegistry(nil))
	first := elfHair().WriteZip(t, filepath.Join(root, "in", "A.zip"))
	broken := testutil.CreateFile(t, root, "in/B.zip", "junk")
	last := elfHair().WriteZip(t, filepath.Join(root, "in", "C.zip"))

	archives := []types.ModArchive{
		types.NewModArchive(first, types.KindAppearance),
		types.NewModArchive(broken, types.KindAppearance),
		types.NewModArchive(last, types.KindAppearance),
	}

	var hooked archive.BatchResult
	task := ex.ExtractBatch(context.Background(), archives, func(r archive.BatchResult) { hooked = r })

	var seen []archive.Progress
	for p := range task.Progress() {
		seen = append(seen, p)
	}
	result := <-task.Result()

	require.Len(t, seen, 3)
	for i, p := range seen {
		assert.Equal(t, i+1, p.Done)
		assert.Equal(t, 3, p.Total)
		assert.Equal(t, archives[i].Path, p.Archive.Path)
	}
	assert.NoError(t, seen[0].Err)
	assert.Error(t, seen[1].Err)

	require.Len(t, result.Extracted, 2)
	assert.True(t, result.Extracted[0].IsExtracted())
	assert.Equal(t, "C", result.Extracted[1].Stem())
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "B.zip", result.Failed[0].Archive.Name())
	assert.True(t, compaterrors.IsErrorCode(result.Err(), compaterrors.ErrExtraction))
	assert.Equal(t, result, hooked)
}

func TestTask_Wait(t *testing.T) {
	ex, _, root := setup(t, archive.DefaultRegistry(nil))
	path := elfHair().WriteZip(t, filepath.Join(root, "in", "A.zip"))

	result := ex.ExtractBatch(context.Background(), []types.ModArchive{
		types.NewModArchive(path, types.KindRace),
	}).Wait()
	assert.NoError(t, result.Err())
	assert.Len(t, result.Extracted, 1)
}
