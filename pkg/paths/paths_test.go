// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Environment variables only
// PURPOSE: Test workspace root resolution and workspace layout

package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/bg3compat/pkg/paths"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ExplicitRoot(t *testing.T) {
	root := t.TempDir()
	p, err := paths.New(root)
	require.NoError(t, err)

	assert.Equal(t, root, p.Root())
	assert.Equal(t, filepath.Join(root, "race"), p.WorkspaceDir(types.KindRace))
	assert.Equal(t, filepath.Join(root, "appearance"), p.WorkspaceDir(types.KindAppearance))
	assert.Equal(t, filepath.Join(root, "output"), p.OutputDir())
}

func TestNew_EnvironmentOverrides(t *testing.T) {
	root := t.TempDir()
	cfg := t.TempDir()
	t.Setenv(paths.EnvWorkspaceRoot, root)
	t.Setenv(paths.EnvConfigDir, cfg)

	p, err := paths.New("")
	require.NoError(t, err)

	assert.Equal(t, root, p.Root())
	assert.Equal(t, filepath.Join(cfg, "config.toml"), p.ConfigFile())
}

func TestLayout(t *testing.T) {
	p, err := paths.New(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"archive file", p.ArchivePath(types.KindRace, "/downloads/Elves.pak"), filepath.Join(p.Root(), "race", "Elves.pak")},
		{"extract dir", p.ExtractDir(types.KindAppearance, "Looks"), filepath.Join(p.Root(), "appearance", "Looks")},
		{"patch dir", p.PatchDir("Compat"), filepath.Join(p.Root(), "output", "Compat")},
		{"package with dot", p.PackagePath("Compat", ".pak"), filepath.Join(p.Root(), "output", "Compat.pak")},
		{"package without dot", p.PackagePath("Compat", "zip"), filepath.Join(p.Root(), "output", "Compat.zip")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestStagingDir(t *testing.T) {
	dir := paths.StagingDir("/w/output/Compat", "abc")
	assert.Equal(t, "/w/output/.staging-Compat-abc", dir)
	assert.True(t, paths.IsStagingName(filepath.Base(dir)))
	assert.False(t, paths.IsStagingName("Compat"))
}
