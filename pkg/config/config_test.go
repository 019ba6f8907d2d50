// pkg/config/config_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (t.TempDir), environment
// PURPOSE: Test configuration layering, validation and generated config files

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	compaterrors "github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{DefaultPath: filepath.Join(t.TempDir(), "missing.toml")})
	require.NoError(t, err)

	assert.Equal(t, "divine", cfg.Codec.DivinePath)
	assert.Equal(t, "bg3", cfg.Codec.Game)
	assert.Equal(t, PackageNone, cfg.Codec.Package)
	assert.True(t, cfg.Generate.RegenerateIDs)
	assert.False(t, cfg.Generate.RegenerateUUID)
	assert.Equal(t, ColorAuto, cfg.UI.Color)
	assert.Empty(t, cfg.PackageExt())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[codec]
package = ".ZIP"

[manifest]
author = "Me"
`)
	cfg, err := Load(Options{DefaultPath: path})
	require.NoError(t, err)

	assert.Equal(t, PackageZip, cfg.Codec.Package)
	assert.Equal(t, ".zip", cfg.PackageExt())
	assert.Equal(t, "Me", cfg.Manifest.Author)
	assert.Equal(t, "divine", cfg.Codec.DivinePath, "unset keys keep their defaults")
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	_, err := Load(Options{Path: filepath.Join(t.TempDir(), "nope.toml")})
	require.Error(t, err)
	assert.True(t, compaterrors.IsErrorCode(err, compaterrors.ErrConfigLoad))
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "[codec\npackage = ")
	_, err := Load(Options{Path: path})
	require.Error(t, err)
	assert.True(t, compaterrors.IsErrorCode(err, compaterrors.ErrConfigParse))
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "[codec]\npackage = \"zip\"\n")
	t.Setenv("BG3COMPAT_CODEC_PACKAGE", "pak")
	t.Setenv("BG3COMPAT_GENERATE_REGENERATE_IDS", "false")
	t.Setenv("BG3COMPAT_CODEC_DIVINE_PATH", "  /opt/lslib/divine  ")
	t.Setenv("BG3COMPAT_WORKSPACE", "/elsewhere")

	cfg, err := Load(Options{Path: path})
	require.NoError(t, err)

	assert.Equal(t, PackagePak, cfg.Codec.Package)
	assert.False(t, cfg.Generate.RegenerateIDs)
	assert.Equal(t, "/opt/lslib/divine", cfg.Codec.DivinePath)
	assert.Empty(t, cfg.Workspace.Root, "the bare workspace variable belongs to the path layer")
}

func TestLoad_OverridesWin(t *testing.T) {
	t.Setenv("BG3COMPAT_UI_LANGUAGE", "zh")
	cfg, err := Load(Options{Overrides: map[string]interface{}{
		"ui.language":    "en",
		"workspace.root": "/data/mods",
	}})
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.UI.Language)
	assert.Equal(t, "/data/mods", cfg.Workspace.Root)
}

func TestLoad_RejectsUnknownEnumValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		key     string
	}{
		{"package", "[codec]\npackage = \"rar\"\n", "codec.package"},
		{"color", "[ui]\ncolor = \"sometimes\"\n", "ui.color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Options{Path: writeConfig(t, tt.content)})
			require.Error(t, err)
			assert.True(t, compaterrors.IsErrorCode(err, compaterrors.ErrConfigParse))
			assert.Equal(t, tt.key, compaterrors.GetErrorDetails(err)["key"])
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"BG3COMPAT_CODEC_DIVINE_PATH":       "codec.divine_path",
		"BG3COMPAT_GENERATE_REGENERATE_IDS": "generate.regenerate_ids",
		"BG3COMPAT_UI_COLOR":                "ui.color",
		"BG3COMPAT_WORKSPACE":               "",
		"BG3COMPAT_CONFIG_DIR":              "",
		"BG3COMPAT_CODEC_":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()

	assert.Contains(t, content, "[codec]")
	assert.Contains(t, content, `# package = "none"`)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Errorf("uncommented value line: %q", line)
	}
}

func TestWriteUserConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg3compat", "config.toml")

	require.NoError(t, WriteUserConfig(path))
	cfg, err := Load(Options{Path: path})
	require.NoError(t, err)
	assert.Equal(t, PackageNone, cfg.Codec.Package, "a generated file changes nothing")

	err = WriteUserConfig(path)
	assert.True(t, compaterrors.IsErrorCode(err, compaterrors.ErrAlreadyExists))
}

func TestDump(t *testing.T) {
	out, err := Dump(Options{Overrides: map[string]interface{}{"manifest.author": "Me"}})
	require.NoError(t, err)
	assert.Contains(t, out, "divine_path")
	assert.Contains(t, out, "Me")
}
