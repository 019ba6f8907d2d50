// cmd/bg3compat/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (t.TempDir), zip archives, cobra command tree
// PURPOSE: Test the command line end to end: importing, listing, removing,
// clearing, generating patches and the config command

package bg3compat

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/manifest"
	"github.com/arthur-debert/bg3compat/pkg/paths"
	"github.com/arthur-debert/bg3compat/pkg/races"
	"github.com/arthur-debert/bg3compat/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sunElfID = "5e000000-0000-4000-8000-000000000001"

type cliEnv struct {
	root      string
	workspace string
	src       string
	configDir string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	root := t.TempDir()
	env := &cliEnv{
		root:      root,
		workspace: filepath.Join(root, "ws"),
		src:       filepath.Join(root, "src"),
		configDir: filepath.Join(root, "config"),
	}
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv(paths.EnvConfigDir, env.configDir)
	t.Setenv(paths.EnvWorkspaceRoot, "")
	t.Setenv("LANG", "en_US.UTF-8")
	t.Setenv("NO_COLOR", "1")
	return env
}

// run executes the root command with the workspace flag prepended
func (e *cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--workspace", e.workspace, "--color", "never"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliEnv) zip(t *testing.T, stem string, tree *testutil.ModTree) string {
	t.Helper()
	return tree.WriteZip(t, filepath.Join(e.src, stem+".zip"))
}

func sunElfRace() *testutil.ModTree {
	return testutil.NewModTree().
		File("Mods/SunElf/meta.lsx", testutil.MetaLSX("SunElf", "Sun Elf", "5e000000-0000-4000-8000-0000000000ff")).
		File("Public/SunElf/Races/Races.lsx", testutil.RacesLSX(testutil.RaceNode{
			UUID: sunElfID, Name: "SunElf", ParentGUID: testutil.ElfID,
		}))
}

func elfLooks() *testutil.ModTree {
	return testutil.NewModTree().
		File("Mods/ElfLooks/meta.lsx", testutil.MetaLSX("ElfLooks", "Elf Looks", "e1000000-0000-4000-8000-0000000000ff")).
		File("Public/ElfLooks/CharacterCreation/Visuals.lsx", testutil.VisualsLSX(
			testutil.Visual{UUID: "a1000000-0000-4000-8000-000000000001", RaceUUID: testutil.ElfID},
		))
}

func plainTextures() *testutil.ModTree {
	return testutil.NewModTree().
		File("Public/Textures/readme.txt", "just textures")
}

func TestImportAndList(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "import", "race", env.zip(t, "SunElf", sunElfRace()))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 race archive(s)")

	_, _, err = env.run(t, "import", "appearance",
		env.zip(t, "ElfLooks", elfLooks()), env.zip(t, "Textures", plainTextures()))
	require.NoError(t, err)

	out, _, err = env.run(t, "list", "appearance")
	require.NoError(t, err)
	assert.Contains(t, out, "extracted\tElfLooks\tElf")
	assert.Contains(t, out, "passthrough\tTextures\t(no race selection needed)")

	out, _, err = env.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SunElf")
	assert.Contains(t, out, MsgNoPatches)
}

func TestImportUnknownContainer(t *testing.T) {
	env := newCLIEnv(t)
	bogus := testutil.CreateFile(t, env.src, "notes.rar", "x")

	_, _, err := env.run(t, "import", "appearance", bogus)
	require.Error(t, err)
}

func TestUnknownKind(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "list", "shoes")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRemoveAndClear(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run(t, "import", "appearance",
		env.zip(t, "ElfLooks", elfLooks()), env.zip(t, "Textures", plainTextures()))
	require.NoError(t, err)

	out, _, err := env.run(t, "remove", "appearance", "ElfLooks.zip")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed appearance archive ElfLooks")

	_, _, err = env.run(t, "remove", "appearance", "ElfLooks")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	_, _, err = env.run(t, "clear", "appearance")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	out, _, err = env.run(t, "clear", "appearance", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 appearance archive(s)")

	out, _, err = env.run(t, "list", "appearance")
	require.NoError(t, err)
	assert.Contains(t, out, "No appearance archives imported")
}

func TestRaces(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "races")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, races.Count)
	assert.Contains(t, out, testutil.ElfID+"\tElf")
}

func TestGenerate(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run(t, "import", "race", env.zip(t, "SunElf", sunElfRace()))
	require.NoError(t, err)
	_, _, err = env.run(t, "import", "appearance", env.zip(t, "ElfLooks", elfLooks()))
	require.NoError(t, err)

	t.Run("missing assignment prints candidates", func(t *testing.T) {
		_, stderr, err := env.run(t, "generate", "--name", "MyPatch")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrAssignment))
		assert.Contains(t, stderr, "--assign ElfLooks=<race>  candidates: Elf")
	})

	t.Run("bad assign flag", func(t *testing.T) {
		_, _, err := env.run(t, "generate", "--assign", "ElfLooks")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("writes the patch", func(t *testing.T) {
		planPath := filepath.Join(env.root, "plan.toml")
		out, _, err := env.run(t, "generate",
			"--assign", "ElfLooks=Elf",
			"--name", "MyPatch",
			"--author", "Tester",
			"--save-plan", planPath)
		require.NoError(t, err)
		assert.Contains(t, out, "Patch written: MyPatch")

		p, err := paths.New(env.workspace)
		require.NoError(t, err)
		meta := filepath.Join(p.PatchDir("MyPatch"), filepath.FromSlash(manifest.DescriptorPath("MyPatch")))
		require.True(t, testutil.FileExists(t, meta))
		content := testutil.ReadFile(t, meta)
		assert.Contains(t, content, "Tester")

		saved := testutil.ReadFile(t, planPath)
		assert.Contains(t, saved, "ElfLooks")
		assert.Contains(t, saved, "MyPatch")

		// The saved plan repeats the run
		out, _, err = env.run(t, "generate", "--plan", planPath)
		require.NoError(t, err)
		assert.Contains(t, out, "Patch written: MyPatch")

		out, _, err = env.run(t, "list")
		require.NoError(t, err)
		assert.Contains(t, out, MsgPatchesHeader)
		assert.Contains(t, out, "MyPatch")
	})

	t.Run("rejects invalid version", func(t *testing.T) {
		_, _, err := env.run(t, "generate", "--assign", "ElfLooks=Elf", "--version", "one")
		require.Error(t, err)
	})
}

func TestConfigCommand(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[codec]")
	assert.Contains(t, out, env.workspace)

	out, _, err = env.run(t, "config", "--write")
	require.NoError(t, err)
	written := filepath.Join(env.configDir, "config.toml")
	assert.Contains(t, out, written)
	_, statErr := os.Stat(written)
	require.NoError(t, statErr)

	_, _, err = env.run(t, "config", "--write")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
}

func TestVersionCommand(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bg3compat version")
}

func TestCompletionCommand(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "bg3compat")
}
