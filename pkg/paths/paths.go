package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/types"
)

// Environment variable names
const (
	// EnvWorkspaceRoot overrides the workspace root
	EnvWorkspaceRoot = "BG3COMPAT_WORKSPACE"

	// EnvConfigDir overrides the XDG config directory
	EnvConfigDir = "BG3COMPAT_CONFIG_DIR"
)

// Directory and file names.
// These define the on-disk workspace layout and are not user-configurable.
const (
	// AppDirName is the directory name used under the XDG roots
	AppDirName = "bg3compat"

	// RaceDirName holds race archives (the original tool called it Sourcemod)
	RaceDirName = "race"

	// AppearanceDirName holds appearance archives (originally Panagway)
	AppearanceDirName = "appearance"

	// OutputDirName holds generated patches
	OutputDirName = "output"

	// ConfigFileName is the user configuration file
	ConfigFileName = "config.toml"

	// stagingPrefix marks in-progress directories that must never be listed
	stagingPrefix = ".staging-"
)

// Paths provides centralized path management for the workspace
type Paths struct {
	root      string
	configDir string
}

// New creates a Paths rooted at root.
// An empty root is resolved from BG3COMPAT_WORKSPACE, then the XDG data dir.
func New(root string) (*Paths, error) {
	if root == "" {
		root = os.Getenv(EnvWorkspaceRoot)
	}
	if root == "" {
		root = filepath.Join(xdg.DataHome, AppDirName)
	}

	absRoot, err := filepath.Abs(expandHome(root))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for workspace root")
	}

	configDir := os.Getenv(EnvConfigDir)
	if configDir == "" {
		configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	return &Paths{root: absRoot, configDir: expandHome(configDir)}, nil
}

// Root returns the workspace root
func (p *Paths) Root() string {
	return p.root
}

// ConfigDir returns the configuration directory
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// ConfigFile returns the user configuration file path
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// WorkspaceDir returns the directory that holds archives of the given kind
func (p *Paths) WorkspaceDir(kind types.ArchiveKind) string {
	switch kind {
	case types.KindRace:
		return filepath.Join(p.root, RaceDirName)
	case types.KindAppearance:
		return filepath.Join(p.root, AppearanceDirName)
	default:
		return filepath.Join(p.root, string(kind))
	}
}

// ArchivePath returns where an imported archive file is kept
func (p *Paths) ArchivePath(kind types.ArchiveKind, fileName string) string {
	return filepath.Join(p.WorkspaceDir(kind), filepath.Base(fileName))
}

// ExtractDir returns the extracted tree directory for an archive stem
func (p *Paths) ExtractDir(kind types.ArchiveKind, stem string) string {
	return filepath.Join(p.WorkspaceDir(kind), stem)
}

// OutputDir returns the directory that holds generated patches
func (p *Paths) OutputDir() string {
	return filepath.Join(p.root, OutputDirName)
}

// PatchDir returns the loose-file output directory of a patch
func (p *Paths) PatchDir(modName string) string {
	return filepath.Join(p.OutputDir(), modName)
}

// PackagePath returns the packed output file of a patch
func (p *Paths) PackagePath(modName, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(p.OutputDir(), modName+ext)
}

// StagingDir returns a sibling of target used while building it
func StagingDir(target, token string) string {
	return filepath.Join(filepath.Dir(target), stagingPrefix+filepath.Base(target)+"-"+token)
}

// IsStagingName reports whether a directory entry is an in-progress build
func IsStagingName(name string) bool {
	return strings.HasPrefix(name, stagingPrefix)
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
