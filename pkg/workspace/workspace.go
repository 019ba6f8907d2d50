// Package workspace manages the on-disk archive workspaces: one directory
// per archive kind holding imported archive files next to their extracted
// trees, plus the output directory for generated patches.
package workspace

import (
	"path/filepath"
	"sort"

	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/logging"
	"github.com/arthur-debert/bg3compat/pkg/paths"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/rs/zerolog"
)

// Workspace reads and changes the workspace directories
type Workspace struct {
	paths  *paths.Paths
	fs     types.FS
	logger zerolog.Logger
}

// New creates a workspace over p
func New(p *paths.Paths, fsys types.FS) *Workspace {
	return &Workspace{
		paths:  p,
		fs:     fsys,
		logger: logging.GetLogger("workspace"),
	}
}

// Paths returns the workspace layout
func (w *Workspace) Paths() *paths.Paths {
	return w.paths
}

// Import copies the archive at src into the workspace for kind.
// Re-importing a name replaces the file but keeps its extracted tree, which
// the extractor then reuses instead of extracting again.
func (w *Workspace) Import(kind types.ArchiveKind, src string) (types.ModArchive, error) {
	dest := w.paths.ArchivePath(kind, src)
	a := types.NewModArchive(dest, kind)

	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return a, errors.Wrapf(err, errors.ErrFileAccess, "invalid path %s", src)
	}
	if srcAbs == dest {
		return a, nil
	}

	data, err := w.fs.ReadFile(src)
	if err != nil {
		return a, errors.Wrapf(err, errors.ErrFileNotFound, "cannot read %s", src).
			WithDetail("path", src)
	}
	if err := w.fs.MkdirAll(w.paths.WorkspaceDir(kind), 0755); err != nil {
		return a, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s workspace", kind)
	}
	if err := w.fs.WriteFile(dest, data, 0644); err != nil {
		return a, errors.Wrapf(err, errors.ErrFileWrite, "cannot copy %s into the workspace", a.Name())
	}
	if extracted := w.paths.ExtractDir(kind, a.Stem()); fileExists(w.fs, extracted) {
		w.logger.Info().Str("archive", a.Name()).Msg("Re-import, reusing previous extraction")
		a.ExtractedRoot = extracted
	}

	w.logger.Debug().Str("src", src).Str("dest", dest).Msg("Archive imported")
	return a, nil
}

// List returns the archives of kind ordered by name. Extracted directories
// without an archive file next to them are listed too, as already extracted.
func (w *Workspace) List(kind types.ArchiveKind) ([]types.ModArchive, error) {
	dir := w.paths.WorkspaceDir(kind)
	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		if _, statErr := w.fs.Stat(dir); statErr != nil {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s workspace", kind)
	}

	dirs := make(map[string]bool)
	byStem := make(map[string]types.ModArchive)
	for _, e := range entries {
		name := e.Name()
		if paths.IsStagingName(name) || name[0] == '.' {
			continue
		}
		if e.IsDir() {
			dirs[name] = true
			continue
		}
		a := types.NewModArchive(filepath.Join(dir, name), kind)
		if prev, ok := byStem[a.Stem()]; ok {
			w.logger.Warn().Str("kept", prev.Name()).Str("ignored", name).Msg("Two archives share a name")
			continue
		}
		byStem[a.Stem()] = a
	}
	for stem := range dirs {
		a, ok := byStem[stem]
		if !ok {
			a = types.NewModArchive(filepath.Join(dir, stem), kind)
		}
		a.ExtractedRoot = filepath.Join(dir, stem)
		byStem[stem] = a
	}

	out := make([]types.ModArchive, 0, len(byStem))
	for _, a := range byStem {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stem() < out[j].Stem() })
	return out, nil
}

// Find returns the archive of kind with the given stem
func (w *Workspace) Find(kind types.ArchiveKind, stem string) (types.ModArchive, error) {
	all, err := w.List(kind)
	if err != nil {
		return types.ModArchive{}, err
	}
	for _, a := range all {
		if a.Stem() == stem {
			return a, nil
		}
	}
	return types.ModArchive{}, errors.Newf(errors.ErrNotFound, "no %s archive named %s", kind, stem).
		WithDetail("kind", kind.String()).
		WithDetail("archive", stem)
}

// Remove deletes an archive file and its extracted tree.
// It returns the extracted root that was removed, if any.
func (w *Workspace) Remove(kind types.ArchiveKind, stem string) (types.ModArchive, error) {
	a, err := w.Find(kind, stem)
	if err != nil {
		return a, err
	}
	if a.Path != a.ExtractedRoot {
		if err := w.fs.Remove(a.Path); err != nil && fileExists(w.fs, a.Path) {
			return a, errors.Wrapf(err, errors.ErrFileAccess, "cannot delete %s", a.Name())
		}
	}
	if a.IsExtracted() {
		if err := w.fs.RemoveAll(a.ExtractedRoot); err != nil {
			return a, errors.Wrapf(err, errors.ErrFileAccess, "cannot delete extracted tree of %s", a.Name())
		}
	}
	w.logger.Info().Str("kind", kind.String()).Str("archive", stem).Msg("Archive removed")
	return a, nil
}

// Clear deletes every archive of kind and returns what was removed
func (w *Workspace) Clear(kind types.ArchiveKind) ([]types.ModArchive, error) {
	all, err := w.List(kind)
	if err != nil {
		return nil, err
	}
	if err := w.fs.RemoveAll(w.paths.WorkspaceDir(kind)); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot clear %s workspace", kind)
	}
	if err := w.fs.MkdirAll(w.paths.WorkspaceDir(kind), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot recreate %s workspace", kind)
	}
	w.logger.Info().Str("kind", kind.String()).Int("archives", len(all)).Msg("Workspace cleared")
	return all, nil
}

// Patches returns the names of generated patch directories
func (w *Workspace) Patches() ([]string, error) {
	entries, err := w.fs.ReadDir(w.paths.OutputDir())
	if err != nil {
		return nil, nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !paths.IsStagingName(e.Name()) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func fileExists(fsys types.FS, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}
