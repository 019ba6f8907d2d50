// Package assemble commits a merged patch tree to the output location.
//
// Files are staged into a sibling directory first. The staged tree is
// optionally packed, and only then swapped into place with renames, so a
// failure at any point leaves the previous output untouched.
package assemble

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/bg3compat/pkg/archive"
	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/logging"
	"github.com/arthur-debert/bg3compat/pkg/merge"
	"github.com/arthur-debert/bg3compat/pkg/paths"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Output describes a committed patch
type Output struct {
	Dir     string
	Package string
	Files   int
}

// Options configures an Assembler
type Options struct {
	// Codec packs the patch; nil writes loose files only
	Codec archive.Codec
	// PackageExt is the extension of the packed file, ".pak" or ".zip"
	PackageExt string
	// Stager defaults to a SynthfsStager
	Stager Stager
}

// Assembler writes patch trees below the workspace output dir
type Assembler struct {
	paths  *paths.Paths
	fs     types.FS
	opts   Options
	logger zerolog.Logger
}

// New creates an assembler; fsys must be the filesystem the stager writes to
func New(p *paths.Paths, fsys types.FS, opts Options) *Assembler {
	if opts.Stager == nil {
		opts.Stager = NewSynthfsStager()
	}
	if opts.PackageExt == "" {
		opts.PackageExt = ".pak"
	}
	return &Assembler{
		paths:  p,
		fs:     fsys,
		opts:   opts,
		logger: logging.GetLogger("assemble"),
	}
}

// Assemble writes tree as output/<name>, replacing any previous output of
// that name atomically
func (a *Assembler) Assemble(ctx context.Context, tree *merge.Tree, name string) (*Output, error) {
	done := logging.LogOperationStart(a.logger, "assemble")
	defer done()

	files, err := tree.Files()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrAssembly, "failed to serialize patch tree")
	}

	target := a.paths.PatchDir(name)
	token := uuid.New().String()[:8]
	staging := paths.StagingDir(target, token)

	if err := a.fs.MkdirAll(a.paths.OutputDir(), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrAssembly, "output location %s is not writable", a.paths.OutputDir())
	}
	if err := a.opts.Stager.Stage(ctx, staging, files); err != nil {
		a.discard(staging)
		return nil, errors.Wrapf(err, errors.ErrAssembly, "failed to stage %s", name)
	}

	out := &Output{Dir: target, Files: len(files)}

	var stagedPackage string
	if a.opts.Codec != nil {
		pkg := a.paths.PackagePath(name, a.opts.PackageExt)
		stagedPackage = paths.StagingDir(pkg, token)
		if err := a.opts.Codec.Assemble(ctx, staging, stagedPackage); err != nil {
			a.discard(staging)
			a.discard(stagedPackage)
			return nil, errors.Wrapf(err, errors.ErrAssembly, "failed to pack %s", name)
		}
		out.Package = pkg
	}

	moves := []*move{{staged: staging, target: target}}
	if stagedPackage != "" {
		moves = append(moves, &move{staged: stagedPackage, target: out.Package})
	}
	if err := a.commit(moves, token); err != nil {
		return nil, err
	}

	a.logger.Info().Str("dir", out.Dir).Str("package", out.Package).Int("files", out.Files).Msg("Patch assembled")
	return out, nil
}

// move is one staged path waiting to replace its target
type move struct {
	staged string
	target string
	backup string
	placed bool
}

// commit swaps every staged path into place. Previous outputs are moved
// aside first and only discarded once every rename succeeded; any failure
// restores all of them.
func (a *Assembler) commit(moves []*move, token string) error {
	for _, mv := range moves {
		if _, err := a.fs.Stat(mv.target); err != nil {
			continue
		}
		backup := paths.StagingDir(mv.target, "old-"+token)
		if err := a.fs.Rename(mv.target, backup); err != nil {
			a.rollback(moves)
			return errors.Wrapf(err, errors.ErrAssembly, "failed to move previous output %s aside", filepath.Base(mv.target))
		}
		mv.backup = backup
	}
	for _, mv := range moves {
		if err := a.fs.Rename(mv.staged, mv.target); err != nil {
			a.rollback(moves)
			return errors.Wrapf(err, errors.ErrAssembly, "failed to move %s into place", filepath.Base(mv.target))
		}
		mv.placed = true
	}
	for _, mv := range moves {
		a.discard(mv.backup)
	}
	return nil
}

// rollback undoes a partial commit and drops what was staged
func (a *Assembler) rollback(moves []*move) {
	for _, mv := range moves {
		if mv.placed {
			a.discard(mv.target)
		}
		if mv.backup != "" {
			if err := a.fs.Rename(mv.backup, mv.target); err != nil {
				a.logger.Error().Err(err).Str("backup", mv.backup).Msg("Failed to restore previous output")
			}
		}
		a.discard(mv.staged)
	}
}

// CleanStale removes staging leftovers from interrupted runs
func (a *Assembler) CleanStale() {
	entries, err := a.fs.ReadDir(a.paths.OutputDir())
	if err != nil {
		return
	}
	for _, e := range entries {
		if paths.IsStagingName(e.Name()) {
			a.discard(filepath.Join(a.paths.OutputDir(), e.Name()))
		}
	}
}

func (a *Assembler) discard(path string) {
	if path == "" {
		return
	}
	if err := a.fs.RemoveAll(path); err != nil {
		a.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove staging leftovers")
	}
}
