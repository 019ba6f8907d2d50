package archive

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/filesystem"
	"github.com/arthur-debert/bg3compat/pkg/logging"
	"github.com/arthur-debert/bg3compat/pkg/paths"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Extractor turns imported archives into directory trees in the workspace
type Extractor struct {
	registry *Registry
	paths    *paths.Paths
	fs       types.FS
	logger   zerolog.Logger
}

// NewExtractor creates an extractor writing below p's workspace dirs.
// Codecs always write to the real filesystem, so fsys must be OS-backed
// whenever a codec does real work.
func NewExtractor(registry *Registry, p *paths.Paths, fsys types.FS) *Extractor {
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	return &Extractor{
		registry: registry,
		paths:    p,
		fs:       fsys,
		logger:   logging.GetLogger("archive.extractor"),
	}
}

// Extract unpacks archive into <workspace-for-kind>/<stem>/ and returns that
// directory. An existing directory is reused without touching the archive.
func (e *Extractor) Extract(ctx context.Context, archive types.ModArchive) (string, error) {
	dest := e.paths.ExtractDir(archive.Kind, archive.Stem())
	logger := e.logger.With().Str("archive", archive.Name()).Str("dest", dest).Logger()

	if info, err := e.fs.Stat(dest); err == nil {
		if !info.IsDir() {
			return "", errors.Newf(errors.ErrExtraction, "%s exists and is not a directory", dest).
				WithDetail("archive", archive.Path)
		}
		logger.Debug().Msg("Already extracted, reusing tree")
		return dest, nil
	}

	if _, err := e.fs.Stat(archive.Path); err != nil {
		return "", errors.Wrapf(err, errors.ErrExtraction, "cannot read archive %s", archive.Name()).
			WithDetail("archive", archive.Path)
	}
	codec, err := e.registry.For(archive.Path)
	if err != nil {
		return "", err
	}

	staging := paths.StagingDir(dest, uuid.New().String()[:8])
	if err := e.fs.MkdirAll(staging, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrExtraction, "cannot create %s", filepath.Dir(dest)).
			WithDetail("archive", archive.Path)
	}

	done := logging.LogOperationStart(logger, "extract")
	if err := codec.Extract(ctx, archive.Path, staging); err != nil {
		e.discard(staging)
		return "", errors.Wrapf(err, errors.ErrExtraction, "cannot extract %s", archive.Name()).
			WithDetail("archive", archive.Path)
	}
	if err := e.fs.Rename(staging, dest); err != nil {
		e.discard(staging)
		return "", errors.Wrapf(err, errors.ErrExtraction, "cannot move extracted tree into place for %s", archive.Name()).
			WithDetail("archive", archive.Path)
	}
	done()

	logger.Info().Msg("Archive extracted")
	return dest, nil
}

func (e *Extractor) discard(dir string) {
	if err := e.fs.RemoveAll(dir); err != nil {
		e.logger.Warn().Err(err).Str("dir", dir).Msg("Failed to remove partial extraction")
	}
}

// ExtractBatch extracts archives in order on a background goroutine.
// hooks run on that goroutine after the last archive, before the result is
// delivered.
func (e *Extractor) ExtractBatch(ctx context.Context, archives []types.ModArchive, hooks ...func(BatchResult)) *Task {
	task := newTask(len(archives))
	e.logger.Debug().Str("task", task.ID).Int("archives", len(archives)).Msg("Batch extraction started")

	go func() {
		var result BatchResult
		for i, a := range archives {
			root, err := e.Extract(ctx, a)
			if err != nil {
				e.logger.Error().Err(err).Str("archive", a.Name()).Msg("Extraction failed")
				result.Failed = append(result.Failed, Failure{Archive: a, Err: err})
			} else {
				a.ExtractedRoot = root
				result.Extracted = append(result.Extracted, a)
			}
			task.progress <- Progress{Done: i + 1, Total: len(archives), Archive: a, Err: err}
		}
		close(task.progress)

		for _, hook := range hooks {
			hook(result)
		}
		e.logger.Debug().Str("task", task.ID).
			Int("extracted", len(result.Extracted)).
			Int("failed", len(result.Failed)).
			Msg("Batch extraction finished")
		task.result <- result
		close(task.result)
	}()

	return task
}
