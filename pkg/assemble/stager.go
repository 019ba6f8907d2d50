package assemble

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/logging"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"
)

// Stager writes a set of files (slash paths relative to dir) below dir
type Stager interface {
	Stage(ctx context.Context, dir string, files map[string][]byte) error
}

// SynthfsStager writes through a synthfs pipeline on the real filesystem
type SynthfsStager struct {
	logger zerolog.Logger
}

// NewSynthfsStager creates the default stager
func NewSynthfsStager() *SynthfsStager {
	return &SynthfsStager{logger: logging.GetLogger("assemble.synthfs")}
}

// Stage creates dir and every file below it in one pipeline run
func (s *SynthfsStager) Stage(ctx context.Context, dir string, files map[string][]byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create staging directory %s", dir)
	}

	pipeline := synthfs.NewMemPipeline()
	for _, rel := range parentDirs(files) {
		op := operations.NewCreateDirectoryOperation(core.OperationID("create-dir-"+rel), rel)
		op.SetItem(&directoryItem{path: rel, mode: 0755})
		if err := pipeline.Add(synthfs.NewOperationsPackageAdapter(op)); err != nil {
			return errors.Wrapf(err, errors.ErrAssembly, "failed to add directory %s to pipeline", rel)
		}
	}
	for _, rel := range sortedPaths(files) {
		op := operations.NewCreateFileOperation(core.OperationID("write-file-"+rel), rel)
		op.SetItem(&fileItem{path: rel, content: files[rel], mode: 0644})
		if err := pipeline.Add(synthfs.NewOperationsPackageAdapter(op)); err != nil {
			return errors.Wrapf(err, errors.ErrAssembly, "failed to add file %s to pipeline", rel)
		}
	}

	s.logger.Debug().Str("dir", dir).Int("files", len(files)).Msg("Executing staging pipeline")
	result := synthfs.NewExecutor().Run(ctx, pipeline, filesystem.NewOSFileSystem(dir))
	if result.GetError() != nil {
		s.logger.Error().Err(result.GetError()).Msg("Staging pipeline failed")
		return errors.Wrapf(result.GetError(), errors.ErrAssembly, "failed to stage files into %s", dir)
	}
	return nil
}

// FSStager writes through a types.FS
type FSStager struct {
	FS types.FS
}

// Stage writes every file below dir
func (s FSStager) Stage(ctx context.Context, dir string, files map[string][]byte) error {
	if err := s.FS.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create staging directory %s", dir)
	}
	for _, rel := range sortedPaths(files) {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(rel))
		if err := s.FS.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(target))
		}
		if err := s.FS.WriteFile(target, files[rel], 0644); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", rel)
		}
	}
	return nil
}

func sortedPaths(files map[string][]byte) []string {
	out := make([]string, 0, len(files))
	for p := range files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// parentDirs returns every directory the files need, parents first
func parentDirs(files map[string][]byte) []string {
	seen := make(map[string]bool)
	var out []string
	for p := range files {
		for dir := path.Dir(p); dir != "." && dir != "/" && !seen[dir]; dir = path.Dir(dir) {
			seen[dir] = true
			out = append(out, dir)
		}
	}
	sort.Strings(out)
	return out
}

// fileItem implements the interface needed for file operations
type fileItem struct {
	path    string
	content []byte
	mode    fs.FileMode
}

func (f *fileItem) Path() string       { return f.path }
func (f *fileItem) Type() string       { return "file" }
func (f *fileItem) Content() []byte    { return f.content }
func (f *fileItem) Mode() fs.FileMode  { return f.mode }
func (f *fileItem) IsDir() bool        { return false }
func (f *fileItem) ModTime() time.Time { return time.Now() }
func (f *fileItem) Size() int64        { return int64(len(f.content)) }

// directoryItem implements the interface needed for directory operations
type directoryItem struct {
	path string
	mode fs.FileMode
}

func (d *directoryItem) Path() string       { return d.path }
func (d *directoryItem) Type() string       { return "directory" }
func (d *directoryItem) Mode() fs.FileMode  { return d.mode }
func (d *directoryItem) IsDir() bool        { return true }
func (d *directoryItem) ModTime() time.Time { return time.Now() }
func (d *directoryItem) Size() int64        { return 0 }
