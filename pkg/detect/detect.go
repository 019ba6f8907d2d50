// Package detect finds which vanilla races an extracted mod tree targets.
//
// Every structured content file (.lsx, .xml, .lsj, .json) is parsed and its
// attribute values, text and JSON strings are scanned for vanilla race
// identifiers. Opaque files are ignored. Results are cached per extracted
// root until Invalidate is called.
package detect

import (
	"context"
	"sync"
	"time"

	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/filesystem"
	"github.com/arthur-debert/bg3compat/pkg/logging"
	"github.com/arthur-debert/bg3compat/pkg/lsx"
	"github.com/arthur-debert/bg3compat/pkg/races"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/rs/zerolog"
)

// Result is the detection outcome for one extracted root
type Result struct {
	Root string
	// Candidates are the vanilla races referenced, ordered by English name
	Candidates []types.Identifier
	// Warnings holds one DETECTION error per file that could not be parsed
	Warnings []error
	CachedAt time.Time
}

// HasCandidates reports whether any vanilla race was found
func (r Result) HasCandidates() bool {
	return len(r.Candidates) > 0
}

// Detector scans extracted trees for vanilla race references
type Detector struct {
	fs     types.FS
	logger zerolog.Logger

	mu    sync.Mutex
	cache map[string]Result
	now   func() time.Time
}

// New creates a detector reading through fsys
func New(fsys types.FS) *Detector {
	return &Detector{
		fs:     fsys,
		logger: logging.GetLogger("detect"),
		cache:  make(map[string]Result),
		now:    time.Now,
	}
}

// Detect returns the vanilla races referenced under root
func (d *Detector) Detect(ctx context.Context, root string) ([]types.Identifier, error) {
	res, err := d.Scan(ctx, root)
	if err != nil {
		return nil, err
	}
	return res.Candidates, nil
}

// Scan is Detect returning the full cached Result
func (d *Detector) Scan(ctx context.Context, root string) (Result, error) {
	d.mu.Lock()
	if res, ok := d.cache[root]; ok {
		d.mu.Unlock()
		return res, nil
	}
	d.mu.Unlock()

	res, err := d.scan(ctx, root)
	if err != nil {
		return Result{}, err
	}

	d.mu.Lock()
	d.cache[root] = res
	d.mu.Unlock()
	return res, nil
}

// Invalidate drops the cached result for root
func (d *Detector) Invalidate(root string) {
	d.mu.Lock()
	delete(d.cache, root)
	d.mu.Unlock()
}

func (d *Detector) scan(ctx context.Context, root string) (Result, error) {
	logger := d.logger.With().Str("root", root).Logger()
	done := logging.LogOperationStart(logger, "detect")
	defer done()

	files, err := filesystem.WalkFiles(d.fs, root)
	if err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrDetection, "cannot walk %s", root)
	}

	res := Result{Root: root}
	found := types.IdentifierSet{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if !lsx.IsStructured(f.RelPath) {
			continue
		}
		ids, err := d.scanFile(f)
		if err != nil {
			warning := errors.Wrapf(err, errors.ErrDetection, "cannot scan %s", f.RelPath).
				WithDetail("root", root)
			logger.Warn().Err(err).Str("file", f.RelPath).Msg("Skipping unreadable content file")
			res.Warnings = append(res.Warnings, warning)
			continue
		}
		for _, id := range ids {
			if races.IsVanilla(id.String()) {
				found.Add(id)
			}
		}
	}

	res.Candidates = found.Sorted()
	races.SortByName(res.Candidates)
	res.CachedAt = d.now()

	logger.Info().Int("candidates", len(res.Candidates)).Int("files", len(files)).Msg("Detection finished")
	return res, nil
}

func (d *Detector) scanFile(f filesystem.File) ([]types.Identifier, error) {
	data, err := d.fs.ReadFile(f.AbsPath)
	if err != nil {
		return nil, err
	}
	scan, err := lsx.ScanContent(f.RelPath, data)
	if err != nil {
		return nil, err
	}
	return scan.Referenced, nil
}
