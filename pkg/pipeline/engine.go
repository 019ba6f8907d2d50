package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/arthur-debert/bg3compat/pkg/archive"
	"github.com/arthur-debert/bg3compat/pkg/assemble"
	"github.com/arthur-debert/bg3compat/pkg/assign"
	"github.com/arthur-debert/bg3compat/pkg/detect"
	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/filesystem"
	"github.com/arthur-debert/bg3compat/pkg/logging"
	"github.com/arthur-debert/bg3compat/pkg/manifest"
	"github.com/arthur-debert/bg3compat/pkg/merge"
	"github.com/arthur-debert/bg3compat/pkg/paths"
	"github.com/arthur-debert/bg3compat/pkg/races"
	"github.com/arthur-debert/bg3compat/pkg/remap"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/arthur-debert/bg3compat/pkg/workspace"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config wires an Engine
type Config struct {
	Paths *paths.Paths
	// FS defaults to the OS filesystem; codecs always write to disk
	FS       types.FS
	Registry *archive.Registry
	Assemble assemble.Options
	// NewID draws manifest identifiers; defaults to types.NewIdentifier
	NewID func() types.Identifier
}

// Engine owns the workspace and admits one operation at a time
type Engine struct {
	busy atomic.Bool

	paths     *paths.Paths
	fs        types.FS
	registry  *archive.Registry
	workspace *workspace.Workspace
	extractor *archive.Extractor
	detector  *detect.Detector
	assembler *assemble.Assembler
	newID     func() types.Identifier
	logger    zerolog.Logger
}

// NewEngine creates an idle engine
func NewEngine(cfg Config) *Engine {
	if cfg.FS == nil {
		cfg.FS = filesystem.NewOS()
	}
	if cfg.Registry == nil {
		cfg.Registry = archive.DefaultRegistry(nil)
	}
	if cfg.NewID == nil {
		cfg.NewID = types.NewIdentifier
	}
	return &Engine{
		paths:     cfg.Paths,
		fs:        cfg.FS,
		registry:  cfg.Registry,
		workspace: workspace.New(cfg.Paths, cfg.FS),
		extractor: archive.NewExtractor(cfg.Registry, cfg.Paths, cfg.FS),
		detector:  detect.New(cfg.FS),
		assembler: assemble.New(cfg.Paths, cfg.FS, cfg.Assemble),
		newID:     cfg.NewID,
		logger:    logging.GetLogger("pipeline"),
	}
}

// Workspace returns the engine's workspace for read-only queries
func (e *Engine) Workspace() *workspace.Workspace {
	return e.workspace
}

// Busy reports whether a run, import or deletion is in progress
func (e *Engine) Busy() bool {
	return e.busy.Load()
}

func (e *Engine) acquire(op string) error {
	if !e.busy.CompareAndSwap(false, true) {
		e.logger.Warn().Str("operation", op).Msg("Task running, request rejected")
		return errors.Newf(errors.ErrBusy, "cannot %s while another task is running", op).
			WithDetail("operation", op)
	}
	return nil
}

func (e *Engine) release() {
	e.busy.Store(false)
}

// Candidates returns the vanilla races an extracted appearance archive
// references. Unextracted archives have none yet.
func (e *Engine) Candidates(ctx context.Context, a types.ModArchive) (detect.Result, error) {
	if !a.IsExtracted() {
		return detect.Result{}, nil
	}
	return e.detector.Scan(ctx, a.ExtractedRoot)
}

// Import copies archives into the workspace of kind and extracts them in
// the background. The engine stays busy until the returned task finishes.
func (e *Engine) Import(ctx context.Context, kind types.ArchiveKind, srcs []string) (*archive.Task, error) {
	if len(srcs) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no archives to import")
	}
	for _, src := range srcs {
		if _, err := e.registry.For(src); err != nil {
			return nil, err
		}
	}
	if err := e.acquire("import"); err != nil {
		return nil, err
	}

	archives := make([]types.ModArchive, 0, len(srcs))
	for _, src := range srcs {
		a, err := e.workspace.Import(kind, src)
		if err != nil {
			e.release()
			return nil, err
		}
		e.detector.Invalidate(e.paths.ExtractDir(kind, a.Stem()))
		archives = append(archives, a)
	}

	task := e.extractor.ExtractBatch(context.WithoutCancel(ctx), archives, func(archive.BatchResult) {
		e.release()
	})
	e.logger.Info().Str("task", task.ID).Str("kind", kind.String()).Int("archives", len(archives)).Msg("Import started")
	return task, nil
}

// Remove deletes one archive and its extracted tree
func (e *Engine) Remove(kind types.ArchiveKind, stem string) error {
	if err := e.acquire("remove"); err != nil {
		return err
	}
	defer e.release()

	a, err := e.workspace.Remove(kind, stem)
	if err != nil {
		return err
	}
	e.detector.Invalidate(e.paths.ExtractDir(kind, a.Stem()))
	return nil
}

// Clear deletes every archive of kind and returns how many were removed
func (e *Engine) Clear(kind types.ArchiveKind) (int, error) {
	if err := e.acquire("clear"); err != nil {
		return 0, err
	}
	defer e.release()

	removed, err := e.workspace.Clear(kind)
	if err != nil {
		return 0, err
	}
	for _, a := range removed {
		e.detector.Invalidate(e.paths.ExtractDir(kind, a.Stem()))
	}
	return len(removed), nil
}

// Start begins a generation run. It fails with BUSY when another task holds
// the engine. The run ignores cancellation of ctx once started.
func (e *Engine) Start(ctx context.Context, req Request) (*Run, error) {
	if err := req.Manifest.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid manifest input")
	}
	if err := e.acquire("generate"); err != nil {
		return nil, err
	}

	run := newRun(uuid.New().String()[:8])
	ctx = context.WithoutCancel(ctx)
	go func() {
		out := e.execute(ctx, run, req)
		e.release()
		run.finish(out)
	}()
	return run, nil
}

func (e *Engine) execute(ctx context.Context, run *Run, req Request) (out Outcome) {
	logger := e.logger.With().Str("run", run.ID).Logger()
	done := logging.LogOperationStart(logger, "generate")
	defer done()

	out.Detection = make(map[string][]types.Identifier)
	fail := func(err error) Outcome {
		logger.Error().Err(err).Str("state", run.state.String()).Msg("Run failed")
		out.State = Failed
		out.Err = err
		run.enter(Failed)
		return out
	}
	defer func() {
		if r := recover(); r != nil {
			out = fail(errors.Newf(errors.ErrInternal, "run panicked: %v", r))
		}
	}()

	run.enter(Extracting)
	raceArchives, err := e.extractAll(ctx, req.RaceArchives)
	if err != nil {
		return fail(err)
	}
	appearances, err := e.extractAll(ctx, req.AppearanceArchives)
	if err != nil {
		return fail(err)
	}

	run.enter(Detecting)
	resolver := assign.NewResolver()
	for _, a := range appearances {
		res, err := e.detector.Scan(ctx, a.ExtractedRoot)
		if err != nil {
			logger.Warn().Err(err).Str("archive", a.Name()).Msg("Detection failed, treating archive as passthrough")
		}
		out.Detection[a.Stem()] = res.Candidates
		resolver.Register(a, res.Candidates)
	}

	run.enter(AwaitingAssignment)
	if err := applyAssignments(resolver, req.Assignments); err != nil {
		return fail(err)
	}
	if err := resolver.Validate(); err != nil {
		return fail(err)
	}
	assignments := resolver.Assignments()
	passthrough := resolver.Passthrough()
	for _, a := range passthrough {
		out.Passthrough = append(out.Passthrough, a.Stem())
	}

	run.enter(Merging)
	in := req.Manifest
	for _, a := range raceArchives {
		in.Sources = append(in.Sources, manifest.SourceFrom(e.fs, a))
	}
	for _, a := range appearances {
		in.Sources = append(in.Sources, manifest.SourceFrom(e.fs, a))
	}
	m := manifest.Write(e.existingManifest(req), in, e.newID)
	out.Manifest = &m

	roots := make([]string, 0, len(assignments))
	for _, a := range assignments {
		roots = append(roots, a.Archive.ExtractedRoot)
	}
	referenced, err := remap.Collect(e.fs, roots)
	if err != nil {
		return fail(err)
	}
	table, err := remap.BuildTable(referenced, req.RegenerateIDs)
	if err != nil {
		return fail(err)
	}
	out.Remapped = table.Len()

	merged, err := merge.New(e.fs, merge.Options{PatchFolder: m.Folder}).
		Merge(ctx, assignments, passthrough, raceArchives, table)
	if err != nil {
		return fail(err)
	}
	out.Conflicts = merged.Conflicts
	out.Skeletons = merged.Skeletons
	out.Overlaid = merged.Overlaid

	run.enter(WritingManifest)
	meta, err := manifest.Render(m)
	if err != nil {
		return fail(err)
	}
	merged.Tree.Put(manifest.DescriptorPath(m.Folder), merge.Node{
		Raw:    meta,
		Layer:  merge.LayerManifest,
		Origin: "manifest",
	})

	run.enter(Assembling)
	e.assembler.CleanStale()
	output, err := e.assembler.Assemble(ctx, merged.Tree, m.Folder)
	if err != nil {
		return fail(err)
	}
	out.Output = output

	run.enter(Done)
	out.State = Done
	logger.Info().
		Str("patch", m.ModName).
		Int("conflicts", len(out.Conflicts)).
		Int("remapped", out.Remapped).
		Msg("Run finished")
	return out
}

// extractAll extracts archives in order; the first failure aborts the run
func (e *Engine) extractAll(ctx context.Context, archives []types.ModArchive) ([]types.ModArchive, error) {
	out := make([]types.ModArchive, 0, len(archives))
	for _, a := range archives {
		if !a.IsExtracted() {
			root, err := e.extractor.Extract(ctx, a)
			if err != nil {
				return nil, err
			}
			a.ExtractedRoot = root
		}
		out = append(out, a)
	}
	return out, nil
}

// existingManifest loads the manifest of the output being updated. A missing
// or unreadable one means the patch is new.
func (e *Engine) existingManifest(req Request) *manifest.PatchManifest {
	target := req.Target
	if target == "" {
		target = manifest.FolderFor(req.Manifest.ModName)
	}
	dir := e.paths.PatchDir(target)
	if !filesystem.Exists(e.fs, dir) {
		return nil
	}
	m, err := manifest.Load(e.fs, filepath.Join(dir, filepath.FromSlash(manifest.DescriptorPath(target))))
	if err != nil {
		e.logger.Warn().Err(err).Str("dir", dir).Msg("Existing patch has no readable manifest, starting fresh")
		return nil
	}
	e.logger.Debug().Str("patch", m.ModName).Str("uuid", m.UUID.String()).Msg("Updating existing patch")
	return m
}

// applyAssignments resolves race names in a deterministic order
func applyAssignments(r *assign.Resolver, assignments map[string]string) error {
	stems := make([]string, 0, len(assignments))
	for stem := range assignments {
		stems = append(stems, stem)
	}
	sort.Strings(stems)

	for _, stem := range stems {
		race := assignments[stem]
		if e, ok := races.Resolve(race); ok {
			race = e.ID.String()
		}
		if err := r.Assign(stem, race); err != nil {
			return err
		}
	}
	return nil
}

// String implements fmt.Stringer
func (e *Engine) String() string {
	return fmt.Sprintf("engine(%s, busy=%t)", e.paths.Root(), e.Busy())
}
