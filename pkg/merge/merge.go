// Package merge builds the in-memory tree of a compatibility patch.
//
// Race archives form the base layer and are copied verbatim. Appearance
// archives without candidates are copied verbatim too. Each assigned
// appearance archive is rewritten through the identifier table, its target
// vanilla race is swapped for the race archive race that extends it, and
// its module folder is moved onto that race archive's folder. LSX files that
// land on a race layer file, or on a file written for another race, are
// overlaid node by node. Other same-race collisions are last-write-wins and
// reported as a Conflict; differing non-LSX files written for different
// races fail the merge.
package merge

import (
	"bytes"
	"context"

	"github.com/arthur-debert/bg3compat/pkg/assign"
	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/filesystem"
	"github.com/arthur-debert/bg3compat/pkg/logging"
	"github.com/arthur-debert/bg3compat/pkg/lsx"
	"github.com/arthur-debert/bg3compat/pkg/manifest"
	"github.com/arthur-debert/bg3compat/pkg/remap"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/rs/zerolog"
)

// Conflict records a file overwritten by a later input
type Conflict struct {
	Path         string
	TargetRaceID types.Identifier
	Previous     string
	Winner       string
	Diff         string
	// CrossRace is set when the two writers targeted different races
	CrossRace bool
}

// Result is the outcome of a merge
type Result struct {
	Tree      *Tree
	Conflicts []Conflict
	// Skeletons maps vanilla race ids to the race archive race standing in for them
	Skeletons map[types.Identifier]Skeleton
	// Overlaid counts appearance LSX files merged into race layer documents
	Overlaid int
}

// Options configures a Merger
type Options struct {
	// PatchFolder receives appearance content whose target race has no skeleton
	PatchFolder string
}

// Merger builds patch trees from extracted archives
type Merger struct {
	fs     types.FS
	opts   Options
	logger zerolog.Logger
}

// New creates a merger reading extracted trees through fsys
func New(fsys types.FS, opts Options) *Merger {
	return &Merger{
		fs:     fsys,
		opts:   opts,
		logger: logging.GetLogger("merge"),
	}
}

type loaded struct {
	archive types.ModArchive
	folder  string
	rels    []string
	files   map[string][]byte
}

// Merge builds the patch tree. Inputs are not modified.
func (m *Merger) Merge(ctx context.Context, assignments []assign.Assignment, passthrough, raceArchives []types.ModArchive, table *remap.Table) (*Result, error) {
	done := logging.LogOperationStart(m.logger, "merge")
	defer done()

	res := &Result{
		Tree:      NewTree(),
		Skeletons: make(map[types.Identifier]Skeleton),
	}

	for _, ra := range raceArchives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in, err := m.load(ra)
		if err != nil {
			return nil, err
		}
		for _, perr := range indexSkeletons(ra, in.folder, in.files, in.rels, res.Skeletons) {
			m.logger.Warn().Err(perr).Str("archive", ra.Name()).Msg("Unreadable race declarations")
		}
		for _, rel := range in.rels {
			if err := m.put(res, rel, Node{Raw: in.files[rel], Layer: LayerRace, Origin: ra.Stem()}); err != nil {
				return nil, err
			}
		}
	}

	for _, pa := range passthrough {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in, err := m.load(pa)
		if err != nil {
			return nil, err
		}
		for _, rel := range in.rels {
			if err := m.put(res, rel, Node{Raw: in.files[rel], Layer: LayerPassthrough, Origin: pa.Stem()}); err != nil {
				return nil, err
			}
		}
	}

	var mapping map[types.Identifier]types.Identifier
	if table != nil {
		mapping = table.Mapping()
	}

	for _, a := range assignments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := m.mergeAssignment(res, a, mapping); err != nil {
			return nil, err
		}
	}

	for _, c := range res.Conflicts {
		m.logger.Warn().
			Str("path", c.Path).
			Str("previous", c.Previous).
			Str("winner", c.Winner).
			Bool("crossRace", c.CrossRace).
			Msg("Conflicting file overwritten")
	}
	m.logger.Info().
		Int("files", res.Tree.Len()).
		Int("conflicts", len(res.Conflicts)).
		Int("skeletons", len(res.Skeletons)).
		Msg("Merge finished")
	return res, nil
}

func (m *Merger) mergeAssignment(res *Result, a assign.Assignment, base map[types.Identifier]types.Identifier) error {
	in, err := m.load(a.Archive)
	if err != nil {
		return err
	}

	mapping := make(map[types.Identifier]types.Identifier, len(base)+1)
	for k, v := range base {
		mapping[k] = v
	}
	targetFolder := m.opts.PatchFolder
	if sk, ok := res.Skeletons[a.TargetRaceID]; ok {
		mapping[a.TargetRaceID] = sk.RaceID
		targetFolder = sk.Folder
		m.logger.Debug().
			Str("archive", a.Archive.Name()).
			Str("skeleton", sk.RaceName).
			Str("folder", sk.Folder).
			Msg("Retargeting onto race archive")
	}

	for _, rel := range in.rels {
		if manifest.IsDescriptorPath(rel) {
			continue
		}
		// identifiers are fixed-width, so opaque assets are rewritten in place too
		content, _ := remap.Rewrite(in.files[rel], mapping)
		dest := Retarget(rel, in.folder, targetFolder)
		if err := m.put(res, dest, Node{Raw: content, Layer: LayerAppearance, Origin: a.Archive.Stem(), Target: a.TargetRaceID}); err != nil {
			return err
		}
	}
	return nil
}

// put stores n, overlaying or recording a conflict against what is there.
// Appearance content keeps the file it landed on as its base, so a later
// writer of the same path is overlaid onto that file again. Writers aiming
// at different races never replace each other: LSX documents are overlaid
// and any other differing file is a MERGE_CONFLICT.
func (m *Merger) put(res *Result, rel string, n Node) error {
	prev, ok := res.Tree.Get(rel)
	if !ok {
		res.Tree.Put(rel, n)
		return nil
	}

	prevBytes, _ := prev.Bytes()
	isLSX := lsx.FormatOf(rel) == lsx.FormatLSX
	crossRace := prev.Layer == LayerAppearance && n.Layer == LayerAppearance && prev.Target != n.Target
	if crossRace && !isLSX {
		if bytes.Equal(prevBytes, n.Raw) {
			return nil
		}
		return m.crossRaceError(rel, prev, n)
	}

	if prev.Layer != LayerRace || n.Layer != LayerAppearance {
		res.Conflicts = append(res.Conflicts, Conflict{
			Path:         rel,
			TargetRaceID: n.Target,
			Previous:     prev.Origin,
			Winner:       n.Origin,
			Diff:         UnifiedDiff(rel, prev.Origin, n.Origin, prevBytes, n.Raw),
			CrossRace:    prev.Target != n.Target,
		})
	}

	if n.Layer == LayerAppearance {
		base := prev.raceBase()
		if crossRace {
			kept := prev
			base = &kept
		}
		if base != nil {
			n.base = base
			if isLSX {
				doc, ok := m.overlay(rel, base, n)
				switch {
				case ok:
					n.Doc = doc
					res.Overlaid++
				case crossRace:
					return m.crossRaceError(rel, prev, n)
				}
			} else {
				m.logger.Debug().Str("path", rel).Str("archive", n.Origin).Msg("Replacing race file")
			}
		}
	}
	res.Tree.Put(rel, n)
	return nil
}

func (m *Merger) crossRaceError(rel string, prev, n Node) error {
	return errors.Newf(errors.ErrMergeConflict, "%s is written by %s and %s for different races", rel, prev.Origin, n.Origin).
		WithDetail("path", rel).
		WithDetail("previous", prev.Origin).
		WithDetail("winner", n.Origin)
}

func (m *Merger) overlay(rel string, base *Node, n Node) (*lsx.Document, bool) {
	raw, err := base.Bytes()
	if err != nil {
		m.logger.Warn().Err(err).Str("path", rel).Msg("Cannot serialize base document, replacing it")
		return nil, false
	}
	baseDoc, err := lsx.Parse(raw)
	if err != nil {
		m.logger.Warn().Err(err).Str("path", rel).Msg("Base file is not valid LSX, replacing it")
		return nil, false
	}
	top, err := lsx.Parse(n.Raw)
	if err != nil {
		m.logger.Warn().Err(err).Str("path", rel).Msg("Appearance file is not valid LSX, replacing race file")
		return nil, false
	}
	merged, stats := lsx.Overlay(baseDoc, top)
	m.logger.Debug().Str("path", rel).Int("replaced", stats.Replaced).Int("added", stats.Added).Msg("Overlaid LSX")
	return merged, true
}

func (m *Merger) load(a types.ModArchive) (*loaded, error) {
	if !a.IsExtracted() {
		return nil, errors.Newf(errors.ErrInvalidInput, "archive %s has not been extracted", a.Name()).
			WithDetail("archive", a.Path)
	}
	files, err := filesystem.WalkFiles(m.fs, a.ExtractedRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read extracted tree of %s", a.Name())
	}
	in := &loaded{archive: a, files: make(map[string][]byte, len(files))}
	for _, f := range files {
		data, err := m.fs.ReadFile(f.AbsPath)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s from %s", f.RelPath, a.Name())
		}
		in.rels = append(in.rels, f.RelPath)
		in.files[f.RelPath] = data
	}
	in.folder = ModuleFolder(in.rels)
	return in, nil
}
