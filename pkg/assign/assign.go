// Package assign records which vanilla race each appearance archive's
// visuals should be applied to.
//
// An archive with detected candidates needs exactly one explicit
// assignment chosen from those candidates; an archive without candidates
// is passthrough and is copied into the patch unchanged.
package assign

import (
	"sort"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/races"
	"github.com/arthur-debert/bg3compat/pkg/types"
)

// Assignment binds an appearance archive to one vanilla race
type Assignment struct {
	Archive      types.ModArchive
	TargetRaceID types.Identifier
}

// ResolveDefault returns the first candidate, the value a caller should
// pre-select. It is never applied implicitly.
func ResolveDefault(candidates []types.Identifier) (types.Identifier, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[0], true
}

type entry struct {
	archive    types.ModArchive
	candidates []types.Identifier
	target     types.Identifier
}

// Resolver collects assignments for one run
type Resolver struct {
	entries []*entry
	byStem  map[string]*entry
}

// NewResolver returns an empty resolver
func NewResolver() *Resolver {
	return &Resolver{byStem: make(map[string]*entry)}
}

// Register adds an appearance archive with its detected candidates.
// Registering the same stem again replaces its candidates and clears any
// assignment.
func (r *Resolver) Register(archive types.ModArchive, candidates []types.Identifier) {
	cands := append([]types.Identifier(nil), candidates...)
	if e, ok := r.byStem[archive.Stem()]; ok {
		e.archive = archive
		e.candidates = cands
		e.target = ""
		return
	}
	e := &entry{archive: archive, candidates: cands}
	r.entries = append(r.entries, e)
	r.byStem[archive.Stem()] = e
}

// Candidates returns the registered candidates of an archive stem
func (r *Resolver) Candidates(stem string) ([]types.Identifier, bool) {
	e, ok := r.byStem[stem]
	if !ok {
		return nil, false
	}
	return append([]types.Identifier(nil), e.candidates...), true
}

// Assign selects raceID for the archive with the given stem.
// raceID must be one of the archive's candidates; re-assigning overwrites.
func (r *Resolver) Assign(stem string, raceID string) error {
	e, ok := r.byStem[stem]
	if !ok {
		return errors.Newf(errors.ErrAssignment, "archive %s is not registered", stem).
			WithDetail("archive", stem)
	}
	if len(e.candidates) == 0 {
		return errors.Newf(errors.ErrAssignment, "archive %s references no vanilla race and needs no selection", stem).
			WithDetail("archive", stem)
	}
	id, err := types.ParseIdentifier(raceID)
	if err != nil {
		return errors.Wrapf(err, errors.ErrAssignment, "invalid race identifier for %s", stem).
			WithDetail("archive", stem)
	}
	for _, c := range e.candidates {
		if c == id {
			e.target = id
			return nil
		}
	}
	return errors.Newf(errors.ErrAssignment, "race %s is not a candidate for %s", displayName(id), stem).
		WithDetail("archive", stem).
		WithDetail("race", id.String()).
		WithDetail("candidates", e.candidates)
}

// Validate fails naming every archive that has candidates but no assignment
func (r *Resolver) Validate() error {
	var missing []string
	for _, e := range r.entries {
		if len(e.candidates) > 0 && e.target.IsZero() {
			missing = append(missing, e.archive.Stem())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return errors.Newf(errors.ErrAssignment, "no race selected for: %s", strings.Join(missing, ", ")).
		WithDetail("archives", missing)
}

// Assignments returns the assignments made, in registration order
func (r *Resolver) Assignments() []Assignment {
	var out []Assignment
	for _, e := range r.entries {
		if !e.target.IsZero() {
			out = append(out, Assignment{Archive: e.archive, TargetRaceID: e.target})
		}
	}
	return out
}

// Passthrough returns archives with no candidates, in registration order
func (r *Resolver) Passthrough() []types.ModArchive {
	var out []types.ModArchive
	for _, e := range r.entries {
		if len(e.candidates) == 0 {
			out = append(out, e.archive)
		}
	}
	return out
}

func displayName(id types.Identifier) string {
	if e, ok := races.InfoFor(id.String()); ok {
		return e.NameEn
	}
	return id.String()
}
