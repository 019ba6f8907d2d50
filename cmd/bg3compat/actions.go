package bg3compat

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/config"
	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/filesystem"
	"github.com/arthur-debert/bg3compat/pkg/pipeline"
	"github.com/arthur-debert/bg3compat/pkg/plan"
	"github.com/arthur-debert/bg3compat/pkg/races"
	"github.com/arthur-debert/bg3compat/pkg/style"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/spf13/cobra"
)

// generateOptions holds the generate command's flags
type generateOptions struct {
	races          []string
	appearances    []string
	assign         []string
	planFile       string
	savePlan       string
	name           string
	author         string
	description    string
	version        string
	update         string
	regenerateUUID bool
	keepIDs        bool
	diff           bool
}

// busyError swaps the BUSY error for the localized warning
func (a *app) busyError(err error) error {
	if errors.IsErrorCode(err, errors.ErrBusy) {
		if msg := a.lang.Lookup("warning_task_running"); msg != "" {
			return errors.Wrap(err, errors.ErrBusy, msg)
		}
	}
	return err
}

func (a *app) importArchives(ctx context.Context, kind types.ArchiveKind, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	task, err := a.engine.Import(ctx, kind, files)
	if err != nil {
		return a.busyError(err)
	}
	result := a.followImport(task, len(files))
	_, _ = fmt.Fprintf(a.out, MsgImported, len(result.Extracted), kind)
	return result.Err()
}

func (a *app) list(ctx context.Context, kinds []types.ArchiveKind, withPatches bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ws := a.engine.Workspace()
	for i, kind := range kinds {
		archives, err := ws.List(kind)
		if err != nil {
			return err
		}
		lines := make([]style.ArchiveLine, 0, len(archives))
		for _, arc := range archives {
			lines = append(lines, a.archiveLine(ctx, arc))
		}
		if i > 0 {
			_, _ = fmt.Fprintln(a.out)
		}
		_, _ = fmt.Fprintln(a.out, a.renderer.RenderArchives(kind.String(), lines))
	}
	if !withPatches {
		return nil
	}

	patches, err := ws.Patches()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.out)
	if len(patches) == 0 {
		_, _ = fmt.Fprintln(a.out, MsgNoPatches)
		return nil
	}
	_, _ = fmt.Fprintln(a.out, MsgPatchesHeader)
	for _, p := range patches {
		_, _ = fmt.Fprintln(a.out, "  "+p)
	}
	return nil
}

// archiveLine describes one archive; appearance archives show the vanilla
// races they can be assigned to
func (a *app) archiveLine(ctx context.Context, arc types.ModArchive) style.ArchiveLine {
	line := style.ArchiveLine{Name: arc.Stem(), Status: style.StatusExtracted}
	if !arc.IsExtracted() {
		line.Status = style.StatusPending
		return line
	}
	if arc.Kind != types.KindAppearance {
		return line
	}
	result, err := a.engine.Candidates(ctx, arc)
	if err != nil {
		line.Status = style.StatusFailed
		line.Note = err.Error()
		return line
	}
	if !result.HasCandidates() {
		line.Status = style.StatusPassthrough
		line.Note = a.lang.Lookup("no_race_selection")
		return line
	}
	for _, o := range races.OptionsFor(result.Candidates, a.lang) {
		line.Candidates = append(line.Candidates, o.Display)
	}
	return line
}

func (a *app) races() error {
	_, _ = fmt.Fprintln(a.out, a.renderer.RenderRaces(races.DisplayOptions(a.lang)))
	return nil
}

// buildPlan merges the plan file, the flags and the configured defaults.
// Flags win over the plan file, which wins over the configuration.
func (a *app) buildPlan(cmd *cobra.Command, g *generateOptions) (*plan.Plan, error) {
	p := &plan.Plan{}
	if g.planFile != "" {
		loaded, err := plan.Load(filesystem.NewOS(), g.planFile)
		if err != nil {
			return nil, err
		}
		p = loaded
	}

	for _, raw := range g.assign {
		stem, race, ok := strings.Cut(raw, "=")
		stem, race = strings.TrimSpace(stem), strings.TrimSpace(race)
		if !ok || stem == "" || race == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrBadAssign, raw).WithDetail("assign", raw)
		}
		setAssignment(p, types.Stem(stem), race)
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		p.Manifest.ModName = g.name
	}
	if flags.Changed("author") {
		p.Manifest.Author = g.author
	}
	if flags.Changed("description") {
		p.Manifest.Description = g.description
	}
	if flags.Changed("version") {
		p.Manifest.Version = g.version
	}
	if flags.Changed("update") {
		p.Target = g.update
	}
	if flags.Changed("regenerate-uuid") {
		v := g.regenerateUUID
		p.Manifest.RegenerateUUID = &v
	}
	if flags.Changed("keep-ids") {
		v := !g.keepIDs
		p.RegenerateIDs = &v
	}

	if p.Manifest.Author == "" {
		p.Manifest.Author = a.cfg.Manifest.Author
	}
	if p.Manifest.Version == "" {
		p.Manifest.Version = a.cfg.Manifest.Version
	}
	if p.Manifest.RegenerateUUID == nil && a.cfg.Generate.RegenerateUUID {
		v := true
		p.Manifest.RegenerateUUID = &v
	}
	if p.RegenerateIDs == nil {
		v := a.cfg.Generate.RegenerateIDs
		p.RegenerateIDs = &v
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// setAssignment replaces the plan's assignment for stem or appends one
func setAssignment(p *plan.Plan, stem, race string) {
	for i := range p.Assign {
		if types.Stem(p.Assign[i].Archive) == stem {
			p.Assign[i].Race = race
			return
		}
	}
	p.Assign = append(p.Assign, plan.Assign{Archive: stem, Race: race})
}

// selectArchives returns the named archives of kind, or all of them
func (a *app) selectArchives(kind types.ArchiveKind, names []string) ([]types.ModArchive, error) {
	ws := a.engine.Workspace()
	if len(names) == 0 {
		return ws.List(kind)
	}
	out := make([]types.ModArchive, 0, len(names))
	for _, name := range names {
		arc, err := ws.Find(kind, types.Stem(name))
		if err != nil {
			return nil, err
		}
		out = append(out, arc)
	}
	return out, nil
}

func (a *app) generate(cmd *cobra.Command, g *generateOptions) error {
	p, err := a.buildPlan(cmd, g)
	if err != nil {
		return err
	}
	if g.savePlan != "" {
		if err := savePlan(g.savePlan, p); err != nil {
			return err
		}
	}

	raceArchives, err := a.selectArchives(types.KindRace, g.races)
	if err != nil {
		return err
	}
	appearanceArchives, err := a.selectArchives(types.KindAppearance, g.appearances)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	run, err := a.engine.Start(ctx, pipeline.Request{
		RaceArchives:       raceArchives,
		AppearanceArchives: appearanceArchives,
		Assignments:        p.Assignments(),
		Manifest:           p.Manifest,
		Target:             p.Target,
		RegenerateIDs:      p.RegenerateIDs != nil && *p.RegenerateIDs,
	})
	if err != nil {
		return a.busyError(err)
	}

	out := a.followRun(run)
	if !out.Succeeded() {
		a.printAssignmentHints(out)
		return out.Err
	}

	summary := summarize(out)
	_, _ = fmt.Fprintln(a.out, a.renderer.RenderSummary(summary, g.diff))
	if len(summary.Conflicts) > 0 {
		_, _ = fmt.Fprintln(a.errOut, a.lang.Sprintf("conflict_notice", len(summary.Conflicts)))
	}
	return nil
}

// printAssignmentHints lists the candidates of every appearance archive
// the run stopped on
func (a *app) printAssignmentHints(out pipeline.Outcome) {
	if !errors.IsErrorCode(out.Err, errors.ErrAssignment) {
		return
	}
	missing, _ := errors.GetErrorDetails(out.Err)["archives"].([]string)
	if len(missing) == 0 {
		return
	}
	_, _ = fmt.Fprintln(a.errOut, MsgMissingAssigned)
	for _, stem := range missing {
		names := make([]string, 0, len(out.Detection[stem]))
		for _, o := range races.OptionsFor(out.Detection[stem], a.lang) {
			names = append(names, o.Display)
		}
		_, _ = fmt.Fprintf(a.errOut, MsgAssignmentHint, stem, strings.Join(names, ", "))
	}
}

// summarize turns a successful outcome into the rendered summary
func summarize(out pipeline.Outcome) style.Summary {
	s := style.Summary{
		Remapped:    out.Remapped,
		Overlaid:    out.Overlaid,
		Passthrough: out.Passthrough,
	}
	if out.Manifest != nil {
		s.Patch = out.Manifest.ModName
	}
	if out.Output != nil {
		s.Dir = out.Output.Dir
		s.Package = out.Output.Package
		s.Files = out.Output.Files
	}
	for _, c := range out.Conflicts {
		s.Conflicts = append(s.Conflicts, style.ConflictLine{
			Path:      c.Path,
			Previous:  c.Previous,
			Winner:    c.Winner,
			CrossRace: c.CrossRace,
			Diff:      c.Diff,
		})
	}
	return s
}

func savePlan(path string, p *plan.Plan) error {
	data, err := plan.Encode(filepath.Ext(path), p)
	if err != nil {
		return err
	}
	if err := filesystem.NewOS().WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write plan %s", path).WithDetail("path", path)
	}
	return nil
}

func showConfig(w io.Writer, opts config.Options) error {
	out, err := config.Dump(opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func writeUserConfig(path string) error {
	return config.WriteUserConfig(path)
}
