package style

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/races"
	"github.com/pterm/pterm"
)

// Renderer defines the interface for rendering various output types
type Renderer interface {
	RenderArchives(kind string, lines []ArchiveLine) string
	RenderRaces(options []races.Option) string
	RenderSummary(s Summary, showDiffs bool) string
	RenderError(err error) string
	RenderProgress(current, total int, message string) string
}

// TerminalRenderer implements Renderer with rich terminal output
type TerminalRenderer struct {
	width int
}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{
		width: 80, // Default width, can be updated
	}
}

// SetWidth updates the terminal width for rendering
func (r *TerminalRenderer) SetWidth(width int) {
	r.width = width
}

func kindStyleFor(kind string) func(string) string {
	switch kind {
	case "race":
		return func(s string) string { return RaceStyle.Render(s) }
	default:
		return func(s string) string { return AppearanceStyle.Render(s) }
	}
}

// RenderArchives renders the archives of one workspace kind
func (r *TerminalRenderer) RenderArchives(kind string, lines []ArchiveLine) string {
	if len(lines) == 0 {
		return MutedStyle.Render(fmt.Sprintf("No %s archives imported", kind))
	}

	var result strings.Builder
	result.WriteString(TitleStyle.Render(strings.ToUpper(kind[:1])+kind[1:]+" archives") + "\n")

	name := kindStyleFor(kind)
	for _, line := range lines {
		status := StatusStyle(line.Status).Sprint(fmt.Sprintf(" %-11s ", line.Status))
		result.WriteString(fmt.Sprintf("%s %s\n", status, name(line.Name)))
		switch {
		case line.Note != "":
			result.WriteString(Indent(PassthroughStyle.Render(line.Note), 3) + "\n")
		case len(line.Candidates) > 0:
			result.WriteString(Indent(MutedStyle.Render(strings.Join(line.Candidates, ", ")), 3) + "\n")
		}
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderRaces renders the vanilla race options
func (r *TerminalRenderer) RenderRaces(options []races.Option) string {
	var result strings.Builder
	result.WriteString(TitleStyle.Render("Vanilla races") + "\n")
	for _, o := range options {
		result.WriteString(fmt.Sprintf("%s %-28s %s\n", InfoIndicator, Bold(o.Display), MutedStyle.Render(o.ID.String())))
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderSummary renders the outcome of a generation run
func (r *TerminalRenderer) RenderSummary(s Summary, showDiffs bool) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", SuccessIndicator, SuccessStyle.Render("Patch written:"), Bold(s.Patch)))
	result.WriteString(Indent(PathStyle.Render(s.Dir), 1) + "\n")
	if s.Package != "" {
		result.WriteString(Indent(PathStyle.Render(s.Package), 1) + "\n")
	}
	result.WriteString(Indent(MutedStyle.Render(fmt.Sprintf("%d files, %d identifiers remapped, %d documents overlaid",
		s.Files, s.Remapped, s.Overlaid)), 1) + "\n")

	for _, p := range s.Passthrough {
		result.WriteString(fmt.Sprintf("%s %s %s\n", InfoIndicator, PassthroughStyle.Render("passthrough"), p))
	}

	if len(s.Conflicts) > 0 {
		result.WriteString("\n" + ConflictStyle.Render(fmt.Sprintf("%d path(s) overwritten", len(s.Conflicts))) + "\n")
		for _, c := range s.Conflicts {
			marker := WarningIndicator
			if c.CrossRace {
				marker = ErrorIndicator
			}
			result.WriteString(fmt.Sprintf("%s %s %s\n", marker, c.Path,
				MutedStyle.Render(fmt.Sprintf("(%s over %s)", c.Winner, c.Previous))))
			if showDiffs && c.Diff != "" {
				result.WriteString(Indent(CodeStyle.Render(strings.TrimRight(c.Diff, "\n")), 2) + "\n")
			}
		}
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderError renders an error message
func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	// Coded errors show their code
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		return fmt.Sprintf("%s Error [%s]: %s",
			pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint(string(code)),
			err.Error())
	}

	// Generic error
	return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
}

// RenderProgress renders a progress indicator
func (r *TerminalRenderer) RenderProgress(current, total int, message string) string {
	percentage := 1.0
	if total > 0 {
		percentage = float64(current) / float64(total)
	}
	barWidth := 20
	filled := int(percentage * float64(barWidth))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	return fmt.Sprintf("%s [%s] %d/%d %s",
		ProgressIndicator,
		pterm.Info.MessageStyle.Sprint(bar),
		current,
		total,
		message)
}

// PlainRenderer implements Renderer with plain text output (no styling)
type PlainRenderer struct{}

// NewPlainRenderer creates a new plain text renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// RenderArchives renders a plain archive list
func (r *PlainRenderer) RenderArchives(kind string, lines []ArchiveLine) string {
	if len(lines) == 0 {
		return fmt.Sprintf("No %s archives imported", kind)
	}

	var result strings.Builder
	for _, line := range lines {
		detail := line.Note
		if detail == "" {
			detail = strings.Join(line.Candidates, ", ")
		}
		if detail != "" {
			detail = "\t" + detail
		}
		result.WriteString(fmt.Sprintf("%s\t%s%s\n", line.Status, line.Name, detail))
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderRaces renders plain race options
func (r *PlainRenderer) RenderRaces(options []races.Option) string {
	var result strings.Builder
	for _, o := range options {
		result.WriteString(fmt.Sprintf("%s\t%s\n", o.ID, o.Display))
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderSummary renders a plain run summary
func (r *PlainRenderer) RenderSummary(s Summary, showDiffs bool) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("Patch written: %s\n", s.Patch))
	result.WriteString(fmt.Sprintf("  %s\n", s.Dir))
	if s.Package != "" {
		result.WriteString(fmt.Sprintf("  %s\n", s.Package))
	}
	result.WriteString(fmt.Sprintf("  %d files, %d identifiers remapped, %d documents overlaid\n",
		s.Files, s.Remapped, s.Overlaid))
	for _, p := range s.Passthrough {
		result.WriteString(fmt.Sprintf("passthrough: %s\n", p))
	}
	for _, c := range s.Conflicts {
		kind := "conflict"
		if c.CrossRace {
			kind = "cross-race conflict"
		}
		result.WriteString(fmt.Sprintf("%s: %s (%s over %s)\n", kind, c.Path, c.Winner, c.Previous))
		if showDiffs && c.Diff != "" {
			result.WriteString(c.Diff)
			if !strings.HasSuffix(c.Diff, "\n") {
				result.WriteString("\n")
			}
		}
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderError renders a plain error message
func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

// RenderProgress renders plain progress
func (r *PlainRenderer) RenderProgress(current, total int, message string) string {
	return fmt.Sprintf("Progress: %d/%d - %s", current, total, message)
}
