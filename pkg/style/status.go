package style

import (
	"github.com/pterm/pterm"
)

// Status of an archive in the workspace
type Status string

const (
	StatusExtracted   Status = "extracted"   // Extracted and ready
	StatusPending     Status = "pending"     // Imported, not extracted yet
	StatusAssigned    Status = "assigned"    // Bound to a vanilla race for this run
	StatusPassthrough Status = "passthrough" // No vanilla race referenced
	StatusFailed      Status = "failed"      // Extraction or detection failed
)

// StatusStyle returns the appropriate pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusExtracted:
		return pterm.NewStyle(pterm.FgGreen)
	case StatusAssigned:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case StatusPending:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case StatusFailed:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case StatusPassthrough:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// ArchiveLine is one archive in a listing
type ArchiveLine struct {
	Name   string
	Status Status
	// Candidates are display names of the vanilla races the archive references
	Candidates []string
	// Note replaces the candidate list, e.g. "(no race selection needed)"
	Note string
}

// ConflictLine is one overwritten path of a run
type ConflictLine struct {
	Path      string
	Previous  string
	Winner    string
	CrossRace bool
	Diff      string
}

// Summary describes a finished run
type Summary struct {
	Patch       string
	Dir         string
	Package     string
	Files       int
	Remapped    int
	Overlaid    int
	Passthrough []string
	Conflicts   []ConflictLine
}
