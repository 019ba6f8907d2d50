package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ArchiveKind tells race packages apart from appearance packages
type ArchiveKind string

const (
	// KindRace is a mod package that defines or alters a playable race
	KindRace ArchiveKind = "race"

	// KindAppearance is a mod package that adds visual content
	KindAppearance ArchiveKind = "appearance"
)

// ParseArchiveKind accepts the kind names used on the command line
func ParseArchiveKind(s string) (ArchiveKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "race", "races":
		return KindRace, nil
	case "appearance", "appearances", "look", "looks":
		return KindAppearance, nil
	default:
		return "", fmt.Errorf("unknown archive kind %q (want race or appearance)", s)
	}
}

// String implements fmt.Stringer
func (k ArchiveKind) String() string {
	return string(k)
}

// ModArchive is one imported mod package.
// ExtractedRoot is empty until the extractor has run.
type ModArchive struct {
	Path          string
	Kind          ArchiveKind
	ExtractedRoot string
}

// NewModArchive returns an archive record that has not been extracted yet
func NewModArchive(path string, kind ArchiveKind) ModArchive {
	return ModArchive{Path: path, Kind: kind}
}

// Name returns the archive file name
func (a ModArchive) Name() string {
	return filepath.Base(a.Path)
}

// Stem returns the file name without its extension.
// Extracted directories are named after it.
func (a ModArchive) Stem() string {
	return Stem(a.Path)
}

// IsExtracted reports whether the extractor has populated ExtractedRoot
func (a ModArchive) IsExtracted() bool {
	return a.ExtractedRoot != ""
}

// Stem returns the base name of path without its extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
