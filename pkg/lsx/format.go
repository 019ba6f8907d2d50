package lsx

import (
	"path/filepath"
	"strings"
)

// Format classifies a content file
type Format int

const (
	// FormatOther is any file the engine treats as opaque bytes
	FormatOther Format = iota
	// FormatLSX is XML content (.lsx, .xml)
	FormatLSX
	// FormatLSJ is JSON content (.lsj, .json)
	FormatLSJ
)

// FormatOf classifies path by extension
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lsx", ".xml":
		return FormatLSX
	case ".lsj", ".json":
		return FormatLSJ
	default:
		return FormatOther
	}
}

// IsStructured reports whether path is LSX or LSJ content
func IsStructured(path string) bool {
	return FormatOf(path) != FormatOther
}

// IdentityAttributes are the attribute ids that declare a node's identity,
// in priority order
var IdentityAttributes = []string{"UUID", "MapKey", "ID"}
