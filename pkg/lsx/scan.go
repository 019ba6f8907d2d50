package lsx

import (
	"github.com/arthur-debert/bg3compat/pkg/types"
)

// Scan is what the engine needs to know about one content file
type Scan struct {
	// Referenced holds every identifier the file mentions
	Referenced []types.Identifier
	// Declared holds the identifiers the file's nodes declare as identity
	Declared []types.Identifier
}

// ScanContent parses data according to path's format.
// Opaque files yield an empty Scan; malformed structured files an error.
func ScanContent(path string, data []byte) (Scan, error) {
	switch FormatOf(path) {
	case FormatLSX:
		doc, err := Parse(data)
		if err != nil {
			return Scan{}, err
		}
		return Scan{Referenced: doc.ReferencedIdentifiers(), Declared: doc.DeclaredIdentifiers()}, nil
	case FormatLSJ:
		doc, err := ParseJSON(data)
		if err != nil {
			return Scan{}, err
		}
		return Scan{Referenced: doc.ReferencedIdentifiers(), Declared: doc.DeclaredIdentifiers()}, nil
	default:
		return Scan{}, nil
	}
}
