package lsx

import (
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/types"
)

// DeclaredIdentifiers returns the identities declared by the document's
// nodes that are canonical identifiers, lowercased, in document order
func (d *Document) DeclaredIdentifiers() []types.Identifier {
	seen := types.IdentifierSet{}
	var out []types.Identifier
	for _, n := range d.Nodes() {
		v, ok := Identity(n)
		if !ok {
			continue
		}
		id, err := types.ParseIdentifier(v)
		if err != nil {
			continue
		}
		if seen.Has(id) {
			continue
		}
		seen.Add(id)
		out = append(out, id)
	}
	return out
}

// ReferencedIdentifiers returns every canonical identifier appearing in any
// attribute value or text of the document
func (d *Document) ReferencedIdentifiers() []types.Identifier {
	return FindInStrings(d.Values())
}

// FindInStrings collects distinct lowercased identifiers from values
func FindInStrings(values []string) []types.Identifier {
	seen := types.IdentifierSet{}
	var out []types.Identifier
	for _, v := range values {
		for _, id := range types.FindIdentifiers([]byte(v)) {
			if seen.Has(id) {
				continue
			}
			seen.Add(id)
			out = append(out, id)
		}
	}
	return out
}

// RaceDeclaration is one <node id="Race"> from a Races.lsx file
type RaceDeclaration struct {
	UUID       types.Identifier
	Name       string
	ParentGUID types.Identifier
}

// RaceDeclarations returns the playable race nodes declared in the document
func (d *Document) RaceDeclarations() []RaceDeclaration {
	var out []RaceDeclaration
	for _, n := range d.NodesByID("Race") {
		raw, ok := Attribute(n, "UUID")
		if !ok {
			continue
		}
		id, err := types.ParseIdentifier(raw)
		if err != nil {
			continue
		}
		decl := RaceDeclaration{UUID: id}
		decl.Name, _ = Attribute(n, "Name")
		if parent, ok := Attribute(n, "ParentGuid"); ok && strings.TrimSpace(parent) != "" {
			if pid, err := types.ParseIdentifier(parent); err == nil {
				decl.ParentGUID = pid
			}
		}
		out = append(out, decl)
	}
	return out
}
