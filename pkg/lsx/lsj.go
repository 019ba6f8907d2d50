package lsx

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// identityPaths select {"type":..., "value":...} identity attributes at any depth
var identityPaths = func() []jp.Expr {
	exprs := make([]jp.Expr, 0, len(IdentityAttributes))
	for _, attr := range IdentityAttributes {
		x, err := jp.ParseString("$.." + attr + ".value")
		if err != nil {
			panic(fmt.Sprintf("lsj identity path %s: %v", attr, err))
		}
		exprs = append(exprs, x)
	}
	return exprs
}()

// JSONDocument is a parsed LSJ document
type JSONDocument struct {
	root any
}

// ParseJSON parses LSJ bytes
func ParseJSON(data []byte) (*JSONDocument, error) {
	root, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse lsj: %w", err)
	}
	return &JSONDocument{root: root}, nil
}

// Strings returns every string value and object key in the document
func (d *JSONDocument) Strings() []string {
	var out []string
	var visit func(v any)
	visit = func(v any) {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case map[string]any:
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				out = append(out, k)
				visit(t[k])
			}
		case []any:
			for _, item := range t {
				visit(item)
			}
		}
	}
	visit(d.root)
	return out
}

// ReferencedIdentifiers returns every canonical identifier in string values
func (d *JSONDocument) ReferencedIdentifiers() []types.Identifier {
	return FindInStrings(d.Strings())
}

// DeclaredIdentifiers returns the canonical identifiers held by UUID, MapKey
// or ID attributes anywhere in the document
func (d *JSONDocument) DeclaredIdentifiers() []types.Identifier {
	seen := types.IdentifierSet{}
	var out []types.Identifier
	for _, x := range identityPaths {
		for _, v := range x.Get(d.root) {
			s, ok := v.(string)
			if !ok {
				continue
			}
			id, err := types.ParseIdentifier(s)
			if err != nil || seen.Has(id) {
				continue
			}
			seen.Add(id)
			out = append(out, id)
		}
	}
	return out
}
