// Package plan reads generation plans: the race assignments and manifest
// input for a run, kept in a TOML or YAML file so a run can be repeated.
//
//	[[assign]]
//	archive = "ElfLooks"
//	race = "Elf"
//
//	[manifest]
//	mod_name = "MyPatch"
package plan

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/manifest"
	"github.com/arthur-debert/bg3compat/pkg/races"
	"github.com/arthur-debert/bg3compat/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Assign binds one appearance archive to a race
type Assign struct {
	Archive string `toml:"archive" yaml:"archive"`
	// Race is a race identifier, English name or localization key
	Race string `toml:"race" yaml:"race"`
}

// Plan is the content of a plan file
type Plan struct {
	// Target is the existing patch folder to update
	Target        string             `toml:"target,omitempty" yaml:"target,omitempty"`
	RegenerateIDs *bool              `toml:"regenerate_ids,omitempty" yaml:"regenerate_ids,omitempty"`
	Assign        []Assign           `toml:"assign" yaml:"assign"`
	Manifest      manifest.UserInput `toml:"manifest" yaml:"manifest"`
}

// Load reads a plan, choosing the format from the file extension
func Load(fsys types.FS, path string) (*Plan, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileNotFound, "cannot read plan %s", path).
			WithDetail("path", path)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes a plan in the format named by ext (".toml", ".yaml", ".yml")
func Parse(ext string, data []byte) (*Plan, error) {
	var p Plan
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "malformed TOML plan")
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "malformed YAML plan")
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "plan files must be .toml or .yaml, got %q", ext)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that every entry names an archive and a known race
func (p *Plan) Validate() error {
	seen := make(map[string]bool, len(p.Assign))
	for i, a := range p.Assign {
		if strings.TrimSpace(a.Archive) == "" {
			return errors.Newf(errors.ErrInvalidInput, "assign entry %d has no archive", i+1)
		}
		if seen[a.Archive] {
			return errors.Newf(errors.ErrAssignment, "archive %s is assigned twice", a.Archive).
				WithDetail("archive", a.Archive)
		}
		seen[a.Archive] = true
		if _, ok := races.Resolve(a.Race); !ok {
			return errors.Newf(errors.ErrAssignment, "%q is not a vanilla race", a.Race).
				WithDetail("archive", a.Archive).
				WithDetail("race", a.Race)
		}
	}
	return p.Manifest.Validate()
}

// Assignments returns the plan's entries keyed by archive stem, with races
// resolved to identifiers
func (p *Plan) Assignments() map[string]string {
	out := make(map[string]string, len(p.Assign))
	for _, a := range p.Assign {
		if e, ok := races.Resolve(a.Race); ok {
			out[types.Stem(a.Archive)] = e.ID.String()
		}
	}
	return out
}

// Encode renders p in the format named by ext
func Encode(ext string, p *Plan) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.Marshal(p)
	case ".yaml", ".yml":
		return yaml.Marshal(p)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "plan files must be .toml or .yaml, got %q", ext)
	}
}
