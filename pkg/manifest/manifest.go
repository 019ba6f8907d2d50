// Package manifest authors the descriptor (meta.lsx) of a compatibility
// patch: name, author, description, version, package identifier and the
// source archives it was built from.
package manifest

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/types"
)

// Defaults applied when neither the user nor an existing manifest supplies a value
const (
	DefaultModName = "Auto_Generated_Compatibility"
	DefaultAuthor  = "BG3 Compatibility Generator"

	descriptionPrefix = "Auto-generated compatibility patch for "
	defaultSubject    = "selected races and appearance mods"
)

// Source is one archive consumed by a run
type Source struct {
	Archive string            `json:"archive" toml:"archive" yaml:"archive"`
	Kind    types.ArchiveKind `json:"kind" toml:"kind" yaml:"kind"`
	// Module fields come from the archive's own meta.lsx, when it has one
	Name    string           `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Folder  string           `json:"folder,omitempty" toml:"folder,omitempty" yaml:"folder,omitempty"`
	UUID    types.Identifier `json:"uuid,omitempty" toml:"uuid,omitempty" yaml:"uuid,omitempty"`
	Version string           `json:"version,omitempty" toml:"version,omitempty" yaml:"version,omitempty"`
}

// PatchManifest is the descriptor of a compatibility patch
type PatchManifest struct {
	ModName        string           `json:"mod_name" toml:"mod_name" yaml:"mod_name"`
	Author         string           `json:"author" toml:"author" yaml:"author"`
	Description    string           `json:"description" toml:"description" yaml:"description"`
	Version        string           `json:"version" toml:"version" yaml:"version"`
	UUID           types.Identifier `json:"uuid" toml:"uuid" yaml:"uuid"`
	RegenerateUUID bool             `json:"regenerate_uuid" toml:"regenerate_uuid" yaml:"regenerate_uuid"`
	Exists         bool             `json:"exists" toml:"exists" yaml:"exists"`
	Folder         string           `json:"folder" toml:"folder" yaml:"folder"`
	Sources        []Source         `json:"sources,omitempty" toml:"sources,omitempty" yaml:"sources,omitempty"`
}

// UserInput is what the user typed; blank fields fall back
type UserInput struct {
	ModName     string `json:"mod_name" toml:"mod_name" yaml:"mod_name" mapstructure:"mod_name"`
	Author      string `json:"author" toml:"author" yaml:"author" mapstructure:"author"`
	Description string `json:"description" toml:"description" yaml:"description" mapstructure:"description"`
	Version     string `json:"version" toml:"version" yaml:"version" mapstructure:"version"`
	// RegenerateUUID nil keeps the existing setting; only true draws a new identifier
	RegenerateUUID *bool    `json:"regenerate_uuid,omitempty" toml:"regenerate_uuid,omitempty" yaml:"regenerate_uuid,omitempty" mapstructure:"regenerate_uuid"`
	Sources        []Source `json:"-" toml:"-" yaml:"-" mapstructure:"-"`
}

// Validate checks the fields the user did fill in
func (in UserInput) Validate() error {
	if v := strings.TrimSpace(in.Version); v != "" {
		if _, err := ParseVersion(v); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDescription is the description templated from a mod name
func DefaultDescription(modName string) string {
	if modName == "" || modName == DefaultModName {
		return descriptionPrefix + defaultSubject
	}
	return descriptionPrefix + modName
}

// IsTemplatedDescription reports whether desc was produced by DefaultDescription
func IsTemplatedDescription(desc string) bool {
	return strings.HasPrefix(strings.TrimSpace(desc), descriptionPrefix)
}

// Write builds the manifest for a run. With no existing manifest blank
// fields get defaults and a fresh identifier from gen. With an existing one
// blank fields keep its values and its identifier is kept unless the user
// asked to regenerate it.
func Write(existing *PatchManifest, in UserInput, gen func() types.Identifier) PatchManifest {
	var prev PatchManifest
	if existing != nil {
		prev = *existing
	}

	m := PatchManifest{
		ModName: first(in.ModName, prev.ModName, DefaultModName),
		Author:  first(in.Author, prev.Author, DefaultAuthor),
		Version: first(in.Version, prev.Version, DefaultVersion),
		Exists:  existing != nil,
		Sources: append([]Source(nil), in.Sources...),
	}

	switch desc := strings.TrimSpace(in.Description); {
	case desc != "":
		m.Description = desc
	case prev.Description != "" && !(IsTemplatedDescription(prev.Description) && m.ModName != prev.ModName):
		m.Description = prev.Description
	default:
		m.Description = DefaultDescription(m.ModName)
	}

	m.RegenerateUUID = prev.RegenerateUUID
	if in.RegenerateUUID != nil {
		m.RegenerateUUID = *in.RegenerateUUID
	}
	regenerate := in.RegenerateUUID != nil && *in.RegenerateUUID
	if prev.UUID.IsZero() || regenerate {
		m.UUID = gen()
	} else {
		m.UUID = prev.UUID
	}

	m.Folder = prev.Folder
	if m.Folder == "" || m.ModName != prev.ModName {
		m.Folder = FolderFor(m.ModName)
	}
	return m
}

var unsafeFolderChars = regexp.MustCompile(`[^A-Za-z0-9_\-]+`)

// FolderFor derives a module folder name from a mod name
func FolderFor(modName string) string {
	folder := strings.Trim(unsafeFolderChars.ReplaceAllString(strings.TrimSpace(modName), "_"), "_")
	if folder == "" {
		return DefaultModName
	}
	return folder
}

// DescriptorPath is where the descriptor lives inside the patch tree
func DescriptorPath(folder string) string {
	return path.Join("Mods", folder, "meta.lsx")
}

// IsDescriptorPath reports whether rel is a Mods/<Folder>/meta.lsx file
func IsDescriptorPath(rel string) bool {
	parts := strings.Split(rel, "/")
	return len(parts) == 3 && parts[0] == "Mods" && strings.EqualFold(parts[2], "meta.lsx")
}

// String implements fmt.Stringer
func (m PatchManifest) String() string {
	return fmt.Sprintf("%s %s (%s)", m.ModName, m.Version, m.UUID)
}

func first(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
