package config

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/errors"
)

// Package formats for the packed patch
const (
	PackageNone = "none"
	PackagePak  = "pak"
	PackageZip  = "zip"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the complete bg3compat configuration
type Config struct {
	Workspace Workspace `koanf:"workspace"`
	Codec     Codec     `koanf:"codec"`
	Generate  Generate  `koanf:"generate"`
	Manifest  Manifest  `koanf:"manifest"`
	UI        UI        `koanf:"ui"`
}

// Workspace locates the archive workspace
type Workspace struct {
	Root string `koanf:"root"`
}

// Codec configures the package tools
type Codec struct {
	DivinePath string `koanf:"divine_path"`
	Game       string `koanf:"game"`
	Package    string `koanf:"package"`
}

// Generate holds run defaults
type Generate struct {
	RegenerateIDs  bool `koanf:"regenerate_ids"`
	RegenerateUUID bool `koanf:"regenerate_uuid"`
}

// Manifest holds defaults for the patch descriptor
type Manifest struct {
	Author  string `koanf:"author"`
	Version string `koanf:"version"`
}

// UI configures terminal output
type UI struct {
	Language string `koanf:"language"`
	Color    string `koanf:"color"`
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	c.Codec.Package = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Codec.Package), "."))
	switch c.Codec.Package {
	case "":
		c.Codec.Package = PackageNone
	case PackageNone, PackagePak, PackageZip:
	default:
		return errors.Newf(errors.ErrConfigParse, "codec.package must be none, pak or zip, got %q", c.Codec.Package).
			WithDetail("key", "codec.package")
	}

	c.UI.Color = strings.ToLower(strings.TrimSpace(c.UI.Color))
	switch c.UI.Color {
	case "":
		c.UI.Color = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Newf(errors.ErrConfigParse, "ui.color must be auto, always or never, got %q", c.UI.Color).
			WithDetail("key", "ui.color")
	}
	return nil
}

// PackageExt returns the packed file extension, or "" when packing is off
func (c *Config) PackageExt() string {
	if c.Codec.Package == PackageNone || c.Codec.Package == "" {
		return ""
	}
	return "." + c.Codec.Package
}

// String implements fmt.Stringer
func (c *Config) String() string {
	return fmt.Sprintf("config(workspace=%q, package=%s, regenerate_ids=%t)",
		c.Workspace.Root, c.Codec.Package, c.Generate.RegenerateIDs)
}
