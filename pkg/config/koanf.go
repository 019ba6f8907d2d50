package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix starts every configuration environment variable
const EnvPrefix = "BG3COMPAT_"

var sections = map[string]bool{
	"workspace": true,
	"codec":     true,
	"generate":  true,
	"manifest":  true,
	"ui":        true,
}

// Options selects the sources layered over the defaults
type Options struct {
	// Path is an explicit config file; it must exist when set
	Path string
	// DefaultPath is read only when it exists
	DefaultPath string
	// Overrides are applied last, keyed like "codec.package"
	Overrides map[string]interface{}
}

// NewKoanf layers every source into one koanf instance
func NewKoanf(opts Options) (*koanf.Koanf, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	// 2. User config file
	path := opts.Path
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", path).
				WithDetail("path", path)
		}
	} else if opts.DefaultPath != "" {
		if _, err := os.Stat(opts.DefaultPath); err == nil {
			path = opts.DefaultPath
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("path", path)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	return k, nil
}

// envKey maps BG3COMPAT_CODEC_DIVINE_PATH to codec.divine_path. Variables
// outside the known sections, like BG3COMPAT_WORKSPACE, are left alone.
func envKey(s string) string {
	rest := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, key, ok := strings.Cut(rest, "_")
	if !ok || key == "" || !sections[section] {
		return ""
	}
	return section + "." + key
}
