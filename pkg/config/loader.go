package config

import (
	"reflect"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/v2"
)

// Load builds the effective configuration
func Load(opts Options) (*Config, error) {
	k, err := NewKoanf(opts)
	if err != nil {
		return nil, err
	}
	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger("config")
	logger.Debug().
		Str("file", first(opts.Path, opts.DefaultPath)).
		Str("package", cfg.Codec.Package).
		Bool("regenerate_ids", cfg.Generate.RegenerateIDs).
		Msg("Configuration loaded")
	return cfg, nil
}

// Dump renders the effective configuration as TOML
func Dump(opts Options) (string, error) {
	k, err := NewKoanf(opts)
	if err != nil {
		return "", err
	}
	out, err := k.Marshal(toml.Parser())
	if err != nil {
		return "", errors.Wrap(err, errors.ErrConfigParse, "failed to render configuration")
	}
	return string(out), nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				trimStringHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// trimStringHookFunc strips surrounding blanks from string values, which
// environment variables often carry
func trimStringHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() == reflect.String && t.Kind() == reflect.String {
			return strings.TrimSpace(data.(string)), nil
		}
		return data, nil
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
