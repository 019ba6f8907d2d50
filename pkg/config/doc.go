// Package config loads bg3compat settings.
//
// Sources are layered, each overriding the previous one:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user config file, config.toml in the XDG config directory
//  3. environment variables BG3COMPAT_<SECTION>_<KEY>
//  4. explicit overrides, normally command line flags
package config
