// Package types defines the core types and interfaces shared by the
// compatibility patch engine: archive kinds, mod archives, identifiers and
// the filesystem abstraction every component reads and writes through.
package types
