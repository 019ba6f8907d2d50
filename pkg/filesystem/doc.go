// Package filesystem provides filesystem implementations for the engine.
//
// This package contains implementations of the types.FS interface,
// the standard OS filesystem and an afero-backed one for tests, plus a
// deterministic tree walker shared by the detector, remapper and merger.
package filesystem
