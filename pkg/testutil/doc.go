// Package testutil provides fixtures for testing bg3compat components.
//
// Key components:
//   - ModTree: declarative builder for extracted mod trees and .zip packages
//   - LSX builders: Races.lsx, appearance visuals and meta.lsx documents
//   - MockCodec: testify mock of archive.Codec
//   - File helpers: create/read/assert files under t.TempDir()
//
// Usage guidelines:
//   - Tree logic (detect, remap, merge) runs against filesystem.NewMemory()
//   - Anything that renames directories or runs a codec uses t.TempDir()
//   - All test data is defined inline, not in external files
package testutil
