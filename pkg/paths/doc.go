// Package paths provides centralized path handling for bg3compat.
//
// It resolves the workspace root and lays out the three workspace
// directories the engine reads and writes:
//
//   - race: imported race archives and their extracted trees
//   - appearance: imported appearance archives and their extracted trees
//   - output: generated compatibility patches
//
// Every archive and every patch owns one subdirectory named after its file
// stem.
//
// # Environment Variables
//
//   - BG3COMPAT_WORKSPACE: workspace root (default: $XDG_DATA_HOME/bg3compat)
//   - BG3COMPAT_CONFIG_DIR: config directory (default: $XDG_CONFIG_HOME/bg3compat)
//
// # Usage
//
//	p, err := paths.New("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dir := p.ExtractDir(types.KindRace, "MyRace")  // <root>/race/MyRace
package paths
