package remap

import (
	"bytes"

	"github.com/arthur-debert/bg3compat/pkg/filesystem"
	"github.com/arthur-debert/bg3compat/pkg/logging"
	"github.com/arthur-debert/bg3compat/pkg/lsx"
	"github.com/arthur-debert/bg3compat/pkg/types"
)

// Rewrite replaces every identifier in content that mapping knows about.
// Matching ignores letter case; replacements are written in canonical form.
// When nothing changes the original slice is returned with false.
func Rewrite(content []byte, mapping map[types.Identifier]types.Identifier) ([]byte, bool) {
	if len(mapping) == 0 {
		return content, false
	}
	var out bytes.Buffer
	last := 0
	for _, loc := range types.IdentifierIndex(content) {
		id := types.Identifier(bytes.ToLower(content[loc[0]:loc[1]]))
		repl, ok := mapping[id]
		if !ok || repl == id {
			continue
		}
		out.Grow(len(content))
		out.Write(content[last:loc[0]])
		out.WriteString(string(repl))
		last = loc[1]
	}
	if last == 0 {
		return content, false
	}
	out.Write(content[last:])
	return out.Bytes(), true
}

// Collect returns the identifiers declared by node identity attributes in
// the structured content under roots. Unparseable files are logged and
// skipped.
func Collect(fsys types.FS, roots []string) ([]types.Identifier, error) {
	logger := logging.GetLogger("remap")
	set := types.IdentifierSet{}

	for _, root := range roots {
		files, err := filesystem.WalkFiles(fsys, root)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if !lsx.IsStructured(f.RelPath) {
				continue
			}
			data, err := fsys.ReadFile(f.AbsPath)
			if err != nil {
				return nil, err
			}
			scan, err := lsx.ScanContent(f.RelPath, data)
			if err != nil {
				logger.Warn().Err(err).Str("root", root).Str("file", f.RelPath).
					Msg("Skipping unparseable file while collecting identifiers")
				continue
			}
			for _, id := range scan.Declared {
				set.Add(id)
			}
		}
	}
	return set.Sorted(), nil
}
