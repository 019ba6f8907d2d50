package manifest

import (
	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/filesystem"
	"github.com/arthur-debert/bg3compat/pkg/types"
)

// Load reads the meta.lsx at path. Any failure is a MANIFEST error, which
// callers treat as "no existing manifest".
func Load(fsys types.FS, path string) (*PatchManifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifest, "cannot read %s", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifest, "cannot load %s", path)
	}
	return m, nil
}

// Find locates the first Mods/<Folder>/meta.lsx below root and loads it
func Find(fsys types.FS, root string) (*PatchManifest, error) {
	files, err := filesystem.WalkFiles(fsys, root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifest, "cannot walk %s", root)
	}
	for _, f := range files {
		if IsDescriptorPath(f.RelPath) {
			return Load(fsys, f.AbsPath)
		}
	}
	return nil, errors.Newf(errors.ErrManifest, "no meta.lsx below %s", root)
}

// SourceFrom describes an extracted archive for the dependency list
func SourceFrom(fsys types.FS, a types.ModArchive) Source {
	s := Source{Archive: a.Name(), Kind: a.Kind}
	if !a.IsExtracted() {
		return s
	}
	if m, err := Find(fsys, a.ExtractedRoot); err == nil {
		s.Name = m.ModName
		s.Folder = m.Folder
		s.UUID = m.UUID
		s.Version = m.Version
	}
	return s
}
