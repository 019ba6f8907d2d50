package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/bg3compat/pkg/types"
)

// File is one regular file found under a walk root
type File struct {
	// RelPath is root-relative with forward slashes
	RelPath string
	// AbsPath is the path to hand back to the FS
	AbsPath string
}

// WalkFiles lists every regular file below root in lexical order of RelPath.
// A missing root yields an empty list.
func WalkFiles(fsys types.FS, root string) ([]File, error) {
	var files []File
	if err := walkDir(fsys, root, "", &files); err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func walkDir(fsys types.FS, root, rel string, out *[]File) error {
	dir := root
	if rel != "" {
		dir = filepath.Join(root, filepath.FromSlash(rel))
	}
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		childRel := entry.Name()
		if rel != "" {
			childRel = path.Join(rel, entry.Name())
		}
		if entry.IsDir() {
			if err := walkDir(fsys, root, childRel, out); err != nil {
				return err
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		*out = append(*out, File{
			RelPath: childRel,
			AbsPath: filepath.Join(root, filepath.FromSlash(childRel)),
		})
	}
	return nil
}

// Exists reports whether name exists on fsys
func Exists(fsys types.FS, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}
