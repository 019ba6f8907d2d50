package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/arthur-debert/bg3compat/pkg/types"
)

// ModTree is a declarative extracted mod tree: relative path -> content
type ModTree struct {
	files map[string]string
}

// NewModTree returns an empty tree
func NewModTree() *ModTree {
	return &ModTree{files: make(map[string]string)}
}

// File adds or replaces a file; rel uses forward slashes
func (m *ModTree) File(rel, content string) *ModTree {
	m.files[rel] = content
	return m
}

// Paths returns the file paths in lexical order
func (m *ModTree) Paths() []string {
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Content returns the content registered for rel
func (m *ModTree) Content(rel string) string {
	return m.files[rel]
}

// WriteTo writes the tree below root on fsys
func (m *ModTree) WriteTo(t *testing.T, fsys types.FS, root string) string {
	t.Helper()

	for _, rel := range m.Paths() {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := fsys.WriteFile(path, []byte(m.files[rel]), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
	return root
}

// WriteDir writes the tree below dir on the real filesystem
func (m *ModTree) WriteDir(t *testing.T, dir string) string {
	t.Helper()

	for _, rel := range m.Paths() {
		CreateFile(t, dir, rel, m.files[rel])
	}
	return dir
}

// WriteZip writes the tree as a zip package at path
func (m *ModTree) WriteZip(t *testing.T, path string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	zw := zip.NewWriter(out)
	for _, rel := range m.Paths() {
		w, err := zw.Create(rel)
		if err != nil {
			t.Fatalf("Failed to add %s: %v", rel, err)
		}
		if _, err := w.Write([]byte(m.files[rel])); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finish %s: %v", path, err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Failed to close %s: %v", path, err)
	}
	return path
}
