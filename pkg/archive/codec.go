package archive

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/errors"
)

// Codec unpacks and packs one container format
type Codec interface {
	// Extract unpacks archivePath into destDir, which already exists
	Extract(ctx context.Context, archivePath, destDir string) error
	// Assemble packs the tree under srcDir into archivePath
	Assemble(ctx context.Context, srcDir, archivePath string) error
}

// Registry maps lowercased file extensions (".pak") to codecs
type Registry struct {
	codecs map[string]Codec
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// DefaultRegistry knows .zip in-process and .pak through divine
func DefaultRegistry(divine *DivineCodec) *Registry {
	r := NewRegistry()
	r.Register(".zip", ZipCodec{})
	if divine != nil {
		r.Register(".pak", divine)
	}
	return r
}

// Register binds ext to codec, replacing any previous binding
func (r *Registry) Register(ext string, codec Codec) {
	r.codecs[normalizeExt(ext)] = codec
}

// Extensions returns the registered extensions in lexical order
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// For returns the codec for path's extension
func (r *Registry) For(path string) (Codec, error) {
	ext := normalizeExt(filepath.Ext(path))
	if codec, ok := r.codecs[ext]; ok {
		return codec, nil
	}
	return nil, errors.Newf(errors.ErrExtraction, "%s is not a recognized container", filepath.Base(path)).
		WithDetail("extension", ext).
		WithDetail("supported", r.Extensions())
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
