// Package i18n provides the localization provider used for race display
// names and user-facing messages. Catalogs are embedded YAML files, one per
// locale, registered into an x/text message catalog.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the fallback locale
const BaseLocale = "en-US"

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// Bundle holds every loaded locale
type Bundle struct {
	builder *catalog.Builder
	tags    []language.Tag
	keys    map[language.Tag]map[string]struct{}
	matcher language.Matcher
}

// LoadEmbedded loads the catalogs shipped with the binary
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedLocales)
}

// LoadFromFS loads every locales/*.yaml file from fsys
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	files, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(files)

	b := &Bundle{
		builder: catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale))),
		keys:    map[language.Tag]map[string]struct{}{},
	}
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", name, err)
		}
		var parsed catalogFile
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", name, err)
		}
		tag, err := language.Parse(parsed.Locale)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: invalid locale %q: %w", name, parsed.Locale, err)
		}
		if _, ok := b.keys[tag]; !ok {
			b.keys[tag] = map[string]struct{}{}
			b.tags = append(b.tags, tag)
		}
		for key, msg := range parsed.Messages {
			if err := b.builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("catalog %s: key %s: %w", name, key, err)
			}
			b.keys[tag][key] = struct{}{}
		}
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Locales lists the loaded locales
func (b *Bundle) Locales() []string {
	out := make([]string, len(b.tags))
	for i, t := range b.tags {
		out[i] = t.String()
	}
	return out
}

// Provider renders messages for one locale
type Provider struct {
	tag     language.Tag
	printer *message.Printer
	keys    map[string]struct{}
}

// Provider returns the best match for lang ("zh", "zh-CN", "en"...).
// An empty or unknown lang falls back to BaseLocale.
func (b *Bundle) Provider(lang string) *Provider {
	want := language.MustParse(BaseLocale)
	if lang = strings.TrimSpace(lang); lang != "" {
		if t, err := language.Parse(strings.ReplaceAll(lang, "_", "-")); err == nil {
			want = t
		}
	}
	_, idx, _ := b.matcher.Match(want)
	tag := b.tags[idx]
	return &Provider{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b.builder)),
		keys:    b.keys[tag],
	}
}

// Locale returns the locale the provider renders
func (p *Provider) Locale() string {
	return p.tag.String()
}

// Lookup returns the message for key, or "" when the locale does not define it
func (p *Provider) Lookup(key string) string {
	if p == nil {
		return ""
	}
	if _, ok := p.keys[key]; !ok {
		return ""
	}
	return p.printer.Sprintf(key)
}

// Sprintf formats the message for key; unknown keys format the key itself
func (p *Provider) Sprintf(key string, args ...interface{}) string {
	if p == nil {
		return fmt.Sprintf(key, args...)
	}
	return p.printer.Sprintf(key, args...)
}
