package format

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/justjanne/palettelib/pkg/colour"
)

// ErrUnsupportedFormat is returned when a format identifier matches no
// enabled codec.
var ErrUnsupportedFormat = errors.New("unsupported format")

// EnvDisabledFormats names the environment variable holding a comma separated
// list of codec names to disable.
const EnvDisabledFormats = "PALETTELIB_DISABLED_FORMATS"

// Config holds dispatcher configuration.
type Config struct {
	// DisabledFormats lists codec names that lookups must not return.
	DisabledFormats []string
}

// Builder provides a fluent interface for constructing a Registry.
type Builder struct {
	config Config
	codecs []Codec
	useEnv bool
}

// NewBuilder creates a new Registry builder holding the built-in codecs.
func NewBuilder() *Builder {
	return &Builder{codecs: Builtin()}
}

// WithConfig sets the configuration for the registry.
func (b *Builder) WithConfig(config Config) *Builder {
	b.config = config
	return b
}

// WithEnvConfig loads configuration from PALETTELIB_DISABLED_FORMATS at
// Build time. Entries from the environment are added to the configured ones.
func (b *Builder) WithEnvConfig() *Builder {
	b.useEnv = true
	return b
}

// WithCodecs adds codecs after the built-in ones. A codec with the name of an
// earlier one replaces it.
func (b *Builder) WithCodecs(codecs ...Codec) *Builder {
	b.codecs = append(b.codecs, codecs...)
	return b
}

// Build constructs the Registry. The result is read-only and safe for
// concurrent use.
func (b *Builder) Build() *Registry {
	config := b.config
	if b.useEnv {
		if disabled := os.Getenv(EnvDisabledFormats); disabled != "" {
			config.DisabledFormats = append(slices.Clone(config.DisabledFormats), parseList(disabled)...)
		}
	}

	r := &Registry{
		codecs:     make(map[string]Codec),
		extensions: make(map[string]Codec),
		disabled:   make(map[string]bool),
	}
	for _, name := range config.DisabledFormats {
		r.disabled[strings.ToLower(name)] = true
	}
	for _, c := range b.codecs {
		r.register(c)
	}
	return r
}

// parseList splits a comma separated list, dropping blanks.
func parseList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Registry maps format identifiers to codecs.
type Registry struct {
	codecs     map[string]Codec
	extensions map[string]Codec
	disabled   map[string]bool
}

// register adds a codec; disabled codecs are remembered but not indexed.
func (r *Registry) register(c Codec) {
	name := strings.ToLower(c.Name())
	if old, ok := r.codecs[name]; ok {
		for _, ext := range old.Extensions() {
			delete(r.extensions, strings.ToLower(ext))
		}
	}
	r.codecs[name] = c
	if r.disabled[name] {
		return
	}
	for _, ext := range c.Extensions() {
		r.extensions[strings.ToLower(ext)] = c
	}
}

// Get retrieves an enabled codec by name.
func (r *Registry) Get(name string) (Codec, bool) {
	name = strings.ToLower(name)
	if r.disabled[name] {
		return nil, false
	}
	c, ok := r.codecs[name]
	return c, ok
}

// List returns all enabled codec names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		if !r.disabled[name] {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// All returns all enabled codecs ordered by name.
func (r *Registry) All() []Codec {
	codecs := make([]Codec, 0, len(r.codecs))
	for _, name := range r.List() {
		codecs = append(codecs, r.codecs[name])
	}
	return codecs
}

// Lookup resolves a format identifier: a codec name ("gpl"), an extension
// (".gpl") or a file path ("swatches/brand.palette.yaml"). Paths match the
// longest registered extension, ignoring case.
func (r *Registry) Lookup(id string) (Codec, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	if key == "" {
		return nil, fmt.Errorf("%w: empty format identifier", ErrUnsupportedFormat)
	}

	if c, ok := r.codecs[key]; ok {
		if r.disabled[key] {
			return nil, fmt.Errorf("%w: %s is disabled", ErrUnsupportedFormat, key)
		}
		return c, nil
	}
	if c, ok := r.extensions[key]; ok {
		return c, nil
	}

	base := filepath.Base(key)
	var best Codec
	bestLen := 0
	for _, ext := range slices.Sorted(maps.Keys(r.extensions)) {
		if len(ext) > bestLen && len(base) > len(ext) && strings.HasSuffix(base, ext) {
			best, bestLen = r.extensions[ext], len(ext)
		}
	}
	if best != nil {
		return best, nil
	}

	if what, ok := planned[key]; ok {
		return nil, fmt.Errorf("%w: %s is not implemented", ErrUnsupportedFormat, what)
	}
	if what, ok := planned[filepath.Ext(base)]; ok {
		return nil, fmt.Errorf("%w: %s is not implemented", ErrUnsupportedFormat, what)
	}
	if ext := filepath.Ext(base); ext != "" && r.disabledExtension(ext) {
		return nil, fmt.Errorf("%w: %s is disabled", ErrUnsupportedFormat, ext)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, id)
}

// disabledExtension reports whether ext belongs to a disabled codec.
func (r *Registry) disabledExtension(ext string) bool {
	for name := range r.disabled {
		if c, ok := r.codecs[name]; ok && slices.Contains(c.Extensions(), ext) {
			return true
		}
	}
	return false
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return NewBuilder().WithEnvConfig().Build()
})

// Default returns the shared registry of built-in codecs, honouring
// PALETTELIB_DISABLED_FORMATS as read on first use.
func Default() *Registry {
	return defaultRegistry()
}

// Lookup resolves id against the default registry.
func Lookup(id string) (Codec, error) {
	return Default().Lookup(id)
}

// Decode decodes data with the codec identified by id.
func Decode(id string, data []byte) (*colour.Palette, error) {
	c, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	return c.Decode(data)
}

// Encode encodes p with the codec identified by id.
func Encode(id string, p *colour.Palette) ([]byte, error) {
	c, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	return c.Encode(p)
}
