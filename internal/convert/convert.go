// Package convert reads, transforms and writes palette files.
//
// It sits between the command line and the codecs: it resolves formats
// through a format.Registry, handles compressed files, applies the palette
// transforms and logs each step.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/justjanne/palettelib/internal/compression"
	"github.com/justjanne/palettelib/internal/security"
	"github.com/justjanne/palettelib/pkg/colour"
	"github.com/justjanne/palettelib/pkg/format"
)

// MaxFileSize is the largest palette file read from disk.
const MaxFileSize = 64 * 1024 * 1024

// Options are the transforms applied between decoding and encoding.
type Options struct {
	// Name replaces the palette name when non-empty.
	Name string
	// Flatten merges all groups into the ungrouped swatches.
	Flatten bool
	// Only keeps swatches whose colour is in one of these spaces. Empty keeps
	// everything.
	Only []colour.Space
}

// Apply returns a transformed copy of p. The input is not modified.
func (o Options) Apply(p *colour.Palette) *colour.Palette {
	out := p.Clone()
	if len(o.Only) > 0 {
		out = out.Filter(func(s colour.Swatch) bool {
			return slices.Contains(o.Only, s.Colour.Space)
		})
	}
	if o.Flatten {
		out = out.Flattened()
	}
	if o.Name != "" {
		out.Name = o.Name
	}
	return out
}

// Converter reads and writes palette files.
type Converter struct {
	logger   hclog.Logger
	registry *format.Registry
}

// New creates a Converter. A nil logger discards output and a nil registry
// uses format.Default().
func New(logger hclog.Logger, registry *format.Registry) *Converter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if registry == nil {
		registry = format.Default()
	}
	return &Converter{logger: logger, registry: registry}
}

// Registry returns the registry used to resolve formats.
func (c *Converter) Registry() *format.Registry {
	return c.registry
}

// resolve returns the codec for path, or for id when it is set, along with
// the compression method implied by the path.
func (c *Converter) resolve(path, id string) (format.Codec, compression.Method, error) {
	method, stripped := compression.Detect(path)
	if id == "" {
		id = stripped
	}
	codec, err := c.registry.Lookup(id)
	if err != nil {
		return nil, method, err
	}
	return codec, method, nil
}

// ReadFile reads and decodes the palette at path. The format is taken from
// from when set, otherwise from the file extension. Palettes read from a
// format without a palette name are named after the file.
func (c *Converter) ReadFile(ctx context.Context, path, from string) (*colour.Palette, error) {
	codec, method, err := c.resolve(path, from)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve format of %s: %w", path, err)
	}
	logger := c.logger.With("path", path, "format", codec.Name())

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open palette file: %w", err)
	}
	defer f.Close()
	data, err := security.ReadAll(f, MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	logger.Debug("read palette file", "bytes", len(data), "compression", method)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if method != compression.None {
		data, err = compression.Decompress(method, data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
		logger.Debug("decompressed palette file", "bytes", len(data))
	}

	p, err := codec.Decode(data)
	if err != nil && method == compression.None {
		if sniffed := compression.Sniff(data); sniffed != compression.None {
			if plain, derr := compression.Decompress(sniffed, data); derr == nil {
				logger.Debug("retrying decode of compressed data", "compression", sniffed)
				p, err = codec.Decode(plain)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if !codec.Capabilities().PaletteName && p.Name == "" {
		p.Name = baseName(path)
	}
	logger.Info("decoded palette", "name", p.Name, "swatches", p.Len(), "groups", len(p.Groups))
	return p, nil
}

// WriteFile encodes p and writes it to path. The format is taken from to when
// set, otherwise from the file extension. A .gz or .xz suffix compresses the
// output.
func (c *Converter) WriteFile(ctx context.Context, path, to string, p *colour.Palette) error {
	codec, method, err := c.resolve(path, to)
	if err != nil {
		return fmt.Errorf("failed to resolve format of %s: %w", path, err)
	}
	logger := c.logger.With("path", path, "format", codec.Name())

	for _, field := range Dropped(codec.Capabilities(), p) {
		logger.Warn("format cannot store " + field + ", it will be lost")
	}

	data, err := codec.Encode(p)
	if err != nil {
		if unsupported := Unsupported(codec.Capabilities(), p); len(unsupported) > 0 {
			logger.Error("palette uses colour spaces the format cannot store, filter them with --only",
				"spaces", joinSpaces(unsupported))
		}
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if method != compression.None {
		data, err = compression.Compress(method, data)
		if err != nil {
			return fmt.Errorf("failed to compress %s: %w", path, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write palette file: %w", err)
	}
	logger.Info("wrote palette", "name", p.Name, "swatches", p.Len(), "bytes", len(data))
	return nil
}

// Convert reads in, applies opts and writes the result to out.
func (c *Converter) Convert(ctx context.Context, in, out string, from, to string, opts Options) error {
	p, err := c.ReadFile(ctx, in, from)
	if err != nil {
		return err
	}
	p = opts.Apply(p)
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.WriteFile(ctx, out, to, p)
}

// Merge reads every input and combines them into one palette called name,
// one group per input.
func (c *Converter) Merge(ctx context.Context, name, from string, inputs ...string) (*colour.Palette, error) {
	palettes := make([]*colour.Palette, 0, len(inputs))
	for _, in := range inputs {
		p, err := c.ReadFile(ctx, in, from)
		if err != nil {
			return nil, err
		}
		palettes = append(palettes, p)
	}
	merged := colour.Merge(name, palettes...)
	c.logger.Debug("merged palettes", "inputs", len(inputs), "swatches", merged.Len())
	return merged, nil
}

// Dropped lists the parts of p that a format with caps cannot store.
func Dropped(caps format.Capabilities, p *colour.Palette) []string {
	var dropped []string
	if !caps.PaletteName && p.Name != "" {
		dropped = append(dropped, "the palette name")
	}
	if !caps.Groups && len(p.Groups) > 0 {
		dropped = append(dropped, "groups")
	}

	var named, spot bool
	for _, s := range p.All() {
		named = named || s.Name != ""
		spot = spot || s.Spot
	}
	if !caps.Names && named {
		dropped = append(dropped, "swatch names")
	}
	if !caps.Spot && spot {
		dropped = append(dropped, "spot flags")
	}
	return dropped
}

// Unsupported lists the colour spaces used by p that a format with caps
// cannot store.
func Unsupported(caps format.Capabilities, p *colour.Palette) []colour.Space {
	var out []colour.Space
	for _, space := range p.Spaces() {
		if !caps.SupportsSpace(space) {
			out = append(out, space)
		}
	}
	return out
}

func joinSpaces(spaces []colour.Space) string {
	names := make([]string, len(spaces))
	for i, s := range spaces {
		names[i] = s.String()
	}
	return strings.Join(names, ",")
}

// baseName returns the file name without directories, compression suffix or
// format extension.
func baseName(path string) string {
	_, stripped := compression.Detect(filepath.Base(path))
	return strings.TrimSuffix(stripped, filepath.Ext(stripped))
}
