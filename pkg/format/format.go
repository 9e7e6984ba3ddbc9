// Package format provides the palette format dispatcher: a static table of
// codecs that selects a decoder and encoder by name, extension or file path.
package format

import (
	"github.com/justjanne/palettelib/pkg/colour"
	"github.com/justjanne/palettelib/pkg/format/aco"
	"github.com/justjanne/palettelib/pkg/format/act"
	"github.com/justjanne/palettelib/pkg/format/ase"
	"github.com/justjanne/palettelib/pkg/format/gpl"
	"github.com/justjanne/palettelib/pkg/format/kpl"
	"github.com/justjanne/palettelib/pkg/format/schema"
)

// Capabilities describes which parts of the palette model a format can store.
// Anything a format cannot store is dropped on encode (names, spot flags,
// the palette name) or flattened (groups).
type Capabilities struct {
	PaletteName bool
	Names       bool
	Spot        bool
	Groups      bool
	Spaces      []colour.Space
}

// SupportsSpace reports whether the format can store values in space.
func (c Capabilities) SupportsSpace(space colour.Space) bool {
	for _, s := range c.Spaces {
		if s == space {
			return true
		}
	}
	return false
}

// Codec is a decoder/encoder pair for one palette format.
type Codec interface {
	// Name returns the format identifier (e.g., "gpl", "ase").
	Name() string

	// Description returns a human-readable description of the format.
	Description() string

	// Extensions returns the file extensions handled, including the dot.
	Extensions() []string

	// Capabilities describes what the format can represent.
	Capabilities() Capabilities

	// Decode parses a complete file into a palette.
	Decode(data []byte) (*colour.Palette, error)

	// Encode serializes a palette into a complete file.
	Encode(p *colour.Palette) ([]byte, error)
}

// funcCodec is a Codec built from a pair of package-level functions.
type funcCodec struct {
	name        string
	description string
	extensions  []string
	caps        Capabilities
	decode      func([]byte) (*colour.Palette, error)
	encode      func(*colour.Palette) ([]byte, error)
}

func (c *funcCodec) Name() string               { return c.name }
func (c *funcCodec) Description() string        { return c.description }
func (c *funcCodec) Extensions() []string       { return append([]string(nil), c.extensions...) }
func (c *funcCodec) Capabilities() Capabilities { return c.caps }

func (c *funcCodec) Decode(data []byte) (*colour.Palette, error) { return c.decode(data) }

func (c *funcCodec) Encode(p *colour.Palette) ([]byte, error) { return c.encode(p) }

// Builtin returns the built-in codecs in a fixed order.
func Builtin() []Codec {
	all := colour.Spaces
	return []Codec{
		&funcCodec{
			name:        gpl.Name,
			description: "GIMP palette (text, RGB)",
			extensions:  []string{".gpl"},
			caps:        Capabilities{PaletteName: true, Names: true, Spaces: []colour.Space{colour.SpaceRGB}},
			decode:      gpl.Decode,
			encode:      gpl.Encode,
		},
		&funcCodec{
			name:        act.Name,
			description: "Adobe Color Table (binary, up to 256 RGB colours)",
			extensions:  []string{".act"},
			caps:        Capabilities{Spaces: []colour.Space{colour.SpaceRGB}},
			decode:      act.Decode,
			encode:      act.Encode,
		},
		&funcCodec{
			name:        aco.Name,
			description: "Adobe Photoshop colour swatches (binary)",
			extensions:  []string{".aco"},
			caps:        Capabilities{Names: true, Spaces: all},
			decode:      aco.Decode,
			encode:      aco.Encode,
		},
		&funcCodec{
			name:        ase.Name,
			description: "Adobe Swatch Exchange (binary, grouped)",
			extensions:  []string{".ase"},
			caps:        Capabilities{Names: true, Spot: true, Groups: true, Spaces: all},
			decode:      ase.Decode,
			encode:      ase.Encode,
		},
		&funcCodec{
			name:        kpl.Name,
			description: "Krita palette (zip archive with XML colour set)",
			extensions:  []string{".kpl"},
			caps:        Capabilities{PaletteName: true, Names: true, Spot: true, Groups: true, Spaces: all},
			decode:      kpl.Decode,
			encode:      kpl.Encode,
		},
		&funcCodec{
			name:        schema.JSONName,
			description: "Palette document (JSON)",
			extensions:  []string{".json", ".palette.json"},
			caps:        Capabilities{PaletteName: true, Names: true, Spot: true, Groups: true, Spaces: all},
			decode:      schema.DecodeJSON,
			encode:      schema.EncodeJSON,
		},
		&funcCodec{
			name:        schema.YAMLName,
			description: "Palette document (YAML)",
			extensions:  []string{".yaml", ".yml", ".palette.yaml"},
			caps:        Capabilities{PaletteName: true, Names: true, Spot: true, Groups: true, Spaces: all},
			decode:      schema.DecodeYAML,
			encode:      schema.EncodeYAML,
		},
	}
}

// planned maps identifiers of formats that are known but not implemented to
// a display name, so that lookups can say so.
var planned = map[string]string{
	"riff":         "RIFF palette",
	".pal":         "RIFF palette",
	"psp":          "Paint Shop Pro palette",
	".psppalette":  "Paint Shop Pro palette",
	"swatchbooker": "SwatchBooker",
	"sbz":          "SwatchBooker",
	".sbz":         "SwatchBooker",
	"affinity":     "Affinity palette",
	"afpalette":    "Affinity palette",
	".afpalette":   "Affinity palette",
}
