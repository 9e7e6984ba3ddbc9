// Package act reads and writes Adobe Color Table (.act) files.
//
// An ACT file is a table of 256 RGB triplets, optionally followed by a four
// byte footer holding the number of colours in use and the index of the
// transparent colour (0xFFFF for none). ACT stores no names, groups or spot
// flags; those are dropped on encode.
package act

import (
	"math"

	"github.com/justjanne/palettelib/pkg/colour"
	"github.com/justjanne/palettelib/pkg/format/cursor"
)

// Name is the format identifier.
const Name = "act"

const (
	// MaxColours is the size of the colour table.
	MaxColours = 256
	// TableSize is the size of the colour table in bytes.
	TableSize = MaxColours * 3
	// FileSize is the size of a table followed by the footer.
	FileSize = TableSize + 4
	// NoTransparency marks a footer without a transparent colour.
	NoTransparency = 0xFFFF
)

// Decode parses an ACT file. Files without a footer must hold at least one
// triplet.
func Decode(data []byte) (*colour.Palette, error) {
	r := cursor.NewReader(Name, data)

	var count int
	switch {
	case len(data) == FileSize:
		footer := cursor.NewReader(Name, data)
		if err := footer.Skip(TableSize); err != nil {
			return nil, err
		}
		n, err := footer.Uint16()
		if err != nil {
			return nil, err
		}
		if n > MaxColours {
			return nil, footer.Malformed("colour count %d exceeds %d", n, MaxColours)
		}
		transparent, err := footer.Uint16()
		if err != nil {
			return nil, err
		}
		if transparent != NoTransparency && int(transparent) >= MaxColours {
			return nil, footer.Malformed("transparency index %d out of range", transparent)
		}
		count = int(n)
	case len(data) > 0 && len(data) <= TableSize && len(data)%3 == 0:
		count = len(data) / 3
	default:
		return nil, r.Malformed("unexpected file size %d: want %d, %d, or a positive multiple of 3 up to %d", len(data), FileSize, TableSize, TableSize)
	}

	p := &colour.Palette{Swatches: make([]colour.Swatch, 0, count)}
	for range count {
		rgb, err := r.Bytes(3)
		if err != nil {
			return nil, err
		}
		p.Swatches = append(p.Swatches, colour.Swatch{
			Colour: colour.RGB(float64(rgb[0]), float64(rgb[1]), float64(rgb[2])),
		})
	}

	return p, nil
}

// Encode writes a full 772 byte ACT file. Groups are flattened after the
// ungrouped swatches; names and spot flags are dropped. Channels are rounded
// to the nearest integer.
func Encode(p *colour.Palette) ([]byte, error) {
	if err := colour.CheckEncodable(Name, p); err != nil {
		return nil, err
	}
	swatches := p.Flatten()
	if len(swatches) > MaxColours {
		return nil, colour.Unsupported(Name, "%d swatches exceed the limit of %d", len(swatches), MaxColours)
	}

	w := cursor.NewWriter(FileSize)
	for _, s := range swatches {
		if s.Colour.Space != colour.SpaceRGB {
			return nil, colour.Unsupported(Name, "swatch %q is %s, only rgb is supported", s.Name, s.Colour.Space)
		}
		for _, c := range s.Colour.Channels[:3] {
			w.Uint8(uint8(math.Round(c)))
		}
	}
	w.Write(make([]byte, TableSize-w.Len()))
	w.Uint16(uint16(len(swatches)))
	w.Uint16(NoTransparency)

	return w.Bytes(), nil
}
