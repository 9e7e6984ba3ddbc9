// Package aco reads and writes Photoshop colour swatch (.aco) files.
//
// An ACO file holds a version 1 section (colours only) optionally followed by
// a version 2 section that repeats the colours with UTF-16 names. Each section
// is a uint16 version, a uint16 count and count records of a uint16 colour
// space id followed by four uint16 channel words.
package aco

import (
	"math"

	"github.com/justjanne/palettelib/pkg/colour"
	"github.com/justjanne/palettelib/pkg/format/cursor"
)

// Name is the format identifier.
const Name = "aco"

// Colour space ids used in records.
const (
	spaceRGB  = 0
	spaceHSB  = 1
	spaceCMYK = 2
	spaceLab  = 7
	spaceGray = 8
)

const (
	recordSize = 10
	maxRecords = math.MaxUint16
)

// Decode parses an ACO file. When both sections are present the named
// version 2 section is used.
func Decode(data []byte) (*colour.Palette, error) {
	r := cursor.NewReader(Name, data)

	swatches, version, err := readSection(r, 0)
	if err != nil {
		return nil, err
	}
	if version == 1 && r.Remaining() > 0 {
		swatches, _, err = readSection(r, 2)
		if err != nil {
			return nil, err
		}
	}
	if r.Remaining() > 0 {
		return nil, r.Malformed("%d bytes of trailing data", r.Remaining())
	}

	return &colour.Palette{Swatches: swatches}, nil
}

// readSection reads one section. want restricts the accepted version; 0
// accepts either.
func readSection(r *cursor.Reader, want uint16) ([]colour.Swatch, uint16, error) {
	start := r.Offset()
	version, err := r.Uint16()
	if err != nil {
		return nil, 0, err
	}
	if (version != 1 && version != 2) || (want != 0 && version != want) {
		return nil, 0, colour.Malformed(Name, start, "unexpected section version %d", version)
	}
	count, err := r.Uint16()
	if err != nil {
		return nil, 0, err
	}
	if int(count)*recordSize > r.Remaining() {
		return nil, 0, r.Malformed("section declares %d records, only %d bytes remain", count, r.Remaining())
	}

	swatches := make([]colour.Swatch, 0, count)
	for range int(count) {
		s, err := readRecord(r, version)
		if err != nil {
			return nil, 0, err
		}
		swatches = append(swatches, s)
	}
	return swatches, version, nil
}

func readRecord(r *cursor.Reader, version uint16) (colour.Swatch, error) {
	space, err := r.Uint16()
	if err != nil {
		return colour.Swatch{}, err
	}
	raw, err := r.Bytes(8)
	if err != nil {
		return colour.Swatch{}, err
	}
	w := func(i int) uint16 { return uint16(raw[2*i])<<8 | uint16(raw[2*i+1]) }

	var v colour.Value
	switch space {
	case spaceRGB:
		v = colour.RGB(float64(w(0))/257, float64(w(1))/257, float64(w(2))/257)
	case spaceCMYK:
		v = colour.CMYK(word100(w(0)), word100(w(1)), word100(w(2)), word100(w(3)))
	case spaceLab:
		l := float64(w(0)) / 100
		a := float64(int16(w(1))) / 100
		b := float64(int16(w(2))) / 100
		if l > 100 || a < -128 || a > 127 || b < -128 || b > 127 {
			return colour.Swatch{}, r.Malformed("lab value (%g, %g, %g) out of range", l, a, b)
		}
		v = colour.LABFromCIE(l, a, b)
	case spaceGray:
		k := float64(w(0)) / 100
		if k > 100 {
			return colour.Swatch{}, r.Malformed("gray value %g out of range", k)
		}
		v = colour.Gray(k)
	case spaceHSB:
		return colour.Swatch{}, r.Malformed("hsb colours are not supported")
	default:
		return colour.Swatch{}, r.Malformed("unknown colour space %d", space)
	}

	s := colour.Swatch{Colour: v}
	if version == 2 {
		units, err := r.Uint32()
		if err != nil {
			return colour.Swatch{}, err
		}
		if units > uint32(r.Remaining()/2) {
			return colour.Swatch{}, r.Malformed("name of %d units exceeds remaining %d bytes", units, r.Remaining())
		}
		s.Name, err = r.UTF16(int(units))
		if err != nil {
			return colour.Swatch{}, err
		}
	}
	return s, nil
}

func word100(w uint16) float64 {
	return float64(w) / math.MaxUint16 * 100
}

// Encode writes a version 1 section followed by a version 2 section. Groups
// are flattened after the ungrouped swatches; spot flags and the palette name
// are dropped.
func Encode(p *colour.Palette) ([]byte, error) {
	if err := colour.CheckEncodable(Name, p); err != nil {
		return nil, err
	}
	swatches := p.Flatten()
	if len(swatches) > maxRecords {
		return nil, colour.Unsupported(Name, "%d swatches exceed the limit of %d", len(swatches), maxRecords)
	}

	names := make([][]byte, len(swatches))
	size := 8 + 2*len(swatches)*recordSize
	for i, s := range swatches {
		b, err := cursor.EncodeUTF16(s.Name)
		if err != nil {
			return nil, colour.UnsupportedErr(Name, err, "swatch %d", i)
		}
		names[i] = b
		size += 4 + len(b) + 2
	}

	w := cursor.NewWriter(size)
	for _, version := range []uint16{1, 2} {
		w.Uint16(version)
		w.Uint16(uint16(len(swatches)))
		for i, s := range swatches {
			writeRecord(w, s.Colour)
			if version == 1 {
				continue
			}
			if s.Name == "" {
				w.Uint32(0)
				continue
			}
			w.Uint32(uint32(len(names[i])/2 + 1))
			w.Write(names[i])
			w.Uint16(0)
		}
	}
	return w.Bytes(), nil
}

func writeRecord(w *cursor.Writer, v colour.Value) {
	c := v.Channels
	switch v.Space {
	case colour.SpaceRGB:
		w.Uint16(spaceRGB)
		for _, ch := range c[:3] {
			w.Uint16(uint16(math.Round(ch * 257)))
		}
		w.Uint16(0)
	case colour.SpaceCMYK:
		w.Uint16(spaceCMYK)
		for _, ch := range c {
			w.Uint16(uint16(math.Round(ch / 100 * math.MaxUint16)))
		}
	case colour.SpaceLAB:
		l, a, b := v.CIE()
		w.Uint16(spaceLab)
		w.Uint16(uint16(math.Round(l * 100)))
		w.Int16(int16(math.Round(a * 100)))
		w.Int16(int16(math.Round(b * 100)))
		w.Uint16(0)
	case colour.SpaceGray:
		w.Uint16(spaceGray)
		w.Uint16(uint16(math.Round(c[0] * 100)))
		w.Uint16(0)
		w.Uint16(0)
		w.Uint16(0)
	}
}
