// Package ase reads and writes Adobe Swatch Exchange (.ase) files.
//
// An ASE file starts with the signature "ASEF", a version and a block count,
// followed by length-prefixed blocks: group start, group end and colour
// entry. Groups cannot nest.
package ase

import (
	"fmt"
	"math"

	"github.com/justjanne/palettelib/pkg/colour"
	"github.com/justjanne/palettelib/pkg/format/cursor"
)

// Name is the format identifier.
const Name = "ase"

// Signature is the magic at the start of every ASE file.
const Signature = "ASEF"

// Block types.
const (
	BlockGroupStart uint16 = 0xC001
	BlockGroupEnd   uint16 = 0xC002
	BlockColour     uint16 = 0x0001
)

// Colour types stored after the channels of a colour entry.
const (
	TypeGlobal  uint16 = 0
	TypeSpot    uint16 = 1
	TypeProcess uint16 = 2
)

// Colour model tags.
const (
	modelCMYK = "CMYK"
	modelRGB  = "RGB "
	modelLAB  = "LAB "
	modelGray = "Gray"
)

const (
	versionMajor = 1
	versionMinor = 0
	headerSize   = 12
	blockHeader  = 6
)

// Decode parses an ASE file.
func Decode(data []byte) (*colour.Palette, error) {
	r := cursor.NewReader(Name, data)

	sig, err := r.Tag()
	if err != nil {
		return nil, err
	}
	if sig != Signature {
		return nil, colour.Malformed(Name, 0, "bad signature %q", sig)
	}
	major, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if major != versionMajor {
		return nil, colour.Malformed(Name, 4, "unsupported version %d", major)
	}
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	count, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if uint64(count)*blockHeader > uint64(r.Remaining()) {
		return nil, r.Malformed("block count %d exceeds remaining %d bytes", count, r.Remaining())
	}

	p := &colour.Palette{}
	var group *colour.Group
	for range count {
		start := r.Offset()
		typ, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		length, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		if int64(length) > int64(r.Remaining()) {
			return nil, r.Malformed("block length %d exceeds remaining %d bytes", length, r.Remaining())
		}
		body, err := r.Sub(int(length))
		if err != nil {
			return nil, err
		}

		switch typ {
		case BlockGroupStart:
			if group != nil {
				return nil, colour.Malformed(Name, start, "group start inside group %q", group.Name)
			}
			name, err := readName(body)
			if err != nil {
				return nil, err
			}
			group = &colour.Group{Name: name}
		case BlockGroupEnd:
			if group == nil {
				return nil, colour.Malformed(Name, start, "group end without group start")
			}
			p.Groups = append(p.Groups, *group)
			group = nil
		case BlockColour:
			s, err := readColour(body)
			if err != nil {
				return nil, err
			}
			if group != nil {
				group.Swatches = append(group.Swatches, s)
			} else {
				p.Swatches = append(p.Swatches, s)
			}
		default:
			return nil, colour.Malformed(Name, start, "unknown block type 0x%04X", typ)
		}
		if body.Remaining() > 0 {
			return nil, body.Malformed("%d unused bytes in block", body.Remaining())
		}
	}
	if group != nil {
		return nil, r.Malformed("group %q is not terminated", group.Name)
	}
	if r.Remaining() > 0 {
		return nil, r.Malformed("%d bytes of trailing data", r.Remaining())
	}

	return p, nil
}

// readName reads a uint16 length in UTF-16 units, terminator included,
// followed by the UTF-16BE string.
func readName(r *cursor.Reader) (string, error) {
	units, err := r.Uint16()
	if err != nil {
		return "", err
	}
	return r.UTF16(int(units))
}

func readColour(r *cursor.Reader) (colour.Swatch, error) {
	name, err := readName(r)
	if err != nil {
		return colour.Swatch{}, err
	}
	model, err := r.Tag()
	if err != nil {
		return colour.Swatch{}, err
	}

	var arity int
	switch model {
	case modelRGB, modelLAB:
		arity = 3
	case modelCMYK:
		arity = 4
	case modelGray:
		arity = 1
	default:
		return colour.Swatch{}, r.Malformed("unknown colour model %q", model)
	}

	at := r.Offset()
	var ch [4]float64
	for i := range arity {
		f, err := r.Float32()
		if err != nil {
			return colour.Swatch{}, err
		}
		ch[i] = float64(f)
		if math.IsNaN(ch[i]) {
			return colour.Swatch{}, colour.Malformed(Name, at, "channel %d is NaN", i)
		}
	}

	var v colour.Value
	switch model {
	case modelRGB:
		if !unit(ch[:3]...) {
			return colour.Swatch{}, colour.Malformed(Name, at, "rgb channels %v out of range [0,1]", ch[:3])
		}
		v = colour.RGB(ch[0]*255, ch[1]*255, ch[2]*255)
	case modelCMYK:
		if !unit(ch[:]...) {
			return colour.Swatch{}, colour.Malformed(Name, at, "cmyk channels %v out of range [0,1]", ch)
		}
		v = colour.CMYK(ch[0]*100, ch[1]*100, ch[2]*100, ch[3]*100)
	case modelLAB:
		if !unit(ch[0]) || ch[1] < -128 || ch[1] > 127 || ch[2] < -128 || ch[2] > 127 {
			return colour.Swatch{}, colour.Malformed(Name, at, "lab channels %v out of range", ch[:3])
		}
		v = colour.LABFromCIE(ch[0]*100, ch[1], ch[2])
	case modelGray:
		if !unit(ch[0]) {
			return colour.Swatch{}, colour.Malformed(Name, at, "gray channel %g out of range [0,1]", ch[0])
		}
		v = colour.Gray(ch[0] * 100)
	}

	typ, err := r.Uint16()
	if err != nil {
		return colour.Swatch{}, err
	}
	if typ > TypeProcess {
		return colour.Swatch{}, r.Malformed("unknown colour type %d", typ)
	}

	return colour.Swatch{Name: name, Spot: typ == TypeSpot, Colour: v}, nil
}

func unit(vs ...float64) bool {
	for _, v := range vs {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Encode writes an ASE file: each group as a group start block, its colour
// entries and a group end block, followed by the ungrouped swatches. The
// palette name is dropped.
func Encode(p *colour.Palette) ([]byte, error) {
	if err := colour.CheckEncodable(Name, p); err != nil {
		return nil, err
	}

	blocks := len(p.Swatches)
	for _, g := range p.Groups {
		blocks += len(g.Swatches) + 2
	}
	if uint64(blocks) > math.MaxUint32 {
		return nil, colour.Unsupported(Name, "%d blocks exceed the format limit", blocks)
	}

	w := cursor.NewWriter(headerSize + blocks*40)
	w.Write([]byte(Signature))
	w.Uint16(versionMajor)
	w.Uint16(versionMinor)
	w.Uint32(uint32(blocks))

	for _, g := range p.Groups {
		body := cursor.NewWriter(len(g.Name)*2 + 4)
		if err := writeName(body, g.Name); err != nil {
			return nil, colour.UnsupportedErr(Name, err, "group %q", g.Name)
		}
		writeBlock(w, BlockGroupStart, body)
		for _, s := range g.Swatches {
			if err := writeColour(w, s); err != nil {
				return nil, err
			}
		}
		writeBlock(w, BlockGroupEnd, nil)
	}
	for _, s := range p.Swatches {
		if err := writeColour(w, s); err != nil {
			return nil, err
		}
	}

	return w.Bytes(), nil
}

func writeBlock(w *cursor.Writer, typ uint16, body *cursor.Writer) {
	w.Uint16(typ)
	if body == nil {
		w.Uint32(0)
		return
	}
	w.Uint32(uint32(body.Len()))
	w.Write(body.Bytes())
}

func writeName(w *cursor.Writer, name string) error {
	b, err := cursor.EncodeUTF16(name)
	if err != nil {
		return err
	}
	units := len(b)/2 + 1
	if units > math.MaxUint16 {
		return fmt.Errorf("name is %d UTF-16 units long, the limit is %d", units, math.MaxUint16)
	}
	w.Uint16(uint16(units))
	w.Write(b)
	w.Uint16(0)
	return nil
}

func writeColour(w *cursor.Writer, s colour.Swatch) error {
	body := cursor.NewWriter(len(s.Name)*2 + 24)
	if err := writeName(body, s.Name); err != nil {
		return colour.UnsupportedErr(Name, err, "swatch %q", s.Name)
	}

	c := s.Colour.Channels
	switch s.Colour.Space {
	case colour.SpaceRGB:
		body.Write([]byte(modelRGB))
		for _, ch := range c[:3] {
			body.Float32(float32(ch / 255))
		}
	case colour.SpaceCMYK:
		body.Write([]byte(modelCMYK))
		for _, ch := range c {
			body.Float32(float32(ch / 100))
		}
	case colour.SpaceLAB:
		l, a, b := s.Colour.CIE()
		body.Write([]byte(modelLAB))
		body.Float32(float32(l / 100))
		body.Float32(float32(a))
		body.Float32(float32(b))
	case colour.SpaceGray:
		body.Write([]byte(modelGray))
		body.Float32(float32(c[0] / 100))
	default:
		return colour.Unsupported(Name, "swatch %q has no colour", s.Name)
	}

	if s.Spot {
		body.Uint16(TypeSpot)
	} else {
		body.Uint16(TypeProcess)
	}
	writeBlock(w, BlockColour, body)
	return nil
}
