// Package gpl reads and writes GIMP palette (.gpl) files.
//
// A GIMP palette is a UTF-8 text file starting with the line "GIMP Palette",
// followed by optional "Key: value" metadata lines (Name, Columns) and one
// line per colour: three integers in [0,255] and an optional name. Lines
// starting with '#' are comments.
package gpl

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/justjanne/palettelib/pkg/colour"
)

// Name is the format identifier.
const Name = "gpl"

// Header is the mandatory first line of a GIMP palette.
const Header = "GIMP Palette"

// maxColumns is the largest Columns value GIMP accepts.
const maxColumns = 256

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode parses a GIMP palette. Offsets in errors are 1-based line numbers.
func Decode(data []byte) (*colour.Palette, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, colour.Malformed(Name, -1, "input is not valid UTF-8")
	}

	p := &colour.Palette{}
	header := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !header {
			if line != Header {
				return nil, colour.Malformed(Name, lineNum, "missing %q header", Header)
			}
			header = true
			continue
		}

		if isSwatchLine(line) {
			swatch, err := parseSwatch(line)
			if err != nil {
				return nil, colour.MalformedErr(Name, lineNum, err, "invalid colour entry")
			}
			p.Swatches = append(p.Swatches, swatch)
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, colour.Malformed(Name, lineNum, "unrecognised line %q", line)
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			p.Name = value
		case "columns":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 || n > maxColumns {
				return nil, colour.Malformed(Name, lineNum, "invalid column count %q", value)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, colour.MalformedErr(Name, lineNum, err, "failed to read input")
	}
	if !header {
		return nil, colour.Malformed(Name, -1, "missing %q header", Header)
	}

	return p, nil
}

// isSwatchLine reports whether a line starts with a channel value rather than
// a metadata key.
func isSwatchLine(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsDigit(r) || r == '-' || r == '+'
}

// parseSwatch parses "R G B [name]".
func parseSwatch(line string) (colour.Swatch, error) {
	var channels [3]float64
	rest := line
	for i := range channels {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			end = len(rest)
		}
		field := rest[:end]
		rest = rest[end:]
		if field == "" {
			return colour.Swatch{}, fmt.Errorf("expected 3 colour values, got %d", i)
		}

		v, err := strconv.Atoi(field)
		if err != nil {
			return colour.Swatch{}, fmt.Errorf("channel %d: %q is not an integer", i, field)
		}
		if v < 0 || v > 255 {
			return colour.Swatch{}, fmt.Errorf("channel %d: %d out of range [0,255]", i, v)
		}
		channels[i] = float64(v)
	}

	return colour.Swatch{
		Name:   strings.TrimSpace(rest),
		Colour: colour.RGB(channels[0], channels[1], channels[2]),
	}, nil
}

// Encode writes a GIMP palette. Groups are flattened after the ungrouped
// swatches, each introduced by a comment line. Channels are rounded to the
// nearest integer; spot flags are not representable and are dropped. Palette
// and swatch names must not contain line breaks or surrounding whitespace.
func Encode(p *colour.Palette) ([]byte, error) {
	if err := colour.CheckEncodable(Name, p); err != nil {
		return nil, err
	}
	if err := checkName("palette", p.Name); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(Header + "\n")
	if p.Name != "" {
		fmt.Fprintf(&buf, "Name: %s\n", p.Name)
	}
	if n := p.Len(); n > 0 {
		fmt.Fprintf(&buf, "Columns: %d\n", min(n, 16))
	}
	buf.WriteString("#\n")

	if err := writeSwatches(&buf, p.Swatches); err != nil {
		return nil, err
	}
	for _, g := range p.Groups {
		if strings.ContainsAny(g.Name, "\r\n") {
			return nil, colour.Unsupported(Name, "group name %q contains a line break", g.Name)
		}
		if g.Name != "" {
			fmt.Fprintf(&buf, "# %s\n", g.Name)
		}
		if err := writeSwatches(&buf, g.Swatches); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// writeSwatches writes one line per swatch.
func writeSwatches(buf *bytes.Buffer, swatches []colour.Swatch) error {
	for _, s := range swatches {
		if s.Colour.Space != colour.SpaceRGB {
			return colour.Unsupported(Name, "swatch %q is %s, only rgb is supported", s.Name, s.Colour.Space)
		}
		if err := checkName("swatch", s.Name); err != nil {
			return err
		}

		r := int(math.Round(s.Colour.Channels[0]))
		g := int(math.Round(s.Colour.Channels[1]))
		b := int(math.Round(s.Colour.Channels[2]))
		if s.Name == "" {
			fmt.Fprintf(buf, "%3d %3d %3d\n", r, g, b)
		} else {
			fmt.Fprintf(buf, "%3d %3d %3d %s\n", r, g, b, s.Name)
		}
	}
	return nil
}

// checkName rejects names that Decode would not read back unchanged. Names
// end at the line break and surrounding whitespace is trimmed.
func checkName(kind, name string) error {
	if strings.ContainsAny(name, "\r\n") {
		return colour.Unsupported(Name, "%s name %q contains a line break", kind, name)
	}
	if strings.TrimSpace(name) != name {
		return colour.Unsupported(Name, "%s name %q has leading or trailing whitespace", kind, name)
	}
	return nil
}
