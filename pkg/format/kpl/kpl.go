// Package kpl reads and writes Krita palette (.kpl) files.
//
// A KPL file is a zip archive holding a "mimetype" entry, a "colorset.xml"
// document describing the swatches and a "profiles.xml" document listing
// embedded ICC profiles. Profiles are not part of the palette model and are
// discarded on decode.
package kpl

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/justjanne/palettelib/internal/security"
	"github.com/justjanne/palettelib/pkg/colour"
)

// Name is the format identifier.
const Name = "kpl"

// MimeType is the content of the mimetype entry.
const MimeType = "krita/x-colorset"

// Archive entry names.
const (
	EntryMimeType = "mimetype"
	EntryColorSet = "colorset.xml"
	EntryProfiles = "profiles.xml"
)

// maxExponent bounds the exponent accepted in channel values.
const maxExponent = 400

// maxEntrySize bounds the decompressed size of any entry read.
const maxEntrySize = 16 * 1024 * 1024

// modTime is stamped on every entry so output is reproducible.
var modTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

type colorSet struct {
	XMLName  xml.Name        `xml:"ColorSet"`
	Name     string          `xml:"name,attr"`
	Version  string          `xml:"version,attr"`
	Columns  int             `xml:"columns,attr"`
	ReadOnly string          `xml:"readonly,attr"`
	Entries  []colorSetEntry `xml:"ColorSetEntry"`
	Groups   []group         `xml:"Group"`
}

type group struct {
	Name    string          `xml:"name,attr"`
	Entries []colorSetEntry `xml:"ColorSetEntry"`
}

type colorSetEntry struct {
	Name     string    `xml:"name,attr"`
	ID       string    `xml:"id,attr,omitempty"`
	Spot     string    `xml:"spot,attr"`
	BitDepth string    `xml:"bitdepth,attr"`
	Colours  []element `xml:",any"`
}

// element is a colour child such as <sRGB r="1" g="0" b="0"/>.
type element struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
}

type profiles struct {
	XMLName xml.Name `xml:"Profiles"`
}

// Decode parses a KPL archive.
func Decode(data []byte) (*colour.Palette, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, colour.MalformedErr(Name, -1, err, "failed to open archive")
	}

	var doc []byte
	for _, f := range zr.File {
		if err := security.ValidateArchivePath(f.Name); err != nil {
			return nil, colour.MalformedErr(Name, -1, err, "unsafe archive entry")
		}
		switch f.Name {
		case EntryMimeType:
			mime, err := readEntry(f)
			if err != nil {
				return nil, err
			}
			if got := strings.TrimSpace(string(mime)); got != MimeType {
				return nil, colour.Malformed(Name, -1, "unexpected mimetype %q", got)
			}
		case EntryColorSet:
			if doc, err = readEntry(f); err != nil {
				return nil, err
			}
		}
	}
	if doc == nil {
		return nil, colour.Malformed(Name, -1, "archive has no %s entry", EntryColorSet)
	}

	var set colorSet
	if err := xml.Unmarshal(doc, &set); err != nil {
		return nil, colour.MalformedErr(Name, -1, err, "failed to parse %s", EntryColorSet)
	}

	p := &colour.Palette{Name: set.Name}
	for i, e := range set.Entries {
		s, err := e.swatch()
		if err != nil {
			return nil, colour.MalformedErr(Name, -1, err, "entry %d", i)
		}
		p.Swatches = append(p.Swatches, s)
	}
	for gi, g := range set.Groups {
		out := colour.Group{Name: g.Name}
		for i, e := range g.Entries {
			s, err := e.swatch()
			if err != nil {
				return nil, colour.MalformedErr(Name, -1, err, "group %d entry %d", gi, i)
			}
			out.Swatches = append(out.Swatches, s)
		}
		p.Groups = append(p.Groups, out)
	}

	return p, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, colour.MalformedErr(Name, -1, err, "failed to open %s", f.Name)
	}
	defer rc.Close()

	data, err := security.ReadAll(rc, maxEntrySize)
	if err != nil {
		return nil, colour.MalformedErr(Name, -1, err, "failed to read %s", f.Name)
	}
	return data, nil
}

func (e colorSetEntry) swatch() (colour.Swatch, error) {
	s := colour.Swatch{Name: e.Name}
	if e.Spot != "" {
		spot, err := strconv.ParseBool(e.Spot)
		if err != nil {
			return s, fmt.Errorf("invalid spot attribute %q", e.Spot)
		}
		s.Spot = spot
	}

	found := 0
	for _, el := range e.Colours {
		v, ok, err := el.value()
		if err != nil {
			return s, err
		}
		if !ok {
			continue
		}
		found++
		s.Colour = v
	}
	switch found {
	case 0:
		return s, fmt.Errorf("swatch %q has no colour", e.Name)
	case 1:
		return s, nil
	default:
		return s, fmt.Errorf("swatch %q has %d colours, want exactly one", e.Name, found)
	}
}

// value converts a colour element. ok is false for elements that are not
// colours.
func (el element) value() (v colour.Value, ok bool, err error) {
	var keys []string
	var space colour.Space
	switch el.XMLName.Local {
	case "sRGB", "RGB":
		space, keys = colour.SpaceRGB, []string{"r", "g", "b"}
	case "CMYK":
		space, keys = colour.SpaceCMYK, []string{"c", "m", "y", "k"}
	case "Lab":
		space, keys = colour.SpaceLAB, []string{"L", "a", "b"}
	case "Gray":
		space, keys = colour.SpaceGray, []string{"g"}
	case "XYZ", "YCbCr":
		return v, false, fmt.Errorf("unsupported colour model %s", el.XMLName.Local)
	default:
		return v, false, nil
	}

	channels := make([]float64, len(keys))
	for i, key := range keys {
		raw, found := el.attr(key)
		if !found && key == "L" {
			raw, found = el.attr("l")
		}
		if !found {
			return v, false, fmt.Errorf("%s element is missing attribute %q", el.XMLName.Local, key)
		}
		raw = strings.TrimSpace(raw)
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return v, false, fmt.Errorf("%s attribute %q: %w", el.XMLName.Local, key, err)
		}
		lo, hi := fileRange(space, i)
		if !(f >= lo && f <= hi) {
			return v, false, fmt.Errorf("%s attribute %q: %g out of range [%g,%g]", el.XMLName.Local, key, f, lo, hi)
		}
		channels[i], err = toModel(space, i, raw)
		if err != nil {
			return v, false, fmt.Errorf("%s attribute %q: %w", el.XMLName.Local, key, err)
		}
	}
	v, err = colour.FromComponents(space, channels)
	return v, err == nil, err
}

// fileRange returns the bounds of channel i of space as stored in colorset.xml.
func fileRange(space colour.Space, i int) (lo, hi float64) {
	if space != colour.SpaceLAB {
		return 0, 1
	}
	if i == 0 {
		return 0, 100
	}
	return -128, 127
}

// scaling maps a colorset.xml channel to model units as (file + off) * num / den.
type scaling struct {
	off      int64
	num, den int64
}

func scalingFor(space colour.Space, i int) scaling {
	switch {
	case space == colour.SpaceRGB:
		return scaling{num: 255, den: 1}
	case space == colour.SpaceLAB && i == 0:
		return scaling{num: 1, den: 100}
	case space == colour.SpaceLAB:
		return scaling{off: 128, num: 1, den: 255}
	default:
		return scaling{num: 100, den: 1}
	}
}

// toModel scales decimal text exactly and rounds once to float64.
func (sc scaling) toModel(raw string) (float64, error) {
	if i := strings.IndexAny(raw, "eE"); i >= 0 {
		if e, err := strconv.Atoi(raw[i+1:]); err != nil || e < -maxExponent || e > maxExponent {
			return 0, fmt.Errorf("invalid number %q", raw)
		}
	}
	r, ok := new(big.Rat).SetString(raw)
	if !ok {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	r.Add(r, big.NewRat(sc.off, 1))
	r.Mul(r, big.NewRat(sc.num, sc.den))
	f, _ := r.Float64()
	return f, nil
}

// fromModel returns the shortest decimal that toModel maps back to v, or a
// decimal precise enough to do so when no short one does.
func (sc scaling) fromModel(v float64) string {
	r := new(big.Rat).SetFloat64(v)
	r.Mul(r, big.NewRat(sc.den, sc.num))
	r.Sub(r, big.NewRat(sc.off, 1))

	approx, _ := r.Float64()
	for prec := 1; prec <= 17; prec++ {
		rounded, _ := strconv.ParseFloat(strconv.FormatFloat(approx, 'g', prec, 64), 64)
		if s := formatFloat(rounded); sc.roundTrips(s, v) {
			return s
		}
	}
	return decimalString(r)
}

func (sc scaling) roundTrips(s string, v float64) bool {
	got, err := sc.toModel(s)
	return err == nil && got == v
}

// toModel converts channel i of a colorset.xml value to model units.
func toModel(space colour.Space, i int, raw string) (float64, error) {
	return scalingFor(space, i).toModel(raw)
}

// fromModel formats channel i of a model value as colorset.xml text, such
// that toModel returns v again.
func fromModel(space colour.Space, i int, v float64) string {
	return scalingFor(space, i).fromModel(v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// decimalString formats r exactly when its denominator has no prime factors
// other than 2 and 5, else with 20 significant digits.
func decimalString(r *big.Rat) string {
	d := new(big.Int).Set(r.Denom())
	twos := int(d.TrailingZeroBits())
	d.Rsh(d, uint(twos))
	fives := 0
	five, one, rem := big.NewInt(5), big.NewInt(1), new(big.Int)
	for d.Cmp(one) > 0 {
		q, m := new(big.Int).QuoRem(d, five, rem)
		if m.Sign() != 0 {
			break
		}
		d = q
		fives++
	}

	places := max(twos, fives)
	if d.Cmp(one) > 0 {
		// log10(2) ~ 0.30103; one extra place covers the estimate's error.
		log2 := r.Num().BitLen() - r.Denom().BitLen()
		places = 20 + max(0, int(float64(-log2)*0.30103)+1)
	}
	s := r.FloatString(places)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

func (el element) attr(name string) (string, bool) {
	for _, a := range el.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Encode writes a KPL archive. The palette name is stored on the ColorSet.
func Encode(p *colour.Palette) ([]byte, error) {
	if err := colour.CheckEncodable(Name, p); err != nil {
		return nil, err
	}

	if err := validateName(p.Name); err != nil {
		return nil, colour.UnsupportedErr(Name, err, "palette name %q", p.Name)
	}
	for _, g := range p.Groups {
		if err := validateName(g.Name); err != nil {
			return nil, colour.UnsupportedErr(Name, err, "group name %q", g.Name)
		}
	}
	for _, sw := range p.All() {
		if err := validateName(sw.Name); err != nil {
			return nil, colour.UnsupportedErr(Name, err, "swatch name %q", sw.Name)
		}
	}

	set := colorSet{
		Name:     p.Name,
		Version:  "1.0",
		Columns:  min(max(p.Len(), 1), 16),
		ReadOnly: "false",
	}
	id := 0
	for _, s := range p.Swatches {
		set.Entries = append(set.Entries, entry(s, &id))
	}
	for _, g := range p.Groups {
		out := group{Name: g.Name}
		for _, s := range g.Swatches {
			out.Entries = append(out.Entries, entry(s, &id))
		}
		set.Groups = append(set.Groups, out)
	}

	doc, err := marshal(set)
	if err != nil {
		return nil, colour.UnsupportedErr(Name, err, "failed to encode %s", EntryColorSet)
	}
	prof, err := marshal(profiles{})
	if err != nil {
		return nil, colour.UnsupportedErr(Name, err, "failed to encode %s", EntryProfiles)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct {
		name   string
		method uint16
		data   []byte
	}{
		{EntryMimeType, zip.Store, []byte(MimeType)},
		{EntryColorSet, zip.Deflate, doc},
		{EntryProfiles, zip.Deflate, prof},
	}
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: e.method, Modified: modTime})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}

	return buf.Bytes(), nil
}

func entry(s colour.Swatch, id *int) colorSetEntry {
	e := colorSetEntry{
		Name:     s.Name,
		ID:       strconv.Itoa(*id),
		Spot:     strconv.FormatBool(s.Spot),
		BitDepth: "F32",
	}
	*id++

	local, names := "", []string(nil)
	switch s.Colour.Space {
	case colour.SpaceRGB:
		local, names = "sRGB", []string{"r", "g", "b"}
	case colour.SpaceCMYK:
		local, names = "CMYK", []string{"c", "m", "y", "k"}
	case colour.SpaceLAB:
		local, names = "Lab", []string{"L", "a", "b"}
	case colour.SpaceGray:
		local, names = "Gray", []string{"g"}
	}
	el := element{XMLName: xml.Name{Local: local}}
	for i, name := range names {
		el.Attrs = append(el.Attrs, xml.Attr{
			Name:  xml.Name{Local: name},
			Value: fromModel(s.Colour.Space, i, s.Colour.Channels[i]),
		})
	}
	e.Colours = []element{el}
	return e
}

func marshal(v any) ([]byte, error) {
	out, err := xml.MarshalIndent(v, "", "    ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

var errInvalidName = errors.New("name contains characters not allowed in XML")

// validateName rejects text that cannot survive an XML round trip.
func validateName(name string) error {
	if !utf8.ValidString(name) {
		return errInvalidName
	}
	for _, r := range name {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' || r == 0xFFFE || r == 0xFFFF {
			return errInvalidName
		}
	}
	return nil
}
