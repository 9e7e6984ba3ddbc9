package kpl

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/justjanne/palettelib/pkg/colour"
	"github.com/justjanne/palettelib/pkg/format/formattest"
)

type archiveEntry struct {
	name string
	data string
}

func archive(t *testing.T, entries ...archiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", e.name, err)
		}
		if _, err := io.WriteString(w, e.data); err != nil {
			t.Fatalf("failed to write %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}
	return buf.Bytes()
}

const kritaColorSet = `<?xml version="1.0" encoding="UTF-8"?>
<ColorSet name="Krita" version="2.0" columns="8" rows="2" readonly="false" comment="">
 <ColorSetEntry name="Red" id="1" spot="false" bitdepth="U8">
  <sRGB r="1" g="0" b="0"/>
  <Position row="0" column="0"/>
 </ColorSetEntry>
 <ColorSetEntry name="Ink" id="2" spot="true" bitdepth="F32">
  <CMYK c="0" m="0.5" y="1" k="0.25"/>
 </ColorSetEntry>
 <Group name="Neutrals" rows="1">
  <ColorSetEntry name="Grey" id="3" spot="false" bitdepth="U16">
   <Gray g="0.5"/>
  </ColorSetEntry>
  <ColorSetEntry name="Mid" id="4" spot="false" bitdepth="F32">
   <Lab L="50" a="-20" b="10"/>
  </ColorSetEntry>
 </Group>
</ColorSet>
`

func TestDecode(t *testing.T) {
	data := archive(t,
		archiveEntry{EntryMimeType, MimeType},
		archiveEntry{EntryColorSet, kritaColorSet},
		archiveEntry{EntryProfiles, "<Profiles/>"},
		archiveEntry{"sRGB.icc", "\x00\x01"},
	)

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	want := &colour.Palette{
		Name: "Krita",
		Swatches: []colour.Swatch{
			{Name: "Red", Colour: colour.RGB(255, 0, 0)},
			{Name: "Ink", Spot: true, Colour: colour.CMYK(0, 50, 100, 25)},
		},
		Groups: []colour.Group{{Name: "Neutrals", Swatches: []colour.Swatch{
			{Name: "Grey", Colour: colour.Gray(50)},
			{Name: "Mid", Colour: colour.LABFromCIE(50, -20, 10)},
		}}},
	}
	if diff := cmp.Diff(*want, *got, formattest.Approx(1e-9)); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMalformed(t *testing.T) {
	colorSet := func(body string) string {
		return `<ColorSet name="x">` + body + `</ColorSet>`
	}

	tests := []struct {
		name    string
		entries []archiveEntry
		raw     []byte
	}{
		{name: "not a zip", raw: []byte("GIMP Palette\n")},
		{name: "missing colorset", entries: []archiveEntry{{EntryMimeType, MimeType}}},
		{name: "wrong mimetype", entries: []archiveEntry{{EntryMimeType, "application/zip"}, {EntryColorSet, colorSet("")}}},
		{name: "bad xml", entries: []archiveEntry{{EntryColorSet, "<ColorSet"}}},
		{name: "wrong root", entries: []archiveEntry{{EntryColorSet, "<Palette/>"}}},
		{name: "entry without colour", entries: []archiveEntry{{EntryColorSet, colorSet(`<ColorSetEntry name="a"/>`)}}},
		{name: "entry with two colours", entries: []archiveEntry{{EntryColorSet, colorSet(`<ColorSetEntry><Gray g="0"/><Gray g="1"/></ColorSetEntry>`)}}},
		{name: "missing channel", entries: []archiveEntry{{EntryColorSet, colorSet(`<ColorSetEntry><sRGB r="1" g="0"/></ColorSetEntry>`)}}},
		{name: "non numeric channel", entries: []archiveEntry{{EntryColorSet, colorSet(`<ColorSetEntry><Gray g="dark"/></ColorSetEntry>`)}}},
		{name: "rgb out of range", entries: []archiveEntry{{EntryColorSet, colorSet(`<ColorSetEntry><sRGB r="1.2" g="0" b="0"/></ColorSetEntry>`)}}},
		{name: "lab out of range", entries: []archiveEntry{{EntryColorSet, colorSet(`<ColorSetEntry><Lab L="101" a="0" b="0"/></ColorSetEntry>`)}}},
		{name: "xyz colour", entries: []archiveEntry{{EntryColorSet, colorSet(`<ColorSetEntry><XYZ x="0" y="0" z="0"/></ColorSetEntry>`)}}},
		{name: "bad spot flag", entries: []archiveEntry{{EntryColorSet, colorSet(`<ColorSetEntry spot="maybe"><Gray g="0"/></ColorSetEntry>`)}}},
		{name: "huge exponent", entries: []archiveEntry{{EntryColorSet, colorSet(`<ColorSetEntry><Gray g="1e-999999999"/></ColorSetEntry>`)}}},
		{name: "traversal entry", entries: []archiveEntry{{"../colorset.xml", colorSet("")}, {EntryColorSet, colorSet("")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.raw
			if data == nil {
				data = archive(t, tt.entries...)
			}
			_, err := Decode(data)
			if !errors.Is(err, colour.ErrMalformedInput) {
				t.Errorf("Decode() error = %v, want ErrMalformedInput", err)
			}
		})
	}
}

func TestEncodeArchive(t *testing.T) {
	data, err := Encode(colour.NewPalette("Mine", colour.Swatch{Name: "Red", Colour: colour.RGB(255, 0, 0)}))
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error: %v", err)
	}

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{EntryMimeType, EntryColorSet, EntryProfiles}, names); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if zr.File[0].Method != zip.Store {
		t.Errorf("mimetype method = %d, want stored", zr.File[0].Method)
	}

	rc, err := zr.File[1].Open()
	if err != nil {
		t.Fatalf("failed to open colorset: %v", err)
	}
	defer rc.Close()
	doc, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("failed to read colorset: %v", err)
	}
	for _, want := range []string{`<ColorSet name="Mine"`, `<ColorSetEntry name="Red" id="0" spot="false" bitdepth="F32">`, `<sRGB r="1" g="0" b="0"></sRGB>`} {
		if !strings.Contains(string(doc), want) {
			t.Errorf("colorset.xml missing %q:\n%s", want, doc)
		}
	}
}

func TestEncodeUnsupported(t *testing.T) {
	tests := []struct {
		name    string
		palette *colour.Palette
	}{
		{name: "nil palette", palette: nil},
		{name: "out of range", palette: colour.NewPalette("", colour.Swatch{Colour: colour.RGB(0, 0, 300)})},
		{name: "control character in name", palette: colour.NewPalette("", colour.Swatch{Name: "bell\a", Colour: colour.Gray(0)})},
		{name: "invalid utf8 palette name", palette: colour.NewPalette("\xff")},
		{name: "control character in group", palette: &colour.Palette{Groups: []colour.Group{{Name: "\x01"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.palette)
			if !errors.Is(err, colour.ErrUnsupportedValue) {
				t.Errorf("Encode() error = %v, want ErrUnsupportedValue", err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	mixed := formattest.MixedPalette("Mixed <&> \"quoted\"")
	mixed.Swatches[0].Name = "Line\nbreak\ttab"
	formattest.RunRoundTrip(t, Decode, Encode, mixed)

	for _, space := range colour.Spaces {
		t.Run(space.String(), func(t *testing.T) {
			formattest.RunOrderPreservation(t, Decode, Encode, space)
		})
	}

	data, err := Encode(mixed)
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	formattest.RunTruncation(t, Decode, data, nil)
}

func TestChannelRoundTrip(t *testing.T) {
	var rgb []colour.Swatch
	for v := 0; v <= 255; v++ {
		rgb = append(rgb, colour.Swatch{Colour: colour.RGB(float64(v), float64(255-v), float64(v)/3)})
	}
	var cmyk []colour.Swatch
	for v := 0.0; v <= 100; v += 0.125 {
		cmyk = append(cmyk, colour.Swatch{Colour: colour.CMYK(v, 100-v, v/3, 33.3)})
	}
	var lab []colour.Swatch
	for v := -128; v <= 127; v++ {
		lab = append(lab, colour.Swatch{Colour: colour.LABFromCIE(float64(v+128)*100/255, float64(v), float64(-v-1))})
	}
	var fractions []colour.Swatch
	for i := 1; i < 200; i++ {
		f := 1 / float64(i)
		fractions = append(fractions,
			colour.Swatch{Colour: colour.Gray(100 * f)},
			colour.Swatch{Colour: colour.LAB(f, 1-f, f/7)},
			colour.Swatch{Colour: colour.RGB(255*f, 0.1, 254.9)},
			colour.Swatch{Colour: colour.RGB(127.5+f/2, 1e-300*f, 64-f)},
		)
	}

	tests := []struct {
		name     string
		swatches []colour.Swatch
	}{
		{name: "rgb integers", swatches: rgb},
		{name: "cmyk eighths", swatches: cmyk},
		{name: "lab integers", swatches: lab},
		{name: "fractions", swatches: fractions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := colour.NewPalette(tt.name, tt.swatches...)
			data, err := Encode(p)
			if err != nil {
				t.Fatalf("Encode() unexpected error: %v", err)
			}
			got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode() unexpected error: %v", err)
			}
			if diff := cmp.Diff(p, got); diff != "" {
				t.Errorf("Decode(Encode()) mismatch (-want +got):\n%s", diff)
			}

			again, err := Encode(got)
			if err != nil {
				t.Fatalf("Encode() of decoded palette unexpected error: %v", err)
			}
			if !bytes.Equal(data, again) {
				t.Error("Encode(Decode(Encode(p))) differs from Encode(p)")
			}
		})
	}
}

func TestChannelText(t *testing.T) {
	tests := []struct {
		name  string
		value colour.Value
		want  string
	}{
		{name: "rgb", value: colour.RGB(255, 0, 51), want: `<sRGB r="1" g="0" b="0.2"></sRGB>`},
		{name: "cmyk", value: colour.CMYK(12.5, 0, 100, 50), want: `<CMYK c="0.125" m="0" y="1" k="0.5"></CMYK>`},
		{name: "gray", value: colour.Gray(50), want: `<Gray g="0.5"></Gray>`},
		{name: "lab", value: colour.LABFromCIE(50, -40, 60), want: `<Lab L="50" a="-40" b="60"></Lab>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := 0
			e := entry(colour.Swatch{Colour: tt.value}, &id)
			out, err := xml.Marshal(e.Colours[0])
			if err != nil {
				t.Fatalf("xml.Marshal() unexpected error: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("entry() colour = %s, want %s", out, tt.want)
			}
		})
	}
}
