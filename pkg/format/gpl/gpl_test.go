package gpl

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/justjanne/palettelib/pkg/colour"
	"github.com/justjanne/palettelib/pkg/format/formattest"
)

func TestDecodeScenario(t *testing.T) {
	input := "GIMP Palette\nName: Test\n255 0 0 Red\n0 255 0 Green\n"

	got, err := Decode([]byte(input))
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}

	want := &colour.Palette{
		Name: "Test",
		Swatches: []colour.Swatch{
			{Name: "Red", Colour: colour.RGB(255, 0, 0)},
			{Name: "Green", Colour: colour.RGB(0, 255, 0)},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTolerance(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []colour.Swatch
		pname string
	}{
		{
			name:  "comments and columns",
			input: "GIMP Palette\nName: Mixed\nColumns: 4\n#\n# comment\n  1   2   3\tDark   Blue  \n",
			pname: "Mixed",
			want:  []colour.Swatch{{Name: "Dark   Blue", Colour: colour.RGB(1, 2, 3)}},
		},
		{
			name:  "missing trailing name",
			input: "GIMP Palette\n10 20 30\n",
			want:  []colour.Swatch{{Colour: colour.RGB(10, 20, 30)}},
		},
		{
			name:  "crlf line endings and BOM",
			input: "\xEF\xBB\xBFGIMP Palette\r\nName: Win\r\n1 1 1 one\r\n",
			pname: "Win",
			want:  []colour.Swatch{{Name: "one", Colour: colour.RGB(1, 1, 1)}},
		},
		{
			name:  "unknown metadata ignored",
			input: "GIMP Palette\nAuthor: someone\n5 5 5 grey\n",
			want:  []colour.Swatch{{Name: "grey", Colour: colour.RGB(5, 5, 5)}},
		},
		{
			name:  "leading blank lines",
			input: "\n\nGIMP Palette\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode() unexpected error: %v", err)
			}
			if got.Name != tt.pname {
				t.Errorf("Name = %q, want %q", got.Name, tt.pname)
			}
			if diff := cmp.Diff(tt.want, got.Swatches); diff != "" {
				t.Errorf("Swatches mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "wrong header", input: "JASC-PAL\n0100\n"},
		{name: "value out of range", input: "GIMP Palette\n300 0 0 Too much\n"},
		{name: "negative value", input: "GIMP Palette\n-1 0 0\n"},
		{name: "too few values", input: "GIMP Palette\n1 2\n"},
		{name: "non integer", input: "GIMP Palette\n1 2 x name\n"},
		{name: "float value", input: "GIMP Palette\n1.5 2 3\n"},
		{name: "bad columns", input: "GIMP Palette\nColumns: many\n"},
		{name: "garbage line", input: "GIMP Palette\nhello world\n"},
		{name: "invalid utf8", input: "GIMP Palette\n1 2 3 \xff\xfe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			if !errors.Is(err, colour.ErrMalformedInput) {
				t.Errorf("Decode() error = %v, want ErrMalformedInput", err)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	p := &colour.Palette{
		Name: "Brand",
		Swatches: []colour.Swatch{
			{Name: "Red", Colour: colour.RGB(255, 0, 0)},
			{Colour: colour.RGB(1.4, 2.6, 3)},
		},
		Groups: []colour.Group{
			{Name: "Accents", Swatches: []colour.Swatch{{Name: "Blue", Spot: true, Colour: colour.RGB(0, 0, 255)}}},
		},
	}

	got, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}

	want := strings.Join([]string{
		"GIMP Palette",
		"Name: Brand",
		"Columns: 3",
		"#",
		"255   0   0 Red",
		"  1   3   3",
		"# Accents",
		"  0   0 255 Blue",
		"",
	}, "\n")
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeUnsupported(t *testing.T) {
	tests := []struct {
		name    string
		palette *colour.Palette
	}{
		{name: "nil palette", palette: nil},
		{name: "cmyk swatch", palette: colour.NewPalette("", colour.Swatch{Colour: colour.CMYK(0, 0, 0, 0)})},
		{name: "out of range", palette: colour.NewPalette("", colour.Swatch{Colour: colour.RGB(256, 0, 0)})},
		{name: "newline in name", palette: colour.NewPalette("", colour.Swatch{Name: "a\nb", Colour: colour.RGB(0, 0, 0)})},
		{name: "newline in palette name", palette: colour.NewPalette("a\nb")},
		{name: "leading space in name", palette: colour.NewPalette("", colour.Swatch{Name: " Red", Colour: colour.RGB(255, 0, 0)})},
		{name: "trailing tab in name", palette: colour.NewPalette("", colour.Swatch{Name: "Red\t", Colour: colour.RGB(255, 0, 0)})},
		{name: "whitespace only name", palette: colour.NewPalette("", colour.Swatch{Name: "  ", Colour: colour.RGB(255, 0, 0)})},
		{name: "trailing space in palette name", palette: colour.NewPalette("Brand ")},
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
	formattest.RunRoundTrip(t, Decode, Encode, formattest.RGBPalette("Round Trip"))
	formattest.RunOrderPreservation(t, Decode, Encode, colour.SpaceRGB)
}
