package act

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/justjanne/palettelib/pkg/colour"
	"github.com/justjanne/palettelib/pkg/format/formattest"
)

func TestEncodeLayout(t *testing.T) {
	p := colour.NewPalette("ignored",
		colour.Swatch{Name: "dropped", Colour: colour.RGB(1, 2, 3)},
		colour.Swatch{Colour: colour.RGB(250, 251, 252)},
	)

	data, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	if len(data) != FileSize {
		t.Fatalf("Encode() wrote %d bytes, want %d", len(data), FileSize)
	}
	if diff := cmp.Diff([]byte{1, 2, 3, 250, 251, 252, 0}, data[:7]); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{0x00, 0x02, 0xFF, 0xFF}, data[TableSize:]); diff != "" {
		t.Errorf("footer mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFooterCount(t *testing.T) {
	data := make([]byte, FileSize)
	copy(data, []byte{10, 20, 30, 40, 50, 60, 70, 80, 90})
	data[TableSize+1] = 2
	data[TableSize+2], data[TableSize+3] = 0xFF, 0xFF

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	want := []colour.Swatch{
		{Colour: colour.RGB(10, 20, 30)},
		{Colour: colour.RGB(40, 50, 60)},
	}
	if diff := cmp.Diff(want, got.Swatches); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBareTable(t *testing.T) {
	full := make([]byte, TableSize)
	got, err := Decode(full)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if got.Len() != MaxColours {
		t.Errorf("Decode() of bare table = %d swatches, want %d", got.Len(), MaxColours)
	}

	short, err := Decode([]byte{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if short.Len() != 2 {
		t.Errorf("Decode() of 6 bytes = %d swatches, want 2", short.Len())
	}
}

func TestDecodeMalformed(t *testing.T) {
	tooMany := make([]byte, FileSize)
	tooMany[TableSize] = 0x01
	tooMany[TableSize+1] = 0x01

	badTransparency := make([]byte, FileSize)
	badTransparency[TableSize+2] = 0x01

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: []byte{}},
		{name: "nil", data: nil},
		{name: "odd size", data: []byte{1, 2, 3, 4}},
		{name: "oversized", data: make([]byte, FileSize+3)},
		{name: "count over 256", data: tooMany},
		{name: "transparency out of range", data: badTransparency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, colour.ErrMalformedInput) {
				t.Errorf("Decode() error = %v, want ErrMalformedInput", err)
			}
		})
	}
}

func TestEncodeUnsupported(t *testing.T) {
	many := &colour.Palette{}
	for i := 0; i < MaxColours+1; i++ {
		many.Swatches = append(many.Swatches, colour.Swatch{Colour: colour.RGB(0, 0, 0)})
	}

	tests := []struct {
		name    string
		palette *colour.Palette
	}{
		{name: "lab swatch", palette: colour.NewPalette("", colour.Swatch{Colour: colour.LAB(0.5, 0.5, 0.5)})},
		{name: "too many swatches", palette: many},
		{name: "out of range", palette: colour.NewPalette("", colour.Swatch{Colour: colour.RGB(0, -1, 0)})},
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
	unnamed := formattest.RGBPalette("")
	for i := range unnamed.Swatches {
		unnamed.Swatches[i].Name = ""
	}
	formattest.RunRoundTrip(t, Decode, Encode, unnamed)
	formattest.RunOrderPreservation(t, Decode, Encode, colour.SpaceRGB)

	data, err := Encode(unnamed)
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	formattest.RunTruncation(t, Decode, data, func(n int) bool {
		return n > 0 && n%3 == 0 && n <= TableSize
	})
}
