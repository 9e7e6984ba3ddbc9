// Package formattest provides shared test helpers for palette codecs.
package formattest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/justjanne/palettelib/pkg/colour"
)

// DecodeFunc decodes a complete file.
type DecodeFunc func([]byte) (*colour.Palette, error)

// EncodeFunc encodes a complete file.
type EncodeFunc func(*colour.Palette) ([]byte, error)

// Approx compares colour channels within margin, for formats that quantize.
func Approx(margin float64) cmp.Option {
	return cmpopts.EquateApprox(0, margin)
}

// RGBPalette returns an ungrouped RGB palette with integer channels.
func RGBPalette(name string) *colour.Palette {
	return colour.NewPalette(name,
		colour.Swatch{Name: "Black", Colour: colour.RGB(0, 0, 0)},
		colour.Swatch{Name: "Tokyo Night", Colour: colour.RGB(26, 27, 38)},
		colour.Swatch{Name: "Lavender", Colour: colour.RGB(192, 202, 245)},
		colour.Swatch{Name: "Blue", Colour: colour.RGB(122, 162, 247)},
		colour.Swatch{Name: "Orange", Colour: colour.RGB(224, 175, 104)},
		colour.Swatch{Name: "White", Colour: colour.RGB(255, 255, 255)},
	)
}

// MixedPalette returns a palette using every colour space, spot flags and
// groups.
func MixedPalette(name string) *colour.Palette {
	return &colour.Palette{
		Name: name,
		Swatches: []colour.Swatch{
			{Name: "Red", Colour: colour.RGB(255, 0, 0)},
			{Name: "Pantone 185 C", Spot: true, Colour: colour.CMYK(0, 100, 80, 5)},
			{Name: "Neutral", Colour: colour.LABFromCIE(50, 0, 0)},
		},
		Groups: []colour.Group{
			{Name: "Greys", Swatches: []colour.Swatch{
				{Name: "Light", Colour: colour.Gray(25)},
				{Name: "Dark", Colour: colour.Gray(75)},
			}},
			{Name: "Brand", Swatches: []colour.Swatch{
				{Name: "Primary", Colour: colour.RGB(122, 162, 247)},
				{Name: "Paper", Spot: true, Colour: colour.CMYK(0, 0, 0, 0)},
				{Name: "Deep", Colour: colour.LABFromCIE(20, -40, 60)},
			}},
		},
	}
}

// RunRoundTrip checks that decode(encode(p)) is structurally equal to p.
func RunRoundTrip(t *testing.T, decode DecodeFunc, encode EncodeFunc, p *colour.Palette, opts ...cmp.Option) {
	t.Helper()

	t.Run("RoundTrip", func(t *testing.T) {
		data, err := encode(p)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		got, err := decode(data)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}

		// Compare values: *colour.Palette has an exact Equal method that cmp
		// would prefer over the approximate options.
		opts = append(opts, cmpopts.EquateEmpty())
		if diff := cmp.Diff(*p, *got, opts...); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

// RunOrderPreservation checks that swatches A, B, C come back in that order
// and that encoding is deterministic.
func RunOrderPreservation(t *testing.T, decode DecodeFunc, encode EncodeFunc, space colour.Space) {
	t.Helper()

	t.Run("OrderPreservation", func(t *testing.T) {
		p := colour.NewPalette("",
			colour.Swatch{Name: "A", Colour: sampleValue(space, 1)},
			colour.Swatch{Name: "B", Colour: sampleValue(space, 2)},
			colour.Swatch{Name: "C", Colour: sampleValue(space, 3)},
		)

		first, err := encode(p)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		got, err := decode(first)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		second, err := encode(got)
		if err != nil {
			t.Fatalf("re-Encode() error = %v", err)
		}

		if got.Len() < 3 {
			t.Fatalf("decoded %d swatches, want at least 3", got.Len())
		}
		all := got.Flatten()
		for i, s := range all[:3] {
			if s.Colour != p.Swatches[i].Colour && !approxEqual(s.Colour, p.Swatches[i].Colour) {
				t.Errorf("swatch %d = %v, want %v", i, s.Colour, p.Swatches[i].Colour)
			}
		}
		if !bytes.Equal(first, second) {
			t.Error("re-encoding the decoded palette produced different bytes")
		}
	})
}

// RunTruncation decodes every proper prefix of data and expects
// ErrMalformedInput, except for lengths where valid reports the prefix is
// itself a valid file.
func RunTruncation(t *testing.T, decode DecodeFunc, data []byte, valid func(n int) bool) {
	t.Helper()

	t.Run("Truncation", func(t *testing.T) {
		for n := 0; n < len(data); n++ {
			if valid != nil && valid(n) {
				continue
			}
			prefix := bytes.Clone(data[:n])
			if _, err := decode(prefix); !errors.Is(err, colour.ErrMalformedInput) {
				t.Fatalf("Decode(%d of %d bytes) error = %v, want ErrMalformedInput", n, len(data), err)
			}
		}
	})
}

// sampleValue returns a distinct in-range value in space for each seed.
func sampleValue(space colour.Space, seed float64) colour.Value {
	switch space {
	case colour.SpaceCMYK:
		return colour.CMYK(seed*10, seed*20, 0, 100-seed)
	case colour.SpaceLAB:
		return colour.LABFromCIE(seed*10, seed, -seed)
	case colour.SpaceGray:
		return colour.Gray(seed * 10)
	default:
		return colour.RGB(seed*50, 255-seed*50, seed)
	}
}

// approxEqual compares two values with a tolerance suited to 16-bit and
// float32 quantization.
func approxEqual(a, b colour.Value) bool {
	if a.Space != b.Space {
		return false
	}
	for i := range a.Channels {
		d := a.Channels[i] - b.Channels[i]
		if d > 0.01 || d < -0.01 {
			return false
		}
	}
	return true
}
