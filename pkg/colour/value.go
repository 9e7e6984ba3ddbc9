// Package colour provides the unified palette model shared by every palette
// format: palettes, swatch groups, swatches and their colour values.
package colour

import (
	"fmt"
	"math"
	"strings"
)

// Space identifies the colour space a Value is expressed in.
type Space uint8

// Supported colour spaces. The zero Space is invalid.
const (
	SpaceRGB Space = iota + 1
	SpaceCMYK
	SpaceLAB
	SpaceGray
)

// Spaces lists every valid colour space in declaration order.
var Spaces = []Space{SpaceRGB, SpaceCMYK, SpaceLAB, SpaceGray}

// String returns the lower-case space name as used in palette documents.
func (s Space) String() string {
	switch s {
	case SpaceRGB:
		return "rgb"
	case SpaceCMYK:
		return "cmyk"
	case SpaceLAB:
		return "lab"
	case SpaceGray:
		return "gray"
	default:
		return fmt.Sprintf("space(%d)", uint8(s))
	}
}

// Arity returns the number of channels a value in this space carries.
func (s Space) Arity() int {
	switch s {
	case SpaceRGB, SpaceLAB:
		return 3
	case SpaceCMYK:
		return 4
	case SpaceGray:
		return 1
	default:
		return 0
	}
}

// Max returns the inclusive upper bound of every channel in this space.
// The lower bound is always zero.
func (s Space) Max() float64 {
	switch s {
	case SpaceRGB:
		return 255
	case SpaceCMYK, SpaceGray:
		return 100
	case SpaceLAB:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the supported colour spaces.
func (s Space) Valid() bool {
	return s.Arity() > 0
}

// ParseSpace parses a colour space name such as "rgb" or "CMYK".
func ParseSpace(name string) (Space, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rgb":
		return SpaceRGB, nil
	case "cmyk":
		return SpaceCMYK, nil
	case "lab":
		return SpaceLAB, nil
	case "gray", "grey":
		return SpaceGray, nil
	default:
		return 0, fmt.Errorf("unknown colour space '%s' (valid: rgb, cmyk, lab, gray)", name)
	}
}

// Value is a colour in exactly one colour space. Only the first
// Space.Arity() channels are meaningful; the remaining slots are zero.
type Value struct {
	Space    Space
	Channels [4]float64
}

// RGB returns an RGB value with channels in [0,255].
func RGB(r, g, b float64) Value {
	return Value{Space: SpaceRGB, Channels: [4]float64{r, g, b}}
}

// CMYK returns a CMYK value with channels in [0,100].
func CMYK(c, m, y, k float64) Value {
	return Value{Space: SpaceCMYK, Channels: [4]float64{c, m, y, k}}
}

// LAB returns a normalized L*a*b* value with channels in [0,1].
// See LABFromCIE for the mapping from CIE ranges.
func LAB(l, a, b float64) Value {
	return Value{Space: SpaceLAB, Channels: [4]float64{l, a, b}}
}

// Gray returns a grayscale value in [0,100].
func Gray(k float64) Value {
	return Value{Space: SpaceGray, Channels: [4]float64{k}}
}

// FromComponents builds a value from a channel slice, checking its arity.
func FromComponents(space Space, components []float64) (Value, error) {
	if !space.Valid() {
		return Value{}, fmt.Errorf("invalid colour space %s", space)
	}
	if len(components) != space.Arity() {
		return Value{}, fmt.Errorf("%s colour needs %d values, got %d", space, space.Arity(), len(components))
	}
	v := Value{Space: space}
	copy(v.Channels[:], components)
	return v, nil
}

// Components returns a copy of the meaningful channels.
func (v Value) Components() []float64 {
	n := v.Space.Arity()
	out := make([]float64, n)
	copy(out, v.Channels[:n])
	return out
}

// IsZero reports whether v holds no colour at all.
func (v Value) IsZero() bool {
	return v == Value{}
}

// Validate checks the space, the unused channel slots and the channel ranges.
func (v Value) Validate() error {
	if !v.Space.Valid() {
		return fmt.Errorf("invalid colour space %s", v.Space)
	}
	limit := v.Space.Max()
	for i, c := range v.Channels {
		if i >= v.Space.Arity() {
			if c != 0 {
				return fmt.Errorf("%s colour has a value in unused channel %d", v.Space, i)
			}
			continue
		}
		if math.IsNaN(c) || c < 0 || c > limit {
			return fmt.Errorf("%s channel %d out of range [0,%g]: %g", v.Space, i, limit, c)
		}
	}
	return nil
}

// String returns the value as "space(c1, c2, ...)".
func (v Value) String() string {
	parts := make([]string, 0, 4)
	for _, c := range v.Components() {
		parts = append(parts, fmt.Sprintf("%g", c))
	}
	return fmt.Sprintf("%s(%s)", v.Space, strings.Join(parts, ", "))
}

// LABFromCIE maps CIE L* in [0,100] and a*, b* in [-128,127] onto the
// normalized LAB value used by the model.
func LABFromCIE(l, a, b float64) Value {
	return LAB(l/100, (a+128)/255, (b+128)/255)
}

// CIE returns the CIE L*, a*, b* triple of a LAB value.
func (v Value) CIE() (l, a, b float64) {
	return v.Channels[0] * 100, v.Channels[1]*255 - 128, v.Channels[2]*255 - 128
}
