package colour

import (
	"fmt"
	"math"
	"strings"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 4
)

// Preview returns an ANSI truecolour block for v, width characters wide.
// Only RGB values can be previewed without colour conversion; for any other
// space ok is false and the block is blank.
func Preview(v Value, width int) (block string, ok bool) {
	if width <= 0 {
		width = defaultWidth
	}
	if v.Space != SpaceRGB {
		return strings.Repeat(" ", width), false
	}

	r, g, b := channelByte(v.Channels[0]), channelByte(v.Channels[1]), channelByte(v.Channels[2])
	bg := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, r, g, b, ansiSuffix)
	return bg + strings.Repeat(" ", width) + ansiReset, true
}

// Hex returns the "#rrggbb" form of an RGB value, or "" for other spaces.
func (v Value) Hex() string {
	if v.Space != SpaceRGB {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", channelByte(v.Channels[0]), channelByte(v.Channels[1]), channelByte(v.Channels[2]))
}

// channelByte rounds an RGB channel to a byte, clamping out-of-range input.
func channelByte(c float64) uint8 {
	switch {
	case math.IsNaN(c) || c <= 0:
		return 0
	case c >= 255:
		return 255
	default:
		return uint8(math.Round(c))
	}
}
