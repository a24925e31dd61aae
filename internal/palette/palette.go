// Package palette provides packed 32-bit colours for character cells.
//
// A packed colour stores red in the lowest byte, then green, then blue, with
// alpha in the top byte (0xAABBGGRR). This is the layout the renderer uploads
// as-is, so values produced here can be written straight into grid slices.
package palette

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Opaque is the alpha byte used by every colour in the built-in palette.
const Opaque uint32 = 0xff000000

// Pack builds an opaque packed colour from its components.
func Pack(r, g, b uint8) uint32 {
	return Opaque | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// PackRGBA builds a packed colour with an explicit alpha.
func PackRGBA(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// Unpack splits a packed colour into its components.
func Unpack(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// Colour is one of the built-in named colours.
type Colour int

const (
	Black Colour = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

var names = [...]string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// String returns the lower-case colour name.
func (c Colour) String() string {
	if c < 0 || int(c) >= len(names) {
		return fmt.Sprintf("Colour(%d)", int(c))
	}
	return names[c]
}

// Packed returns the packed value of the named colour.
func (c Colour) Packed() uint32 {
	switch c {
	case Black:
		return Pack(0, 0, 0)
	case Red:
		return Pack(255, 0, 0)
	case Green:
		return Pack(0, 255, 0)
	case Yellow:
		return Pack(255, 255, 0)
	case Blue:
		return Pack(0, 0, 255)
	case Magenta:
		return Pack(255, 0, 255)
	case Cyan:
		return Pack(0, 255, 255)
	case White:
		return Pack(255, 255, 255)
	default:
		return Pack(0, 0, 0)
	}
}

// Named looks up a built-in colour by name.
func Named(name string) (Colour, bool) {
	for i, n := range names {
		if n == name {
			return Colour(i), true
		}
	}
	return 0, false
}

// Parse accepts a built-in colour name or a "#rrggbb" hex string.
func Parse(s string) (uint32, error) {
	if c, ok := Named(s); ok {
		return c.Packed(), nil
	}
	col, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return FromColorful(col), nil
}

// FromColorful converts a go-colorful colour to an opaque packed value.
func FromColorful(c colorful.Color) uint32 {
	r, g, b := c.Clamped().RGB255()
	return Pack(r, g, b)
}

// ToColorful converts a packed colour to go-colorful, dropping alpha.
func ToColorful(c uint32) colorful.Color {
	r, g, b, _ := Unpack(c)
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Blend mixes two packed colours in Lab space. t=0 yields a, t=1 yields b.
func Blend(a, b uint32, t float64) uint32 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return FromColorful(ToColorful(a).BlendLab(ToColorful(b), t))
}

// Gradient returns n colours evenly spaced from a to b inclusive.
func Gradient(a, b uint32, n int) []uint32 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []uint32{a}
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = Blend(a, b, float64(i)/float64(n-1))
	}
	return out
}
