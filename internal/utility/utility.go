package utility

import (
	"fmt"
	"image/color"
	"math/rand/v2"
)

var (
	Black  = color.RGBA{0, 0, 0, 255}
	White  = color.RGBA{255, 255, 255, 255}
	Red    = color.RGBA{255, 0, 0, 255}
	Green  = color.RGBA{0, 255, 0, 255}
	Blue   = color.RGBA{0, 0, 255, 255}
	Yellow = color.RGBA{255, 255, 0, 255}
)

// Palette is the set of colours a target can be drawn in.
var Palette = []color.RGBA{Red, Green, Blue, Yellow}

// NewRand returns a PCG source seeded from seed. The same seed always
// produces the same sequence of draws.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func RandomColor(rng *rand.Rand) color.RGBA {
	return Palette[rng.IntN(len(Palette))]
}

func RandomColorHex(rng *rand.Rand) string {
	return Hex(RandomColor(rng))
}

// Hex formats c as #rrggbb, dropping alpha.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex is the inverse of Hex. The returned colour is opaque.
func ParseHex(s string) (color.RGBA, error) {
	var c color.RGBA
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("parsing colour %q: want #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("parsing colour %q: %w", s, err)
	}
	c.A = 255
	return c, nil
}
