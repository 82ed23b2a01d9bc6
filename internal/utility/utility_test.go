package utility

import (
	"regexp"
	"testing"
)

func TestRandomColorHex(t *testing.T) {
	hexPattern := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	rng := NewRand(1)

	for i := 0; i < 100; i++ {
		color := RandomColorHex(rng)
		if !hexPattern.MatchString(color) {
			t.Errorf("RandomColorHex() = %q, want matching #rrggbb pattern", color)
		}
	}
}

func TestRandomColor_FromPalette(t *testing.T) {
	rng := NewRand(2)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		c := RandomColor(rng)
		found := false
		for _, p := range Palette {
			if p == c {
				found = true
			}
		}
		if !found {
			t.Fatalf("RandomColor() = %v, not in palette", c)
		}
		seen[Hex(c)] = true
	}
	// 200 draws over 4 colours should hit every one
	if len(seen) != len(Palette) {
		t.Errorf("saw %d distinct colours, want %d", len(seen), len(Palette))
	}
}

func TestNewRand_Deterministic(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 10; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d differs: %v != %v", i, x, y)
		}
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff8000")
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 0xff || c.G != 0x80 || c.B != 0x00 || c.A != 0xff {
		t.Errorf("ParseHex = %v, want {255 128 0 255}", c)
	}
	if Hex(c) != "#ff8000" {
		t.Errorf("Hex(ParseHex) = %q, want %q", Hex(c), "#ff8000")
	}
}

func TestParseHex_Invalid(t *testing.T) {
	for _, s := range []string{"", "ff8000", "#ff80", "#gg0000"} {
		if _, err := ParseHex(s); err == nil {
			t.Errorf("ParseHex(%q) should fail", s)
		}
	}
}
