package targets

import (
	"aimtrainer/internal/utility"
	"fmt"
	"math"
	"math/rand/v2"
)

type SizeClass int

const (
	Small SizeClass = iota
	Medium
	Large
)

func (c SizeClass) Radius() float64 {
	switch c {
	case Small:
		return 15
	case Medium:
		return 20
	case Large:
		return 30
	}
	panic(fmt.Sprintf("targets: unknown size class %d", int(c)))
}

// Points is the score for hitting a target of this class. Smaller is worth more.
func (c SizeClass) Points() int {
	switch c {
	case Small:
		return 3
	case Medium:
		return 2
	case Large:
		return 1
	}
	panic(fmt.Sprintf("targets: unknown size class %d", int(c)))
}

func (c SizeClass) String() string {
	switch c {
	case Small:
		return "small"
	case Medium:
		return "medium"
	case Large:
		return "large"
	}
	return fmt.Sprintf("SizeClass(%d)", int(c))
}

// Bounds is the playfield, in the same units as target positions.
type Bounds struct {
	Width  float64
	Height float64
}

type Target struct {
	ID     int
	X      float64
	Y      float64
	DX     float64
	DY     float64
	Radius float64
	Size   SizeClass
	Color  string
	Points int
	Hit    bool
	// SpawnedFrame is the round frame the target appeared on.
	SpawnedFrame int
}

// Spawn places a target of the given class so the whole circle is inside b.
// Moving targets get a velocity drawn per axis from [-maxSpeed, maxSpeed].
func Spawn(rng *rand.Rand, b Bounds, size SizeClass, moving bool, maxSpeed float64) *Target {
	r := size.Radius()
	if b.Width < 2*r || b.Height < 2*r {
		panic(fmt.Sprintf("targets: bounds %vx%v cannot fit radius %v", b.Width, b.Height, r))
	}
	if maxSpeed < 0 {
		panic(fmt.Sprintf("targets: negative max speed %v", maxSpeed))
	}
	t := &Target{
		X:      r + rng.Float64()*(b.Width-2*r),
		Y:      r + rng.Float64()*(b.Height-2*r),
		Radius: r,
		Size:   size,
		Color:  utility.RandomColorHex(rng),
		Points: size.Points(),
	}
	if moving {
		t.DX = (rng.Float64()*2 - 1) * maxSpeed
		t.DY = (rng.Float64()*2 - 1) * maxSpeed
	}
	return t
}

func (t *Target) Moving() bool {
	return t.DX != 0 || t.DY != 0
}

// Advance moves the target one frame and reflects velocity off the walls of b.
// The position is never clamped: a target that is still past a wall on the
// next frame flips again, so it can jitter at the edge for a few frames.
func (t *Target) Advance(b Bounds) {
	if !t.Moving() {
		return
	}
	t.X += t.DX
	t.Y += t.DY

	if t.X-t.Radius < 0 || t.X+t.Radius > b.Width {
		t.DX = -t.DX
	}
	if t.Y-t.Radius < 0 || t.Y+t.Radius > b.Height {
		t.DY = -t.DY
	}
}

// ContainsPoint reports whether (x, y) lies inside or on the circle.
func (t *Target) ContainsPoint(x, y float64) bool {
	return math.Hypot(t.X-x, t.Y-y) <= t.Radius
}
