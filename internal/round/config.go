package round

import (
	"aimtrainer/internal/targets"
	"fmt"
)

type Config struct {
	Width       float64
	Height      float64
	TargetCount int
	Lives       int
	MaxSpeed    float64
}

func DefaultConfig() Config {
	return Config{
		Width:       800,
		Height:      600,
		TargetCount: 5,
		Lives:       10,
		MaxSpeed:    5,
	}
}

func (c Config) Bounds() targets.Bounds {
	return targets.Bounds{Width: c.Width, Height: c.Height}
}

// Check reports why no round could be played with c, or nil.
func (c Config) Check() error {
	largest := targets.Large.Radius()
	switch {
	case c.Width < 2*largest || c.Height < 2*largest:
		return fmt.Errorf("round: playfield %vx%v too small for radius %v", c.Width, c.Height, largest)
	case c.TargetCount <= 0:
		return fmt.Errorf("round: target count %d must be positive", c.TargetCount)
	case c.Lives <= 0:
		return fmt.Errorf("round: lives %d must be positive", c.Lives)
	case c.MaxSpeed < 0:
		return fmt.Errorf("round: max speed %v must not be negative", c.MaxSpeed)
	}
	return nil
}

// Validate panics on a config no round could be played with.
func (c Config) Validate() {
	if err := c.Check(); err != nil {
		panic(err.Error())
	}
}
