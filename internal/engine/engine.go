// Package engine pumps frames between a game and a display/input surface at
// a fixed rate.
package engine

import (
	"aimtrainer/internal/events"
	"aimtrainer/internal/frame"
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

var ErrSurfaceClosed = errors.New("engine: surface closed")

// Surface is anything that can hand over queued input and paint a frame.
type Surface interface {
	// Poll returns the input queued since the last call without blocking.
	Poll() ([]events.Input, error)
	Present(f frame.Frame) error
	Close() error
}

type Machine interface {
	Step(inputs []events.Input) frame.Frame
	Done() bool
}

// Run drives m against s until m is done, ctx is cancelled or the surface
// fails. The surface is closed on return. A surface that reports
// ErrSurfaceClosed is treated as the player walking away and the input is
// turned into a final quit frame.
func Run(ctx context.Context, s Surface, m Machine, fps int) error {
	if fps <= 0 {
		panic(fmt.Sprintf("engine: fps %d must be positive", fps))
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Printf("[Engine] Close error: %v\n", err)
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		inputs, err := s.Poll()
		if errors.Is(err, ErrSurfaceClosed) {
			m.Step([]events.Input{events.QuitInput()})
			return nil
		}
		if err != nil {
			return fmt.Errorf("polling surface: %w", err)
		}

		f := m.Step(inputs)
		if err := s.Present(f); err != nil {
			if errors.Is(err, ErrSurfaceClosed) {
				return nil
			}
			return fmt.Errorf("presenting frame: %w", err)
		}
		if m.Done() {
			return nil
		}
	}
}
