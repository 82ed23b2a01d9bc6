package terminal

import (
	"aimtrainer/internal/config"
	"aimtrainer/internal/engine"
	"aimtrainer/internal/events"
	"aimtrainer/internal/frame"
	"aimtrainer/internal/gamedata"
	"aimtrainer/internal/round"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
)

// Cuer is told when a shot lands or misses.
type Cuer interface {
	Hit()
	Miss()
}

// cueMachine wraps a game and fires sound cues from score and lives changes.
type cueMachine struct {
	game *gamedata.Game
	cues Cuer
}

func (m *cueMachine) Step(inputs []events.Input) frame.Frame {
	playing := m.game.Scene() == gamedata.ScenePlaying
	score, lives := m.game.Round.Score(), m.game.Round.Lives()

	f := m.game.Step(inputs)

	if playing {
		if m.game.Round.Score() > score {
			m.cues.Hit()
		}
		if m.game.Round.Lives() < lives {
			m.cues.Miss()
		}
	}
	return f
}

func (m *cueMachine) Done() bool {
	return m.game.Done()
}

// Run plays in the current terminal until the player exits.
func Run(cfg config.Config) error {
	if err := cfg.Check(); err != nil {
		return err
	}
	tones := NewTones()
	if cfg.Sound {
		if err := tones.Init(); err != nil {
			log.Printf("[Term] Sound disabled: %v\n", err)
		}
	}
	defer tones.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialising screen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game := gamedata.NewGame(round.New(cfg.Game(), cfg.Rand()), nil, "terminal")
	surface := NewSurface(screen, float64(cfg.Width), float64(cfg.Height))
	if err := engine.Run(ctx, surface, &cueMachine{game: game, cues: tones}, cfg.FPS); err != nil && ctx.Err() == nil {
		return err
	}

	if res, ok := game.LastResult(); ok {
		fmt.Printf("Last round: %s mode, score %d, %d hits, %d misses\n", res.Mode, res.Score, res.Hits, res.Misses)
	}
	return nil
}
