package gamedata

import (
	"aimtrainer/internal/frame"
	"aimtrainer/internal/utility"
	"fmt"
)

var (
	white = utility.Hex(utility.White)
	red   = utility.Hex(utility.Red)
)

// Render draws the current scene without advancing anything.
func (g *Game) Render() frame.Frame {
	cfg := g.Round.Config()
	f := frame.Frame{Scene: string(g.scene), Width: cfg.Width, Height: cfg.Height}

	switch g.scene {
	case SceneStart:
		f.Labels = centred(cfg.Width, cfg.Height,
			line{"Aim Trainer", -100, frame.SizeTitle, white},
			line{"Press S for Static Mode", 0, frame.SizeBody, white},
			line{"Press M for Moving Mode", 50, frame.SizeBody, white},
		)
	case ScenePlaying:
		for _, t := range g.Round.Targets() {
			f.Circles = append(f.Circles, frame.Circle{X: t.X, Y: t.Y, R: t.Radius, Color: t.Color})
		}
		for _, e := range g.Round.Effects() {
			f.Overlays = append(f.Overlays, frame.Overlay{X: e.X, Y: e.Y, R: e.Radius, Alpha: e.Alpha})
		}
		f.Labels = []frame.Label{
			{Text: fmt.Sprintf("Score: %d", g.Round.Score()), X: 10, Y: 10, Size: frame.SizeBody, Color: white},
			{Text: fmt.Sprintf("Lives: %d", g.Round.Lives()), X: 10, Y: 50, Size: frame.SizeBody, Color: white},
		}
	case SceneGameOver:
		score := 0
		if g.last != nil {
			score = g.last.Score
		}
		f.Labels = centred(cfg.Width, cfg.Height,
			line{"GAME OVER", -100, frame.SizeTitle, red},
			line{"You ran out of lives", -20, frame.SizeBody, white},
			line{"Press R to Retry or E to Exit", 40, frame.SizeBody, white},
			line{fmt.Sprintf("Final score: %d", score), 100, frame.SizeBody, white},
		)
	}
	return f
}

type line struct {
	text  string
	dy    float64
	size  int
	color string
}

func centred(width, height float64, lines ...line) []frame.Label {
	out := make([]frame.Label, 0, len(lines))
	for _, l := range lines {
		out = append(out, frame.Label{
			Text:     l.text,
			X:        width / 2,
			Y:        height/2 + l.dy,
			Size:     l.size,
			Color:    l.color,
			Centered: true,
		})
	}
	return out
}
