package gamedata

import (
	"aimtrainer/internal/events"
	"aimtrainer/internal/frame"
	"aimtrainer/internal/round"
)

type Scene string

const (
	SceneStart    = Scene("start")
	ScenePlaying  = Scene("playing")
	SceneGameOver = Scene("gameover")
	SceneExit     = Scene("exit")
)

// Game is the screen state machine for one player. It owns the round and is
// driven one frame at a time by Step.
type Game struct {
	scene     Scene
	Round     *round.State
	Events    *events.Bus // nil when nobody listens
	SessionID string
	last      *round.Result
}

func NewGame(r *round.State, bus *events.Bus, sessionID string) *Game {
	return &Game{
		scene:     SceneStart,
		Round:     r,
		Events:    bus,
		SessionID: sessionID,
	}
}

func (g *Game) Scene() Scene {
	return g.scene
}

func (g *Game) SetScene(s Scene) {
	g.scene = s
	if g.Events == nil {
		return
	}
	ev := events.SceneChangeEvent{SessionID: g.SessionID, Scene: string(s)}
	if s == ScenePlaying {
		ev.Mode = g.Round.Mode().String()
	}
	g.Events.PublishScene(ev)
}

// Done reports whether the machine has reached Exit.
func (g *Game) Done() bool {
	return g.scene == SceneExit
}

// LastResult is the result of the most recently finished round.
func (g *Game) LastResult() (round.Result, bool) {
	if g.last == nil {
		return round.Result{}, false
	}
	return *g.last, true
}

// Step feeds one frame of input through the current scene and returns what
// to draw.
func (g *Game) Step(inputs []events.Input) frame.Frame {
	switch g.scene {
	case SceneStart:
		g.stepStart(inputs)
	case ScenePlaying:
		g.stepPlaying(inputs)
	case SceneGameOver:
		g.stepGameOver(inputs)
	}
	return g.Render()
}

func (g *Game) stepStart(inputs []events.Input) {
	for _, in := range inputs {
		switch {
		case in.Kind == events.Quit:
			g.SetScene(SceneExit)
			return
		case in.IsKey('s'):
			g.startRound(round.Static)
			return
		case in.IsKey('m'):
			g.startRound(round.Moving)
			return
		}
	}
}

func (g *Game) startRound(mode round.Mode) {
	g.Round.Start(mode)
	g.SetScene(ScenePlaying)
}

// stepPlaying ticks the round once. A quit anywhere in the frame wins over
// every shot in it, so quitting never costs a life.
func (g *Game) stepPlaying(inputs []events.Input) {
	var shots []round.Shot
	for _, in := range inputs {
		if in.Kind == events.Quit {
			g.SetScene(SceneExit)
			return
		}
		if in.IsShot() {
			shots = append(shots, round.Shot{X: in.X, Y: in.Y})
		}
	}

	if g.Round.Tick(shots...) == round.RoundOver {
		res := g.Round.Result()
		g.last = &res
		if g.Events != nil {
			g.Events.PublishResult(events.RoundResult{SessionID: g.SessionID, Result: res})
		}
		g.SetScene(SceneGameOver)
	}
}

func (g *Game) stepGameOver(inputs []events.Input) {
	for _, in := range inputs {
		switch {
		case in.Kind == events.Quit, in.IsKey('e'):
			g.SetScene(SceneExit)
			return
		case in.IsKey('r'):
			g.SetScene(SceneStart)
			return
		}
	}
}
