package events

import (
	"aimtrainer/internal/round"
	"unicode"
)

type Kind int

const (
	Quit Kind = iota
	KeyPress
	MouseClick
)

// ButtonPrimary is the only mouse button that counts as a shot.
const ButtonPrimary = 1

// Input is one event from a display/input surface.
type Input struct {
	Kind   Kind
	Key    rune
	X      float64
	Y      float64
	Button int
}

func QuitInput() Input {
	return Input{Kind: Quit}
}

// Key builds a key press, folded to lower case.
func Key(r rune) Input {
	return Input{Kind: KeyPress, Key: unicode.ToLower(r)}
}

func Click(x, y float64, button int) Input {
	return Input{Kind: MouseClick, X: x, Y: y, Button: button}
}

// IsKey reports whether in is a press of r, ignoring case.
func (in Input) IsKey(r rune) bool {
	return in.Kind == KeyPress && unicode.ToLower(in.Key) == unicode.ToLower(r)
}

// IsShot reports whether in is a primary-button click.
func (in Input) IsShot() bool {
	return in.Kind == MouseClick && in.Button == ButtonPrimary
}

// SceneChangeEvent carries the round mode when the new scene is play.
type SceneChangeEvent struct {
	SessionID string
	Scene     string
	Mode      string
}

// RoundResult is published when a round runs out of lives.
type RoundResult struct {
	SessionID string `json:"session"`
	round.Result
}

type Bus struct {
	SceneChanges chan SceneChangeEvent
	RoundResults chan RoundResult
}

func NewBus() *Bus {
	return &Bus{
		SceneChanges: make(chan SceneChangeEvent, 10),
		RoundResults: make(chan RoundResult, 10),
	}
}

// PublishScene never blocks; it reports false when the event was dropped.
func (b *Bus) PublishScene(ev SceneChangeEvent) bool {
	select {
	case b.SceneChanges <- ev:
		return true
	default:
		return false
	}
}

// PublishResult never blocks; it reports false when the result was dropped.
func (b *Bus) PublishResult(res RoundResult) bool {
	select {
	case b.RoundResults <- res:
		return true
	default:
		return false
	}
}
