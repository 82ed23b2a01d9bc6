// Package desktop runs the game in a native window via ebiten.
package desktop

import (
	"aimtrainer/internal/config"
	"aimtrainer/internal/engine"
	"aimtrainer/internal/events"
	"aimtrainer/internal/frame"
	"aimtrainer/internal/gamedata"
	"aimtrainer/internal/round"
	"aimtrainer/internal/utility"
	"errors"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const glyphHeight = 13

var keyRunes = map[ebiten.Key]rune{
	ebiten.KeyS: 's',
	ebiten.KeyM: 'm',
	ebiten.KeyR: 'r',
	ebiten.KeyE: 'e',
}

var mouseButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonMiddle,
	ebiten.MouseButtonRight,
}

// keyInput maps a key press into game input.
func keyInput(k ebiten.Key) (events.Input, bool) {
	if k == ebiten.KeyEscape {
		return events.QuitInput(), true
	}
	r, ok := keyRunes[k]
	if !ok {
		return events.Input{}, false
	}
	return events.Key(r), true
}

// buttonNumber numbers buttons the way the rest of the game does: left is
// primary.
func buttonNumber(b ebiten.MouseButton) int {
	switch b {
	case ebiten.MouseButtonLeft:
		return events.ButtonPrimary
	case ebiten.MouseButtonMiddle:
		return 2
	default:
		return 3
	}
}

// App adapts a game machine to ebiten's Update/Draw loop.
type App struct {
	machine engine.Machine
	frame   frame.Frame
	width   int
	height  int
	colors  map[string]color.RGBA
}

func New(m engine.Machine, width, height int) *App {
	return &App{
		machine: m,
		width:   width,
		height:  height,
		colors:  make(map[string]color.RGBA),
	}
}

func (a *App) collect() []events.Input {
	var inputs []events.Input
	if ebiten.IsWindowBeingClosed() {
		inputs = append(inputs, events.QuitInput())
	}
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if in, ok := keyInput(k); ok {
			inputs = append(inputs, in)
		}
	}
	x, y := ebiten.CursorPosition()
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			inputs = append(inputs, events.Click(float64(x), float64(y), buttonNumber(b)))
		}
	}
	return inputs
}

func (a *App) Update() error {
	a.frame = a.machine.Step(a.collect())
	if a.machine.Done() {
		return ebiten.Termination
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(utility.Black)
	for _, c := range a.frame.Circles {
		vector.DrawFilledCircle(screen, float32(c.X), float32(c.Y), float32(c.R), a.color(c.Color), true)
	}
	for _, o := range a.frame.Overlays {
		vector.DrawFilledCircle(screen, float32(o.X), float32(o.Y), float32(o.R), color.NRGBA{255, 255, 255, uint8(o.Alpha)}, true)
	}
	for _, l := range a.frame.Labels {
		a.drawLabel(screen, l)
	}
}

// drawLabel scales the bitmap font up to the label size.
func (a *App) drawLabel(screen *ebiten.Image, l frame.Label) {
	face := basicfont.Face7x13
	scale := float64(l.Size) / glyphHeight
	x := l.X
	if l.Centered {
		x -= float64(text.BoundString(face, l.Text).Dx()) * scale / 2
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, l.Y+float64(face.Ascent)*scale)
	op.ColorScale.ScaleWithColor(a.color(l.Color))
	text.DrawWithOptions(screen, l.Text, face, op)
}

// color caches parsed hex colours; bad ones draw white.
func (a *App) color(hex string) color.RGBA {
	if c, ok := a.colors[hex]; ok {
		return c
	}
	c, err := utility.ParseHex(hex)
	if err != nil {
		c = utility.White
	}
	a.colors[hex] = c
	return c
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// Run opens the window and plays until the player exits.
func Run(cfg config.Config) error {
	if err := cfg.Check(); err != nil {
		return err
	}
	game := gamedata.NewGame(round.New(cfg.Game(), cfg.Rand()), nil, "desktop")

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Aim Trainer")
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(cfg.FPS)

	app := New(game, cfg.Width, cfg.Height)
	if err := ebiten.RunGame(app); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	if res, ok := game.LastResult(); ok {
		log.Printf("[Desktop] Last round: %s mode, score %d, accuracy %.1f%%\n", res.Mode, res.Score, res.Accuracy())
	}
	return nil
}
