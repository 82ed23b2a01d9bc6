// Package terminal plays the game in a text console. Each cell stands for a
// block of game units and shapes are rasterised by cell centre.
package terminal

import (
	"aimtrainer/internal/engine"
	"aimtrainer/internal/events"
	"aimtrainer/internal/frame"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Surface is an engine surface over a tcell screen.
type Surface struct {
	screen tcell.Screen
	width  float64
	height float64

	events    chan tcell.Event
	quit      chan struct{}
	closeOnce sync.Once
	buttons   tcell.ButtonMask
}

// NewSurface takes over an initialised screen. width and height are the game
// area in game units.
func NewSurface(screen tcell.Screen, width, height float64) *Surface {
	s := &Surface{
		screen: screen,
		width:  width,
		height: height,
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
	}
	screen.EnableMouse()
	screen.HideCursor()
	go s.pump()
	return s
}

func (s *Surface) pump() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.quit:
			return
		}
	}
}

// cellSize is how many game units one cell covers.
func (s *Surface) cellSize() (float64, float64) {
	cols, rows := s.screen.Size()
	if cols <= 0 || rows <= 0 {
		return s.width, s.height
	}
	return s.width / float64(cols), s.height / float64(rows)
}

// toUnits maps a cell to the game coordinates of its centre.
func (s *Surface) toUnits(x, y int) (float64, float64) {
	cw, ch := s.cellSize()
	return (float64(x) + 0.5) * cw, (float64(y) + 0.5) * ch
}

func (s *Surface) Poll() ([]events.Input, error) {
	var out []events.Input
	for {
		select {
		case <-s.quit:
			return nil, engine.ErrSurfaceClosed
		case ev := <-s.events:
			if in, ok := s.translate(ev); ok {
				out = append(out, in)
			}
		default:
			return out, nil
		}
	}
}

func (s *Surface) translate(ev tcell.Event) (events.Input, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		switch e.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return events.QuitInput(), true
		case tcell.KeyRune:
			return events.Key(e.Rune()), true
		}
	case *tcell.EventMouse:
		// Buttons are reported as held state, so only the press edge counts.
		held := e.Buttons()
		pressed := held &^ s.buttons
		s.buttons = held
		x, y := s.toUnits(e.Position())
		switch {
		case pressed&tcell.Button1 != 0:
			return events.Click(x, y, events.ButtonPrimary), true
		case pressed&tcell.Button3 != 0:
			return events.Click(x, y, 2), true
		case pressed&tcell.Button2 != 0:
			return events.Click(x, y, 3), true
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return events.Input{}, false
}

func (s *Surface) Present(f frame.Frame) error {
	select {
	case <-s.quit:
		return engine.ErrSurfaceClosed
	default:
	}

	s.screen.Clear()
	cols, rows := s.screen.Size()
	base := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			ux, uy := s.toUnits(x, y)
			ch, style := ' ', base
			for _, c := range f.Circles {
				if math.Hypot(ux-c.X, uy-c.Y) <= c.R {
					style = base.Background(tcell.GetColor(c.Color))
				}
			}
			for _, o := range f.Overlays {
				if math.Hypot(ux-o.X, uy-o.Y) <= o.R {
					ch = overlayRune(o.Alpha)
				}
			}
			s.screen.SetContent(x, y, ch, nil, style)
		}
	}

	cw, chh := s.cellSize()
	for _, l := range f.Labels {
		col := int(l.X / cw)
		if l.Centered {
			col -= len([]rune(l.Text)) / 2
		}
		row := int(l.Y / chh)
		style := base.Foreground(tcell.GetColor(l.Color))
		for i, r := range []rune(l.Text) {
			if x := col + i; x >= 0 && x < cols && row >= 0 && row < rows {
				s.screen.SetContent(x, row, r, nil, style)
			}
		}
	}

	s.screen.Show()
	return nil
}

// overlayRune fades a hit flash from solid to dotted as it loses alpha.
func overlayRune(alpha int) rune {
	switch {
	case alpha > 170:
		return '█'
	case alpha > 85:
		return '▒'
	default:
		return '░'
	}
}

func (s *Surface) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
		s.screen.Fini()
	})
	return nil
}
