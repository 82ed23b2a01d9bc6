// Package frame is the per-frame draw list the game hands to a display
// surface. Surfaces only paint what is in a Frame; they never look at game
// state directly.
package frame

const (
	SizeBody  = 35
	SizeTitle = 75
)

// Circle is a filled, opaque target.
type Circle struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r"`
	Color string  `json:"c"`
}

// Overlay is a translucent white disc drawn over everything else.
type Overlay struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r"`
	Alpha int     `json:"a"`
}

// Label is a line of text. When Centered is set X is the horizontal centre,
// otherwise the left edge. Y is the top of the line.
type Label struct {
	Text     string  `json:"t"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     int     `json:"s"`
	Color    string  `json:"c"`
	Centered bool    `json:"m,omitempty"`
}

type Frame struct {
	Scene    string    `json:"scene"`
	Width    float64   `json:"w"`
	Height   float64   `json:"h"`
	Circles  []Circle  `json:"circles,omitempty"`
	Overlays []Overlay `json:"overlays,omitempty"`
	Labels   []Label   `json:"labels,omitempty"`
}
