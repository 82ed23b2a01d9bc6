// Package effects tracks the expanding, fading rings left where targets were
// destroyed.
package effects

const (
	StartAlpha = 255
	GrowthStep = 5
	DecayStep  = 15
)

type Effect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	Alpha  int     `json:"a"`
}

type Manager struct {
	startRadius float64
	effects     []Effect
}

// NewManager returns a manager whose effects all start at startRadius,
// whatever the size of the target that spawned them.
func NewManager(startRadius float64) *Manager {
	if startRadius <= 0 {
		panic("effects: start radius must be positive")
	}
	return &Manager{startRadius: startRadius}
}

func (m *Manager) Spawn(x, y float64) {
	m.effects = append(m.effects, Effect{X: x, Y: y, Radius: m.startRadius, Alpha: StartAlpha})
}

// AdvanceAll grows and fades every effect by one frame, drops the ones that
// have faded out and returns the survivors. The returned slice is only valid
// until the next call.
func (m *Manager) AdvanceAll() []Effect {
	live := m.effects[:0]
	for _, e := range m.effects {
		e.Radius += GrowthStep
		e.Alpha -= DecayStep
		if e.Alpha <= 0 {
			continue
		}
		live = append(live, e)
	}
	m.effects = live
	return m.effects
}

// Active returns the current effects without advancing them.
func (m *Manager) Active() []Effect {
	return m.effects
}

func (m *Manager) Len() int {
	return len(m.effects)
}

func (m *Manager) Clear() {
	m.effects = nil
}
