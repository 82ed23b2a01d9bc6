package terminal

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	hitFreq    = 880
	missFreq   = 220
	toneLength = 80 * time.Millisecond
)

// Tones plays short feedback blips. Until Init succeeds every call is a
// no-op, so a machine without audio still plays silently.
type Tones struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewTones() *Tones {
	return &Tones{mixer: &beep.Mixer{}}
}

func (t *Tones) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(t.mixer)
	t.initialized = true
	return nil
}

func (t *Tones) Hit() {
	t.play(hitFreq)
}

func (t *Tones) Miss() {
	t.play(missFreq)
}

func (t *Tones) play(freq float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		return
	}
	tone, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Lock()
	t.mixer.Add(beep.Take(sampleRate.N(toneLength), tone))
	speaker.Unlock()
}

func (t *Tones) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		return
	}
	speaker.Clear()
	t.initialized = false
}
