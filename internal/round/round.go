package round

import (
	"aimtrainer/internal/effects"
	"aimtrainer/internal/targets"
	"math/rand/v2"
	"time"
)

type Mode int

const (
	Static Mode = iota
	Moving
)

func (m Mode) String() string {
	if m == Moving {
		return "moving"
	}
	return "static"
}

type Phase int

const (
	Idle Phase = iota
	Running
	Ended
)

type Status int

const (
	Continue Status = iota
	RoundOver
)

// Shot is a primary-button click in playfield coordinates.
type Shot struct {
	X float64
	Y float64
}

type Hit struct {
	TargetID       int
	Points         int
	Radius         float64
	X              float64
	Y              float64
	ReactionFrames int
}

type State struct {
	cfg     Config
	rng     *rand.Rand
	targets *targets.Store
	effects *effects.Manager
	now     func() time.Time

	phase      Phase
	mode       Mode
	score      int
	lives      int
	hits       int
	misses     int
	frame      int
	streak     int
	bestStreak int
	hitLog     []Hit
	startedAt  time.Time
	endedAt    time.Time
}

func New(cfg Config, rng *rand.Rand) *State {
	cfg.Validate()
	return &State{
		cfg:     cfg,
		rng:     rng,
		targets: targets.NewStore(),
		effects: effects.NewManager(targets.Large.Radius()),
		now:     time.Now,
	}
}

// SetClock replaces the wall clock used for round timestamps.
func (s *State) SetClock(now func() time.Time) {
	s.now = now
}

// Start resets the round and fills the playfield.
func (s *State) Start(mode Mode) {
	s.mode = mode
	s.phase = Running
	s.score = 0
	s.lives = s.cfg.Lives
	s.hits = 0
	s.misses = 0
	s.frame = 0
	s.streak = 0
	s.bestStreak = 0
	s.hitLog = nil
	s.startedAt = s.now()
	s.endedAt = time.Time{}
	s.targets.Clear()
	s.effects.Clear()
	s.refill()
}

// Tick advances the round one frame. Shots are resolved in order before
// anything moves; once lives run out the remaining shots are dropped and the
// frame stops there.
func (s *State) Tick(shots ...Shot) Status {
	switch s.phase {
	case Idle:
		panic("round: Tick before Start")
	case Ended:
		return RoundOver
	}
	s.frame++

	for _, shot := range shots {
		if t, ok := s.scan(shot); ok {
			s.registerHit(t)
			continue
		}
		s.registerMiss()
		if s.lives <= 0 {
			s.end()
			return RoundOver
		}
	}

	bounds := s.cfg.Bounds()
	for _, t := range s.targets.All() {
		t.Advance(bounds)
	}

	s.targets.Sweep()
	s.refill()
	s.effects.AdvanceAll()
	return Continue
}

// scan returns the first live target under the shot, in spawn order.
func (s *State) scan(shot Shot) (*targets.Target, bool) {
	for _, t := range s.targets.All() {
		if !t.Hit && t.ContainsPoint(shot.X, shot.Y) {
			return t, true
		}
	}
	return nil, false
}

func (s *State) registerHit(t *targets.Target) {
	s.targets.Kill(t.ID)
	s.score += t.Points
	s.hits++
	s.streak++
	if s.streak > s.bestStreak {
		s.bestStreak = s.streak
	}
	s.hitLog = append(s.hitLog, Hit{
		TargetID:       t.ID,
		Points:         t.Points,
		Radius:         t.Radius,
		X:              t.X,
		Y:              t.Y,
		ReactionFrames: s.frame - t.SpawnedFrame,
	})
	s.effects.Spawn(t.X, t.Y)
}

func (s *State) registerMiss() {
	s.lives--
	s.misses++
	s.streak = 0
}

func (s *State) end() {
	s.phase = Ended
	s.endedAt = s.now()
}

// refill tops the live set up to the configured count, rolling a fresh size
// for every new target.
func (s *State) refill() {
	bounds := s.cfg.Bounds()
	moving := s.mode == Moving
	for len(s.targets.GetList()) < s.cfg.TargetCount {
		t := targets.Spawn(s.rng, bounds, targets.Roll(s.rng), moving, s.cfg.MaxSpeed)
		t.SpawnedFrame = s.frame
		s.targets.Add(t)
	}
}

func (s *State) Config() Config { return s.cfg }
func (s *State) Phase() Phase   { return s.phase }
func (s *State) Mode() Mode     { return s.mode }
func (s *State) Score() int     { return s.score }
func (s *State) Lives() int     { return s.lives }
func (s *State) Hits() int      { return s.hits }
func (s *State) Misses() int    { return s.misses }
func (s *State) Frames() int    { return s.frame }

// Targets returns the live targets in hit-scan order.
func (s *State) Targets() []*targets.Target {
	return s.targets.GetList()
}

func (s *State) Effects() []effects.Effect {
	return s.effects.Active()
}

// Result summarises the round so far.
func (s *State) Result() Result {
	ended := s.endedAt
	if ended.IsZero() {
		ended = s.now()
	}
	log := make([]Hit, len(s.hitLog))
	copy(log, s.hitLog)
	return Result{
		Mode:       s.mode,
		Score:      s.score,
		Hits:       s.hits,
		Misses:     s.misses,
		Frames:     s.frame,
		BestStreak: s.bestStreak,
		StartedAt:  s.startedAt,
		EndedAt:    ended,
		HitLog:     log,
	}
}
