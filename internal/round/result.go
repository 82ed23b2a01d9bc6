package round

import "time"

type Result struct {
	Mode       Mode      `json:"mode"`
	Score      int       `json:"score"`
	Hits       int       `json:"hits"`
	Misses     int       `json:"misses"`
	Frames     int       `json:"frames"`
	BestStreak int       `json:"bestStreak"`
	StartedAt  time.Time `json:"startedAt"`
	EndedAt    time.Time `json:"endedAt"`
	HitLog     []Hit     `json:"-"`
}

// Accuracy is the hit percentage over all shots, 0 when nothing was fired.
func (r Result) Accuracy() float64 {
	shots := r.Hits + r.Misses
	if shots == 0 {
		return 0
	}
	return float64(r.Hits) / float64(shots) * 100
}

// AvgReactionFrames is the mean number of frames a target was alive before it
// was hit.
func (r Result) AvgReactionFrames() float64 {
	if len(r.HitLog) == 0 {
		return 0
	}
	total := 0
	for _, h := range r.HitLog {
		total += h.ReactionFrames
	}
	return float64(total) / float64(len(r.HitLog))
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "moving":
		*m = Moving
	default:
		*m = Static
	}
	return nil
}
