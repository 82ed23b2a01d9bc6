package analytics

import "aimtrainer/internal/round"

type RoundStats struct {
	RoundID           string
	SessionID         string
	Mode              string
	Score             int
	Hits              int
	Misses            int
	Frames            int
	BestStreak        int
	Accuracy          float64 // percentage of shots that hit
	AvgReactionFrames float64
}

// FromResult summarises a finished round.
func FromResult(roundID, sessionID string, res round.Result) RoundStats {
	return RoundStats{
		RoundID:           roundID,
		SessionID:         sessionID,
		Mode:              res.Mode.String(),
		Score:             res.Score,
		Hits:              res.Hits,
		Misses:            res.Misses,
		Frames:            res.Frames,
		BestStreak:        res.BestStreak,
		Accuracy:          res.Accuracy(),
		AvgReactionFrames: res.AvgReactionFrames(),
	}
}

func (s RoundStats) Shots() int {
	return s.Hits + s.Misses
}

type SessionStats struct {
	SessionID    string  `json:"session"`
	RoundsPlayed int     `json:"rounds"`
	TotalScore   int     `json:"totalScore"`
	BestScore    int     `json:"bestScore"`
	TotalHits    int     `json:"totalHits"`
	Accuracy     float64 `json:"accuracy"`
	Badges       []Badge `json:"badges"`
}

type LeaderboardEntry struct {
	SessionID string  `json:"session"`
	Value     float64 `json:"value"`
	Rank      int     `json:"rank"`
}

type RoundRecap struct {
	Stats  RoundStats `json:"stats"`
	Badges []Badge    `json:"badges"`
}
