package analytics

import (
	"aimtrainer/internal/db"
	"fmt"
)

// Categories lists the leaderboards GetLeaderboard knows how to rank.
var Categories = []string{"score", "hits", "accuracy"}

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

func (q *Queries) GetSessionStats(sessionID string) (*SessionStats, error) {
	stats := &SessionStats{SessionID: sessionID}

	var shots int
	err := q.DB.QueryRow(`
		SELECT
			COUNT(*) as rounds,
			COALESCE(SUM(score), 0) as total_score,
			COALESCE(MAX(score), 0) as best_score,
			COALESCE(SUM(hits), 0) as total_hits,
			COALESCE(SUM(hits + misses), 0) as shots
		FROM rounds
		WHERE session_id = $1
	`, sessionID).Scan(&stats.RoundsPlayed, &stats.TotalScore, &stats.BestScore, &stats.TotalHits, &shots)
	if err != nil {
		return nil, fmt.Errorf("getting session stats: %w", err)
	}
	if shots > 0 {
		stats.Accuracy = float64(stats.TotalHits) / float64(shots) * 100
	}

	ids, err := q.DB.GetSessionBadges(sessionID)
	if err != nil {
		return nil, err
	}
	stats.Badges = BadgesFromIDs(ids)

	return stats, nil
}

func (q *Queries) GetLeaderboard(category string, limit int) ([]LeaderboardEntry, error) {
	var query string
	switch category {
	case "score":
		query = `
			SELECT session_id, MAX(score)::float8 as value
			FROM rounds
			GROUP BY session_id
			ORDER BY value DESC
			LIMIT $1`
	case "hits":
		query = `
			SELECT session_id, SUM(hits)::float8 as value
			FROM rounds
			GROUP BY session_id
			ORDER BY value DESC
			LIMIT $1`
	case "accuracy":
		query = `
			SELECT session_id,
				ROUND(SUM(hits)::numeric * 100 / NULLIF(SUM(hits + misses), 0), 2)::float8 as value
			FROM rounds
			GROUP BY session_id
			HAVING SUM(hits + misses) >= 10
			ORDER BY value DESC
			LIMIT $1`
	default:
		return nil, fmt.Errorf("unknown leaderboard category: %s", category)
	}

	rows, err := q.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.SessionID, &e.Value); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}
	return entries, nil
}

func (q *Queries) GetRoundRecap(roundID string) (*RoundRecap, error) {
	rec, err := q.DB.GetRound(roundID)
	if err != nil {
		return nil, err
	}

	stats := RoundStats{
		RoundID:    rec.ID,
		SessionID:  rec.SessionID,
		Mode:       rec.Mode,
		Score:      rec.Score,
		Hits:       rec.Hits,
		Misses:     rec.Misses,
		Frames:     rec.Frames,
		BestStreak: rec.BestStreak,
	}
	if stats.Shots() > 0 {
		stats.Accuracy = float64(stats.Hits) / float64(stats.Shots()) * 100
	}
	if len(rec.HitLog) > 0 {
		total := 0
		for _, h := range rec.HitLog {
			total += h.ReactionFrames
		}
		stats.AvgReactionFrames = float64(total) / float64(len(rec.HitLog))
	}

	recap := &RoundRecap{Stats: stats}

	rows, err := q.DB.Query(`SELECT badge_id FROM round_badges WHERE round_id = $1 ORDER BY awarded_at`, roundID)
	if err != nil {
		return nil, fmt.Errorf("getting round badges: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading round badges: %w", err)
	}
	recap.Badges = BadgesFromIDs(ids)

	return recap, nil
}
