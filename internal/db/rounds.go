package db

import (
	"aimtrainer/internal/round"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type HitRecord struct {
	TargetID       int
	Points         int
	Radius         float64
	X              float64
	Y              float64
	ReactionFrames int
}

type RoundRecord struct {
	ID         string
	SessionID  string
	Mode       string
	Score      int
	Hits       int
	Misses     int
	Frames     int
	BestStreak int
	StartedAt  time.Time
	EndedAt    time.Time
	HitLog     []HitRecord
}

// NewRoundRecord gives a finished round a fresh id ready to be saved.
func NewRoundRecord(sessionID string, res round.Result) RoundRecord {
	rec := RoundRecord{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Mode:       res.Mode.String(),
		Score:      res.Score,
		Hits:       res.Hits,
		Misses:     res.Misses,
		Frames:     res.Frames,
		BestStreak: res.BestStreak,
		StartedAt:  res.StartedAt,
		EndedAt:    res.EndedAt,
	}
	for _, h := range res.HitLog {
		rec.HitLog = append(rec.HitLog, HitRecord(h))
	}
	return rec
}

func (d *DB) SaveRound(rec RoundRecord) error {
	return d.BatchSaveRounds([]RoundRecord{rec})
}

// BatchSaveRounds writes rounds and their hits in one transaction.
func (d *DB) BatchSaveRounds(recs []RoundRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	roundStmt, err := tx.Prepare(`
		INSERT INTO rounds (id, session_id, mode, score, hits, misses, frames, best_streak, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`)
	if err != nil {
		return fmt.Errorf("preparing round statement: %w", err)
	}
	defer roundStmt.Close()

	hitStmt, err := tx.Prepare(`
		INSERT INTO round_hits (round_id, target_id, points, radius, x, y, reaction_frames)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("preparing hit statement: %w", err)
	}
	defer hitStmt.Close()

	for _, r := range recs {
		if _, err := roundStmt.Exec(r.ID, r.SessionID, r.Mode, r.Score, r.Hits, r.Misses, r.Frames, r.BestStreak, nullTime(r.StartedAt), nullTime(r.EndedAt)); err != nil {
			return fmt.Errorf("saving round %s: %w", r.ID, err)
		}
		for _, h := range r.HitLog {
			if _, err := hitStmt.Exec(r.ID, h.TargetID, h.Points, h.Radius, h.X, h.Y, h.ReactionFrames); err != nil {
				return fmt.Errorf("saving hit for round %s: %w", r.ID, err)
			}
		}
	}

	return tx.Commit()
}

// GetRound loads a round and its hits.
func (d *DB) GetRound(id string) (*RoundRecord, error) {
	var r RoundRecord
	var started, ended sql.NullTime
	err := d.conn.QueryRow(`
		SELECT id, session_id, mode, score, hits, misses, frames, best_streak, started_at, ended_at
		FROM rounds WHERE id = $1
	`, id).Scan(&r.ID, &r.SessionID, &r.Mode, &r.Score, &r.Hits, &r.Misses, &r.Frames, &r.BestStreak, &started, &ended)
	if err != nil {
		return nil, fmt.Errorf("getting round: %w", err)
	}
	r.StartedAt = started.Time
	r.EndedAt = ended.Time

	rows, err := d.conn.Query(`
		SELECT target_id, points, radius, x, y, reaction_frames
		FROM round_hits WHERE round_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("getting round hits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h HitRecord
		if err := rows.Scan(&h.TargetID, &h.Points, &h.Radius, &h.X, &h.Y, &h.ReactionFrames); err != nil {
			return nil, err
		}
		r.HitLog = append(r.HitLog, h)
	}
	return &r, rows.Err()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
