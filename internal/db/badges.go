package db

import "fmt"

func (d *DB) AwardBadge(roundID, sessionID, badgeID string) error {
	_, err := d.conn.Exec(`
		INSERT INTO round_badges (round_id, session_id, badge_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (round_id, badge_id) DO NOTHING
	`, roundID, sessionID, badgeID)
	if err != nil {
		return fmt.Errorf("awarding badge: %w", err)
	}
	return nil
}

// GetSessionBadges lists the distinct badges a session has earned, oldest first.
func (d *DB) GetSessionBadges(sessionID string) ([]string, error) {
	rows, err := d.conn.Query(`
		SELECT badge_id FROM round_badges WHERE session_id = $1
		GROUP BY badge_id ORDER BY MIN(awarded_at)
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("getting badges: %w", err)
	}
	defer rows.Close()

	var badges []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		badges = append(badges, id)
	}
	return badges, rows.Err()
}
