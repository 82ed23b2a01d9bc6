package db

import (
	"aimtrainer/internal/round"
	"os"
	"testing"
	"time"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := Connect(dsn)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() {
		// Clean up test data
		database.conn.Exec("DELETE FROM round_badges")
		database.conn.Exec("DELETE FROM round_hits")
		database.conn.Exec("DELETE FROM rounds")
		database.Close()
	})
	return database
}

func sampleResult() round.Result {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return round.Result{
		Mode:       round.Moving,
		Score:      7,
		Hits:       3,
		Misses:     2,
		Frames:     240,
		BestStreak: 2,
		StartedAt:  now.Add(-4 * time.Second),
		EndedAt:    now,
		HitLog: []round.Hit{
			{TargetID: 1, Points: 3, Radius: 15, X: 100, Y: 120, ReactionFrames: 40},
			{TargetID: 2, Points: 2, Radius: 20, X: 300, Y: 200, ReactionFrames: 55},
			{TargetID: 4, Points: 2, Radius: 20, X: 500, Y: 350, ReactionFrames: 31},
		},
	}
}

func TestNewRoundRecord(t *testing.T) {
	rec := NewRoundRecord("s1", sampleResult())

	if rec.ID == "" {
		t.Error("record should get an id")
	}
	if rec.Mode != "moving" {
		t.Errorf("Mode = %q, want moving", rec.Mode)
	}
	if len(rec.HitLog) != 3 || rec.HitLog[1].Points != 2 || rec.HitLog[2].ReactionFrames != 31 {
		t.Errorf("HitLog = %+v", rec.HitLog)
	}
	if other := NewRoundRecord("s1", sampleResult()); other.ID == rec.ID {
		t.Error("ids should be unique")
	}
}

func TestConnect(t *testing.T) {
	database := getTestDB(t)
	if err := database.Ping(); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	database := getTestDB(t)

	// Verify tables exist by querying them
	tables := []string{"rounds", "round_hits", "round_badges"}
	for _, table := range tables {
		var exists bool
		err := database.conn.QueryRow(`
			SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)
		`, table).Scan(&exists)
		if err != nil {
			t.Errorf("checking table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("table %s does not exist", table)
		}
	}

	// Running twice should be harmless
	if err := database.Migrate(); err != nil {
		t.Errorf("second Migrate() error: %v", err)
	}
}

func TestSaveAndGetRound(t *testing.T) {
	database := getTestDB(t)

	rec := NewRoundRecord("s1", sampleResult())
	if err := database.SaveRound(rec); err != nil {
		t.Fatalf("SaveRound() error: %v", err)
	}

	got, err := database.GetRound(rec.ID)
	if err != nil {
		t.Fatalf("GetRound() error: %v", err)
	}
	if got.Score != 7 || got.Hits != 3 || got.Misses != 2 || got.Frames != 240 {
		t.Errorf("round = %+v", got)
	}
	if got.Mode != "moving" || got.SessionID != "s1" {
		t.Errorf("mode/session = %q/%q", got.Mode, got.SessionID)
	}
	if len(got.HitLog) != 3 || got.HitLog[0].TargetID != 1 {
		t.Errorf("hits = %+v", got.HitLog)
	}
}

func TestGetRound_NotFound(t *testing.T) {
	database := getTestDB(t)

	_, err := database.GetRound("00000000-0000-0000-0000-000000000000")
	if err == nil {
		t.Error("GetRound() should return error for nonexistent round")
	}
}

func TestBatchSaveRounds(t *testing.T) {
	database := getTestDB(t)

	recs := []RoundRecord{
		NewRoundRecord("s1", sampleResult()),
		NewRoundRecord("s2", sampleResult()),
		NewRoundRecord("s2", round.Result{Mode: round.Static}),
	}

	if err := database.BatchSaveRounds(recs); err != nil {
		t.Fatalf("BatchSaveRounds() error: %v", err)
	}

	var count int
	database.conn.QueryRow("SELECT COUNT(*) FROM rounds WHERE session_id = $1", "s2").Scan(&count)
	if count != 2 {
		t.Errorf("round count = %d, want 2", count)
	}
	database.conn.QueryRow("SELECT COUNT(*) FROM round_hits").Scan(&count)
	if count != 6 {
		t.Errorf("hit count = %d, want 6", count)
	}
}

func TestAwardBadge(t *testing.T) {
	database := getTestDB(t)

	rec := NewRoundRecord("s1", sampleResult())
	database.SaveRound(rec)

	if err := database.AwardBadge(rec.ID, "s1", "centurion"); err != nil {
		t.Fatalf("AwardBadge() error: %v", err)
	}
	// Awarding twice is a no-op
	if err := database.AwardBadge(rec.ID, "s1", "centurion"); err != nil {
		t.Fatalf("AwardBadge() repeat error: %v", err)
	}

	badges, err := database.GetSessionBadges("s1")
	if err != nil {
		t.Fatalf("GetSessionBadges() error: %v", err)
	}
	if len(badges) != 1 || badges[0] != "centurion" {
		t.Errorf("badges = %v, want [centurion]", badges)
	}
}
