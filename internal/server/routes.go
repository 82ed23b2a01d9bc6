package server

import (
	"aimtrainer/internal/broadcast"
	"aimtrainer/internal/config"
	"aimtrainer/internal/db"
	"aimtrainer/internal/events"
	"aimtrainer/internal/metrics"
	"aimtrainer/internal/wshub"
	"fmt"
	"log"
	"net/http"
	"time"
)

func Run() error {
	appCfg := config.Load()
	if err := appCfg.Check(); err != nil {
		return err
	}

	var database *db.DB
	// Optional database connection
	if appCfg.DatabaseURL != "" {
		conn, err := db.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := conn.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			database = conn
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}

	srv := New(appCfg, database)

	addr := "0.0.0.0:" + appCfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", appCfg.Port)
	return http.ListenAndServe(addr, srv.Routes())
}

// New wires a server around cfg. database may be nil.
func New(cfg config.Config, database *db.DB) *Server {
	srv := &Server{
		Config:  cfg,
		Hub:     wshub.NewHub(),
		Bus:     events.NewBus(),
		Metrics: metrics.New(),
		DB:      database,
	}
	if database != nil {
		srv.ResultBuffer = make(chan pendingRound, 100)
		go resultBatchWriter(database, srv.ResultBuffer)
	}
	srv.Broadcaster = broadcast.NewBroadcaster(srv.Bus, srv.Metrics, srv)
	return srv
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.Metrics.Handler())
	mux.HandleFunc("/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/sessions/{id}", s.handleSessionStats)
	mux.HandleFunc("/rounds/{id}", s.handleRoundRecap)
	return mux
}

func resultBatchWriter(database *db.DB, buffer chan pendingRound) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	batch := make([]pendingRound, 0, 20)

	for {
		select {
		case p := <-buffer:
			batch = append(batch, p)
			if len(batch) >= 20 {
				flushRounds(database, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				flushRounds(database, batch)
				batch = batch[:0]
			}
		}
	}
}

// flushRounds saves a batch and then awards its badges, which reference the
// saved rows.
func flushRounds(database *db.DB, batch []pendingRound) {
	recs := make([]db.RoundRecord, len(batch))
	for i, p := range batch {
		recs[i] = p.Record
	}
	if err := database.BatchSaveRounds(recs); err != nil {
		log.Printf("[DB] BatchSaveRounds error: %v\n", err)
		return
	}
	for _, p := range batch {
		for _, b := range p.Badges {
			if err := database.AwardBadge(p.Record.ID, p.Record.SessionID, string(b.ID)); err != nil {
				log.Printf("[DB] AwardBadge error: %v\n", err)
			}
		}
	}
}
