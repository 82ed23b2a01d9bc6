package server

import (
	"aimtrainer/internal/analytics"
	"aimtrainer/internal/broadcast"
	"aimtrainer/internal/config"
	"aimtrainer/internal/db"
	"aimtrainer/internal/engine"
	"aimtrainer/internal/events"
	"aimtrainer/internal/gamedata"
	"aimtrainer/internal/metrics"
	"aimtrainer/internal/round"
	"aimtrainer/internal/wshub"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

//go:embed static/index.html
var indexHTML []byte

const flushTimeout = time.Second

type Server struct {
	Config       config.Config
	Hub          *wshub.Hub
	Bus          *events.Bus
	Broadcaster  *broadcast.Broadcaster
	Metrics      *metrics.Metrics
	DB           *db.DB            // nil if no database configured
	ResultBuffer chan pendingRound // nil if no database configured
}

// pendingRound is a finished round waiting for the batch writer.
type pendingRound struct {
	Record db.RoundRecord
	Badges []analytics.Badge
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexHTML); err != nil {
		log.Println(err)
	}
}

// handleWS runs one game per connection until the player quits or the
// socket drops.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	game, err := s.newGame()
	if err != nil {
		log.Printf("[WS] Cannot start game: %v\n", err)
		http.Error(w, "Game unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("[WS] Accept error: %v\n", err)
		return
	}

	sessionID := uuid.New().String()
	game.SessionID = sessionID
	client := wshub.NewClient(sessionID, conn)
	s.Hub.Register(client)
	s.Metrics.SessionOpened()
	log.Printf("[WS] Session %s connected (%d online)\n", sessionID, s.Hub.Count())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s.Hub.SendTo(sessionID, wshub.ServerMessage{Type: "hello", SessionID: sessionID})
	go client.WritePump(ctx)
	go client.ReadPump(ctx)

	if err := engine.Run(ctx, client, game, s.Config.FPS); err != nil {
		log.Printf("[WS] Session %s ended: %v\n", sessionID, err)
	}

	// Unregister closes Send; let the pump write what is left, the exit
	// frame included, before hanging up.
	s.Hub.Unregister(sessionID)
	s.Metrics.SessionClosed()
	select {
	case <-client.Flushed():
	case <-time.After(flushTimeout):
		log.Printf("[WS] Session %s: timed out flushing\n", sessionID)
	}
	conn.Close(websocket.StatusNormalClosure, "")
	log.Printf("[WS] Session %s disconnected\n", sessionID)
}

// newGame builds a session's game, reporting an unplayable config as an
// error rather than panicking mid-handshake.
func (s *Server) newGame() (*gamedata.Game, error) {
	if err := s.Config.Check(); err != nil {
		return nil, err
	}
	return gamedata.NewGame(round.New(s.Config.Game(), s.Config.Rand()), s.Bus, ""), nil
}

// OnScene satisfies broadcast.Listener; scene changes need no server work.
func (s *Server) OnScene(events.SceneChangeEvent) {}

// OnResult evaluates badges for a finished round, tells the players about it
// and queues it for persistence.
func (s *Server) OnResult(res events.RoundResult) {
	rec := db.NewRoundRecord(res.SessionID, res.Result)
	badges := analytics.EvaluateRoundBadges(analytics.FromResult(rec.ID, res.SessionID, res.Result))

	if len(badges) > 0 {
		ids := make([]string, len(badges))
		for i, b := range badges {
			ids[i] = string(b.ID)
		}
		s.Hub.SendTo(res.SessionID, wshub.ServerMessage{Type: "badges", SessionID: res.SessionID, RoundID: rec.ID, Badges: ids})
	}
	s.Hub.BroadcastExcept(res.SessionID, wshub.ServerMessage{
		Type:      "result",
		SessionID: res.SessionID,
		Score:     res.Score,
		Mode:      res.Mode.String(),
	})

	if s.ResultBuffer == nil {
		return
	}
	select {
	case s.ResultBuffer <- pendingRound{Record: rec, Badges: badges}:
	default:
		log.Println("[DB] Result buffer full, dropping round")
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	msgChan := s.Broadcaster.Subscribe()
	defer s.Broadcaster.Unsubscribe(msgChan)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-msgChan:
			fmt.Fprintf(w, "event: %s\n", msg.Event)
			for _, line := range strings.Split(msg.Msg, "\n") {
				fmt.Fprintf(w, "data: %s\n", line)
			}
			fmt.Fprint(w, "\n")
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := "ok"
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status = "db_error"
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": status, "error": err.Error()})
			return
		}
	}
	json.NewEncoder(w).Encode(map[string]any{"status": status, "sessions": s.Hub.Count()})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("cat")
	if category == "" {
		category = "score"
	}
	if !slices.Contains(analytics.Categories, category) {
		http.Error(w, "Unknown leaderboard category", http.StatusBadRequest)
		return
	}
	if s.DB == nil {
		http.Error(w, "Leaderboard requires a database connection", http.StatusServiceUnavailable)
		return
	}

	q := analytics.NewQueries(s.DB)
	entries, err := q.GetLeaderboard(category, 10)
	if err != nil {
		log.Printf("[Analytics] leaderboard error: %v\n", err)
		http.Error(w, "Error loading leaderboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "Stats require a database connection", http.StatusServiceUnavailable)
		return
	}

	q := analytics.NewQueries(s.DB)
	stats, err := q.GetSessionStats(r.PathValue("id"))
	if err != nil {
		log.Printf("[Analytics] session stats error: %v\n", err)
		http.Error(w, "Error loading session stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleRoundRecap(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "Recaps require a database connection", http.StatusServiceUnavailable)
		return
	}

	q := analytics.NewQueries(s.DB)
	recap, err := q.GetRoundRecap(r.PathValue("id"))
	if err != nil {
		log.Printf("[Analytics] round recap error: %v\n", err)
		http.Error(w, "Round not found", http.StatusNotFound)
		return
	}
	writeJSON(w, recap)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println(err)
	}
}
