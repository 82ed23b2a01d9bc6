package server

import (
	"aimtrainer/internal/config"
	"aimtrainer/internal/events"
	"aimtrainer/internal/round"
	"aimtrainer/internal/wshub"
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Defaults()
	cfg.FPS = 120
	cfg.Seed = 5

	srv := New(cfg, nil)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestHandleHome(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "<canvas") {
		t.Error("home page should contain the game canvas")
	}

	resp, err = http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", resp.StatusCode)
	}
}

func TestHandleHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "ok" {
		t.Errorf("status = %v, want ok", got["status"])
	}
}

func TestDatabaseEndpoints_WithoutDB(t *testing.T) {
	_, ts := newTestServer(t)

	for _, path := range []string{"/leaderboard?cat=score", "/sessions/abc", "/rounds/abc"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", path, resp.StatusCode)
		}
	}
}

func TestHandleLeaderboard_UnknownCategory(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/leaderboard?cat=bogus")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleMetrics(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.Metrics.SessionOpened()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "aimtrainer_active_sessions 1") {
		t.Errorf("metrics missing session gauge:\n%s", body)
	}
}

func TestHandleEvents_RoundOver(t *testing.T) {
	srv, ts := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	srv.Bus.PublishResult(events.RoundResult{SessionID: "s1", Result: round.Result{Score: 42}})

	scanner := bufio.NewScanner(resp.Body)
	sawEvent := false
	for scanner.Scan() {
		line := scanner.Text()
		if line == "event: roundOver" {
			sawEvent = true
			continue
		}
		if sawEvent && strings.HasPrefix(line, "data: ") {
			var res events.RoundResult
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &res); err != nil {
				t.Fatalf("bad data line %q: %v", line, err)
			}
			if res.SessionID != "s1" || res.Score != 42 {
				t.Errorf("result = %+v", res)
			}
			return
		}
	}
	t.Fatal("stream ended without a roundOver event")
}

func TestOnResult_NotifiesPlayers(t *testing.T) {
	srv, _ := newTestServer(t)

	me := wshub.NewClient("me", nil)
	other := wshub.NewClient("other", nil)
	srv.Hub.Register(me)
	srv.Hub.Register(other)

	srv.OnResult(events.RoundResult{SessionID: "me", Result: round.Result{Mode: round.Static, Score: 120, Hits: 40}})

	var badges wshub.ServerMessage
	if err := json.Unmarshal(<-me.Send, &badges); err != nil {
		t.Fatal(err)
	}
	if badges.Type != "badges" || badges.RoundID == "" {
		t.Fatalf("own message = %+v, want badges with a round id", badges)
	}
	if strings.Join(badges.Badges, ",") != "sharpshooter,deadeye,centurion" {
		t.Errorf("badges = %v, want sharpshooter, deadeye, centurion", badges.Badges)
	}

	var result wshub.ServerMessage
	if err := json.Unmarshal(<-other.Send, &result); err != nil {
		t.Fatal(err)
	}
	if result.Type != "result" || result.SessionID != "me" || result.Score != 120 || result.Mode != "static" {
		t.Errorf("broadcast = %+v", result)
	}
}

func readFrame(ctx context.Context, t *testing.T, c *websocket.Conn) (wshub.ServerMessage, error) {
	t.Helper()
	_, data, err := c.Read(ctx)
	if err != nil {
		return wshub.ServerMessage{}, err
	}
	var msg wshub.ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return msg, nil
}

func TestHandleWS_PlayAndQuit(t *testing.T) {
	srv, ts := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.CloseNow()

	hello, err := readFrame(ctx, t, c)
	if err != nil {
		t.Fatal(err)
	}
	if hello.Type != "hello" || hello.SessionID == "" {
		t.Fatalf("first message = %+v, want hello with a session id", hello)
	}

	if err := c.Write(ctx, websocket.MessageText, []byte(`{"t":"key","k":"S"}`)); err != nil {
		t.Fatal(err)
	}

	for {
		msg, err := readFrame(ctx, t, c)
		if err != nil {
			t.Fatalf("waiting for play: %v", err)
		}
		if msg.Type == "frame" && msg.Frame.Scene == "playing" {
			if len(msg.Frame.Circles) != 5 {
				t.Errorf("circles = %d, want 5", len(msg.Frame.Circles))
			}
			break
		}
	}

	if err := c.Write(ctx, websocket.MessageText, []byte(`{"t":"quit"}`)); err != nil {
		t.Fatal(err)
	}

	// The server hangs up once the game exits, after sending the exit frame.
	lastScene := ""
	for {
		msg, err := readFrame(ctx, t, c)
		if err != nil {
			break
		}
		if msg.Type == "frame" {
			lastScene = msg.Frame.Scene
		}
	}
	if lastScene != "exit" {
		t.Errorf("last frame scene = %q, want exit", lastScene)
	}

	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("hub still has %d sessions", srv.Hub.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHandleWS_UnplayableConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Targets = 0
	srv := New(cfg, nil)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, resp, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err == nil {
		t.Fatal("Dial should fail when no game can be built")
	}
	if resp == nil || resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("response = %v, want 500", resp)
	}
	if n := srv.Hub.Count(); n != 0 {
		t.Errorf("hub sessions = %d, want 0", n)
	}
}

func TestHandleWS_EnvFallbacks(t *testing.T) {
	t.Setenv("AIM_CONFIG", "")
	t.Setenv("AIM_TARGETS", "0")
	t.Setenv("AIM_FPS", "0")
	srv := New(config.Load(), nil)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if hello, err := readFrame(ctx, t, c); err != nil || hello.Type != "hello" {
		t.Fatalf("first message = %+v, %v; want hello", hello, err)
	}
	c.CloseNow()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("hub still has %d sessions", srv.Hub.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
