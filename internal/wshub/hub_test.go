package wshub

import (
	"aimtrainer/internal/engine"
	"aimtrainer/internal/events"
	"aimtrainer/internal/frame"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestRegisterAndBroadcast(t *testing.T) {
	h := NewHub()

	c1 := NewClient("p1", nil)
	c2 := NewClient("p2", nil)
	c3 := NewClient("p3", nil)

	h.Register(c1)
	h.Register(c2)
	h.Register(c3)

	if h.Count() != 3 {
		t.Fatalf("Count = %d, want 3", h.Count())
	}

	msg := ServerMessage{Type: "result", SessionID: "p1", Score: 42, Mode: "moving"}
	h.BroadcastExcept("p1", msg)

	// c2 and c3 should receive the message, c1 should not
	select {
	case data := <-c2.Send:
		var got ServerMessage
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Type != "result" || got.Score != 42 || got.Mode != "moving" {
			t.Fatalf("unexpected message: %+v", got)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("c2 did not receive message")
	}

	select {
	case <-c3.Send:
		// expected
	case <-time.After(100 * time.Millisecond):
		t.Fatal("c3 did not receive message")
	}

	select {
	case <-c1.Send:
		t.Fatal("c1 should not receive its own message")
	default:
		// expected
	}
}

func TestUnregisterBroadcastsLeave(t *testing.T) {
	h := NewHub()

	c1 := NewClient("p1", nil)
	c2 := NewClient("p2", nil)

	h.Register(c1)
	h.Register(c2)

	h.Unregister("p1")

	// c2 should receive a leave message
	select {
	case data := <-c2.Send:
		var got ServerMessage
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Type != "leave" || got.SessionID != "p1" {
			t.Fatalf("expected leave for p1, got: %+v", got)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("c2 did not receive leave message")
	}

	// c1's Send channel should be closed
	_, ok := <-c1.Send
	if ok {
		t.Fatal("c1.Send should be closed")
	}
	if h.Get("p1") != nil {
		t.Error("p1 should be gone from the hub")
	}
}

func TestUnregisterNonexistent(t *testing.T) {
	h := NewHub()
	// Should not panic
	h.Unregister("nonexistent")
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := NewHub()

	c := &Client{SessionID: "p1", Send: make(chan []byte, 1)}
	h.Register(c)

	// Fill the channel
	c.Send <- []byte("filler")

	// Full buffer: the message is dropped instead of blocking.
	h.BroadcastExcept("other", ServerMessage{Type: "result", Score: 1})

	// Only the filler should be in the channel
	data := <-c.Send
	if string(data) != "filler" {
		t.Fatalf("expected filler, got: %s", data)
	}

	select {
	case <-c.Send:
		t.Fatal("should be empty after draining filler")
	default:
		// expected
	}
}

func TestSendTo(t *testing.T) {
	h := NewHub()
	c1 := NewClient("p1", nil)
	c2 := NewClient("p2", nil)
	h.Register(c1)
	h.Register(c2)

	if !h.SendTo("p1", ServerMessage{Type: "badges", Badges: []string{"centurion"}}) {
		t.Fatal("SendTo() to a registered session should succeed")
	}

	var got ServerMessage
	if err := json.Unmarshal(<-c1.Send, &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != "badges" || len(got.Badges) != 1 || got.Badges[0] != "centurion" {
		t.Errorf("got %+v", got)
	}

	select {
	case <-c2.Send:
		t.Error("p2 should not receive p1's message")
	default:
	}

	h.Unregister("p1")
	if h.SendTo("p1", ServerMessage{Type: "badges"}) {
		t.Error("SendTo() after unregister should report false")
	}
}

func TestClientMessage_ToInput(t *testing.T) {
	in, ok := ClientMessage{Type: "click", X: 10, Y: 20}.ToInput()
	if !ok || !in.IsShot() || in.X != 10 || in.Y != 20 {
		t.Errorf("click without button = %+v, want primary shot at (10,20)", in)
	}

	in, ok = ClientMessage{Type: "click", X: 10, Y: 20, Button: 3}.ToInput()
	if !ok || in.IsShot() {
		t.Errorf("right click = %+v, should not be a shot", in)
	}

	in, ok = ClientMessage{Type: "key", Key: "S"}.ToInput()
	if !ok || !in.IsKey('s') {
		t.Errorf("key S = %+v, want key s", in)
	}

	if _, ok := (ClientMessage{Type: "key", Key: "Enter"}).ToInput(); ok {
		t.Error("multi-rune keys should be rejected")
	}
	if _, ok := (ClientMessage{Type: "dance"}).ToInput(); ok {
		t.Error("unknown types should be rejected")
	}

	in, ok = ClientMessage{Type: "quit"}.ToInput()
	if !ok || in.Kind != events.Quit {
		t.Errorf("quit = %+v", in)
	}
}

func TestClient_PollDrainsInOrder(t *testing.T) {
	c := NewClient("p1", nil)
	c.Deliver(events.Key('s'))
	c.Deliver(events.Click(1, 2, events.ButtonPrimary))

	got, err := c.Poll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || !got[0].IsKey('s') || !got[1].IsShot() {
		t.Fatalf("Poll() = %+v", got)
	}

	got, err = c.Poll()
	if err != nil || len(got) != 0 {
		t.Errorf("second Poll() = %+v, %v; want empty", got, err)
	}
}

func TestClient_PollAfterClose(t *testing.T) {
	c := NewClient("p1", nil)
	c.Deliver(events.Key('m'))
	c.Close()

	got, err := c.Poll()
	if err != nil || len(got) != 1 {
		t.Fatalf("queued input should drain first, got %+v, %v", got, err)
	}
	if _, err := c.Poll(); !errors.Is(err, engine.ErrSurfaceClosed) {
		t.Errorf("Poll() after close = %v, want ErrSurfaceClosed", err)
	}
	if err := c.Present(frame.Frame{}); !errors.Is(err, engine.ErrSurfaceClosed) {
		t.Errorf("Present() after close = %v, want ErrSurfaceClosed", err)
	}
	// Close is idempotent
	c.Close()
}

func TestClient_PresentEncodesFrame(t *testing.T) {
	c := NewClient("p1", nil)
	f := frame.Frame{Scene: "playing", Width: 800, Height: 600,
		Circles: []frame.Circle{{X: 1, Y: 2, R: 15, Color: "#ff0000"}}}

	if err := c.Present(f); err != nil {
		t.Fatal(err)
	}

	var got ServerMessage
	if err := json.Unmarshal(<-c.Send, &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != "frame" || got.Frame == nil || got.Frame.Scene != "playing" || len(got.Frame.Circles) != 1 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestWritePump_Flushed(t *testing.T) {
	c := NewClient("a", nil)
	close(c.Send)

	go c.WritePump(context.Background())

	select {
	case <-c.Flushed():
	case <-time.After(time.Second):
		t.Fatal("Flushed should close once Send is drained")
	}
}
