package wshub

import (
	"aimtrainer/internal/engine"
	"aimtrainer/internal/events"
	"aimtrainer/internal/frame"
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/coder/websocket"
)

// ClientMessage is the JSON structure received from clients.
type ClientMessage struct {
	Type   string  `json:"t"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Button int     `json:"b,omitempty"`
	Key    string  `json:"k,omitempty"`
}

// ToInput converts a client message into game input. Unknown or malformed
// messages are rejected.
func (m ClientMessage) ToInput() (events.Input, bool) {
	switch m.Type {
	case "quit":
		return events.QuitInput(), true
	case "click":
		button := m.Button
		if button == 0 {
			button = events.ButtonPrimary
		}
		return events.Click(m.X, m.Y, button), true
	case "key":
		if utf8.RuneCountInString(m.Key) != 1 {
			return events.Input{}, false
		}
		r, _ := utf8.DecodeRuneInString(strings.ToLower(m.Key))
		return events.Key(r), true
	}
	return events.Input{}, false
}

// ServerMessage is the JSON structure sent to clients.
type ServerMessage struct {
	Type      string       `json:"t"`
	SessionID string       `json:"id,omitempty"`
	Frame     *frame.Frame `json:"f,omitempty"`
	Score     int          `json:"p,omitempty"`
	Mode      string       `json:"m,omitempty"`
	RoundID   string       `json:"r,omitempty"`
	Badges    []string     `json:"bs,omitempty"`
}

// Client is one browser tab. It doubles as the engine surface for that
// tab's game: reads feed the input queue, frames go out through Send.
type Client struct {
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte

	inbox     chan events.Input
	done      chan struct{}
	flushed   chan struct{}
	closeOnce sync.Once
}

func NewClient(sessionID string, conn *websocket.Conn) *Client {
	return &Client{
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan []byte, 16),
		inbox:     make(chan events.Input, 64),
		done:      make(chan struct{}),
		flushed:   make(chan struct{}),
	}
}

// Deliver queues input for the next frame, dropping it if the queue is full.
func (c *Client) Deliver(in events.Input) bool {
	select {
	case c.inbox <- in:
		return true
	default:
		return false
	}
}

// Poll drains the input queue. Queued input is handed over before a closed
// connection is reported.
func (c *Client) Poll() ([]events.Input, error) {
	var out []events.Input
	for {
		select {
		case in := <-c.inbox:
			out = append(out, in)
		default:
			if len(out) == 0 && c.closed() {
				return nil, engine.ErrSurfaceClosed
			}
			return out, nil
		}
	}
}

func (c *Client) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Present encodes f and queues it. Frames are dropped rather than waited on
// when the connection is slow.
func (c *Client) Present(f frame.Frame) error {
	if c.closed() {
		return engine.ErrSurfaceClosed
	}
	data, err := json.Marshal(ServerMessage{Type: "frame", Frame: &f})
	if err != nil {
		return err
	}
	select {
	case c.Send <- data:
	default:
	}
	return nil
}

// Close marks the client as gone. It does not touch Send, which belongs to
// the hub.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

// ReadPump decodes client messages into the input queue until the
// connection fails.
func (c *Client) ReadPump(ctx context.Context) {
	defer c.Close()
	for {
		_, data, err := c.Conn.Read(ctx)
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WSHub] Bad message from %s: %v\n", c.SessionID, err)
			continue
		}
		in, ok := msg.ToInput()
		if !ok {
			continue
		}
		if !c.Deliver(in) {
			log.Printf("[WSHub] Input queue full for %s, dropping\n", c.SessionID)
		}
	}
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
// It returns once Send is closed and drained, or on a write error.
func (c *Client) WritePump(ctx context.Context) {
	defer close(c.flushed)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				c.Close()
				return
			}
		}
	}
}

// Flushed is closed when WritePump has returned.
func (c *Client) Flushed() <-chan struct{} {
	return c.flushed
}

// Hub tracks the connected sessions.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.SessionID] = c
}

// Unregister removes a client and closes its Send channel, then broadcasts a leave message.
func (h *Hub) Unregister(sessionID string) {
	h.mu.Lock()
	c, ok := h.clients[sessionID]
	if ok {
		close(c.Send)
		delete(h.clients, sessionID)
	}
	h.mu.Unlock()

	if ok {
		h.BroadcastExcept(sessionID, ServerMessage{
			Type:      "leave",
			SessionID: sessionID,
		})
	}
}

func (h *Hub) Get(sessionID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[sessionID]
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendTo queues msg for one session, dropping it if the session is gone or
// its channel is full.
func (h *Hub) SendTo(sessionID string, msg ServerMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WSHub] Marshal error: %v\n", err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[sessionID]
	if !ok {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// BroadcastExcept sends a message to all clients except the sender. Non-blocking: drops if channel full.
func (h *Hub) BroadcastExcept(senderID string, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WSHub] Marshal error: %v\n", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, c := range h.clients {
		if id == senderID {
			continue
		}
		select {
		case c.Send <- data:
		default:
			// Drop message if channel full
		}
	}
}
