package broadcast

import (
	"aimtrainer/internal/events"
	"encoding/json"
	"log"
	"sync"
)

type EventMessage struct {
	Event string
	Msg   string
}

// Listener is told about everything on the bus, after SSE subscribers.
type Listener interface {
	OnScene(events.SceneChangeEvent)
	OnResult(events.RoundResult)
}

// ResultFunc adapts a plain function into a Listener that only cares about
// finished rounds.
type ResultFunc func(events.RoundResult)

func (f ResultFunc) OnScene(events.SceneChangeEvent) {}

func (f ResultFunc) OnResult(res events.RoundResult) { f(res) }

type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan EventMessage]bool
}

// NewBroadcaster drains bus, fanning scene changes and round results out to
// subscribers and results on to listeners.
func NewBroadcaster(bus *events.Bus, listeners ...Listener) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan EventMessage]bool),
	}
	go func() {
		for {
			select {
			case ev, ok := <-bus.SceneChanges:
				if !ok {
					return
				}
				b.BroadcastOOB("sceneChange", ev.SessionID+":"+ev.Scene)
				for _, l := range listeners {
					l.OnScene(ev)
				}
			case res, ok := <-bus.RoundResults:
				if !ok {
					return
				}
				data, err := json.Marshal(res)
				if err != nil {
					log.Printf("[Broadcast] Marshal error: %v\n", err)
				} else {
					b.BroadcastOOB("roundOver", string(data))
				}
				for _, l := range listeners {
					l.OnResult(res)
				}
			}
		}
	}()
	return b
}

func (b *Broadcaster) Subscribe() chan EventMessage {
	ch := make(chan EventMessage, 10)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan EventMessage) {
	b.Mu.Lock()
	delete(b.Clients, ch)
	b.Mu.Unlock()
	close(ch)
}

func (b *Broadcaster) BroadcastOOB(event string, message string) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- EventMessage{Event: event, Msg: message}:
		default:
			// skip clients with full data channels
		}
	}
}
