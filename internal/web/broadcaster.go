package web

import (
	"encoding/json"
	"sync"
	"time"
)

// Event is a single scare lifecycle message for SSE clients.
type Event struct {
	Time  string `json:"t"`
	Level string `json:"level,omitempty"`
	Msg   string `json:"msg"`
}

// EventBroadcaster distributes scare events to multiple SSE clients.
type EventBroadcaster struct {
	mu      sync.RWMutex
	clients map[chan string]struct{}
}

// NewEventBroadcaster creates a new broadcaster.
func NewEventBroadcaster() *EventBroadcaster {
	return &EventBroadcaster{
		clients: make(map[chan string]struct{}),
	}
}

// Subscribe returns a channel that receives broadcast events and a cleanup
// function. The caller must call the cleanup when done (e.g. on client
// disconnect).
func (b *EventBroadcaster) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 64)
	b.mu.Lock()
	b.clients[ch] = struct{}{}
	b.mu.Unlock()

	unsub := func() {
		b.mu.Lock()
		delete(b.clients, ch)
		b.mu.Unlock()
		close(ch)
	}
	return ch, unsub
}

// Broadcast sends an event to all subscribed clients as JSON.
// Slow clients may miss events (non-blocking, buffered).
func (b *EventBroadcaster) Broadcast(level, msg string) {
	data, err := json.Marshal(Event{
		Time:  time.Now().Format(time.RFC3339),
		Level: level,
		Msg:   msg,
	})
	if err != nil {
		return
	}
	payload := string(data)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.clients {
		select {
		case ch <- payload:
		default:
		}
	}
}
