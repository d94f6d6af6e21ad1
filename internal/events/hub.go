// Package events is the broadcast channel between the pipeline and the view
// layer: the orchestrator and stores publish state transitions here, and UI
// transports (websocket, CLI) consume them without coupling the pipeline to
// any particular reactivity mechanism.
package events

import (
	"sync"
	"sync/atomic"

	"loft/internal/board"
	"loft/internal/logging"
	"loft/internal/task"
)

// Event is a broadcast message consumed by the view layer.
type Event interface {
	EventType() string
}

// ViewSwitchEvent asks the view layer to change the active tab. Emitted only
// for roadmap and email; the document view is driven by its own callback.
type ViewSwitchEvent struct {
	Target string `json:"target"`
}

func (ViewSwitchEvent) EventType() string { return "view.switch" }

// TaskEvent carries a task registry transition.
type TaskEvent struct {
	Change task.Change `json:"change"`
	Task   task.Task   `json:"task"`
}

func (TaskEvent) EventType() string { return "task.changed" }

// BoardEvent carries a task board mutation.
type BoardEvent struct {
	Change board.Change `json:"change"`
	Card   board.Card   `json:"card"`
}

func (BoardEvent) EventType() string { return "board.changed" }

const subscriberBuffer = 64

// Hub fans events out to subscribers. Publish never blocks: events for slow
// subscribers are dropped and counted.
type Hub struct {
	mu      sync.RWMutex
	subs    map[int]chan Event
	nextID  int
	closed  bool
	dropped atomic.Int64
	logger  logging.Logger
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[int]chan Event),
		logger: logging.NewComponentLogger("events"),
	}
}

// Subscribe registers a new subscriber and returns its channel plus an
// unsubscribe func. The channel is closed on unsubscribe or hub close.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	ch := make(chan Event, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
	return ch, unsubscribe
}

// Publish broadcasts an event to every subscriber without blocking.
func (h *Hub) Publish(event Event) {
	if event == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.dropped.Add(1)
			h.logger.Debug("Dropped %s event for slow subscriber", event.EventType())
		}
	}
}

// Dropped returns how many events were discarded for slow subscribers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close shuts the hub down and closes all subscriber channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
