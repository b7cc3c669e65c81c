// Package broadcast mirrors accepted session events to live subscribers. A
// slow or dead subscriber must never block ingestion: deliveries are bounded
// per subscriber and a failed delivery removes the subscriber from the set.
package broadcast

import (
	"log"
	"sync"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
)

// MessageTypeLiveEvent tags live-path fan-out messages
const MessageTypeLiveEvent = "live_event"

// Message is one fan-out payload delivered to live subscribers
type Message struct {
	Type      string         `json:"type"`
	SessionID string         `json:"sessionId"`
	Event     registry.Event `json:"event"`
}

// NewLiveEvent builds the live-path message for an accepted session event
func NewLiveEvent(sessionID string, event registry.Event) Message {
	return Message{
		Type:      MessageTypeLiveEvent,
		SessionID: sessionID,
		Event:     event,
	}
}

// Subscriber receives fan-out messages. Send must be bounded: implementations
// enforce their own write deadline and report failure with an error.
type Subscriber interface {
	Send(Message) error
	Close() error
}

// SubscriberHandle identifies one subscription for later removal
type SubscriberHandle struct {
	id  uint64
	sub Subscriber
}

// Hub is the process-wide subscriber set. Subscribe/Unsubscribe run
// concurrently with Publish; the lock guards only set mutation, never message
// delivery.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*SubscriberHandle
	nextID uint64
}

// NewHub creates an empty fan-out hub
func NewHub() *Hub {
	return &Hub{
		subs: make(map[uint64]*SubscriberHandle),
	}
}

// Subscribe registers a subscriber and returns its handle
func (h *Hub) Subscribe(sub Subscriber) *SubscriberHandle {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	handle := &SubscriberHandle{id: h.nextID, sub: sub}
	h.subs[handle.id] = handle
	return handle
}

// Unsubscribe removes a subscriber from the set and closes it. Unsubscribing
// an already-removed handle is a no-op.
func (h *Hub) Unsubscribe(handle *SubscriberHandle) {
	if handle == nil {
		return
	}

	h.mu.Lock()
	_, exists := h.subs[handle.id]
	delete(h.subs, handle.id)
	h.mu.Unlock()

	if exists {
		_ = handle.sub.Close()
	}
}

// SubscriberCount returns the current size of the subscriber set
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish delivers the message to every currently subscribed handle. The
// subscriber set is snapshotted at the start of the call, so delivery runs
// without holding the lock and tolerates concurrent removal. A delivery
// failure prunes that subscriber before the call returns and never prevents
// delivery to others. For a single publisher, messages reach each surviving
// subscriber in Publish order.
func (h *Hub) Publish(msg Message) {
	h.mu.RLock()
	snapshot := make([]*SubscriberHandle, 0, len(h.subs))
	for _, handle := range h.subs {
		snapshot = append(snapshot, handle)
	}
	h.mu.RUnlock()

	var failed []*SubscriberHandle
	for _, handle := range snapshot {
		if err := handle.sub.Send(msg); err != nil {
			log.Printf("[BROADCAST]: Dropping subscriber %d: %v", handle.id, err)
			failed = append(failed, handle)
		}
	}

	for _, handle := range failed {
		h.Unsubscribe(handle)
	}
}
