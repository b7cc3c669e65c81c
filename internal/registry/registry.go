package registry

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownSession is returned when an event targets a session id that was
// never upserted
var ErrUnknownSession = errors.New("unknown session")

// Status represents the lifecycle state of a monitoring session
type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Session is a read-only snapshot of one monitored page instance. Events holds
// a copy of the session log in arrival order.
type Session struct {
	SessionID   string    `json:"sessionId"`
	InternalID  string    `json:"internal_id"`
	URL         string    `json:"url"`
	Hostname    string    `json:"hostname"`
	StartTime   time.Time `json:"start_time"`
	LastEventAt time.Time `json:"last_event_at"`
	Status      Status    `json:"status"`
	Events      []Event   `json:"events,omitempty"`
}

// EventCount returns the number of events in the snapshot
func (s *Session) EventCount() int {
	return len(s.Events)
}

// sessionState is the canonical mutable record; it never leaves the registry
type sessionState struct {
	sessionID   string
	internalID  string
	url         string
	hostname    string
	startTime   time.Time
	lastEventAt time.Time
	status      Status
	events      []Event
}

// Registry owns the canonical in-memory state of every monitoring session.
// All mutation funnels through it; callers only ever see snapshots, which
// gives a single-writer-per-session guarantee under concurrent ingestion.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState
}

// New creates an empty session registry
func New() *Registry {
	return &Registry{
		sessions: make(map[string]*sessionState),
	}
}

// Upsert returns a snapshot of the session with the given id, creating an
// active session with an empty event log when the id is unseen
func (r *Registry) Upsert(sessionID, url, hostname string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, exists := r.sessions[sessionID]
	if !exists {
		now := time.Now().UTC()
		state = &sessionState{
			sessionID:   sessionID,
			internalID:  uuid.New().String(),
			url:         url,
			hostname:    hostname,
			startTime:   now,
			lastEventAt: now,
			status:      StatusActive,
			events:      []Event{},
		}
		r.sessions[sessionID] = state
	}

	return state.snapshot()
}

// AppendEvent appends an event to the session log. It fails with
// ErrUnknownSession if Upsert was never called for the id. The append is
// atomic with respect to concurrent readers taking snapshots.
func (r *Registry) AppendEvent(sessionID string, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, exists := r.sessions[sessionID]
	if !exists {
		return ErrUnknownSession
	}

	state.events = append(state.events, event)
	state.lastEventAt = time.Now().UTC()
	return nil
}

// Get returns a snapshot of the session with the given id
func (r *Registry) Get(sessionID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.sessions[sessionID]
	if !exists {
		return nil, false
	}
	return state.snapshot(), true
}

// ListActive returns snapshots of all active sessions ordered by start time
// descending
func (r *Registry) ListActive() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sessions []*Session
	for _, state := range r.sessions {
		if state.status == StatusActive {
			sessions = append(sessions, state.snapshot())
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})

	return sessions
}

// Close marks the session as closed. Closing an unknown session returns
// ErrUnknownSession; closing twice is a no-op.
func (r *Registry) Close(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, exists := r.sessions[sessionID]
	if !exists {
		return ErrUnknownSession
	}

	state.status = StatusClosed
	return nil
}

// snapshot copies the state into a read-only Session. Callers must hold at
// least a read lock on the registry.
func (s *sessionState) snapshot() *Session {
	events := make([]Event, len(s.events))
	copy(events, s.events)

	return &Session{
		SessionID:   s.sessionID,
		InternalID:  s.internalID,
		URL:         s.url,
		Hostname:    s.hostname,
		StartTime:   s.startTime,
		LastEventAt: s.lastEventAt,
		Status:      s.status,
		Events:      events,
	}
}
