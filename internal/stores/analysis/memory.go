package analysis

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/pipeline"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
)

// InMemoryStore keeps analyses and session documents in memory (for
// development and tests)
type InMemoryStore struct {
	mu       sync.RWMutex
	analyses map[string]*Analysis
	sessions map[string]*SessionDoc
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		analyses: make(map[string]*Analysis),
		sessions: make(map[string]*SessionDoc),
	}
}

// InsertAnalysis persists a finished analysis result in memory
func (s *InMemoryStore) InsertAnalysis(ctx context.Context, result *pipeline.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyses[result.ID] = fromResult(result)
	return nil
}

// ListAnalyses retrieves the most recent analyses, newest first
func (s *InMemoryStore) ListAnalyses(ctx context.Context, limit int) ([]*pipeline.Result, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*Analysis, 0, len(s.analyses))
	for _, record := range s.analyses {
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	if len(records) > limit {
		records = records[:limit]
	}

	results := make([]*pipeline.Result, 0, len(records))
	for _, record := range records {
		results = append(results, toResult(record))
	}

	return results, nil
}

// GetAnalysis retrieves one analysis by id
func (s *InMemoryStore) GetAnalysis(ctx context.Context, id string) (*pipeline.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.analyses[id]
	if !exists {
		return nil, ErrNotFound
	}

	return toResult(record), nil
}

// UpsertSessionDoc creates the session document if it does not exist yet
func (s *InMemoryStore) UpsertSessionDoc(ctx context.Context, sessionID, url, hostname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; exists {
		return nil
	}

	s.sessions[sessionID] = &SessionDoc{
		SessionID: sessionID,
		URL:       url,
		Hostname:  hostname,
		StartTime: time.Now().UTC(),
		Events:    EventList{},
	}
	return nil
}

// AppendSessionEvent appends one event to the session document with push
// semantics
func (s *InMemoryStore) AppendSessionEvent(ctx context.Context, sessionID string, event registry.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, exists := s.sessions[sessionID]
	if !exists {
		return ErrNotFound
	}

	doc.Events = append(doc.Events, event)
	doc.UpdatedAt = time.Now().UTC()
	return nil
}

// GetSessionDoc retrieves a copy of a persisted session document
func (s *InMemoryStore) GetSessionDoc(sessionID string) (*SessionDoc, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.sessions[sessionID]
	if !exists {
		return nil, false
	}

	events := make(EventList, len(doc.Events))
	copy(events, doc.Events)

	copied := *doc
	copied.Events = events
	return &copied, true
}

// Close is a no-op for the in-memory store
func (s *InMemoryStore) Close() error {
	return nil
}
