package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/capture"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/pipeline"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
)

func sampleResult(id string, ts time.Time) *pipeline.Result {
	return &pipeline.Result{
		ID:        id,
		URL:       "https://example.com",
		Timestamp: ts,
		PageInfo: capture.PageInfo{
			Title:  "Example",
			URL:    "https://example.com",
			Status: 200,
		},
		TechStack:    []string{"React"},
		APIEndpoints: []string{"https://example.com/api/users"},
		AIAnalysis:   "looks fine",
	}
}

func TestInMemoryStoreAnalyses(t *testing.T) {
	ctx := context.Background()

	t.Run("insert and get round trip", func(t *testing.T) {
		store := NewInMemoryStore()
		result := sampleResult("id-1", time.Now().UTC())

		require.NoError(t, store.InsertAnalysis(ctx, result))

		got, err := store.GetAnalysis(ctx, "id-1")
		require.NoError(t, err)
		assert.Equal(t, result.URL, got.URL)
		assert.Equal(t, result.TechStack, got.TechStack)
		assert.Equal(t, result.AIAnalysis, got.AIAnalysis)
	})

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		store := NewInMemoryStore()

		_, err := store.GetAnalysis(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list is newest first and bounded", func(t *testing.T) {
		store := NewInMemoryStore()
		base := time.Now().UTC()

		require.NoError(t, store.InsertAnalysis(ctx, sampleResult("old", base.Add(-2*time.Hour))))
		require.NoError(t, store.InsertAnalysis(ctx, sampleResult("new", base)))
		require.NoError(t, store.InsertAnalysis(ctx, sampleResult("mid", base.Add(-1*time.Hour))))

		results, err := store.ListAnalyses(ctx, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "new", results[0].ID)
		assert.Equal(t, "mid", results[1].ID)
	})

	t.Run("list falls back to default limit", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.InsertAnalysis(ctx, sampleResult("only", time.Now().UTC())))

		results, err := store.ListAnalyses(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}

func TestInMemoryStoreSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert creates once", func(t *testing.T) {
		store := NewInMemoryStore()

		require.NoError(t, store.UpsertSessionDoc(ctx, "sess-1", "https://example.com", "example.com"))
		require.NoError(t, store.UpsertSessionDoc(ctx, "sess-1", "https://other.com", "other.com"))

		doc, ok := store.GetSessionDoc("sess-1")
		require.True(t, ok)
		assert.Equal(t, "https://example.com", doc.URL)
		assert.Equal(t, "example.com", doc.Hostname)
	})

	t.Run("append pushes events in order", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.UpsertSessionDoc(ctx, "sess-1", "https://example.com", "example.com"))

		first := registry.Event{Type: registry.EventNetwork, URL: "https://example.com/api/a", Method: "GET", Status: 200}
		second := registry.Event{Type: registry.EventConsole, Level: "warn", Text: "deprecated"}

		require.NoError(t, store.AppendSessionEvent(ctx, "sess-1", first))
		require.NoError(t, store.AppendSessionEvent(ctx, "sess-1", second))

		doc, ok := store.GetSessionDoc("sess-1")
		require.True(t, ok)
		require.Len(t, doc.Events, 2)
		assert.Equal(t, registry.EventNetwork, doc.Events[0].Type)
		assert.Equal(t, "deprecated", doc.Events[1].Text)
	})

	t.Run("append to unknown session fails", func(t *testing.T) {
		store := NewInMemoryStore()

		err := store.AppendSessionEvent(ctx, "missing", registry.Event{Type: registry.EventError})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("returned doc is a copy", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.UpsertSessionDoc(ctx, "sess-1", "https://example.com", "example.com"))
		require.NoError(t, store.AppendSessionEvent(ctx, "sess-1", registry.Event{Type: registry.EventDOM}))

		doc, ok := store.GetSessionDoc("sess-1")
		require.True(t, ok)
		doc.Events[0].Type = registry.EventError

		fresh, ok := store.GetSessionDoc("sess-1")
		require.True(t, ok)
		assert.Equal(t, registry.EventDOM, fresh.Events[0].Type)
	})
}
