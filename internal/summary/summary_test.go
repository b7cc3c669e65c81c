package summary

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
)

func TestSummarizeSingleFailedRequest(t *testing.T) {
	events := []registry.Event{
		{Type: registry.EventNetwork, URL: "https://a/x", Status: 500},
	}

	result := Summarize(events, 10)

	assert.Equal(t, 1, result.TotalEvents)
	assert.Equal(t, map[string]int{"network": 1}, result.EventTypeCounts)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "HTTP 500 on https://a/x", result.Errors[0].Message)
	assert.Empty(t, result.SlowRequests)
}

func TestSummarizeErrorRules(t *testing.T) {
	tests := []struct {
		name       string
		event      registry.Event
		wantErrors int
		wantSlow   int
	}{
		{"error event", registry.Event{Type: registry.EventError, Message: "boom"}, 1, 0},
		{"network 400", registry.Event{Type: registry.EventNetwork, URL: "https://a", Status: 400}, 1, 0},
		{"network 399", registry.Event{Type: registry.EventNetwork, URL: "https://a", Status: 399}, 0, 0},
		{"slow request", registry.Event{Type: registry.EventNetwork, URL: "https://a", Method: "GET", Status: 200, DurationMs: 3001}, 0, 1},
		{"at threshold is not slow", registry.Event{Type: registry.EventNetwork, URL: "https://a", Status: 200, DurationMs: 3000}, 0, 0},
		{"slow and failed", registry.Event{Type: registry.EventNetwork, URL: "https://a", Status: 502, DurationMs: 5000}, 1, 1},
		{"console error is not an error event", registry.Event{Type: registry.EventConsole, Level: "error", Text: "oops"}, 0, 0},
		{"dom event", registry.Event{Type: registry.EventDOM, Description: "mutation"}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Summarize([]registry.Event{tt.event}, 10)
			assert.Len(t, result.Errors, tt.wantErrors)
			assert.Len(t, result.SlowRequests, tt.wantSlow)
		})
	}
}

func TestSummarizeWindowBound(t *testing.T) {
	// For all log lengths, the summary reflects exactly min(N, 10) most
	// recent events
	for _, n := range []int{0, 1, 5, 10, 11, 50} {
		t.Run(fmt.Sprintf("log length %d", n), func(t *testing.T) {
			var events []registry.Event
			for i := 0; i < n; i++ {
				events = append(events, registry.Event{
					Type: registry.EventError, Message: fmt.Sprintf("e%d", i),
				})
			}

			result := Summarize(events, 10)

			want := n
			if want > 10 {
				want = 10
			}
			assert.Equal(t, want, result.TotalEvents)
			assert.Len(t, result.Errors, want)

			if n > 10 {
				// Only the most recent events remain
				assert.Equal(t, fmt.Sprintf("e%d", n-10), result.Errors[0].Message)
				assert.Equal(t, fmt.Sprintf("e%d", n-1), result.Errors[9].Message)
			}
		})
	}
}

func TestSummarizeIdempotence(t *testing.T) {
	events := []registry.Event{
		{Type: registry.EventNetwork, URL: "https://a/x", Status: 500},
		{Type: registry.EventConsole, Level: "warn", Text: "careful"},
		{Type: registry.EventError, Message: "boom"},
	}

	first := Summarize(events, 10)
	second := Summarize(events, 10)

	assert.Equal(t, first, second)
}

func TestSummarizeDefaults(t *testing.T) {
	var events []registry.Event
	for i := 0; i < 25; i++ {
		events = append(events, registry.Event{Type: registry.EventConsole, Level: "log"})
	}

	t.Run("zero window uses default", func(t *testing.T) {
		result := Summarize(events, 0)
		assert.Equal(t, DefaultWindowSize, result.TotalEvents)
	})

	t.Run("empty log", func(t *testing.T) {
		result := Summarize(nil, 10)
		assert.Equal(t, 0, result.TotalEvents)
		assert.NotNil(t, result.Errors)
		assert.NotNil(t, result.SlowRequests)
		assert.Empty(t, result.EventTypeCounts)
	})
}

func TestSummarizeSession(t *testing.T) {
	r := registry.New()
	r.Upsert("tab-1", "https://example.com", "example.com")
	require.NoError(t, r.AppendEvent("tab-1", registry.Event{Type: registry.EventNetwork, URL: "https://a/x", Status: 500}))
	require.NoError(t, r.AppendEvent("tab-1", registry.Event{Type: registry.EventDOM, Description: "nodes added"}))

	sess, ok := r.Get("tab-1")
	require.True(t, ok)

	result := SummarizeSession(sess, 10)
	assert.Equal(t, 2, result.TotalEvents)
	assert.Equal(t, map[string]int{"network": 1, "dom": 1}, result.EventTypeCounts)
}
