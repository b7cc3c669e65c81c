package insight

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/correlator"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/summary"
)

func TestBuildAnalysisPrompt(t *testing.T) {
	t.Run("includes target url and counts", func(t *testing.T) {
		prompt := BuildAnalysisPrompt(AnalysisPayload{
			TargetURL: "https://example.com",
			NetworkRequests: []correlator.RequestRecord{
				{URL: "https://example.com/app.js", Method: "GET", Status: 200},
			},
			APIEndpoints: []string{"https://example.com/api/users"},
			TechStack:    []string{"React"},
		})

		assert.Contains(t, prompt, "https://example.com")
		assert.Contains(t, prompt, "NETWORK REQUESTS (1 total)")
		assert.Contains(t, prompt, "https://example.com/api/users")
		assert.Contains(t, prompt, "React")
	})

	t.Run("caps requests and console logs", func(t *testing.T) {
		var requests []correlator.RequestRecord
		for i := 0; i < 30; i++ {
			requests = append(requests, correlator.RequestRecord{
				URL: fmt.Sprintf("https://example.com/r%02d", i), Method: "GET",
			})
		}

		var consoles []string
		for i := 0; i < 20; i++ {
			consoles = append(consoles, fmt.Sprintf("console line %02d", i))
		}

		prompt := BuildAnalysisPrompt(AnalysisPayload{
			TargetURL:       "https://example.com",
			NetworkRequests: requests,
			ConsoleLogs:     consoles,
		})

		// Total count is reported, but only the first 10 requests and first 5
		// logs land in the payload
		assert.Contains(t, prompt, "NETWORK REQUESTS (30 total)")
		assert.Contains(t, prompt, "https://example.com/r09")
		assert.NotContains(t, prompt, "https://example.com/r10")
		assert.Contains(t, prompt, "console line 04")
		assert.NotContains(t, prompt, "console line 05")
	})
}

func TestBuildLiveInsightPrompt(t *testing.T) {
	sum := summary.WindowSummary{
		TotalEvents:     2,
		EventTypeCounts: map[string]int{"network": 2},
		Errors:          []summary.Issue{{Message: "HTTP 500 on https://a/x"}},
		SlowRequests:    []summary.Issue{},
	}

	prompt := BuildLiveInsightPrompt("s1", sum)

	assert.Contains(t, prompt, "s1")
	assert.Contains(t, prompt, "HTTP 500 on https://a/x")
	assert.Contains(t, prompt, "100 words")
	assert.True(t, strings.Contains(prompt, "\"total_events\": 2"))
}
