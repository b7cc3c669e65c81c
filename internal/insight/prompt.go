package insight

import (
	"encoding/json"
	"fmt"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/capture"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/correlator"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/summary"
)

// Payload caps keep the prompt bounded regardless of how busy the page was
const (
	maxPromptRequests    = 10
	maxPromptConsoleLogs = 5
)

// AnalysisPayload is the capped data fed into the deep-analysis prompt
type AnalysisPayload struct {
	TargetURL            string
	NetworkRequests      []correlator.RequestRecord
	APIEndpoints         []string
	TechStack            []string
	ConsoleLogs          []string
	PageInfo             capture.PageInfo
	SecurityObservations []string
}

// BuildAnalysisPrompt assembles the deep-analysis prompt. Network requests
// are capped to the first 10 and console logs to the first 5; tech stack and
// security lists are passed in full.
func BuildAnalysisPrompt(p AnalysisPayload) string {
	requests := p.NetworkRequests
	if len(requests) > maxPromptRequests {
		requests = requests[:maxPromptRequests]
	}

	consoles := p.ConsoleLogs
	if len(consoles) > maxPromptConsoleLogs {
		consoles = consoles[:maxPromptConsoleLogs]
	}

	return fmt.Sprintf(`Analyze this website reverse engineering data for: %s

NETWORK REQUESTS (%d total):
%s

API ENDPOINTS DISCOVERED:
%s

TECHNOLOGY STACK:
%s

CONSOLE LOGS (sample):
%s

PAGE INFO:
%s

SECURITY OBSERVATIONS:
%s

Please provide a comprehensive analysis including:
1. **Architecture Overview**: What type of application this appears to be
2. **Technology Stack**: Detailed breakdown of technologies used
3. **API Analysis**: Analysis of discovered API endpoints and their purposes
4. **Data Flow**: How data appears to flow through the application
5. **Security Assessment**: Security posture and potential vulnerabilities
6. **Integration Points**: External services and third-party integrations
7. **Performance Insights**: Notable performance characteristics
8. **Reverse Engineering Summary**: Key insights for developers wanting to understand this application

Keep the analysis technical but accessible, focusing on actionable insights.`,
		p.TargetURL,
		len(p.NetworkRequests),
		marshalIndent(requests),
		marshalIndent(p.APIEndpoints),
		marshalIndent(p.TechStack),
		marshalIndent(consoles),
		marshalIndent(p.PageInfo),
		marshalIndent(p.SecurityObservations),
	)
}

// BuildLiveInsightPrompt assembles the short targeted prompt for a live
// session's event window
func BuildLiveInsightPrompt(sessionID string, sum summary.WindowSummary) string {
	return fmt.Sprintf(`You are monitoring a live browsing session (%s). Here is a summary of its most recent events:

%s

In at most 100 words, give the developer one targeted, actionable insight about what is going wrong or worth investigating. Be specific; reference the failing URLs or errors above.`,
		sessionID,
		marshalIndent(sum),
	)
}

// marshalIndent renders a value as indented JSON, degrading to fmt on error
func marshalIndent(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
