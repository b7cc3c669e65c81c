// Package capture drives a headless browser against a target URL and feeds
// the observed traffic into an event sink. It is the browser-automation
// collaborator of the analysis pipeline; the pipeline itself never touches a
// browser.
package capture

import (
	"context"
	"time"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/correlator"
)

// Depth controls how long a page run waits for dynamic content
type Depth string

const (
	DepthLight  Depth = "light"
	DepthMedium Depth = "medium"
	DepthDeep   Depth = "deep"
)

// deepInteractionWait is the extra settle time after the deep-mode
// interaction step
const deepInteractionWait = 3 * time.Second

// ParseDepth normalizes a caller-supplied depth, defaulting to medium
func ParseDepth(s string) Depth {
	switch Depth(s) {
	case DepthLight, DepthMedium, DepthDeep:
		return Depth(s)
	}
	return DepthMedium
}

// WaitBudget returns the dynamic-content wait for this depth
func (d Depth) WaitBudget() time.Duration {
	switch d {
	case DepthLight:
		return 2 * time.Second
	case DepthDeep:
		return 10 * time.Second
	default:
		return 5 * time.Second
	}
}

// PageInfo holds basic facts about the captured page. Error is set when the
// page run failed partway; the data gathered up to that point is still used.
type PageInfo struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Status   int    `json:"status"`
	LoadTime string `json:"load_time"`
	Error    string `json:"error,omitempty"`
}

// Artifacts is everything a page run hands back for classification, beyond
// the traffic already streamed into the sink
type Artifacts struct {
	Page          PageInfo
	HTML          string
	ScriptSources []string
	Globals       []string
	Generator     string
}

// EventSink receives the raw traffic of a page run. The correlator implements
// it; the capturer stays ignorant of what happens to the events.
type EventSink interface {
	OnRequest(correlator.RequestInfo)
	OnResponse(correlator.ResponseInfo)
	OnConsoleMessage(correlator.ConsoleMessage)
}

// Capturer runs one page navigation and streams its events into the sink.
// Implementations must honor ctx cancellation and return partial artifacts
// alongside the error when the run fails midway.
type Capturer interface {
	Capture(ctx context.Context, targetURL string, depth Depth, sink EventSink) (Artifacts, error)
}
