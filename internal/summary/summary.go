// Package summary derives bounded diagnostic summaries from the most recent
// slice of a session's event log. Summaries are recomputed per request and
// never persisted.
package summary

import (
	"fmt"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
)

// DefaultWindowSize is the number of most recent events summarized when the
// caller does not specify a window
const DefaultWindowSize = 10

// SlowRequestThresholdMs marks a network event as a slow request
const SlowRequestThresholdMs = 3000

// ErrorStatusThreshold marks a network event as an error
const ErrorStatusThreshold = 400

// Issue is one notable observation drawn from the event window
type Issue struct {
	Message string `json:"message"`
}

// WindowSummary is the bounded summary of the most recent events of a session
type WindowSummary struct {
	TotalEvents     int            `json:"total_events"`
	EventTypeCounts map[string]int `json:"event_types"`
	Errors          []Issue        `json:"errors"`
	SlowRequests    []Issue        `json:"slow_requests"`
}

// Summarize tallies the last windowSize events. An event counts as an error
// when it is tagged error, or tagged network with status >= 400; it counts as
// a slow request when tagged network with duration > 3000 ms. Both lists are
// bounded by the window itself. Pure function of the input: summarizing the
// same events twice yields identical output.
func Summarize(events []registry.Event, windowSize int) WindowSummary {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	if len(events) > windowSize {
		events = events[len(events)-windowSize:]
	}

	result := WindowSummary{
		TotalEvents:     len(events),
		EventTypeCounts: make(map[string]int),
		Errors:          []Issue{},
		SlowRequests:    []Issue{},
	}

	for _, ev := range events {
		result.EventTypeCounts[string(ev.Type)]++

		switch ev.Type {
		case registry.EventError:
			result.Errors = append(result.Errors, Issue{Message: ev.Message})
		case registry.EventNetwork:
			if ev.Status >= ErrorStatusThreshold {
				result.Errors = append(result.Errors, Issue{
					Message: fmt.Sprintf("HTTP %d on %s", ev.Status, ev.URL),
				})
			}
			if ev.DurationMs > SlowRequestThresholdMs {
				result.SlowRequests = append(result.SlowRequests, Issue{
					Message: fmt.Sprintf("%s %s took %dms", ev.Method, ev.URL, ev.DurationMs),
				})
			}
		}
	}

	return result
}

// SummarizeSession summarizes the tail of a session snapshot's event log
func SummarizeSession(session *registry.Session, windowSize int) WindowSummary {
	return Summarize(session.Events, windowSize)
}
