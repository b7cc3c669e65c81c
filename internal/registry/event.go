package registry

// EventType tags the variant of a monitoring event
type EventType string

const (
	EventNetwork EventType = "network"
	EventConsole EventType = "console"
	EventError   EventType = "error"
	EventDOM     EventType = "dom"
)

// Event is a single monitoring event reported by an instrumented page.
// The populated fields depend on Type; events are immutable once appended
// to a session log.
type Event struct {
	Type EventType `json:"type" binding:"required"`

	// Network events
	URL          string `json:"url,omitempty"`
	Method       string `json:"method,omitempty"`
	Status       int    `json:"status,omitempty"`
	DurationMs   int64  `json:"duration,omitempty"`
	ResponseType string `json:"response_type,omitempty"`
	ResponseSize int64  `json:"response_size,omitempty"`

	// Console events
	Level string `json:"level,omitempty"`
	Text  string `json:"text,omitempty"`

	// Error events
	Message string `json:"message,omitempty"`

	// DOM events
	Description string `json:"description,omitempty"`
}

// IsValid reports whether the event carries a known type tag
func (e Event) IsValid() bool {
	switch e.Type {
	case EventNetwork, EventConsole, EventError, EventDOM:
		return true
	}
	return false
}
