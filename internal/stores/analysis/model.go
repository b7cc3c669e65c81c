package analysis

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/capture"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/correlator"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/pipeline"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
)

// RequestList is a wrapper type that implements database serialization for
// captured network requests
type RequestList []correlator.RequestRecord

// Value implements the driver.Valuer interface for database storage
func (l RequestList) Value() (driver.Value, error) {
	return json.Marshal([]correlator.RequestRecord(l))
}

// Scan implements the sql.Scanner interface for database retrieval
func (l *RequestList) Scan(value any) error {
	return scanJSON(value, l, "RequestList")
}

// StringList is a wrapper type that implements database serialization for
// string slices
type StringList []string

// Value implements the driver.Valuer interface for database storage
func (l StringList) Value() (driver.Value, error) {
	return json.Marshal([]string(l))
}

// Scan implements the sql.Scanner interface for database retrieval
func (l *StringList) Scan(value any) error {
	return scanJSON(value, l, "StringList")
}

// PageInfoData is a wrapper type that implements database serialization for
// captured page info
type PageInfoData capture.PageInfo

// Value implements the driver.Valuer interface for database storage
func (p PageInfoData) Value() (driver.Value, error) {
	return json.Marshal(capture.PageInfo(p))
}

// Scan implements the sql.Scanner interface for database retrieval
func (p *PageInfoData) Scan(value any) error {
	return scanJSON(value, p, "PageInfoData")
}

// EventList is a wrapper type that implements database serialization for
// session event logs
type EventList []registry.Event

// Value implements the driver.Valuer interface for database storage
func (l EventList) Value() (driver.Value, error) {
	return json.Marshal([]registry.Event(l))
}

// Scan implements the sql.Scanner interface for database retrieval
func (l *EventList) Scan(value any) error {
	return scanJSON(value, l, "EventList")
}

// scanJSON decodes a JSON database column into dst
func scanJSON(value any, dst any, typeName string) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %s", value, typeName)
	}

	if err := json.Unmarshal(bytes, dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", typeName, err)
	}
	return nil
}

// Analysis is the persisted form of one finished deep-analysis report
type Analysis struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey;unique;not null"`
	URL       string    `json:"url" gorm:"size:2048"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`

	NetworkRequests      RequestList  `json:"network_requests" gorm:"type:text"`
	ConsoleLogs          StringList   `json:"console_logs" gorm:"type:text"`
	PageInfo             PageInfoData `json:"page_info" gorm:"type:text"`
	TechStack            StringList   `json:"tech_stack" gorm:"type:text"`
	APIEndpoints         StringList   `json:"api_endpoints" gorm:"type:text"`
	AIAnalysis           string       `json:"ai_analysis" gorm:"type:text"`
	SecurityObservations StringList   `json:"security_observations" gorm:"type:text"`
}

// TableName specifies the database table name for GORM
func (*Analysis) TableName() string {
	return "analyses"
}

// SessionDoc is the persisted form of a live monitoring session. Events grows
// by appends only; prior events are never replaced.
type SessionDoc struct {
	SessionID string    `json:"sessionId" gorm:"primaryKey;size:255"`
	URL       string    `json:"url" gorm:"size:2048"`
	Hostname  string    `json:"hostname" gorm:"size:255"`
	StartTime time.Time `json:"start_time"`
	UpdatedAt time.Time `json:"updated_at"`

	Events EventList `json:"events" gorm:"type:text"`
}

// TableName specifies the database table name for GORM
func (*SessionDoc) TableName() string {
	return "live_sessions"
}

// fromResult converts a pipeline result into its persisted form
func fromResult(result *pipeline.Result) *Analysis {
	return &Analysis{
		ID:                   result.ID,
		URL:                  result.URL,
		Timestamp:            result.Timestamp,
		NetworkRequests:      RequestList(result.NetworkRequests),
		ConsoleLogs:          StringList(result.ConsoleLogs),
		PageInfo:             PageInfoData(result.PageInfo),
		TechStack:            StringList(result.TechStack),
		APIEndpoints:         StringList(result.APIEndpoints),
		AIAnalysis:           result.AIAnalysis,
		SecurityObservations: StringList(result.SecurityObservations),
	}
}

// toResult converts a persisted analysis back into the pipeline shape
func toResult(a *Analysis) *pipeline.Result {
	return &pipeline.Result{
		ID:                   a.ID,
		URL:                  a.URL,
		Timestamp:            a.Timestamp,
		NetworkRequests:      []correlator.RequestRecord(a.NetworkRequests),
		ConsoleLogs:          []string(a.ConsoleLogs),
		PageInfo:             capture.PageInfo(a.PageInfo),
		TechStack:            []string(a.TechStack),
		APIEndpoints:         []string(a.APIEndpoints),
		AIAnalysis:           a.AIAnalysis,
		SecurityObservations: []string(a.SecurityObservations),
	}
}
