package sdk

import (
	"encoding/json"
	"time"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
)

// StatusType labels the outcome of an API call
type StatusType string

const (
	StatusSuccess StatusType = "success"
	StatusError   StatusType = "error"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  StatusType `json:"status"`          // Status message
	Code    int        `json:"code"`            // Status code
	Message string     `json:"message"`         // Human-readable message
	Data    T          `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any        `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the ApiResponse to a format suitable for JSON responses
func (r ApiResponse[T]) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func NewSuccess(message string) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  StatusSuccess,
		Code:    200,
		Message: message,
	}
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  StatusError,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

/** Requests */

// AnalyzeRequest represents the request body for starting a website analysis
type AnalyzeRequest struct {
	URL              string `json:"url" binding:"required"`
	OpenRouterAPIKey string `json:"openrouter_api_key" binding:"required"`
	Depth            string `json:"analysis_depth"`
}

// LiveEventRequest represents the request body for reporting a live monitoring event
type LiveEventRequest struct {
	SessionID string         `json:"sessionId" binding:"required"`
	URL       string         `json:"url"`
	Hostname  string         `json:"hostname"`
	Event     registry.Event `json:"event" binding:"required"`
}

// InsightRequest represents the request body for an on-demand live insight
type InsightRequest struct {
	SessionID        string           `json:"sessionId" binding:"required"`
	Events           []registry.Event `json:"events"`
	OpenRouterAPIKey string           `json:"openrouter_api_key" binding:"required"`
}

/** Responses */

// LiveSession represents an active monitoring session in API responses
type LiveSession struct {
	SessionID  string    `json:"sessionId"`
	URL        string    `json:"url"`
	Hostname   string    `json:"hostname"`
	StartTime  time.Time `json:"start_time"`
	EventCount int       `json:"event_count"`
	Status     string    `json:"status"`
}

// InsightResponse carries the generated text for a live insight request
type InsightResponse struct {
	SessionID string `json:"sessionId"`
	Insight   string `json:"insight"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLiveSession converts a registry snapshot into its API representation
func NewLiveSession(s registry.Session) LiveSession {
	return LiveSession{
		SessionID:  s.SessionID,
		URL:        s.URL,
		Hostname:   s.Hostname,
		StartTime:  s.StartTime,
		EventCount: len(s.Events),
		Status:     string(s.Status),
	}
}
