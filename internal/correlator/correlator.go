package correlator

import (
	"strings"
	"sync"
)

// apiIndicators are the URL substrings that classify a response as an API
// endpoint. Matching is case-insensitive.
var apiIndicators = []string{"/api/", "/v1/", "/v2/", ".json", "/graphql", "/rest/"}

// maxConsoleLogs bounds the console output carried into a finished capture
const maxConsoleLogs = 50

// RequestInfo describes an outgoing request observed during a page run
type RequestInfo struct {
	URL          string            `json:"url"`
	Method       string            `json:"method"`
	Headers      map[string]string `json:"headers"`
	ResourceType string            `json:"resource_type"`
}

// ResponseInfo describes a response observed during a page run
type ResponseInfo struct {
	URL         string `json:"url"`
	Method      string `json:"method"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// ConsoleMessage is a console entry observed during a page run
type ConsoleMessage struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// RequestRecord is one request of a page run, mutable until its response is
// matched
type RequestRecord struct {
	URL          string            `json:"url"`
	Method       string            `json:"method"`
	Headers      map[string]string `json:"headers"`
	ResourceType string            `json:"resource_type,omitempty"`
	Status       int               `json:"status"`
	ResponseType string            `json:"response_type"`
	ResponseSize int64             `json:"response_size"`

	resolved bool
}

// ApiEndpointRecord is a response classified as an API endpoint
type ApiEndpointRecord struct {
	URL         string `json:"url"`
	Status      int    `json:"status"`
	Method      string `json:"method"`
	ContentType string `json:"content_type"`
}

// CaptureResult is the finished output of one page run
type CaptureResult struct {
	Requests     []RequestRecord     `json:"requests"`
	APIEndpoints []string            `json:"api_endpoints"`
	Endpoints    []ApiEndpointRecord `json:"-"`
	ConsoleLogs  []string            `json:"console_logs"`
}

// Recorder matches request/response events for a single page run and
// classifies API traffic. It holds no session concept; one Recorder covers
// exactly one navigation. It implements the capture event-sink interface so
// it can be handed directly to the browser collaborator.
type Recorder struct {
	mu        sync.Mutex
	requests  []*RequestRecord
	endpoints []ApiEndpointRecord
	seenURLs  map[string]bool
	consoles  []ConsoleMessage
}

// NewRecorder creates an empty recorder for one page run
func NewRecorder() *Recorder {
	return &Recorder{
		seenURLs: make(map[string]bool),
	}
}

// OnRequest records a pending request in insertion order
func (r *Recorder) OnRequest(info RequestInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests = append(r.requests, &RequestRecord{
		URL:          info.URL,
		Method:       info.Method,
		Headers:      info.Headers,
		ResourceType: info.ResourceType,
	})
}

// OnResponse resolves the first unresolved request record with the same URL,
// updating its status, response type, and size. A response with no matching
// pending record is discarded. Matching by URL equality misattributes
// responses when a page issues concurrent identical requests (e.g. polling);
// the capture collaborator exposes per-request ids that a stricter matcher
// could use.
//
// Classification is independent of matching: any response whose URL contains
// an API indicator is recorded as an endpoint, first-seen order, de-duplicated.
func (r *Recorder) OnResponse(info ResponseInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if isAPIEndpoint(info.URL) && !r.seenURLs[info.URL] {
		r.seenURLs[info.URL] = true
		r.endpoints = append(r.endpoints, ApiEndpointRecord{
			URL:         info.URL,
			Status:      info.Status,
			Method:      info.Method,
			ContentType: info.ContentType,
		})
	}

	for _, req := range r.requests {
		if req.resolved || req.URL != info.URL {
			continue
		}
		req.Status = info.Status
		req.ResponseType = info.ContentType
		req.ResponseSize = info.Size
		req.resolved = true
		break
	}
}

// OnConsoleMessage records a console entry
func (r *Recorder) OnConsoleMessage(msg ConsoleMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.consoles = append(r.consoles, msg)
}

// Finalize returns the finished page-run output: requests filtered to entries
// with non-empty url and method, endpoint URLs in first-seen order, and
// console logs bounded to the first 50 entries.
func (r *Recorder) Finalize() CaptureResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := CaptureResult{
		Requests:     []RequestRecord{},
		APIEndpoints: []string{},
		ConsoleLogs:  []string{},
	}

	for _, req := range r.requests {
		if req.URL == "" || req.Method == "" {
			continue
		}
		result.Requests = append(result.Requests, *req)
	}

	for _, ep := range r.endpoints {
		result.APIEndpoints = append(result.APIEndpoints, ep.URL)
	}
	result.Endpoints = append(result.Endpoints, r.endpoints...)

	for i, msg := range r.consoles {
		if i >= maxConsoleLogs {
			break
		}
		result.ConsoleLogs = append(result.ConsoleLogs, msg.Text)
	}

	return result
}

// isAPIEndpoint applies the API-indicator heuristic to a response URL
func isAPIEndpoint(url string) bool {
	lower := strings.ToLower(url)
	for _, indicator := range apiIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
