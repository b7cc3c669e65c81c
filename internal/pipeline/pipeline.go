// Package pipeline sequences one-shot deep analysis: capture, tech-stack and
// security classification, summarization, the external text-generation call,
// and result assembly. Every stage past input validation is best-effort; a
// flaky sub-step degrades its own slice of the result instead of voiding the
// report.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/capture"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/correlator"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/insight"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/summary"
)

// Result is the immutable terminal artifact of one deep analysis. It is
// produced once, handed to persistence, and never mutated afterward.
type Result struct {
	ID                   string                     `json:"id"`
	URL                  string                     `json:"url"`
	Timestamp            time.Time                  `json:"timestamp"`
	NetworkRequests      []correlator.RequestRecord `json:"network_requests"`
	ConsoleLogs          []string                   `json:"console_logs"`
	PageInfo             capture.PageInfo           `json:"page_info"`
	TechStack            []string                   `json:"tech_stack"`
	APIEndpoints         []string                   `json:"api_endpoints"`
	AIAnalysis           string                     `json:"ai_analysis"`
	SecurityObservations []string                   `json:"security_observations"`
}

// Orchestrator wires the analysis stages to their collaborators. Two analyses
// for different URLs share nothing mutable and proceed fully in parallel.
type Orchestrator struct {
	capturer   capture.Capturer
	generator  insight.Generator
	model      string
	signatures []Signature
}

// NewOrchestrator creates an orchestrator. A nil signatures slice selects the
// built-in table.
func NewOrchestrator(capturer capture.Capturer, generator insight.Generator, model string, signatures []Signature) *Orchestrator {
	if signatures == nil {
		signatures = DefaultSignatures()
	}

	return &Orchestrator{
		capturer:   capturer,
		generator:  generator,
		model:      model,
		signatures: signatures,
	}
}

// Analyze runs the full pipeline against targetURL. Capture failure records
// an error in page info and proceeds with partial data; classification
// failures degrade to empty lists; a failed text-generation call substitutes
// the deterministic raw-counts fallback. Only total wiring failures return an
// error.
func (o *Orchestrator) Analyze(ctx context.Context, targetURL, apiKey string, depth capture.Depth) (*Result, error) {
	recorder := correlator.NewRecorder()
	artifacts, err := o.capturer.Capture(ctx, targetURL, depth, recorder)
	if err != nil {
		log.Printf("[PIPELINE]: Capture failed for %s: %v", targetURL, err)
		artifacts.Page.Error = err.Error()
	}

	captured := recorder.Finalize()

	// Both classifiers are best-effort
	techStack := DetectTechStack(artifacts, o.signatures)
	security := SecurityObservations(artifacts.Page.URL, captured.Requests)

	// Build a bounded prompt payload and run text generation
	prompt := insight.BuildAnalysisPrompt(insight.AnalysisPayload{
		TargetURL:            targetURL,
		NetworkRequests:      captured.Requests,
		APIEndpoints:         captured.APIEndpoints,
		TechStack:            techStack,
		ConsoleLogs:          captured.ConsoleLogs,
		PageInfo:             artifacts.Page,
		SecurityObservations: security,
	})

	aiAnalysis, err := o.generator.Generate(ctx, apiKey, o.model, prompt)
	if err != nil {
		log.Printf("[PIPELINE]: AI analysis failed for %s: %v", targetURL, err)
		aiAnalysis = analysisFallback(err, len(captured.Requests), len(captured.APIEndpoints), len(techStack))
	}

	return &Result{
		ID:                   uuid.New().String(),
		URL:                  targetURL,
		Timestamp:            time.Now().UTC(),
		NetworkRequests:      captured.Requests,
		ConsoleLogs:          captured.ConsoleLogs,
		PageInfo:             artifacts.Page,
		TechStack:            techStack,
		APIEndpoints:         captured.APIEndpoints,
		AIAnalysis:           aiAnalysis,
		SecurityObservations: security,
	}, nil
}

// LiveInsight is the lighter pipeline variant for a live session: summarize a
// capped event window, call text generation, degrade to a raw-counts
// fallback. The returned message is always non-empty.
func (o *Orchestrator) LiveInsight(ctx context.Context, sessionID, apiKey string, events []registry.Event) string {
	sum := summary.Summarize(events, summary.DefaultWindowSize)

	prompt := insight.BuildLiveInsightPrompt(sessionID, sum)

	message, err := o.generator.Generate(ctx, apiKey, o.model, prompt)
	if err != nil {
		log.Printf("[PIPELINE]: Live insight failed for session %s: %v", sessionID, err)
		return liveInsightFallback(sum)
	}

	return message
}

// analysisFallback reports the raw capture counts when text generation fails
func analysisFallback(err error, requests, endpoints, technologies int) string {
	return fmt.Sprintf(
		"AI analysis failed: %v. Raw data analysis shows %d network requests, %d API endpoints discovered, and %d technologies identified.",
		err, requests, endpoints, technologies)
}

// liveInsightFallback reports the raw window counts when text generation fails
func liveInsightFallback(sum summary.WindowSummary) string {
	return fmt.Sprintf(
		"AI insight unavailable. The last %d events include %d errors and %d slow requests.",
		sum.TotalEvents, len(sum.Errors), len(sum.SlowRequests))
}
