// Package insight turns captured analysis data into prose through an external
// text-generation service. The service call is the only failure-prone part;
// callers degrade to deterministic fallback text when it errors.
package insight

import "context"

// Generator defines the interface for the text-generation collaborator.
// Implementations handle protocol-specific details such as request formatting
// and authentication.
type Generator interface {
	// Generate sends one prompt under the caller's API key and model and
	// returns the generated text. Callers impose their own deadline via ctx.
	Generate(ctx context.Context, apiKey, model, prompt string) (string, error)
}
