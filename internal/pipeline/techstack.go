package pipeline

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/capture"
)

// Signature names a technology and the substrings that betray it in page
// content or script URLs
type Signature struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// DefaultSignatures covers the common libraries the analyzer knows out of the
// box
func DefaultSignatures() []Signature {
	return []Signature{
		{Name: "React", Patterns: []string{"react"}},
		{Name: "Vue.js", Patterns: []string{"vue"}},
		{Name: "Angular", Patterns: []string{"angular"}},
		{Name: "jQuery", Patterns: []string{"jquery"}},
		{Name: "Bootstrap", Patterns: []string{"bootstrap"}},
		{Name: "Stripe", Patterns: []string{"stripe"}},
		{Name: "PayPal", Patterns: []string{"paypal"}},
	}
}

// LoadSignatures reads a custom signature table from a YAML file
func LoadSignatures(path string) ([]Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signatures file: %w", err)
	}

	var signatures []Signature
	if err := yaml.Unmarshal(data, &signatures); err != nil {
		return nil, fmt.Errorf("failed to parse signatures file: %w", err)
	}

	return signatures, nil
}

// DetectTechStack matches signatures against the captured script sources,
// then folds in the browser-probe globals and the generator meta tag. The
// result is de-duplicated in detection order. Best-effort: an empty capture
// yields an empty list, never an error.
func DetectTechStack(artifacts capture.Artifacts, signatures []Signature) []string {
	seen := make(map[string]bool)
	var stack []string

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		stack = append(stack, name)
	}

	// Framework globals detected in the running page are the strongest signal
	for _, name := range artifacts.Globals {
		add(name)
	}

	for _, src := range artifacts.ScriptSources {
		lower := strings.ToLower(src)
		for _, sig := range signatures {
			for _, pattern := range sig.Patterns {
				if strings.Contains(lower, pattern) {
					add(sig.Name)
					break
				}
			}
		}
	}

	add(artifacts.Generator)

	if stack == nil {
		stack = []string{}
	}
	return stack
}
