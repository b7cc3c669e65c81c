package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/capture"
)

func TestDetectTechStack(t *testing.T) {
	signatures := DefaultSignatures()

	t.Run("matches script sources", func(t *testing.T) {
		artifacts := capture.Artifacts{
			ScriptSources: []string{
				"https://cdn.example.com/React.production.min.js",
				"https://js.stripe.com/v3/",
				"https://cdn.example.com/app.js",
			},
		}

		stack := DetectTechStack(artifacts, signatures)
		assert.Equal(t, []string{"React", "Stripe"}, stack)
	})

	t.Run("globals come first and are deduplicated", func(t *testing.T) {
		artifacts := capture.Artifacts{
			Globals:       []string{"jQuery", "Google Analytics"},
			ScriptSources: []string{"https://code.jquery.com/jquery-3.7.1.min.js"},
		}

		stack := DetectTechStack(artifacts, signatures)
		assert.Equal(t, []string{"jQuery", "Google Analytics"}, stack)
	})

	t.Run("generator meta tag is included", func(t *testing.T) {
		artifacts := capture.Artifacts{Generator: "WordPress 6.4"}

		stack := DetectTechStack(artifacts, signatures)
		assert.Equal(t, []string{"WordPress 6.4"}, stack)
	})

	t.Run("empty capture yields empty list", func(t *testing.T) {
		stack := DetectTechStack(capture.Artifacts{}, signatures)
		assert.NotNil(t, stack)
		assert.Empty(t, stack)
	})
}

func TestLoadSignatures(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "signatures.yml")
		content := `
- name: Svelte
  patterns: ["svelte"]
- name: HTMX
  patterns: ["htmx"]
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		signatures, err := LoadSignatures(path)
		require.NoError(t, err)
		require.Len(t, signatures, 2)
		assert.Equal(t, "Svelte", signatures[0].Name)
		assert.Equal(t, []string{"htmx"}, signatures[1].Patterns)

		stack := DetectTechStack(capture.Artifacts{
			ScriptSources: []string{"https://unpkg.com/htmx.org@1.9.10"},
		}, signatures)
		assert.Equal(t, []string{"HTMX"}, stack)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSignatures(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

		_, err := LoadSignatures(path)
		assert.Error(t, err)
	})
}
