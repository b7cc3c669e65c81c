package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("with nil values", func(t *testing.T) {
		config := NewConfig(nil)
		require.NotNil(t, config)
		assert.Equal(t, "", config.Get("key"))
	})

	t.Run("with values", func(t *testing.T) {
		values := map[string]string{
			"key1": "value1",
			"key2": "value2",
		}
		config := NewConfig(values)

		assert.Equal(t, "value1", config.Get("key1"))
		assert.Equal(t, "value2", config.Get("key2"))

		// Verify it's a copy, not a reference
		values["key1"] = "modified"
		assert.NotEqual(t, "modified", config.Get("key1"))
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	// Create a temporary .env file for testing
	envContent := "TEST_KEY1=test_value1\nTEST_KEY2=test_value2\n"
	tmpFile, err := os.CreateTemp("", "test_env_*.env")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(envContent)
	require.NoError(t, err)
	tmpFile.Close()

	config := NewConfigFromEnv(tmpFile.Name())

	require.NotNil(t, config)
	assert.Equal(t, "test_value1", config.Get("TEST_KEY1"))
}

func TestConfigGetWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"existing": "value",
		"empty":    "",
	})

	t.Run("existing key", func(t *testing.T) {
		got := config.GetWithDefault("existing", "default")
		assert.Equal(t, "value", got)
	})

	t.Run("non-existing key", func(t *testing.T) {
		got := config.GetWithDefault("missing", "default")
		assert.Equal(t, "default", got)
	})

	t.Run("empty value key", func(t *testing.T) {
		got := config.GetWithDefault("empty", "default")
		assert.Equal(t, "default", got)
	})
}

func TestConfigGetInt(t *testing.T) {
	config := NewConfig(map[string]string{
		"valid":   "42",
		"invalid": "not-a-number",
	})

	tests := []struct {
		key      string
		expected int
	}{
		{"valid", 42},
		{"invalid", 0},
		{"missing", 0},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, config.GetInt(tt.key))
		})
	}

	t.Run("with default", func(t *testing.T) {
		assert.Equal(t, 30, config.GetIntWithDefault("missing", 30))
		assert.Equal(t, 42, config.GetIntWithDefault("valid", 30))
	})
}
