package rate_limit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePresetFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quotas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPresetFile(t *testing.T) {
	path := writePresetFile(t, `
providers:
  google:
    requests_per_minute: 120
    tokens_per_minute: 2000000
    max_retries: 5
  anthropic:
    requests_per_minute: 25
    jitter: false
    min_delay_seconds: 0.5
    max_delay_seconds: 30
    retryable_status_codes: [429, 500, 503, 529]
`)

	configs, err := LoadPresetFile(path)
	require.NoError(t, err)
	require.Len(t, configs, 2)

	google := configs[ProviderGoogle]
	assert.Equal(t, 120, google.RequestsPerMinute)
	assert.Equal(t, 2_000_000, google.TokensPerMinute)
	assert.Equal(t, 5, google.MaxRetries)
	assert.True(t, google.Jitter, "unset fields keep the preset value")

	anthropic := configs[ProviderAnthropic]
	assert.Equal(t, 25, anthropic.RequestsPerMinute)
	assert.False(t, anthropic.Jitter)
	assert.Equal(t, 500*time.Millisecond, anthropic.DelayRange.Min)
	assert.Equal(t, 30*time.Second, anthropic.DelayRange.Max)
	assert.True(t, anthropic.RetryableStatusCodes[529])
}

func TestLoadPresetFile_UnknownProvider(t *testing.T) {
	path := writePresetFile(t, `
providers:
  skynet:
    requests_per_minute: 9000
`)

	_, err := LoadPresetFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestLoadPresetFile_InvalidOverride(t *testing.T) {
	path := writePresetFile(t, `
providers:
  openai:
    requests_per_minute: 0
`)

	_, err := LoadPresetFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadPresetFile_MissingFile(t *testing.T) {
	_, err := LoadPresetFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadPresetFile_MalformedYAML(t *testing.T) {
	path := writePresetFile(t, "providers: [not a map")

	_, err := LoadPresetFile(path)
	require.Error(t, err)
}

func TestNewRegistryFromFile(t *testing.T) {
	path := writePresetFile(t, `
providers:
  ollama:
    requests_per_minute: 1200
`)

	registry, err := NewRegistryFromFile(path)
	require.NoError(t, err)

	limiter, err := registry.ForProvider("ollama")
	require.NoError(t, err)
	assert.Equal(t, 1200, limiter.Config().RequestsPerMinute)

	// Providers outside the file still come from presets.
	other, err := registry.ForProvider("google")
	require.NoError(t, err)
	assert.Equal(t, 15, other.Config().RequestsPerMinute)
}
