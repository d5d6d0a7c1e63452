package rate_limit

import (
	"fmt"
	"strings"
	"time"
)

// Provider identifies an LLM provider. It is used for preset lookup and for
// provider-specific response header handling.
type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderMistral   Provider = "mistral"
	ProviderOllama    Provider = "ollama"
	ProviderDeepSeek  Provider = "deepseek"
	ProviderWatsonX   Provider = "watsonx"
)

// AllProviders lists every recognized provider.
var AllProviders = []Provider{
	ProviderGoogle,
	ProviderOpenAI,
	ProviderAnthropic,
	ProviderMistral,
	ProviderOllama,
	ProviderDeepSeek,
	ProviderWatsonX,
}

// ParseProvider matches a provider name case-insensitively. Unknown names
// return ErrUnknownProvider.
func ParseProvider(name string) (Provider, error) {
	normalized := Provider(strings.ToLower(strings.TrimSpace(name)))
	for _, p := range AllProviders {
		if p == normalized {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

func (p Provider) String() string {
	return string(p)
}

// presetQuota describes the default quota for a provider. Values are
// deliberately conservative; callers with higher paid tiers override them.
type presetQuota struct {
	RPM        int
	TPM        int
	ExtraCodes []int
}

var providerPresets = map[Provider]presetQuota{
	ProviderGoogle:    {RPM: 15, TPM: 1_000_000},             // Gemini free tier
	ProviderOpenAI:    {RPM: 60, TPM: 90_000},                // tier 1
	ProviderAnthropic: {RPM: 50, TPM: 40_000, ExtraCodes: []int{529}}, // 529 = overloaded
	ProviderMistral:   {RPM: 60, TPM: 500_000},
	ProviderOllama:    {RPM: 600, TPM: 0}, // local runtime, effectively self-limited
	ProviderDeepSeek:  {RPM: 60, TPM: 0},
	ProviderWatsonX:   {RPM: 30, TPM: 200_000},
}

// DefaultConfig returns the preset configuration for a provider. The returned
// Config is an independent copy and safe to mutate.
func DefaultConfig(provider Provider) Config {
	cfg := Config{
		Provider:             provider,
		RequestsPerMinute:    defaultRequestsPerMinute,
		DelayRange:           DelayRange{Min: time.Second, Max: 60 * time.Second},
		MaxRetries:           3,
		ExponentialBase:      2.0,
		Jitter:               true,
		RetryableStatusCodes: defaultRetryableStatusCodes(),
	}

	if preset, ok := providerPresets[provider]; ok {
		cfg.RequestsPerMinute = preset.RPM
		cfg.TokensPerMinute = preset.TPM
		for _, code := range preset.ExtraCodes {
			cfg.RetryableStatusCodes[code] = true
		}
	}

	return cfg
}
