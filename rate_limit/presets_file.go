package rate_limit

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// presetFile is the YAML quota override document:
//
//	providers:
//	  google:
//	    requests_per_minute: 15
//	    tokens_per_minute: 1000000
//	    max_retries: 5
//	  anthropic:
//	    requests_per_minute: 50
//	    retryable_status_codes: [429, 500, 503, 529]
//
// Unset fields keep the provider's preset value. The limiter itself never
// reads configuration; callers load this once and feed the result to a
// Registry.
type presetFile struct {
	Providers map[string]presetEntry `yaml:"providers"`
}

type presetEntry struct {
	RequestsPerMinute    *int     `yaml:"requests_per_minute"`
	TokensPerMinute      *int     `yaml:"tokens_per_minute"`
	MaxRetries           *int     `yaml:"max_retries"`
	ExponentialBase      *float64 `yaml:"exponential_base"`
	Jitter               *bool    `yaml:"jitter"`
	MinDelaySeconds      *float64 `yaml:"min_delay_seconds"`
	MaxDelaySeconds      *float64 `yaml:"max_delay_seconds"`
	RetryableStatusCodes []int    `yaml:"retryable_status_codes"`
}

// LoadPresetFile reads per-provider quota overrides from a YAML file. Each
// returned Config is fully validated; unknown provider names fail loudly
// rather than being silently skipped.
func LoadPresetFile(path string) (map[Provider]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse preset file %s: %w", path, err)
	}

	configs := make(map[Provider]Config, len(file.Providers))
	for name, entry := range file.Providers {
		provider, err := ParseProvider(name)
		if err != nil {
			return nil, fmt.Errorf("preset file %s: %w", path, err)
		}

		cfg := DefaultConfig(provider)
		entry.apply(&cfg)

		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("preset file %s, provider %s: %w", path, provider, err)
		}
		configs[provider] = cfg
	}

	return configs, nil
}

func (e presetEntry) apply(cfg *Config) {
	if e.RequestsPerMinute != nil {
		cfg.RequestsPerMinute = *e.RequestsPerMinute
	}
	if e.TokensPerMinute != nil {
		cfg.TokensPerMinute = *e.TokensPerMinute
	}
	if e.MaxRetries != nil {
		cfg.MaxRetries = *e.MaxRetries
	}
	if e.ExponentialBase != nil {
		cfg.ExponentialBase = *e.ExponentialBase
	}
	if e.Jitter != nil {
		cfg.Jitter = *e.Jitter
	}
	if e.MinDelaySeconds != nil {
		cfg.DelayRange.Min = time.Duration(*e.MinDelaySeconds * float64(time.Second))
	}
	if e.MaxDelaySeconds != nil {
		cfg.DelayRange.Max = time.Duration(*e.MaxDelaySeconds * float64(time.Second))
	}
	if len(e.RetryableStatusCodes) > 0 {
		cfg.RetryableStatusCodes = make(map[int]bool, len(e.RetryableStatusCodes))
		for _, code := range e.RetryableStatusCodes {
			cfg.RetryableStatusCodes[code] = true
		}
	}
}
