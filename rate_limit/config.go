package rate_limit

import (
	"errors"
	"fmt"
	"time"
)

const defaultRequestsPerMinute = 60

var (
	// ErrUnknownProvider is returned when a provider name does not match any
	// recognized Provider.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrInvalidConfig is returned when a Config fails validation. It is
	// always raised at construction time, never during a call.
	ErrInvalidConfig = errors.New("invalid rate limit config")
)

// DelayRange bounds the computed backoff delay between retries.
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

// Config describes a provider's quota and retry policy. It is created once at
// limiter construction and treated as immutable afterwards.
type Config struct {
	Provider          Provider
	RequestsPerMinute int
	// TokensPerMinute enables the secondary token bucket when > 0. A value of
	// 0 means the provider has no token-rate ceiling (or we don't track it).
	TokensPerMinute      int
	DelayRange           DelayRange
	MaxRetries           int
	ExponentialBase      float64
	Jitter               bool
	RetryableStatusCodes map[int]bool
}

func defaultRetryableStatusCodes() map[int]bool {
	return map[int]bool{429: true, 500: true, 503: true}
}

// Validate checks the Config invariants. All violations wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("%w: requests per minute must be positive, got %d", ErrInvalidConfig, c.RequestsPerMinute)
	}
	if c.TokensPerMinute < 0 {
		return fmt.Errorf("%w: tokens per minute must not be negative, got %d", ErrInvalidConfig, c.TokensPerMinute)
	}
	if c.DelayRange.Min < 0 {
		return fmt.Errorf("%w: min delay must not be negative, got %v", ErrInvalidConfig, c.DelayRange.Min)
	}
	if c.DelayRange.Max < c.DelayRange.Min {
		return fmt.Errorf("%w: max delay %v is below min delay %v", ErrInvalidConfig, c.DelayRange.Max, c.DelayRange.Min)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries must not be negative, got %d", ErrInvalidConfig, c.MaxRetries)
	}
	if c.ExponentialBase <= 1 {
		return fmt.Errorf("%w: exponential base must be greater than 1, got %g", ErrInvalidConfig, c.ExponentialBase)
	}
	return nil
}

// clone returns a deep copy so shared presets are never mutated through a
// handed-out Config.
func (c Config) clone() Config {
	copied := c
	copied.RetryableStatusCodes = make(map[int]bool, len(c.RetryableStatusCodes))
	for code, ok := range c.RetryableStatusCodes {
		copied.RetryableStatusCodes[code] = ok
	}
	return copied
}

// Option overrides a single Config field at construction time.
type Option func(*Config)

// WithRequestsPerMinute overrides the request-rate ceiling.
func WithRequestsPerMinute(rpm int) Option {
	return func(c *Config) { c.RequestsPerMinute = rpm }
}

// WithTokensPerMinute overrides the token-rate ceiling. Pass 0 to disable the
// token bucket entirely.
func WithTokensPerMinute(tpm int) Option {
	return func(c *Config) { c.TokensPerMinute = tpm }
}

// WithDelayRange overrides the backoff clamp bounds.
func WithDelayRange(min, max time.Duration) Option {
	return func(c *Config) { c.DelayRange = DelayRange{Min: min, Max: max} }
}

// WithMaxRetries overrides the retry budget.
func WithMaxRetries(n int) Option {
	return func(c *Config) { c.MaxRetries = n }
}

// WithExponentialBase overrides the backoff growth factor.
func WithExponentialBase(base float64) Option {
	return func(c *Config) { c.ExponentialBase = base }
}

// WithJitter enables or disables randomized backoff delays.
func WithJitter(jitter bool) Option {
	return func(c *Config) { c.Jitter = jitter }
}

// WithRetryableStatusCodes replaces the retryable status code set.
func WithRetryableStatusCodes(codes ...int) Option {
	return func(c *Config) {
		c.RetryableStatusCodes = make(map[int]bool, len(codes))
		for _, code := range codes {
			c.RetryableStatusCodes[code] = true
		}
	}
}
