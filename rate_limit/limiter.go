package rate_limit

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// defaultBaseDelay is the starting point for exponential backoff before the
// growth factor and clamp are applied.
const defaultBaseDelay = time.Second

// Limiter gates admission of work against one or two resource ceilings: a
// request-rate bucket (always) and a token-rate bucket (when the provider has
// a tokens-per-minute quota). One Limiter instance is meant to be shared by
// every caller targeting the same provider account.
//
// The Limiter provides the retry timing policy but not the retry loop itself;
// that lives in Client.
type Limiter struct {
	config        Config
	requestBucket *TokenBucket
	tokenBucket   *TokenBucket // nil when TokensPerMinute == 0
}

// NewLimiter builds a Limiter from an explicit Config. The Config is
// validated here so misconfiguration surfaces at construction, never at call
// time.
func NewLimiter(cfg Config) (*Limiter, error) {
	if cfg.RetryableStatusCodes == nil {
		cfg.RetryableStatusCodes = defaultRetryableStatusCodes()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Limiter{
		config:        cfg.clone(),
		requestBucket: newPerMinuteBucket(cfg.RequestsPerMinute),
	}
	if cfg.TokensPerMinute > 0 {
		l.tokenBucket = newPerMinuteBucket(cfg.TokensPerMinute)
	}
	return l, nil
}

// NewLimiterForProvider builds a Limiter from a provider's preset, matched
// case-insensitively by name. Options override any preset field.
func NewLimiterForProvider(name string, opts ...Option) (*Limiter, error) {
	provider, err := ParseProvider(name)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig(provider)
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewLimiter(cfg)
}

// Config returns a copy of the limiter's configuration.
func (l *Limiter) Config() Config {
	return l.config.clone()
}

// WaitIfNeeded blocks until the request bucket has 1 unit and the token
// bucket (if any) has estimatedTokens units, then deducts both and returns
// how long it waited. The deduction after a wait is unconditional; the wait
// already accounted for the deficit, and re-checking would only re-race with
// other callers.
//
// Waiting parks only the calling goroutine. Cancelling ctx aborts the wait
// with ctx.Err() and consumes nothing. Callers are admitted on a
// whoever-wakes-first basis; there is no FIFO queue.
func (l *Limiter) WaitIfNeeded(ctx context.Context, estimatedTokens int) (time.Duration, error) {
	wait := l.requestBucket.TimeUntilAvailable(1)
	if l.tokenBucket != nil {
		if tokenWait := l.tokenBucket.TimeUntilAvailable(float64(estimatedTokens)); tokenWait > wait {
			wait = tokenWait
		}
	}

	if wait > 0 {
		if err := sleepContext(ctx, wait); err != nil {
			return 0, err
		}
	}

	l.requestBucket.drain(1)
	if l.tokenBucket != nil {
		l.tokenBucket.drain(float64(estimatedTokens))
	}

	return wait, nil
}

// BackoffDelay computes the delay before retry number attempt (0-based):
// baseDelay * ExponentialBase^attempt, scaled by a uniform random factor in
// [0.1, 1.0] when jitter is on, clamped into DelayRange.
func (l *Limiter) BackoffDelay(attempt int) time.Duration {
	return l.backoffDelay(defaultBaseDelay, attempt)
}

func (l *Limiter) backoffDelay(baseDelay time.Duration, attempt int) time.Duration {
	seconds := baseDelay.Seconds() * math.Pow(l.config.ExponentialBase, float64(attempt))

	if l.config.Jitter {
		seconds *= 0.1 + rand.Float64()*0.9
	}

	// Clamp in float space so a large attempt number cannot overflow the
	// Duration conversion.
	if max := l.config.DelayRange.Max.Seconds(); seconds > max {
		seconds = max
	}
	if min := l.config.DelayRange.Min.Seconds(); seconds < min {
		seconds = min
	}

	return time.Duration(seconds * float64(time.Second))
}

// sleepContext sleeps for d or until ctx is cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
