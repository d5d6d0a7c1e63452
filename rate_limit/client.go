package rate_limit

import (
	"context"

	"github.com/google/uuid"

	"github.com/savagelysubtle/llm-ratelimit/utils/logger"
)

// Call is an arbitrary operation executed under the limiter's control. It may
// return any error; errors carrying an HTTP status code or response (see
// APIError and the openai SDK error) get status-based retry classification,
// everything else falls back to the transient-error text heuristic.
type Call func(ctx context.Context) (any, error)

// Client wraps calls in a retry loop that consults a shared Limiter before
// each attempt and applies backoff after retryable failures. The Client is
// stateless apart from the limiter reference; create one per call site or
// share one, both are fine.
//
// The abstraction is transparent retries: a caller sees either the normal
// result or the original provider error, never a synthetic wrapper.
type Client struct {
	limiter *Limiter
	log     logger.Logger
	id      string // short id correlating this client's log lines
}

// NewClient creates a Client around a shared Limiter. Logging defaults to
// noop; use SetLogger to see retry activity.
func NewClient(limiter *Limiter) *Client {
	return &Client{
		limiter: limiter,
		log:     logger.NewNoopLogger(),
		id:      uuid.New().String()[:6],
	}
}

// SetLogger sets the logger used for retry warnings and outcomes.
func (c *Client) SetLogger(l logger.Logger) *Client {
	c.log = l
	return c
}

// Limiter returns the underlying limiter.
func (c *Client) Limiter() *Limiter {
	return c.limiter
}

// Do executes call with admission control and retries.
//
// Each attempt first waits for limiter admission, charging estimatedTokens
// against the token bucket. On a retryable failure the delay is the larger of
// the exponential backoff for that attempt and the server's Retry-After, when
// the error carries one. Non-retryable errors and retry exhaustion both
// return the underlying error unchanged so callers can still branch on the
// root cause. Cancelling ctx aborts any wait promptly with ctx.Err().
func (c *Client) Do(ctx context.Context, estimatedTokens int, call Call) (any, error) {
	maxRetries := c.limiter.config.MaxRetries

	for attempt := 0; ; attempt++ {
		if _, err := c.limiter.WaitIfNeeded(ctx, estimatedTokens); err != nil {
			return nil, err
		}

		result, err := call(ctx)
		if err == nil {
			if attempt > 0 {
				c.log.Printf("client %s: call succeeded on attempt %d/%d", c.id, attempt+1, maxRetries+1)
			}
			return result, nil
		}

		statusCode := StatusCodeFromError(err)
		if !c.limiter.IsRetryable(statusCode, err) {
			return nil, err
		}

		if attempt >= maxRetries {
			c.log.Printf("client %s: max retries exceeded after %d attempts: %v", c.id, attempt+1, err)
			return nil, err
		}

		delay := c.limiter.BackoffDelay(attempt)
		if retryAfter, ok := c.limiter.ExtractRetryAfter(HeadersFromError(err)); ok && retryAfter > delay {
			delay = retryAfter
		}

		c.log.Printf("client %s: retryable error on attempt %d/%d (status %d), retrying in %v: %v",
			c.id, attempt+1, maxRetries+1, statusCode, delay, err)

		if err := sleepContext(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// Execute runs a typed call through a Client, preserving the result type.
func Execute[T any](ctx context.Context, c *Client, estimatedTokens int, call func(ctx context.Context) (T, error)) (T, error) {
	result, err := c.Do(ctx, estimatedTokens, func(ctx context.Context) (any, error) {
		return call(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
