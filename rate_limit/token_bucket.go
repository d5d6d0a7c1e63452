package rate_limit

import (
	"sync"
	"time"
)

// TokenBucket enforces a single maximum sustained rate via continuous refill.
// Unlike a minute-window counter it has no reset boundary, so admission
// pressure is spread evenly instead of bursting at the top of each minute.
//
// All methods are safe for concurrent use; refill and consume are serialized
// behind one mutex so two racing callers can never overdraw the bucket.
type TokenBucket struct {
	capacity   float64
	refillRate float64 // tokens per second

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time

	now func() time.Time // test seam
}

// NewTokenBucket creates a bucket that starts full. refillRate is in tokens
// per second.
func NewTokenBucket(capacity int, refillRate float64) *TokenBucket {
	tb := &TokenBucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		now:        time.Now,
	}
	tb.lastRefill = tb.now()
	return tb
}

// newPerMinuteBucket creates a bucket sized for a per-minute quota: capacity
// equals the quota, refilled continuously at capacity/60 per second.
func newPerMinuteBucket(perMinute int) *TokenBucket {
	return NewTokenBucket(perMinute, float64(perMinute)/60.0)
}

// Consume takes n tokens if available. On failure the bucket is left
// unchanged apart from the lazy refill.
func (tb *TokenBucket) Consume(n float64) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()

	if tb.tokens < n {
		return false
	}
	tb.tokens -= n
	return true
}

// TimeUntilAvailable returns how long until n tokens will be available at the
// current refill rate. Returns 0 when they already are. Never negative.
func (tb *TokenBucket) TimeUntilAvailable(n float64) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()

	if tb.tokens >= n {
		return 0
	}

	waitSeconds := (n - tb.tokens) / tb.refillRate
	return time.Duration(waitSeconds * float64(time.Second))
}

// drain deducts n tokens unconditionally, clamping at zero. Used after a
// caller has already waited out the deficit, where a second availability
// check would only re-race.
func (tb *TokenBucket) drain(n float64) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()

	tb.tokens -= n
	if tb.tokens < 0 {
		tb.tokens = 0
	}
}

// Tokens returns the current level after a lazy refill.
func (tb *TokenBucket) Tokens() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	return tb.tokens
}

// refillLocked credits tokens for the elapsed time since the last refill,
// capped at capacity. Fractional refill preserves sub-request precision
// across successive calls. Caller must hold the mutex.
func (tb *TokenBucket) refillLocked() {
	now := tb.now()
	elapsed := now.Sub(tb.lastRefill)
	tb.lastRefill = now

	tb.tokens += elapsed.Seconds() * tb.refillRate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
}
