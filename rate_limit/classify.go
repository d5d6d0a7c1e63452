package rate_limit

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/tidwall/gjson"
)

// APIError is the provider-agnostic error shape the retry loop understands.
// Adapters for providers without a Go SDK can wrap raw HTTP failures in it;
// SDK errors (e.g. *openai.Error) and arbitrary errors are classified by
// inspection instead.
type APIError struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// HTTPStatusCode implements the duck-typed status convention.
func (e *APIError) HTTPStatusCode() int { return e.StatusCode }

// ResponseHeaders implements the duck-typed header convention.
func (e *APIError) ResponseHeaders() http.Header { return e.Header }

// ResponseBody implements the duck-typed body convention.
func (e *APIError) ResponseBody() []byte { return e.Body }

// statusCodeCarrier is the convention for errors that carry an HTTP status.
type statusCodeCarrier interface{ HTTPStatusCode() int }

// headerCarrier is the convention for errors that carry response headers.
type headerCarrier interface{ ResponseHeaders() http.Header }

// bodyCarrier is the convention for errors that carry a response body.
type bodyCarrier interface{ ResponseBody() []byte }

// StatusCodeFromError extracts an HTTP status code from an error, or 0 when
// the error carries none.
func StatusCodeFromError(err error) int {
	if err == nil {
		return 0
	}

	var oaiErr *openai.Error
	if errors.As(err, &oaiErr) {
		return oaiErr.StatusCode
	}

	var carrier statusCodeCarrier
	if errors.As(err, &carrier) {
		return carrier.HTTPStatusCode()
	}

	return 0
}

// HeadersFromError extracts response headers from an error, or nil.
func HeadersFromError(err error) http.Header {
	if err == nil {
		return nil
	}

	var oaiErr *openai.Error
	if errors.As(err, &oaiErr) {
		if oaiErr.Response != nil {
			return oaiErr.Response.Header
		}
		return nil
	}

	var carrier headerCarrier
	if errors.As(err, &carrier) {
		return carrier.ResponseHeaders()
	}

	return nil
}

// bodyFromError extracts a JSON error body from an error, or nil.
func bodyFromError(err error) []byte {
	if err == nil {
		return nil
	}

	var oaiErr *openai.Error
	if errors.As(err, &oaiErr) {
		return []byte(oaiErr.RawJSON())
	}

	var carrier bodyCarrier
	if errors.As(err, &carrier) {
		return carrier.ResponseBody()
	}

	return nil
}

// IsRetryable reports whether a failure should be retried: either its status
// code is in the configured retryable set, or the error itself looks like a
// rate-limit or transient provider failure.
func (l *Limiter) IsRetryable(statusCode int, err error) bool {
	if l.config.RetryableStatusCodes[statusCode] {
		return true
	}
	if err == nil {
		return false
	}

	if code := StatusCodeFromError(err); code != 0 && l.config.RetryableStatusCodes[code] {
		return true
	}

	if retryableErrorBody(bodyFromError(err)) {
		return true
	}

	return isTransientErrorText(err.Error())
}

// transientErrorMarkers are matched against lowercased error text. String
// matching is deliberate: the third-party client libraries we sit in front of
// share no common error type, but their rate-limit and server-fault errors
// all name themselves recognizably.
var transientErrorMarkers = []string{
	"rate limit",
	"ratelimiterror",
	"too many requests",
	"toomanyrequests",
	"resource exhausted",
	"resourceexhausted",
	"internal server error",
	"internalservererror",
	"bad gateway",
	"service unavailable",
	"gateway timeout",
	"overloaded",
	"connection reset",
	"connection refused",
	"timeout",
}

func isTransientErrorText(text string) bool {
	lowered := strings.ToLower(text)
	for _, marker := range transientErrorMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// retryableErrorBody inspects a structured JSON error body for transient
// provider error types, e.g. Anthropic's {"error":{"type":"overloaded_error"}}
// or Google's {"error":{"status":"RESOURCE_EXHAUSTED"}}.
func retryableErrorBody(body []byte) bool {
	if len(body) == 0 {
		return false
	}

	switch gjson.GetBytes(body, "error.type").String() {
	case "rate_limit_error", "overloaded_error", "server_error", "internal_server_error":
		return true
	}

	switch gjson.GetBytes(body, "error.status").String() {
	case "RESOURCE_EXHAUSTED", "UNAVAILABLE", "INTERNAL":
		return true
	}

	return false
}

// ExtractRetryAfter reads a Retry-After header as a delay. Both delta-seconds
// (fractional accepted) and HTTP-date forms are understood. For Anthropic,
// the provider's own reset-timestamp header is consulted as a fallback.
// Returns false when no usable value is present.
func (l *Limiter) ExtractRetryAfter(headers http.Header) (time.Duration, bool) {
	if value := headerValue(headers, "Retry-After"); value != "" {
		if seconds, err := strconv.ParseFloat(value, 64); err == nil && seconds >= 0 {
			return time.Duration(seconds * float64(time.Second)), true
		}
		if at, err := http.ParseTime(value); err == nil {
			if d := time.Until(at); d > 0 {
				return d, true
			}
			return 0, true
		}
	}

	if l.config.Provider == ProviderAnthropic {
		if value := headerValue(headers, "Anthropic-Ratelimit-Requests-Reset"); value != "" {
			if at, err := time.Parse(time.RFC3339, value); err == nil {
				if d := time.Until(at); d > 0 {
					return d, true
				}
				return 0, true
			}
		}
	}

	return 0, false
}

// headerValue looks up a header case-insensitively, tolerating maps that were
// built without canonical keys.
func headerValue(headers http.Header, name string) string {
	if headers == nil {
		return ""
	}
	if value := headers.Get(name); value != "" {
		return strings.TrimSpace(value)
	}
	for key, values := range headers {
		if strings.EqualFold(key, name) && len(values) > 0 {
			return strings.TrimSpace(values[0])
		}
	}
	return ""
}
