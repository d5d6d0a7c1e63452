package llm

import (
	"context"
	"testing"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/savagelysubtle/llm-ratelimit/rate_limit"
)

func newTestChatClient(t *testing.T, opts ...rate_limit.Option) (*RateLimitedChatClient, *mockCompletionService, *mockCounter) {
	t.Helper()

	base := []rate_limit.Option{
		rate_limit.WithRequestsPerMinute(10_000),
		rate_limit.WithTokensPerMinute(10_000_000),
		rate_limit.WithJitter(false),
		rate_limit.WithDelayRange(0, 5*time.Millisecond),
	}
	limiter, err := rate_limit.NewLimiterForProvider("openai", append(base, opts...)...)
	require.NoError(t, err)

	completions := &mockCompletionService{}
	counter := &mockCounter{}

	return &RateLimitedChatClient{
		completions: completions,
		client:      rate_limit.NewClient(limiter),
		counter:     counter,
	}, completions, counter
}

// mockCounter keeps adapter tests independent of the tiktoken data files.
type mockCounter struct {
	mockTokens int
}

func (m *mockCounter) CountTextTokens(string) int { return m.mockTokens }
func (m *mockCounter) CountMessageTokens([]openai.ChatCompletionMessageParamUnion) int {
	return m.mockTokens
}
func (m *mockCounter) CountRequestTokens(openai.ChatCompletionNewParams) int { return m.mockTokens }
func (m *mockCounter) GetTokenCountFromUsage(u openai.CompletionUsage) (int, int, int) {
	return int(u.PromptTokens), int(u.CompletionTokens), int(u.TotalTokens)
}

func chatParams(content string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(content),
		},
	}
}

func TestChatCompletion_Success(t *testing.T) {
	client, completions, counter := newTestChatClient(t)
	counter.mockTokens = 100

	expected := &openai.ChatCompletion{ID: "cmpl-1"}
	completions.On("New", mock.Anything, mock.Anything).Return(expected, nil).Once()

	result, err := client.ChatCompletion(context.Background(), chatParams("hello"))
	require.NoError(t, err)
	assert.Equal(t, expected, result)
	completions.AssertExpectations(t)
}

func TestChatCompletion_RetriesRateLimitThenSucceeds(t *testing.T) {
	client, completions, counter := newTestChatClient(t, rate_limit.WithMaxRetries(3))
	counter.mockTokens = 50

	rateLimited := &rate_limit.APIError{StatusCode: 429, Message: "rate limit exceeded"}
	expected := &openai.ChatCompletion{ID: "cmpl-2"}

	completions.On("New", mock.Anything, mock.Anything).Return(nil, rateLimited).Twice()
	completions.On("New", mock.Anything, mock.Anything).Return(expected, nil).Once()

	result, err := client.ChatCompletion(context.Background(), chatParams("retry me"))
	require.NoError(t, err)
	assert.Equal(t, expected, result)
	completions.AssertNumberOfCalls(t, "New", 3)
}

func TestChatCompletion_NonRetryableFailsImmediately(t *testing.T) {
	client, completions, counter := newTestChatClient(t)
	counter.mockTokens = 50

	badRequest := &rate_limit.APIError{StatusCode: 400, Message: "model not found"}
	completions.On("New", mock.Anything, mock.Anything).Return(nil, badRequest).Once()

	_, err := client.ChatCompletion(context.Background(), chatParams("bad"))
	require.Error(t, err)
	assert.Equal(t, badRequest, err)
	completions.AssertNumberOfCalls(t, "New", 1)
}
