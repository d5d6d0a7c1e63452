package llm

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v2"

	"github.com/savagelysubtle/llm-ratelimit/rate_limit"
	"github.com/savagelysubtle/llm-ratelimit/utils/logger"
	"github.com/savagelysubtle/llm-ratelimit/utils/token_counter"
)

// RateLimitedChatClient wraps OpenAI chat completions with admission control
// and retries. Token cost is estimated from the request body before each call
// so the limiter's token bucket stays honest even before the provider reports
// real usage.
type RateLimitedChatClient struct {
	completions completionService
	client      *rate_limit.Client
	counter     token_counter.TokenCounterInterface
}

var _ ChatClientInterface = (*RateLimitedChatClient)(nil)

// NewRateLimitedChatClient wraps an OpenAI client so every chat completion
// goes through the given shared limiter.
func NewRateLimitedChatClient(api *openai.Client, limiter *rate_limit.Limiter) (*RateLimitedChatClient, error) {
	counter, err := token_counter.NewTokenCounter()
	if err != nil {
		return nil, fmt.Errorf("failed to create token counter: %w", err)
	}

	return &RateLimitedChatClient{
		completions: &api.Chat.Completions,
		client:      rate_limit.NewClient(limiter),
		counter:     counter,
	}, nil
}

// SetLogger sets the logger for retry activity.
func (c *RateLimitedChatClient) SetLogger(l logger.Logger) *RateLimitedChatClient {
	c.client.SetLogger(l)
	return c
}

// ChatCompletion executes a chat completion under the limiter's control.
func (c *RateLimitedChatClient) ChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	estimatedTokens := c.counter.CountRequestTokens(params)
	estimatedTokens += estimatedTokens * 20 / 100 // 20% overhead for response tokens

	return rate_limit.Execute(ctx, c.client, estimatedTokens, func(ctx context.Context) (*openai.ChatCompletion, error) {
		return c.completions.New(ctx, params)
	})
}
