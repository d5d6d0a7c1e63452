package token_counter

import (
	"encoding/json"
	"fmt"

	openai "github.com/openai/openai-go/v2"
	"github.com/pkoukk/tiktoken-go"
)

// tokenCounterImpl estimates token consumption for outbound chat requests so
// the rate limiter can charge its token bucket before the provider reports
// actual usage.
type tokenCounterImpl struct {
	encoder *tiktoken.Tiktoken
}

var encodingBase = "cl100k_base"

var _ TokenCounterInterface = (*tokenCounterImpl)(nil)

// NewTokenCounter creates a new TokenCounter instance
func NewTokenCounter() (*tokenCounterImpl, error) {
	// cl100k_base covers the GPT-4/GPT-3.5 family; close enough as an
	// estimate for the other providers' tokenizers too.
	encoder, err := tiktoken.GetEncoding(encodingBase)
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding: %w", err)
	}

	return &tokenCounterImpl{
		encoder: encoder,
	}, nil
}

// CountTextTokens counts tokens in plain text using tiktoken
func (tc *tokenCounterImpl) CountTextTokens(text string) int {
	tokens := tc.encoder.Encode(text, nil, nil)
	return len(tokens)
}

// CountMessageTokens estimates tokens for a slice of chat messages
func (tc *tokenCounterImpl) CountMessageTokens(messages []openai.ChatCompletionMessageParamUnion) int {
	totalTokens := 0
	for _, msg := range messages {
		body, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		totalTokens += tc.CountTextTokens(string(body))

		// Overhead for message structure (per OpenAI's token counting
		// methodology)
		totalTokens += 4
	}
	return totalTokens
}

// CountRequestTokens estimates the total token count for a complete chat
// completion request including messages, tools, and other metadata
func (tc *tokenCounterImpl) CountRequestTokens(params openai.ChatCompletionNewParams) int {
	body, err := json.Marshal(params)
	if err != nil {
		return tc.CountMessageTokens(params.Messages)
	}

	return tc.CountTextTokens(string(body))
}

// GetTokenCountFromUsage extracts token counts from LLM response usage
func (tc *tokenCounterImpl) GetTokenCountFromUsage(usage openai.CompletionUsage) (int, int, int) {
	return int(usage.PromptTokens), int(usage.CompletionTokens), int(usage.TotalTokens)
}
