package token_counter

import (
	"testing"

	openai "github.com/openai/openai-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTextTokens(t *testing.T) {
	tc, err := NewTokenCounter()
	require.NoError(t, err)

	assert.Equal(t, 0, tc.CountTextTokens(""))

	count := tc.CountTextTokens("Hello, world!")
	assert.Greater(t, count, 0)
	assert.Less(t, count, 10, "short text should be a handful of tokens")

	longer := tc.CountTextTokens("Hello, world! This is a longer sentence with more content in it.")
	assert.Greater(t, longer, count, "longer text should count more tokens")
}

func TestCountMessageTokens(t *testing.T) {
	tc, err := NewTokenCounter()
	require.NoError(t, err)

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage("You are a helpful assistant."),
		openai.UserMessage("Summarize this document for me."),
	}

	count := tc.CountMessageTokens(messages)
	assert.Greater(t, count, 8, "two messages plus structure overhead")

	single := tc.CountMessageTokens(messages[:1])
	assert.Less(t, single, count)
}

func TestCountRequestTokens(t *testing.T) {
	tc, err := NewTokenCounter()
	require.NoError(t, err)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("Classify the attached appeal decision."),
		},
	}

	count := tc.CountRequestTokens(params)
	assert.Greater(t, count, 0)
}

func TestGetTokenCountFromUsage(t *testing.T) {
	tc, err := NewTokenCounter()
	require.NoError(t, err)

	prompt, completion, total := tc.GetTokenCountFromUsage(openai.CompletionUsage{
		PromptTokens:     120,
		CompletionTokens: 30,
		TotalTokens:      150,
	})

	assert.Equal(t, 120, prompt)
	assert.Equal(t, 30, completion)
	assert.Equal(t, 150, total)
}
