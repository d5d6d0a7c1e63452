package token_counter

import openai "github.com/openai/openai-go/v2"

type TokenCounterInterface interface {
	CountTextTokens(text string) int
	CountMessageTokens(messages []openai.ChatCompletionMessageParamUnion) int
	CountRequestTokens(params openai.ChatCompletionNewParams) int
	GetTokenCountFromUsage(usage openai.CompletionUsage) (int, int, int)
}
