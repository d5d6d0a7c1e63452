package llm

import (
	"context"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// ChatClientInterface is what downstream pipelines depend on: a chat
// completion call whose pacing and retries are somebody else's problem.
type ChatClientInterface interface {
	ChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// completionService is the slice of the OpenAI SDK the client actually uses,
// kept narrow so tests can stand in for it.
type completionService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}
