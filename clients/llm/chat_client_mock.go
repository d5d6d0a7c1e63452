package llm

import (
	"context"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/stretchr/testify/mock"
)

// MockChatClient is a mock implementation of ChatClientInterface for testing.
type MockChatClient struct {
	mock.Mock
}

var _ ChatClientInterface = (*MockChatClient)(nil)

func NewMockChatClient() *MockChatClient {
	return &MockChatClient{}
}

func (m *MockChatClient) ChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.ChatCompletion), args.Error(1)
}

// mockCompletionService stands in for the OpenAI SDK in adapter tests.
type mockCompletionService struct {
	mock.Mock
}

var _ completionService = (*mockCompletionService)(nil)

func (m *mockCompletionService) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.ChatCompletion), args.Error(1)
}
