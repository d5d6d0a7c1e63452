package token_counter

import (
	openai "github.com/openai/openai-go/v2"
	"github.com/stretchr/testify/mock"
)

// MockTokenCounter is a mock implementation of TokenCounterInterface for testing.
type MockTokenCounter struct {
	mock.Mock
}

var _ TokenCounterInterface = (*MockTokenCounter)(nil)

func NewMockTokenCounter() *MockTokenCounter {
	return &MockTokenCounter{}
}

func (m *MockTokenCounter) CountTextTokens(text string) int {
	args := m.Called(text)
	return args.Int(0)
}

func (m *MockTokenCounter) CountMessageTokens(messages []openai.ChatCompletionMessageParamUnion) int {
	args := m.Called(messages)
	return args.Int(0)
}

func (m *MockTokenCounter) CountRequestTokens(params openai.ChatCompletionNewParams) int {
	args := m.Called(params)
	return args.Int(0)
}

func (m *MockTokenCounter) GetTokenCountFromUsage(usage openai.CompletionUsage) (int, int, int) {
	args := m.Called(usage)
	return args.Int(0), args.Int(1), args.Int(2)
}
