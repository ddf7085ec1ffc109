// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"

	"sol-backend/application/ports"

	"github.com/stretchr/testify/mock"
)

// MockLLMProvider is a mock implementation of ports.LLMProvider
type MockLLMProvider struct {
	mock.Mock
}

func (m *MockLLMProvider) Complete(ctx context.Context, prompt string, options ports.CompletionOptions) (string, error) {
	args := m.Called(ctx, prompt, options)
	return args.String(0), args.Error(1)
}

func (m *MockLLMProvider) Name() string {
	return "mock"
}

// Prompts returns the prompts passed to Complete, in call order.
func (m *MockLLMProvider) Prompts() []string {
	var prompts []string
	for _, call := range m.Calls {
		if call.Method == "Complete" {
			prompts = append(prompts, call.Arguments.String(1))
		}
	}
	return prompts
}
