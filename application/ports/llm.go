package ports

import "context"

// CompletionOptions bounds a single completion.
type CompletionOptions struct {
	System      string
	Temperature float64
	MaxTokens   int
}

// LLMProvider sends a prompt to a completion API and returns the generated text.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string, options CompletionOptions) (string, error)

	// Name identifies the provider in logs and metrics
	Name() string
}
