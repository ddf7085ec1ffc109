package llm

import (
	"context"
	"errors"
	"fmt"

	"sol-backend/application/ports"
	"sol-backend/pkg/observability"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider calls the chat completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
	instrumentation
}

// NewOpenAIProvider creates a new OpenAI-backed provider
func NewOpenAIProvider(cfg Config, metrics *observability.Collector, tracer *observability.Tracer, logger *zap.Logger) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  model,
		instrumentation: instrumentation{
			name:    "openai",
			metrics: metrics,
			tracer:  tracer,
			logger:  logger,
		},
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Complete sends prompt as the user message, with options.System as the system message
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string, options ports.CompletionOptions) (string, error) {
	return p.call(ctx, func(ctx context.Context) (string, error) {
		var messages []openai.ChatCompletionMessageParamUnion
		if options.System != "" {
			messages = append(messages, openai.SystemMessage(options.System))
		}
		messages = append(messages, openai.UserMessage(prompt))

		params := openai.ChatCompletionNewParams{
			Model:       openai.ChatModel(p.model),
			Messages:    messages,
			Temperature: openai.Float(options.Temperature),
		}
		if options.MaxTokens > 0 {
			params.MaxTokens = openai.Int(int64(options.MaxTokens))
		}

		res, err := p.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("openai completion failed: %w", err)
		}
		if len(res.Choices) == 0 {
			return "", errors.New("openai completion returned no choices")
		}
		return res.Choices[0].Message.Content, nil
	})
}
