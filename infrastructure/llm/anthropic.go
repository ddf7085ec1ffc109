package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sol-backend/application/ports"
	"sol-backend/pkg/observability"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const (
	// DefaultAnthropicModel is used when no model is configured.
	DefaultAnthropicModel = "claude-3-5-haiku-latest"

	// the messages API requires max_tokens
	defaultAnthropicMaxTokens = 1024
)

// AnthropicProvider calls the messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
	instrumentation
}

// NewAnthropicProvider creates a new Anthropic-backed provider
func NewAnthropicProvider(cfg Config, metrics *observability.Collector, tracer *observability.Tracer, logger *zap.Logger) *AnthropicProvider {
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
		model = DefaultAnthropicModel
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
		instrumentation: instrumentation{
			name:    "anthropic",
			metrics: metrics,
			tracer:  tracer,
			logger:  logger,
		},
	}
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return p.name
}

// Complete sends prompt as a single user turn and joins the text blocks of the reply
func (p *AnthropicProvider) Complete(ctx context.Context, prompt string, options ports.CompletionOptions) (string, error) {
	return p.call(ctx, func(ctx context.Context) (string, error) {
		maxTokens := int64(options.MaxTokens)
		if maxTokens <= 0 {
			maxTokens = defaultAnthropicMaxTokens
		}

		params := anthropic.MessageNewParams{
			Model:       anthropic.Model(p.model),
			MaxTokens:   maxTokens,
			Temperature: anthropic.Float(options.Temperature),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		}
		if options.System != "" {
			params.System = []anthropic.TextBlockParam{{Text: options.System}}
		}

		res, err := p.client.Messages.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("anthropic completion failed: %w", err)
		}

		var sb strings.Builder
		for _, block := range res.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		if sb.Len() == 0 {
			return "", errors.New("anthropic completion returned no text")
		}
		return sb.String(), nil
	})
}
