// Package llm adapts hosted completion APIs to ports.LLMProvider.
package llm

import (
	"context"
	"time"

	"sol-backend/pkg/observability"

	"go.uber.org/zap"
)

// Config holds the settings shared by every provider.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
	Timeout    time.Duration
}

// instrumentation records metrics, tracing and logs around a single completion.
type instrumentation struct {
	name    string
	metrics *observability.Collector
	tracer  *observability.Tracer
	logger  *zap.Logger
}

func (i instrumentation) call(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	started := time.Now()

	var text string
	err := i.tracer.TraceFunction(ctx, "llm."+i.name, func(ctx context.Context) error {
		var err error
		text, err = fn(ctx)
		return err
	})

	i.metrics.ObserveLLM(i.name, started, err)
	if err != nil {
		i.logger.Warn("LLM completion failed",
			zap.String("provider", i.name),
			zap.Duration("duration", time.Since(started)),
			zap.Error(err))
		return "", err
	}

	i.logger.Debug("LLM completion",
		zap.String("provider", i.name),
		zap.Duration("duration", time.Since(started)),
		zap.Int("response_length", len(text)))
	return text, nil
}
