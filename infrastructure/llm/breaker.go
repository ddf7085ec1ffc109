package llm

import (
	"context"
	"time"

	"sol-backend/application/ports"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig configures the optional circuit breaker around a provider.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the default breaker settings
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerProvider trips after repeated provider failures. An open breaker
// returns gobreaker.ErrOpenState like any other completion error.
type BreakerProvider struct {
	next ports.LLMProvider
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerProvider wraps next in a circuit breaker
func NewBreakerProvider(next ports.LLMProvider, cfg BreakerConfig, logger *zap.Logger) *BreakerProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm-" + next.Name(),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &BreakerProvider{next: next, cb: cb}
}

// Name returns the wrapped provider's name
func (b *BreakerProvider) Name() string {
	return b.next.Name()
}

// Complete forwards to the wrapped provider through the breaker
func (b *BreakerProvider) Complete(ctx context.Context, prompt string, options ports.CompletionOptions) (string, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Complete(ctx, prompt, options)
	})
	if err != nil {
		return "", err
	}
	return res.(string), nil
}

// State returns the breaker state
func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}
