package di

import (
	"sol-backend/application/ports"
	"sol-backend/application/services"
	"sol-backend/infrastructure/config"
	"sol-backend/interfaces/http/rest"
	"sol-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Store       ports.RecordStore
	LLM         ports.LLMProvider
	Publisher   ports.EventPublisher
	Metrics     *observability.Collector
	Aggregator  *services.ContextAggregator
	Synthesizer *services.ProfileSynthesizer
	Documents   *services.DocumentRouter
	Router      *rest.Router
}
