//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"sol-backend/application/ports"
	"sol-backend/application/services"
	domainservices "sol-backend/domain/services"
	"sol-backend/infrastructure/config"
	"sol-backend/infrastructure/persistence/records"
	"sol-backend/infrastructure/persistence/traced"
	"sol-backend/interfaces/http/rest"

	"github.com/google/wire"
)

// InfrastructureSet provides logging, observability, AWS clients, storage, LLM and events.
var InfrastructureSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideTracer,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideRecordStore,
	wire.Bind(new(ports.RecordStore), new(*traced.Store)),
	wire.Bind(new(ports.HealthChecker), new(*traced.Store)),
	ProvideLLMProvider,
	ProvideEventPublisher,
)

// RepositorySet provides the typed repositories over the record store.
var RepositorySet = wire.NewSet(
	records.NewProfileRepository,
	records.NewMessageRepository,
	records.NewInsightRepository,
	records.NewVisioningRepository,
	records.NewBusinessPlanRepository,
	wire.Bind(new(ports.ProfileRepository), new(*records.ProfileRepository)),
	wire.Bind(new(ports.MessageRepository), new(*records.MessageRepository)),
	wire.Bind(new(ports.InsightRepository), new(*records.InsightRepository)),
	wire.Bind(new(ports.VisioningRepository), new(*records.VisioningRepository)),
	wire.Bind(new(ports.BusinessPlanRepository), new(*records.BusinessPlanRepository)),
)

// ServiceSet provides the application services.
var ServiceSet = wire.NewSet(
	ProvideExtractionConfig,
	ProvideSynthesisConfig,
	ProvideAnalysisConfig,
	ProvideChatConfig,
	domainservices.NewDocumentClassifier,
	services.NewProfileService,
	services.NewContextAggregator,
	services.NewInsightExtractor,
	services.NewProfileSynthesizer,
	services.NewVisioningService,
	services.NewBusinessPlanService,
	services.NewGeneralDocumentHandler,
	services.NewDocumentRouter,
	services.NewChatService,
)

// HTTPSet provides the REST router.
var HTTPSet = wire.NewSet(
	ProvideJWTValidator,
	ProvideRouterOptions,
	wire.Struct(new(rest.Services), "*"),
	rest.NewRouter,
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	InfrastructureSet,
	RepositorySet,
	ServiceSet,
	HTTPSet,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
