package di

import (
	"context"
	"fmt"

	"sol-backend/application/ports"
	"sol-backend/application/services"
	"sol-backend/infrastructure/config"
	"sol-backend/infrastructure/llm"
	"sol-backend/infrastructure/messaging/eventbridge"
	"sol-backend/infrastructure/messaging/logbus"
	"sol-backend/infrastructure/persistence/dynamodb"
	"sol-backend/infrastructure/persistence/memory"
	"sol-backend/infrastructure/persistence/supabase"
	"sol-backend/infrastructure/persistence/traced"
	"sol-backend/interfaces/http/rest"
	"sol-backend/pkg/auth"
	"sol-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

const serviceName = "sol-backend"

// ProvideLogger creates the JSON production logger in Lambda or production,
// the development logger otherwise, at LOG_LEVEL.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() || cfg.IsLambda {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = level

	return zapCfg.Build(zap.Fields(zap.String("service", serviceName), zap.String("environment", cfg.Environment)))
}

// ProvideMetrics creates the prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("sol")
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideRecordStore selects the backend named by STORE_BACKEND and wraps it with tracing.
func ProvideRecordStore(cfg *config.Config, client *awsdynamodb.Client, tracer *observability.Tracer, logger *zap.Logger) (*traced.Store, error) {
	var store ports.RecordStore

	switch cfg.StoreBackend {
	case config.StoreSupabase:
		sb, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create supabase client: %w", err)
		}
		store = supabase.NewRecordStore(sb, logger)
	case config.StoreDynamoDB:
		store = dynamodb.NewRecordStore(client, cfg.DynamoDBTable, cfg.IndexName, logger)
	case config.StoreMemory:
		store = memory.NewRecordStore()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	logger.Info("Record store selected", zap.String("backend", cfg.StoreBackend))
	return traced.NewStore(store, tracer, logger), nil
}

// ProvideLLMProvider selects the provider named by LLM_PROVIDER, behind a
// circuit breaker when LLM_BREAKER_ENABLED is set.
func ProvideLLMProvider(cfg *config.Config, metrics *observability.Collector, tracer *observability.Tracer, logger *zap.Logger) (ports.LLMProvider, error) {
	var provider ports.LLMProvider

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		provider = llm.NewOpenAIProvider(llm.Config{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			BaseURL:    cfg.OpenAIBaseURL,
			MaxRetries: cfg.LLMMaxRetries,
			Timeout:    cfg.LLMTimeout,
		}, metrics, tracer, logger)
	case config.ProviderAnthropic:
		provider = llm.NewAnthropicProvider(llm.Config{
			APIKey:     cfg.AnthropicAPIKey,
			Model:      cfg.AnthropicModel,
			BaseURL:    cfg.AnthropicBaseURL,
			MaxRetries: cfg.LLMMaxRetries,
			Timeout:    cfg.LLMTimeout,
		}, metrics, tracer, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}

	if cfg.LLMBreakerEnabled {
		provider = llm.NewBreakerProvider(provider, llm.DefaultBreakerConfig(), logger)
	}
	return provider, nil
}

// ProvideEventPublisher sends events to EventBridge, or logs them when no bus is configured.
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return logbus.NewPublisher(logger)
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideExtractionConfig applies the configured extraction call settings and filters
func ProvideExtractionConfig(cfg *config.Config) services.ExtractionConfig {
	ec := services.DefaultExtractionConfig()
	ec.Temperature = cfg.ExtractionTemperature
	ec.MaxTokens = cfg.ExtractionMaxTokens
	ec.MinInsightLength = cfg.ExtractionMinInsightLength
	ec.MinGoalLength = cfg.ExtractionMinGoalLength
	ec.NoveltyThreshold = cfg.ExtractionNoveltyThreshold
	return ec
}

// ProvideSynthesisConfig applies the configured freshness rules
func ProvideSynthesisConfig(cfg *config.Config) services.SynthesisConfig {
	sc := services.DefaultSynthesisConfig()
	sc.MaxAge = cfg.SynthesisMaxAge
	sc.MinNewInsights = cfg.SynthesisMinNewInsights
	sc.EssenceMaxWords = cfg.EssenceMaxWords
	return sc
}

// ProvideAnalysisConfig applies the document insight cap
func ProvideAnalysisConfig(cfg *config.Config) services.AnalysisConfig {
	ac := services.DefaultAnalysisConfig()
	ac.InsightCap = cfg.DocumentInsightCap
	return ac
}

// ProvideChatConfig applies the chat temperature and insight cap
func ProvideChatConfig(cfg *config.Config) services.ChatConfig {
	cc := services.DefaultChatConfig()
	cc.Temperature = cfg.ChatTemperature
	cc.InsightCap = cfg.ChatInsightCap
	return cc
}

// ProvideJWTValidator returns nil when authentication is disabled
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if !cfg.AuthEnabled {
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideRouterOptions maps configuration onto router options
func ProvideRouterOptions(cfg *config.Config, validator *auth.JWTValidator) rest.Options {
	return rest.Options{
		EnableCORS:     cfg.EnableCORS,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		InsightCap:     cfg.DocumentInsightCap,
		Validator:      validator,
	}
}
