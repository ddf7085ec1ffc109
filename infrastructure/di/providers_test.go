package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sol-backend/application/services"
	"sol-backend/infrastructure/config"
	"sol-backend/infrastructure/llm"
	"sol-backend/infrastructure/messaging/eventbridge"
	"sol-backend/infrastructure/messaging/logbus"
	"sol-backend/pkg/observability"

	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memoryConfig() *config.Config {
	cfg := config.Defaults()
	cfg.StoreBackend = config.StoreMemory
	cfg.OpenAIAPIKey = "sk-test"
	return cfg
}

func TestProvideRecordStore(t *testing.T) {
	cfg := memoryConfig()

	store, err := ProvideRecordStore(cfg, nil, observability.NewTracer("test", false), zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, store.Ping(context.Background()))

	cfg.StoreBackend = "mongo"
	_, err = ProvideRecordStore(cfg, nil, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestProvideLLMProvider(t *testing.T) {
	cfg := memoryConfig()

	provider, err := ProvideLLMProvider(cfg, nil, nil, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &llm.OpenAIProvider{}, provider)

	cfg.LLMProvider = config.ProviderAnthropic
	cfg.AnthropicAPIKey = "sk-ant-test"
	cfg.LLMBreakerEnabled = true
	provider, err = ProvideLLMProvider(cfg, nil, nil, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &llm.BreakerProvider{}, provider)

	cfg.LLMProvider = "unknown"
	_, err = ProvideLLMProvider(cfg, nil, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestProvideEventPublisher(t *testing.T) {
	cfg := memoryConfig()

	assert.IsType(t, &logbus.Publisher{}, ProvideEventPublisher(cfg, nil, zap.NewNop()))

	cfg.EventBusName = "sol-events"
	assert.IsType(t, &eventbridge.Publisher{}, ProvideEventPublisher(cfg, &awseventbridge.Client{}, zap.NewNop()))
}

func TestProvideJWTValidator(t *testing.T) {
	cfg := memoryConfig()

	v, err := ProvideJWTValidator(cfg)
	require.NoError(t, err)
	assert.Nil(t, v)

	cfg.AuthEnabled = true
	cfg.JWTSecret = "secret"
	v, err = ProvideJWTValidator(cfg)
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestProvideServiceConfigs(t *testing.T) {
	cfg := memoryConfig()
	cfg.ChatInsightCap = 4
	cfg.DocumentInsightCap = 6
	cfg.EssenceMaxWords = 120

	assert.Equal(t, 4, ProvideChatConfig(cfg).InsightCap)
	assert.Equal(t, 6, ProvideAnalysisConfig(cfg).InsightCap)
	assert.Equal(t, 120, ProvideSynthesisConfig(cfg).EssenceMaxWords)
}

func TestProvideExtractionConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.ExtractionTemperature = 0.1
	cfg.ExtractionMaxTokens = 900
	cfg.ExtractionMinInsightLength = 20
	cfg.ExtractionMinGoalLength = 15
	cfg.ExtractionNoveltyThreshold = 0.6

	ec := ProvideExtractionConfig(cfg)

	assert.Equal(t, 0.1, ec.Temperature)
	assert.Equal(t, 900, ec.MaxTokens)
	assert.Equal(t, 20, ec.MinInsightLength)
	assert.Equal(t, 15, ec.MinGoalLength)
	assert.Equal(t, 0.6, ec.NoveltyThreshold)

	defaults := ProvideExtractionConfig(memoryConfig())
	assert.Equal(t, services.DefaultExtractionConfig(), defaults)
}

func TestInitializeContainer_Memory(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	cfg := memoryConfig()
	cfg.LogLevel = "error"

	container, err := InitializeContainer(context.Background(), cfg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	container.Router.Setup().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "openai", container.LLM.Name())
}
