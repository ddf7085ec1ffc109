package services

import (
	"strings"
	"testing"

	"sol-backend/application/ports"
	domainservices "sol-backend/domain/services"
	"sol-backend/infrastructure/persistence/memory"
	"sol-backend/infrastructure/persistence/records"
	"sol-backend/pkg/observability"
	"sol-backend/tests/mocks"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const extractionResponse = `INSIGHTS: [
- Prefers working early in the morning
- Struggles to say no to new client requests
- Wants to build a referral-based pipeline
- Feels energized after teaching workshops
- Tends to underprice custom illustration work
]
TAGS: [Focus, pricing, Boundaries]
GOALS: [
- Double monthly revenue by December
]
CHALLENGES: [
- Saying no to scope creep
]`

type testEnv struct {
	store     ports.RecordStore
	profiles  *records.ProfileRepository
	messages  *records.MessageRepository
	insights  *records.InsightRepository
	visioning *records.VisioningRepository
	plans     *records.BusinessPlanRepository

	llm       *mocks.MockLLMProvider
	publisher *mocks.MockEventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger

	profileService *ProfileService
	aggregator     *ContextAggregator
	extractor      *InsightExtractor
	synthesizer    *ProfileSynthesizer
	visioningSvc   *VisioningService
	planSvc        *BusinessPlanService
	general        *GeneralDocumentHandler
	router         *DocumentRouter
	chat           *ChatService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithStore(t, memory.NewRecordStore())
}

func newTestEnvWithStore(t *testing.T, store ports.RecordStore) *testEnv {
	t.Helper()

	env := &testEnv{
		store:     store,
		profiles:  records.NewProfileRepository(store),
		messages:  records.NewMessageRepository(store),
		insights:  records.NewInsightRepository(store),
		visioning: records.NewVisioningRepository(store),
		plans:     records.NewBusinessPlanRepository(store),
		llm:       &mocks.MockLLMProvider{},
		publisher: mocks.NewMockEventPublisher(),
		metrics:   observability.NewCollector("test"),
		logger:    zap.NewNop(),
	}

	env.profileService = NewProfileService(env.profiles, env.logger)
	env.aggregator = NewContextAggregator(env.profiles, env.messages, env.insights, env.visioning, env.plans, env.metrics, env.logger)
	env.extractor = NewInsightExtractor(env.llm, env.insights, env.profiles, env.publisher, DefaultExtractionConfig(), env.metrics, env.logger)
	env.synthesizer = NewProfileSynthesizer(env.profiles, env.insights, env.llm, env.publisher, DefaultSynthesisConfig(), env.metrics, env.logger)
	env.visioningSvc = NewVisioningService(env.visioning, env.profiles, env.extractor, env.aggregator, env.llm, DefaultAnalysisConfig(), env.logger)
	env.planSvc = NewBusinessPlanService(env.plans, env.profiles, env.extractor, env.aggregator, env.llm, DefaultAnalysisConfig(), env.logger)
	env.general = NewGeneralDocumentHandler(env.aggregator, env.extractor, DefaultAnalysisConfig(), env.logger)
	env.router = NewDocumentRouter(domainservices.NewDocumentClassifier(), env.visioningSvc, env.planSvc, env.general, env.publisher, env.metrics, env.logger)
	env.chat = NewChatService(env.profileService, env.aggregator, env.extractor, env.synthesizer, env.messages, env.llm, DefaultChatConfig(), env.logger)

	return env
}

// promptContaining matches a Complete call whose prompt contains fragment.
func promptContaining(fragment string) interface{} {
	return mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, fragment)
	})
}

// expectExtraction makes every extraction prompt return response.
func (e *testEnv) expectExtraction(response string) {
	e.llm.On("Complete", mock.Anything, promptContaining("New material"), mock.Anything).Return(response, nil)
}

// extractionPrompt returns the prompt of the first extraction call, or "".
func (e *testEnv) extractionPrompt() string {
	for _, call := range e.llm.Calls {
		if prompt := call.Arguments.String(1); strings.Contains(prompt, "New material") {
			return prompt
		}
	}
	return ""
}
