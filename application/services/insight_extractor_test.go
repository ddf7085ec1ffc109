package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	"sol-backend/domain/events"
	pkgerrors "sol-backend/pkg/errors"
	"sol-backend/tests/fixtures"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseExtraction(t *testing.T) {
	ext, err := ParseExtraction(extractionResponse, DefaultExtractionConfig())

	require.NoError(t, err)
	assert.Len(t, ext.Insights, 5)
	assert.Equal(t, "Prefers working early in the morning", ext.Insights[0])
	assert.Equal(t, []string{"focus", "pricing", "boundaries"}, ext.Tags)
	assert.Equal(t, []string{"Double monthly revenue by December"}, ext.Goals)
	assert.Equal(t, []string{"Saying no to scope creep"}, ext.Challenges)
}

func TestParseExtraction_DropsShortLinesAndMissingLabels(t *testing.T) {
	response := "insights: [\n1. ok\n2) Keeps a detailed weekly review\n]"

	ext, err := ParseExtraction(response, DefaultExtractionConfig())

	require.NoError(t, err)
	assert.Equal(t, []string{"Keeps a detailed weekly review"}, ext.Insights)
	assert.NotNil(t, ext.Tags)
	assert.Empty(t, ext.Tags)
	assert.Empty(t, ext.Goals)
}

func TestInsightExtractor_Extract_NoLabels(t *testing.T) {
	env := newTestEnv(t)
	env.expectExtraction("I could not find anything worth noting.")

	_, err := env.extractor.Extract(context.Background(), ExtractionRequest{Text: "hello there"})

	assert.ErrorIs(t, err, pkgerrors.ErrExtractionFailed)
}

func TestInsightExtractor_Extract_LLMError(t *testing.T) {
	env := newTestEnv(t)
	cause := errors.New("connection reset")
	env.llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", cause)

	_, err := env.extractor.Extract(context.Background(), ExtractionRequest{Text: "hello there"})

	assert.ErrorIs(t, err, pkgerrors.ErrExtractionFailed)
	assert.ErrorIs(t, err, cause)
}

func TestInsightExtractor_Extract_UsesLowTemperature(t *testing.T) {
	env := newTestEnv(t)
	env.expectExtraction(extractionResponse)

	_, err := env.extractor.Extract(context.Background(), ExtractionRequest{
		Text:           "I keep saying yes to every project.",
		ContextSummary: "## Profile\nName: Jane",
	})
	require.NoError(t, err)

	call := env.llm.Calls[0]
	opts := call.Arguments.Get(2).(ports.CompletionOptions)
	assert.Equal(t, 0.3, opts.Temperature)
	assert.Equal(t, 600, opts.MaxTokens)
	assert.Contains(t, call.Arguments.String(1), "Name: Jane")
	assert.Contains(t, call.Arguments.String(1), "I keep saying yes to every project.")
}

func TestInsightExtractor_ExtractAndStore_Cap(t *testing.T) {
	for _, limit := range []int{DefaultChatInsightCap, DefaultDocumentInsightCap, 1} {
		t.Run(fmt.Sprintf("cap %d", limit), func(t *testing.T) {
			// Arrange
			env := newTestEnv(t)
			env.expectExtraction(extractionResponse)
			ctx := context.Background()

			// Act
			res, err := env.extractor.ExtractAndStore(ctx, fixtures.DefaultEmail, ExtractionRequest{Text: "turn"}, limit)

			// Assert
			require.NoError(t, err)
			want := limit
			if want > 5 {
				want = 5
			}
			assert.Len(t, res.Saved, want)
			assert.Len(t, res.Insights, 5)

			n, err := env.insights.Count(ctx, fixtures.DefaultEmail)
			require.NoError(t, err)
			assert.Equal(t, want, n)

			published := env.publisher.OfType(events.TypeInsightsExtracted)
			require.Len(t, published, 1)
			assert.Len(t, published[0].(events.InsightsExtracted).InsightIDs, want)
		})
	}
}

func TestInsightExtractor_ExtractAndStore_FiltersKnownInsights(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	env.expectExtraction(extractionResponse)
	ctx := context.Background()
	require.NoError(t, env.insights.Create(ctx, fixtures.NewInsightBuilder().
		WithNote("prefers working EARLY in the morning!").MustBuild()))

	// Act
	res, err := env.extractor.ExtractAndStore(ctx, fixtures.DefaultEmail, ExtractionRequest{Text: "turn"}, 2)

	// Assert
	require.NoError(t, err)
	require.Len(t, res.Saved, 2)
	assert.Equal(t, "Struggles to say no to new client requests", res.Saved[0].Note)
	assert.Equal(t, "Wants to build a referral-based pipeline", res.Saved[1].Note)
	assert.Equal(t, []string{"focus", "pricing", "boundaries"}, res.Saved[0].Tags)
	assert.Equal(t, entities.SourceChat, res.Saved[0].Source)
	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.InsightsSaved.WithLabelValues("chat")))
}

func TestInsightExtractor_ExtractAndStore_MergesProfileTags(t *testing.T) {
	env := newTestEnv(t)
	env.expectExtraction(extractionResponse)
	ctx := context.Background()
	require.NoError(t, env.profiles.Create(ctx, fixtures.NewProfileBuilder().WithTags("Focus", "design").MustBuild()))

	_, err := env.extractor.ExtractAndStore(ctx, fixtures.DefaultEmail, ExtractionRequest{Text: "turn"}, 2)
	require.NoError(t, err)

	_, err = env.extractor.ExtractAndStore(ctx, fixtures.DefaultEmail, ExtractionRequest{Text: "turn"}, 2)
	require.NoError(t, err)

	profile, err := env.profiles.GetByEmail(ctx, fixtures.DefaultEmail)
	require.NoError(t, err)
	assert.Equal(t, []string{"focus", "design", "pricing", "boundaries"}, profile.Tags)
}

func TestInsightExtractor_ExtractAndStore_CreatesProfile(t *testing.T) {
	env := newTestEnv(t)
	env.expectExtraction(extractionResponse)
	ctx := context.Background()

	_, err := env.extractor.ExtractAndStore(ctx, "new@example.com", ExtractionRequest{Text: "turn"}, 2)
	require.NoError(t, err)

	profile, err := env.profiles.GetByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"focus", "pricing", "boundaries"}, profile.Tags)
}

func TestInsightExtractor_ExtractAndStore_SecondRunSavesOnlyNewInsights(t *testing.T) {
	env := newTestEnv(t)
	env.expectExtraction(extractionResponse)
	ctx := context.Background()

	first, err := env.extractor.ExtractAndStore(ctx, fixtures.DefaultEmail, ExtractionRequest{Text: "turn"}, DefaultDocumentInsightCap)
	require.NoError(t, err)
	assert.Len(t, first.Saved, 5)

	second, err := env.extractor.ExtractAndStore(ctx, fixtures.DefaultEmail, ExtractionRequest{Text: "turn"}, DefaultDocumentInsightCap)
	require.NoError(t, err)
	assert.Empty(t, second.Saved)
	assert.Len(t, env.publisher.OfType(events.TypeInsightsExtracted), 1)
}

func TestInsightExtractor_ExtractAndStore_ZeroCapSavesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.expectExtraction(extractionResponse)
	ctx := context.Background()

	res, err := env.extractor.ExtractAndStore(ctx, fixtures.DefaultEmail, ExtractionRequest{Text: "turn"}, 0)

	require.NoError(t, err)
	assert.Len(t, res.Insights, 5)
	assert.Empty(t, res.Saved)
	n, err := env.insights.Count(ctx, fixtures.DefaultEmail)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, env.publisher.OfType(events.TypeInsightsExtracted))
}

func TestInsightExtractor_ExtractAndStore_RequiresText(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.extractor.ExtractAndStore(context.Background(), fixtures.DefaultEmail, ExtractionRequest{Text: strings.Repeat(" ", 3)}, 2)

	assert.True(t, pkgerrors.IsValidation(err))
	env.llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}
