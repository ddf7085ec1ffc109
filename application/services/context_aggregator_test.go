package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	"sol-backend/infrastructure/persistence/memory"
	"sol-backend/tests/fixtures"
	"sol-backend/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, env *testEnv, messages int) time.Time {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	profile := fixtures.NewProfileBuilder().WithName("Jane").WithVision("A calm studio").WithTags("design").MustBuild()
	require.NoError(t, env.profiles.Create(ctx, profile))

	for i := 0; i < messages; i++ {
		msg := fixtures.NewMessageBuilder().
			WithText(fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i)).
			CreatedAt(base.Add(time.Duration(i) * time.Hour)).
			MustBuild()
		require.NoError(t, env.messages.Append(ctx, msg))
	}

	require.NoError(t, env.insights.Create(ctx, fixtures.NewInsightBuilder().
		WithNote("Prefers deep work before noon").CreatedAt(base).MustBuild()))
	require.NoError(t, env.insights.Create(ctx, fixtures.NewInsightBuilder().
		WithNote("Wants a studio of ten people").WithSource(entities.SourceVisioning).CreatedAt(base.Add(time.Minute)).MustBuild()))

	doc, err := entities.NewVisioningDocument(fixtures.DefaultEmail, "vision.md", "## Vision\nA calm studio")
	require.NoError(t, err)
	doc.MarkProcessed("Designer building a studio", "A calm studio", nil, base)
	require.NoError(t, env.visioning.Create(ctx, doc))

	plan, err := entities.NewBusinessPlan(fixtures.DefaultEmail, "plan.txt", "Executive summary ...")
	require.NoError(t, err)
	plan.ExecutiveSummary = "Retainer-based brand design for small shops"
	require.NoError(t, env.plans.Create(ctx, plan))

	return base
}

func TestContextAggregator_Aggregate(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	base := seedUser(t, env, 12)

	// Act
	uc, err := env.aggregator.Aggregate(context.Background(), "  Test-User@Example.com ")

	// Assert
	require.NoError(t, err)
	assert.Empty(t, uc.Degraded)
	require.NotNil(t, uc.Profile)
	assert.Equal(t, "Jane", uc.Profile.Name)
	require.Len(t, uc.RecentMessages, RecentMessageLimit)
	assert.Equal(t, "question 11", uc.RecentMessages[0].UserText)
	assert.Equal(t, 12, uc.MessageCount)
	assert.Equal(t, 2, uc.InsightCount)
	require.NotNil(t, uc.MemberSince)
	assert.True(t, base.Equal(*uc.MemberSince))
	assert.Len(t, uc.RecentInsights, 2)
	require.Len(t, uc.DocumentInsights, 1)
	assert.Equal(t, entities.SourceVisioning, uc.DocumentInsights[0].Source)
	assert.Len(t, uc.VisioningDocuments, 1)
	assert.Len(t, uc.BusinessPlans, 1)

	summary := uc.Summary()
	assert.Contains(t, summary, "## Profile\nName: Jane")
	assert.Contains(t, summary, "Messages exchanged: 12")
	assert.Contains(t, summary, "Member since: 2026-01-05")
	assert.Contains(t, summary, "- Wants a studio of ten people")
	assert.Contains(t, summary, "- Designer building a studio")
	assert.Contains(t, summary, "- Retainer-based brand design for small shops")
	assert.Less(t, strings.Index(summary, "User: question 2"), strings.Index(summary, "User: question 11"))
	assert.NotContains(t, summary, "User: question 1\n")
	assert.Equal(t, 1, strings.Count(summary, "Wants a studio of ten people"))
}

func TestContextAggregator_DegradesFailedSlices(t *testing.T) {
	// Arrange
	inner := memory.NewRecordStore()
	seedUser(t, newTestEnvWithStore(t, inner), 3)
	failing := mocks.NewFailingStore(inner, ports.TableInsights, ports.TableVisioningDocs)
	env := newTestEnvWithStore(t, failing)

	// Act
	uc, err := env.aggregator.Aggregate(context.Background(), fixtures.DefaultEmail)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		SliceDocumentInsights,
		SliceInsightCount,
		SliceRecentInsights,
		SliceVisioning,
	}, uc.Degraded)
	assert.True(t, uc.HasDegraded())
	assert.True(t, uc.IsDegraded(SliceRecentInsights))
	assert.False(t, uc.IsDegraded(SliceProfile))
	assert.NotNil(t, uc.Profile)
	assert.Len(t, uc.RecentMessages, 3)
	assert.Empty(t, uc.RecentInsights)
	assert.NotNil(t, uc.RecentInsights)
	assert.Zero(t, uc.InsightCount)
	assert.Contains(t, uc.Summary(), "## Recent conversation")
}

func TestContextAggregator_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	uc, err := env.aggregator.Aggregate(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Nil(t, uc.Profile)
	assert.Empty(t, uc.Degraded)
	assert.False(t, uc.HasDegraded())
	assert.Empty(t, uc.Summary())
}

func TestContextAggregator_RequiresEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.aggregator.Aggregate(context.Background(), "  ")

	assert.Error(t, err)
}

func TestUserContext_SummaryTruncatesLongText(t *testing.T) {
	uc := &UserContext{
		RecentMessages: []*entities.Message{{UserText: strings.Repeat("a", 400), AssistantText: "ok"}},
		MessageCount:   1,
	}

	summary := uc.Summary()

	assert.Contains(t, summary, "User: "+strings.Repeat("a", summaryTextLimit)+"…")
	assert.NotContains(t, summary, strings.Repeat("a", summaryTextLimit+1))
	assert.Contains(t, summary, "Sol: ok")
}
