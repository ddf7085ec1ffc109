package services

import (
	"context"
	"errors"
	"testing"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	pkgerrors "sol-backend/pkg/errors"
	"sol-backend/tests/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const chatMessage = "How do I find my first retainer clients?"

func TestChatService_Chat(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	ctx := context.Background()
	env.llm.On("Complete", mock.Anything, chatMessage, mock.Anything).Return("  Start with three past colleagues.  ", nil)
	env.expectExtraction(extractionResponse)
	env.expectSynthesis(essence)

	// Act
	reply, err := env.chat.Chat(ctx, "Test-User@example.com", chatMessage)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Start with three past colleagues.", reply.Reply)
	assert.NotEmpty(t, reply.MessageID)
	assert.Equal(t, entities.EstimateTokens(chatMessage)+entities.EstimateTokens(reply.Reply), reply.TokenEstimate)
	assert.Equal(t, DefaultChatInsightCap, reply.InsightsSaved)
	require.NotNil(t, reply.Synthesis)
	assert.True(t, reply.Synthesis.Ran)

	msgs, err := env.messages.Recent(ctx, fixtures.DefaultEmail, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, chatMessage, msgs[0].UserText)

	profile, err := env.profiles.GetByEmail(ctx, fixtures.DefaultEmail)
	require.NoError(t, err)
	assert.Equal(t, essence, profile.EssenceProfile)
	assert.Contains(t, profile.Tags, "pricing")

	opts := env.llm.Calls[0].Arguments.Get(2).(ports.CompletionOptions)
	assert.Contains(t, opts.System, "You are Sol")
}

func TestChatService_Chat_IncludesContext(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.profiles.Create(ctx, fixtures.NewProfileBuilder().WithName("Jane").WithVision("A calm studio").MustBuild()))
	env.llm.On("Complete", mock.Anything, chatMessage, mock.Anything).Return("Reply", nil)
	env.expectExtraction(extractionResponse)
	env.expectSynthesis(essence)

	_, err := env.chat.Chat(ctx, fixtures.DefaultEmail, chatMessage)
	require.NoError(t, err)

	opts := env.llm.Calls[0].Arguments.Get(2).(ports.CompletionOptions)
	assert.Contains(t, opts.System, "Vision: A calm studio")
}

func TestChatService_Chat_ExtractionFailureDoesNotFailTurn(t *testing.T) {
	env := newTestEnv(t)
	env.llm.On("Complete", mock.Anything, chatMessage, mock.Anything).Return("Reply", nil)
	env.expectExtraction("no labels here")

	reply, err := env.chat.Chat(context.Background(), fixtures.DefaultEmail, chatMessage)

	require.NoError(t, err)
	assert.Equal(t, "Reply", reply.Reply)
	assert.Zero(t, reply.InsightsSaved)
	require.NotNil(t, reply.Synthesis)
	assert.False(t, reply.Synthesis.Ran)
}

func TestChatService_Chat_LLMFailure(t *testing.T) {
	env := newTestEnv(t)
	env.llm.On("Complete", mock.Anything, chatMessage, mock.Anything).Return("", errors.New("rate limited"))

	_, err := env.chat.Chat(context.Background(), fixtures.DefaultEmail, chatMessage)

	require.Error(t, err)
	n, countErr := env.messages.Count(context.Background(), fixtures.DefaultEmail)
	require.NoError(t, countErr)
	assert.Zero(t, n)
}

func TestChatService_Chat_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.chat.Chat(context.Background(), "", chatMessage)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = env.chat.Chat(context.Background(), fixtures.DefaultEmail, "   ")
	assert.True(t, pkgerrors.IsValidation(err))
}
