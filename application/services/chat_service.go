package services

import (
	"context"
	"fmt"
	"strings"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	pkgerrors "sol-backend/pkg/errors"

	"go.uber.org/zap"
)

const chatSystemPrompt = `You are Sol, a warm, direct business coach for independent founders.
Ask one focused question at a time, reflect back what you hear, and suggest small concrete next steps.
Use what you know about the client below; never invent facts about them.`

// ChatConfig bounds the coaching reply and the insights kept per turn.
type ChatConfig struct {
	Temperature float64
	MaxTokens   int
	InsightCap  int
}

// DefaultChatConfig returns the default chat settings
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		Temperature: 0.7,
		MaxTokens:   800,
		InsightCap:  DefaultChatInsightCap,
	}
}

// ChatReply is the outcome of one chat turn.
type ChatReply struct {
	Reply         string           `json:"reply"`
	MessageID     string           `json:"message_id"`
	TokenEstimate int              `json:"token_estimate"`
	InsightsSaved int              `json:"insights_saved"`
	Synthesis     *SynthesisResult `json:"synthesis,omitempty"`
}

// ChatService runs a chat turn: context, reply, log, insights, synthesis.
type ChatService struct {
	profiles    *ProfileService
	aggregator  *ContextAggregator
	extractor   *InsightExtractor
	synthesizer *ProfileSynthesizer
	messages    ports.MessageRepository
	llm         ports.LLMProvider
	config      ChatConfig
	logger      *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	profiles *ProfileService,
	aggregator *ContextAggregator,
	extractor *InsightExtractor,
	synthesizer *ProfileSynthesizer,
	messages ports.MessageRepository,
	llm ports.LLMProvider,
	config ChatConfig,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		profiles:    profiles,
		aggregator:  aggregator,
		extractor:   extractor,
		synthesizer: synthesizer,
		messages:    messages,
		llm:         llm,
		config:      config,
		logger:      logger,
	}
}

// Chat answers message for email. Only the reply and the message write can
// fail the turn; insight extraction and synthesis are logged and skipped on error.
func (s *ChatService) Chat(ctx context.Context, email, message string) (*ChatReply, error) {
	email = entities.NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, pkgerrors.NewValidationError("message is required")
	}

	if _, err := s.profiles.GetOrCreate(ctx, email); err != nil {
		return nil, err
	}

	uc, err := s.aggregator.Aggregate(ctx, email)
	if err != nil {
		return nil, err
	}
	summary := uc.Summary()

	system := chatSystemPrompt
	if summary != "" {
		system += "\n\nWhat you know about this client:\n" + summary
	}

	reply, err := s.llm.Complete(ctx, message, ports.CompletionOptions{
		System:      system,
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get coaching reply: %w", err)
	}
	reply = strings.TrimSpace(reply)

	msg, err := entities.NewMessage(email, message, reply)
	if err != nil {
		return nil, err
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	out := &ChatReply{
		Reply:         reply,
		MessageID:     msg.ID,
		TokenEstimate: msg.TokenEstimate,
	}

	extraction, err := s.extractor.ExtractAndStore(ctx, email, ExtractionRequest{
		Text:           fmt.Sprintf("User: %s\nSol: %s", message, reply),
		ContextSummary: summary,
		Source:         entities.SourceChat,
	}, s.config.InsightCap)
	if err != nil {
		s.logger.Warn("Insight extraction failed", zap.String("email", email), zap.Error(err))
	}
	if extraction != nil {
		out.InsightsSaved = len(extraction.Saved)
	}

	synthesis, err := s.synthesizer.SynthesizeIfDue(ctx, email, false)
	if err != nil {
		s.logger.Warn("Profile synthesis failed", zap.String("email", email), zap.Error(err))
	} else {
		out.Synthesis = synthesis
	}

	return out, nil
}
