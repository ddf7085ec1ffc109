package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	"sol-backend/domain/events"
	domainservices "sol-backend/domain/services"
	pkgerrors "sol-backend/pkg/errors"
	"sol-backend/pkg/observability"

	"go.uber.org/zap"
)

// Labels of the bracketed lists the extraction prompt asks for.
const (
	LabelInsights   = "INSIGHTS"
	LabelTags       = "TAGS"
	LabelGoals      = "GOALS"
	LabelChallenges = "CHALLENGES"
)

// Per-invocation caps on persisted insights.
const (
	DefaultChatInsightCap     = 2
	DefaultDocumentInsightCap = 8
)

const extractionSystemPrompt = "You are Sol, a warm and practical business coach. You read material about a client and note what is worth remembering about them."

const extractionPromptTemplate = `Known context about the client:
%s

New material (%s):
"""
%s
"""

Reply with exactly these four labeled lists and nothing else. Put one item per line inside the brackets and leave a list empty when there is nothing new.

INSIGHTS: [
short observations about the client's behavior, motivations or situation that are not already known
]
TAGS: [
one or two word themes
]
GOALS: [
goals the client states or implies
]
CHALLENGES: [
obstacles the client is facing
]`

// ExtractionConfig bounds the extraction call and its filters.
type ExtractionConfig struct {
	Temperature      float64
	MaxTokens        int
	MinInsightLength int
	MinGoalLength    int
	NoveltyThreshold float64
}

// DefaultExtractionConfig returns the default extraction settings
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		Temperature:      0.3,
		MaxTokens:        600,
		MinInsightLength: 10,
		MinGoalLength:    10,
		NoveltyThreshold: domainservices.DefaultNoveltyThreshold,
	}
}

// ExtractionRequest is the material to analyze.
type ExtractionRequest struct {
	Text           string
	ContextSummary string
	Source         entities.InsightSource
}

// Extraction holds the parsed lists. Every list is non-nil.
type Extraction struct {
	Insights   []string `json:"insights"`
	Tags       []string `json:"tags"`
	Goals      []string `json:"goals"`
	Challenges []string `json:"challenges"`
}

// ExtractionResult is an extraction plus the insights that were persisted.
type ExtractionResult struct {
	Extraction
	Saved []*entities.InsightEntry `json:"saved"`
}

// InsightExtractor asks the LLM for insights about a user and stores the novel ones.
type InsightExtractor struct {
	llm       ports.LLMProvider
	insights  ports.InsightRepository
	profiles  ports.ProfileRepository
	publisher ports.EventPublisher
	novelty   *domainservices.NoveltyFilter
	config    ExtractionConfig
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewInsightExtractor creates a new insight extractor
func NewInsightExtractor(
	llm ports.LLMProvider,
	insights ports.InsightRepository,
	profiles ports.ProfileRepository,
	publisher ports.EventPublisher,
	config ExtractionConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *InsightExtractor {
	return &InsightExtractor{
		llm:       llm,
		insights:  insights,
		profiles:  profiles,
		publisher: publisher,
		novelty:   domainservices.NewNoveltyFilter(domainservices.NewDefaultTextAnalyzer(), config.NoveltyThreshold),
		config:    config,
		metrics:   metrics,
		logger:    logger,
	}
}

// Extract runs the prompt and parses the response. LLM errors and responses
// without any expected label are reported as ErrExtractionFailed.
func (e *InsightExtractor) Extract(ctx context.Context, req ExtractionRequest) (*Extraction, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, pkgerrors.NewValidationError("text is required")
	}
	if req.Source == "" {
		req.Source = entities.SourceChat
	}

	summary := strings.TrimSpace(req.ContextSummary)
	if summary == "" {
		summary = "(nothing yet)"
	}
	prompt := fmt.Sprintf(extractionPromptTemplate, summary, req.Source, strings.TrimSpace(req.Text))

	response, err := e.llm.Complete(ctx, prompt, ports.CompletionOptions{
		System:      extractionSystemPrompt,
		Temperature: e.config.Temperature,
		MaxTokens:   e.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pkgerrors.ErrExtractionFailed, err)
	}

	return e.Parse(response)
}

// Parse extracts the four lists from a raw LLM response.
func (e *InsightExtractor) Parse(response string) (*Extraction, error) {
	return ParseExtraction(response, e.config)
}

// ParseExtraction extracts the four lists from a raw LLM response using cfg's minimum lengths.
func ParseExtraction(response string, cfg ExtractionConfig) (*Extraction, error) {
	lists, matched := domainservices.ParseBracketedLists(response, []domainservices.ListSpec{
		{Label: LabelInsights, MinLength: cfg.MinInsightLength},
		{Label: LabelTags, MinLength: 1, SplitCommas: true},
		{Label: LabelGoals, MinLength: cfg.MinGoalLength},
		{Label: LabelChallenges, MinLength: cfg.MinGoalLength},
	})
	if matched == 0 {
		return nil, fmt.Errorf("%w: response contained no labeled lists", pkgerrors.ErrExtractionFailed)
	}

	return &Extraction{
		Insights:   lists[LabelInsights],
		Tags:       entities.MergeTags(nil, lists[LabelTags]),
		Goals:      lists[LabelGoals],
		Challenges: lists[LabelChallenges],
	}, nil
}

// ExtractAndStore extracts insights, drops the ones the user already has,
// persists at most limit of the rest, and merges the tags into the profile.
// A limit <= 0 saves nothing.
func (e *InsightExtractor) ExtractAndStore(ctx context.Context, email string, req ExtractionRequest, limit int) (*ExtractionResult, error) {
	email = entities.NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email is required")
	}
	if req.Source == "" {
		req.Source = entities.SourceChat
	}

	extraction, err := e.Extract(ctx, req)
	if err != nil {
		return nil, err
	}
	result := &ExtractionResult{Extraction: *extraction, Saved: []*entities.InsightEntry{}}

	existing, err := e.insights.Recent(ctx, email, 0)
	if err != nil {
		return result, fmt.Errorf("failed to load existing insights: %w", err)
	}
	known := make([]string, 0, len(existing))
	for _, in := range existing {
		known = append(known, in.Note)
	}

	candidates := e.novelty.Filter(extraction.Insights, known)
	switch {
	case limit <= 0:
		candidates = nil
	case len(candidates) > limit:
		candidates = candidates[:limit]
	}

	ids := make([]string, 0, len(candidates))
	for _, note := range candidates {
		entry, err := entities.NewInsightEntry(email, note, extraction.Tags, req.Source)
		if err != nil {
			return result, err
		}
		if err := e.insights.Create(ctx, entry); err != nil {
			return result, fmt.Errorf("failed to save insight: %w", err)
		}
		result.Saved = append(result.Saved, entry)
		ids = append(ids, entry.ID)
	}
	if e.metrics != nil && len(result.Saved) > 0 {
		e.metrics.InsightsSaved.WithLabelValues(string(req.Source)).Add(float64(len(result.Saved)))
	}

	if len(extraction.Tags) > 0 {
		e.mergeProfileTags(ctx, email, extraction.Tags)
	}

	e.logger.Info("Insights extracted",
		zap.String("email", email),
		zap.String("source", string(req.Source)),
		zap.Int("candidates", len(extraction.Insights)),
		zap.Int("saved", len(result.Saved)),
	)

	if len(ids) > 0 {
		event := events.NewInsightsExtracted(email, string(req.Source), ids, extraction.Tags, time.Now())
		if err := e.publisher.Publish(ctx, event); err != nil {
			e.logger.Warn("Failed to publish event", zap.String("eventType", event.GetEventType()), zap.Error(err))
		}
	}

	return result, nil
}

// mergeProfileTags is best-effort: the insights are already saved.
func (e *InsightExtractor) mergeProfileTags(ctx context.Context, email string, tags []string) {
	profile, err := getOrCreateProfile(ctx, e.profiles, email, e.logger)
	if err != nil {
		e.logger.Warn("Failed to load profile for tag merge", zap.String("email", email), zap.Error(err))
		return
	}
	if !profile.AddTags(tags...) {
		return
	}
	if err := e.profiles.Update(ctx, profile); err != nil {
		e.logger.Warn("Failed to merge profile tags", zap.String("email", email), zap.Error(err))
	}
}
