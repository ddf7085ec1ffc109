package services

import (
	"context"
	"strings"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"

	"go.uber.org/zap"
)

// maxDocumentPromptRunes bounds the document text placed in a single prompt.
const maxDocumentPromptRunes = 12000

const documentSystemPrompt = "You are Sol, a business coach. You read documents your clients share and pull out what matters."

// AnalysisConfig bounds the document analysis calls.
type AnalysisConfig struct {
	Temperature float64
	MaxTokens   int
	InsightCap  int
}

// DefaultAnalysisConfig returns the default document analysis settings
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Temperature: 0.4,
		MaxTokens:   700,
		InsightCap:  DefaultDocumentInsightCap,
	}
}

// documentInsights holds the outcome of the extraction step of a document flow.
type documentInsights struct {
	InsightsSaved int    `json:"insights_saved"`
	InsightError  string `json:"insight_error,omitempty"`
}

// priorContext renders what was known about the user before this document.
// Aggregation never fails on a valid email; an empty result just means no context.
func priorContext(ctx context.Context, aggregator *ContextAggregator, email string, logger *zap.Logger) string {
	if aggregator == nil {
		return ""
	}
	uc, err := aggregator.Aggregate(ctx, email)
	if err != nil {
		logger.Debug("No prior context for document", zap.String("email", email), zap.Error(err))
		return ""
	}
	return uc.Summary()
}

// extractDocumentInsights runs the extractor for a processed document. The
// document is already stored, so a failure is reported rather than returned.
func extractDocumentInsights(ctx context.Context, extractor *InsightExtractor, email, text, prior string, source entities.InsightSource, limit int, logger *zap.Logger) documentInsights {
	res, err := extractor.ExtractAndStore(ctx, email, ExtractionRequest{
		Text:           truncateRunes(text, maxDocumentPromptRunes),
		ContextSummary: prior,
		Source:         source,
	}, limit)

	var out documentInsights
	if res != nil {
		out.InsightsSaved = len(res.Saved)
	}
	if err != nil {
		logger.Warn("Document insight extraction failed",
			zap.String("email", email),
			zap.String("source", string(source)),
			zap.Error(err))
		out.InsightError = err.Error()
	}
	return out
}

// updateProfile applies fn to the user's profile and saves it. Failures are logged.
func updateProfile(ctx context.Context, repo ports.ProfileRepository, email string, logger *zap.Logger, fn func(p *entities.Profile)) {
	profile, err := getOrCreateProfile(ctx, repo, email, logger)
	if err != nil {
		logger.Warn("Failed to load profile", zap.String("email", email), zap.Error(err))
		return
	}
	fn(profile)
	if err := repo.Update(ctx, profile); err != nil {
		logger.Warn("Failed to update profile", zap.String("email", email), zap.Error(err))
	}
}

// joinItems joins list items into a single paragraph.
func joinItems(items []string) string {
	return strings.TrimSpace(strings.Join(items, " "))
}
