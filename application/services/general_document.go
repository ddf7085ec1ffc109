package services

import (
	"context"
	"strings"

	"sol-backend/domain/core/entities"
	pkgerrors "sol-backend/pkg/errors"

	"go.uber.org/zap"
)

// GeneralDocumentResult is the outcome of reviewing an unclassified document.
type GeneralDocumentResult struct {
	Filename string `json:"filename"`
	*ExtractionResult
}

// GeneralDocumentHandler saves insights from documents that are neither
// visioning questionnaires nor business plans.
type GeneralDocumentHandler struct {
	aggregator *ContextAggregator
	extractor  *InsightExtractor
	config     AnalysisConfig
	logger     *zap.Logger
}

// NewGeneralDocumentHandler creates a new general document handler
func NewGeneralDocumentHandler(aggregator *ContextAggregator, extractor *InsightExtractor, config AnalysisConfig, logger *zap.Logger) *GeneralDocumentHandler {
	return &GeneralDocumentHandler{
		aggregator: aggregator,
		extractor:  extractor,
		config:     config,
		logger:     logger,
	}
}

// HandleDocument implements DocumentHandler. Extraction errors fail the request.
func (h *GeneralDocumentHandler) HandleDocument(ctx context.Context, email, filename, text string) (string, interface{}, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil, pkgerrors.NewValidationError("document has no text content").WithCause(pkgerrors.ErrEmptyDocument)
	}

	res, err := h.extractor.ExtractAndStore(ctx, email, ExtractionRequest{
		Text:           truncateRunes(text, maxDocumentPromptRunes),
		ContextSummary: priorContext(ctx, h.aggregator, email, h.logger),
		Source:         entities.SourceDocument,
	}, h.config.InsightCap)
	if err != nil {
		return "", nil, err
	}

	h.logger.Info("Document reviewed",
		zap.String("email", entities.NormalizeEmail(email)),
		zap.String("filename", filename),
		zap.Int("saved", len(res.Saved)),
	)
	return "", &GeneralDocumentResult{Filename: filename, ExtractionResult: res}, nil
}
