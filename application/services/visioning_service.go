package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	domainservices "sol-backend/domain/services"
	pkgerrors "sol-backend/pkg/errors"

	"go.uber.org/zap"
)

const visioningPromptTemplate = `A client filled in a visioning questionnaire about their business. Their answers, by section:

%s

Reply with exactly these labeled lists and nothing else, one item per line inside the brackets:
SUMMARY: [
two or three sentences summarizing who the client is and where they want to go
]
VISION: [
the client's vision in their own terms, one or two sentences
]
TAGS: [
one or two word themes
]`

// VisioningResult is the outcome of processing a visioning document.
type VisioningResult struct {
	Document *entities.VisioningDocument `json:"document"`
	Sections []string                    `json:"sections"`
	documentInsights
}

// VisioningService analyzes visioning questionnaires.
type VisioningService struct {
	docs       ports.VisioningRepository
	profiles   ports.ProfileRepository
	extractor  *InsightExtractor
	aggregator *ContextAggregator
	llm        ports.LLMProvider
	config     AnalysisConfig
	logger     *zap.Logger
}

// NewVisioningService creates a new visioning service
func NewVisioningService(
	docs ports.VisioningRepository,
	profiles ports.ProfileRepository,
	extractor *InsightExtractor,
	aggregator *ContextAggregator,
	llm ports.LLMProvider,
	config AnalysisConfig,
	logger *zap.Logger,
) *VisioningService {
	return &VisioningService{
		docs:       docs,
		profiles:   profiles,
		extractor:  extractor,
		aggregator: aggregator,
		llm:        llm,
		config:     config,
		logger:     logger,
	}
}

// HandleDocument implements DocumentHandler
func (s *VisioningService) HandleDocument(ctx context.Context, email, filename, text string) (string, interface{}, error) {
	res, err := s.Process(ctx, email, filename, text)
	if err != nil {
		return "", nil, err
	}
	return res.Document.ID, res, nil
}

// Process stores a new visioning document and analyzes it.
func (s *VisioningService) Process(ctx context.Context, email, filename, text string) (*VisioningResult, error) {
	doc, err := entities.NewVisioningDocument(email, filename, strings.TrimSpace(text))
	if err != nil {
		return nil, asValidation(err)
	}
	prior := priorContext(ctx, s.aggregator, doc.UserEmail, s.logger)
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save visioning document: %w", err)
	}
	return s.analyze(ctx, doc, prior)
}

// Reprocess analyzes a stored document again. A document owned by another
// user is reported as not found.
func (s *VisioningService) Reprocess(ctx context.Context, email, id string) (*VisioningResult, error) {
	email = entities.NormalizeEmail(email)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email is required")
	}

	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, pkgerrors.NewNotFoundError("visioning document").WithCause(err)
		}
		return nil, fmt.Errorf("failed to get visioning document: %w", err)
	}
	if doc.UserEmail != email {
		return nil, pkgerrors.NewNotFoundError("visioning document")
	}
	return s.analyze(ctx, doc, priorContext(ctx, s.aggregator, email, s.logger))
}

// analyze runs the section analysis and then insight extraction against prior,
// the user's context as it stood before this document.
func (s *VisioningService) analyze(ctx context.Context, doc *entities.VisioningDocument, prior string) (*VisioningResult, error) {
	parsed := domainservices.ParseVisioning(doc.RawText)
	doc.Sections = parsed.Sections

	response, err := s.llm.Complete(ctx, fmt.Sprintf(visioningPromptTemplate, renderSections(parsed)), ports.CompletionOptions{
		System:      documentSystemPrompt,
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze visioning document: %w", err)
	}

	lists, _ := domainservices.ParseBracketedLists(response, []domainservices.ListSpec{
		{Label: "SUMMARY"},
		{Label: "VISION"},
		{Label: "TAGS", MinLength: 1, SplitCommas: true},
	})
	summary := joinItems(lists["SUMMARY"])
	vision := joinItems(lists["VISION"])
	if vision == "" {
		vision = parsed.Get(domainservices.SectionVision)
	}

	doc.MarkProcessed(summary, vision, lists["TAGS"], time.Now())
	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to update visioning document: %w", err)
	}

	updateProfile(ctx, s.profiles, doc.UserEmail, s.logger, func(p *entities.Profile) {
		p.SetVision(vision)
		p.SetGoals(parsed.Get(domainservices.SectionGoals))
		if state := strings.TrimSpace(parsed.Get(domainservices.SectionCurrentState)); state != "" {
			p.CurrentState = state
		}
		p.AddTags(doc.Tags...)
	})

	s.logger.Info("Visioning document processed",
		zap.String("email", doc.UserEmail),
		zap.String("document_id", doc.ID),
		zap.Int("sections", len(parsed.Order)),
	)

	return &VisioningResult{
		Document: doc,
		Sections: parsed.Order,
		documentInsights: extractDocumentInsights(ctx, s.extractor, doc.UserEmail, doc.RawText, prior,
			entities.SourceVisioning, s.config.InsightCap, s.logger),
	}, nil
}

func renderSections(parsed domainservices.VisioningSections) string {
	var sb strings.Builder
	for _, key := range parsed.Order {
		fmt.Fprintf(&sb, "[%s]\n%s\n\n", key, truncateRunes(parsed.Sections[key], maxDocumentPromptRunes/4))
	}
	return strings.TrimSpace(sb.String())
}

// asValidation turns entity construction errors into validation errors.
func asValidation(err error) error {
	if pkgerrors.Is(err, pkgerrors.ErrEmptyDocument) {
		return pkgerrors.NewValidationError("document has no text content").WithCause(err)
	}
	return err
}
