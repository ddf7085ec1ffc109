package services

import (
	"context"
	"fmt"
	"strings"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	domainservices "sol-backend/domain/services"
	pkgerrors "sol-backend/pkg/errors"

	"go.uber.org/zap"
)

const businessPlanPromptTemplate = `A client shared their business plan:
"""
%s
"""

Reply with exactly these labeled lists and nothing else, one item per line inside the brackets:
EXECUTIVE_SUMMARY: [
two or three sentences
]
TARGET_MARKET: [
who the business serves
]
REVENUE_MODEL: [
how the business makes money
]
GOALS: [
concrete goals stated in the plan
]
TAGS: [
one or two word themes
]`

// BusinessPlanResult is the outcome of processing a business plan.
type BusinessPlanResult struct {
	Plan *entities.BusinessPlan `json:"plan"`
	documentInsights
}

// BusinessPlanService analyzes business plans.
type BusinessPlanService struct {
	plans      ports.BusinessPlanRepository
	profiles   ports.ProfileRepository
	extractor  *InsightExtractor
	aggregator *ContextAggregator
	llm        ports.LLMProvider
	config     AnalysisConfig
	logger     *zap.Logger
}

// NewBusinessPlanService creates a new business plan service
func NewBusinessPlanService(
	plans ports.BusinessPlanRepository,
	profiles ports.ProfileRepository,
	extractor *InsightExtractor,
	aggregator *ContextAggregator,
	llm ports.LLMProvider,
	config AnalysisConfig,
	logger *zap.Logger,
) *BusinessPlanService {
	return &BusinessPlanService{
		plans:      plans,
		profiles:   profiles,
		extractor:  extractor,
		aggregator: aggregator,
		llm:        llm,
		config:     config,
		logger:     logger,
	}
}

// HandleDocument implements DocumentHandler
func (s *BusinessPlanService) HandleDocument(ctx context.Context, email, filename, text string) (string, interface{}, error) {
	res, err := s.Process(ctx, email, filename, text)
	if err != nil {
		return "", nil, err
	}
	return res.Plan.ID, res, nil
}

// Process derives the plan fields, stores the plan and updates the profile.
func (s *BusinessPlanService) Process(ctx context.Context, email, filename, text string) (*BusinessPlanResult, error) {
	plan, err := entities.NewBusinessPlan(email, filename, strings.TrimSpace(text))
	if err != nil {
		return nil, asValidation(err)
	}
	prior := priorContext(ctx, s.aggregator, plan.UserEmail, s.logger)

	response, err := s.llm.Complete(ctx, fmt.Sprintf(businessPlanPromptTemplate, truncateRunes(plan.RawText, maxDocumentPromptRunes)), ports.CompletionOptions{
		System:      documentSystemPrompt,
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze business plan: %w", err)
	}

	lists, matched := domainservices.ParseBracketedLists(response, []domainservices.ListSpec{
		{Label: "EXECUTIVE_SUMMARY"},
		{Label: "TARGET_MARKET"},
		{Label: "REVENUE_MODEL"},
		{Label: "GOALS", MinLength: s.extractor.config.MinGoalLength},
		{Label: "TAGS", MinLength: 1, SplitCommas: true},
	})
	if matched == 0 {
		return nil, fmt.Errorf("failed to analyze business plan: %w", pkgerrors.ErrExtractionFailed)
	}

	plan.ExecutiveSummary = joinItems(lists["EXECUTIVE_SUMMARY"])
	plan.TargetMarket = joinItems(lists["TARGET_MARKET"])
	plan.RevenueModel = joinItems(lists["REVENUE_MODEL"])
	plan.Goals = lists["GOALS"]
	plan.Tags = entities.MergeTags(nil, lists["TAGS"])

	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save business plan: %w", err)
	}

	updateProfile(ctx, s.profiles, plan.UserEmail, s.logger, func(p *entities.Profile) {
		p.SetGoals(strings.Join(plan.Goals, "; "))
		p.AddTags(plan.Tags...)
	})

	s.logger.Info("Business plan processed",
		zap.String("email", plan.UserEmail),
		zap.String("plan_id", plan.ID),
		zap.Int("goals", len(plan.Goals)),
	)

	return &BusinessPlanResult{
		Plan: plan,
		documentInsights: extractDocumentInsights(ctx, s.extractor, plan.UserEmail, plan.RawText, prior,
			entities.SourceBusinessPlan, s.config.InsightCap, s.logger),
	}, nil
}
