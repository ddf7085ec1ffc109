package handlers

import (
	"net/http"

	"sol-backend/application/ports"
	"sol-backend/application/services"
	"sol-backend/domain/core/entities"
	"sol-backend/pkg/common"
)

const (
	defaultInsightListLimit = 20
	maxInsightListLimit     = 200
)

// InsightHandler handles insight extraction and listing
type InsightHandler struct {
	Base
	extractor  *services.InsightExtractor
	aggregator *services.ContextAggregator
	insights   ports.InsightRepository
	insightCap int
}

// NewInsightHandler creates a new insight handler. insightCap bounds persisted insights per request.
func NewInsightHandler(base Base, extractor *services.InsightExtractor, aggregator *services.ContextAggregator, insights ports.InsightRepository, insightCap int) *InsightHandler {
	return &InsightHandler{
		Base:       base,
		extractor:  extractor,
		aggregator: aggregator,
		insights:   insights,
		insightCap: insightCap,
	}
}

// ExtractRequest represents the request body for an extraction
type ExtractRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Text    string `json:"text" validate:"required"`
	Source  string `json:"source,omitempty" validate:"omitempty,oneof=chat visioning business-plan document"`
	Persist bool   `json:"persist,omitempty"`
}

// Extract handles POST /api/v1/insights/extract
func (h *InsightHandler) Extract(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to extract insights"

	var req ExtractRequest
	if err := h.decode(r, &req); err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	if err := h.authorize(r, req.Email); err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}

	source := entities.InsightSource(req.Source)
	if source == "" {
		source = entities.SourceDocument
	}

	var summary string
	if uc, err := h.aggregator.Aggregate(r.Context(), req.Email); err == nil {
		summary = uc.Summary()
	}
	extraction := services.ExtractionRequest{Text: req.Text, ContextSummary: summary, Source: source}

	if !req.Persist {
		res, err := h.extractor.Extract(r.Context(), extraction)
		if err != nil {
			h.errors.Handle(w, r, err, failure)
			return
		}
		common.RespondJSON(w, http.StatusOK, &services.ExtractionResult{
			Extraction: *res,
			Saved:      []*entities.InsightEntry{},
		})
		return
	}

	res, err := h.extractor.ExtractAndStore(r.Context(), req.Email, extraction, h.insightCap)
	if err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	common.RespondJSON(w, http.StatusOK, res)
}

// List handles GET /api/v1/insights?email=&limit=&source=
func (h *InsightHandler) List(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to list insights"

	email, err := queryEmail(r)
	if err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	if err := h.authorize(r, email); err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	limit, err := queryLimit(r, defaultInsightListLimit, maxInsightListLimit)
	if err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}

	source, err := querySource(r)
	if err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}

	var insights []*entities.InsightEntry
	if source == "" {
		insights, err = h.insights.Recent(r.Context(), email, limit)
	} else {
		insights, err = h.insights.RecentBySource(r.Context(), email, source, limit)
	}
	if err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	if insights == nil {
		insights = []*entities.InsightEntry{}
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"insights": insights})
}
