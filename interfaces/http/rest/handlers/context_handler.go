package handlers

import (
	"net/http"

	"sol-backend/application/services"
	"sol-backend/pkg/common"
)

// ContextHandler exposes the aggregated user context
type ContextHandler struct {
	Base
	aggregator *services.ContextAggregator
}

// NewContextHandler creates a new context handler
func NewContextHandler(base Base, aggregator *services.ContextAggregator) *ContextHandler {
	return &ContextHandler{Base: base, aggregator: aggregator}
}

// ContextResponse is the aggregated context plus its prompt rendering.
// Degraded names the slices that failed to load.
type ContextResponse struct {
	Context  *services.UserContext `json:"context"`
	Summary  string                `json:"summary"`
	Degraded []string              `json:"degraded"`
}

// GetContext handles GET /api/v1/context?email=
func (h *ContextHandler) GetContext(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to load user context"

	email, err := queryEmail(r)
	if err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	if err := h.authorize(r, email); err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}

	uc, err := h.aggregator.Aggregate(r.Context(), email)
	if err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}

	common.RespondJSON(w, http.StatusOK, ContextResponse{
		Context:  uc,
		Summary:  uc.Summary(),
		Degraded: degradedSlices(uc),
	})
}

func degradedSlices(uc *services.UserContext) []string {
	if !uc.HasDegraded() {
		return []string{}
	}
	return uc.Degraded
}
