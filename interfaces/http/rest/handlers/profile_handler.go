package handlers

import (
	"net/http"

	"sol-backend/application/services"
	"sol-backend/pkg/common"
)

// ProfileHandler exposes profiles and on-demand synthesis
type ProfileHandler struct {
	Base
	profiles    *services.ProfileService
	synthesizer *services.ProfileSynthesizer
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(base Base, profiles *services.ProfileService, synthesizer *services.ProfileSynthesizer) *ProfileHandler {
	return &ProfileHandler{Base: base, profiles: profiles, synthesizer: synthesizer}
}

// SynthesizeRequest asks for a synthesis check, optionally forced
type SynthesizeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Force bool   `json:"force,omitempty"`
}

// GetProfile handles GET /api/v1/profile?email=
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to load profile"

	email, err := queryEmail(r)
	if err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	if err := h.authorize(r, email); err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}

	profile, err := h.profiles.Get(r.Context(), email)
	if err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	common.RespondJSON(w, http.StatusOK, profile)
}

// Synthesize handles POST /api/v1/profile/synthesize
func (h *ProfileHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to synthesize profile"

	var req SynthesizeRequest
	if err := h.decode(r, &req); err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	if err := h.authorize(r, req.Email); err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}

	res, err := h.synthesizer.SynthesizeIfDue(r.Context(), req.Email, req.Force)
	if err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	common.RespondJSON(w, http.StatusOK, res)
}
