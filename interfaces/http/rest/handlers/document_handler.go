package handlers

import (
	"net/http"

	"sol-backend/application/services"
	"sol-backend/pkg/common"

	"github.com/go-chi/chi/v5"
)

// DocumentHandler handles document uploads and visioning reprocessing
type DocumentHandler struct {
	Base
	router    *services.DocumentRouter
	visioning *services.VisioningService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(base Base, router *services.DocumentRouter, visioning *services.VisioningService) *DocumentHandler {
	return &DocumentHandler{Base: base, router: router, visioning: visioning}
}

// UploadDocumentRequest represents an uploaded document
type UploadDocumentRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Filename      string `json:"filename" validate:"required,max=255"`
	Text          string `json:"text,omitempty" validate:"required_without=ContentBase64"`
	ContentBase64 string `json:"content_base64,omitempty" validate:"omitempty,base64"`
}

// ClassifyRequest represents a classification-only request
type ClassifyRequest struct {
	Filename string `json:"filename"`
	Text     string `json:"text" validate:"required"`
}

// ReprocessRequest identifies the owner of the document to reprocess
type ReprocessRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Upload handles POST /api/v1/documents
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to process document"

	var req UploadDocumentRequest
	if err := h.decode(r, &req); err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	if err := h.authorize(r, req.Email); err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}

	res, err := h.router.Route(r.Context(), services.DocumentUpload{
		Email:         req.Email,
		Filename:      req.Filename,
		Text:          req.Text,
		ContentBase64: req.ContentBase64,
	})
	if err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	common.RespondJSON(w, http.StatusOK, res)
}

// Classify handles POST /api/v1/documents/classify
func (h *DocumentHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := h.decode(r, &req); err != nil {
		h.errors.Handle(w, r, err, "Failed to classify document")
		return
	}
	common.RespondJSON(w, http.StatusOK, h.router.Classify(req.Filename, req.Text))
}

// Reprocess handles POST /api/v1/visioning/{id}/reprocess
func (h *DocumentHandler) Reprocess(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to reprocess visioning document"

	var req ReprocessRequest
	if err := h.decode(r, &req); err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	if err := h.authorize(r, req.Email); err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}

	res, err := h.visioning.Reprocess(r.Context(), req.Email, chi.URLParam(r, "id"))
	if err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	common.RespondJSON(w, http.StatusOK, res)
}
