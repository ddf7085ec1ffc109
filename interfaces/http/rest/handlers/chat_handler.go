package handlers

import (
	"net/http"

	"sol-backend/application/services"
	"sol-backend/pkg/common"

	"go.uber.org/zap"
)

// ChatHandler handles coaching conversation requests
type ChatHandler struct {
	Base
	chat *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(base Base, chat *services.ChatService) *ChatHandler {
	return &ChatHandler{Base: base, chat: chat}
}

// ChatRequest represents the request body for a chat turn
type ChatRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=8000"`
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to process chat message"

	var req ChatRequest
	if err := h.decode(r, &req); err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}
	if err := h.authorize(r, req.Email); err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}

	reply, err := h.chat.Chat(r.Context(), req.Email, req.Message)
	if err != nil {
		h.errors.Handle(w, r, err, failure)
		return
	}

	h.logger.Debug("Chat turn completed",
		zap.String("message_id", reply.MessageID),
		zap.Int("insights_saved", reply.InsightsSaved),
	)
	common.RespondJSON(w, http.StatusOK, reply)
}
