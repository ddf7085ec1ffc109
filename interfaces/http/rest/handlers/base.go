package handlers

import (
	"net/http"
	"strconv"

	"sol-backend/domain/core/entities"
	"sol-backend/pkg/auth"
	"sol-backend/pkg/common"
	pkgerrors "sol-backend/pkg/errors"
	"sol-backend/pkg/utils"

	"go.uber.org/zap"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// Base carries what every handler needs: error mapping, logging and the body limit.
type Base struct {
	errors       *pkgerrors.ErrorHandler
	logger       *zap.Logger
	maxBodyBytes int64
}

// NewBase creates the shared handler base
func NewBase(logger *zap.Logger, maxBodyBytes int64) Base {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return Base{
		errors:       pkgerrors.NewErrorHandler(logger),
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// decode parses and validates a JSON body. Failures are validation errors.
func (b Base) decode(r *http.Request, v interface{}) error {
	if err := common.ParseJSONBody(r, v, b.maxBodyBytes); err != nil {
		return pkgerrors.NewValidationError("invalid request body").WithCause(err)
	}
	if err := utils.ValidateStruct(v); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// authorize rejects requests acting on another user's email when the caller
// was authenticated. Without authentication every email is allowed.
func (b Base) authorize(r *http.Request, email string) error {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return nil
	}
	if entities.NormalizeEmail(user.Email) != entities.NormalizeEmail(email) {
		return pkgerrors.NewForbiddenError("email does not match the authenticated user")
	}
	return nil
}

// queryEmail reads the required email query parameter
func queryEmail(r *http.Request) (string, error) {
	email := entities.NormalizeEmail(r.URL.Query().Get("email"))
	if email == "" {
		return "", pkgerrors.NewValidationError("email is required")
	}
	return email, nil
}

// querySource reads an optional insight source filter.
func querySource(r *http.Request) (entities.InsightSource, error) {
	source := entities.InsightSource(r.URL.Query().Get("source"))
	switch source {
	case "", entities.SourceChat, entities.SourceVisioning, entities.SourceBusinessPlan, entities.SourceDocument:
		return source, nil
	}
	return "", pkgerrors.NewValidationError("source must be one of: chat visioning business-plan document")
}

// queryLimit reads an optional positive limit, capped at max.
func queryLimit(r *http.Request, def, max int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, pkgerrors.NewValidationError("limit must be a positive integer")
	}
	if n > max {
		n = max
	}
	return n, nil
}
