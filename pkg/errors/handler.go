package errors

import (
	"fmt"
	"net/http"

	"sol-backend/pkg/common"

	"go.uber.org/zap"
)

// ErrorHandler maps errors onto the API envelope at the handler boundary.
type ErrorHandler struct {
	logger *zap.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle writes err as an error envelope. message is the generic, user-facing text;
// the underlying error text always goes to Details.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error, message string) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	code := common.StandardErrorCodes.InternalError

	if appErr := GetAppError(err); appErr != nil {
		if appErr.HTTPStatus != 0 {
			status = appErr.HTTPStatus
		}
		code = codeFor(appErr.Type)
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", common.ExtractRequestID(r)),
	}
	if status >= 500 {
		h.logger.Error(message, fields...)
	} else {
		h.logger.Warn(message, fields...)
	}

	common.RespondErrorWithDetails(w, status, code, message, err.Error())
}

func codeFor(t ErrorType) string {
	switch t {
	case ErrorTypeValidation:
		return common.StandardErrorCodes.ValidationError
	case ErrorTypeNotFound:
		return common.StandardErrorCodes.NotFound
	case ErrorTypeUnauthorized:
		return common.StandardErrorCodes.Unauthorized
	case ErrorTypeForbidden:
		return common.StandardErrorCodes.Forbidden
	default:
		return common.StandardErrorCodes.InternalError
	}
}

// Middleware recovers panics and reports them through the same envelope.
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err := NewInternalError(fmt.Sprintf("panic: %v", rec))
				h.Handle(w, r, err, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
