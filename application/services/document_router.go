package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	"sol-backend/domain/events"
	domainservices "sol-backend/domain/services"
	pkgerrors "sol-backend/pkg/errors"
	"sol-backend/pkg/observability"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// DocumentHandler analyzes one type of document. It returns the id of any
// record it created and a result for the caller.
type DocumentHandler interface {
	HandleDocument(ctx context.Context, email, filename, text string) (documentID string, result interface{}, err error)
}

// DocumentUpload is a document submitted as extracted text, optionally with
// the original bytes base64-encoded.
type DocumentUpload struct {
	Email         string
	Filename      string
	Text          string
	ContentBase64 string
}

// RouteResult is what the router reports back to the caller.
type RouteResult struct {
	Type   domainservices.DocumentType `json:"type"`
	Status string                      `json:"status"`
	Result interface{}                 `json:"result"`
}

// DocumentRouter classifies documents and dispatches them to the matching handler.
type DocumentRouter struct {
	classifier *domainservices.DocumentClassifier
	handlers   map[domainservices.DocumentType]DocumentHandler
	publisher  ports.EventPublisher
	metrics    *observability.Collector
	logger     *zap.Logger
}

// NewDocumentRouter creates a router with a handler for each document type
func NewDocumentRouter(
	classifier *domainservices.DocumentClassifier,
	visioning *VisioningService,
	plans *BusinessPlanService,
	general *GeneralDocumentHandler,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *DocumentRouter {
	r := &DocumentRouter{
		classifier: classifier,
		handlers:   map[domainservices.DocumentType]DocumentHandler{},
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
	}
	r.Register(domainservices.DocumentTypeVisioning, visioning)
	r.Register(domainservices.DocumentTypeBusinessPlan, plans)
	r.Register(domainservices.DocumentTypeGeneral, general)
	return r
}

// Register sets the handler for a document type
func (r *DocumentRouter) Register(docType domainservices.DocumentType, handler DocumentHandler) {
	r.handlers[docType] = handler
}

// Classify exposes the classifier decision without processing the document
func (r *DocumentRouter) Classify(filename, text string) domainservices.Classification {
	return r.classifier.Classify(filename, text)
}

// Route validates the upload, classifies it and runs the matching handler.
func (r *DocumentRouter) Route(ctx context.Context, upload DocumentUpload) (*RouteResult, error) {
	email := entities.NormalizeEmail(upload.Email)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email is required")
	}

	text, err := ResolveDocumentText(upload.Text, upload.ContentBase64)
	if err != nil {
		return nil, err
	}

	classification := r.classifier.Classify(upload.Filename, text)
	handler, ok := r.handlers[classification.Type]
	if !ok {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("no handler for document type %s", classification.Type))
	}

	r.logger.Info("Routing document",
		zap.String("email", email),
		zap.String("filename", upload.Filename),
		zap.String("type", string(classification.Type)),
		zap.Any("scores", classification.Scores),
	)
	if r.metrics != nil {
		r.metrics.DocumentsRouted.WithLabelValues(string(classification.Type)).Inc()
	}

	docID, result, err := handler.HandleDocument(ctx, email, upload.Filename, text)
	if err != nil {
		return nil, err
	}

	event := events.NewDocumentProcessed(email, string(classification.Type), docID, upload.Filename, time.Now())
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.logger.Warn("Failed to publish event", zap.String("eventType", event.GetEventType()), zap.Error(err))
	}

	return &RouteResult{
		Type:   classification.Type,
		Status: classification.Type.StatusMessage(),
		Result: result,
	}, nil
}

// ResolveDocumentText returns the document text. A base64 payload must sniff as
// text/*; it supplies the text when none was given. Blank documents are rejected.
func ResolveDocumentText(text, contentBase64 string) (string, error) {
	if contentBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(contentBase64)
		if err != nil {
			return "", pkgerrors.NewValidationError("content_base64 is not valid base64").WithCause(err)
		}
		mtype := mimetype.Detect(data)
		if !strings.HasPrefix(mtype.String(), "text/") {
			return "", pkgerrors.NewValidationError(fmt.Sprintf("unsupported document content type %s", mtype.String()))
		}
		if strings.TrimSpace(text) == "" {
			text = string(data)
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", pkgerrors.NewValidationError("document has no text content").WithCause(pkgerrors.ErrEmptyDocument)
	}
	return text, nil
}
