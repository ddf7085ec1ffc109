package rest

import (
	"net/http"
	"time"

	"sol-backend/application/ports"
	"sol-backend/application/services"
	"sol-backend/interfaces/http/rest/handlers"
	"sol-backend/interfaces/http/rest/middleware"
	"sol-backend/pkg/auth"
	"sol-backend/pkg/common"
	pkgerrors "sol-backend/pkg/errors"
	"sol-backend/pkg/observability"
	"sol-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Services are the application services exposed over HTTP.
type Services struct {
	Chat        *services.ChatService
	Aggregator  *services.ContextAggregator
	Extractor   *services.InsightExtractor
	Insights    ports.InsightRepository
	Documents   *services.DocumentRouter
	Visioning   *services.VisioningService
	Profiles    *services.ProfileService
	Synthesizer *services.ProfileSynthesizer
}

// Options tune the router. A nil Validator disables authentication.
type Options struct {
	EnableCORS     bool
	AllowedOrigins []string
	MaxBodyBytes   int64
	InsightCap     int
	Validator      *auth.JWTValidator
}

// Router creates and configures the HTTP router
type Router struct {
	services Services
	health   ports.HealthChecker
	metrics  *observability.Collector
	options  Options
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	svc Services,
	health ports.HealthChecker,
	metrics *observability.Collector,
	options Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		services: svc,
		health:   health,
		metrics:  metrics,
		options:  options,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(pkgerrors.NewErrorHandler(rt.logger).Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.options.EnableCORS {
		origins := rt.options.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	base := handlers.NewBase(rt.logger, rt.options.MaxBodyBytes)
	chat := handlers.NewChatHandler(base, rt.services.Chat)
	userContext := handlers.NewContextHandler(base, rt.services.Aggregator)
	insights := handlers.NewInsightHandler(base, rt.services.Extractor, rt.services.Aggregator, rt.services.Insights, rt.options.InsightCap)
	documents := handlers.NewDocumentHandler(base, rt.services.Documents, rt.services.Visioning)
	profiles := handlers.NewProfileHandler(base, rt.services.Profiles, rt.services.Synthesizer)

	router.Route("/api/v1", func(r chi.Router) {
		if rt.options.Validator != nil {
			r.Use(middleware.Authenticate(rt.options.Validator, rt.logger))
		}

		r.Post("/chat", chat.Chat)
		r.Get("/context", userContext.GetContext)

		r.Route("/insights", func(r chi.Router) {
			r.Get("/", insights.List)
			r.Post("/extract", insights.Extract)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", documents.Upload)
			r.Post("/classify", documents.Classify)
		})
		r.Post("/visioning/{id}/reprocess", documents.Reprocess)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profiles.GetProfile)
			r.Post("/synthesize", profiles.Synthesize)
		})
	})

	return router
}

// APIVersion is reported in the health response metadata.
const APIVersion = "v1"

// healthCheck handles liveness requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	common.RespondWithMeta(w, http.StatusOK, map[string]string{"status": "healthy"}, &common.MetaInfo{
		RequestID: chimiddleware.GetReqID(req.Context()),
		Timestamp: utils.FormatTimestamp(time.Now()),
		Version:   APIVersion,
	})
}

// readinessCheck pings the record store
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.health != nil {
		if err := rt.health.Ping(req.Context()); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			common.RespondErrorWithDetails(w, http.StatusServiceUnavailable,
				common.StandardErrorCodes.InternalError, "Store unavailable", err.Error())
			return
		}
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
