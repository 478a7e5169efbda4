// Package api provides the HTTP API and dashboard page.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/nodewatch/nodewatch/internal/api/handler"
	"github.com/nodewatch/nodewatch/internal/api/middleware"
	"github.com/nodewatch/nodewatch/internal/api/models"
	"github.com/nodewatch/nodewatch/internal/api/response"
	"github.com/nodewatch/nodewatch/internal/node"
	"github.com/nodewatch/nodewatch/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Title       string
	Metrics     *middleware.Metrics
	FeedService handler.SeriesFetcher
	Nodes       *node.Registry
	Health      *resilience.Registry
}

// NewRouter creates a new chi router with all routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "nodewatch-api"
	}

	nodes := cfg.Nodes
	if nodes == nil {
		nodes = node.NewRegistry(node.DefaultNodes())
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.CORS())               // Any origin may read the API
	r.Use(middleware.SecurityHeaders)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, nodes, cfg.Health)
	dashboardHandler := handler.NewDashboardHandler(nodes, cfg.Title, cfg.Logger)
	nodesHandler := handler.NewNodesHandler(nodes)
	seriesHandler := handler.NewSeriesHandler(cfg.FeedService, cfg.Logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, models.MessageNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusMethodNotAllowed, models.MessageBadMethod)
	})

	r.Get("/", dashboardHandler.Index)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Get("/data/{channelID}/{apiKey}", seriesHandler.GetSeries)
		r.Get("/nodes", nodesHandler.ListNodes)
	})

	r.Route("/ops", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Get("/health", opsHandler.HealthCheck)
		r.Get("/ready", opsHandler.ReadinessCheck)
		r.Get("/status", opsHandler.SystemStatus)
	})

	return r
}
