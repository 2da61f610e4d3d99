package http

import (
	"net/http"

	"download-analytics/internal/ingestors"
	"download-analytics/internal/queries"
	"download-analytics/internal/shared/loggers"
	"download-analytics/internal/shared/metrics"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	ingestService ingestors.IngestService,
	queryService queries.QueryService,
	pipeline ingestors.LogPipeline,
	httpLogger loggers.Logger,
) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	// Initialize handlers
	ingestLogHandler := NewIngestLogHandler(ingestService)
	clientStatsHandler := NewClientStatsHandler(queryService)
	serviceStatsHandler := NewServiceStatsHandler(queryService)
	recentDownloadsHandler := NewRecentDownloadsHandler(queryService)
	activeDownloadsHandler := NewActiveDownloadsHandler(queryService)
	pipelineStatsHandler := NewPipelineStatsHandler(pipeline)

	// Routes
	router.Post("/logs", errorHandlingAdapter(ingestLogHandler))
	router.Get("/api/clients", errorHandlingAdapter(clientStatsHandler))
	router.Get("/api/services", errorHandlingAdapter(serviceStatsHandler))
	router.Get("/api/downloads/recent", errorHandlingAdapter(recentDownloadsHandler))
	router.Get("/api/downloads/active", errorHandlingAdapter(activeDownloadsHandler))
	router.Get("/api/pipeline/stats", errorHandlingAdapter(pipelineStatsHandler))
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}
