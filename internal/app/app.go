package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"download-analytics/internal/aggregators"
	"download-analytics/internal/enrichments"
	internalhttp "download-analytics/internal/http"
	"download-analytics/internal/ingestors"
	"download-analytics/internal/queries"
	"download-analytics/internal/shared/configs"
	"download-analytics/internal/shared/loggers"
	"download-analytics/internal/stores"
	"download-analytics/internal/streams"
)

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	db       *sql.DB
	pipeline *ingestors.Pipeline

	backgroundCtx    context.Context
	backgroundCancel context.CancelFunc
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "download-analytics").
		Logger()

	// Initialize storage
	db, err := stores.Open(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sessionStore := stores.NewSessionStore(db)
	statsStore := stores.NewStatsStore(db)

	// Initialize realtime publisher
	streamLogger := appLogger.With().Str(loggers.FieldComponent, "stream").Logger()
	publisher := streams.NewHub(config.Publisher.SubscriberBuffer, streamLogger)

	// Initialize read side
	queryService := queries.NewQueryService(sessionStore, statsStore, config.Cache)

	// Initialize aggregation engine
	resolver := enrichments.NewStaticResolver()
	aggregationService := aggregators.NewAggregationService(db, resolver, publisher, queryService, config.Session)

	// Initialize ingestion pipeline
	pipelineLogger := appLogger.With().Str(loggers.FieldComponent, "pipeline").Logger()
	pipeline := ingestors.NewPipeline(config.Pipeline, aggregationService, pipelineLogger)
	ingestService := ingestors.NewIngestService(pipeline)

	// Initialize http router
	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(ingestService, queryService, pipeline, httpLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:    config,
		appLogger: appLogger,
		server:    server,
		db:        db,
		pipeline:  pipeline,
	}, nil
}

// Start starts the HTTP server in a blocking manner.
func (app *App) Start() error {
	app.appLogger.Info().
		Msgf("Starting download-analytics service on port %d (log_level=%s, database_path=%s)",
			app.config.Server.Port,
			app.config.Log.Level,
			app.config.Database.Path)

	// start pipeline workers
	app.backgroundCtx, app.backgroundCancel = context.WithCancel(context.Background())
	app.pipeline.Start(app.backgroundCtx)

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the application.
func (app *App) Shutdown(ctx context.Context) error {
	// 1) Shutdown server so no new lines arrive
	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")

	// 2) Drain the pipeline: queued lines are parsed, buffered records
	// flushed, outstanding batches persisted
	if err := app.pipeline.Shutdown(ctx); err != nil {
		return fmt.Errorf("pipeline shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Pipeline drained")

	// 3) Cancel background context and release storage
	if app.backgroundCancel != nil {
		app.backgroundCancel()
	}
	if err := app.db.Close(); err != nil {
		return fmt.Errorf("database close failed: %w", err)
	}
	app.appLogger.Info().Msg("Database closed")

	return nil
}
