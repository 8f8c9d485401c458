package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/betcatalog/core/internal/config"
	"github.com/betcatalog/core/pkg/database/pool"
	"github.com/betcatalog/core/pkg/handlers/events"
	"github.com/betcatalog/core/pkg/handlers/health"
	"github.com/betcatalog/core/pkg/handlers/selections"
	"github.com/betcatalog/core/pkg/handlers/sports"
	"github.com/betcatalog/core/pkg/logger"
	"github.com/betcatalog/core/pkg/middleware"
	"github.com/betcatalog/core/pkg/models/api"
	"github.com/betcatalog/core/pkg/provider"
	"github.com/betcatalog/core/pkg/repository"
	"github.com/betcatalog/core/pkg/services"
)

// Server represents the API server
type Server struct {
	router   *http.ServeMux
	port     string
	logger   *logger.Logger
	dbPool   *pgxpool.Pool
	handlers struct {
		health     *health.Handler
		sports     *sports.Handler
		events     *events.Handler
		selections *selections.Handler
	}
}

// New creates a new server instance
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	dbPool, err := pool.New(context.Background(), cfg.DatabaseURL(), pool.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := testDatabaseConnection(dbPool, log); err != nil {
		dbPool.Close()
		return nil, err
	}

	sportRepo := repository.NewSportRepository(dbPool, log)
	eventRepo := repository.NewEventRepository(dbPool, log)
	selectionRepo := repository.NewSelectionRepository(dbPool, log)

	oddsClient := provider.NewClient(cfg, log)
	ingest := services.NewIngestService(sportRepo, eventRepo, selectionRepo, oddsClient, cfg.Ingestion, log)

	server := &Server{
		router: http.NewServeMux(),
		port:   cfg.Server.Port,
		logger: log,
		dbPool: dbPool,
	}

	server.handlers.health = health.NewHandler(log)
	server.handlers.sports = sports.NewHandler(sportRepo, ingest, log)
	server.handlers.events = events.NewHandler(eventRepo, ingest, log)
	server.handlers.selections = selections.NewHandler(selectionRepo, ingest, log)

	server.setupRoutes()

	log.Info().
		Str("action", "db_connected").
		Msg("Database connection pool established")

	return server, nil
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.CORS(middleware.RequestLog(s.logger, h))
	}

	// Health check endpoint
	s.router.HandleFunc("/health", middleware.CORS(s.handlers.health.HealthCheck))

	// Sports endpoints; the literal upload_external pattern wins over {id}
	s.router.HandleFunc("/v1/sports", wrap(s.handlers.sports.Collection))
	s.router.HandleFunc("/v1/sports/{id}", wrap(s.handlers.sports.Item))
	s.router.HandleFunc("/v1/sports/upload_external", wrap(s.handlers.sports.UploadExternal))

	// Events endpoints
	s.router.HandleFunc("/v1/events", wrap(s.handlers.events.Collection))
	s.router.HandleFunc("/v1/events/{id}", wrap(s.handlers.events.Item))
	s.router.HandleFunc("/v1/events/upload_external/sports/{sport_id}", wrap(s.handlers.events.UploadExternal))

	// Selections endpoints
	s.router.HandleFunc("/v1/selections", wrap(s.handlers.selections.Collection))
	s.router.HandleFunc("/v1/selections/{id}", wrap(s.handlers.selections.Item))
	s.router.HandleFunc("/v1/selections/upload_external/sports/{sport_id}/events/{event_id}", wrap(s.handlers.selections.UploadExternal))

	// Simple root endpoint
	s.router.HandleFunc("/{$}", middleware.CORS(func(w http.ResponseWriter, r *http.Request) {
		if _, err := fmt.Fprintf(w, "Bet Catalog API Service - OK (Database Connected)"); err != nil {
			http.Error(w, "Failed to write response", http.StatusInternalServerError)
		}
	}))

	// Everything else is an unknown endpoint
	s.router.HandleFunc("/", middleware.CORS(func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, http.StatusNotFound, "unknown endpoint: "+r.URL.Path, api.CodeUnknownEndpoint)
	}))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().
		Str("action", "server_start").
		Str("port", s.port).
		Msg("Starting API server with database connection")

	if err := http.ListenAndServe(":"+s.port, s.router); err != nil {
		return fmt.Errorf("server failed to start on port %s: %w", s.port, err)
	}

	return nil
}

// Close gracefully shuts down the server and closes database connections
func (s *Server) Close() {
	if s.dbPool != nil {
		s.dbPool.Close()
		s.logger.Info().Msg("Database connection pool closed")
	}
}

// testDatabaseConnection tests the database connection with retry logic
func testDatabaseConnection(dbPool *pgxpool.Pool, log *logger.Logger) error {
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := dbPool.Ping(ctx)
		cancel()

		if err == nil {
			return nil
		}

		if i == maxRetries-1 {
			return fmt.Errorf("failed to ping database after %d retries: %w", maxRetries, err)
		}

		log.Warn().
			Err(err).
			Int("attempt", i+1).
			Str("action", "db_ping_retry").
			Msg("Retrying database connection")
		time.Sleep(2 * time.Second)
	}

	return nil
}
