// FilePath: server/hub/internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/airx/beds/server/hub/api"
	"github.com/airx/beds/server/hub/api/middleware"
	"github.com/airx/beds/server/hub/internal/auth"
	"github.com/airx/beds/server/hub/internal/cleanup"
	"github.com/airx/beds/server/hub/internal/config"
	"github.com/airx/beds/server/hub/internal/events"
	"github.com/airx/beds/server/hub/internal/monitoring"
	"github.com/airx/beds/server/hub/internal/repository"
	"github.com/airx/beds/server/hub/internal/service"
	"github.com/airx/beds/server/hub/internal/status"
	"github.com/airx/beds/server/hub/internal/storage"
	"github.com/gorilla/handlers"
	"github.com/jonboulle/clockwork"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	clock      clockwork.Clock
	store      repository.Store
	publisher  events.Publisher
	service    *service.Service
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config: cfg,
		srv:    srv,
		clock:  clockwork.NewRealClock(),
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	handler, err := s.Build(context.Background())
	if err != nil {
		return err
	}
	s.srv.Handler = handler

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// Build opens storage, wires the services and returns the full handler chain.
func (s *Server) Build(ctx context.Context) (http.Handler, error) {
	store, err := storage.Open(ctx, s.config, storage.OptionsFromConfig(s.config, s.clock))
	if err != nil {
		return nil, err
	}
	s.store = store

	secret := s.config.Auth.JWTSecret
	if secret == "" {
		secret = nuts.NID("jwt", 48)
		nuts.L.Warnf("[Server] No JWT secret configured, tokens will not survive a restart")
	}
	if s.config.Auth.IngestKey == "" {
		nuts.L.Warnf("[Server] No ingest key configured, sensor ingestion is disabled")
	}

	s.publisher = events.New(ctx, s.config.Redis)
	s.monitoring = monitoring.NewService(monitoring.Config{
		MetricsPath: s.config.Monitoring.MetricsPath,
	})

	svc, err := service.New(service.Deps{
		Store:  store,
		Tokens: auth.NewTokenIssuer(secret, s.config.Auth.TokenTTL, s.clock),
		Thresholds: status.Thresholds{
			Offline: s.config.Status.OfflineThreshold,
			High:    s.config.Status.High,
			Mid:     s.config.Status.Mid,
		},
		Publisher:        s.publisher,
		Monitor:          s.monitoring,
		Clock:            s.clock,
		MeasurementLimit: s.config.Status.MeasurementLimit,
	})
	if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to initialize service: %w", err)
	}
	s.service = svc

	// Set up cleanup event handlers
	s.setupCleanupHandlers()

	router := api.NewRouter(svc, api.RouterConfig{
		IngestKey: s.config.Auth.IngestKey,
		Monitor:   s.monitoring,
	})

	return s.wrap(router), nil
}

func (s *Server) wrap(h http.Handler) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(s.config.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{
			"Content-Type", "Authorization", middleware.IngestKeyHeader,
		}),
	)
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		cors(handlers.CombinedLoggingHandler(os.Stdout, h)),
	)
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	s.close()

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) close() {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing event publisher: %v", err)
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing %s storage: %v", s.store.Kind(), err)
		}
	}
}

func (s *Server) setupCleanupHandlers() {
	s.service.Cleanup.OnCleanup(cleanup.EventSiteDeleted, func(id string) {
		nuts.L.Infof("[Cleanup] Site %s deleted and unassigned from all users", id)
		s.monitoring.RecordEvent("site_deletion", map[string]string{
			"site_id": id,
		})
	})

	s.service.Cleanup.OnCleanup(cleanup.EventTelemetryDeleted, func(id string) {
		nuts.L.Infof("[Cleanup] Sensors and measurements of site %s deleted", id)
		s.monitoring.RecordEvent("telemetry_deletion", map[string]string{
			"site_id": id,
		})
	})
}
