package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"

	"github.com/pharmaflow/be-procurement/internal/client"
	"github.com/pharmaflow/be-procurement/internal/config"
	"github.com/pharmaflow/be-procurement/internal/database"
	"github.com/pharmaflow/be-procurement/internal/handler"
	"github.com/pharmaflow/be-procurement/internal/logger"
	"github.com/pharmaflow/be-procurement/internal/metrics"
	"github.com/pharmaflow/be-procurement/internal/middleware"
	"github.com/pharmaflow/be-procurement/internal/negotiation"
	"github.com/pharmaflow/be-procurement/internal/repository"
	"github.com/pharmaflow/be-procurement/internal/scoring"
	"github.com/pharmaflow/be-procurement/internal/service"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:       os.Getenv("LOG_LEVEL"),
		Environment: cfg.Service.Environment,
		ServiceName: cfg.Service.Name,
		Version:     cfg.Service.Version,
	})

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("environment", cfg.Service.Environment).
		Msg("Starting Procurement Negotiation Service")

	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := database.New(ctx, database.Config{
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		User:        cfg.Database.User,
		Password:    cfg.Database.Password,
		Database:    cfg.Database.Database,
		SSLMode:     cfg.Database.SSLMode,
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
		MaxConnTime: cfg.Database.MaxConnTime,
		MaxIdleTime: cfg.Database.MaxIdleTime,
		HealthCheck: cfg.Database.HealthCheck,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// NATS connection for lifecycle events. The service runs fine without it;
	// publishing is non-fatal either way.
	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		natsConn, err = nats.Connect(cfg.NATS.URL, nats.Name(cfg.Service.Name))
		if err != nil {
			log.Warn().Err(err).Str("url", cfg.NATS.URL).Msg("NATS unavailable, events disabled")
		} else {
			defer natsConn.Close()
			log.Info().Str("url", cfg.NATS.URL).Msg("NATS connection established")
		}
	}

	// Initialize repositories
	taskRepo := repository.NewTaskRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	roundRepo := repository.NewRoundRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Initialize collaborator clients
	composerClient := client.NewComposerClient(cfg.Collaborators.ComposerURL, cfg.Collaborators.Timeout)
	directoryClient := client.NewDirectoryClient(cfg.Collaborators.DirectoryURL, cfg.Collaborators.Timeout)
	reliabilityClient := client.NewReliabilityClient(cfg.Collaborators.ReliabilityURL, cfg.Collaborators.Timeout)
	events := client.NewEventPublisher(natsConn, log)

	log.Info().
		Str("composer_url", cfg.Collaborators.ComposerURL).
		Str("directory_url", cfg.Collaborators.DirectoryURL).
		Str("reliability_url", cfg.Collaborators.ReliabilityURL).
		Msg("Collaborator clients initialized")

	// Initialize services
	negotiationCfg := negotiation.Config{
		MaxRounds:               cfg.Negotiation.MaxRounds,
		PriceTolerance:          cfg.Negotiation.PriceTolerance,
		VolumeThreshold:         cfg.Negotiation.VolumeThreshold,
		DeliveryCeilingHigh:     cfg.Negotiation.DeliveryCeilingHigh,
		DeliveryCeilingCritical: cfg.Negotiation.DeliveryCeilingCritical,
	}
	profiles := scoring.Profiles{
		Default:  weights(cfg.Scoring.Default),
		Critical: weights(cfg.Scoring.Critical),
		Budget:   weights(cfg.Scoring.Budget),
	}
	if err := profiles.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid scoring configuration")
	}

	taskService := service.NewTaskService(taskRepo, auditRepo, log)
	quoteService := service.NewQuoteService(taskRepo, quoteRepo, events, log)
	negotiationService := service.NewNegotiationService(
		taskRepo, quoteRepo, sessionRepo, roundRepo, auditRepo,
		composerClient, directoryClient, events, negotiationCfg, log,
	)
	decisionService := service.NewDecisionService(
		taskRepo, quoteRepo, sessionRepo, scoreRepo, auditRepo,
		reliabilityClient, composerClient, events, profiles, log,
	)

	// Setup HTTP routes
	httpHandler := handler.NewHTTPHandler(taskService, quoteService, negotiationService, decisionService, log)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	mux.Handle("/metrics", metrics.Handler())

	httpHandler.Register(mux)

	// Apply middleware
	var h http.Handler = mux
	h = middleware.RequestID(h)
	h = middleware.Logger(&log)(h)
	h = middleware.Recovery(&log)(h)
	h = middleware.CORS([]string{"*"})(h)
	h = middleware.Timeout(cfg.Server.WriteTimeout)(h)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("Server stopped")
}

func weights(w config.WeightsConfig) scoring.Weights {
	return scoring.Weights{
		Price:       w.Price,
		Speed:       w.Speed,
		Reliability: w.Reliability,
		Stock:       w.Stock,
	}
}
