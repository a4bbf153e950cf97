package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-api/internal/config"
	"github.com/clinicdesk/clinic-api/internal/repository/postgres"
	"github.com/clinicdesk/clinic-api/internal/worker"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	redisBroker "github.com/clinicdesk/clinic-api/pkg/messaging/redis"
)

// Standalone outbox drainer, for deployments that run the event
// publisher separately from the API.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redisBroker.NewBroker(redisBroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:    cfg.Outbox.BatchSize,
		PollInterval: cfg.Outbox.PollInterval,
		MaxRetries:   cfg.Outbox.MaxRetries,
		RetryDelay:   cfg.Outbox.RetryDelay,
	})

	setupHealthCheck()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("shutting down...")
		cancel()
	}()

	processor.Start(ctx)
}

func setupHealthCheck() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			log.Error().Err(err).Msg("health check server failed")
			os.Exit(1)
		}
	}()
}
