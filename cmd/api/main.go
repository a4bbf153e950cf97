package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicdesk/clinic-api/internal/config"
	"github.com/clinicdesk/clinic-api/internal/email"
	"github.com/clinicdesk/clinic-api/internal/handler"
	appointmentHandler "github.com/clinicdesk/clinic-api/internal/handler/appointment"
	assistantHandler "github.com/clinicdesk/clinic-api/internal/handler/assistant"
	authHandler "github.com/clinicdesk/clinic-api/internal/handler/auth"
	diseaseHandler "github.com/clinicdesk/clinic-api/internal/handler/disease"
	doctorHandler "github.com/clinicdesk/clinic-api/internal/handler/doctor"
	patientHandler "github.com/clinicdesk/clinic-api/internal/handler/patient"
	"github.com/clinicdesk/clinic-api/internal/middleware"
	"github.com/clinicdesk/clinic-api/internal/repository/postgres"
	"github.com/clinicdesk/clinic-api/internal/router"
	appointmentService "github.com/clinicdesk/clinic-api/internal/service/appointment"
	assistantService "github.com/clinicdesk/clinic-api/internal/service/assistant"
	authService "github.com/clinicdesk/clinic-api/internal/service/auth"
	diseaseService "github.com/clinicdesk/clinic-api/internal/service/disease"
	doctorService "github.com/clinicdesk/clinic-api/internal/service/doctor"
	eventService "github.com/clinicdesk/clinic-api/internal/service/event"
	patientService "github.com/clinicdesk/clinic-api/internal/service/patient"
	"github.com/clinicdesk/clinic-api/internal/worker"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	redisBroker "github.com/clinicdesk/clinic-api/pkg/messaging/redis"
	"github.com/clinicdesk/clinic-api/pkg/security"
)

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

	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	diseaseRepo := postgres.NewDiseaseRepository(db)
	assistantRepo := postgres.NewAssistantRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	adminRepo := postgres.NewAdminRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	mailer := email.NewSMTPMailer(cfg.SMTP)
	eventSvc := eventService.NewService(outboxRepo)

	patientSvc := patientService.NewService(patientRepo, hasher, mailer, eventSvc)
	doctorSvc := doctorService.NewService(doctorRepo)
	diseaseSvc := diseaseService.NewService(diseaseRepo)
	assistantSvc := assistantService.NewService(assistantRepo, hasher)
	appointmentSvc := appointmentService.NewService(appointmentRepo, eventSvc)
	authSvc := authService.NewService(patientRepo, adminRepo, hasher, cfg.JWT)

	r := router.NewRouter(
		router.Config{
			CORS:           corsConfig(cfg),
			RateLimit:      middleware.RateLimiterConfig{RPS: cfg.RateLimit.RequestsPerSecond, Burst: cfg.RateLimit.Burst},
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		handler.NewHealthHandler(db),
		patientHandler.NewHandler(patientSvc),
		doctorHandler.NewHandler(doctorSvc),
		diseaseHandler.NewHandler(diseaseSvc),
		assistantHandler.NewHandler(assistantSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		authHandler.NewHandler(authSvc),
	)
	r.Setup()

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

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:    cfg.Outbox.BatchSize,
		PollInterval: cfg.Outbox.PollInterval,
		MaxRetries:   cfg.Outbox.MaxRetries,
		RetryDelay:   cfg.Outbox.RetryDelay,
	})
	go outboxProcessor.Start(workerCtx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	cancelWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		c.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	return c
}
