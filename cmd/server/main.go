package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopfloor/internal/config"
	"shopfloor/internal/infra"
	"shopfloor/internal/repository"
	"shopfloor/internal/router"
	"shopfloor/internal/service"
	"shopfloor/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background jobs (traveler PDF + completion email) only run with a queue.
	// Worker handlers are wired here so the pool has the full infrastructure.
	if cfg.QueueEnabled() {
		dispatcher := worker.NewDispatcher(rdb)
		smtpBreaker := infra.NewBreaker("smtp", infra.BreakerConfig{})
		mailer := infra.NewMailer(cfg)
		reportingSvc := service.NewReportingService(
			repository.NewWorkOrderRepository(db),
			repository.NewProductionLogRepository(db),
		)

		workerHandlers := &worker.WorkerHandlers{
			OrderCompleted: worker.NewOrderCompletedWorker(reportingSvc, dispatcher, cfg.PDFStoragePath, cfg.NotifyEmail),
			Email:          worker.NewEmailWorker(mailer, smtpBreaker),
		}
		worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)
		worker.StartRetryCron(ctx, worker.RetryCronConfig{RDB: rdb, CB: smtpBreaker})
	} else {
		log.Warn().Msg("REDIS_URL empty: background jobs disabled")
	}

	r, err := router.New(cfg, db, rdb)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().
			Int("port", cfg.Port).
			Bool("auth", cfg.AuthEnabled()).
			Bool("queue", cfg.QueueEnabled()).
			Msg("shopfloor MES listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}

// setupLogger picks pretty console output for development and JSON otherwise.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}
