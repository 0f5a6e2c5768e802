package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Berdoom/Nidec-01/internal/config"
	"github.com/Berdoom/Nidec-01/internal/infra"
	"github.com/Berdoom/Nidec-01/internal/repository"
	"github.com/Berdoom/Nidec-01/internal/router"
	"github.com/Berdoom/Nidec-01/internal/seed"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	db, err := infra.NewDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	// Redis backs the access-snapshot cache and saved action-center filters.
	// In development the app degrades to cache-less operation without it.
	var rdb *redis.Client
	rdb, err = infra.NewRedis(cfg.RedisURL)
	if err != nil {
		if cfg.Env == "production" {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		log.Warn().Err(err).Msg("redis unavailable, running without access cache")
		rdb = nil
	}

	ctx := context.Background()
	seeder := seed.New(
		repository.NewUsuarioRepository(db),
		repository.NewRolRepository(db),
		repository.NewTurnoRepository(db),
		repository.NewProgramaRepository(db),
	)
	if err := seeder.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed base catalog")
	}

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Nidec producción backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
