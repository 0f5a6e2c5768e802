package main

import (
	"context"
	"os"
	"time"

	"github.com/Berdoom/Nidec-01/internal/config"
	"github.com/Berdoom/Nidec-01/internal/infra"
	"github.com/Berdoom/Nidec-01/internal/repository"
	"github.com/Berdoom/Nidec-01/internal/seed"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// seeddb migrates the schema and loads the base catalog (permisos, roles,
// turnos, columnas Rotores, usuarios por defecto) without starting the server.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	seeder := seed.New(
		repository.NewUsuarioRepository(db),
		repository.NewRolRepository(db),
		repository.NewTurnoRepository(db),
		repository.NewProgramaRepository(db),
	)
	if err := seeder.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Msg("seed completo")
}
