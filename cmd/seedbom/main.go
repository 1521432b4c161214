// Command seedbom loads bill-of-materials lines from a CSV file.
//
//	go run ./cmd/seedbom -file bom.csv
//
// Each row is product_code,material_code,required_qty. Materials must already
// exist (receive them through /api/mes/material/inbound first). Existing lines
// are updated in place.
package main

import (
	"context"
	"flag"
	"os"

	"shopfloor/internal/config"
	"shopfloor/internal/infra"
	"shopfloor/internal/repository"
	"shopfloor/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	file := flag.String("file", "bom.csv", "CSV with product_code,material_code,required_qty")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("open csv")
	}
	defer f.Close()

	rows, err := parseBomCSV(f)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("parse csv")
	}

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	svc := service.NewBomService(repository.NewBomRepository(db), repository.NewMaterialRepository(db))
	ctx := context.Background()

	failed := 0
	for _, row := range rows {
		if _, err := svc.Upsert(ctx, row); err != nil {
			failed++
			log.Error().Err(err).
				Str("product_code", row.ProductCode).
				Str("material_code", row.MaterialCode).
				Msg("bom line rejected")
		}
	}
	log.Info().Int("loaded", len(rows)-failed).Int("failed", failed).Msg("bom seed finished")
	if failed > 0 {
		os.Exit(1)
	}
}
