package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"onsen_map/internal/adapters/microcms"
	"onsen_map/internal/adapters/observability"
	"onsen_map/internal/app"
	"onsen_map/internal/shared"
	mysqlrepo "onsen_map/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("service", cfg.ServiceID).
		Int("page_size", cfg.ExportPageSize).
		Int("workers", cfg.ExportWorkers).
		Msg("export starting")

	if cfg.APIKey == "" {
		log.Fatal().Msg("MICROCMS_API_KEY is required for export")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	opts := []microcms.Option{microcms.WithTimeout(cfg.CMSTimeout)}
	if cfg.BaseURL != "" {
		opts = append(opts, microcms.WithBaseURL(cfg.BaseURL))
	}
	content := microcms.New(cfg.ServiceID, cfg.APIKey, opts...)
	repo := mysqlrepo.New(db)

	n, err := app.NewExportService(content, repo).ExportAll(ctx, cfg.ExportPageSize, cfg.ExportWorkers)
	if err != nil {
		log.Fatal().Err(err).Int("exported", n).Msg("export failed")
	}
	total, err := repo.CountSnapshots(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("count snapshots failed")
	}
	log.Info().Int("exported", n).Int("archived", total).Msg("export completed")
}
