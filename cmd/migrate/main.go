// Command migrate applies schema migrations and optional data rewrites.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"docengine/db/migrations"
	"docengine/internal/config"
	"docengine/internal/infrastructure/storage/postgres"
	"docengine/internal/infrastructure/storage/postgres/document_repo"
	"docengine/pkg/logger"
)

func main() {
	legacyWaybills := flag.Bool("legacy-waybills", false, "rewrite flat waybill payloads into the sectioned layout")
	batchSize := flag.Int("batch", document_repo.DefaultLegacyBatchSize, "waybills per transaction for -legacy-waybills")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: !cfg.IsProduction()})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = 2
	poolCfg.MinConns = 0
	poolCfg.ApplicationName = "docengine-migrate"
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool, migrations.FS)
	if err != nil {
		log.Fatalw("migration failed", "error", err)
	}
	if len(applied) == 0 {
		log.Info("schema is up to date")
	} else {
		log.Infow("schema migrated", "applied", len(applied))
	}

	if !*legacyWaybills {
		return
	}

	migrator := document_repo.NewLegacyWaybillMigrator(postgres.NewTxManager(pool), *batchSize)
	n, err := migrator.Run(ctx)
	if err != nil {
		log.Fatalw("legacy waybill rewrite failed", "rewritten", n, "error", err)
	}
	log.Infow("legacy waybills rewritten", "count", n)
}
