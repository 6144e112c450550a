package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"docengine/pkg/logger"
)

// NewMigrationProvider prepares a goose provider over db for the versioned
// NNNNN_name.sql files at the root of fsys.
func NewMigrationProvider(db *sql.DB, fsys fs.FS) (*goose.Provider, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	return provider, nil
}

// Migrate applies pending migrations through the pool, each in its own
// transaction, recording versions in goose_db_version. It returns the files
// it applied, including those applied before a failure.
func Migrate(ctx context.Context, pool *Pool, fsys fs.FS) ([]string, error) {
	db := stdlib.OpenDBFromPool(pool.Pool)
	defer db.Close()

	provider, err := NewMigrationProvider(db, fsys)
	if err != nil {
		return nil, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		var partial *goose.PartialError
		if errors.As(err, &partial) {
			return appliedNames(ctx, partial.Applied), fmt.Errorf("apply %s: %w", partial.Failed.Source.Path, partial.Err)
		}
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return appliedNames(ctx, results), nil
}

func appliedNames(ctx context.Context, results []*goose.MigrationResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		logger.Info(ctx, "migration applied", "name", r.Source.Path, "version", r.Source.Version, "duration", r.Duration)
		names = append(names, r.Source.Path)
	}
	return names
}
