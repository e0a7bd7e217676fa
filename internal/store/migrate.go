package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/theyard/yard/internal/logging"
	"github.com/theyard/yard/internal/store/migrations"
)

// Migrate applies the embedded schema to a Postgres database.
func Migrate(ctx context.Context, db *sql.DB, log logging.Logger) error {
	p, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("migration provider: %w", err)
	}

	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	for _, r := range results {
		log.Info(ctx, "migration applied", "source", r.Source.Path, "duration", r.Duration)
	}
	return nil
}
