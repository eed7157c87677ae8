package migration

import (
	"context"

	"gopower/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createPowerAnalysesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create power_analyses table")
	}
	if err := r.createPowerAnalysesIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create power_analyses indexes")
	}
	return nil
}

func (r *MigrationRunner) createPowerAnalysesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS power_analyses (
			id UUID PRIMARY KEY,
			spec JSONB NOT NULL,
			result JSONB,
			error TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func (r *MigrationRunner) createPowerAnalysesIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_power_analyses_created_at
		ON power_analyses (created_at DESC)`)
	return err
}
