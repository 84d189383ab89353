// Package repositories wires the local SQLite database: it opens the DSN,
// applies the embedded goose migrations and hands out repository instances.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkorolis/imagepoints/internal/client/migrations"
	"github.com/mkorolis/imagepoints/internal/client/repositories/blobs"
	"github.com/mkorolis/imagepoints/internal/client/repositories/settings"
	"github.com/pressly/goose/v3"
)

type Repositories struct {
	DB       *sql.DB
	Settings settings.Repository
	Blobs    blobs.Repository
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return &Repositories{
		DB:       db,
		Settings: settings.NewSQLiteRepository(db),
		Blobs:    blobs.NewSQLiteRepository(db),
	}, nil
}
