package persistence

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"price_tracker/pkg/dbmigrate"
	"price_tracker/pkg/logx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations holds the schema of the postgres backend.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}

	return sub
}

// PostgresBlobs keeps blobs in the tracker_blobs table.
type PostgresBlobs struct {
	db *sqlx.DB
}

func NewPostgresBlobs(db *sqlx.DB) *PostgresBlobs {
	return &PostgresBlobs{db: db}
}

// EnsureSchema creates the blobs table when it is missing.
func (p *PostgresBlobs) EnsureSchema(ctx context.Context) error {
	if err := dbmigrate.Apply(ctx, p.db, Migrations()); err != nil {
		return fmt.Errorf("dbmigrate.Apply: %w", err)
	}

	return nil
}

func (p *PostgresBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte

	err := p.db.GetContext(ctx, &data, `SELECT value FROM tracker_blobs WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return data, nil
}

func (p *PostgresBlobs) Put(ctx context.Context, key string, data []byte) error {
	const query = `
		INSERT INTO tracker_blobs (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := p.db.ExecContext(ctx, query, key, data); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	logger(ctx).Debug("blob written",
		slog.String(logx.FieldBackend, BackendPostgres),
		slog.String(logx.FieldKey, key),
	)

	return nil
}
