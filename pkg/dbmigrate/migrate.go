// Package dbmigrate applies plain SQL migration files.
package dbmigrate

import (
	"context"
	"fmt"
	"io/fs"
	"slices"

	"github.com/jmoiron/sqlx"
)

// Apply executes every *.sql file at the root of fsys over db, in file name
// order. Migrations must be idempotent; nothing records which ones ran.
func Apply(ctx context.Context, db *sqlx.DB, fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob: %w", err)
	}

	slices.Sort(names)

	for _, name := range names {
		query, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("fs.ReadFile(%s): %w", name, err)
		}

		if _, err := db.ExecContext(ctx, string(query)); err != nil {
			return fmt.Errorf("db.ExecContext(%s): %w", name, err)
		}
	}

	return nil
}
