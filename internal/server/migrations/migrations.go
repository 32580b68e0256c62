// Package migrations embeds the goose SQL migrations for every supported
// database dialect.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// Postgres holds migrations for PostgreSQL, rooted at "postgres".
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds migrations for SQLite, rooted at "sqlite".
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Up applies every pending migration for dialect to db. Supported dialects
// are goose.DialectPostgres and goose.DialectSQLite3.
func Up(ctx context.Context, db *sql.DB, dialect goose.Dialect) error {
	var (
		fsys fs.FS
		err  error
	)
	switch dialect {
	case goose.DialectPostgres:
		fsys, err = fs.Sub(Postgres, "postgres")
	case goose.DialectSQLite3:
		fsys, err = fs.Sub(SQLite, "sqlite")
	default:
		return fmt.Errorf("unsupported migration dialect %q", dialect)
	}
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
