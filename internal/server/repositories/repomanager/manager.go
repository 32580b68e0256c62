// Package repomanager vends dialect-specific repository implementations bound
// to a dbx.DBTX and applies the matching schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/datakeeper/internal/dbx"
	"github.com/dmitrijs2005/datakeeper/internal/server/migrations"
	"github.com/dmitrijs2005/datakeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/datakeeper/internal/server/repositories/entries"
)

// Supported values for the database driver setting.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Entries(db dbx.DBTX) entries.Repository
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// Open opens the database for driver and returns it together with the
// matching RepositoryManager. The connection is verified with a ping.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	var m RepositoryManager
	switch driver {
	case DriverPostgres:
		m = NewPostgresRepositoryManager()
	case DriverSQLite:
		m = NewSQLiteRepositoryManager()
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, m, nil
}
