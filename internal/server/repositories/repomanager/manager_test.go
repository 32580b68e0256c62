package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/datakeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/datakeeper/internal/server/repositories/entries"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func stubMigrateUp(t *testing.T, fn func(ctx context.Context, db *sql.DB, dialect goose.Dialect) error) {
	t.Helper()
	orig := migrateUp
	migrateUp = fn
	t.Cleanup(func() { migrateUp = orig })
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db := newDB(t)

	for name, m := range map[string]RepositoryManager{
		"postgres": NewPostgresRepositoryManager(),
		"sqlite":   NewSQLiteRepositoryManager(),
	} {
		t.Run(name, func(t *testing.T) {
			var a accounts.Repository = m.Accounts(db)
			var e entries.Repository = m.Entries(db)
			assert.NotNil(t, a)
			assert.NotNil(t, e)
		})
	}

	assert.IsType(t, &accounts.PostgresRepository{}, NewPostgresRepositoryManager().Accounts(db))
	assert.IsType(t, &entries.SQLiteRepository{}, NewSQLiteRepositoryManager().Entries(db))
}

func TestRunMigrations_Dialects(t *testing.T) {
	db := newDB(t)

	var got []goose.Dialect
	stubMigrateUp(t, func(ctx context.Context, _ *sql.DB, dialect goose.Dialect) error {
		got = append(got, dialect)
		return nil
	})

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
	require.NoError(t, NewSQLiteRepositoryManager().RunMigrations(context.Background(), db))
	assert.Equal(t, []goose.Dialect{goose.DialectPostgres, goose.DialectSQLite3}, got)
}

func TestRunMigrations_Error(t *testing.T) {
	db := newDB(t)

	stubMigrateUp(t, func(context.Context, *sql.DB, goose.Dialect) error {
		return errors.New("boom")
	})

	err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestOpen_SQLiteRunsRealMigrations(t *testing.T) {
	ctx := context.Background()

	db, m, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "keeper.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, m.RunMigrations(ctx, db))

	acc := m.Accounts(db)
	_, err = acc.FindByExternalID(ctx, 1)
	assert.Error(t, err)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, _, err := Open(context.Background(), "mysql", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
