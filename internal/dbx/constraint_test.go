package dbx

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueViolation_Postgres(t *testing.T) {
	err := fmt.Errorf("db error: %w", &pgconn.PgError{Code: "23505", ConstraintName: "UQ_Accounts_Username"})

	c, ok := UniqueViolation(err)
	require.True(t, ok)
	assert.Equal(t, "uq_accounts_username", c)

	_, ok = UniqueViolation(&pgconn.PgError{Code: "23503", ConstraintName: "fk_owner"})
	assert.False(t, ok, "foreign key violation is not a unique violation")
}

func TestUniqueViolation_SQLite(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS u (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO u(name) VALUES ('alice')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO u(name) VALUES ('alice')`)
	require.Error(t, err)

	c, ok := UniqueViolation(fmt.Errorf("db error: %w", err))
	require.True(t, ok)
	assert.Contains(t, c, "u.name")
}

func TestUniqueViolation_Other(t *testing.T) {
	_, ok := UniqueViolation(errors.New("connection refused"))
	assert.False(t, ok)

	_, ok = UniqueViolation(nil)
	assert.False(t, ok)
}
