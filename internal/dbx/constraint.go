package dbx

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// UniqueViolation reports whether err was raised by a unique constraint and,
// if so, returns a lowercase description of the violated constraint: the
// constraint name for PostgreSQL, "table.column[, table.column]" for SQLite.
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}
		return strings.ToLower(strings.TrimSpace(pgErr.ConstraintName)), true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		msg := liteErr.Error()
		if code&0xff != sqlite3.SQLITE_CONSTRAINT {
			return "", false
		}
		if code != sqlite3.SQLITE_CONSTRAINT_UNIQUE && code != sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY &&
			!strings.Contains(msg, "UNIQUE constraint failed") {
			return "", false
		}
		// "constraint failed: UNIQUE constraint failed: accounts.username (2067)"
		if i := strings.LastIndex(msg, "failed:"); i >= 0 {
			msg = msg[i+len("failed:"):]
		}
		if i := strings.LastIndex(msg, "("); i >= 0 {
			msg = msg[:i]
		}
		return strings.ToLower(strings.TrimSpace(msg)), true
	}

	return "", false
}
