package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/datakeeper/internal/common"
	"github.com/dmitrijs2005/datakeeper/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, ownerID int64, key, value string) (bool, error) {
	return upsert(ctx, r, ownerID, key, value)
}

func (r *PostgresRepository) update(ctx context.Context, ownerID int64, key, value string) (int64, error) {
	query := `
		UPDATE data_entries SET data_value = $3, updated_at = CURRENT_TIMESTAMP
		WHERE owner_account_id = $1 AND data_key = $2
	`
	return execAffected(ctx, r.db, query, ownerID, key, value)
}

func (r *PostgresRepository) insertIfAbsent(ctx context.Context, ownerID int64, key, value string) (int64, error) {
	query := `
		INSERT INTO data_entries (owner_account_id, data_key, data_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_account_id, data_key) DO NOTHING
	`
	return execAffected(ctx, r.db, query, ownerID, key, value)
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID int64, key string) (string, error) {
	query := `SELECT data_value FROM data_entries WHERE owner_account_id = $1 AND data_key = $2`

	var value string
	err := r.db.QueryRowContext(ctx, query, ownerID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrorNotFound
	}
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return value, nil
}

func execAffected(ctx context.Context, db dbx.DBTX, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
