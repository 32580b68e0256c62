package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/datakeeper/internal/common"
	"github.com/dmitrijs2005/datakeeper/internal/dbx"
)

// SQLiteRepository implements Repository for the modernc sqlite driver.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, ownerID int64, key, value string) (bool, error) {
	return upsert(ctx, r, ownerID, key, value)
}

func (r *SQLiteRepository) update(ctx context.Context, ownerID int64, key, value string) (int64, error) {
	query := `UPDATE data_entries SET data_value = ?, updated_at = CURRENT_TIMESTAMP
		WHERE owner_account_id = ? AND data_key = ?`
	return execAffected(ctx, r.db, query, value, ownerID, key)
}

func (r *SQLiteRepository) insertIfAbsent(ctx context.Context, ownerID int64, key, value string) (int64, error) {
	query := `INSERT INTO data_entries (owner_account_id, data_key, data_value) VALUES (?, ?, ?)
		ON CONFLICT (owner_account_id, data_key) DO NOTHING`
	return execAffected(ctx, r.db, query, ownerID, key, value)
}

func (r *SQLiteRepository) Get(ctx context.Context, ownerID int64, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT data_value FROM data_entries WHERE owner_account_id = ? AND data_key = ?`,
		ownerID, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", common.ErrorNotFound
	case err != nil:
		return "", fmt.Errorf("db error: %w", err)
	}
	return value, nil
}
