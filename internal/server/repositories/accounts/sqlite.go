package accounts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/datakeeper/internal/dbx"
	"github.com/dmitrijs2005/datakeeper/internal/server/models"
)

// SQLiteRepository implements Repository over a dbx.DBTX opened with the
// modernc sqlite driver.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `INSERT INTO accounts (external_id, username, credential_hash) VALUES (?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, account.ExternalID, account.UserName, account.CredentialHash)
	if err != nil {
		return nil, mapError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	account.ID = id

	return account, nil
}

func (r *SQLiteRepository) FindByExternalID(ctx context.Context, externalID int64) (*models.Account, error) {
	query := `SELECT id, external_id, username, credential_hash FROM accounts WHERE external_id = ?`
	return r.scanOne(ctx, query, externalID)
}

func (r *SQLiteRepository) FindByUsernameOrExternalID(ctx context.Context, userName string, externalID int64) (*models.Account, error) {
	query := `SELECT id, external_id, username, credential_hash FROM accounts WHERE username = ? OR external_id = ? LIMIT 1`
	return r.scanOne(ctx, query, userName, externalID)
}

func (r *SQLiteRepository) FindByLogin(ctx context.Context, userName string, externalID int64) (*models.Account, error) {
	query := `SELECT id, external_id, username, credential_hash FROM accounts WHERE username = ? AND external_id = ?`
	return r.scanOne(ctx, query, userName, externalID)
}

func (r *SQLiteRepository) scanOne(ctx context.Context, query string, args ...any) (*models.Account, error) {
	var a models.Account
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.ExternalID, &a.UserName, &a.CredentialHash); err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}
