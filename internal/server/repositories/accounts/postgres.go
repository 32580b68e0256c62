package accounts

import (
	"context"

	"github.com/dmitrijs2005/datakeeper/internal/dbx"
	"github.com/dmitrijs2005/datakeeper/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx)
// opened with the pgx driver.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (external_id, username, credential_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ExternalID, account.UserName, account.CredentialHash).Scan(&account.ID)
	if err != nil {
		return nil, mapError(err)
	}

	return account, nil
}

func (r *PostgresRepository) FindByExternalID(ctx context.Context, externalID int64) (*models.Account, error) {
	query :=
		`SELECT id, external_id, username, credential_hash FROM accounts
		 WHERE external_id = $1
		 `

	return r.scanOne(ctx, query, externalID)
}

func (r *PostgresRepository) FindByUsernameOrExternalID(ctx context.Context, userName string, externalID int64) (*models.Account, error) {
	query :=
		`SELECT id, external_id, username, credential_hash FROM accounts
		 WHERE username = $1 OR external_id = $2
		 LIMIT 1
		 `

	return r.scanOne(ctx, query, userName, externalID)
}

func (r *PostgresRepository) FindByLogin(ctx context.Context, userName string, externalID int64) (*models.Account, error) {
	query :=
		`SELECT id, external_id, username, credential_hash FROM accounts
		 WHERE username = $1 AND external_id = $2
		 `

	return r.scanOne(ctx, query, userName, externalID)
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*models.Account, error) {
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.ExternalID, &a.UserName, &a.CredentialHash)
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}
