// Package accounts persists account credentials: the binding between an
// external identity, a username and a password digest.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/datakeeper/internal/server/models"
)

// Repository is the credential store.
//
// Lookups return common.ErrorNotFound when no row matches. Create returns a
// common.ConflictError when external_id or username is already taken; the
// insert is then not applied.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByExternalID(ctx context.Context, externalID int64) (*models.Account, error)
	FindByUsernameOrExternalID(ctx context.Context, userName string, externalID int64) (*models.Account, error)
	FindByLogin(ctx context.Context, userName string, externalID int64) (*models.Account, error)
}
