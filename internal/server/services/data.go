package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/datakeeper/internal/common"
	"github.com/dmitrijs2005/datakeeper/internal/dbx"
	"github.com/dmitrijs2005/datakeeper/internal/server/delivery"
	"github.com/dmitrijs2005/datakeeper/internal/server/models"
	"github.com/dmitrijs2005/datakeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/datakeeper/internal/server/session"
)

// StoreResult tells whether Store inserted a new key or replaced a value.
type StoreResult struct {
	Created bool
}

// DataService implements store/get for logged-in identities. Values read by
// Get are sent through the private channel, never returned to the caller.
type DataService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *session.Registry
	messenger   delivery.Messenger
}

func NewDataService(db *sql.DB, m repomanager.RepositoryManager, sessions *session.Registry, messenger delivery.Messenger) *DataService {
	return &DataService{db: db, repomanager: m, sessions: sessions, messenger: messenger}
}

// account checks the session of externalID and resolves its account.
func (s *DataService) account(ctx context.Context, externalID int64) (*models.Account, error) {
	if !s.sessions.IsLoggedIn(externalID) {
		return nil, common.ErrNotAuthenticated
	}

	a, err := s.repomanager.Accounts(s.db).FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error resolving account: %w", err)
	}
	return a, nil
}

// Store writes value under key for the caller, replacing any previous value.
func (s *DataService) Store(ctx context.Context, externalID int64, key, value string) (StoreResult, error) {
	a, err := s.account(ctx, externalID)
	if err != nil {
		return StoreResult{}, err
	}
	if key == "" {
		return StoreResult{}, fmt.Errorf("%w: key is required", common.ErrInvalidInput)
	}

	var res StoreResult
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Entries(tx).Upsert(ctx, a.ID, key, value)
		res.Created = created
		return err
	})
	if err != nil {
		return StoreResult{}, fmt.Errorf("error storing key: %w", err)
	}
	return res, nil
}

// Get sends the value stored under key to the caller's private channel.
func (s *DataService) Get(ctx context.Context, externalID int64, key string) error {
	a, err := s.account(ctx, externalID)
	if err != nil {
		return err
	}

	value, err := s.repomanager.Entries(s.db).Get(ctx, a.ID, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrNoSuchKey
		}
		return fmt.Errorf("error reading key: %w", err)
	}

	if err := s.messenger.Send(ctx, externalID, FormatValue(key, value)); err != nil {
		if errors.Is(err, common.ErrDeliveryRefused) {
			return common.ErrDeliveryRefused
		}
		return fmt.Errorf("error sending value: %w", err)
	}
	return nil
}

// FormatValue renders the private message carrying a stored value.
func FormatValue(key, value string) string {
	return fmt.Sprintf("Data for key '%s': %s", key, value)
}
