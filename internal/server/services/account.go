// Package services contains the server-side business logic: account
// registration and authentication, and the session-gated key-value
// operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/datakeeper/internal/common"
	"github.com/dmitrijs2005/datakeeper/internal/passwd"
	"github.com/dmitrijs2005/datakeeper/internal/server/models"
	"github.com/dmitrijs2005/datakeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/datakeeper/internal/server/session"
)

// AccountService handles registration, login and logout. It owns the session
// registry; other services receive it through Sessions.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *passwd.Hasher
	sessions    *session.Registry
}

// NewAccountService constructs an AccountService with an empty session registry.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher *passwd.Hasher) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		sessions:    session.NewRegistry(),
	}
}

// Sessions returns the registry of logged-in identities.
func (s *AccountService) Sessions() *session.Registry {
	return s.sessions
}

// Register creates an account binding externalID to userName.
//
// An existing account for either value yields ErrAlreadyRegistered. A unique
// constraint firing on insert (a concurrent registration won) yields
// ErrRegistrationFailed wrapping the conflict.
func (s *AccountService) Register(ctx context.Context, externalID int64, userName, password string) (*models.Account, error) {
	if userName == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrInvalidInput)
	}

	repo := s.repomanager.Accounts(s.db)

	_, err := repo.FindByUsernameOrExternalID(ctx, userName, externalID)
	switch {
	case err == nil:
		return nil, common.ErrAlreadyRegistered
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error checking registration: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	a, err := repo.Create(ctx, &models.Account{ExternalID: externalID, UserName: userName, CredentialHash: digest})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("%w: %w", common.ErrRegistrationFailed, err)
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return a, nil
}

// FindByCredentials returns the account registered by externalID under
// userName whose password is password. Any mismatch yields
// ErrInvalidCredentials without telling which field was wrong.
func (s *AccountService) FindByCredentials(ctx context.Context, externalID int64, userName, password string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)

	a, err := repo.FindByLogin(ctx, userName, externalID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Burn(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching account: %w", err)
	}

	ok, err := s.hasher.Verify(a.CredentialHash, password)
	if err != nil {
		return nil, fmt.Errorf("error verifying credentials of account %d: %w", a.ID, err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}
	return a, nil
}

// Login marks externalID as logged in when the credentials match.
func (s *AccountService) Login(ctx context.Context, externalID int64, userName, password string) (*models.Account, error) {
	a, err := s.FindByCredentials(ctx, externalID, userName, password)
	if err != nil {
		return nil, err
	}
	s.sessions.MarkLoggedIn(externalID)
	return a, nil
}

// Logout ends the session of externalID, or returns ErrNotLoggedIn if there
// was none. The account itself is not consulted.
func (s *AccountService) Logout(_ context.Context, externalID int64) error {
	if !s.sessions.MarkLoggedOut(externalID) {
		return common.ErrNotLoggedIn
	}
	return nil
}
