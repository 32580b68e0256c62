package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/datakeeper/internal/common"
	"github.com/dmitrijs2005/datakeeper/internal/dbx"
	"github.com/dmitrijs2005/datakeeper/internal/passwd"
	"github.com/dmitrijs2005/datakeeper/internal/server/models"
	"github.com/dmitrijs2005/datakeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/datakeeper/internal/server/repositories/entries"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func cheapHasher() *passwd.Hasher {
	return passwd.NewHasher(passwd.Params{MemoryKiB: 64, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16})
}

type fakeAccountsRepo struct {
	findEitherOut *models.Account
	findEitherErr error

	createErr error
	created   *models.Account

	loginOut *models.Account
	loginErr error

	byExternalOut *models.Account
	byExternalErr error
}

func (f *fakeAccountsRepo) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.ID = 1
	f.created = a
	return a, nil
}

func (f *fakeAccountsRepo) FindByExternalID(context.Context, int64) (*models.Account, error) {
	if f.byExternalErr != nil {
		return nil, f.byExternalErr
	}
	if f.byExternalOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.byExternalOut, nil
}

func (f *fakeAccountsRepo) FindByUsernameOrExternalID(context.Context, string, int64) (*models.Account, error) {
	if f.findEitherErr != nil {
		return nil, f.findEitherErr
	}
	if f.findEitherOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.findEitherOut, nil
}

func (f *fakeAccountsRepo) FindByLogin(context.Context, string, int64) (*models.Account, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if f.loginOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.loginOut, nil
}

type fakeEntriesRepo struct {
	upsertCreated bool
	upsertErr     error

	value  string
	getErr error
}

func (f *fakeEntriesRepo) Upsert(context.Context, int64, string, string) (bool, error) {
	return f.upsertCreated, f.upsertErr
}

func (f *fakeEntriesRepo) Get(context.Context, int64, string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.value, nil
}

type fakeRepoManager struct {
	a *fakeAccountsRepo
	e *fakeEntriesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return m.a }
func (m *fakeRepoManager) Entries(dbx.DBTX) entries.Repository          { return m.e }

type sentMessage struct {
	externalID int64
	text       string
}

type fakeMessenger struct {
	sent []sentMessage
	err  error
}

func (f *fakeMessenger) Send(_ context.Context, externalID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{externalID, text})
	return nil
}
