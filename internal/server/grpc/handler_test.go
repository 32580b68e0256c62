package grpc

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/dmitrijs2005/datakeeper/internal/api"
	"github.com/dmitrijs2005/datakeeper/internal/common"
	"github.com/dmitrijs2005/datakeeper/internal/logging"
	"github.com/dmitrijs2005/datakeeper/internal/server/delivery"
	"github.com/dmitrijs2005/datakeeper/internal/server/models"
	"github.com/dmitrijs2005/datakeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ---- fakes ----

type fakeAccounts struct {
	account *models.Account
	err     error
}

func (f *fakeAccounts) Register(context.Context, int64, string, string) (*models.Account, error) {
	return f.account, f.err
}
func (f *fakeAccounts) Login(context.Context, int64, string, string) (*models.Account, error) {
	return f.account, f.err
}
func (f *fakeAccounts) Logout(context.Context, int64) error { return f.err }

type fakeData struct {
	res services.StoreResult
	err error
}

func (f *fakeData) Store(context.Context, int64, string, string) (services.StoreResult, error) {
	return f.res, f.err
}
func (f *fakeData) Get(context.Context, int64, string) error { return f.err }

type fakeInboxes struct {
	enabled map[int64]bool
}

func (f *fakeInboxes) Subscribe(ctx context.Context, _ int64) <-chan delivery.Message {
	ch := make(chan delivery.Message)
	go func() { <-ctx.Done(); close(ch) }()
	return ch
}
func (f *fakeInboxes) SetDirectMessages(id int64, enabled bool) { f.enabled[id] = enabled }

func newTestServer(buf *bytes.Buffer, as AccountService, ds DataService) *GRPCServer {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(buf, nil)))
	return NewGRPCServer("", logger, as, ds, &fakeInboxes{enabled: map[int64]bool{}}, "secret", 0)
}

func withCaller(id int64) context.Context {
	return context.WithValue(context.Background(), externalIDKey, id)
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(&buf, &fakeAccounts{err: errors.New("pq: connection refused to 10.0.0.5")}, &fakeData{err: errors.New("disk I/O error")})
	ctx := withCaller(1)

	_, err := s.Register(ctx, &api.RegisterRequest{Username: "a", Password: "b"})
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, msgInternal, st.Message())

	_, err = s.Store(ctx, &api.StoreRequest{Key: "k", Value: "v"})
	st, _ = status.FromError(err)
	assert.Equal(t, codes.Internal, st.Code())
	assert.NotContains(t, st.Message(), "disk")

	assert.Contains(t, buf.String(), "connection refused", "detail goes to the log")
	assert.Contains(t, buf.String(), "disk I/O error")
}

func TestErrorKindsToCodes(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
		msg  string
	}{
		{common.ErrNotAuthenticated, codes.Unauthenticated, msgGetNeedsLogin},
		{common.ErrAccountNotFound, codes.NotFound, msgUserNotFound},
		{common.ErrNoSuchKey, codes.NotFound, "No data found for key 'k'."},
		{common.ErrDeliveryRefused, codes.FailedPrecondition, msgDMRefused},
		{common.ErrInvalidInput, codes.InvalidArgument, msgKeyRequired},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		s := newTestServer(&buf, &fakeAccounts{}, &fakeData{err: tc.err})

		_, err := s.Get(withCaller(1), &api.GetRequest{Key: "k"})
		st, _ := status.FromError(err)
		assert.Equal(t, tc.code, st.Code(), tc.err.Error())
		assert.Equal(t, tc.msg, st.Message())
	}
}

func TestRegister_Messages(t *testing.T) {
	var buf bytes.Buffer
	ctx := withCaller(1)

	s := newTestServer(&buf, &fakeAccounts{err: common.ErrAlreadyRegistered}, &fakeData{})
	_, err := s.Register(ctx, &api.RegisterRequest{Username: "a", Password: "b"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	s = newTestServer(&buf, &fakeAccounts{err: errors.Join(common.ErrRegistrationFailed, common.ConflictError{Field: "username"})}, &fakeData{})
	_, err = s.Register(ctx, &api.RegisterRequest{Username: "a", Password: "b"})
	st, _ := status.FromError(err)
	assert.Equal(t, codes.AlreadyExists, st.Code())
	assert.Equal(t, msgRegistrationError, st.Message())

	s = newTestServer(&buf, &fakeAccounts{err: common.ErrInvalidInput}, &fakeData{})
	_, err = s.Register(ctx, &api.RegisterRequest{})
	st, _ = status.FromError(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, msgMissingCreds, st.Message())
}

func TestHandlersRequireCaller(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(&buf, &fakeAccounts{account: &models.Account{UserName: "a"}}, &fakeData{})

	_, err := s.Logout(context.Background(), &api.LogoutRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestSetDirectMessages(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(&buf, &fakeAccounts{}, &fakeData{})

	r, err := s.SetDirectMessages(withCaller(7), &api.SetDirectMessagesRequest{Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, "Direct messages enabled.", r.Message)
	assert.True(t, s.inboxes.(*fakeInboxes).enabled[7])
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(&buf, &fakeAccounts{}, &fakeData{})

	info := &grpc.UnaryServerInfo{FullMethod: api.KeeperService_Logout_FullMethodName}
	var seenID string
	_, err := s.loggingInterceptor(withCaller(42), nil, info, func(ctx context.Context, req any) (any, error) {
		seenID = requestIDFromContext(ctx)
		return nil, status.Error(codes.Unauthenticated, "x")
	})
	require.Error(t, err)

	out := buf.String()
	assert.NotEmpty(t, seenID)
	assert.True(t, strings.Contains(out, "request_id="+seenID), out)
	assert.Contains(t, out, "external_id=42")
	assert.Contains(t, out, "code=Unauthenticated")
}
