package grpc

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/datakeeper/internal/api"
	"github.com/dmitrijs2005/datakeeper/internal/auth"
	"github.com/dmitrijs2005/datakeeper/internal/common"
	"github.com/dmitrijs2005/datakeeper/internal/logging"
	"github.com/dmitrijs2005/datakeeper/internal/passwd"
	"github.com/dmitrijs2005/datakeeper/internal/server/delivery"
	"github.com/dmitrijs2005/datakeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/datakeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const testSecret = "test-secret"

type harness struct {
	client  api.KeeperClient
	mailbox *delivery.Mailbox
}

func startServer(t *testing.T) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	db, m, err := repomanager.Open(ctx, repomanager.DriverSQLite,
		filepath.Join(t.TempDir(), "keeper.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(ctx, db))

	hasher := passwd.NewHasher(passwd.Params{MemoryKiB: 64, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16})
	as := services.NewAccountService(db, m, hasher)
	mb := delivery.NewMailbox(8)
	ds := services.NewDataService(db, m, as.Sessions(), mb)

	srv := NewGRPCServer("", logging.Nop(), as, ds, mb, testSecret, time.Second)

	lis := bufconn.Listen(1 << 20)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Error("server did not stop")
		}
		_ = db.Close()
	})

	return &harness{client: api.NewKeeperClient(conn), mailbox: mb}
}

func callerCtx(t *testing.T, externalID int64) context.Context {
	t.Helper()
	tok, err := auth.GenerateToken(externalID, []byte(testSecret), time.Minute)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), common.IdentityTokenHeaderName, tok)
}

func requireStatus(t *testing.T, err error, code codes.Code, msg string) {
	t.Helper()
	st, ok := status.FromError(err)
	require.True(t, ok, "not a status: %v", err)
	assert.Equal(t, code, st.Code())
	if msg != "" {
		assert.Equal(t, msg, st.Message())
	}
}

func TestScenarioOverGRPC(t *testing.T) {
	h := startServer(t)
	c := h.client
	one, two := callerCtx(t, 1), callerCtx(t, 2)

	inboxCtx, stopInbox := context.WithCancel(one)
	defer stopInbox()
	inbox, err := c.Inbox(inboxCtx, &api.InboxRequest{})
	require.NoError(t, err)

	r, err := c.Register(one, &api.RegisterRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "User 'alice' registered successfully!", r.Message)

	_, err = c.Register(two, &api.RegisterRequest{Username: "alice", Password: "pw2"})
	requireStatus(t, err, codes.AlreadyExists, msgAlreadyRegistered)

	_, err = c.Login(two, &api.LoginRequest{Username: "alice", Password: "pw1"})
	requireStatus(t, err, codes.Unauthenticated, msgInvalidCreds)

	_, err = c.Store(one, &api.StoreRequest{Key: "color", Value: "blue"})
	requireStatus(t, err, codes.Unauthenticated, msgStoreNeedsLogin)

	r, err = c.Login(one, &api.LoginRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome back, alice! You are now logged in.", r.Message)

	sr, err := c.Store(one, &api.StoreRequest{Key: "color", Value: "blue"})
	require.NoError(t, err)
	assert.True(t, sr.Created)
	assert.Equal(t, "Data stored with key 'color'.", sr.Message)

	sr, err = c.Store(one, &api.StoreRequest{Key: "color", Value: "red"})
	require.NoError(t, err)
	assert.False(t, sr.Created)
	assert.Equal(t, "Data for key 'color' updated.", sr.Message)

	r, err = c.Get(one, &api.GetRequest{Key: "color"})
	require.NoError(t, err)
	assert.Equal(t, msgSentToDM, r.Message)

	dm, err := inbox.Recv()
	require.NoError(t, err)
	assert.Equal(t, "Data for key 'color': red", dm.Text)
	assert.False(t, dm.SentAt.IsZero())

	_, err = c.Get(one, &api.GetRequest{Key: "missing"})
	requireStatus(t, err, codes.NotFound, "No data found for key 'missing'.")

	_, err = c.Store(one, &api.StoreRequest{Key: "", Value: "x"})
	requireStatus(t, err, codes.InvalidArgument, msgKeyRequired)

	r, err = c.SetDirectMessages(one, &api.SetDirectMessagesRequest{Enabled: false})
	require.NoError(t, err)
	assert.Equal(t, "Direct messages disabled.", r.Message)
	_, err = c.Get(one, &api.GetRequest{Key: "color"})
	requireStatus(t, err, codes.FailedPrecondition, msgDMRefused)

	r, err = c.Logout(one, &api.LogoutRequest{})
	require.NoError(t, err)
	assert.Equal(t, msgLoggedOut, r.Message)

	_, err = c.Logout(one, &api.LogoutRequest{})
	requireStatus(t, err, codes.Unauthenticated, msgNotLoggedIn)

	_, err = c.Get(one, &api.GetRequest{Key: "color"})
	requireStatus(t, err, codes.Unauthenticated, msgGetNeedsLogin)
}

func TestIdentityRequired(t *testing.T) {
	h := startServer(t)

	_, err := h.client.Login(context.Background(), &api.LoginRequest{Username: "a", Password: "b"})
	requireStatus(t, err, codes.Unauthenticated, "")

	forged, err := auth.GenerateToken(1, []byte("other-secret"), time.Minute)
	require.NoError(t, err)
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.IdentityTokenHeaderName, forged)
	_, err = h.client.Login(ctx, &api.LoginRequest{Username: "a", Password: "b"})
	requireStatus(t, err, codes.Unauthenticated, "invalid identity token")

	stream, err := h.client.Inbox(context.Background(), &api.InboxRequest{})
	require.NoError(t, err)
	_, err = stream.Recv()
	requireStatus(t, err, codes.Unauthenticated, "")

	r, err := h.client.Help(context.Background(), &api.HelpRequest{})
	require.NoError(t, err)
	assert.Equal(t, api.HelpText, r.Message)
}

func TestInboxDeliversQueuedMessages(t *testing.T) {
	h := startServer(t)
	require.NoError(t, h.mailbox.Send(context.Background(), 5, "queued"))

	stream, err := h.client.Inbox(callerCtx(t, 5), &api.InboxRequest{})
	require.NoError(t, err)
	m, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "queued", m.Text)
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop(), nil, nil, nil, "secret", time.Second)
	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.Nop(), nil, nil, nil, "secret", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}
