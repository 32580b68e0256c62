// Package grpc serves the KeeperService: it authenticates the caller identity
// attached to each command, dispatches to the account and data services, and
// maps their outcomes to user-facing replies or gRPC statuses.
package grpc

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/dmitrijs2005/datakeeper/internal/api"
	"github.com/dmitrijs2005/datakeeper/internal/logging"
	"github.com/dmitrijs2005/datakeeper/internal/server/delivery"
	"github.com/dmitrijs2005/datakeeper/internal/server/models"
	"github.com/dmitrijs2005/datakeeper/internal/server/services"
	"google.golang.org/grpc"
)

// AccountService is the subset of services.AccountService used by the handlers.
type AccountService interface {
	Register(ctx context.Context, externalID int64, userName, password string) (*models.Account, error)
	Login(ctx context.Context, externalID int64, userName, password string) (*models.Account, error)
	Logout(ctx context.Context, externalID int64) error
}

type DataService interface {
	Store(ctx context.Context, externalID int64, key, value string) (services.StoreResult, error)
	Get(ctx context.Context, externalID int64, key string) error
}

// Inboxes exposes the private channel to its owners.
type Inboxes interface {
	Subscribe(ctx context.Context, externalID int64) <-chan delivery.Message
	SetDirectMessages(externalID int64, enabled bool)
}

type GRPCServer struct {
	api.UnimplementedKeeperServer
	address         string
	accounts        AccountService
	data            DataService
	inboxes         Inboxes
	logger          logging.Logger
	secretKey       []byte
	shutdownTimeout time.Duration

	// closed when shutdown starts so long-lived Inbox streams let go
	stopping chan struct{}
}

func NewGRPCServer(address string, l logging.Logger, as AccountService, ds DataService, in Inboxes,
	secretKey string, shutdownTimeout time.Duration) *GRPCServer {
	return &GRPCServer{
		address:         address,
		logger:          l.With("module", "grpc_server"),
		accounts:        as,
		data:            ds,
		inboxes:         in,
		secretKey:       []byte(secretKey),
		shutdownTimeout: shutdownTimeout,
		stopping:        make(chan struct{}),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.identityInterceptor, s.loggingInterceptor),
		grpc.ChainStreamInterceptor(s.identityStreamInterceptor),
	)
	api.RegisterKeeperServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
// In-flight calls get shutdownTimeout to finish before the server stops hard.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		close(s.stopping)

		graceful := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(graceful)
		}()

		select {
		case <-graceful:
		case <-time.After(s.shutdownTimeout):
			s.logger.Warn(ctx, "Graceful stop timed out, forcing", "timeout", s.shutdownTimeout)
			srv.Stop()
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		srv.Stop()
		return err
	}

	<-stopped
	return nil
}
