// Package server wires the DataKeeper server together: storage, services,
// the private mailbox and the gRPC endpoint, and runs them until a stop
// signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/datakeeper/internal/logging"
	"github.com/dmitrijs2005/datakeeper/internal/passwd"
	"github.com/dmitrijs2005/datakeeper/internal/server/config"
	"github.com/dmitrijs2005/datakeeper/internal/server/delivery"
	"github.com/dmitrijs2005/datakeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/datakeeper/internal/server/services"

	gs "github.com/dmitrijs2005/datakeeper/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	accounts *services.AccountService
	data     *services.DataService
	mailbox  *delivery.Mailbox
}

// NewApp opens the database, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, m, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	as := services.NewAccountService(db, m, passwd.NewHasher(c.Argon2))
	mb := delivery.NewMailbox(c.MailboxCapacity)
	ds := services.NewDataService(db, m, as.Sessions(), mb)

	return &App{config: c, logger: logger, db: db, accounts: as, data: ds, mailbox: mb}, nil
}

// initSignalHandler cancels the run on SIGINT, SIGTERM or SIGQUIT. The
// returned channel is closed once the handler has stopped listening, which
// happens on the first signal or when ctx is done.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) <-chan struct{} {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer signal.Stop(sigs)

		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
	return done
}

// Run serves until ctx is cancelled or a stop signal arrives, then releases
// sessions and the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver)

	signalsDone := app.initSignalHandler(ctx, cancelFunc)

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accounts, app.data, app.mailbox,
		app.config.SecretKey, app.config.ShutdownTimeout)
	runErr := s.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", runErr.Error())
	}
	cancelFunc()
	<-signalsDone

	sessions := app.accounts.Sessions()
	app.logger.Info(ctx, "Dropping sessions", "count", sessions.Len())
	sessions.Clear()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
