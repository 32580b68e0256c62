package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/datakeeper/internal/api"
	"github.com/dmitrijs2005/datakeeper/internal/client/client"
	"github.com/dmitrijs2005/datakeeper/internal/client/config"
	"github.com/dmitrijs2005/datakeeper/internal/logging"
)

// requestTimeout bounds a single command round trip.
const requestTimeout = 10 * time.Second

type App struct {
	config *config.Config
	client client.Client
	logger logging.Logger
	reader *bufio.Reader

	mu  sync.Mutex
	out io.Writer
}

func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	c, err := client.NewGRPCClient(cfg.ServerEndpointAddr, cfg.ExternalID, cfg.SecretKey)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, c, logger, os.Stdin, os.Stdout), nil
}

func newApp(cfg *config.Config, c client.Client, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{config: cfg, client: c, logger: logger, reader: bufio.NewReader(in), out: out}
}

// Run starts the inbox watcher and blocks in the REPL until the user exits,
// input ends or ctx is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() {
		if err := a.client.Close(); err != nil {
			a.logger.Warn(ctx, "close client", "error", err.Error())
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.WatchInbox(ctx, a.config.ReconnectInterval)
	}()

	a.println(fmt.Sprintf("DataKeeper CLI, acting as %d (type /help for commands)", a.config.ExternalID))
	runREPL(ctx, a, func() string { return fmt.Sprintf("%d", a.config.ExternalID) }, bufio.NewScanner(a.reader))

	cancel()
	wg.Wait()
}

func (a *App) println(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintln(a.out, s)
}

func (a *App) printDM(m api.DirectMessage) {
	a.println(fmt.Sprintf("[dm %s] %s", m.SentAt.Local().Format(time.TimeOnly), m.Text))
}

// report prints the reply or, on failure, the message meant for the user.
func (a *App) report(ctx context.Context, reply string, err error) error {
	if err == nil {
		a.println(reply)
		return nil
	}

	var re *client.ReplyError
	switch {
	case errors.As(err, &re):
		a.println(re.Message)
	case errors.Is(err, client.ErrUnavailable):
		a.println("Server is unavailable, try again later.")
	default:
		a.logger.Error(ctx, "command failed", "error", err.Error())
		a.println("Error: " + err.Error())
	}
	return err
}
