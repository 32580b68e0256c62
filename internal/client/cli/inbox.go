package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/datakeeper/internal/client/client"
)

// WatchInbox keeps an Inbox stream open and prints every private message.
// A broken stream is reopened after interval until ctx is done.
func (a *App) WatchInbox(ctx context.Context, interval time.Duration) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	online := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		err := a.client.Inbox(ctx, a.printDM)
		if ctx.Err() != nil {
			return
		}

		switch {
		case err == nil:
			// server closed the stream, typically on shutdown
		case errors.Is(err, client.ErrUnavailable):
			if online {
				a.logger.Warn(ctx, "inbox unavailable, reconnecting", "interval", interval.String())
			}
			online = false
			timer.Reset(interval)
			continue
		default:
			a.logger.Error(ctx, "inbox stream failed", "error", err.Error())
		}
		online = true
		timer.Reset(interval)
	}
}
