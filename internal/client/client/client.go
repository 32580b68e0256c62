package client

import (
	"context"

	"github.com/dmitrijs2005/datakeeper/internal/api"
)

// Client is the command surface exposed to the CLI. Each method returns the
// server's public reply.
type Client interface {
	Close() error
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) (string, error)
	Store(ctx context.Context, key, value string) (string, error)
	Get(ctx context.Context, key string) (string, error)
	Help(ctx context.Context) (string, error)
	SetDirectMessages(ctx context.Context, enabled bool) (string, error)
	// Inbox calls handle for every private message until the stream breaks
	// or ctx is done.
	Inbox(ctx context.Context, handle func(api.DirectMessage)) error
}
