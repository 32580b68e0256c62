package cli

import (
	"context"
	"errors"
	"strings"
)

var errUsage = errors.New("usage")

func (a *App) usage(text string) error {
	a.println("Usage: " + text)
	return errUsage
}

// do runs one round trip under requestTimeout and reports its outcome.
func (a *App) do(ctx context.Context, call func(ctx context.Context) (string, error)) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	reply, err := call(ctx)
	return a.report(ctx, reply, err)
}

// credentials returns username and password from args, prompting for a
// password that was not typed inline.
func (a *App) credentials(args []string) (string, string, error) {
	username := args[0]
	if len(args) > 1 {
		return username, args[1], nil
	}

	a.mu.Lock()
	pw, err := GetPassword(a.out)
	a.mu.Unlock()
	if err != nil {
		return "", "", err
	}
	return username, string(pw), nil
}

func (a *App) Register(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 || len(args) > 2 {
		return a.usage("/register <username> [password]")
	}
	username, password, err := a.credentials(args)
	if err != nil {
		return a.report(ctx, "", err)
	}
	return a.do(ctx, func(ctx context.Context) (string, error) {
		return a.client.Register(ctx, username, password)
	})
}

func (a *App) Login(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 || len(args) > 2 {
		return a.usage("/login <username> [password]")
	}
	username, password, err := a.credentials(args)
	if err != nil {
		return a.report(ctx, "", err)
	}
	return a.do(ctx, func(ctx context.Context) (string, error) {
		return a.client.Login(ctx, username, password)
	})
}

func (a *App) Logout(ctx context.Context, _ string) error {
	return a.do(ctx, a.client.Logout)
}

// Store sends everything after the key and its single separator as the
// value, whitespace included.
func (a *App) Store(ctx context.Context, line string) error {
	key, value, found := cutWord(line)
	if key == "" || !found {
		return a.usage("/store <key> <value>")
	}
	return a.do(ctx, func(ctx context.Context) (string, error) {
		return a.client.Store(ctx, key, value)
	})
}

func (a *App) Get(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) != 1 {
		return a.usage("/get <key>")
	}
	return a.do(ctx, func(ctx context.Context) (string, error) {
		return a.client.Get(ctx, args[0])
	})
}

func (a *App) Help(ctx context.Context, _ string) error {
	return a.do(ctx, a.client.Help)
}

func (a *App) DirectMessages(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) != 1 {
		return a.usage("/dm <on|off>")
	}
	var enabled bool
	switch strings.ToLower(args[0]) {
	case "on":
		enabled = true
	case "off":
	default:
		return a.usage("/dm <on|off>")
	}
	return a.do(ctx, func(ctx context.Context) (string, error) {
		return a.client.SetDirectMessages(ctx, enabled)
	})
}
