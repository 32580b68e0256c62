package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/datakeeper/internal/api"
	"github.com/dmitrijs2005/datakeeper/internal/client/config"
	"github.com/dmitrijs2005/datakeeper/internal/logging"
)

type call struct {
	method string
	args   []string
}

// fakeClient records calls and answers with reply/err.
type fakeClient struct {
	mu     sync.Mutex
	calls  []call
	reply  string
	err    error
	closed bool

	// inbox is consumed by successive Inbox calls.
	inbox []func(ctx context.Context, handle func(api.DirectMessage)) error
}

func (f *fakeClient) record(method string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{method: method, args: args})
	return f.reply, f.err
}

func (f *fakeClient) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeClient) Register(_ context.Context, u, p string) (string, error) {
	return f.record("register", u, p)
}

func (f *fakeClient) Login(_ context.Context, u, p string) (string, error) {
	return f.record("login", u, p)
}

func (f *fakeClient) Logout(context.Context) (string, error) { return f.record("logout") }

func (f *fakeClient) Store(_ context.Context, k, v string) (string, error) {
	return f.record("store", k, v)
}

func (f *fakeClient) Get(_ context.Context, k string) (string, error) { return f.record("get", k) }

func (f *fakeClient) Help(context.Context) (string, error) { return f.record("help") }

func (f *fakeClient) SetDirectMessages(_ context.Context, enabled bool) (string, error) {
	if enabled {
		return f.record("dm", "on")
	}
	return f.record("dm", "off")
}

func (f *fakeClient) Inbox(ctx context.Context, handle func(api.DirectMessage)) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{method: "inbox"})
	var next func(context.Context, func(api.DirectMessage)) error
	if len(f.inbox) > 0 {
		next, f.inbox = f.inbox[0], f.inbox[1:]
	}
	f.mu.Unlock()

	if next == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return next(ctx, handle)
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func newTestApp(t *testing.T, fc *fakeClient, input string) (*App, *syncBuffer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ReconnectInterval = 10 * time.Millisecond

	out := &syncBuffer{}
	return newApp(cfg, fc, logging.Nop(), strings.NewReader(input), out), out
}
