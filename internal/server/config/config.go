// Package config handles configuration for the server component,
// including defaults, a JSON or YAML file overlay, and command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/datakeeper/internal/passwd"
)

// Config holds runtime settings for the DataKeeper server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint.
//   - DatabaseDriver: "pgx" (PostgreSQL) or "sqlite".
//   - DatabaseDSN: DSN understood by DatabaseDriver.
//   - SecretKey: HMAC secret shared with the command platform for identity tokens (HS256).
//   - LogLevel / LogFormat: slog level name and "json" or "text".
//   - ShutdownTimeout: how long in-flight commands may run after a stop signal.
//   - MailboxCapacity: private messages kept per identity while nobody listens.
//   - Argon2: password hashing cost; file only.
type Config struct {
	EndpointAddrGRPC string
	DatabaseDriver   string
	DatabaseDSN      string
	SecretKey        string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration
	MailboxCapacity  int
	Argon2           passwd.Params
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "file:datakeeper.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	c.SecretKey = "secretKey"
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.ShutdownTimeout = 10 * time.Second
	c.MailboxCapacity = 32
	c.Argon2 = passwd.DefaultParams()
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "pgx", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q (want pgx or sqlite)", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database dsn is empty")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is empty")
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout must not be negative")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags in args
// (without the program name).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
