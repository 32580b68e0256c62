package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the DataKeeper CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - ExternalID: the platform identity every command is sent as.
//   - SecretKey: HMAC secret used to sign identity tokens.
//   - ReconnectInterval: pause before the inbox watcher reconnects.
type Config struct {
	ServerEndpointAddr string
	ExternalID         int64
	SecretKey          string
	ReconnectInterval  time.Duration
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.ExternalID = 1
	c.SecretKey = "secretKey"
	c.ReconnectInterval = 3 * time.Second
}

func (c *Config) Validate() error {
	if c.ServerEndpointAddr == "" {
		return fmt.Errorf("server address is empty")
	}
	if c.ExternalID <= 0 {
		return fmt.Errorf("external id must be positive, got %d", c.ExternalID)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is empty")
	}
	if c.ReconnectInterval <= 0 {
		return fmt.Errorf("reconnect interval must be positive")
	}
	return nil
}

// LoadConfig constructs a Config from defaults, the optional config file and
// flags in args (without the program name). Later sources take precedence.
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
