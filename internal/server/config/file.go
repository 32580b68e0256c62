package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/datakeeper/internal/flagx"
	"github.com/dmitrijs2005/datakeeper/internal/passwd"
	"github.com/dmitrijs2005/datakeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration, shared by the JSON and
// YAML loaders. Durations accept "10s" style strings or integer nanoseconds.
// Zero values leave the current setting untouched.
type FileConfig struct {
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDriver   string         `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN      string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey        string         `json:"secret_key" yaml:"secret_key"`
	LogLevel         string         `json:"log_level" yaml:"log_level"`
	LogFormat        string         `json:"log_format" yaml:"log_format"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MailboxCapacity  int            `json:"mailbox_capacity" yaml:"mailbox_capacity"`
	Argon2           passwd.Params  `json:"argon2" yaml:"argon2"`
}

// parseFile overlays the file named by -c/-config, if any. The format is
// chosen by extension: .yaml/.yml for YAML, anything else is read as JSON.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)

	// nothing to load
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&c.DatabaseDriver, fc.DatabaseDriver)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.SecretKey, fc.SecretKey)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
	if fc.ShutdownTimeout.Duration != 0 {
		c.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
	if fc.MailboxCapacity != 0 {
		c.MailboxCapacity = fc.MailboxCapacity
	}

	a := fc.Argon2
	if a.MemoryKiB != 0 {
		c.Argon2.MemoryKiB = a.MemoryKiB
	}
	if a.Iterations != 0 {
		c.Argon2.Iterations = a.Iterations
	}
	if a.Parallelism != 0 {
		c.Argon2.Parallelism = a.Parallelism
	}
	if a.SaltLength != 0 {
		c.Argon2.SaltLength = a.SaltLength
	}
	if a.KeyLength != 0 {
		c.Argon2.KeyLength = a.KeyLength
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
