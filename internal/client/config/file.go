package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/datakeeper/internal/flagx"
	"github.com/dmitrijs2005/datakeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is used only for unmarshalling; zero values are ignored.
type FileConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	ExternalID         int64          `json:"external_id" yaml:"external_id"`
	SecretKey          string         `json:"secret_key" yaml:"secret_key"`
	ReconnectInterval  timex.Duration `json:"reconnect_interval" yaml:"reconnect_interval"`
}

func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = fc.ServerEndpointAddr
	}
	if fc.ExternalID != 0 {
		cfg.ExternalID = fc.ExternalID
	}
	if fc.SecretKey != "" {
		cfg.SecretKey = fc.SecretKey
	}
	if fc.ReconnectInterval.Duration != 0 {
		cfg.ReconnectInterval = fc.ReconnectInterval.Duration
	}
	return nil
}
