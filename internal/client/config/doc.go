// Package config loads runtime configuration for the DataKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-u int      external id the CLI acts as
//	-s string   identity token secret shared with the server
//	-i int      inbox reconnect interval (seconds)
//
// # File schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "external_id": 1001,
//	  "secret_key": "secretKey",
//	  "reconnect_interval": "3s"
//	}
package config
