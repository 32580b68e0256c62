package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/datakeeper/internal/flagx"
)

// parseFlags populates Config from the -a, -u, -s and -i flags in args.
// Other flags are filtered out with flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-u", "-s", "-i"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.Int64Var(&cfg.ExternalID, "u", cfg.ExternalID, "external id to act as")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "identity token secret")
	reconnect := fs.Int("i", int(cfg.ReconnectInterval.Seconds()), "inbox reconnect interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.ReconnectInterval = time.Duration(*reconnect) * time.Second
		}
	})
	return nil
}
