package cli

import (
	"github.com/spf13/cobra"

	"github.com/lockgraph/lockgraph/internal/server"
	"github.com/lockgraph/lockgraph/pkg/config"
)

// newServeCmd creates the serve command.
// It starts the HTTP API server and blocks until interrupted.
func newServeCmd() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the lockgraph HTTP API server",
		Long: `Run the HTTP API server.

The server exposes POST /api/parse, GET /api/formats, and GET /healthz.
Configuration is read from a TOML file when --config is given; --addr
overrides the configured listen address.

Examples:
  lockgraph serve
  lockgraph serve --addr :9090
  lockgraph serve --config lockgraph.toml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := loggerFromContext(c.Context())
			return server.New(cfg, logger).Run(c.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")

	return cmd
}
