// Package serve runs the HTTP API together with its background workers,
// e.g., motocrm serve
package serve

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/config"
	"github.com/motoloc/motocrm/internal/events"
	"github.com/motoloc/motocrm/internal/server"
)

// ServeCmd returns the serve command. It builds its own application so the
// services publish to the event hub it runs.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the event stream and the follow-up worker",
		Long: `Run the HTTP API until interrupted. The listen address defaults to server.addr
from the configuration (MOTOCRM_SERVER_ADDR).

Examples:
  motocrm serve
  motocrm serve --addr=127.0.0.1:9000 --log-stderr
`,
		Annotations: map[string]string{cli.StandaloneAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.ConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = cfg.Server.Addr
			}
			return Run(cmd.Context(), cfg, addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	return cmd
}

// Run serves the API on addr until ctx is cancelled. The hub, the worker
// and the HTTP server share one lifetime: the first to fail stops the others.
func Run(ctx context.Context, cfg *config.Config, addr string) error {
	hub := events.NewHub(events.HubOptions{
		BroadcastBuffer: cfg.Events.BroadcastBuffer,
		ClientBuffer:    cfg.Events.ClientBuffer,
	})

	c, err := cli.NewCLI(ctx, cfg, hub)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			slog.Error("failed to close application", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return c.App.NewFollowUpWorker().Run(gctx) })
	g.Go(func() error {
		err := server.New(c.App, hub).Run(gctx, addr)
		hub.Shutdown()
		return err
	})
	return g.Wait()
}
