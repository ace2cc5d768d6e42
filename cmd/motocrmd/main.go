// Command motocrmd runs the HTTP API as a long-lived service, e.g. under
// systemd. It is equivalent to "motocrm serve --log-stderr".
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/motoloc/motocrm/internal/cli/serve"
	"github.com/motoloc/motocrm/internal/config"
	"github.com/motoloc/motocrm/internal/logging"
)

func main() {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	cfg, err := config.Load(os.Getenv("MOTOCRM_CONFIG"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if _, err := logging.Init(cfg, true); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	slog.Info("motocrmd starting", "addr", cfg.Server.Addr, "database", cfg.Database.Path, "pid", os.Getpid())

	// Blocks until shutdown
	if err := serve.Run(ctx, cfg, cfg.Server.Addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("motocrmd shut down gracefully")
}
