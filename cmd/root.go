// Package cmd wires the motocrm command tree
package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/board"
	"github.com/motoloc/motocrm/internal/cli/chat"
	"github.com/motoloc/motocrm/internal/cli/column"
	"github.com/motoloc/motocrm/internal/cli/dashboard"
	"github.com/motoloc/motocrm/internal/cli/export"
	"github.com/motoloc/motocrm/internal/cli/followup"
	"github.com/motoloc/motocrm/internal/cli/lead"
	"github.com/motoloc/motocrm/internal/cli/serve"
	"github.com/motoloc/motocrm/internal/cli/styles"
	"github.com/motoloc/motocrm/internal/cli/tag"
	"github.com/motoloc/motocrm/internal/cli/theme"
	"github.com/motoloc/motocrm/internal/cli/user"
	"github.com/motoloc/motocrm/internal/config"
	"github.com/motoloc/motocrm/internal/logging"
	themeservice "github.com/motoloc/motocrm/internal/services/theme"
)

// NewRootCmd builds the command tree. Every subcommand finds the loaded
// configuration, and unless it is standalone the shared CLI, in its context.
// cleanup releases what the run opened.
func NewRootCmd() (rootCmd *cobra.Command, cleanup func()) {
	var (
		cfgPath   string
		logStderr bool
		logCloser io.Closer
		c         *cli.CLI
	)

	rootCmd = &cobra.Command{
		Use:   "motocrm",
		Short: "motocrm - lead tracking for motorcycle rentals",
		Long: `motocrm tracks rental leads on a kanban board, schedules WhatsApp follow-ups,
browses the assistant's chat log and exports lead reports. Run "motocrm serve"
for the HTTP API used by the web panel.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if logCloser, err = logging.Init(cfg, logStderr); err != nil {
				return err
			}
			styles.Init(themeservice.Defaults().Brand)

			ctx := cli.WithConfig(cmd.Context(), cfg)
			if cmd.Annotations[cli.StandaloneAnnotation] == "" {
				if c, err = cli.NewCLI(ctx, cfg, nil); err != nil {
					return err
				}
				ctx = cli.WithCLI(ctx, c)
			}
			cmd.SetContext(ctx)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default is $XDG_CONFIG_HOME/motocrm/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&logStderr, "log-stderr", false, "Log to stderr instead of the log file")

	rootCmd.AddCommand(serve.ServeCmd())
	rootCmd.AddCommand(user.UserCmd())
	rootCmd.AddCommand(board.BoardCmd())
	rootCmd.AddCommand(column.ColumnCmd())
	rootCmd.AddCommand(lead.LeadCmd())
	rootCmd.AddCommand(tag.TagCmd())
	rootCmd.AddCommand(followup.FollowUpCmd())
	rootCmd.AddCommand(chat.ChatCmd())
	rootCmd.AddCommand(theme.ThemeCmd())
	rootCmd.AddCommand(dashboard.DashboardCmd())
	rootCmd.AddCommand(export.ExportCmd())

	return rootCmd, func() {
		if c != nil {
			if err := c.Close(); err != nil {
				slog.Error("failed to close cli", "error", err)
			}
		}
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}
}

// Execute runs the command tree with ctx
func Execute(ctx context.Context) error {
	rootCmd, cleanup := NewRootCmd()
	defer cleanup()
	return rootCmd.ExecuteContext(ctx)
}
