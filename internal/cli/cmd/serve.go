package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/promptcast/internal/bootstrap"
	"github.com/bnema/promptcast/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daemon",
	Long: `Launch (or attach to) the browser and serve prompt actions.

The daemon installs the page bridge into every tab, arms the configured
shortcuts, provides the selection menu and, when control.listen is set,
accepts requests from 'promptcast send'. Configuration changes are picked
up without a restart; browser settings apply on the next start.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	daemon, err := bootstrap.StartDaemon(ctx, bootstrap.DaemonInput{
		Manager: app.Manager,
		Version: app.BuildInfo.Version,
	})
	if err != nil {
		return err
	}
	defer daemon.Close()

	logging.FromContext(ctx).Info().Str("config", app.Manager.ConfigFile()).Msg("promptcast is running")

	return daemon.Wait(ctx)
}
