// Package cmd provides Cobra CLI commands for promptcast.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/promptcast/internal/cli"
	"github.com/bnema/promptcast/internal/domain/build"
	"github.com/bnema/promptcast/internal/infrastructure/config"
)

// skipApp marks commands that run without loading the configuration.
const skipApp = "skip-app"

var (
	app        *cli.App
	buildInfo  build.Info
	configFile string
	rootCmd    = &cobra.Command{
		Use:   "promptcast",
		Short: "Send selected text to ChatGPT through configured prompt actions",
		Long: `promptcast drives a Chromium browser over the DevTools protocol.

Select text on any page, then press a configured shortcut or right-click to
pick an action: the selection is wrapped in the action's prompt, a ChatGPT
tab is opened (or reused) and the prompt is typed and submitted for you.

Use 'promptcast serve' to start the daemon, 'promptcast send' to trigger an
action from scripts, and 'promptcast config' to manage menus and actions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}
			if cmd.Annotations[skipApp] == "true" {
				return nil
			}

			var err error
			app, err = cli.NewApp(cli.Options{
				ConfigFile: configFile,
				FileLog:    cmd.Name() == "serve",
			})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/promptcast/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
	rootCmd.Version = info.Short()
}

// requireApp returns the app or an error when initialization was skipped.
func requireApp() (*cli.App, error) {
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app, nil
}

// configManager returns an unloaded manager for commands that skip app
// initialization.
func configManager() (*config.Manager, error) {
	if configFile != "" {
		return config.NewManagerForFile(configFile)
	}
	return config.NewManager()
}
