package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/promptcast/internal/cli/styles"
	"github.com/bnema/promptcast/internal/infrastructure/config"
)

var exportOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the configuration file path",
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(_ *cobra.Command, _ []string) error {
		mgr, err := configManager()
		if err != nil {
			return err
		}
		fmt.Println(mgr.ConfigFile())
		return nil
	},
}

var configSchemaCmd = &cobra.Command{
	Use:         "schema",
	Short:       "Write config.schema.json next to the configuration file",
	Annotations: map[string]string{skipApp: "true"},
	RunE:        runConfigSchema,
}

var configValidateCmd = &cobra.Command{
	Use:         "validate [file]",
	Short:       "Check a configuration file and report every problem",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipApp: "true"},
	RunE:        runConfigValidate,
}

var configImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Replace the menus with an exported JSON document",
	Long: `Import a JSON configuration document in the current menu layout or the
legacy flat layout. Legacy actions become the "Default Menu". Browser,
timing and other daemon settings are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigImport,
}

var configExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the menus as a JSON document",
	RunE:  runConfigExport,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configSchemaCmd, configValidateCmd, configImportCmd, configExportCmd)

	configExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")
}

func runConfigSchema(_ *cobra.Command, _ []string) error {
	mgr, err := configManager()
	if err != nil {
		return err
	}
	path, err := config.GenerateSchemaFile(mgr.ConfigFile())
	if err != nil {
		return err
	}
	fmt.Print(styles.NewConfigRenderer(styles.NewTheme()).RenderWritten("schema", path))
	return nil
}

func runConfigValidate(_ *cobra.Command, args []string) error {
	renderer := styles.NewConfigRenderer(styles.NewTheme())

	var (
		mgr *config.Manager
		err error
	)
	if len(args) == 1 {
		mgr, err = config.NewManagerForFile(args[0])
	} else {
		mgr, err = configManager()
	}
	if err != nil {
		return err
	}
	if err := mgr.Load(); err != nil {
		fmt.Print(renderer.RenderError(err))
		return fmt.Errorf("%s is not valid", mgr.ConfigFile())
	}

	cfg := mgr.Get()
	actions := 0
	for _, m := range cfg.Menus {
		actions += len(m.Actions)
	}
	fmt.Print(renderer.RenderValid(mgr.ConfigFile(), len(cfg.Menus), actions))
	return nil
}

func runConfigImport(_ *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewConfigRenderer(app.Theme)

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	cfg := app.Manager.Get()
	result, err := config.ImportDocument(cfg, f)
	if err != nil {
		return err
	}
	if err := app.Manager.Save(cfg); err != nil {
		fmt.Print(renderer.RenderError(err))
		return err
	}
	fmt.Print(renderer.RenderImported(args[0], app.Manager.ConfigFile(), result == config.LegacyMigrated))
	return nil
}

func runConfigExport(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOutput, err)
		}
		defer f.Close()
		w = f
	}
	if err := config.ExportDocument(app.Manager.Get(), w); err != nil {
		return err
	}
	if exportOutput != "" {
		fmt.Fprint(os.Stderr, styles.NewConfigRenderer(app.Theme).RenderWritten("configuration", exportOutput))
	}
	return nil
}
