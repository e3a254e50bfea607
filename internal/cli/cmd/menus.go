package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/promptcast/internal/cli/styles"
	"github.com/bnema/promptcast/internal/domain/entity"
)

var (
	menusJSON     bool
	shortcutsJSON bool
)

var menusCmd = &cobra.Command{
	Use:   "menus",
	Short: "Print the configured menus and actions",
	RunE:  runMenus,
}

var shortcutsCmd = &cobra.Command{
	Use:   "shortcuts",
	Short: "Print the shortcut map and conflicting shortcuts",
	Long: `Print every shortcut pages listen for, shortcuts that could not be
parsed, and canonical shortcuts claimed by more than one action. When two
actions share a shortcut the first one in menu order wins.`,
	RunE: runShortcuts,
}

func init() {
	rootCmd.AddCommand(menusCmd)
	rootCmd.AddCommand(shortcutsCmd)

	menusCmd.Flags().BoolVar(&menusJSON, "json", false, "output the menu entries as JSON")
	shortcutsCmd.Flags().BoolVar(&shortcutsJSON, "json", false, "output the shortcut map as JSON")
}

func runMenus(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	cfg := app.Config.Entity()

	if menusJSON {
		return writeJSON(entity.BuildMenuEntries(cfg))
	}
	fmt.Print(styles.NewMenuRenderer(app.Theme).RenderMenus(cfg))
	return nil
}

func runShortcuts(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	cfg := app.Config.Entity()
	bindings, rejected := entity.BuildShortcutMap(cfg)

	if shortcutsJSON {
		return writeJSON(bindings)
	}
	conflicts := entity.FindShortcutConflicts(cfg)
	fmt.Print(styles.NewMenuRenderer(app.Theme).RenderShortcuts(bindings, rejected, conflicts))
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
