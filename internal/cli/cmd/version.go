package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/promptcast/internal/cli/styles"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Aliases:     []string{"about"},
	Short:       "Show version and build information",
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println(styles.NewAboutRenderer(styles.NewTheme()).Render(buildInfo))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
