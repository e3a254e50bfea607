package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/promptcast/internal/cli/styles"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/infrastructure/persistence/sqlite"
)

var (
	historyJSON    bool
	historyLimit   int
	historyRequest string
)

const defaultHistoryLimit = 20

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded injection attempts",
	Long: `List the most recent injection attempts, newest first.

Each row is one attempt: retries and new-tab fallbacks show up as their own
rows. Use --request to see every attempt of one request.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", defaultHistoryLimit, "maximum attempts to show")
	historyCmd.Flags().StringVar(&historyRequest, "request", "", "show the attempts of one request id")
}

func runHistory(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	if !app.Config.History.Enabled {
		return errors.New("attempt history is disabled (history.enabled = false)")
	}
	ctx := app.Ctx()

	db, err := sqlite.NewConnection(ctx, app.Config.History.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = sqlite.Close(db) }()

	repo := sqlite.NewAttemptRepository(db)
	var attempts []*entity.AttemptRecord
	if historyRequest != "" {
		attempts, err = repo.ByRequest(ctx, historyRequest)
	} else {
		attempts, err = repo.Recent(ctx, historyLimit)
	}
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if historyJSON {
		return writeJSON(attempts)
	}
	fmt.Println(styles.NewHistoryRenderer(app.Theme).RenderAttempts(attempts))
	return nil
}
