package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/bnema/promptcast/internal/cli/styles"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/infrastructure/clipboard"
	"github.com/bnema/promptcast/internal/infrastructure/control"
)

var (
	sendMenu          string
	sendAction        string
	sendText          string
	sendFromClipboard bool
	sendAddr          string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Run an action on text through the running daemon",
	Long: `Send text to a running 'promptcast serve' as if it had been selected in
the browser.

Examples:
  promptcast send --menu default --action summarize --text "..."
  promptcast send --menu research --action runAll --from-clipboard
  promptcast send --action summarize --text "..."   # first menu with that action`,
	RunE: runSend,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the daemon is running",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(statusCmd)

	sendCmd.Flags().StringVarP(&sendMenu, "menu", "m", "", "menu id (empty searches every menu)")
	sendCmd.Flags().StringVarP(&sendAction, "action", "a", "", "action id, or runAll")
	sendCmd.Flags().StringVarP(&sendText, "text", "t", "", "text to send")
	sendCmd.Flags().BoolVar(&sendFromClipboard, "from-clipboard", false, "send the clipboard contents")
	sendCmd.Flags().StringVar(&sendAddr, "addr", "", "control API address (default control.listen)")
	sendCmd.MarkFlagsMutuallyExclusive("text", "from-clipboard")
	_ = sendCmd.MarkFlagRequired("action")

	statusCmd.Flags().StringVar(&sendAddr, "addr", "", "control API address (default control.listen)")
}

// textReader is the clipboard read side.
type textReader interface {
	ReadText(ctx context.Context) (string, error)
}

// buildSendRequest resolves the flags into a reference and the text to send.
func buildSendRequest(ctx context.Context, menu, action, text string, fromClipboard bool, clip textReader) (entity.ActionRef, string, error) {
	ref := entity.ActionRef{MenuID: strings.TrimSpace(menu), ActionID: strings.TrimSpace(action)}
	if ref.ActionID == "" {
		return ref, "", errors.New("--action is required")
	}
	if ref.IsRunAll() && ref.MenuID == "" {
		return ref, "", errors.New("--menu is required with runAll")
	}

	if fromClipboard {
		var err error
		if text, err = clip.ReadText(ctx); err != nil {
			return ref, "", fmt.Errorf("read clipboard: %w", err)
		}
	}
	if strings.TrimSpace(text) == "" {
		return ref, "", errors.New("nothing to send: pass --text or --from-clipboard with a non-empty clipboard")
	}
	return ref, text, nil
}

func controlAddr(listen string) (string, error) {
	if sendAddr != "" {
		return sendAddr, nil
	}
	if listen == "" {
		return "", errors.New("control API is disabled (control.listen is empty); pass --addr")
	}
	return listen, nil
}

func runSend(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	ctx := app.Ctx()

	ref, text, err := buildSendRequest(ctx, sendMenu, sendAction, sendText, sendFromClipboard, clipboard.New())
	if err != nil {
		return err
	}
	addr, err := controlAddr(app.Config.Control.Listen)
	if err != nil {
		return err
	}

	renderer := styles.NewSendRenderer(app.Theme)
	resp, err := control.NewClient(addr).Execute(ctx, ref, text)
	if err != nil {
		fmt.Print(renderer.RenderError(err))
		return err
	}
	fmt.Print(renderer.RenderQueued(resp.Ref, utf8.RuneCountInString(text)))
	return nil
}

func runStatus(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	addr, err := controlAddr(app.Config.Control.Listen)
	if err != nil {
		return err
	}

	renderer := styles.NewSendRenderer(app.Theme)
	health, err := control.NewClient(addr).Health(app.Ctx())
	if err != nil {
		fmt.Print(renderer.RenderError(err))
		return err
	}
	fmt.Print(renderer.RenderHealth(addr, health.Status, health.Version, health.Uptime))
	return nil
}
