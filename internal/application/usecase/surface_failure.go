package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/logging"
)

// SurfaceFailureInput describes an action whose attempts all failed.
type SurfaceFailureInput struct {
	TabID  entity.TabID
	Label  string
	Prompt string
	// State is the last state the final attempt reached.
	State entity.InjectionState
}

// SurfaceFailureUseCase tells the user a prompt could not be delivered:
// an alert in the page, the prompt on the clipboard, and a desktop
// notification. Each channel is optional.
type SurfaceFailureUseCase struct {
	page      port.PageDriver
	clipboard port.Clipboard
	notifier  port.Notifier
}

// NewSurfaceFailureUseCase creates a new SurfaceFailureUseCase. Pass nil
// for channels that are disabled.
func NewSurfaceFailureUseCase(page port.PageDriver, clipboard port.Clipboard, notifier port.Notifier) *SurfaceFailureUseCase {
	return &SurfaceFailureUseCase{page: page, clipboard: clipboard, notifier: notifier}
}

// Execute surfaces the failure on every configured channel. The returned
// error joins the channels that failed; callers only log it.
func (uc *SurfaceFailureUseCase) Execute(ctx context.Context, input SurfaceFailureInput) error {
	log := logging.FromContext(ctx)
	var errs []error

	// A not-found attempt already alerted from inside the engine.
	if uc.page != nil && input.TabID != "" && input.State != entity.StateNotFound {
		if err := uc.page.Alert(ctx, input.TabID, ManualPasteMessage); err != nil {
			errs = append(errs, fmt.Errorf("page alert: %w", err))
		}
	}

	copied := false
	if uc.clipboard != nil && input.Prompt != "" {
		if err := uc.clipboard.WriteText(ctx, input.Prompt); err != nil {
			log.Error().Err(err).Msg("failed to copy prompt to clipboard")
			errs = append(errs, fmt.Errorf("clipboard write failed: %w", err))
		} else {
			copied = true
		}
	}

	if uc.notifier != nil {
		body := fmt.Sprintf("%q could not be inserted.", input.Label)
		if copied {
			body += " The prompt is on your clipboard."
		}
		if err := uc.notifier.Notify(ctx, "promptcast", body, port.UrgencyNormal); err != nil {
			errs = append(errs, fmt.Errorf("notification: %w", err))
		}
	}

	log.Debug().Str("label", input.Label).Bool("copied", copied).Msg("failure surfaced")
	return errors.Join(errs...)
}
