package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/dom"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/logging"
)

// ManualPasteMessage is shown in the page when no editor could be found.
const ManualPasteMessage = "Could not auto-insert text. Please paste manually."

// InjectionTiming bounds the polling loops of one attempt.
type InjectionTiming struct {
	EditorPollInterval time.Duration
	EditorMaxTries     int
	SubmitPollInterval time.Duration
	SubmitMaxTries     int
	VerifyTries        int
}

// DefaultInjectionTiming returns the stock timings: about 8s to find the
// editor and 2s for the submit control to enable.
func DefaultInjectionTiming() InjectionTiming {
	return InjectionTiming{
		EditorPollInterval: 200 * time.Millisecond,
		EditorMaxTries:     40,
		SubmitPollInterval: 200 * time.Millisecond,
		SubmitMaxTries:     10,
		VerifyTries:        10,
	}
}

func (t InjectionTiming) withDefaults() InjectionTiming {
	d := DefaultInjectionTiming()
	if t.EditorPollInterval <= 0 {
		t.EditorPollInterval = d.EditorPollInterval
	}
	if t.EditorMaxTries <= 0 {
		t.EditorMaxTries = d.EditorMaxTries
	}
	if t.SubmitPollInterval <= 0 {
		t.SubmitPollInterval = d.SubmitPollInterval
	}
	if t.SubmitMaxTries <= 0 {
		t.SubmitMaxTries = d.SubmitMaxTries
	}
	if t.VerifyTries <= 0 {
		t.VerifyTries = d.VerifyTries
	}
	return t
}

// InjectPromptUseCase places a prompt into the chat composer of a tab and
// optionally submits it.
type InjectPromptUseCase struct {
	page   port.PageDriver
	clock  port.Clock
	guard  *RequestGuard
	timing InjectionTiming
}

// NewInjectPromptUseCase creates a new InjectPromptUseCase.
func NewInjectPromptUseCase(page port.PageDriver, clock port.Clock, guard *RequestGuard, timing InjectionTiming) *InjectPromptUseCase {
	return &InjectPromptUseCase{
		page:   page,
		clock:  clock,
		guard:  guard,
		timing: timing.withDefaults(),
	}
}

// Execute runs one attempt. Not finding the editor or failing to submit is
// reported in the result; an error is returned only when the page itself
// could not be reached.
func (uc *InjectPromptUseCase) Execute(ctx context.Context, attempt entity.InjectionAttempt) (entity.InjectionResult, error) {
	ctx = logging.WithRequestID(ctx, attempt.RequestID)
	ctx = logging.WithTabID(ctx, string(attempt.TabID))
	log := logging.FromContext(ctx)

	if uc.guard != nil {
		if dup, reason := uc.guard.IsDuplicate(string(attempt.TabID), attempt.RequestID); dup {
			log.Debug().Str("reason", reason).Msg("injection skipped")
			return entity.InjectionResult{Skipped: true, State: entity.StateSkipped}, nil
		}
	}

	log.Debug().
		Str("label", attempt.Label).
		Bool("auto_submit", attempt.AutoSubmit).
		Bool("retry", attempt.Retry).
		Msg("searching for editor")

	method, found, err := uc.insert(ctx, attempt)
	if err != nil {
		// The page never ran the procedure, so a re-delivery must not be
		// treated as a duplicate.
		if uc.guard != nil {
			uc.guard.Forget(string(attempt.TabID), attempt.RequestID)
		}
		return entity.InjectionResult{State: entity.StateSearching}, err
	}
	if !found {
		log.Warn().Int("tries", uc.timing.EditorMaxTries).Msg("editor not found")
		if alertErr := uc.page.Alert(ctx, attempt.TabID, ManualPasteMessage); alertErr != nil {
			log.Warn().Err(alertErr).Msg("could not show manual paste alert")
		}
		return entity.InjectionResult{State: entity.StateNotFound}, nil
	}

	result := entity.InjectionResult{Inserted: true, State: entity.StateInserted, Method: method}
	if !attempt.AutoSubmit {
		return result, nil
	}

	result.State = entity.StateSubmitting
	if uc.submit(ctx, attempt) {
		result.Submitted = true
		result.State = entity.StateSubmitted
		log.Debug().Msg("prompt submitted")
	} else {
		result.State = entity.StateSubmitFailed
		log.Warn().Msg("prompt inserted but submission was not confirmed")
	}
	return result, nil
}

// insert polls for a visible editor and inserts the prompt into it.
func (uc *InjectPromptUseCase) insert(ctx context.Context, attempt entity.InjectionAttempt) (string, bool, error) {
	log := logging.FromContext(ctx)

	var (
		lastErr   error
		snapshots int
	)
	for try := 1; try <= uc.timing.EditorMaxTries; try++ {
		if try > 1 && !uc.wait(ctx, uc.timing.EditorPollInterval) {
			return "", false, ctx.Err()
		}

		doc, err := uc.page.Snapshot(ctx, attempt.TabID)
		if err != nil {
			if errors.Is(err, port.ErrTabClosed) {
				return "", false, err
			}
			lastErr = err
			log.Trace().Err(err).Int("try", try).Msg("snapshot failed")
			continue
		}
		snapshots++

		editor, ok := dom.LocateEditor(doc)
		if !ok {
			log.Trace().Int("try", try).Msg("editor not rendered yet")
			continue
		}

		method, err := uc.page.InsertText(ctx, attempt.TabID, editor.Ref, editor.Kind, attempt.Prompt, attempt.Retry)
		switch {
		case errors.Is(err, port.ErrStaleNode):
			log.Trace().Int("try", try).Msg("editor detached before insertion")
			continue
		case errors.Is(err, port.ErrTabClosed):
			return "", false, err
		case err != nil:
			lastErr = err
			log.Debug().Err(err).Int("try", try).Msg("insertion failed")
			continue
		}

		log.Debug().
			Str("selector", editor.Selector).
			Str("kind", string(editor.Kind)).
			Bool("substituted", editor.Substituted).
			Str("method", method).
			Int("try", try).
			Msg("prompt inserted")
		return method, true, nil
	}

	if snapshots == 0 && lastErr != nil {
		return "", false, fmt.Errorf("page unreachable: %w", lastErr)
	}
	return "", false, nil
}

// submit activates the send control, falling back to Enter and then to a
// direct form submission, and reports whether the page confirmed it.
func (uc *InjectPromptUseCase) submit(ctx context.Context, attempt entity.InjectionAttempt) bool {
	log := logging.FromContext(ctx)

	var sawControl, triggered bool
	for try := 1; try <= uc.timing.SubmitMaxTries && !triggered; try++ {
		if try > 1 && !uc.wait(ctx, uc.timing.SubmitPollInterval) {
			return false
		}

		doc, err := uc.page.Snapshot(ctx, attempt.TabID)
		if err != nil {
			if errors.Is(err, port.ErrTabClosed) {
				return false
			}
			continue
		}

		ctrl, found := dom.LocateSubmit(doc)
		if !found {
			continue
		}
		sawControl = true
		if !ctrl.Enabled {
			log.Trace().Int("try", try).Msg("submit control disabled")
			continue
		}

		if err := uc.page.Click(ctx, attempt.TabID, ctrl.Ref); err != nil {
			if errors.Is(err, port.ErrTabClosed) {
				return false
			}
			log.Trace().Err(err).Int("try", try).Msg("submit click failed")
			continue
		}
		log.Debug().Str("selector", ctrl.Selector).Msg("submit control clicked")
		triggered = true
	}

	if !triggered && !sawControl {
		triggered = uc.pressEnter(ctx, attempt)
	}
	if !triggered {
		return false
	}
	return uc.verify(ctx, attempt)
}

func (uc *InjectPromptUseCase) pressEnter(ctx context.Context, attempt entity.InjectionAttempt) bool {
	log := logging.FromContext(ctx)

	doc, err := uc.page.Snapshot(ctx, attempt.TabID)
	if err != nil {
		return false
	}
	editor, ok := dom.LocateEditor(doc)
	if !ok {
		return false
	}

	if dispatched, err := uc.page.PressEnter(ctx, attempt.TabID, editor.Ref); err == nil && dispatched {
		log.Debug().Msg("no submit control, dispatched Enter")
		return true
	}
	submitted, err := uc.page.RequestSubmit(ctx, attempt.TabID, editor.Ref)
	if err != nil {
		log.Debug().Err(err).Msg("form submission failed")
		return false
	}
	if submitted {
		log.Debug().Msg("no submit control, requested form submission")
	}
	return submitted
}

// verify polls until the composer clears or a stop control appears.
func (uc *InjectPromptUseCase) verify(ctx context.Context, attempt entity.InjectionAttempt) bool {
	for try := 1; try <= uc.timing.VerifyTries; try++ {
		if !uc.wait(ctx, uc.timing.SubmitPollInterval) {
			return false
		}
		doc, err := uc.page.Snapshot(ctx, attempt.TabID)
		if err != nil {
			continue
		}
		if dom.SubmissionConfirmed(doc) {
			return true
		}
	}
	return false
}

func (uc *InjectPromptUseCase) wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-uc.clock.After(d):
		return true
	}
}
