package usecase

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/domain/repository"
	"github.com/bnema/promptcast/internal/logging"
)

// ErrEmptySelection rejects requests without text to send.
var ErrEmptySelection = errors.New("selection is empty")

const (
	defaultRetryDelay = 1200 * time.Millisecond
	retrySuffix       = ":retry"
	cacheBustParam    = "promptcast"
)

// PromptInjector runs one injection attempt.
type PromptInjector interface {
	Execute(ctx context.Context, attempt entity.InjectionAttempt) (entity.InjectionResult, error)
}

// TabWaiter waits for a tab to become ready.
type TabWaiter interface {
	Execute(ctx context.Context, input WaitTabReadyInput) (port.Tab, error)
}

// DispatchTiming bounds readiness waits and the retry delay.
type DispatchTiming struct {
	ReadyTimeout time.Duration
	RetryDelay   time.Duration
}

// DispatcherDeps wires a Dispatcher. History and Surface are optional.
type DispatcherDeps struct {
	Configs  *ConfigSnapshot
	Tabs     port.Tabs
	Waiter   TabWaiter
	Injector PromptInjector
	Clock    port.Clock
	Timing   DispatchTiming
	Surface  *SurfaceFailureUseCase
	History  repository.AttemptRepository
	// NewID generates request ids; defaults to random UUIDs.
	NewID func() string
}

// ActionOutcome is the settled result of one action.
type ActionOutcome struct {
	Ref      entity.ActionRef
	Label    string
	TabID    entity.TabID
	Attempts int
	Fallback bool
	Result   entity.InjectionResult
	Failed   bool
	Err      error
}

// Dispatcher resolves execution requests against the configuration, opens
// or focuses the target tab and drives injection attempts with a single
// retry.
type Dispatcher struct {
	configs  *ConfigSnapshot
	tabs     port.Tabs
	waiter   TabWaiter
	injector PromptInjector
	clock    port.Clock
	timing   DispatchTiming
	surface  *SurfaceFailureUseCase
	history  repository.AttemptRepository
	newID    func() string

	inflight sync.WaitGroup
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	timing := deps.Timing
	if timing.ReadyTimeout <= 0 {
		timing.ReadyTimeout = defaultReadyTimeout
	}
	if timing.RetryDelay <= 0 {
		timing.RetryDelay = defaultRetryDelay
	}
	newID := deps.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Dispatcher{
		configs:  deps.Configs,
		tabs:     deps.Tabs,
		waiter:   deps.Waiter,
		injector: deps.Injector,
		clock:    deps.Clock,
		timing:   timing,
		surface:  deps.Surface,
		history:  deps.History,
		newID:    newID,
	}
}

// ShortcutMap returns the bindings for the current configuration. Shortcuts
// that fail to parse are logged and left out.
func (d *Dispatcher) ShortcutMap(ctx context.Context) ([]entity.ShortcutBinding, error) {
	log := logging.FromContext(ctx)

	cfg, err := d.configs.Get(ctx)
	if err != nil {
		return nil, err
	}

	bindings, rejected := entity.BuildShortcutMap(cfg)
	for _, r := range rejected {
		log.Warn().Err(r.Err).Str("shortcut", r.Raw).Str("action", r.Ref.String()).Msg("ignoring invalid shortcut")
	}
	log.Debug().Int("count", len(bindings)).Msg("shortcut map built")
	return bindings, nil
}

// Reload drops the cached configuration and reports shortcut conflicts of
// the new one.
func (d *Dispatcher) Reload(ctx context.Context) {
	log := logging.FromContext(ctx)

	d.configs.Invalidate()
	cfg, err := d.configs.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("configuration reload failed")
		return
	}
	for _, c := range entity.FindShortcutConflicts(cfg) {
		refs := make([]string, 0, len(c.Refs))
		for _, r := range c.Refs {
			refs = append(refs, r.String())
		}
		log.Warn().Str("shortcut", c.Shortcut).Strs("actions", refs).Msg("shortcut is bound more than once")
	}
}

// Enqueue validates a request and executes it in the background. It
// returns once the request is accepted.
func (d *Dispatcher) Enqueue(ctx context.Context, req entity.ExecutionRequest) error {
	cfg, err := d.resolveable(ctx, req)
	if err != nil {
		return err
	}

	bg := context.WithoutCancel(ctx)
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		d.handle(bg, cfg, req)
	}()
	return nil
}

// Wait blocks until every enqueued request has settled.
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

// Handle executes a request synchronously and returns the outcome of each
// action it ran.
func (d *Dispatcher) Handle(ctx context.Context, req entity.ExecutionRequest) ([]ActionOutcome, error) {
	cfg, err := d.resolveable(ctx, req)
	if err != nil {
		return nil, err
	}
	return d.handle(ctx, cfg, req), nil
}

func (d *Dispatcher) resolveable(ctx context.Context, req entity.ExecutionRequest) (*entity.Config, error) {
	log := logging.FromContext(ctx)

	if strings.TrimSpace(req.SelectionText) == "" {
		return nil, ErrEmptySelection
	}
	cfg, err := d.configs.Get(ctx)
	if err != nil {
		return nil, err
	}
	if _, _, err := cfg.Resolve(req.Ref); err != nil {
		log.Warn().Err(err).Str("ref", req.Ref.String()).Msg("rejecting execution request")
		return nil, err
	}
	return cfg, nil
}

func (d *Dispatcher) handle(ctx context.Context, cfg *entity.Config, req entity.ExecutionRequest) []ActionOutcome {
	menu, action, err := cfg.Resolve(req.Ref)
	if err != nil {
		return nil
	}

	logging.FromContext(ctx).Info().
		Str("ref", req.Ref.String()).
		Str("source", req.Source).
		Int("selection_len", len(req.SelectionText)).
		Msg("executing request")

	if req.Ref.IsRunAll() {
		return d.RunAllActions(ctx, req.SelectionText, *menu, cfg.GlobalSettings)
	}
	return []ActionOutcome{d.ExecuteAction(ctx, *action, req.SelectionText, *menu, cfg.GlobalSettings)}
}

// ExecuteAction opens or focuses the menu's GPT tab and injects the
// composed prompt, retrying once on failure.
func (d *Dispatcher) ExecuteAction(ctx context.Context, action entity.Action, selection string, menu entity.Menu, settings entity.GlobalSettings) ActionOutcome {
	ctx = logging.WithAction(ctx, menu.ID, action.ID)
	log := logging.FromContext(ctx)

	outcome := ActionOutcome{
		Ref:   entity.ActionRef{MenuID: menu.ID, ActionID: action.ID},
		Label: action.Title,
	}
	prompt := entity.ComposePrompt(action.Prompt, selection)

	tab, err := d.openTab(ctx, menu, settings)
	if err != nil {
		log.Error().Err(err).Msg("could not open a tab")
		outcome.Failed = true
		outcome.Err = err
		d.surfaceFailure(ctx, outcome, prompt)
		return outcome
	}
	outcome.TabID = tab.ID

	ready := d.awaitReady(ctx, tab.ID, settings)
	return d.runAttempts(ctx, outcome, prompt, menu, settings, ready)
}

// RunAllActions opens one background tab per enabled action and injects
// into all of them concurrently. Creations are issued in action order
// without waiting for each other. It returns once every action has settled.
func (d *Dispatcher) RunAllActions(ctx context.Context, selection string, menu entity.Menu, settings entity.GlobalSettings) []ActionOutcome {
	log := logging.FromContext(ctx)

	actions := menu.EnabledActions()
	outcomes := make([]ActionOutcome, len(actions))
	target := d.targetURL(menu, settings)

	var g errgroup.Group
	for i, action := range actions {
		outcomes[i] = ActionOutcome{
			Ref:   entity.ActionRef{MenuID: menu.ID, ActionID: action.ID},
			Label: action.Title,
		}
		g.Go(func() error {
			actx := logging.WithAction(ctx, menu.ID, action.ID)
			tab, err := d.tabs.Create(actx, target, false)
			if err != nil {
				logging.FromContext(actx).Warn().Err(err).Msg("run all: tab creation failed")
				outcomes[i].Failed = true
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].TabID = tab.ID

			prompt := entity.ComposePrompt(action.Prompt, selection)
			ready := d.awaitReady(actx, tab.ID, settings)
			outcomes[i] = d.runAttempts(actx, outcomes[i], prompt, menu, settings, ready)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Failed {
			failed++
		}
	}
	log.Info().Int("actions", len(actions)).Int("failed", failed).Msg("run all settled")
	return outcomes
}

func (d *Dispatcher) openTab(ctx context.Context, menu entity.Menu, settings entity.GlobalSettings) (port.Tab, error) {
	log := logging.FromContext(ctx)
	base := menu.TargetURL()

	if !settings.ClearContext {
		existing, ok, err := d.tabs.FindByURL(ctx, base)
		if err != nil {
			log.Debug().Err(err).Msg("tab lookup failed")
		}
		if ok {
			if err := d.tabs.Activate(ctx, existing.ID); err == nil {
				log.Debug().Str("tab_id", string(existing.ID)).Msg("reusing open tab")
				return existing, nil
			}
		}
	}

	tab, err := d.tabs.Create(ctx, d.targetURL(menu, settings), true)
	if err == nil {
		return tab, nil
	}
	log.Warn().Err(err).Msg("tab creation failed, falling back to the plain URL")
	return d.tabs.Create(ctx, base, true)
}

// targetURL appends a cache-busting parameter when every action should
// start a fresh conversation.
func (d *Dispatcher) targetURL(menu entity.Menu, settings entity.GlobalSettings) string {
	base := menu.TargetURL()
	if !settings.ClearContext {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set(cacheBustParam, strconv.FormatInt(d.clock.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

// awaitReady logs and returns readiness failures. A timeout still allows
// injection; a closed tab does not.
func (d *Dispatcher) awaitReady(ctx context.Context, id entity.TabID, settings entity.GlobalSettings) error {
	_, err := d.waiter.Execute(ctx, WaitTabReadyInput{
		TabID:      id,
		TitleMatch: settings.TitleMatch(),
		Timeout:    d.timing.ReadyTimeout,
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrReadinessTimeout):
		logging.FromContext(ctx).Warn().Err(err).Msg("tab not ready, attempting injection anyway")
	default:
		logging.FromContext(ctx).Warn().Err(err).Msg("readiness wait failed")
	}
	return err
}

// runAttempts makes the first attempt and at most one more: a delayed
// retry in the same tab after a failed result, or a delayed attempt in a
// fresh tab after an error. A tab that closed while loading goes straight
// to the fresh tab.
func (d *Dispatcher) runAttempts(ctx context.Context, outcome ActionOutcome, prompt string, menu entity.Menu, settings entity.GlobalSettings, ready error) ActionOutcome {
	log := logging.FromContext(ctx)

	first := entity.InjectionAttempt{
		TabID:      outcome.TabID,
		Prompt:     prompt,
		AutoSubmit: menu.AutoSubmit,
		RequestID:  d.newID(),
		Label:      outcome.Label,
	}
	if errors.Is(ready, port.ErrTabClosed) {
		return d.fallback(ctx, outcome, first, menu, settings, ready)
	}
	result, err := d.inject(ctx, outcome.Ref, first, false)
	outcome.Attempts = 1
	outcome.Result = result

	if err != nil {
		return d.fallback(ctx, outcome, first, menu, settings, err)
	}
	if !result.Failed(menu.AutoSubmit) {
		return outcome
	}

	log.Warn().Str("state", string(result.State)).Dur("delay", d.timing.RetryDelay).Msg("attempt failed, retrying once")
	if !d.sleep(ctx, d.timing.RetryDelay) {
		outcome.Failed = true
		outcome.Err = ctx.Err()
		return outcome
	}

	retry := first
	retry.RequestID = first.RequestID + retrySuffix
	retry.Retry = true
	result, err = d.inject(ctx, outcome.Ref, retry, false)
	outcome.Attempts = 2
	outcome.Result = result
	if err == nil && !result.Failed(menu.AutoSubmit) {
		return outcome
	}

	outcome.Failed = true
	outcome.Err = err
	log.Warn().Err(err).Str("state", string(result.State)).Msg("retry failed")
	d.surfaceFailure(ctx, outcome, prompt)
	return outcome
}

func (d *Dispatcher) fallback(ctx context.Context, outcome ActionOutcome, first entity.InjectionAttempt, menu entity.Menu, settings entity.GlobalSettings, cause error) ActionOutcome {
	log := logging.FromContext(ctx)
	log.Warn().Err(cause).Msg("injection errored, opening a fresh tab as a last resort")

	outcome.Fallback = true
	tab, err := d.tabs.Create(ctx, menu.TargetURL(), true)
	if err != nil {
		outcome.Failed = true
		outcome.Err = errors.Join(cause, err)
		d.surfaceFailure(ctx, outcome, first.Prompt)
		return outcome
	}
	outcome.TabID = tab.ID

	d.awaitReady(ctx, tab.ID, settings)
	if !d.sleep(ctx, d.timing.RetryDelay) {
		outcome.Failed = true
		outcome.Err = ctx.Err()
		return outcome
	}

	last := first
	last.TabID = tab.ID
	last.RequestID = first.RequestID + retrySuffix
	last.Retry = true
	result, err := d.inject(ctx, outcome.Ref, last, true)
	outcome.Attempts++
	outcome.Result = result
	if err == nil && !result.Failed(menu.AutoSubmit) {
		return outcome
	}

	outcome.Failed = true
	outcome.Err = err
	d.surfaceFailure(ctx, outcome, first.Prompt)
	return outcome
}

func (d *Dispatcher) inject(ctx context.Context, ref entity.ActionRef, attempt entity.InjectionAttempt, fallback bool) (entity.InjectionResult, error) {
	started := d.clock.Now()
	result, err := d.injector.Execute(ctx, attempt)
	d.record(ctx, ref, attempt, fallback, result, err, started)
	return result, err
}

func (d *Dispatcher) record(ctx context.Context, ref entity.ActionRef, attempt entity.InjectionAttempt, fallback bool, result entity.InjectionResult, err error, started time.Time) {
	if d.history == nil {
		return
	}

	rec := &entity.AttemptRecord{
		RequestID:  attempt.RequestID,
		MenuID:     ref.MenuID,
		ActionID:   ref.ActionID,
		Label:      attempt.Label,
		TabID:      attempt.TabID,
		Retry:      attempt.Retry,
		Fallback:   fallback,
		State:      result.State,
		Inserted:   result.Inserted,
		Submitted:  result.Submitted,
		PromptLen:  len(attempt.Prompt),
		StartedAt:  started,
		FinishedAt: d.clock.Now(),
	}
	switch {
	case err != nil:
		rec.Outcome = entity.OutcomeError
		rec.Error = err.Error()
	case result.Skipped:
		rec.Outcome = entity.OutcomeSkipped
	case result.Failed(attempt.AutoSubmit):
		rec.Outcome = entity.OutcomeFailed
	default:
		rec.Outcome = entity.OutcomeSucceeded
	}

	if err := d.history.Record(ctx, rec); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to record attempt")
	}
}

func (d *Dispatcher) surfaceFailure(ctx context.Context, outcome ActionOutcome, prompt string) {
	if d.surface == nil {
		return
	}
	err := d.surface.Execute(ctx, SurfaceFailureInput{
		TabID:  outcome.TabID,
		Label:  outcome.Label,
		Prompt: prompt,
		State:  outcome.Result.State,
	})
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("could not surface failure")
	}
}

func (d *Dispatcher) sleep(ctx context.Context, delay time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-d.clock.After(delay):
		return true
	}
}
