package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/promptcast/internal/application/port/mocks"
	"github.com/bnema/promptcast/internal/domain/entity"
	repomocks "github.com/bnema/promptcast/internal/domain/repository/mocks"
	"github.com/bnema/promptcast/internal/testutil"
)

type dispatcherFixture struct {
	tabs    *fakeTabs
	page    *fakePage
	clock   *testutil.AutoClock
	source  *staticSource
	history *recordingHistory
	d       *Dispatcher
}

// recordingHistory keeps attempt records in memory.
type recordingHistory struct {
	mu      sync.Mutex
	records []entity.AttemptRecord
}

func (h *recordingHistory) all() []entity.AttemptRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]entity.AttemptRecord(nil), h.records...)
}

func newDispatcherFixture(t *testing.T, cfg *entity.Config, surface *SurfaceFailureUseCase) *dispatcherFixture {
	t.Helper()

	f := &dispatcherFixture{
		tabs:    newFakeTabs(),
		page:    newFakePage(),
		clock:   testutil.NewAutoClock(),
		source:  &staticSource{cfg: cfg},
		history: &recordingHistory{},
	}

	repo := repomocks.NewMockAttemptRepository(t)
	repo.EXPECT().Record(mock.Anything, mock.Anything).RunAndReturn(func(_ context.Context, rec *entity.AttemptRecord) error {
		f.history.mu.Lock()
		f.history.records = append(f.history.records, *rec)
		f.history.mu.Unlock()
		return nil
	}).Maybe()

	var ids int
	var idMu sync.Mutex
	f.d = NewDispatcher(DispatcherDeps{
		Configs:  NewConfigSnapshot(f.source),
		Tabs:     f.tabs,
		Waiter:   NewWaitTabReadyUseCase(f.tabs, f.clock, 0),
		Injector: NewInjectPromptUseCase(f.page, f.clock, NewRequestGuard(f.clock, 0), DefaultInjectionTiming()),
		Clock:    f.clock,
		Surface:  surface,
		History:  repo,
		NewID: func() string {
			idMu.Lock()
			defer idMu.Unlock()
			ids++
			return fmt.Sprintf("req-%d", ids)
		},
	})
	return f
}

func TestDispatcher_SummarizeAcmeCorpEndToEnd(t *testing.T) {
	f := newDispatcherFixture(t, researchConfig(), nil)

	outcomes, err := f.d.Handle(testContext(), entity.ExecutionRequest{
		Ref:           entity.ActionRef{MenuID: "research", ActionID: "summarize"},
		SelectionText: "Acme Corp",
	})

	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	o := outcomes[0]
	assert.False(t, o.Failed)
	assert.Equal(t, 1, o.Attempts)
	assert.Equal(t, entity.TabID("tab-1"), o.TabID)
	assert.True(t, o.Result.Inserted)
	assert.False(t, o.Result.Submitted)

	assert.Equal(t, []createCall{{URL: "https://chatgpt.com/g/g-research", Active: true}}, f.tabs.createdCalls())

	state := f.page.inspect("tab-1")
	assert.Equal(t, []string{"Summarize: Acme Corp"}, state.inserts)
	assert.Zero(t, state.clicks)
	assert.Zero(t, state.enters)

	records := f.history.all()
	require.Len(t, records, 1)
	assert.Equal(t, "req-1", records[0].RequestID)
	assert.Equal(t, entity.OutcomeSucceeded, records[0].Outcome)
	assert.Equal(t, len("Summarize: Acme Corp"), records[0].PromptLen)
}

func TestDispatcher_ReusesOpenTab(t *testing.T) {
	f := newDispatcherFixture(t, researchConfig(), nil)
	f.tabs.open("existing", "https://chatgpt.com/g/g-research/c/123", "ChatGPT")

	outcomes, err := f.d.Handle(testContext(), entity.ExecutionRequest{
		Ref:           entity.ActionRef{MenuID: "research", ActionID: "explain"},
		SelectionText: "entropy",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.TabID("existing"), outcomes[0].TabID)
	assert.Equal(t, []entity.TabID{"existing"}, f.tabs.activated)
	assert.Empty(t, f.tabs.createdCalls())
	assert.Equal(t, []string{"Explain: entropy"}, f.page.inspect("existing").inserts)
}

func TestDispatcher_ClearContextOpensCacheBustedTab(t *testing.T) {
	cfg := researchConfig()
	cfg.GlobalSettings.ClearContext = true
	f := newDispatcherFixture(t, cfg, nil)
	f.tabs.open("existing", "https://chatgpt.com/g/g-research", "ChatGPT")

	_, err := f.d.Handle(testContext(), entity.ExecutionRequest{
		Ref:           entity.ActionRef{MenuID: "research", ActionID: "explain"},
		SelectionText: "entropy",
	})
	require.NoError(t, err)

	calls := f.tabs.createdCalls()
	require.Len(t, calls, 1)
	u, err := url.Parse(calls[0].URL)
	require.NoError(t, err)
	assert.Equal(t, "/g/g-research", u.Path)
	assert.NotEmpty(t, u.Query().Get(cacheBustParam))
	assert.Empty(t, f.tabs.activated)
}

func TestDispatcher_CreationFailureFallsBackToPlainURL(t *testing.T) {
	cfg := researchConfig()
	cfg.GlobalSettings.ClearContext = true
	f := newDispatcherFixture(t, cfg, nil)
	f.tabs.failCreate[1] = errors.New("invalid url")

	outcomes, err := f.d.Handle(testContext(), entity.ExecutionRequest{
		Ref:           entity.ActionRef{MenuID: "research", ActionID: "explain"},
		SelectionText: "entropy",
	})

	require.NoError(t, err)
	assert.False(t, outcomes[0].Failed)
	assert.Equal(t, []createCall{{URL: "https://chatgpt.com/g/g-research", Active: true}}, f.tabs.createdCalls())
}

func TestDispatcher_RetriesOnceWithRetryTaggedID(t *testing.T) {
	f := newDispatcherFixture(t, researchConfig(), nil)
	// The first attempt exhausts its 40 snapshots before the editor renders.
	f.page.configure("tab-1", func(s *pageState) { s.renderAfter = 40 })

	outcomes, err := f.d.Handle(testContext(), entity.ExecutionRequest{
		Ref:           entity.ActionRef{MenuID: "research", ActionID: "summarize"},
		SelectionText: "Acme Corp",
	})

	require.NoError(t, err)
	o := outcomes[0]
	assert.False(t, o.Failed)
	assert.Equal(t, 2, o.Attempts)
	assert.False(t, o.Fallback)
	assert.Equal(t, 1, f.clock.CountWaits(defaultRetryDelay))

	records := f.history.all()
	require.Len(t, records, 2)
	assert.Equal(t, entity.OutcomeFailed, records[0].Outcome)
	assert.Equal(t, entity.StateNotFound, records[0].State)
	assert.False(t, records[0].Retry)
	assert.Equal(t, records[0].RequestID+":retry", records[1].RequestID)
	assert.True(t, records[1].Retry)
	assert.Equal(t, entity.OutcomeSucceeded, records[1].Outcome)
}

func TestDispatcher_SurfacesFailureAfterTwoAttempts(t *testing.T) {
	cfg := researchConfig()
	cfg.Menus[0].AutoSubmit = true

	clip := mocks.NewMockClipboard(t)
	notifier := mocks.NewMockNotifier(t)
	clip.EXPECT().WriteText(mock.Anything, "Summarize: Acme Corp").Return(nil).Once()
	notifier.EXPECT().Notify(mock.Anything, "promptcast", mock.Anything, mock.Anything).Return(nil).Once()

	f := newDispatcherFixture(t, cfg, nil)
	f.d.surface = NewSurfaceFailureUseCase(f.page, clip, notifier)
	f.page.configure("tab-1", func(s *pageState) { s.disabled = true })

	outcomes, err := f.d.Handle(testContext(), entity.ExecutionRequest{
		Ref:           entity.ActionRef{MenuID: "research", ActionID: "summarize"},
		SelectionText: "Acme Corp",
	})

	require.NoError(t, err)
	o := outcomes[0]
	assert.True(t, o.Failed)
	assert.Equal(t, 2, o.Attempts)
	assert.Equal(t, entity.StateSubmitFailed, o.Result.State)
	assert.Len(t, f.history.all(), 2)
	assert.Equal(t, []string{ManualPasteMessage}, f.page.inspect("tab-1").alerts)
}

func TestDispatcher_ErroredAttemptFallsBackToFreshTab(t *testing.T) {
	f := newDispatcherFixture(t, researchConfig(), nil)
	f.page.configure("tab-1", func(s *pageState) { s.closed = true })

	outcomes, err := f.d.Handle(testContext(), entity.ExecutionRequest{
		Ref:           entity.ActionRef{MenuID: "research", ActionID: "summarize"},
		SelectionText: "Acme Corp",
	})

	require.NoError(t, err)
	o := outcomes[0]
	assert.False(t, o.Failed)
	assert.True(t, o.Fallback)
	assert.Equal(t, 2, o.Attempts)
	assert.Equal(t, entity.TabID("tab-2"), o.TabID)
	assert.Equal(t, []string{"Summarize: Acme Corp"}, f.page.inspect("tab-2").inserts)

	records := f.history.all()
	require.Len(t, records, 2)
	assert.Equal(t, entity.OutcomeError, records[0].Outcome)
	assert.True(t, records[1].Fallback)
}

func TestDispatcher_TabClosedWhileLoadingGoesToFreshTab(t *testing.T) {
	f := newDispatcherFixture(t, researchConfig(), nil)
	f.tabs.close("tab-1")

	outcomes, err := f.d.Handle(testContext(), entity.ExecutionRequest{
		Ref:           entity.ActionRef{MenuID: "research", ActionID: "summarize"},
		SelectionText: "Acme Corp",
	})

	require.NoError(t, err)
	o := outcomes[0]
	assert.False(t, o.Failed)
	assert.True(t, o.Fallback)
	assert.Equal(t, 1, o.Attempts, "no attempt is made in the closed tab")
	assert.Equal(t, entity.TabID("tab-2"), o.TabID)
	assert.Zero(t, f.page.inspect("tab-1").snapshots)
	assert.Equal(t, []string{"Summarize: Acme Corp"}, f.page.inspect("tab-2").inserts)

	records := f.history.all()
	require.Len(t, records, 1)
	assert.True(t, records[0].Fallback)
	assert.Equal(t, entity.TabID("tab-2"), records[0].TabID)
}

func TestDispatcher_ReadinessTimeoutStillInjects(t *testing.T) {
	f := newDispatcherFixture(t, researchConfig(), nil)
	f.tabs.title = "Just a moment..."

	outcomes, err := f.d.Handle(testContext(), entity.ExecutionRequest{
		Ref:           entity.ActionRef{MenuID: "research", ActionID: "summarize"},
		SelectionText: "Acme Corp",
	})

	require.NoError(t, err)
	assert.False(t, outcomes[0].Failed)
	assert.Equal(t, []string{"Summarize: Acme Corp"}, f.page.inspect("tab-1").inserts)
	assert.Equal(t, 80, f.clock.CountWaits(defaultReadyPollInterval))
}

func TestDispatcher_RunAllSettlesDespiteOneFailure(t *testing.T) {
	f := newDispatcherFixture(t, researchConfig(), nil)
	f.page.configure("tab-2", func(s *pageState) { s.renderAfter = 1000 })

	outcomes, err := f.d.Handle(testContext(), entity.ExecutionRequest{
		Ref:           entity.RunAllRef("research"),
		SelectionText: "Acme Corp",
	})

	require.NoError(t, err)
	require.Len(t, outcomes, 3, "one outcome per enabled action")

	calls := f.tabs.createdCalls()
	require.Len(t, calls, 3)
	for _, c := range calls {
		assert.Equal(t, "https://chatgpt.com/g/g-research", c.URL)
		assert.False(t, c.Active, "run all tabs open in the background")
	}

	prompts := map[string]string{
		"summarize": "Summarize: Acme Corp",
		"explain":   "Explain: Acme Corp",
		"critique":  "Critique: Acme Corp",
	}
	seen := make(map[entity.TabID]bool)
	failed := 0
	for i, action := range []string{"summarize", "explain", "critique"} {
		o := outcomes[i]
		assert.Equal(t, action, o.Ref.ActionID, "outcomes follow action order")
		require.NotEmpty(t, o.TabID)
		assert.False(t, seen[o.TabID], "each action gets its own tab")
		seen[o.TabID] = true

		if o.TabID == "tab-2" {
			failed++
			assert.True(t, o.Failed)
			assert.Equal(t, 2, o.Attempts)
			continue
		}
		assert.False(t, o.Failed, action)
		assert.Equal(t, []string{prompts[action]}, f.page.inspect(o.TabID).inserts)
	}
	assert.Equal(t, 1, failed)
}

func TestDispatcher_RunAllTabCreationFailureIsIsolated(t *testing.T) {
	f := newDispatcherFixture(t, researchConfig(), nil)
	f.tabs.failCreate[2] = errors.New("too many tabs")

	outcomes, err := f.d.Handle(testContext(), entity.ExecutionRequest{
		Ref:           entity.RunAllRef("research"),
		SelectionText: "Acme Corp",
	})

	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	var creationFailures, succeeded int
	for _, o := range outcomes {
		if o.Err != nil {
			creationFailures++
			assert.True(t, o.Failed)
			assert.Zero(t, o.Attempts)
			assert.Empty(t, o.TabID)
			continue
		}
		succeeded++
		assert.False(t, o.Failed, o.Ref.ActionID)
		assert.Len(t, f.page.inspect(o.TabID).inserts, 1)
	}
	assert.Equal(t, 1, creationFailures)
	assert.Equal(t, 2, succeeded)
}

func TestDispatcher_RunAllIssuesCreationsWithoutWaiting(t *testing.T) {
	f := newDispatcherFixture(t, researchConfig(), nil)

	second := make(chan struct{})
	var overlapped bool
	f.tabs.beforeCreate = func(n int) {
		switch n {
		case 1:
			select {
			case <-second:
				overlapped = true
			case <-time.After(2 * time.Second):
			}
		case 2:
			close(second)
		}
	}

	outcomes, err := f.d.Handle(testContext(), entity.ExecutionRequest{
		Ref:           entity.RunAllRef("research"),
		SelectionText: "Acme Corp",
	})

	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.True(t, overlapped, "second creation issued while the first was still pending")
	assert.Len(t, f.tabs.createdCalls(), 3)
	for _, o := range outcomes {
		assert.False(t, o.Failed, o.Ref.ActionID)
	}
}

func TestDispatcher_RejectsInvalidRequests(t *testing.T) {
	f := newDispatcherFixture(t, researchConfig(), nil)
	ctx := testContext()

	_, err := f.d.Handle(ctx, entity.ExecutionRequest{
		Ref:           entity.ActionRef{MenuID: "research", ActionID: "summarize"},
		SelectionText: "   ",
	})
	assert.ErrorIs(t, err, ErrEmptySelection)

	_, err = f.d.Handle(ctx, entity.ExecutionRequest{
		Ref:           entity.ActionRef{MenuID: "nope", ActionID: "summarize"},
		SelectionText: "text",
	})
	assert.ErrorIs(t, err, entity.ErrUnknownMenu)

	err = f.d.Enqueue(ctx, entity.ExecutionRequest{
		Ref:           entity.ActionRef{MenuID: "research", ActionID: "nope"},
		SelectionText: "text",
	})
	assert.ErrorIs(t, err, entity.ErrUnknownAction)
	assert.Empty(t, f.tabs.createdCalls())
}

func TestDispatcher_EnqueueRunsInBackground(t *testing.T) {
	f := newDispatcherFixture(t, researchConfig(), nil)
	ctx, cancel := context.WithCancel(testContext())

	err := f.d.Enqueue(ctx, entity.ExecutionRequest{
		Ref:           entity.ActionRef{ActionID: "critique"},
		SelectionText: "Acme Corp",
	})
	require.NoError(t, err)
	cancel()

	done := make(chan struct{})
	go func() {
		f.d.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("enqueued request never settled")
	}

	assert.Equal(t, []string{"Critique: Acme Corp"}, f.page.inspect("tab-1").inserts)
}

func TestDispatcher_ShortcutMapAndReload(t *testing.T) {
	cfg := researchConfig()
	cfg.Menus[0].Actions[0].Shortcut = "ctrl+shift+s"
	cfg.Menus[0].Actions[1].Shortcut = "Shift+Ctrl+S"
	cfg.Menus[0].Actions[2].Shortcut = "S"
	cfg.Menus[0].RunAllShortcut = "⌃⌥R"
	f := newDispatcherFixture(t, cfg, nil)
	ctx := testContext()

	bindings, err := f.d.ShortcutMap(ctx)
	require.NoError(t, err)

	var shortcuts []string
	for _, b := range bindings {
		shortcuts = append(shortcuts, b.Shortcut+"="+b.Ref.String())
	}
	assert.Equal(t, "Ctrl+Shift+S=research/summarize,Ctrl+Shift+S=research/explain,Ctrl+Alt+R=research/runAll",
		strings.Join(shortcuts, ","))

	f.source.mu.Lock()
	f.source.cfg.Menus[0].Actions[0].Shortcut = "Alt+1"
	f.source.mu.Unlock()

	f.d.Reload(ctx)
	bindings, err = f.d.ShortcutMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alt+1", bindings[0].Shortcut)
	assert.Equal(t, 2, f.source.loads)
}
