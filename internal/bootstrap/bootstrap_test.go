package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/promptcast/internal/application/port/mocks"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/infrastructure/config"
	"github.com/bnema/promptcast/internal/logging"
)

func testCtx() context.Context {
	logger := zerolog.Nop()
	return logging.WithContext(context.Background(), logger)
}

type fakeDispatcher struct {
	*mocks.MockRequestSink
	*mocks.MockShortcutProvider
}

func TestDispatchProxy_BeforeAttach(t *testing.T) {
	ctx := testCtx()
	p := &dispatchProxy{}

	err := p.Enqueue(ctx, entity.ExecutionRequest{Ref: entity.ActionRef{ActionID: "a"}})
	assert.ErrorIs(t, err, ErrNotReady)

	bindings, err := p.ShortcutMap(ctx)
	require.NoError(t, err)
	assert.Empty(t, bindings)
}

func TestDispatchProxy_ForwardsAfterAttach(t *testing.T) {
	ctx := testCtx()
	sink := mocks.NewMockRequestSink(t)
	shortcuts := mocks.NewMockShortcutProvider(t)

	req := entity.ExecutionRequest{Ref: entity.ActionRef{MenuID: "m", ActionID: "a"}, SelectionText: "hi"}
	sink.EXPECT().Enqueue(mock.Anything, req).Return(nil).Once()
	bindings := []entity.ShortcutBinding{{Shortcut: "Ctrl+Shift+S", Ref: entity.ActionRef{MenuID: "m", ActionID: "a"}}}
	shortcuts.EXPECT().ShortcutMap(mock.Anything).Return(bindings, nil).Once()

	p := &dispatchProxy{}
	p.attach(fakeDispatcher{sink, shortcuts})

	require.NoError(t, p.Enqueue(ctx, req))
	got, err := p.ShortcutMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, bindings, got)
}

type recordingPruner struct {
	mu       sync.Mutex
	before   []time.Time
	keep     []int
	deleteFn func() (int64, error)
}

func (r *recordingPruner) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.before = append(r.before, before)
	if r.deleteFn != nil {
		return r.deleteFn()
	}
	return 1, nil
}

func (r *recordingPruner) KeepLatest(_ context.Context, keep int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keep = append(r.keep, keep)
	return 0, nil
}

func (r *recordingPruner) passes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keep)
}

func TestPruneHistory_AppliesBothLimits(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := &recordingPruner{}

	err := pruneHistory(testCtx(), store, config.HistoryConfig{RetentionDays: 30, MaxEntries: 500}, now)
	require.NoError(t, err)

	require.Len(t, store.before, 1)
	assert.Equal(t, now.AddDate(0, 0, -30), store.before[0])
	assert.Equal(t, []int{500}, store.keep)
}

func TestPruneHistory_ZeroDisablesLimits(t *testing.T) {
	store := &recordingPruner{}

	require.NoError(t, pruneHistory(testCtx(), store, config.HistoryConfig{}, time.Now()))
	assert.Empty(t, store.before)
	assert.Empty(t, store.keep)
}

func TestPruneHistory_StopsOnError(t *testing.T) {
	boom := errors.New("disk full")
	store := &recordingPruner{deleteFn: func() (int64, error) { return 0, boom }}

	err := pruneHistory(testCtx(), store, config.HistoryConfig{RetentionDays: 1, MaxEntries: 10}, time.Now())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.keep)
}

func TestMaintainHistory_RunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx())
	store := &recordingPruner{}
	settings := func() config.HistoryConfig { return config.HistoryConfig{MaxEntries: 5} }

	done := make(chan struct{})
	go func() {
		maintainHistory(ctx, store, settings, time.Now, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.passes() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("maintenance loop did not stop")
	}
}

func TestStartupTimer_RecordsPhasesInOrder(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base
	timer := newStartupTimer(func() time.Time { return current })

	current = current.Add(300 * time.Millisecond)
	timer.Mark("browser")
	current = current.Add(50 * time.Millisecond)
	timer.Mark("sessions")
	timer.MarkDuration("history", 20*time.Millisecond)

	d, ok := timer.Phase("browser")
	require.True(t, ok)
	assert.Equal(t, 300*time.Millisecond, d)
	d, _ = timer.Phase("sessions")
	assert.Equal(t, 50*time.Millisecond, d)
	assert.Equal(t, []string{"browser", "sessions", "history"}, timer.order)
	assert.Equal(t, 350*time.Millisecond, timer.Total())

	_, ok = timer.Phase("control")
	assert.False(t, ok)
}

func TestTimingConversion(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timing.EditorPollIntervalMs = 150
	cfg.Timing.EditorMaxTries = 12
	cfg.Timing.SubmitVerifyTries = 4

	got := injectionTiming(cfg.Timing)
	assert.Equal(t, 150*time.Millisecond, got.EditorPollInterval)
	assert.Equal(t, 12, got.EditorMaxTries)
	assert.Equal(t, 4, got.VerifyTries)
	assert.Equal(t, 2*time.Second, millis(2000))
}

func TestBrowserOptions(t *testing.T) {
	opts := browserOptions(config.BrowserConfig{
		RemoteURL:    "ws://127.0.0.1:9222/devtools/browser/x",
		Headless:     true,
		WindowWidth:  800,
		WindowHeight: 600,
	})
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/x", opts.RemoteURL)
	assert.True(t, opts.Headless)
	assert.Equal(t, 800, opts.WindowWidth)
	assert.Equal(t, 600, opts.WindowHeight)
}

func TestStartDaemon_RequiresManager(t *testing.T) {
	_, err := StartDaemon(testCtx(), DaemonInput{})
	assert.Error(t, err)
}
