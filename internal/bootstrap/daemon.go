package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/application/usecase"
	"github.com/bnema/promptcast/internal/domain/repository"
	"github.com/bnema/promptcast/internal/infrastructure/chrome"
	"github.com/bnema/promptcast/internal/infrastructure/clipboard"
	"github.com/bnema/promptcast/internal/infrastructure/clock"
	"github.com/bnema/promptcast/internal/infrastructure/config"
	"github.com/bnema/promptcast/internal/infrastructure/control"
	"github.com/bnema/promptcast/internal/infrastructure/notify"
	"github.com/bnema/promptcast/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/promptcast/internal/logging"
)

const shutdownGrace = 5 * time.Second

// DaemonInput holds what the daemon needs from the command line.
type DaemonInput struct {
	Manager *config.Manager
	Version string
}

// Daemon is a running browser session with its dispatcher and surfaces.
type Daemon struct {
	ctx    context.Context
	cancel context.CancelFunc

	browser    *chrome.Browser
	sessions   *chrome.SessionManager
	dispatcher *usecase.Dispatcher
	rebuild    *usecase.RebuildMenusUseCase
	server     *control.Server
	historyDB  *sqlite.LazyDB
	notifier   *notify.DBusNotifier
	timer      *StartupTimer

	background sync.WaitGroup
	closeOnce  sync.Once
}

// StartDaemon launches or attaches to the browser and wires every
// component. The returned daemon runs until ctx ends or Close is called.
func StartDaemon(ctx context.Context, input DaemonInput) (*Daemon, error) {
	if input.Manager == nil {
		return nil, errors.New("config manager is nil")
	}
	timer := NewStartupTimer()
	cfg := input.Manager.Get()

	ctx, cancel := context.WithCancel(logging.WithComponent(ctx, "daemon"))
	d := &Daemon{ctx: ctx, cancel: cancel, timer: timer}

	browser, err := chrome.Launch(ctx, browserOptions(cfg.Browser))
	if err != nil {
		cancel()
		return nil, err
	}
	d.browser = browser
	timer.Mark("browser")

	if err := d.wire(input, cfg); err != nil {
		d.Close()
		return nil, err
	}
	timer.Log(ctx)
	return d, nil
}

func (d *Daemon) wire(input DaemonInput, cfg *config.Config) error {
	ctx := d.ctx
	sysClock := clock.System{}

	var history repository.AttemptRepository
	var store *sqlite.LazyAttemptRepository
	if cfg.History.Enabled {
		d.historyDB = sqlite.NewLazyDB(cfg.History.Path)
		store = sqlite.NewLazyAttemptRepository(d.historyDB)
		history = store
	}

	var clip port.Clipboard
	if cfg.Clipboard.CopyOnFailure {
		clip = clipboard.New()
	}
	var notifier port.Notifier = notify.Nop{}
	if cfg.Notifications.Enabled {
		d.notifier = notify.NewDBusNotifier(ctx)
		notifier = d.notifier
	}
	d.timer.Mark("adapters")

	snapshot := usecase.NewConfigSnapshot(config.NewSource(input.Manager))
	tabs := chrome.NewTabRegistry(ctx, d.browser)
	proxy := &dispatchProxy{}
	menu := chrome.NewSelectionMenu(ctx, proxy)

	sessions, err := chrome.NewSessionManager(ctx, d.browser, chrome.SessionDeps{
		Router:    chrome.NewMessageRouter(ctx),
		Shortcuts: proxy,
		Sink:      proxy,
		Menu:      menu,
		Now:       sysClock.Now,
	})
	if err != nil {
		return fmt.Errorf("create session manager: %w", err)
	}
	d.sessions = sessions
	page := chrome.NewPageDriver(sessions)

	t := cfg.Timing
	guard := usecase.NewRequestGuard(sysClock, millis(t.DebounceWindowMs))
	d.dispatcher = usecase.NewDispatcher(usecase.DispatcherDeps{
		Configs:  snapshot,
		Tabs:     tabs,
		Waiter:   usecase.NewWaitTabReadyUseCase(tabs, sysClock, millis(t.ReadyPollIntervalMs)),
		Injector: usecase.NewInjectPromptUseCase(page, sysClock, guard, injectionTiming(t)),
		Clock:    sysClock,
		Timing: usecase.DispatchTiming{
			ReadyTimeout: millis(t.ReadyTimeoutMs),
			RetryDelay:   millis(t.RetryDelayMs),
		},
		Surface: usecase.NewSurfaceFailureUseCase(page, clip, notifier),
		History: history,
	})
	proxy.attach(d.dispatcher)
	d.rebuild = usecase.NewRebuildMenusUseCase(menu, snapshot, sysClock, millis(t.MenuSettleMs))

	tabs.SetObserver(sessions)
	if err := tabs.Start(ctx); err != nil {
		return fmt.Errorf("start tab tracking: %w", err)
	}
	d.timer.Mark("sessions")

	d.dispatcher.Reload(ctx)
	if _, err := d.rebuild.Execute(ctx); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("initial menu build failed")
	}
	d.timer.Mark("menus")

	input.Manager.OnConfigChange(func(*config.Config) { d.applyConfigChange() })
	if err := input.Manager.Watch(); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("config watching disabled")
	}

	if cfg.Control.Listen != "" {
		d.server = control.NewServer(ctx, control.Deps{
			Sink:      d.dispatcher,
			Shortcuts: d.dispatcher,
			Configs:   snapshot,
			Version:   input.Version,
			Now:       sysClock.Now,
		})
		if err := d.server.Start(cfg.Control.Listen); err != nil {
			return err
		}
		d.timer.Mark("control")
	}

	if store != nil {
		d.background.Add(1)
		go func() {
			defer d.background.Done()
			maintainHistory(ctx, store, func() config.HistoryConfig {
				return input.Manager.Get().History
			}, sysClock.Now, historyMaintenanceInterval)
		}()
	}
	return nil
}

// applyConfigChange pushes a reloaded configuration to every consumer.
// Browser, timing and control settings take effect on the next start.
func (d *Daemon) applyConfigChange() {
	ctx := d.ctx
	if ctx.Err() != nil {
		return
	}
	log := logging.FromContext(ctx)
	log.Info().Msg("configuration changed, refreshing menus and shortcuts")

	d.dispatcher.Reload(ctx)
	if _, err := d.rebuild.Execute(ctx); err != nil {
		log.Warn().Err(err).Msg("menu rebuild failed")
	}
	d.sessions.RefreshShortcuts(ctx)
}

// Wait blocks until ctx ends or the browser goes away. A browser exit is
// reported as an error.
func (d *Daemon) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-d.ctx.Done():
		return nil
	case <-d.browser.Done():
		return errors.New("browser exited")
	}
}

// Close stops the surfaces, lets in-flight requests settle for a short
// grace period, then releases the browser and the history database.
func (d *Daemon) Close() {
	d.closeOnce.Do(func() {
		log := logging.FromContext(d.ctx)

		if d.server != nil {
			if err := d.server.Stop(); err != nil {
				log.Warn().Err(err).Msg("control server shutdown failed")
			}
		}
		if d.dispatcher != nil {
			settled := make(chan struct{})
			go func() {
				d.dispatcher.Wait()
				close(settled)
			}()
			select {
			case <-settled:
			case <-time.After(shutdownGrace):
				log.Warn().Msg("abandoning in-flight requests")
			}
		}

		d.cancel()
		d.background.Wait()
		if d.sessions != nil {
			d.sessions.Close()
		}
		if d.browser != nil {
			d.browser.Close()
		}
		if d.historyDB != nil {
			if err := d.historyDB.Close(); err != nil {
				log.Warn().Err(err).Msg("closing history database failed")
			}
		}
		if d.notifier != nil {
			_ = d.notifier.Close()
		}
		log.Info().Msg("daemon stopped")
	})
}

func browserOptions(b config.BrowserConfig) chrome.Options {
	return chrome.Options{
		RemoteURL:    b.RemoteURL,
		ExecPath:     b.ExecPath,
		UserDataDir:  b.UserDataDir,
		Headless:     b.Headless,
		WindowWidth:  b.WindowWidth,
		WindowHeight: b.WindowHeight,
	}
}

func injectionTiming(t config.TimingConfig) usecase.InjectionTiming {
	return usecase.InjectionTiming{
		EditorPollInterval: millis(t.EditorPollIntervalMs),
		EditorMaxTries:     t.EditorMaxTries,
		SubmitPollInterval: millis(t.SubmitPollIntervalMs),
		SubmitMaxTries:     t.SubmitMaxTries,
		VerifyTries:        t.SubmitVerifyTries,
	}
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
