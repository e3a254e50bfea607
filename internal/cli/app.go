// Package cli holds the shared state of the promptcast commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bnema/promptcast/internal/cli/styles"
	"github.com/bnema/promptcast/internal/domain/build"
	"github.com/bnema/promptcast/internal/infrastructure/config"
	"github.com/bnema/promptcast/internal/logging"
)

const (
	logFileName      = "promptcast.log"
	logMaxSizeMB     = 10
	logMaxBackups    = 5
	cliTimeFormat    = "15:04:05"
	daemonTimeFormat = time.RFC3339
)

// Options selects how the app is initialized.
type Options struct {
	// ConfigFile overrides the config search path when set.
	ConfigFile string
	// FileLog writes logs to the rotating log file when enabled in config.
	// Only the daemon sets it.
	FileLog bool
}

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	// Context with logger
	ctx       context.Context
	logCloser io.Closer
}

// NewApp loads the configuration and sets up logging.
func NewApp(opts Options) (*App, error) {
	mgr, err := newManager(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	logCfg := logging.Config{
		Level:      logging.ParseLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		TimeFormat: cliTimeFormat,
	}
	if opts.FileLog {
		logCfg.TimeFormat = daemonTimeFormat
		if cfg.Logging.EnableFileLog && cfg.Logging.LogDir != "" {
			logCfg.File = &logging.RotateOptions{
				Dir:        cfg.Logging.LogDir,
				Name:       logFileName,
				MaxSizeMB:  logMaxSizeMB,
				MaxBackups: logMaxBackups,
				MaxAge:     time.Duration(cfg.Logging.MaxAge) * 24 * time.Hour,
			}
		}
	}
	logger, closer := logging.New(logCfg)
	logger.Debug().Str("config", mgr.ConfigFile()).Msg("configuration loaded")

	return &App{
		Config:    cfg,
		Manager:   mgr,
		Theme:     styles.NewTheme(),
		ctx:       logging.WithContext(context.Background(), logger),
		logCloser: closer,
	}, nil
}

func newManager(file string) (*config.Manager, error) {
	if file != "" {
		return config.NewManagerForFile(file)
	}
	return config.NewManager()
}

// Close releases all resources.
func (a *App) Close() error {
	if a.logCloser != nil {
		return a.logCloser.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
