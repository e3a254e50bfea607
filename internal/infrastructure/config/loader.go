package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/bnema/promptcast/internal/logging"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config         *Config
	viper          *viper.Viper
	mu             sync.RWMutex
	callbacks      []func(*Config)
	watching       bool
	skipNextReload bool
	// file is set when the manager was pointed at an explicit path.
	file string
}

// NewManager creates a manager that searches the XDG config directory and
// then the current directory for config.toml or config.json.
func NewManager() (*Manager, error) {
	v := viper.New()

	// TOML is the default format; config.json is found as well.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	return newManager(v, "")
}

// NewManagerForFile creates a manager bound to one file. The format follows
// the extension (.toml or .json).
func NewManagerForFile(path string) (*Manager, error) {
	if path == "" {
		return nil, errors.New("config file path is empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "json" {
		v.SetConfigType("json")
	} else {
		v.SetConfigType("toml")
	}
	return newManager(v, path)
}

func newManager(v *viper.Viper, file string) (*Manager, error) {
	// Most environment variables map automatically with the PROMPTCAST_
	// prefix (e.g. PROMPTCAST_CONTROL_LISTEN, PROMPTCAST_BROWSER_HEADLESS).
	v.SetEnvPrefix("PROMPTCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "PROMPTCAST_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind PROMPTCAST_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "PROMPTCAST_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind PROMPTCAST_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
		file:      file,
	}, nil
}

// Load loads the configuration from file and environment variables. A
// missing file is created with the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == "" {
		if err := EnsureDirectories(); err != nil {
			return fmt.Errorf("failed to ensure directories: %w", err)
		}
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.apply()
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format and permissions", m.targetFile(), err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			m.targetFile(),
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf(
			"failed to read newly created config file: %w\nThe config file was created but couldn't be read. Please check the file format",
			rereadErr,
		)
	}
	return nil
}

// apply decodes viper's state, migrates, validates and stores the result.
// Must be called with m.mu held for write.
func (m *Manager) apply() error {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	if err := resolvePaths(config); err != nil {
		return err
	}

	log := logging.NewFromEnv()
	switch migrateLegacy(config) {
	case LegacyMigrated:
		log.Info().Str("file", m.viper.ConfigFileUsed()).Msg("migrated top-level actions into the default menu")
	case LegacyIgnored:
		log.Warn().Str("file", m.viper.ConfigFileUsed()).Msg("top-level actions ignored because menus are defined")
	}

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func resolvePaths(config *Config) error {
	if config.History.Path == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.History.Path = dbPath
	}
	if config.Browser.UserDataDir == "" && config.Browser.RemoteURL == "" {
		profile, err := GetBrowserProfileDir()
		if err != nil {
			return fmt.Errorf("failed to get browser profile path: %w", err)
		}
		config.Browser.UserDataDir = profile
	}
	return nil
}

// Get returns a copy of the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return DefaultConfig()
	}
	return m.config.Clone()
}

// Save validates cfg and writes it to the config file.
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := WriteConfigOrdered(cfg, m.targetFile()); err != nil {
		return err
	}

	if m.watching {
		// The watcher sees our own write; the in-memory copy is already right.
		m.skipNextReload = true
		m.config = cfg.Clone()
		return nil
	}
	return m.reload()
}

// ConfigFile returns the path to the configuration file being used.
func (m *Manager) ConfigFile() string {
	return m.targetFile()
}

func (m *Manager) targetFile() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	if m.file != "" {
		return m.file
	}
	path, err := GetConfigFile()
	if err != nil {
		return configName
	}
	return path
}

// createDefaultConfig writes the default configuration file.
func (m *Manager) createDefaultConfig() error {
	configFile := m.targetFile()
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	if err := WriteConfigOrdered(DefaultConfig(), configFile); err != nil {
		return err
	}
	if m.file == "" {
		m.viper.SetConfigFile(configFile)
	}

	logger := logging.NewFromEnv()
	logger.Info().Str("file", configFile).Msg("created default configuration file")
	return nil
}

// setDefaults sets default configuration values in Viper. Menus have no
// viper default so a legacy action list is never shadowed.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.setGlobalDefaults(defaults)
	m.setBrowserDefaults(defaults)
	m.setTimingDefaults(defaults)
	m.setControlDefaults(defaults)
	m.setHistoryDefaults(defaults)
	m.setLoggingDefaults(defaults)
	m.viper.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	m.viper.SetDefault("clipboard.copy_on_failure", defaults.Clipboard.CopyOnFailure)
}

func (m *Manager) setGlobalDefaults(defaults *Config) {
	m.viper.SetDefault("version", defaults.Version)
	m.viper.SetDefault("global_settings.gpt_title_match", defaults.GlobalSettings.GPTTitleMatch)
	m.viper.SetDefault("global_settings.clear_context", defaults.GlobalSettings.ClearContext)
}

func (m *Manager) setBrowserDefaults(defaults *Config) {
	m.viper.SetDefault("browser.remote_url", defaults.Browser.RemoteURL)
	m.viper.SetDefault("browser.exec_path", defaults.Browser.ExecPath)
	m.viper.SetDefault("browser.user_data_dir", defaults.Browser.UserDataDir)
	m.viper.SetDefault("browser.headless", defaults.Browser.Headless)
	m.viper.SetDefault("browser.window_width", defaults.Browser.WindowWidth)
	m.viper.SetDefault("browser.window_height", defaults.Browser.WindowHeight)
}

func (m *Manager) setTimingDefaults(defaults *Config) {
	t := defaults.Timing
	m.viper.SetDefault("timing.ready_timeout_ms", t.ReadyTimeoutMs)
	m.viper.SetDefault("timing.ready_poll_interval_ms", t.ReadyPollIntervalMs)
	m.viper.SetDefault("timing.retry_delay_ms", t.RetryDelayMs)
	m.viper.SetDefault("timing.editor_poll_interval_ms", t.EditorPollIntervalMs)
	m.viper.SetDefault("timing.editor_max_tries", t.EditorMaxTries)
	m.viper.SetDefault("timing.submit_poll_interval_ms", t.SubmitPollIntervalMs)
	m.viper.SetDefault("timing.submit_max_tries", t.SubmitMaxTries)
	m.viper.SetDefault("timing.submit_verify_tries", t.SubmitVerifyTries)
	m.viper.SetDefault("timing.debounce_window_ms", t.DebounceWindowMs)
	m.viper.SetDefault("timing.menu_settle_ms", t.MenuSettleMs)
}

func (m *Manager) setControlDefaults(defaults *Config) {
	m.viper.SetDefault("control.listen", defaults.Control.Listen)
}

func (m *Manager) setHistoryDefaults(defaults *Config) {
	m.viper.SetDefault("history.enabled", defaults.History.Enabled)
	m.viper.SetDefault("history.path", defaults.History.Path)
	m.viper.SetDefault("history.max_entries", defaults.History.MaxEntries)
	m.viper.SetDefault("history.retention_days", defaults.History.RetentionDays)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.max_age", defaults.Logging.MaxAge)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)
}
