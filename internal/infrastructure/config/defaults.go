package config

import "github.com/bnema/promptcast/internal/domain/entity"

// Default configuration constants
const (
	// Timing defaults, in milliseconds
	defaultReadyTimeoutMs       = 20000
	defaultReadyPollIntervalMs  = 250
	defaultRetryDelayMs         = 1200
	defaultEditorPollIntervalMs = 200
	defaultEditorMaxTries       = 40
	defaultSubmitPollIntervalMs = 200
	defaultSubmitMaxTries       = 10
	defaultSubmitVerifyTries    = 10
	defaultDebounceWindowMs     = 10000
	defaultMenuSettleMs         = 100

	// Browser defaults
	defaultWindowWidth  = 1440
	defaultWindowHeight = 900

	// Control API
	defaultControlListen = "127.0.0.1:7341"

	// History defaults
	defaultMaxHistoryEntries = 5000
	defaultRetentionDays     = 90

	// Logging defaults
	defaultMaxLogAgeDays = 7 // days
)

// getDefaultLogDir returns the default log directory, falls back to empty string on error
func getDefaultLogDir() string {
	logDir, err := GetLogDir()
	if err != nil {
		return ""
	}
	return logDir
}

func enabled(v bool) *bool { return &v }

// DefaultMenus is the starter menu written into a new configuration file.
func DefaultMenus() []MenuConfig {
	return []MenuConfig{{
		ID:             entity.DefaultMenuID,
		Name:           "ChatGPT",
		CustomGPTURL:   entity.DefaultGPTURL,
		AutoSubmit:     false,
		RunAllEnabled:  true,
		RunAllShortcut: "Ctrl+Alt+R",
		Actions: []ActionConfig{
			{ID: "summarize", Title: "Summarize", Prompt: "Summarize:", Shortcut: "Ctrl+Shift+S", Enabled: enabled(true), Order: 0},
			{ID: "explain", Title: "Explain", Prompt: "Explain in simple terms:", Shortcut: "Ctrl+Shift+E", Enabled: enabled(true), Order: 1},
			{ID: "critique", Title: "Critique", Prompt: "List the weak points of this argument:", Enabled: enabled(true), Order: 2},
		},
	}}
}

// DefaultConfig returns the default configuration values for promptcast.
func DefaultConfig() *Config {
	return &Config{
		Version: entity.CurrentConfigVersion,
		GlobalSettings: GlobalSettingsConfig{
			GPTTitleMatch: entity.DefaultTitleMatch,
		},
		Menus: DefaultMenus(),
		Browser: BrowserConfig{
			WindowWidth:  defaultWindowWidth,
			WindowHeight: defaultWindowHeight,
		},
		Timing: DefaultTiming(),
		Control: ControlConfig{
			Listen: defaultControlListen,
		},
		History: HistoryConfig{
			Enabled:       true,
			MaxEntries:    defaultMaxHistoryEntries,
			RetentionDays: defaultRetentionDays,
		},
		Notifications: NotificationsConfig{Enabled: true},
		Clipboard:     ClipboardConfig{CopyOnFailure: true},
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "console",
			MaxAge:        defaultMaxLogAgeDays,
			LogDir:        getDefaultLogDir(),
			EnableFileLog: false,
		},
	}
}

// DefaultTiming returns the stock polling intervals and timeouts.
func DefaultTiming() TimingConfig {
	return TimingConfig{
		ReadyTimeoutMs:       defaultReadyTimeoutMs,
		ReadyPollIntervalMs:  defaultReadyPollIntervalMs,
		RetryDelayMs:         defaultRetryDelayMs,
		EditorPollIntervalMs: defaultEditorPollIntervalMs,
		EditorMaxTries:       defaultEditorMaxTries,
		SubmitPollIntervalMs: defaultSubmitPollIntervalMs,
		SubmitMaxTries:       defaultSubmitMaxTries,
		SubmitVerifyTries:    defaultSubmitVerifyTries,
		DebounceWindowMs:     defaultDebounceWindowMs,
		MenuSettleMs:         defaultMenuSettleMs,
	}
}
