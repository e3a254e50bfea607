package config

// Config represents the complete configuration for promptcast.
type Config struct {
	// Version is the menu layout version; 2 is the menu-based layout.
	Version        int                  `mapstructure:"version" toml:"version" json:"version" jsonschema:"minimum=0"`
	GlobalSettings GlobalSettingsConfig `mapstructure:"global_settings" toml:"global_settings" json:"global_settings"`
	// Actions is the pre-menu layout. It is folded into a "default" menu on load.
	Actions []ActionConfig `mapstructure:"actions" toml:"actions,omitempty" json:"actions,omitempty"`
	// Menus group actions under one custom GPT each. At most 10.
	Menus         []MenuConfig        `mapstructure:"menus" toml:"menus" json:"menus" jsonschema:"maxItems=10"`
	Browser       BrowserConfig       `mapstructure:"browser" toml:"browser" json:"browser"`
	Timing        TimingConfig        `mapstructure:"timing" toml:"timing" json:"timing"`
	Control       ControlConfig       `mapstructure:"control" toml:"control" json:"control"`
	History       HistoryConfig       `mapstructure:"history" toml:"history" json:"history"`
	Notifications NotificationsConfig `mapstructure:"notifications" toml:"notifications" json:"notifications"`
	Clipboard     ClipboardConfig     `mapstructure:"clipboard" toml:"clipboard" json:"clipboard"`
	Logging       LoggingConfig       `mapstructure:"logging" toml:"logging" json:"logging"`
}

// GlobalSettingsConfig applies to every menu. The fields below ClearContext
// only appear in pre-menu files and moved onto menus.
type GlobalSettingsConfig struct {
	// GPTTitleMatch is the tab title substring that marks the chat UI as ready.
	GPTTitleMatch string `mapstructure:"gpt_title_match" toml:"gpt_title_match" json:"gpt_title_match"`
	// ClearContext opens a fresh conversation for every action.
	ClearContext bool `mapstructure:"clear_context" toml:"clear_context" json:"clear_context"`

	CustomGPTURL   string `mapstructure:"custom_gpt_url" toml:"custom_gpt_url,omitempty" json:"custom_gpt_url,omitempty"`
	AutoSubmit     bool   `mapstructure:"auto_submit" toml:"auto_submit,omitempty" json:"auto_submit,omitempty"`
	RunAllEnabled  bool   `mapstructure:"run_all_enabled" toml:"run_all_enabled,omitempty" json:"run_all_enabled,omitempty"`
	RunAllShortcut string `mapstructure:"run_all_shortcut" toml:"run_all_shortcut,omitempty" json:"run_all_shortcut,omitempty"`
}

// MenuConfig is one menu of actions targeting a custom GPT.
type MenuConfig struct {
	ID             string         `mapstructure:"id" toml:"id" json:"id"`
	Name           string         `mapstructure:"name" toml:"name" json:"name" jsonschema:"minLength=1,maxLength=50"`
	CustomGPTURL   string         `mapstructure:"custom_gpt_url" toml:"custom_gpt_url" json:"custom_gpt_url" jsonschema:"format=uri"`
	AutoSubmit     bool           `mapstructure:"auto_submit" toml:"auto_submit" json:"auto_submit"`
	RunAllEnabled  bool           `mapstructure:"run_all_enabled" toml:"run_all_enabled" json:"run_all_enabled"`
	RunAllShortcut string         `mapstructure:"run_all_shortcut" toml:"run_all_shortcut,omitempty" json:"run_all_shortcut,omitempty"`
	Order          int            `mapstructure:"order" toml:"order" json:"order"`
	Actions        []ActionConfig `mapstructure:"actions" toml:"actions" json:"actions"`
}

// ActionConfig is one prompt template. Enabled defaults to true.
type ActionConfig struct {
	ID       string `mapstructure:"id" toml:"id" json:"id"`
	Title    string `mapstructure:"title" toml:"title" json:"title"`
	Prompt   string `mapstructure:"prompt" toml:"prompt" json:"prompt"`
	Shortcut string `mapstructure:"shortcut" toml:"shortcut,omitempty" json:"shortcut,omitempty"`
	Enabled  *bool  `mapstructure:"enabled" toml:"enabled,omitempty" json:"enabled,omitempty"`
	Order    int    `mapstructure:"order" toml:"order" json:"order"`
}

// IsEnabled reports whether the action is enabled, defaulting to true.
func (a ActionConfig) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

// BrowserConfig selects the Chromium instance to drive.
type BrowserConfig struct {
	// RemoteURL attaches to a running browser (ws:// or http://host:port)
	// instead of launching one.
	RemoteURL    string `mapstructure:"remote_url" toml:"remote_url" json:"remote_url"`
	ExecPath     string `mapstructure:"exec_path" toml:"exec_path" json:"exec_path"`
	UserDataDir  string `mapstructure:"user_data_dir" toml:"user_data_dir" json:"user_data_dir"`
	Headless     bool   `mapstructure:"headless" toml:"headless" json:"headless"`
	WindowWidth  int    `mapstructure:"window_width" toml:"window_width" json:"window_width"`
	WindowHeight int    `mapstructure:"window_height" toml:"window_height" json:"window_height"`
}

// TimingConfig holds every polling interval and timeout, in milliseconds.
type TimingConfig struct {
	ReadyTimeoutMs       int `mapstructure:"ready_timeout_ms" toml:"ready_timeout_ms" json:"ready_timeout_ms"`
	ReadyPollIntervalMs  int `mapstructure:"ready_poll_interval_ms" toml:"ready_poll_interval_ms" json:"ready_poll_interval_ms"`
	RetryDelayMs         int `mapstructure:"retry_delay_ms" toml:"retry_delay_ms" json:"retry_delay_ms"`
	EditorPollIntervalMs int `mapstructure:"editor_poll_interval_ms" toml:"editor_poll_interval_ms" json:"editor_poll_interval_ms"`
	EditorMaxTries       int `mapstructure:"editor_max_tries" toml:"editor_max_tries" json:"editor_max_tries"`
	SubmitPollIntervalMs int `mapstructure:"submit_poll_interval_ms" toml:"submit_poll_interval_ms" json:"submit_poll_interval_ms"`
	SubmitMaxTries       int `mapstructure:"submit_max_tries" toml:"submit_max_tries" json:"submit_max_tries"`
	SubmitVerifyTries    int `mapstructure:"submit_verify_tries" toml:"submit_verify_tries" json:"submit_verify_tries"`
	DebounceWindowMs     int `mapstructure:"debounce_window_ms" toml:"debounce_window_ms" json:"debounce_window_ms"`
	MenuSettleMs         int `mapstructure:"menu_settle_ms" toml:"menu_settle_ms" json:"menu_settle_ms"`
}

// ControlConfig configures the local HTTP control API.
type ControlConfig struct {
	// Listen is the host:port the daemon serves on. Empty disables the API.
	Listen string `mapstructure:"listen" toml:"listen" json:"listen"`
}

// HistoryConfig controls the attempt history database.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// Path defaults to $XDG_DATA_HOME/promptcast/promptcast.sqlite.
	Path       string `mapstructure:"path" toml:"path" json:"path"`
	MaxEntries int    `mapstructure:"max_entries" toml:"max_entries" json:"max_entries"`
	// RetentionDays prunes older attempts; 0 keeps everything.
	RetentionDays int `mapstructure:"retention_days" toml:"retention_days" json:"retention_days"`
}

// NotificationsConfig controls desktop notifications on failure.
type NotificationsConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
}

// ClipboardConfig controls clipboard use on failure.
type ClipboardConfig struct {
	CopyOnFailure bool `mapstructure:"copy_on_failure" toml:"copy_on_failure" json:"copy_on_failure"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	MaxAge int    `mapstructure:"max_age" toml:"max_age" json:"max_age"`

	// File output configuration
	LogDir        string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir"`
	EnableFileLog bool   `mapstructure:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
}
