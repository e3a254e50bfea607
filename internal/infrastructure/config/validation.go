package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/bnema/promptcast/internal/domain/entity"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	maxMenus       = 10
	maxMenuNameLen = 50
)

// Validate checks cfg and reports every problem at once.
func Validate(cfg *Config) error {
	return validateConfig(cfg)
}

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateMenus(config)...)
	validationErrors = append(validationErrors, validateTiming(config)...)
	validationErrors = append(validationErrors, validateBrowser(config)...)
	validationErrors = append(validationErrors, validateControl(config)...)
	validationErrors = append(validationErrors, validateHistory(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateMenus(config *Config) []string {
	var validationErrors []string
	if len(config.Menus) > maxMenus {
		validationErrors = append(validationErrors, fmt.Sprintf("at most %d menus are allowed, got %d", maxMenus, len(config.Menus)))
	}

	seen := make(map[string]bool, len(config.Menus))
	for i, menu := range config.Menus {
		prefix := fmt.Sprintf("menus[%d]", i)
		if menu.ID == "" {
			validationErrors = append(validationErrors, prefix+".id must not be empty")
		} else {
			prefix = fmt.Sprintf("menus[%s]", menu.ID)
			if seen[menu.ID] {
				validationErrors = append(validationErrors, fmt.Sprintf("duplicate menu id %q", menu.ID))
			}
			seen[menu.ID] = true
		}

		name := strings.TrimSpace(menu.Name)
		if n := utf8.RuneCountInString(name); n == 0 || n > maxMenuNameLen {
			validationErrors = append(validationErrors, fmt.Sprintf("%s.name must be 1 to %d characters", prefix, maxMenuNameLen))
		}
		if menu.CustomGPTURL != "" && !isHTTPURL(menu.CustomGPTURL) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s.custom_gpt_url must be an absolute http(s) URL", prefix))
		}
		if menu.RunAllShortcut != "" {
			if _, err := entity.ParseShortcut(menu.RunAllShortcut); err != nil {
				validationErrors = append(validationErrors, fmt.Sprintf("%s.run_all_shortcut: %v", prefix, err))
			}
		}
		validationErrors = append(validationErrors, validateActions(prefix, menu.Actions)...)
	}
	return validationErrors
}

func validateActions(prefix string, actions []ActionConfig) []string {
	var validationErrors []string
	seen := make(map[string]bool, len(actions))
	for i, action := range actions {
		field := fmt.Sprintf("%s.actions[%d]", prefix, i)
		if action.ID == "" {
			validationErrors = append(validationErrors, field+".id must not be empty")
		} else {
			field = fmt.Sprintf("%s.actions[%s]", prefix, action.ID)
			if seen[action.ID] {
				validationErrors = append(validationErrors, fmt.Sprintf("%s: duplicate action id %q", prefix, action.ID))
			}
			seen[action.ID] = true
		}
		if strings.TrimSpace(action.Title) == "" {
			validationErrors = append(validationErrors, field+".title must not be empty")
		}
		if action.Shortcut != "" {
			if _, err := entity.ParseShortcut(action.Shortcut); err != nil {
				validationErrors = append(validationErrors, fmt.Sprintf("%s.shortcut: %v", field, err))
			}
		}
	}
	return validationErrors
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func validateTiming(config *Config) []string {
	t := config.Timing
	fields := []struct {
		name  string
		value int
	}{
		{"timing.ready_timeout_ms", t.ReadyTimeoutMs},
		{"timing.ready_poll_interval_ms", t.ReadyPollIntervalMs},
		{"timing.retry_delay_ms", t.RetryDelayMs},
		{"timing.editor_poll_interval_ms", t.EditorPollIntervalMs},
		{"timing.editor_max_tries", t.EditorMaxTries},
		{"timing.submit_poll_interval_ms", t.SubmitPollIntervalMs},
		{"timing.submit_max_tries", t.SubmitMaxTries},
		{"timing.submit_verify_tries", t.SubmitVerifyTries},
		{"timing.debounce_window_ms", t.DebounceWindowMs},
	}
	var validationErrors []string
	for _, f := range fields {
		if f.value <= 0 {
			validationErrors = append(validationErrors, f.name+" must be positive")
		}
	}
	if t.MenuSettleMs < 0 {
		validationErrors = append(validationErrors, "timing.menu_settle_ms must be non-negative")
	}
	return validationErrors
}

func validateBrowser(config *Config) []string {
	var validationErrors []string
	if config.Browser.WindowWidth <= 0 || config.Browser.WindowHeight <= 0 {
		validationErrors = append(validationErrors, "browser.window_width and browser.window_height must be positive")
	}
	if r := config.Browser.RemoteURL; r != "" {
		u, err := url.Parse(r)
		if err != nil || u.Host == "" || (u.Scheme != "ws" && u.Scheme != "wss" && u.Scheme != "http" && u.Scheme != "https") {
			validationErrors = append(validationErrors, "browser.remote_url must be a ws:// or http:// URL")
		}
	}
	return validationErrors
}

func validateControl(config *Config) []string {
	if config.Control.Listen == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(config.Control.Listen); err != nil {
		return []string{fmt.Sprintf("control.listen must be host:port: %v", err)}
	}
	return nil
}

func validateHistory(config *Config) []string {
	var validationErrors []string
	if config.History.MaxEntries < 0 {
		validationErrors = append(validationErrors, "history.max_entries must be non-negative")
	}
	if config.History.RetentionDays < 0 {
		validationErrors = append(validationErrors, "history.retention_days must be non-negative")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch strings.ToLower(config.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level %q is not a known level", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "", "console", "json":
	default:
		validationErrors = append(validationErrors, "logging.format must be console or json")
	}
	if config.Logging.MaxAge < 0 {
		validationErrors = append(validationErrors, "logging.max_age must be non-negative")
	}
	return validationErrors
}
