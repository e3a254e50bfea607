package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext extracts the logger from context
// If no logger is found, returns a disabled logger (no-op)
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent creates a child logger with a component field
func WithComponent(ctx context.Context, component string) context.Context {
	return withStr(ctx, "component", component)
}

// WithTabID creates a child logger with a tab_id field
func WithTabID(ctx context.Context, tabID string) context.Context {
	return withStr(ctx, "tab_id", tabID)
}

// WithRequestID tags every line of one injection attempt.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withStr(ctx, "request_id", requestID)
}

// WithAction creates a child logger carrying the menu and action being executed.
func WithAction(ctx context.Context, menuID, actionID string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("menu_id", menuID).Str("action_id", actionID).Logger()
	return WithContext(ctx, childLogger)
}

func withStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str(key, value).Logger()
	return WithContext(ctx, childLogger)
}
