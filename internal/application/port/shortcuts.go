package port

import (
	"context"

	"github.com/bnema/promptcast/internal/domain/entity"
)

// ShortcutProvider returns the bindings pages should listen for.
type ShortcutProvider interface {
	ShortcutMap(ctx context.Context) ([]entity.ShortcutBinding, error)
}

// RequestSink accepts execution requests. Implementations must not block
// for the duration of the execution.
type RequestSink interface {
	Enqueue(ctx context.Context, req entity.ExecutionRequest) error
}

// KeyHandler receives key events that passed the page-side filter.
type KeyHandler func(ctx context.Context, ev entity.KeyEvent)

// ListenerInfo reports page timestamps, in milliseconds since navigation
// start, of the script load and the listener attachment.
type ListenerInfo struct {
	LoadedAt   float64
	AttachedAt float64
	// First is true when this call attached the listener.
	First bool
}

// KeySource is the keydown listener of one page document.
type KeySource interface {
	// Arm replaces the set of canonical shortcuts the page intercepts. The
	// first call attaches the listener and routes events to handler.
	Arm(ctx context.Context, shortcuts []string, handler KeyHandler) (ListenerInfo, error)
}
