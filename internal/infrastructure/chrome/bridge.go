package chrome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/logging"
)

// Message types sent by the page bridge.
const (
	MessageReady     = "ready"
	MessageKeyDown   = "keydown"
	MessageMenuClick = "menuClick"
)

// Message is the page -> daemon envelope passed through the binding.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MessageHandler handles a decoded message payload from one tab.
type MessageHandler interface {
	Handle(ctx context.Context, tabID entity.TabID, payload json.RawMessage) error
}

// MessageHandlerFunc adapts a function to the MessageHandler interface.
type MessageHandlerFunc func(ctx context.Context, tabID entity.TabID, payload json.RawMessage) error

// Handle calls f(ctx, tabID, payload).
func (f MessageHandlerFunc) Handle(ctx context.Context, tabID entity.TabID, payload json.RawMessage) error {
	return f(ctx, tabID, payload)
}

// MessageRouter dispatches bridge messages to registered handlers.
type MessageRouter struct {
	mu       sync.RWMutex
	handlers map[string]MessageHandler
	baseCtx  context.Context
}

// NewMessageRouter creates a new message router.
func NewMessageRouter(ctx context.Context) *MessageRouter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &MessageRouter{
		handlers: make(map[string]MessageHandler),
		baseCtx:  logging.WithComponent(ctx, "message-router"),
	}
}

// RegisterHandler registers a handler for a message type.
func (r *MessageRouter) RegisterHandler(msgType string, handler MessageHandler) error {
	if msgType == "" {
		return errors.New("message type cannot be empty")
	}
	if handler == nil {
		return errors.New("message handler cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[msgType] = handler
	return nil
}

// Route decodes one binding payload and calls the matching handler.
// Malformed or unknown messages are logged and dropped.
func (r *MessageRouter) Route(tabID entity.TabID, raw string) {
	ctx := logging.WithTabID(r.baseCtx, string(tabID))
	log := logging.FromContext(ctx)

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		log.Warn().Err(err).Int("len", len(raw)).Msg("failed to unmarshal bridge message")
		return
	}
	if msg.Type == "" {
		log.Warn().Msg("bridge message missing type")
		return
	}

	r.mu.RLock()
	handler, ok := r.handlers[msg.Type]
	r.mu.RUnlock()
	if !ok {
		log.Warn().Str("type", msg.Type).Msg("no handler registered for message type")
		return
	}

	log.Trace().Str("type", msg.Type).Int("payload_len", len(msg.Payload)).Msg("received bridge message")

	if err := handler.Handle(ctx, tabID, msg.Payload); err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("message handler returned error")
	}
}

// installBridge exposes the binding, registers the bridge for future
// documents and runs it in the current one. Binding calls are routed on
// their own goroutine because listeners must not block the event loop.
func installBridge(tabCtx context.Context, tabID entity.TabID, router *MessageRouter) error {
	chromedp.ListenTarget(tabCtx, func(ev any) {
		if e, ok := ev.(*runtime.EventBindingCalled); ok && e.Name == BindingName {
			go router.Route(tabID, e.Payload)
		}
	})

	err := chromedp.Run(tabCtx,
		runtime.AddBinding(BindingName),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(bridgeScript).Do(ctx)
			return err
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, exc, err := runtime.Evaluate(bridgeScript).Do(ctx)
			if err != nil {
				return err
			}
			if exc != nil {
				return fmt.Errorf("bridge script: %s", exc.Text)
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("install bridge: %w", err)
	}
	return nil
}
