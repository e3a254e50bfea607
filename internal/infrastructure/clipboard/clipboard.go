// Package clipboard provides a system clipboard adapter backed by
// atotto/clipboard, which drives wl-clipboard, xclip or xsel.
package clipboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/logging"
)

// ErrUnsupported is returned when no clipboard tool is installed.
var ErrUnsupported = errors.New("no clipboard tool available (install wl-clipboard, xclip or xsel)")

// backend is the slice of atotto/clipboard the adapter uses.
type backend interface {
	ReadAll() (string, error)
	WriteAll(text string) error
	Supported() bool
}

type systemBackend struct{}

func (systemBackend) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemBackend) WriteAll(text string) error { return clipboard.WriteAll(text) }
func (systemBackend) Supported() bool            { return !clipboard.Unsupported }

// Adapter implements port.Clipboard.
type Adapter struct {
	backend backend
}

var _ port.Clipboard = (*Adapter)(nil)

// New creates a clipboard adapter on the system clipboard.
func New() *Adapter {
	return &Adapter{backend: systemBackend{}}
}

// WriteText copies text to the clipboard.
func (a *Adapter) WriteText(ctx context.Context, text string) error {
	log := logging.FromContext(ctx)
	if err := a.ready(ctx); err != nil {
		log.Error().Err(err).Msg("clipboard write failed")
		return err
	}
	if err := a.backend.WriteAll(text); err != nil {
		log.Error().Err(err).Msg("clipboard write failed")
		return fmt.Errorf("clipboard write: %w", err)
	}
	log.Debug().Int("len", len(text)).Msg("clipboard write success")
	return nil
}

// ReadText reads text from the clipboard.
func (a *Adapter) ReadText(ctx context.Context) (string, error) {
	log := logging.FromContext(ctx)
	if err := a.ready(ctx); err != nil {
		log.Error().Err(err).Msg("clipboard read failed")
		return "", err
	}
	text, err := a.backend.ReadAll()
	if err != nil {
		log.Debug().Err(err).Msg("clipboard read failed (may be empty)")
		return "", fmt.Errorf("clipboard read: %w", err)
	}
	log.Debug().Int("len", len(text)).Msg("clipboard read success")
	return text, nil
}

// Clear clears the clipboard contents.
func (a *Adapter) Clear(ctx context.Context) error {
	return a.WriteText(ctx, "")
}

// HasText returns true if the clipboard contains text data.
func (a *Adapter) HasText(ctx context.Context) (bool, error) {
	text, err := a.ReadText(ctx)
	if err != nil {
		// Empty clipboard often returns error, treat as no text
		return false, nil
	}
	return text != "", nil
}

func (a *Adapter) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !a.backend.Supported() {
		return ErrUnsupported
	}
	return nil
}
