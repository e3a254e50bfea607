package bootstrap

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/entity"
)

// ErrNotReady is returned for requests that arrive before the dispatcher
// is attached.
var ErrNotReady = errors.New("daemon is still starting")

// dispatcher is what the page side needs from the usecase dispatcher.
type dispatcher interface {
	port.RequestSink
	port.ShortcutProvider
}

// dispatchProxy lets the browser sessions be created before the dispatcher
// that depends on them. Calls are forwarded once attach has run.
type dispatchProxy struct {
	target atomic.Pointer[dispatcher]
}

var (
	_ port.RequestSink      = (*dispatchProxy)(nil)
	_ port.ShortcutProvider = (*dispatchProxy)(nil)
)

func (p *dispatchProxy) attach(d dispatcher) {
	p.target.Store(&d)
}

func (p *dispatchProxy) Enqueue(ctx context.Context, req entity.ExecutionRequest) error {
	d := p.target.Load()
	if d == nil {
		return ErrNotReady
	}
	return (*d).Enqueue(ctx, req)
}

// ShortcutMap returns no bindings until attached so pages arm nothing.
func (p *dispatchProxy) ShortcutMap(ctx context.Context) ([]entity.ShortcutBinding, error) {
	d := p.target.Load()
	if d == nil {
		return nil, nil
	}
	return (*d).ShortcutMap(ctx)
}
