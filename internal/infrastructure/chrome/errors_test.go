package chrome

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"

	"github.com/bnema/promptcast/internal/application/port"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		tabDone error
		closed  bool
	}{
		{name: "tab context ended", err: errors.New("anything"), tabDone: context.Canceled, closed: true},
		{name: "invalid context", err: chromedp.ErrInvalidContext, closed: true},
		{name: "channel closed", err: fmt.Errorf("run: %w", chromedp.ErrChannelClosed), closed: true},
		{name: "protocol no target", err: errors.New("No target with given id found (-32602)"), closed: true},
		{name: "navigated away", err: errors.New("Inspected target navigated or closed")},
		{name: "execution context replaced", err: errors.New("Cannot find context with specified id (-32000)")},
		{name: "script failure", err: errors.New("ReferenceError: x is not defined")},
		{name: "deadline", err: context.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err, tt.tabDone)
			assert.Equal(t, tt.closed, errors.Is(got, port.ErrTabClosed))
		})
	}
}

func TestClassify_PassesThroughPortErrors(t *testing.T) {
	assert.Nil(t, classify(nil, context.Canceled))
	assert.Same(t, port.ErrStaleNode, classify(port.ErrStaleNode, context.Canceled))
	assert.ErrorContains(t, classify(context.DeadlineExceeded, nil), "page did not respond")
}
