package control

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/promptcast/internal/application/port/mocks"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/logging"
)

func startServer(t *testing.T, deps Deps) *Client {
	t.Helper()
	ctx := logging.WithContext(context.Background(), zerolog.Nop())
	s := NewServer(ctx, deps)
	require.NoError(t, s.Start("127.0.0.1:0"))
	t.Cleanup(func() { _ = s.Stop() })
	require.NotEmpty(t, s.Addr())
	return NewClient(s.Addr())
}

func TestClient_RoundTrip(t *testing.T) {
	sink := mocks.NewMockRequestSink(t)
	sink.EXPECT().Enqueue(mock.Anything, mock.Anything).Return(nil).Once()
	provider := mocks.NewMockShortcutProvider(t)
	provider.EXPECT().ShortcutMap(mock.Anything).Return([]entity.ShortcutBinding{
		{Shortcut: "Ctrl+Shift+A", Ref: entity.ActionRef{MenuID: "m1", ActionID: "a"}},
	}, nil).Once()

	client := startServer(t, Deps{
		Sink:      sink,
		Shortcuts: provider,
		Configs:   staticConfig{cfg: testConfig()},
		Version:   "dev",
	})
	ctx := context.Background()

	h, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dev", h.Version)

	resp, err := client.Execute(ctx, entity.RunAllRef("m1"), "text")
	require.NoError(t, err)
	assert.True(t, resp.Ref.IsRunAll())

	bindings, err := client.Shortcuts(ctx)
	require.NoError(t, err)
	require.Len(t, bindings, 1)
	assert.Equal(t, "m1", bindings[0].Ref.MenuID)

	entries, err := client.Menus(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestClient_APIError(t *testing.T) {
	sink := mocks.NewMockRequestSink(t)
	sink.EXPECT().Enqueue(mock.Anything, mock.Anything).Return(entity.ErrUnknownAction).Once()
	client := startServer(t, Deps{Sink: sink})

	_, err := client.Execute(context.Background(), entity.ActionRef{ActionID: "nope"}, "text")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.Status)
	assert.Contains(t, apiErr.Message, "unknown action")
}

func TestClient_Unreachable(t *testing.T) {
	ctx := logging.WithContext(context.Background(), zerolog.Nop())
	s := NewServer(ctx, Deps{})
	require.NoError(t, s.Start("127.0.0.1:0"))
	addr := s.Addr()
	require.NoError(t, s.Stop())

	_, err := NewClient(addr).Health(context.Background())
	assert.ErrorIs(t, err, ErrDaemonUnreachable)
}

func TestServer_StartFailsOnBusyPort(t *testing.T) {
	ctx := logging.WithContext(context.Background(), zerolog.Nop())
	first := NewServer(ctx, Deps{})
	require.NoError(t, first.Start("127.0.0.1:0"))
	t.Cleanup(func() { _ = first.Stop() })

	second := NewServer(ctx, Deps{})
	assert.Error(t, second.Start(first.Addr()))
	assert.NoError(t, second.Stop())
}
