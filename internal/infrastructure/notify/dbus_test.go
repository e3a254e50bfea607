package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/promptcast/internal/application/port"
)

type recordedCall struct {
	method string
	args   []interface{}
}

type fakeBus struct {
	calls []recordedCall
	id    uint32
	err   error
}

func (f *fakeBus) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.calls = append(f.calls, recordedCall{method: method, args: args})
	f.id++
	return &dbus.Call{Err: f.err, Body: []interface{}{f.id}}
}

func TestDBusNotifier_SendsAndReplaces(t *testing.T) {
	bus := &fakeBus{}
	n := &DBusNotifier{obj: bus}
	ctx := context.Background()

	require.NoError(t, n.Notify(ctx, "Prompt not delivered", "copied to clipboard", port.UrgencyCritical))
	require.NoError(t, n.Notify(ctx, "Prompt not delivered", "again", port.UrgencyNormal))

	require.Len(t, bus.calls, 2)
	first := bus.calls[0]
	assert.Equal(t, "org.freedesktop.Notifications.Notify", first.method)
	require.Len(t, first.args, 8)
	assert.Equal(t, appName, first.args[0])
	assert.Equal(t, uint32(0), first.args[1])
	assert.Equal(t, "Prompt not delivered", first.args[3])
	hints := first.args[6].(map[string]dbus.Variant)
	assert.Equal(t, byte(2), hints["urgency"].Value())

	assert.Equal(t, uint32(1), bus.calls[1].args[1])
}

func TestDBusNotifier_CallError(t *testing.T) {
	boom := errors.New("service unknown")
	n := &DBusNotifier{obj: &fakeBus{err: boom}}

	err := n.Notify(context.Background(), "s", "b", port.UrgencyLow)
	assert.ErrorIs(t, err, boom)
}

func TestDBusNotifier_WithoutBus(t *testing.T) {
	n := &DBusNotifier{}
	assert.False(t, n.Available())
	assert.NoError(t, n.Notify(context.Background(), "s", "b", port.UrgencyNormal))
	assert.NoError(t, n.Close())
}
