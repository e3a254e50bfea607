// Package notify sends desktop notifications through the
// org.freedesktop.Notifications D-Bus service.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/logging"
)

const (
	notifyDest      = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyInterface = "org.freedesktop.Notifications"

	appName = "promptcast"
	// Milliseconds; -1 lets the server decide.
	defaultExpire = int32(-1)
)

// caller is the part of dbus.BusObject the notifier uses.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DBusNotifier implements port.Notifier. Without a session bus every
// Notify is a logged no-op.
type DBusNotifier struct {
	conn *dbus.Conn
	obj  caller

	mu     sync.Mutex
	lastID uint32
}

var _ port.Notifier = (*DBusNotifier)(nil)

// NewDBusNotifier connects to the session bus. It returns a usable
// notifier even when D-Bus is unavailable.
func NewDBusNotifier(ctx context.Context) *DBusNotifier {
	log := logging.FromContext(ctx)

	n := &DBusNotifier{}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Debug().Err(err).Msg("notifier: cannot connect to D-Bus session bus")
		return n
	}
	n.conn = conn
	n.obj = conn.Object(notifyDest, notifyPath)
	return n
}

// Available reports whether notifications can be delivered.
func (n *DBusNotifier) Available() bool {
	return n.obj != nil
}

// Notify shows one notification. Repeated calls replace the previous
// bubble instead of stacking.
func (n *DBusNotifier) Notify(ctx context.Context, summary, body string, urgency port.Urgency) error {
	log := logging.FromContext(ctx)
	if n.obj == nil {
		log.Debug().Str("summary", summary).Msg("notifier: no session bus, dropping notification")
		return nil
	}

	n.mu.Lock()
	replaces := n.lastID
	n.mu.Unlock()

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(urgency)),
	}

	// Notify(app_name s, replaces_id u, app_icon s, summary s, body s,
	//        actions as, hints a{sv}, expire_timeout i) -> id u
	var id uint32
	err := n.obj.CallWithContext(ctx, notifyInterface+".Notify", 0,
		appName, replaces, "", summary, body, []string{}, hints, defaultExpire,
	).Store(&id)
	if err != nil {
		log.Warn().Err(err).Msg("notifier: notify call failed")
		return fmt.Errorf("desktop notify: %w", err)
	}

	n.mu.Lock()
	n.lastID = id
	n.mu.Unlock()
	log.Debug().Uint32("id", id).Str("summary", summary).Msg("notification sent")
	return nil
}

// Close releases the bus connection.
func (n *DBusNotifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Close()
}

// Nop drops every notification. It is used when notifications are disabled.
type Nop struct{}

func (Nop) Notify(context.Context, string, string, port.Urgency) error { return nil }
