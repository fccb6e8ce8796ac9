package infra

import (
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/pomokit/pomo/internal/domain"
)

// DBusNotifier sends desktop notifications via
// org.freedesktop.Notifications on the session bus. Delivery is
// fire-and-forget: failures are logged at debug and swallowed, so a
// missing notification backend never fails the operation that
// triggered it.
type DBusNotifier struct {
	conn   *dbus.Conn
	logger *zap.Logger
}

// NewNotifier connects to the session bus. When no bus is reachable
// (headless host, stripped-down environment) it degrades to a no-op
// notifier instead of returning an error.
func NewNotifier(logger *zap.Logger) domain.Notifier {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		logger.Debug("session bus unavailable, notifications disabled", zap.Error(err))
		return &NoopNotifier{}
	}
	return &DBusNotifier{conn: conn, logger: logger}
}

// Send delivers one notification. sound asks the server to play the
// default message sound.
func (n *DBusNotifier) Send(title, body string, sound bool) {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(1)), // normal urgency
	}
	if sound {
		hints["sound-name"] = dbus.MakeVariant("message-new-instant")
	} else {
		hints["suppress-sound"] = dbus.MakeVariant(true)
	}

	obj := n.conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"pomo",     // app name
		uint32(0),  // replaces_id
		"",         // icon
		title,      // summary
		body,       // body
		[]string{}, // actions
		hints,
		int32(10000)) // 10s timeout

	if call.Err != nil {
		n.logger.Debug("notification failed", zap.Error(call.Err))
	}
}

// NoopNotifier discards all notifications.
type NoopNotifier struct{}

// Send does nothing.
func (n *NoopNotifier) Send(title, body string, sound bool) {}

var (
	_ domain.Notifier = (*DBusNotifier)(nil)
	_ domain.Notifier = (*NoopNotifier)(nil)
)
