// Package notify sends desktop notifications through the
// org.freedesktop.Notifications D-Bus interface.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	// DBusInterface is the notification interface name.
	DBusInterface = "org.freedesktop.Notifications"
	// DBusPath is the notification object path.
	DBusPath = "/org/freedesktop/Notifications"
	// DBusBusName is the bus name of the notification daemon.
	DBusBusName = "org.freedesktop.Notifications"
)

// Urgency levels from the freedesktop notification specification.
const (
	UrgencyLow      byte = 0
	UrgencyNormal   byte = 1
	UrgencyCritical byte = 2
)

// Message is a single notification.
type Message struct {
	Summary string
	Body    string
	Icon    string
	Urgency byte
	Timeout int32 // milliseconds; -1 = server default
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// DBusNotifier calls Notify on the session bus.
type DBusNotifier struct {
	appName string
	logger  *slog.Logger
	connect func() (*dbus.Conn, error)
}

// NewDBusNotifier creates a notifier that identifies itself as appName.
func NewDBusNotifier(appName string, logger *slog.Logger) *DBusNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &DBusNotifier{
		appName: appName,
		logger:  logger,
		connect: dbus.SessionBus,
	}
}

// Notify sends msg and returns once the daemon has accepted it.
// D-Bus method: Notify(susssasa{sv}i) -> u
func (n *DBusNotifier) Notify(ctx context.Context, msg Message) error {
	conn, err := n.connect()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	timeout := msg.Timeout
	if timeout == 0 {
		timeout = -1
	}

	var id uint32
	obj := conn.Object(DBusBusName, DBusPath)
	call := obj.CallWithContext(ctx, DBusInterface+".Notify", 0,
		n.appName,
		uint32(0),
		msg.Icon,
		msg.Summary,
		msg.Body,
		[]string{},
		Hints(msg),
		timeout,
	)
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	n.logger.Debug("notification sent", "id", id, "summary", msg.Summary)
	return nil
}

// Hints builds the a{sv} hints map for msg.
func Hints(msg Message) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(msg.Urgency),
	}
	if msg.Urgency == UrgencyCritical {
		hints["resident"] = dbus.MakeVariant(true)
	} else {
		hints["transient"] = dbus.MakeVariant(true)
	}
	return hints
}

// Nop discards messages.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, Message) error { return nil }
