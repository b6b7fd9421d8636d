package apply

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// DefaultUnit is the systemd unit of the GNOME display manager.
const DefaultUnit = "gdm.service"

// Restart methods accepted by NewRestarter.
const (
	RestartSystemctl = "systemctl"
	RestartDBus      = "dbus"
)

// NewRestarter creates a Restarter for the named method.
func NewRestarter(method, elevate, unit string) (Restarter, error) {
	if unit == "" {
		unit = DefaultUnit
	}
	switch method {
	case "", RestartSystemctl:
		return &SystemctlRestarter{Elevate: elevate, Unit: unit, Runner: ExecRunner{}}, nil
	case RestartDBus:
		return NewDBusRestarter(unit), nil
	default:
		return nil, fmt.Errorf("unknown restart method %q", method)
	}
}

// SystemctlRestarter runs `systemctl restart <unit>` through the privilege command.
type SystemctlRestarter struct {
	Elevate string
	Unit    string
	Runner  CommandRunner
}

// Restart issues the restart and waits for systemctl to return.
func (r *SystemctlRestarter) Restart(ctx context.Context) error {
	name, args := elevated(r.Elevate, "systemctl", "restart", r.Unit)
	return r.Runner.Run(ctx, nil, name, args...)
}

const (
	systemdBusName = "org.freedesktop.systemd1"
	systemdPath    = dbus.ObjectPath("/org/freedesktop/systemd1")
	systemdManager = "org.freedesktop.systemd1.Manager"
)

// DBusRestarter asks systemd over the system bus to restart the unit.
// Authorisation is handled by polkit on the systemd side.
type DBusRestarter struct {
	Unit    string
	connect func() (*dbus.Conn, error)
}

// NewDBusRestarter creates a DBusRestarter on the shared system bus.
func NewDBusRestarter(unit string) *DBusRestarter {
	return &DBusRestarter{Unit: unit, connect: dbus.SystemBus}
}

// Restart queues a restart job in "replace" mode.
func (r *DBusRestarter) Restart(ctx context.Context) error {
	conn, err := r.connect()
	if err != nil {
		return fmt.Errorf("failed to connect to system bus: %w", err)
	}

	var job dbus.ObjectPath
	obj := conn.Object(systemdBusName, systemdPath)
	call := obj.CallWithContext(ctx, systemdManager+".RestartUnit",
		dbus.FlagAllowInteractiveAuthorization, r.Unit, "replace")
	if err := call.Store(&job); err != nil {
		return fmt.Errorf("RestartUnit %s: %w", r.Unit, err)
	}
	return nil
}
