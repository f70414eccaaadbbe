package notify

import (
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	launcherPath      = dbus.ObjectPath("/com/grovetools/chime/launcherentry")
	launcherInterface = "com.canonical.Unity.LauncherEntry"
)

// DbusTaskbar drives the dock/taskbar entry through the LauncherEntry
// protocol (Unity, KDE, docks like Plank honor it): an urgent flag for
// flashing and a numeric badge for the unread count.
type DbusTaskbar struct {
	conn   *dbus.Conn
	appURI string
}

// NewTaskbar connects to the session bus. desktopFile is the name the
// desktop entry is installed under, e.g. "chime.desktop".
func NewTaskbar(desktopFile string) (*DbusTaskbar, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return &DbusTaskbar{
		conn:   conn,
		appURI: "application://" + desktopFile,
	}, nil
}

func (t *DbusTaskbar) emit(props map[string]dbus.Variant) error {
	return t.conn.Emit(launcherPath, launcherInterface+".Update", t.appURI, props)
}

// Flash raises the urgent hint for roughly count pulses, then lowers it.
func (t *DbusTaskbar) Flash(count int) error {
	if err := t.emit(map[string]dbus.Variant{
		"urgent": dbus.MakeVariant(true),
	}); err != nil {
		return err
	}
	time.AfterFunc(time.Duration(count)*time.Second, func() {
		_ = t.emit(map[string]dbus.Variant{
			"urgent": dbus.MakeVariant(false),
		})
	})
	return nil
}

func (t *DbusTaskbar) SetBadge(count int) error {
	return t.emit(map[string]dbus.Variant{
		"count":         dbus.MakeVariant(int64(count)),
		"count-visible": dbus.MakeVariant(true),
	})
}

func (t *DbusTaskbar) ClearBadge() error {
	return t.emit(map[string]dbus.Variant{
		"count":         dbus.MakeVariant(int64(0)),
		"count-visible": dbus.MakeVariant(false),
		"urgent":        dbus.MakeVariant(false),
	})
}

// Close releases the bus connection.
func (t *DbusTaskbar) Close() error {
	return t.conn.Close()
}
