package notify

import (
	"sync/atomic"

	"fyne.io/systray"
	"github.com/grovetools/chime/internal/notify/icon"
	"github.com/grovetools/chime/logging"
	"github.com/sirupsen/logrus"
)

// SystemTray owns the tray icon and its menu. Calls arriving before the
// tray is ready are dropped, which only happens in the first moments of
// startup.
type SystemTray struct {
	log   *logrus.Entry
	ready atomic.Bool

	onDashboard func()
	onReset     func()
	onQuit      func()
}

// TrayCallbacks wires the menu items to hub actions.
type TrayCallbacks struct {
	OnDashboard func()
	OnReset     func()
	OnQuit      func()
}

// NewSystemTray creates the tray wrapper. Run must be called to show it.
func NewSystemTray(cb TrayCallbacks) *SystemTray {
	return &SystemTray{
		log:         logging.NewLogger("tray"),
		onDashboard: cb.OnDashboard,
		onReset:     cb.OnReset,
		onQuit:      cb.OnQuit,
	}
}

// Run shows the tray icon and blocks until Quit is called.
func (t *SystemTray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and unblocks Run.
func (t *SystemTray) Quit() {
	systray.Quit()
}

func (t *SystemTray) onReady() {
	systray.SetIcon(icon.Base())
	systray.SetTooltip("Chime")

	mDashboard := systray.AddMenuItem("Open Dashboard", "Show the Chime dashboard in a terminal")
	mReset := systray.AddMenuItem("Mark All Read", "Clear the unread notification state")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Stop the Chime hub")

	t.ready.Store(true)
	t.log.Debug("Tray icon ready")

	go func() {
		for {
			select {
			case <-mDashboard.ClickedCh:
				if t.onDashboard != nil {
					t.onDashboard()
				}
			case <-mReset.ClickedCh:
				if t.onReset != nil {
					t.onReset()
				}
			case <-mQuit.ClickedCh:
				if t.onQuit != nil {
					t.onQuit()
				}
				return
			}
		}
	}()
}

func (t *SystemTray) onExit() {
	t.ready.Store(false)
}

func (t *SystemTray) SetIcon(alert bool) error {
	if !t.ready.Load() {
		return nil
	}
	if alert {
		systray.SetIcon(icon.Alert())
	} else {
		systray.SetIcon(icon.Base())
	}
	return nil
}

func (t *SystemTray) SetTooltip(text string) error {
	if !t.ready.Load() {
		return nil
	}
	systray.SetTooltip(text)
	return nil
}
