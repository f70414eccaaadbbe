package notify

// Settings is the orchestrator's snapshot of the channel toggles from
// chime.yml. It is replaced wholesale on config reload.
type Settings struct {
	Toast        bool
	Sound        bool
	SoundVolume  float64
	TaskbarFlash bool
	TaskbarBadge bool
	TrayFlash    bool
}

// DefaultSettings enables every channel at the default volume.
func DefaultSettings() Settings {
	return Settings{
		Toast:        true,
		Sound:        true,
		SoundVolume:  0.8,
		TaskbarFlash: true,
		TaskbarBadge: true,
		TrayFlash:    true,
	}
}

// Toaster shows OS toast notifications.
type Toaster interface {
	Show(title, body string) error
}

// Player plays the notification chime at a volume between 0.0 and 1.0.
type Player interface {
	Play(volume float64) error
}

// Tray drives the system tray icon. SetIcon(true) shows the alert-decorated
// icon, SetIcon(false) the base icon.
type Tray interface {
	SetIcon(alert bool) error
	SetTooltip(text string) error
}

// Taskbar drives the platform taskbar entry for the dashboard window.
type Taskbar interface {
	Flash(count int) error
	SetBadge(count int) error
	ClearBadge() error
}

// Headless fallbacks for environments without a desktop session. Delivery
// becomes a no-op while history and the unread counter keep working.

type NopToaster struct{}

func (NopToaster) Show(title, body string) error { return nil }

type NopPlayer struct{}

func (NopPlayer) Play(volume float64) error { return nil }

type NopTray struct{}

func (NopTray) SetIcon(alert bool) error     { return nil }
func (NopTray) SetTooltip(text string) error { return nil }

type NopTaskbar struct{}

func (NopTaskbar) Flash(count int) error    { return nil }
func (NopTaskbar) SetBadge(count int) error { return nil }
func (NopTaskbar) ClearBadge() error        { return nil }
