package notify

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/grovetools/chime/logging"
	"github.com/sirupsen/logrus"
)

const (
	// flashPulses is the fixed taskbar flash length requested when the
	// dashboard is visible.
	flashPulses = 3

	defaultBlinkPeriod = 500 * time.Millisecond
)

// Orchestrator fans a notification out to the enabled channels and keeps
// the unread state consistent: every Notify increments the counter exactly
// once, no matter which channels are enabled or fail.
type Orchestrator struct {
	mu       sync.Mutex
	settings Settings

	counter *Counter
	toaster Toaster
	player  Player
	tray    Tray
	taskbar Taskbar

	// visible reports whether the dashboard is currently on screen.
	visible func() bool

	blinkRunning atomic.Bool
	blinkPeriod  time.Duration

	log *logrus.Entry
}

// NewOrchestrator wires the delivery channels. Nil channels fall back to
// no-ops so a headless hub still counts and stores notifications.
func NewOrchestrator(settings Settings, counter *Counter, toaster Toaster, player Player, tray Tray, taskbar Taskbar, visible func() bool) *Orchestrator {
	if counter == nil {
		counter = &Counter{}
	}
	if toaster == nil {
		toaster = NopToaster{}
	}
	if player == nil {
		player = NopPlayer{}
	}
	if tray == nil {
		tray = NopTray{}
	}
	if taskbar == nil {
		taskbar = NopTaskbar{}
	}
	if visible == nil {
		visible = func() bool { return false }
	}
	return &Orchestrator{
		settings:    settings,
		counter:     counter,
		toaster:     toaster,
		player:      player,
		tray:        tray,
		taskbar:     taskbar,
		visible:     visible,
		blinkPeriod: defaultBlinkPeriod,
		log:         logging.NewLogger("notify"),
	}
}

// UpdateSettings replaces the channel toggles, typically on config reload.
func (o *Orchestrator) UpdateSettings(s Settings) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settings = s
}

func (o *Orchestrator) snapshot() Settings {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settings
}

// Notify delivers one notification. Channel failures are logged and
// isolated, never aborting the remaining channels.
func (o *Orchestrator) Notify(title, body string) {
	s := o.snapshot()

	if s.Toast {
		if err := o.toaster.Show(title, body); err != nil {
			o.log.WithError(err).Warn("Toast delivery failed")
		}
	}

	if s.Sound {
		go func() {
			if err := o.player.Play(s.SoundVolume); err != nil {
				o.log.WithError(err).Warn("Sound playback failed")
			}
		}()
	}

	count := o.counter.Increment()

	if o.visible() {
		if s.TaskbarFlash {
			if err := o.taskbar.Flash(flashPulses); err != nil {
				o.log.WithError(err).Debug("Taskbar flash failed")
			}
		}
		if s.TaskbarBadge {
			if err := o.taskbar.SetBadge(count); err != nil {
				o.log.WithError(err).Debug("Taskbar badge failed")
			}
		}
	} else if s.TrayFlash {
		o.startBlink()
	}
}

// Reset acknowledges all notifications: the blink loop stops, the badge
// clears, and the counter returns to zero. Safe to call when nothing is
// active.
func (o *Orchestrator) Reset() {
	o.stopBlink()
	if err := o.taskbar.ClearBadge(); err != nil {
		o.log.WithError(err).Debug("Taskbar badge clear failed")
	}
	o.counter.Reset()
}

// Unread returns the current unread count.
func (o *Orchestrator) Unread() int {
	return o.counter.Value()
}

// SetTooltip forwards tray tooltip updates, so the hub has a single
// handle on the tray.
func (o *Orchestrator) SetTooltip(text string) {
	if err := o.tray.SetTooltip(text); err != nil {
		o.log.WithError(err).Debug("Tooltip update failed")
	}
}

func (o *Orchestrator) startBlink() {
	if !o.blinkRunning.CompareAndSwap(false, true) {
		return
	}
	go o.blinkLoop()
}

func (o *Orchestrator) stopBlink() {
	o.blinkRunning.Store(false)
}

// blinkLoop alternates the tray icon until the running flag drops, then
// restores the base icon. The flag is polled each cycle, so the icon is
// back to base within one period of any stop path.
func (o *Orchestrator) blinkLoop() {
	alert := true
	for o.blinkRunning.Load() {
		if err := o.tray.SetIcon(alert); err != nil {
			o.log.WithError(err).Debug("Tray icon swap failed")
		}
		alert = !alert
		time.Sleep(o.blinkPeriod)
	}
	if err := o.tray.SetIcon(false); err != nil {
		o.log.WithError(err).Debug("Tray icon restore failed")
	}
}
