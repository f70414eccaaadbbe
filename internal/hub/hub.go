// Package hub assembles the chime daemon: embedded broker, bus
// subscription, event router, notification delivery, history, and the
// shared state behind the HTTP API.
package hub

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/chime/config"
	"github.com/grovetools/chime/internal/broker"
	"github.com/grovetools/chime/internal/bus"
	"github.com/grovetools/chime/internal/history"
	"github.com/grovetools/chime/internal/notify"
	"github.com/grovetools/chime/internal/router"
	"github.com/grovetools/chime/internal/session"
	"github.com/grovetools/chime/logging"
	"github.com/grovetools/chime/pkg/api"
	"github.com/grovetools/chime/pkg/paths"
	"github.com/grovetools/chime/version"
)

// desktopFile is the name the desktop entry is installed under; the
// taskbar protocol addresses the application through it.
const desktopFile = "chime.desktop"

// Hub owns every long-lived component of the daemon and wires events
// from the bus through the router out to the desktop and the API.
type Hub struct {
	mu  sync.RWMutex
	cfg *config.Config

	registry *session.Registry
	namer    *session.Namer
	router   *router.Router
	history  *history.Store
	orch     *notify.Orchestrator
	player   *notify.BeepPlayer
	toaster  notify.Toaster
	tracker  *FocusTracker
	events   *Broadcaster
	tray     *notify.SystemTray

	broker *broker.Broker
	bus    *bus.Client

	startedAt time.Time
	stopOnce  sync.Once
	stopCh    chan struct{}

	log *logrus.Entry
}

// New assembles a hub from the given configuration. The pipeline is not
// running yet; call Start.
func New(cfg *config.Config) (*Hub, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	h := &Hub{
		cfg:      cfg,
		registry: session.NewRegistry(time.Duration(cfg.Sessions.TimeoutSeconds) * time.Second),
		namer:    session.NewNamer(),
		tracker:  NewFocusTracker(),
		events:   NewBroadcaster(),
		stopCh:   make(chan struct{}),
		log:      logging.NewLogger("hub"),
	}

	store, err := history.Open(paths.HistoryDBPath(), cfg.History.Limit)
	if err != nil {
		return nil, err
	}
	h.history = store

	h.player = notify.NewPlayer(cfg.Notifications.SoundFile)

	var (
		toaster notify.Toaster
		tray    notify.Tray
	)
	if desktopAvailable() {
		h.toaster = notify.NewToaster()
		toaster = h.toaster
		if cfg.Tray.Enabled {
			h.tray = notify.NewSystemTray(notify.TrayCallbacks{
				OnDashboard: h.dashboardHint,
				OnReset:     h.ResetUnread,
				OnQuit:      h.RequestStop,
			})
			tray = h.tray
		}
	} else {
		h.log.Info("No desktop session detected, notifications run headless")
	}

	var taskbar notify.Taskbar
	if tb, err := notify.NewTaskbar(desktopFile); err == nil {
		taskbar = tb
	} else {
		h.log.Debugf("Taskbar integration unavailable: %v", err)
	}

	h.orch = notify.NewOrchestrator(
		settingsFromConfig(cfg.Notifications),
		&notify.Counter{},
		toaster,
		h.player,
		tray,
		taskbar,
		h.tracker.Visible,
	)

	h.router = router.New(router.Options{
		Registry:          h.registry,
		Namer:             h.namer,
		Notifier:          h,
		Muted:             h.muted,
		OnSessionsChanged: h.onSessionsChanged,
	})

	return h, nil
}

// Start brings the pipeline up: broker, bus subscription, consumer
// loop, config watcher. It returns once everything is running; Close
// tears it down again.
func (h *Hub) Start(ctx context.Context) error {
	h.startedAt = time.Now()
	cfg := h.Config()

	if cfg.Broker.Enabled {
		b, err := broker.Start(*cfg.Broker)
		if err != nil {
			return err
		}
		h.broker = b
	}

	c, err := bus.Connect(*cfg.Bus)
	if err != nil {
		if h.broker != nil {
			_ = h.broker.Close()
		}
		return err
	}
	h.bus = c

	go h.consume()

	watcher, err := NewConfigWatcher(0, h.applyConfig)
	if err != nil {
		h.log.Warnf("Config watcher unavailable: %v", err)
	} else {
		go watcher.Start(ctx)
	}

	h.log.WithField("pid", os.Getpid()).Info("Hub started")
	return nil
}

// consume drains the bus into the router. Dispatch, and all state
// mutation downstream of it, happens on this one goroutine.
func (h *Hub) consume() {
	for msg := range h.bus.Messages() {
		h.router.Consume(msg.Topic, msg.Payload)
	}
	h.log.Debug("Event consumer stopped")
}

// RunTray blocks until shutdown is requested. With a tray it hands the
// calling goroutine to the tray library, which expects to own the main
// thread.
func (h *Hub) RunTray(ctx context.Context) {
	if h.tray == nil {
		select {
		case <-ctx.Done():
		case <-h.stopCh:
		}
		return
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-h.stopCh:
		}
		h.tray.Quit()
	}()
	h.tray.Run()
}

// RequestStop asks the hub to shut down, as the tray Quit item does.
func (h *Hub) RequestStop() {
	h.stopOnce.Do(func() { close(h.stopCh) })
}

// Done is closed once a stop has been requested from inside the hub.
func (h *Hub) Done() <-chan struct{} {
	return h.stopCh
}

// Close shuts the pipeline down: bus first so the consumer drains out,
// then the broker and the history store.
func (h *Hub) Close() {
	if h.bus != nil {
		h.bus.Close()
	}
	if h.broker != nil {
		if err := h.broker.Close(); err != nil {
			h.log.Warnf("Broker close failed: %v", err)
		}
	}
	if h.history != nil {
		if err := h.history.Close(); err != nil {
			h.log.Warnf("History close failed: %v", err)
		}
	}
	h.log.Info("Hub stopped")
}

// Notify implements the router's notifier: deliver to the desktop,
// record in history, push to the event streams.
func (h *Hub) Notify(n api.Notification) {
	h.orch.Notify(n.Title, n.Body)

	entry, err := h.history.Record(n)
	if err != nil {
		h.log.Warnf("Failed to record notification: %v", err)
	} else {
		h.events.Publish(api.StreamEvent{Type: api.EventNotification, Notification: &entry})
	}

	unread := h.orch.Unread()
	h.events.Publish(api.StreamEvent{Type: api.EventUnread, Unread: &unread})
}

// TestNotification pushes a synthetic notification through the whole
// delivery pipeline, history included.
func (h *Hub) TestNotification(kind string) api.Notification {
	if kind == "" {
		kind = api.KindTest
	}
	n := api.Notification{
		Kind:  kind,
		Title: "Chime",
		Body:  "🔔 Test notification\nDelivery is working",
	}
	h.Notify(n)
	return n
}

// SetFocused records a dashboard focus report. Gaining focus
// acknowledges pending notifications, the same as looking at the
// dashboard.
func (h *Hub) SetFocused(focused bool) {
	h.tracker.SetFocused(focused)
	if focused {
		h.orch.Reset()
		zero := 0
		h.events.Publish(api.StreamEvent{Type: api.EventUnread, Unread: &zero})
	}
	f := focused
	h.events.Publish(api.StreamEvent{Type: api.EventFocus, Focused: &f})
}

// ResetUnread acknowledges everything: counter, badge, blink, and the
// stored read flags.
func (h *Hub) ResetUnread() {
	h.orch.Reset()
	if err := h.history.MarkAllRead(); err != nil {
		h.log.Warnf("Failed to mark history read: %v", err)
	}
	zero := 0
	h.events.Publish(api.StreamEvent{Type: api.EventUnread, Unread: &zero})
}

// SessionViews renders the registry for the API: named sessions, most
// recently updated first, plus the aggregate metrics.
func (h *Hub) SessionViews() ([]api.SessionView, api.MetricsView) {
	records := h.registry.Snapshot()
	views := make([]api.SessionView, 0, len(records))
	for _, rec := range records {
		views = append(views, api.SessionView{
			SessionID:    rec.SessionID,
			Name:         h.namer.NameFor(rec.SessionID, rec.Cwd),
			Cwd:          rec.Cwd,
			State:        rec.Status.State,
			ContextPct:   rec.Status.ContextPercent,
			CostUSD:      rec.Status.CostUSD,
			LinesAdded:   rec.Status.LinesAdded,
			LinesRemoved: rec.Status.LinesRemoved,
			UpdatedAt:    rec.LastUpdated,
		})
	}

	m := h.registry.Metrics()
	mv := api.MetricsView{
		ActiveSessions:    m.ActiveSessions,
		TotalCostUSD:      m.TotalCostUSD,
		TotalLinesAdded:   m.TotalLinesAdded,
		TotalLinesRemoved: m.TotalLinesRemoved,
	}
	if m.SessionsWithContext > 0 {
		avg := m.AverageContextPercent
		mv.AvgContextPct = &avg
	}
	return views, mv
}

// Tooltip returns the tray tooltip summary of the registry.
func (h *Hub) Tooltip() string {
	return h.registry.Tooltip()
}

// Status snapshots the hub for the status endpoint.
func (h *Hub) Status() api.StatusResponse {
	cfg := h.Config()
	resp := api.StatusResponse{
		Version:          version.Version,
		PID:              os.Getpid(),
		StartedAt:        h.startedAt,
		UptimeSeconds:    int64(time.Since(h.startedAt).Seconds()),
		Socket:           paths.SocketPath(),
		BusURL:           cfg.Bus.URL,
		BrokerEnabled:    cfg.Broker.Enabled,
		ActiveSessions:   h.registry.Len(),
		Unread:           h.orch.Unread(),
		DashboardVisible: h.tracker.Visible(),
	}
	if h.bus != nil {
		resp.BusConnected = h.bus.Connected()
		resp.DroppedEvents = h.bus.Dropped()
	}
	if h.broker != nil {
		resp.BrokerListen = h.broker.Listen()
		stats := h.broker.Stats()
		resp.Broker = &stats
	}
	return resp
}

// Settings returns the active notification settings.
func (h *Hub) Settings() api.Settings {
	n := h.Config().Notifications
	return api.Settings{
		Toast:        n.Toast,
		Sound:        n.Sound,
		SoundVolume:  n.SoundVolume,
		SoundFile:    n.SoundFile,
		TaskbarFlash: n.TaskbarFlash,
		TaskbarBadge: n.TaskbarBadge,
		TrayFlash:    n.TrayFlash,
		Mute:         n.Mute,
	}
}

// UpdateSettings persists new notification settings to chime.yml and
// applies them immediately, without waiting for the file watcher.
func (h *Hub) UpdateSettings(s api.Settings) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}
	cfg.Notifications = &config.NotificationsConfig{
		Toast:        s.Toast,
		Sound:        s.Sound,
		SoundVolume:  s.SoundVolume,
		SoundFile:    s.SoundFile,
		TaskbarFlash: s.TaskbarFlash,
		TaskbarBadge: s.TaskbarBadge,
		TrayFlash:    s.TrayFlash,
		Mute:         s.Mute,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg, paths.ConfigFile()); err != nil {
		return err
	}
	h.applyConfig(cfg)
	return nil
}

// Config returns the currently active configuration snapshot.
func (h *Hub) Config() *config.Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// History exposes the notification store to the API layer.
func (h *Hub) History() *history.Store {
	return h.history
}

// Events exposes the stream broadcaster to the API layer.
func (h *Hub) Events() *Broadcaster {
	return h.events
}

// Unread returns the current unread notification count.
func (h *Hub) Unread() int {
	return h.orch.Unread()
}

// applyConfig swaps in a freshly loaded config: channel toggles, mute
// patterns, sound file, logging level.
func (h *Hub) applyConfig(cfg *config.Config) {
	h.mu.Lock()
	h.cfg = cfg
	h.mu.Unlock()

	h.orch.UpdateSettings(settingsFromConfig(cfg.Notifications))
	h.player.SetSoundFile(cfg.Notifications.SoundFile)

	var logCfg logging.Config
	if err := cfg.UnmarshalExtension("logging", &logCfg); err == nil && logCfg.Level != "" {
		logging.SetLevel(logCfg.Level)
	}

	h.events.Publish(api.StreamEvent{Type: api.EventConfigReload, ConfigFile: paths.ConfigFile()})
}

// muted is the router's mute predicate, evaluated against the current
// config so pattern edits take effect on reload.
func (h *Hub) muted(cwd string) bool {
	return h.Config().Notifications.Muted(cwd)
}

// onSessionsChanged refreshes the tray tooltip and pushes the new
// registry view to the event streams.
func (h *Hub) onSessionsChanged() {
	h.orch.SetTooltip(h.registry.Tooltip())
	sessions, metrics := h.SessionViews()
	h.events.Publish(api.StreamEvent{
		Type:     api.EventSessions,
		Sessions: sessions,
		Metrics:  &metrics,
	})
}

// dashboardHint is the tray menu action. The dashboard is a terminal
// app, so the best the tray can do is point at it.
func (h *Hub) dashboardHint() {
	if h.toaster != nil {
		_ = h.toaster.Show("Chime", "Run 'chime dashboard' in a terminal to open the dashboard")
		return
	}
	h.log.Info("Dashboard requested from tray; run 'chime dashboard'")
}

func settingsFromConfig(n *config.NotificationsConfig) notify.Settings {
	if n == nil {
		return notify.DefaultSettings()
	}
	return notify.Settings{
		Toast:        n.Toast,
		Sound:        n.Sound,
		SoundVolume:  n.SoundVolume,
		TaskbarFlash: n.TaskbarFlash,
		TaskbarBadge: n.TaskbarBadge,
		TrayFlash:    n.TrayFlash,
	}
}

// desktopAvailable reports whether a graphical session is reachable.
// Tray and toast are skipped without one; the rest of the hub runs the
// same either way.
func desktopAvailable() bool {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
