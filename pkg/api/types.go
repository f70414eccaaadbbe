// Package api defines the wire types shared by the hub's HTTP API, the
// remote client, and the dashboard stream.
package api

import "time"

// Notification kinds, in the order the router produces them.
const (
	KindTaskComplete = "task_complete"
	KindApproval     = "approval"
	KindQuestion     = "question"
	KindNotification = "notification"
	KindError        = "error"
	KindRaw          = "raw"
	KindTest         = "test"
)

// Notification is a single rendered notification, ready for delivery.
type Notification struct {
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	SessionID string `json:"session_id,omitempty"`
	Cwd       string `json:"cwd,omitempty"`
}

// HistoryEntry is a stored notification with its delivery metadata.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	SessionID string    `json:"session_id,omitempty"`
	Cwd       string    `json:"cwd,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// SessionView is one tracked Claude Code session as reported by the hub.
type SessionView struct {
	SessionID    string    `json:"session_id"`
	Name         string    `json:"name"`
	Cwd          string    `json:"cwd,omitempty"`
	State        string    `json:"state,omitempty"`
	ContextPct   *float64  `json:"context_pct,omitempty"`
	CostUSD      *float64  `json:"cost_usd,omitempty"`
	LinesAdded   *int      `json:"lines_added,omitempty"`
	LinesRemoved *int      `json:"lines_removed,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MetricsView aggregates the session registry for the tray and dashboard.
// AvgContextPct is nil when no active session reported context usage.
type MetricsView struct {
	ActiveSessions    int      `json:"active_sessions"`
	TotalCostUSD      float64  `json:"total_cost_usd"`
	AvgContextPct     *float64 `json:"avg_context_pct,omitempty"`
	TotalLinesAdded   int      `json:"total_lines_added"`
	TotalLinesRemoved int      `json:"total_lines_removed"`
}

// SessionsResponse is the payload of GET /api/sessions.
type SessionsResponse struct {
	Sessions []SessionView `json:"sessions"`
	Metrics  MetricsView   `json:"metrics"`
	Tooltip  string        `json:"tooltip"`
}

// HistoryResponse is the payload of GET /api/history.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
	Unread  int            `json:"unread"`
}

// StatusResponse is the payload of GET /api/status.
type StatusResponse struct {
	Version          string       `json:"version"`
	PID              int          `json:"pid"`
	StartedAt        time.Time    `json:"started_at"`
	UptimeSeconds    int64        `json:"uptime_seconds"`
	Socket           string       `json:"socket"`
	BusURL           string       `json:"bus_url"`
	BusConnected     bool         `json:"bus_connected"`
	BrokerEnabled    bool         `json:"broker_enabled"`
	BrokerListen     string       `json:"broker_listen,omitempty"`
	Broker           *BrokerStats `json:"broker,omitempty"`
	ActiveSessions   int          `json:"active_sessions"`
	Unread           int          `json:"unread"`
	DashboardVisible bool         `json:"dashboard_visible"`
	DroppedEvents    uint64       `json:"dropped_events"`
}

// BrokerStats summarizes the embedded broker's client activity. Present
// on StatusResponse only when the embedded broker is running.
type BrokerStats struct {
	ClientsConnected int64 `json:"clients_connected"`
	MessagesReceived int64 `json:"messages_received"`
	MessagesSent     int64 `json:"messages_sent"`
	Subscriptions    int64 `json:"subscriptions"`
	Retained         int64 `json:"retained"`
}

// HealthResponse is the payload of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Settings mirrors the notifications section of chime.yml for the
// settings endpoints. PUT /api/settings persists it back to disk.
type Settings struct {
	Toast        bool     `json:"toast"`
	Sound        bool     `json:"sound"`
	SoundVolume  float64  `json:"sound_volume"`
	SoundFile    string   `json:"sound_file,omitempty"`
	TaskbarFlash bool     `json:"taskbar_flash"`
	TaskbarBadge bool     `json:"taskbar_badge"`
	TrayFlash    bool     `json:"tray_flash"`
	Mute         []string `json:"mute,omitempty"`
}

// FocusRequest reports dashboard visibility to the hub. A client posting
// focused=true marks the dashboard visible and clears the unread state.
type FocusRequest struct {
	Focused bool   `json:"focused"`
	Client  string `json:"client,omitempty"`
}

// TestRequest asks the hub to emit a synthetic notification through the
// full delivery pipeline.
type TestRequest struct {
	Kind string `json:"kind,omitempty"`
}

// StreamEvent is one server-sent event on /api/events.
type StreamEvent struct {
	Type         string        `json:"type"` // "notification", "sessions", "unread", "config_reload", "focus"
	Notification *HistoryEntry `json:"notification,omitempty"`
	Sessions     []SessionView `json:"sessions,omitempty"`
	Metrics      *MetricsView  `json:"metrics,omitempty"`
	Unread       *int          `json:"unread,omitempty"`
	Focused      *bool         `json:"focused,omitempty"`
	ConfigFile   string        `json:"config_file,omitempty"`
}

// Stream event types.
const (
	EventNotification = "notification"
	EventSessions     = "sessions"
	EventUnread       = "unread"
	EventConfigReload = "config_reload"
	EventFocus        = "focus"
)
