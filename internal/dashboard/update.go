package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovetools/chime/pkg/api"
)

type connectedMsg struct {
	events <-chan api.StreamEvent
}

type connectFailedMsg struct {
	err error
}

type streamClosedMsg struct{}

type eventMsg api.StreamEvent

type snapshotMsg struct {
	sessions api.SessionsResponse
	history  api.HistoryResponse
}

type snapshotFailedMsg struct {
	err error
}

type historyMsg api.HistoryResponse

type actionFailedMsg struct {
	err error
}

type retryMsg struct{}

type heartbeatMsg struct{}

// connect opens the hub event stream.
func (m Model) connect() tea.Msg {
	ch, err := m.client.Events(m.ctx)
	if err != nil {
		return connectFailedMsg{err: err}
	}
	return connectedMsg{events: ch}
}

// waitForEvent blocks on the stream until the next event arrives.
func waitForEvent(ch <-chan api.StreamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

// fetchSnapshot loads sessions and recent history in one shot.
func (m Model) fetchSnapshot() tea.Msg {
	ctx, cancel := context.WithTimeout(m.ctx, 3*time.Second)
	defer cancel()

	sessions, err := m.client.Sessions(ctx)
	if err != nil {
		return snapshotFailedMsg{err: err}
	}
	history, err := m.client.History(ctx, historyFetchLimit, false)
	if err != nil {
		return snapshotFailedMsg{err: err}
	}
	return snapshotMsg{sessions: sessions, history: history}
}

// fetchHistory reloads the notification backlog after an action.
func (m Model) fetchHistory() tea.Msg {
	ctx, cancel := context.WithTimeout(m.ctx, 3*time.Second)
	defer cancel()

	history, err := m.client.History(ctx, historyFetchLimit, false)
	if err != nil {
		return actionFailedMsg{err: err}
	}
	return historyMsg(history)
}

// reportFocus tells the hub whether this terminal is visible. Delivery
// is best effort; a missed report just ages out at the hub.
func (m Model) reportFocus(focused bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, 2*time.Second)
		defer cancel()
		_ = m.client.SetFocused(ctx, focused, clientName)
		return nil
	}
}

// resetUnread acknowledges every notification.
func (m Model) resetUnread() tea.Msg {
	ctx, cancel := context.WithTimeout(m.ctx, 3*time.Second)
	defer cancel()

	if _, err := m.client.MarkRead(ctx, ""); err != nil {
		return actionFailedMsg{err: err}
	}
	return m.fetchHistory()
}

// clearHistory wipes the stored backlog.
func (m Model) clearHistory() tea.Msg {
	ctx, cancel := context.WithTimeout(m.ctx, 3*time.Second)
	defer cancel()

	if err := m.client.ClearHistory(ctx); err != nil {
		return actionFailedMsg{err: err}
	}
	return m.fetchHistory()
}

func heartbeat() tea.Cmd {
	return tea.Tick(focusHeartbeat, func(time.Time) tea.Msg {
		return heartbeatMsg{}
	})
}

func retryLater() tea.Cmd {
	return tea.Tick(reconnectDelay, func(time.Time) tea.Msg {
		return retryMsg{}
	})
}

// Update handles terminal events, key presses, and hub messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.FocusMsg:
		m.focused = true
		return m, m.reportFocus(true)

	case tea.BlurMsg:
		m.focused = false
		return m, m.reportFocus(false)

	case connectedMsg:
		m.connected = true
		m.events = msg.events
		m.notice = ""
		return m, tea.Batch(waitForEvent(m.events), m.fetchSnapshot)

	case connectFailedMsg:
		m.connected = false
		m.notice = "hub unreachable, retrying..."
		return m, retryLater()

	case streamClosedMsg:
		m.connected = false
		m.events = nil
		m.notice = "hub connection lost, retrying..."
		return m, retryLater()

	case retryMsg:
		if m.connected {
			return m, nil
		}
		return m, m.connect

	case heartbeatMsg:
		if m.focused {
			return m, tea.Batch(heartbeat(), m.reportFocus(true))
		}
		return m, heartbeat()

	case eventMsg:
		if m.events == nil {
			return m, nil
		}
		m.applyEvent(api.StreamEvent(msg))
		return m, waitForEvent(m.events)

	case snapshotMsg:
		m.sessions = msg.sessions.Sessions
		m.metrics = msg.sessions.Metrics
		m.entries = msg.history.Entries
		m.unread = msg.history.Unread
		m.refreshTable()
		m.refreshViewport()
		return m, nil

	case snapshotFailedMsg:
		m.notice = "could not load hub state"
		return m, nil

	case historyMsg:
		m.entries = msg.Entries
		m.unread = msg.Unread
		m.refreshViewport()
		return m, nil

	case actionFailedMsg:
		m.notice = msg.err.Error()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Sequence(m.reportFocus(false), tea.Quit)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		return m, m.resetUnread

	case key.Matches(msg, m.keys.Clear):
		return m, m.clearHistory

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// applyEvent folds a stream event into the model.
func (m *Model) applyEvent(ev api.StreamEvent) {
	switch ev.Type {
	case api.EventSessions:
		m.sessions = ev.Sessions
		if ev.Metrics != nil {
			m.metrics = *ev.Metrics
		}
		m.refreshTable()

	case api.EventNotification:
		if ev.Notification == nil {
			return
		}
		m.entries = append([]api.HistoryEntry{*ev.Notification}, m.entries...)
		if len(m.entries) > maxEntries {
			m.entries = m.entries[:maxEntries]
		}
		m.refreshViewport()

	case api.EventUnread:
		if ev.Unread == nil {
			return
		}
		m.unread = *ev.Unread
		if m.unread == 0 {
			for i := range m.entries {
				m.entries[i].Read = true
			}
			m.refreshViewport()
		}

	case api.EventConfigReload:
		m.notice = "configuration reloaded"
	}
}
