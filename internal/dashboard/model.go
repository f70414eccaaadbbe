package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/chime/pkg/api"
	"github.com/grovetools/chime/tui/theme"
)

const (
	// clientName identifies the dashboard in focus reports.
	clientName = "dashboard"

	// focusHeartbeat re-reports focus while the terminal stays focused.
	// It must fire more often than the hub's 30s visibility cutoff.
	focusHeartbeat = 15 * time.Second

	// reconnectDelay paces event stream reconnect attempts.
	reconnectDelay = 2 * time.Second

	// historyFetchLimit bounds the notification pane backlog.
	historyFetchLimit = 50

	// maxEntries caps the in-memory notification list.
	maxEntries = 100

	// sessionPaneHeight is the sessions table height, header included.
	sessionPaneHeight = 8

	defaultWidth = 80
)

// hubClient is the slice of the hub API the dashboard consumes.
type hubClient interface {
	Sessions(ctx context.Context) (api.SessionsResponse, error)
	History(ctx context.Context, limit int, unreadOnly bool) (api.HistoryResponse, error)
	MarkRead(ctx context.Context, id string) (int, error)
	ClearHistory(ctx context.Context) error
	SetFocused(ctx context.Context, focused bool, clientName string) error
	Events(ctx context.Context) (<-chan api.StreamEvent, error)
}

// Model is the dashboard's bubbletea model: a sessions table over a
// notification backlog, fed by the hub's event stream.
type Model struct {
	ctx    context.Context
	client hubClient
	theme  *theme.Theme
	keys   KeyMap
	help   help.Model

	table    table.Model
	viewport viewport.Model

	sessions []api.SessionView
	metrics  api.MetricsView
	entries  []api.HistoryEntry
	unread   int

	events    <-chan api.StreamEvent
	connected bool
	focused   bool
	notice    string

	width  int
	height int
	ready  bool
}

func newModel(ctx context.Context, c hubClient) Model {
	th := theme.DefaultTheme

	tbl := table.New(
		table.WithColumns(sessionColumns(defaultWidth)),
		table.WithFocused(true),
		table.WithHeight(sessionPaneHeight),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		Bold(true).
		Foreground(th.Colors.Cyan).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(th.Colors.Border).
		BorderBottom(true)
	st.Selected = st.Selected.
		Background(th.Colors.SelectedBackground).
		Foreground(th.Colors.LightText)
	tbl.SetStyles(st)

	return Model{
		ctx:      ctx,
		client:   c,
		theme:    th,
		keys:     DefaultKeyMap,
		help:     help.New(),
		table:    tbl,
		viewport: viewport.New(defaultWidth, 10),
		focused:  true,
	}
}

// Init connects to the hub and reports the terminal as focused.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("chime"),
		m.connect,
		m.reportFocus(true),
		heartbeat(),
	)
}

// sessionColumns sizes the table for the given terminal width; only the
// session name column flexes.
func sessionColumns(width int) []table.Column {
	const fixed = 10 + 5 + 9 + 13 + 5 + 12
	name := width - fixed
	if name < 12 {
		name = 12
	}
	if name > 28 {
		name = 28
	}
	return []table.Column{
		{Title: "SESSION", Width: name},
		{Title: "STATE", Width: 10},
		{Title: "CTX", Width: 5},
		{Title: "COST", Width: 9},
		{Title: "LINES", Width: 13},
		{Title: "AGE", Width: 5},
	}
}
