package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/chime/config"
	"github.com/grovetools/chime/internal/session"
	"github.com/grovetools/chime/pkg/api"
	"github.com/grovetools/chime/testutil"
)

// newTestHub builds a hub with every delivery channel switched off, so
// tests exercise counting, history, and streams without a desktop.
func newTestHub(t *testing.T) *Hub {
	t.Helper()
	testutil.TempHome(t)

	cfg := config.Default()
	cfg.Broker.Enabled = false
	cfg.Tray.Enabled = false
	cfg.Notifications = &config.NotificationsConfig{SoundVolume: 0.5}

	h, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(h.Close)
	return h
}

func TestNotifyRecordsHistoryAndBroadcasts(t *testing.T) {
	h := newTestHub(t)
	ch := h.Events().Subscribe()
	defer h.Events().Unsubscribe(ch)

	h.Notify(api.Notification{
		Kind:      api.KindApproval,
		Title:     "app (1)",
		Body:      "⚠️ Approval needed\nBash: rm -rf ./build\n📁 app",
		SessionID: "s1",
		Cwd:       "/w/app",
	})

	assert.Equal(t, 1, h.Unread())

	entries, err := h.History().List(0, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, api.KindApproval, entries[0].Kind)
	assert.Equal(t, "app (1)", entries[0].Title)
	assert.False(t, entries[0].Read)

	ev := <-ch
	assert.Equal(t, api.EventNotification, ev.Type)
	require.NotNil(t, ev.Notification)
	assert.Equal(t, entries[0].ID, ev.Notification.ID)

	ev = <-ch
	assert.Equal(t, api.EventUnread, ev.Type)
	require.NotNil(t, ev.Unread)
	assert.Equal(t, 1, *ev.Unread)
}

func TestSetFocusedAcknowledgesCounterNotHistory(t *testing.T) {
	h := newTestHub(t)
	h.Notify(api.Notification{Kind: api.KindTaskComplete, Title: "app (1)", Body: "done"})
	require.Equal(t, 1, h.Unread())

	ch := h.Events().Subscribe()
	defer h.Events().Unsubscribe(ch)

	h.SetFocused(true)

	assert.Zero(t, h.Unread())
	assert.True(t, h.tracker.Visible())

	ev := <-ch
	assert.Equal(t, api.EventUnread, ev.Type)
	require.NotNil(t, ev.Unread)
	assert.Zero(t, *ev.Unread)

	ev = <-ch
	assert.Equal(t, api.EventFocus, ev.Type)
	require.NotNil(t, ev.Focused)
	assert.True(t, *ev.Focused)

	// Focus clears the counter but leaves history entries unread.
	unread, err := h.History().List(0, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)
}

func TestBlurDoesNotAcknowledge(t *testing.T) {
	h := newTestHub(t)
	h.Notify(api.Notification{Kind: api.KindError, Title: "Claude Code", Body: "boom"})

	h.SetFocused(false)

	assert.Equal(t, 1, h.Unread())
	assert.False(t, h.tracker.Visible())
}

func TestResetUnreadAlsoMarksHistoryRead(t *testing.T) {
	h := newTestHub(t)
	h.Notify(api.Notification{Kind: api.KindQuestion, Title: "app (1)", Body: "q1"})
	h.Notify(api.Notification{Kind: api.KindQuestion, Title: "app (1)", Body: "q2"})
	require.Equal(t, 2, h.Unread())

	h.ResetUnread()

	assert.Zero(t, h.Unread())
	unread, err := h.History().List(0, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestTestNotificationGoesThroughPipeline(t *testing.T) {
	h := newTestHub(t)

	n := h.TestNotification("")
	assert.Equal(t, api.KindTest, n.Kind)
	assert.Equal(t, "Chime", n.Title)

	entries, err := h.History().List(0, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, api.KindTest, entries[0].Kind)
	assert.Equal(t, 1, h.Unread())
}

func TestSessionViewsCarryNamesAndMetrics(t *testing.T) {
	h := newTestHub(t)

	views, metrics := h.SessionViews()
	assert.Empty(t, views)
	assert.Zero(t, metrics.ActiveSessions)
	assert.Nil(t, metrics.AvgContextPct)

	pct := 42.0
	cost := 1.25
	h.registry.Upsert(session.StatusPayload{
		SessionID: "s1",
		Cwd:       "/w/app",
		Status:    session.StatusFields{State: "busy", ContextPercent: &pct, CostUSD: &cost},
	})
	h.registry.Upsert(session.StatusPayload{SessionID: "s2", Cwd: "/w/api"})

	views, metrics = h.SessionViews()
	require.Len(t, views, 2)

	byID := make(map[string]api.SessionView, len(views))
	for _, v := range views {
		byID[v.SessionID] = v
	}
	assert.Equal(t, "app (1)", byID["s1"].Name)
	assert.Equal(t, "api (1)", byID["s2"].Name)
	assert.Equal(t, "busy", byID["s1"].State)
	require.NotNil(t, byID["s1"].ContextPct)
	assert.Equal(t, 42.0, *byID["s1"].ContextPct)
	assert.Nil(t, byID["s2"].ContextPct)

	assert.Equal(t, 2, metrics.ActiveSessions)
	assert.Equal(t, 1.25, metrics.TotalCostUSD)
	require.NotNil(t, metrics.AvgContextPct)
	assert.Equal(t, 42.0, *metrics.AvgContextPct)
}

func TestMutePredicateFollowsConfigSwap(t *testing.T) {
	h := newTestHub(t)
	assert.False(t, h.muted("/home/dev/scratch"))

	ch := h.Events().Subscribe()
	defer h.Events().Unsubscribe(ch)

	next := config.Default()
	next.Notifications.Mute = []string{"**/scratch", "**/scratch/**"}
	h.applyConfig(next)

	assert.True(t, h.muted("/home/dev/scratch"))
	assert.True(t, h.muted("/home/dev/scratch/tool"))
	assert.False(t, h.muted("/home/dev/work"))

	ev := <-ch
	assert.Equal(t, api.EventConfigReload, ev.Type)
}

func TestSettingsRoundTrip(t *testing.T) {
	h := newTestHub(t)

	s := h.Settings()
	assert.False(t, s.Toast)
	assert.Equal(t, 0.5, s.SoundVolume)

	s.Toast = true
	s.SoundVolume = 0.9
	s.Mute = []string{"**/scratch"}
	require.NoError(t, h.UpdateSettings(s))

	got := h.Settings()
	assert.True(t, got.Toast)
	assert.Equal(t, 0.9, got.SoundVolume)
	assert.Equal(t, []string{"**/scratch"}, got.Mute)
	assert.True(t, h.muted("/home/dev/scratch"))

	// The new settings were persisted, not just applied in memory.
	cfg, err := config.LoadDefault()
	require.NoError(t, err)
	assert.True(t, cfg.Notifications.Toast)
	assert.Equal(t, 0.9, cfg.Notifications.SoundVolume)
}

func TestUpdateSettingsRejectsInvalidVolume(t *testing.T) {
	h := newTestHub(t)

	s := h.Settings()
	s.SoundVolume = 1.5
	err := h.UpdateSettings(s)
	require.Error(t, err)

	// The active settings are untouched.
	assert.Equal(t, 0.5, h.Settings().SoundVolume)
}
