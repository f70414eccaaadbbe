package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToaster struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeToaster) Show(title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, title+"|"+body)
	return f.err
}

func (f *fakeToaster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakePlayer struct {
	mu      sync.Mutex
	volumes []float64
	err     error
}

func (f *fakePlayer) Play(volume float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volumes = append(f.volumes, volume)
	return f.err
}

func (f *fakePlayer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.volumes)
}

type fakeTray struct {
	mu       sync.Mutex
	icons    []bool
	tooltips []string
}

func (f *fakeTray) SetIcon(alert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.icons = append(f.icons, alert)
	return nil
}

func (f *fakeTray) SetTooltip(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tooltips = append(f.tooltips, text)
	return nil
}

func (f *fakeTray) iconCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.icons)
}

func (f *fakeTray) lastIcon() (alert bool, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.icons) == 0 {
		return false, false
	}
	return f.icons[len(f.icons)-1], true
}

type fakeTaskbar struct {
	mu      sync.Mutex
	flashes []int
	badges  []int
	clears  int
}

func (f *fakeTaskbar) Flash(count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flashes = append(f.flashes, count)
	return nil
}

func (f *fakeTaskbar) SetBadge(count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.badges = append(f.badges, count)
	return nil
}

func (f *fakeTaskbar) ClearBadge() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return nil
}

func newTestOrchestrator(t *testing.T, s Settings, visible bool) (*Orchestrator, *fakeToaster, *fakePlayer, *fakeTray, *fakeTaskbar) {
	t.Helper()
	toaster := &fakeToaster{}
	player := &fakePlayer{}
	tray := &fakeTray{}
	taskbar := &fakeTaskbar{}
	o := NewOrchestrator(s, &Counter{}, toaster, player, tray, taskbar, func() bool { return visible })
	o.blinkPeriod = 5 * time.Millisecond
	t.Cleanup(o.stopBlink)
	return o, toaster, player, tray, taskbar
}

func TestNotifyVisibleUsesTaskbar(t *testing.T) {
	o, toaster, player, tray, taskbar := newTestOrchestrator(t, DefaultSettings(), true)

	o.Notify("Task complete", "app (1) finished")

	assert.Equal(t, 1, toaster.count())
	assert.Equal(t, []string{"Task complete|app (1) finished"}, toaster.calls)
	assert.Equal(t, 1, o.Unread())

	require.Eventually(t, func() bool { return player.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.InDelta(t, 0.8, player.volumes[0], 0.001)

	assert.Equal(t, []int{flashPulses}, taskbar.flashes)
	assert.Equal(t, []int{1}, taskbar.badges)

	// The blink loop belongs to the hidden branch
	assert.False(t, o.blinkRunning.Load())
	assert.Equal(t, 0, tray.iconCount())
}

func TestNotifyVisibleBadgeCarriesCount(t *testing.T) {
	o, _, _, _, taskbar := newTestOrchestrator(t, DefaultSettings(), true)

	o.Notify("a", "1")
	o.Notify("b", "2")
	o.Notify("c", "3")

	assert.Equal(t, []int{1, 2, 3}, taskbar.badges)
}

func TestNotifyHiddenBlinksTray(t *testing.T) {
	o, _, _, tray, taskbar := newTestOrchestrator(t, DefaultSettings(), false)

	o.Notify("Question", "which one?")

	require.Eventually(t, func() bool { return tray.iconCount() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, o.blinkRunning.Load())

	// First swap shows the alert icon, then it alternates
	tray.mu.Lock()
	assert.True(t, tray.icons[0])
	if len(tray.icons) > 1 {
		assert.False(t, tray.icons[1])
	}
	tray.mu.Unlock()

	// Hidden branch leaves the taskbar alone
	assert.Empty(t, taskbar.flashes)
	assert.Empty(t, taskbar.badges)
}

func TestNotifyHiddenDoesNotRestartBlink(t *testing.T) {
	o, _, _, _, _ := newTestOrchestrator(t, DefaultSettings(), false)

	o.Notify("a", "1")
	o.Notify("b", "2")

	assert.Equal(t, 2, o.Unread())
	assert.True(t, o.blinkRunning.Load())
}

func TestNotifyIncrementsOncePerCallWithAllChannelsOff(t *testing.T) {
	o, toaster, player, tray, taskbar := newTestOrchestrator(t, Settings{}, false)

	o.Notify("a", "1")
	o.Notify("b", "2")
	o.Notify("c", "3")

	assert.Equal(t, 3, o.Unread())
	assert.Equal(t, 0, toaster.count())
	assert.Equal(t, 0, player.count())
	assert.Equal(t, 0, tray.iconCount())
	assert.Empty(t, taskbar.flashes)
	assert.Empty(t, taskbar.badges)
}

func TestNotifyChannelFailuresAreIsolated(t *testing.T) {
	o, toaster, player, _, taskbar := newTestOrchestrator(t, DefaultSettings(), true)
	toaster.err = errors.New("notification service unavailable")
	player.err = errors.New("no audio device")

	o.Notify("Error", "boom")

	// The failing channels do not stop the counter or the taskbar
	assert.Equal(t, 1, o.Unread())
	assert.Equal(t, []int{flashPulses}, taskbar.flashes)
	assert.Equal(t, []int{1}, taskbar.badges)
	require.Eventually(t, func() bool { return player.count() == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestResetStopsBlinkAndClears(t *testing.T) {
	o, _, _, tray, taskbar := newTestOrchestrator(t, DefaultSettings(), false)

	o.Notify("a", "1")
	require.Eventually(t, func() bool { return tray.iconCount() >= 2 }, 2*time.Second, 5*time.Millisecond)

	o.Reset()

	assert.Equal(t, 0, o.Unread())
	assert.Equal(t, 1, taskbar.clears)
	assert.False(t, o.blinkRunning.Load())

	// The loop restores the base icon on its way out and then goes quiet.
	// Two polls apart see the same count once the loop has exited.
	var last int
	require.Eventually(t, func() bool {
		alert, ok := tray.lastIcon()
		if !ok || alert {
			return false
		}
		n := tray.iconCount()
		if n == last {
			return true
		}
		last = n
		return false
	}, 2*time.Second, 20*time.Millisecond)
}

func TestResetIsIdempotent(t *testing.T) {
	o, _, _, _, taskbar := newTestOrchestrator(t, DefaultSettings(), false)

	o.Reset()
	o.Reset()

	assert.Equal(t, 0, o.Unread())
	assert.Equal(t, 2, taskbar.clears)
}

func TestUpdateSettingsDisablesChannel(t *testing.T) {
	o, toaster, _, _, taskbar := newTestOrchestrator(t, DefaultSettings(), true)

	s := DefaultSettings()
	s.Toast = false
	o.UpdateSettings(s)

	o.Notify("a", "1")

	assert.Equal(t, 0, toaster.count())
	assert.Equal(t, 1, o.Unread())
	assert.Equal(t, []int{1}, taskbar.badges)
}

func TestSetTooltip(t *testing.T) {
	o, _, _, tray, _ := newTestOrchestrator(t, DefaultSettings(), true)

	o.SetTooltip("2 active sessions")

	tray.mu.Lock()
	defer tray.mu.Unlock()
	assert.Equal(t, []string{"2 active sessions"}, tray.tooltips)
}
