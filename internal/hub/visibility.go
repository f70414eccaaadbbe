package hub

import (
	"sync"
	"time"
)

// focusWindow is how long a focus report stays fresh. The dashboard
// re-reports focus periodically while it holds it, so a report older
// than this means the client is gone, not idle.
const focusWindow = 30 * time.Second

// FocusTracker tracks whether a dashboard client currently has the
// user's attention. It decides the notification posture: a visible
// dashboard gets taskbar feedback, a hidden one gets the blinking tray.
type FocusTracker struct {
	mu       sync.Mutex
	focused  bool
	reported time.Time

	// now is swapped out by tests to control freshness.
	now func() time.Time
}

// NewFocusTracker starts out blurred: until a dashboard reports in, the
// hub assumes nobody is watching.
func NewFocusTracker() *FocusTracker {
	return &FocusTracker{now: time.Now}
}

// SetFocused records a focus report from a dashboard client.
func (f *FocusTracker) SetFocused(focused bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused = focused
	f.reported = f.now()
}

// Visible reports whether a focused dashboard checked in recently.
func (f *FocusTracker) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused && f.now().Sub(f.reported) <= focusWindow
}
