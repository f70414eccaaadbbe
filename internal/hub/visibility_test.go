package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFocusTrackerStartsBlurred(t *testing.T) {
	f := NewFocusTracker()
	assert.False(t, f.Visible())
}

func TestFocusTrackerFollowsReports(t *testing.T) {
	f := NewFocusTracker()

	f.SetFocused(true)
	assert.True(t, f.Visible())

	f.SetFocused(false)
	assert.False(t, f.Visible())

	f.SetFocused(true)
	assert.True(t, f.Visible())
}

func TestFocusTrackerExpiresStaleReports(t *testing.T) {
	f := NewFocusTracker()
	base := time.Now()
	f.now = func() time.Time { return base }

	f.SetFocused(true)

	f.now = func() time.Time { return base.Add(focusWindow - time.Second) }
	assert.True(t, f.Visible(), "a fresh report should count")

	f.now = func() time.Time { return base.Add(focusWindow + time.Second) }
	assert.False(t, f.Visible(), "a stale report should not count")

	// A new report restarts the window.
	f.SetFocused(true)
	assert.True(t, f.Visible())
}
