// Package notify delivers notifications to the desktop: toasts, sound,
// tray and taskbar state, and the unread counter behind the badge.
package notify

import "sync/atomic"

// Counter tracks notifications not yet acknowledged by the user. It is
// lock-free and safe from any goroutine.
type Counter struct {
	n atomic.Int64
}

// Increment adds one and returns the post-increment value.
func (c *Counter) Increment() int {
	return int(c.n.Add(1))
}

// Reset sets the counter to zero.
func (c *Counter) Reset() {
	c.n.Store(0)
}

// Value returns the current count.
func (c *Counter) Value() int {
	return int(c.n.Load())
}
