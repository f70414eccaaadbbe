package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/chime/pkg/api"
)

func TestBroadcasterDeliversToAllSubscribers(t *testing.T) {
	b := NewBroadcaster()
	first := b.Subscribe()
	second := b.Subscribe()
	assert.Equal(t, 2, b.Subscribers())

	unread := 3
	b.Publish(api.StreamEvent{Type: api.EventUnread, Unread: &unread})

	ev := <-first
	assert.Equal(t, api.EventUnread, ev.Type)
	require.NotNil(t, ev.Unread)
	assert.Equal(t, 3, *ev.Unread)

	ev = <-second
	assert.Equal(t, api.EventUnread, ev.Type)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	keep := b.Subscribe()

	b.Unsubscribe(ch)
	_, ok := <-ch
	assert.False(t, ok, "unsubscribed channel should be closed")
	assert.Equal(t, 1, b.Subscribers())

	// A second Unsubscribe of the same channel must not panic.
	b.Unsubscribe(ch)

	b.Publish(api.StreamEvent{Type: api.EventFocus})
	ev := <-keep
	assert.Equal(t, api.EventFocus, ev.Type)
}

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	b := NewBroadcaster()
	slow := b.Subscribe()

	// Nobody drains the channel; publishing beyond its capacity must
	// drop rather than block.
	for i := 0; i < 150; i++ {
		b.Publish(api.StreamEvent{Type: api.EventSessions})
	}

	assert.Equal(t, 100, len(slow))
}

func TestPublishWithoutSubscribersIsNoOp(t *testing.T) {
	b := NewBroadcaster()
	b.Publish(api.StreamEvent{Type: api.EventConfigReload})
	assert.Zero(t, b.Subscribers())
}
