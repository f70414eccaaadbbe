package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/chime/config"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (f fakeMessage) Duplicate() bool   { return false }
func (f fakeMessage) Qos() byte         { return 0 }
func (f fakeMessage) Retained() bool    { return false }
func (f fakeMessage) Topic() string     { return f.topic }
func (f fakeMessage) MessageID() uint16 { return 0 }
func (f fakeMessage) Payload() []byte   { return f.payload }
func (f fakeMessage) Ack()              {}

func newQueueClient(t *testing.T, queueSize int) *Client {
	t.Helper()
	t.Setenv("CHIME_HOME", t.TempDir())
	return newClient(config.BusConfig{QueueSize: queueSize})
}

func TestEnqueueDeliversToMessages(t *testing.T) {
	c := newQueueClient(t, 4)

	c.enqueue(nil, fakeMessage{topic: TopicStop, payload: []byte(`{"event":"stop"}`)})

	select {
	case msg := <-c.Messages():
		assert.Equal(t, TopicStop, msg.Topic)
		assert.Equal(t, `{"event":"stop"}`, string(msg.Payload))
	default:
		t.Fatal("expected a buffered message")
	}
	assert.Zero(t, c.Dropped())
}

func TestEnqueueDropsWhenQueueIsFull(t *testing.T) {
	c := newQueueClient(t, 1)

	c.enqueue(nil, fakeMessage{topic: TopicStop, payload: []byte("first")})
	c.enqueue(nil, fakeMessage{topic: TopicStop, payload: []byte("second")})
	c.enqueue(nil, fakeMessage{topic: TopicStop, payload: []byte("third")})

	assert.Equal(t, uint64(2), c.Dropped())

	msg := <-c.Messages()
	assert.Equal(t, "first", string(msg.Payload))
	select {
	case extra, ok := <-c.Messages():
		if ok {
			t.Fatalf("unexpected extra message %q", extra.Payload)
		}
	default:
	}
}

func TestCloseClosesMessagesChannel(t *testing.T) {
	c := newQueueClient(t, 4)
	c.enqueue(nil, fakeMessage{topic: TopicStatus, payload: []byte("last")})

	c.Close()
	c.Close()

	msg, ok := <-c.Messages()
	require.True(t, ok, "buffered message should survive Close")
	assert.Equal(t, "last", string(msg.Payload))

	_, ok = <-c.Messages()
	assert.False(t, ok, "channel should be closed after draining")
}

func TestEnqueueAfterCloseIsDiscarded(t *testing.T) {
	c := newQueueClient(t, 4)
	c.Close()

	c.enqueue(nil, fakeMessage{topic: TopicStop, payload: []byte("late")})

	assert.Zero(t, c.Dropped())
	_, ok := <-c.Messages()
	assert.False(t, ok)
}
