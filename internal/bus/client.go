package bus

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/chime/config"
	"github.com/grovetools/chime/errors"
	"github.com/grovetools/chime/logging"
	"github.com/grovetools/chime/util/sanitize"
)

const (
	keepAlive           = 30 * time.Second
	connectTimeout      = 5 * time.Second
	retryInterval       = 2 * time.Second
	maxRetryInterval    = 30 * time.Second
	disconnectQuiesceMs = 250
)

// Message is a single bus message as delivered to the hub consumer.
type Message struct {
	Topic   string
	Payload []byte
}

// Client maintains the hub's subscription to the event bus. Incoming
// messages are buffered in a bounded queue; when the queue is full a
// message is dropped and counted instead of blocking the receive path.
type Client struct {
	mqtt      mqtt.Client
	inbound   chan Message
	done      chan struct{}
	closeOnce sync.Once
	dropped   atomic.Uint64
	log       *logrus.Entry
}

func newClient(cfg config.BusConfig) *Client {
	def := config.DefaultBus()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	return &Client{
		inbound: make(chan Message, cfg.QueueSize),
		done:    make(chan struct{}),
		log:     logging.NewLogger("bus"),
	}
}

// Connect dials the bus and subscribes to the Claude Code topic
// namespace. If the broker is not reachable yet the client keeps
// retrying in the background and resubscribes after every reconnect;
// an error is returned only when the connection attempt itself is
// rejected outright (for example a malformed URL).
func Connect(cfg config.BusConfig) (*Client, error) {
	def := config.DefaultBus()
	if cfg.URL == "" {
		cfg.URL = def.URL
	}
	if cfg.ClientID == "" {
		cfg.ClientID = def.ClientID
	}
	// Old brokers cap client ids at 23 conservative characters.
	if id := sanitize.ForClientID(cfg.ClientID); id != "" {
		cfg.ClientID = id
	}

	c := newClient(cfg)

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetCleanSession(true).
		SetKeepAlive(keepAlive).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(retryInterval).
		SetMaxReconnectInterval(maxRetryInterval).
		SetOnConnectHandler(func(cli mqtt.Client) {
			c.log.Infof("Connected to bus at %s", cfg.URL)
			tok := cli.Subscribe(TopicSubscribeAll, 0, c.enqueue)
			tok.Wait()
			if err := tok.Error(); err != nil {
				c.log.Errorf("Failed to subscribe to %s: %v", TopicSubscribeAll, err)
				return
			}
			c.log.Debugf("Subscribed to %s", TopicSubscribeAll)
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			c.log.Warnf("Bus connection lost, reconnecting: %v", err)
		})

	c.mqtt = mqtt.NewClient(opts)

	tok := c.mqtt.Connect()
	if tok.WaitTimeout(connectTimeout) {
		if err := tok.Error(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBusConnect,
				fmt.Sprintf("could not connect to bus at %s", cfg.URL))
		}
	} else {
		c.log.Warnf("Bus at %s not reachable yet, retrying in the background", cfg.URL)
	}

	return c, nil
}

// Messages returns the inbound message channel. The channel is closed
// by Close, terminating any range loop draining it.
func (c *Client) Messages() <-chan Message {
	return c.inbound
}

// Dropped returns the number of messages discarded because the inbound
// queue was full.
func (c *Client) Dropped() uint64 {
	return c.dropped.Load()
}

// Connected reports whether the bus connection is currently up, as
// opposed to reconnecting in the background.
func (c *Client) Connected() bool {
	return c.mqtt != nil && c.mqtt.IsConnectionOpen()
}

// enqueue is the subscription callback. It must never block: the bus
// library delivers messages sequentially, and a stalled handler would
// stall the whole subscription.
func (c *Client) enqueue(_ mqtt.Client, m mqtt.Message) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.inbound <- Message{Topic: m.Topic(), Payload: m.Payload()}:
	case <-c.done:
	default:
		total := c.dropped.Add(1)
		c.log.Warnf("Inbound queue full, dropped message on %s (%d dropped so far)", m.Topic(), total)
	}
}

// Close disconnects from the bus and closes the Messages channel. The
// short quiesce gives in-flight subscription callbacks time to finish
// before the channel goes away.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.mqtt != nil {
			c.mqtt.Disconnect(disconnectQuiesceMs)
		}
		close(c.inbound)
		c.log.Debug("Bus client closed")
	})
}

// PublishOptions controls a one-shot publish, as used by the publish
// command and the exported hook scripts behind it.
type PublishOptions struct {
	URL     string
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
	Timeout time.Duration
}

// Publish connects, publishes a single message, waits for the delivery
// handshake and disconnects. It is deliberately synchronous: hook
// scripts invoke it once per event and rely on the exit code.
func Publish(opts PublishOptions) error {
	if opts.URL == "" {
		opts.URL = config.DefaultBus().URL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = connectTimeout
	}

	clientID := sanitize.ForClientID(fmt.Sprintf("chime-publish-%d", os.Getpid()))
	mopts := mqtt.NewClientOptions().
		AddBroker(opts.URL).
		SetClientID(clientID).
		SetCleanSession(true).
		SetConnectTimeout(opts.Timeout)

	cli := mqtt.NewClient(mopts)
	tok := cli.Connect()
	if !tok.WaitTimeout(opts.Timeout) {
		return errors.New(errors.ErrCodeBusConnect,
			fmt.Sprintf("timed out connecting to bus at %s", opts.URL))
	}
	if err := tok.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeBusConnect,
			fmt.Sprintf("could not connect to bus at %s", opts.URL))
	}
	defer cli.Disconnect(disconnectQuiesceMs)

	pub := cli.Publish(opts.Topic, opts.QoS, opts.Retain, opts.Payload)
	if !pub.WaitTimeout(opts.Timeout) {
		return errors.New(errors.ErrCodeBusPublish,
			fmt.Sprintf("timed out waiting for publish to %s", opts.Topic))
	}
	if err := pub.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeBusPublish,
			fmt.Sprintf("publish to %s failed", opts.Topic))
	}
	return nil
}
