// Package broker embeds an MQTT broker so chime works out of the box
// without a system-wide mosquitto. Hook scripts and the hub's own bus
// client all talk to this listener unless bus.url points elsewhere.
package broker

import (
	"log/slog"

	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/chime/config"
	"github.com/grovetools/chime/errors"
	"github.com/grovetools/chime/logging"
	"github.com/grovetools/chime/pkg/api"
)

// Broker wraps the embedded MQTT server.
type Broker struct {
	server *mochi.Server
	listen string
	log    *logrus.Entry
}

// Start binds the TCP listener and begins serving. The broker accepts
// every connection unauthenticated; it is meant for the loopback
// interface only.
func Start(cfg config.BrokerConfig) (*Broker, error) {
	if cfg.Listen == "" {
		cfg.Listen = config.DefaultBroker().Listen
	}

	log := logging.NewLogger("broker")

	// The broker library logs through slog; forward anything at warn
	// or above into our own log under the broker component.
	slogger := slog.New(slog.NewTextHandler(
		log.WriterLevel(logrus.DebugLevel),
		&slog.HandlerOptions{Level: slog.LevelWarn},
	))

	server := mochi.New(&mochi.Options{
		InlineClient: false,
		Logger:       slogger,
	})

	if err := server.AddHook(new(auth.AllowHook), nil); err != nil {
		return nil, errors.BrokerStart(cfg.Listen, err)
	}

	tcp := listeners.NewTCP(listeners.Config{ID: "tcp", Address: cfg.Listen})
	if err := server.AddListener(tcp); err != nil {
		return nil, errors.BrokerStart(cfg.Listen, err)
	}

	go func() {
		if err := server.Serve(); err != nil {
			log.Errorf("Broker stopped serving: %v", err)
		}
	}()

	log.Infof("Embedded broker listening on %s", cfg.Listen)
	return &Broker{server: server, listen: cfg.Listen, log: log}, nil
}

// Listen returns the address the broker is bound to.
func (b *Broker) Listen() string {
	return b.listen
}

// Stats snapshots the broker's client counters for the status endpoint.
func (b *Broker) Stats() api.BrokerStats {
	info := b.server.Info.Clone()
	return api.BrokerStats{
		ClientsConnected: info.ClientsConnected,
		MessagesReceived: info.MessagesReceived,
		MessagesSent:     info.MessagesSent,
		Subscriptions:    info.Subscriptions,
		Retained:         info.Retained,
	}
}

// Close shuts the broker down and disconnects all clients.
func (b *Broker) Close() error {
	b.log.Debug("Stopping embedded broker")
	return b.server.Close()
}
