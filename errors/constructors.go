package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *ChimeError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *ChimeError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// HubAlreadyRunning reports that a hub process already owns the pidfile.
func HubAlreadyRunning(pid int) *ChimeError {
	return New(ErrCodeHubAlreadyRunning, fmt.Sprintf("hub already running with PID %d", pid)).
		WithDetail("pid", pid)
}

// HubNotRunning reports that no hub process is reachable on the socket.
func HubNotRunning(socket string) *ChimeError {
	return New(ErrCodeHubNotRunning, "hub is not running").
		WithDetail("socket", socket)
}

// BrokerStart wraps a failure to start the embedded broker.
func BrokerStart(listen string, err error) *ChimeError {
	return Wrap(err, ErrCodeBrokerStart, fmt.Sprintf("failed to start embedded broker on %s", listen)).
		WithDetail("listen", listen)
}

// BusConnect wraps a failure to connect to the MQTT bus.
func BusConnect(url string, err error) *ChimeError {
	return Wrap(err, ErrCodeBusConnect, fmt.Sprintf("failed to connect to bus at %s", url)).
		WithDetail("url", url)
}

// BusPublish wraps a failure to publish a message to the bus.
func BusPublish(topic string, err error) *ChimeError {
	return Wrap(err, ErrCodeBusPublish, fmt.Sprintf("failed to publish to %s", topic)).
		WithDetail("topic", topic)
}

// PayloadDecode wraps a payload decode failure for a topic.
// These are expected for malformed external input and are always recovered.
func PayloadDecode(topic string, err error) *ChimeError {
	return Wrap(err, ErrCodePayloadDecode, fmt.Sprintf("failed to decode payload on %s", topic)).
		WithDetail("topic", topic)
}

// ChannelDelivery wraps a delivery failure on a single notification channel.
func ChannelDelivery(channel string, err error) *ChimeError {
	return Wrap(err, ErrCodeChannelDelivery, fmt.Sprintf("%s delivery failed", channel)).
		WithDetail("channel", channel)
}

// HistoryStore wraps a notification history storage failure.
func HistoryStore(op string, err error) *ChimeError {
	return Wrap(err, ErrCodeHistoryStore, fmt.Sprintf("history %s failed", op)).
		WithDetail("op", op)
}
