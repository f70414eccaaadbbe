package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/moby/patternmatcher"
	"gopkg.in/yaml.v3"
)

// BrokerConfig configures the embedded MQTT broker.
type BrokerConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" jsonschema:"description=Whether to start the embedded MQTT broker (default: true)"`
	Listen  string `yaml:"listen,omitempty" json:"listen,omitempty" jsonschema:"description=TCP listen address for the embedded broker (default: 127.0.0.1:1883)"`
}

// DefaultBroker returns the broker defaults: enabled on the loopback port.
func DefaultBroker() BrokerConfig {
	return BrokerConfig{
		Enabled: true,
		Listen:  "127.0.0.1:1883",
	}
}

// UnmarshalYAML fills defaults before decoding so absent keys keep them.
func (b *BrokerConfig) UnmarshalYAML(node *yaml.Node) error {
	type raw BrokerConfig
	cfg := raw(DefaultBroker())
	if err := node.Decode(&cfg); err != nil {
		return err
	}
	*b = BrokerConfig(cfg)
	return nil
}

// BusConfig configures the MQTT bus client connection.
type BusConfig struct {
	URL       string `yaml:"url,omitempty" json:"url,omitempty" jsonschema:"description=MQTT broker URL the hub connects to (default: tcp://127.0.0.1:1883)"`
	ClientID  string `yaml:"client_id,omitempty" json:"client_id,omitempty" jsonschema:"description=MQTT client identifier (default: chime-hub)"`
	QueueSize int    `yaml:"queue_size,omitempty" json:"queue_size,omitempty" jsonschema:"description=Capacity of the inbound event queue (default: 1024)"`
}

// DefaultBus returns the bus client defaults.
func DefaultBus() BusConfig {
	return BusConfig{
		URL:       "tcp://127.0.0.1:1883",
		ClientID:  "chime-hub",
		QueueSize: 1024,
	}
}

// UnmarshalYAML fills defaults before decoding so absent keys keep them.
func (b *BusConfig) UnmarshalYAML(node *yaml.Node) error {
	type raw BusConfig
	cfg := raw(DefaultBus())
	if err := node.Decode(&cfg); err != nil {
		return err
	}
	*b = BusConfig(cfg)
	return nil
}

// NotificationsConfig holds the channel-enable settings and sound options.
// It is the settings snapshot consumed by the notification orchestrator and
// exposed on the /api/settings endpoint.
type NotificationsConfig struct {
	Toast        bool     `yaml:"toast" json:"toast" jsonschema:"description=Show OS toast notifications (default: true)"`
	Sound        bool     `yaml:"sound" json:"sound" jsonschema:"description=Play a notification sound (default: true)"`
	SoundVolume  float64  `yaml:"sound_volume" json:"sound_volume" jsonschema:"description=Playback volume between 0.0 and 1.0 (default: 0.8)"`
	SoundFile    string   `yaml:"sound_file,omitempty" json:"sound_file,omitempty" jsonschema:"description=Optional mp3/wav file played instead of the built-in chime"`
	TaskbarFlash bool     `yaml:"taskbar_flash" json:"taskbar_flash" jsonschema:"description=Flash the taskbar entry when the dashboard is visible (default: true)"`
	TaskbarBadge bool     `yaml:"taskbar_badge" json:"taskbar_badge" jsonschema:"description=Show the unread count as a taskbar badge (default: true)"`
	TrayFlash    bool     `yaml:"tray_flash" json:"tray_flash" jsonschema:"description=Blink the tray icon while the dashboard is hidden (default: true)"`
	Mute         []string `yaml:"mute,omitempty" json:"mute,omitempty" jsonschema:"description=Path patterns (dockerignore syntax) whose sessions never notify"`
}

// DefaultNotifications returns the notification defaults: every channel on,
// volume 0.8.
func DefaultNotifications() NotificationsConfig {
	return NotificationsConfig{
		Toast:        true,
		Sound:        true,
		SoundVolume:  0.8,
		TaskbarFlash: true,
		TaskbarBadge: true,
		TrayFlash:    true,
	}
}

// UnmarshalYAML fills defaults before decoding so absent keys keep them.
func (n *NotificationsConfig) UnmarshalYAML(node *yaml.Node) error {
	type raw NotificationsConfig
	cfg := raw(DefaultNotifications())
	if err := node.Decode(&cfg); err != nil {
		return err
	}
	*n = NotificationsConfig(cfg)
	return nil
}

// Muted reports whether a session working directory matches one of the
// configured mute patterns.
func (n *NotificationsConfig) Muted(cwd string) bool {
	if len(n.Mute) == 0 || cwd == "" {
		return false
	}
	matched, err := patternmatcher.Matches(cwd, n.Mute)
	if err != nil {
		return false
	}
	return matched
}

// HistoryConfig configures the notification history store.
type HistoryConfig struct {
	Limit int `yaml:"limit,omitempty" json:"limit,omitempty" jsonschema:"description=Maximum number of notifications kept in history (default: 100)"`
}

// DefaultHistory returns the history defaults.
func DefaultHistory() HistoryConfig {
	return HistoryConfig{Limit: 100}
}

// UnmarshalYAML fills defaults before decoding so absent keys keep them.
func (h *HistoryConfig) UnmarshalYAML(node *yaml.Node) error {
	type raw HistoryConfig
	cfg := raw(DefaultHistory())
	if err := node.Decode(&cfg); err != nil {
		return err
	}
	*h = HistoryConfig(cfg)
	return nil
}

// TrayConfig configures the system tray integration.
type TrayConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled" jsonschema:"description=Show the system tray icon when a desktop session is available (default: true)"`
}

// DefaultTray returns the tray defaults.
func DefaultTray() TrayConfig {
	return TrayConfig{Enabled: true}
}

// UnmarshalYAML fills defaults before decoding so absent keys keep them.
func (t *TrayConfig) UnmarshalYAML(node *yaml.Node) error {
	type raw TrayConfig
	cfg := raw(DefaultTray())
	if err := node.Decode(&cfg); err != nil {
		return err
	}
	*t = TrayConfig(cfg)
	return nil
}

// SessionsConfig configures session registry behavior.
type SessionsConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty" jsonschema:"description=Seconds without a status update before a session expires (default: 300)"`
}

// DefaultSessions returns the session registry defaults.
func DefaultSessions() SessionsConfig {
	return SessionsConfig{TimeoutSeconds: 300}
}

// UnmarshalYAML fills defaults before decoding so absent keys keep them.
func (s *SessionsConfig) UnmarshalYAML(node *yaml.Node) error {
	type raw SessionsConfig
	cfg := raw(DefaultSessions())
	if err := node.Decode(&cfg); err != nil {
		return err
	}
	*s = SessionsConfig(cfg)
	return nil
}

// Config is the root of chime.yml.
type Config struct {
	Version       string               `yaml:"version,omitempty" json:"version,omitempty" jsonschema:"description=Configuration version (e.g. '1')"`
	Broker        *BrokerConfig        `yaml:"broker,omitempty" json:"broker,omitempty" jsonschema:"description=Embedded MQTT broker settings"`
	Bus           *BusConfig           `yaml:"bus,omitempty" json:"bus,omitempty" jsonschema:"description=MQTT bus client settings"`
	Notifications *NotificationsConfig `yaml:"notifications,omitempty" json:"notifications,omitempty" jsonschema:"description=Notification channel settings"`
	History       *HistoryConfig       `yaml:"history,omitempty" json:"history,omitempty" jsonschema:"description=Notification history settings"`
	Tray          *TrayConfig          `yaml:"tray,omitempty" json:"tray,omitempty" jsonschema:"description=System tray settings"`
	Sessions      *SessionsConfig      `yaml:"sessions,omitempty" json:"sessions,omitempty" jsonschema:"description=Session registry settings"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" json:"-" jsonschema:"-"`
}

// SetDefaults fills in default values for absent sections.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Broker == nil {
		def := DefaultBroker()
		c.Broker = &def
	}
	if c.Bus == nil {
		def := DefaultBus()
		c.Bus = &def
	}
	if c.Notifications == nil {
		def := DefaultNotifications()
		c.Notifications = &def
	}
	if c.History == nil {
		def := DefaultHistory()
		c.History = &def
	}
	if c.Tray == nil {
		def := DefaultTray()
		c.Tray = &def
	}
	if c.Sessions == nil {
		def := DefaultSessions()
		c.Sessions = &def
	}
}

// Validate performs semantic validation that the JSON Schema cannot express.
func (c *Config) Validate() error {
	if c.Bus != nil && c.Bus.URL != "" {
		if !strings.Contains(c.Bus.URL, "://") {
			return fmt.Errorf("bus.url %q must include a scheme, e.g. tcp://127.0.0.1:1883", c.Bus.URL)
		}
	}
	if c.Bus != nil && c.Bus.QueueSize < 0 {
		return fmt.Errorf("bus.queue_size must not be negative")
	}
	if c.Notifications != nil {
		if c.Notifications.SoundVolume < 0 || c.Notifications.SoundVolume > 1 {
			return fmt.Errorf("notifications.sound_volume %.2f is outside 0.0..1.0", c.Notifications.SoundVolume)
		}
		if len(c.Notifications.Mute) > 0 {
			if _, err := patternmatcher.New(c.Notifications.Mute); err != nil {
				return fmt.Errorf("notifications.mute contains an invalid pattern: %w", err)
			}
		}
	}
	if c.History != nil && c.History.Limit < 1 {
		return fmt.Errorf("history.limit must be at least 1")
	}
	if c.Sessions != nil && c.Sessions.TimeoutSeconds < 1 {
		return fmt.Errorf("sessions.timeout_seconds must be at least 1")
	}
	if c.Broker != nil && c.Broker.Enabled && c.Broker.Listen == "" {
		return fmt.Errorf("broker.listen must be set when the embedded broker is enabled")
	}
	return nil
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded chime.yml into the provided target struct. The target must be a pointer.
// This provides a type-safe way for extensions to access their
// custom configuration sections.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	// Use mapstructure to decode the generic map[string]interface{}
	// into the strongly-typed target struct. We configure it to use
	// `yaml` tags for consistency.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
