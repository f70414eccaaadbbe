package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	assert.Equal(t, "1", cfg.Version)
	require.NotNil(t, cfg.Broker)
	assert.True(t, cfg.Broker.Enabled)
	assert.Equal(t, "127.0.0.1:1883", cfg.Broker.Listen)
	require.NotNil(t, cfg.Bus)
	assert.Equal(t, "tcp://127.0.0.1:1883", cfg.Bus.URL)
	assert.Equal(t, "chime-hub", cfg.Bus.ClientID)
	assert.Equal(t, 1024, cfg.Bus.QueueSize)
	require.NotNil(t, cfg.Notifications)
	assert.True(t, cfg.Notifications.Toast)
	assert.True(t, cfg.Notifications.Sound)
	assert.InDelta(t, 0.8, cfg.Notifications.SoundVolume, 0.001)
	require.NotNil(t, cfg.History)
	assert.Equal(t, 100, cfg.History.Limit)
	require.NotNil(t, cfg.Tray)
	assert.True(t, cfg.Tray.Enabled)
	require.NotNil(t, cfg.Sessions)
	assert.Equal(t, 300, cfg.Sessions.TimeoutSeconds)
}

// Partially specified sections keep defaults for the fields they omit.
func TestSectionDefaultsPreserved(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "notifications keeps toast when only sound is set",
			yaml: "notifications:\n  sound: false\n",
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Notifications.Toast)
				assert.False(t, cfg.Notifications.Sound)
				assert.InDelta(t, 0.8, cfg.Notifications.SoundVolume, 0.001)
				assert.True(t, cfg.Notifications.TrayFlash)
			},
		},
		{
			name: "bus keeps url when only queue_size is set",
			yaml: "bus:\n  queue_size: 16\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "tcp://127.0.0.1:1883", cfg.Bus.URL)
				assert.Equal(t, 16, cfg.Bus.QueueSize)
			},
		},
		{
			name: "broker keeps listen when only enabled is set",
			yaml: "broker:\n  enabled: false\n",
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Broker.Enabled)
				assert.Equal(t, "127.0.0.1:1883", cfg.Broker.Listen)
			},
		},
		{
			name: "explicit false survives defaulting",
			yaml: "notifications:\n  toast: false\n  taskbar_badge: false\n",
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Notifications.Toast)
				assert.False(t, cfg.Notifications.TaskbarBadge)
				assert.True(t, cfg.Notifications.Sound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &cfg))
			cfg.SetDefaults()
			tt.check(t, &cfg)
		})
	}
}

func TestMuted(t *testing.T) {
	n := NotificationsConfig{
		Mute: []string{"**/scratch", "**/scratch/**"},
	}

	assert.True(t, n.Muted("/home/dev/scratch"))
	assert.True(t, n.Muted("/home/dev/scratch/tool"))
	assert.False(t, n.Muted("/home/dev/work"))
	assert.False(t, n.Muted(""))

	empty := NotificationsConfig{}
	assert.False(t, empty.Muted("/home/dev/scratch"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "bus url without scheme",
			mutate:  func(cfg *Config) { cfg.Bus.URL = "127.0.0.1:1883" },
			wantErr: "must include a scheme",
		},
		{
			name:    "negative queue size",
			mutate:  func(cfg *Config) { cfg.Bus.QueueSize = -1 },
			wantErr: "queue_size",
		},
		{
			name:    "volume above range",
			mutate:  func(cfg *Config) { cfg.Notifications.SoundVolume = 1.5 },
			wantErr: "sound_volume",
		},
		{
			name:    "zero history limit",
			mutate:  func(cfg *Config) { cfg.History.Limit = 0 },
			wantErr: "history.limit",
		},
		{
			name:    "zero session timeout",
			mutate:  func(cfg *Config) { cfg.Sessions.TimeoutSeconds = 0 },
			wantErr: "timeout_seconds",
		},
		{
			name: "enabled broker without listen address",
			mutate: func(cfg *Config) {
				cfg.Broker.Enabled = true
				cfg.Broker.Listen = ""
			},
			wantErr: "broker.listen",
		},
		{
			name:    "invalid mute pattern",
			mutate:  func(cfg *Config) { cfg.Notifications.Mute = []string{"[unclosed"} },
			wantErr: "invalid pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
