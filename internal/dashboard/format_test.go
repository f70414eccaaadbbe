package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestFormatPct(t *testing.T) {
	assert.Equal(t, "-", formatPct(nil))
	assert.Equal(t, "42%", formatPct(floatPtr(42.4)))
	assert.Equal(t, "100%", formatPct(floatPtr(100)))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "-", formatCost(nil))
	assert.Equal(t, "$0.03", formatCost(floatPtr(0.031)))
	assert.Equal(t, "$12.50", formatCost(floatPtr(12.5)))
}

func TestFormatLines(t *testing.T) {
	assert.Equal(t, "-", formatLines(nil, nil))
	assert.Equal(t, "+10/-2", formatLines(intPtr(10), intPtr(2)))
	assert.Equal(t, "+7/-0", formatLines(intPtr(7), nil))
	assert.Equal(t, "+0/-3", formatLines(nil, intPtr(3)))
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"seconds", 12 * time.Second, "12s"},
		{"minutes", 3 * time.Minute, "3m"},
		{"hours", 5 * time.Hour, "5h"},
		{"days", 49 * time.Hour, "2d"},
		{"negative clamps to zero", -5 * time.Second, "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAge(tt.d))
		})
	}
}

func TestStateLabel(t *testing.T) {
	assert.Equal(t, "active", stateLabel(""))
	assert.Equal(t, "waiting", stateLabel("waiting"))
}
