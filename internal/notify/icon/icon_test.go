package icon

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconsAreValidPNG(t *testing.T) {
	for name, data := range map[string][]byte{
		"base":  Base(),
		"alert": Alert(),
		"badge": Badge(3),
	} {
		t.Run(name, func(t *testing.T) {
			require.NotEmpty(t, data)
			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 32, img.Bounds().Dx())
			assert.Equal(t, 32, img.Bounds().Dy())
		})
	}
}

func TestBaseAndAlertDiffer(t *testing.T) {
	assert.NotEqual(t, Base(), Alert())
}

func TestBadgeLabel(t *testing.T) {
	assert.Equal(t, "1", BadgeLabel(1))
	assert.Equal(t, "9", BadgeLabel(9))
	assert.Equal(t, "9+", BadgeLabel(10))
	assert.Equal(t, "9+", BadgeLabel(42))
}
