// Package icon renders the tray icons at runtime, so the binary ships
// without image assets.
package icon

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const size = 32

var (
	bellColor  = color.RGBA{R: 0xDC, G: 0xD7, B: 0xBA, A: 0xFF}
	alertColor = color.RGBA{R: 0xFF, G: 0x5D, B: 0x62, A: 0xFF}
	textColor  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

var (
	baseOnce  sync.Once
	baseBytes []byte

	alertOnce  sync.Once
	alertBytes []byte
)

// Base returns the plain tray icon.
func Base() []byte {
	baseOnce.Do(func() {
		baseBytes = encode(drawBell())
	})
	return baseBytes
}

// Alert returns the tray icon decorated with an unread dot. It alternates
// with Base during the blink cycle.
func Alert() []byte {
	alertOnce.Do(func() {
		img := drawBell()
		fillCircle(img, 24, 24, 6, alertColor)
		alertBytes = encode(img)
	})
	return alertBytes
}

// Badge returns the tray icon with the unread count drawn in a corner
// badge, capped at the "9+" glyph.
func Badge(count int) []byte {
	img := drawBell()
	fillCircle(img, 22, 22, 9, alertColor)
	drawLabel(img, BadgeLabel(count), 22, 26)
	return encode(img)
}

// BadgeLabel renders a count for badge display, capped above 9.
func BadgeLabel(count int) string {
	if count > 9 {
		return "9+"
	}
	return strconv.Itoa(count)
}

// drawBell paints a simple bell silhouette on a transparent background.
func drawBell() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	// dome
	fillCircle(img, 16, 13, 9, bellColor)
	// skirt
	for y := 13; y <= 22; y++ {
		half := 9 + (y-13)/3
		for x := 16 - half; x <= 16+half; x++ {
			img.Set(x, y, bellColor)
		}
	}
	// clapper
	fillCircle(img, 16, 26, 3, bellColor)
	return img
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.Color) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}
}

func drawLabel(img *image.RGBA, label string, cx, baseline int) {
	face := basicfont.Face7x13
	width := len(label) * 7
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(cx-width/2, baseline),
	}
	d.DrawString(label)
}

func encode(img *image.RGBA) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
