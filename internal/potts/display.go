package potts

import (
	"image/color"
	"math"
)

// DisplayColors is the number of distinct element colors. Display value 0 is
// medium; element i is shown as i%DisplayColors + 1.
const DisplayColors = 15

var pottsPalette = buildPalette()

// Palette returns the display palette indexed by display value.
func Palette() []color.RGBA { return pottsPalette }

func buildPalette() []color.RGBA {
	palette := make([]color.RGBA, DisplayColors+1)
	palette[0] = color.RGBA{R: 18, G: 18, B: 24, A: 255}
	for i := 1; i <= DisplayColors; i++ {
		// golden-angle hue steps keep consecutive elements apart
		hue := math.Mod(float64(i-1)*137.508, 360)
		palette[i] = hsvToRGBA(hue, 0.55, 0.92)
	}
	return palette
}

func hsvToRGBA(h, s, v float64) color.RGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	to8 := func(f float64) uint8 { return uint8(math.Round((f + m) * 255)) }
	return color.RGBA{R: to8(r), G: to8(g), B: to8(b), A: 255}
}
