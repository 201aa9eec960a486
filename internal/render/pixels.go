// Package render turns display grids into pixels. The headless helpers here
// back the movie writer and the terminal snapshots; the ebiten painter lives
// behind the ebiten build tag.
package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. Rows
// are flipped so lattice row 0 ends up at the bottom of the image. When the
// palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, w, h int, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf)
		return
	}
	last := len(palette) - 1
	for y := 0; y < h; y++ {
		row := (h - 1 - y) * w
		for x := 0; x < w; x++ {
			i := y*w + x
			if i >= len(cells) {
				return
			}
			idx := int(cells[i])
			if idx > last {
				idx = last
			}
			base := (row + x) * 4
			col := palette[idx]
			buf[base+0] = col.R
			buf[base+1] = col.G
			buf[base+2] = col.B
			buf[base+3] = col.A
		}
	}
}

// PaletteImage renders a w x h grid of display values through palette.
func PaletteImage(cells []uint8, w, h int, palette []color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillPaletteRGBA(img.Pix, cells, w, h, palette)
	return img
}

// Scale enlarges src by an integer factor with nearest-neighbor sampling so
// lattice sites stay crisp squares.
func Scale(src *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// ScreenY maps a lattice y coordinate onto image rows for a grid of height h
// drawn at the given scale, matching the flip applied by PaletteImage.
func ScreenY(y float64, h, scale int) float64 {
	if scale <= 0 {
		scale = 1
	}
	return (float64(h) - y - 0.5) * float64(scale)
}
