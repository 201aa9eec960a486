//go:build ebiten

package ui

import (
	"image/color"

	"potts-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws optional debugging visuals on top of the lattice: element
// boundaries (key 1) and cell centroids (key 2).
type Overlay struct {
	sim            core.Sim
	scale          int
	showBoundaries bool
	showCentroids  bool

	maskImg *ebiten.Image
	maskBuf []byte
	pixel   *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale, showCentroids: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles overlays from the keyboard.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showBoundaries = !o.showBoundaries
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showCentroids = !o.showCentroids
	}
}

// Draw renders the enabled overlays onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	if o.showBoundaries {
		if provider, ok := o.sim.(labelProvider); ok {
			o.drawBoundaries(screen, BoundaryMask(provider.Labels(), size.W, size.H), size, scale)
		}
	}
	if o.showCentroids {
		if provider, ok := o.sim.(centroidProvider); ok {
			for _, m := range CentroidMarkers(provider.Centroids(), size.H, scale) {
				o.drawDot(screen, m, float64(max(2, scale/2)))
			}
		}
	}
}

func (o *Overlay) drawBoundaries(screen *ebiten.Image, mask []bool, size core.Size, scale int) {
	total := size.W * size.H
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}
	clear(o.maskBuf)
	for y := 0; y < size.H; y++ {
		row := (size.H - 1 - y) * size.W
		for x := 0; x < size.W; x++ {
			if !mask[y*size.W+x] {
				continue
			}
			base := (row + x) * 4
			o.maskBuf[base+0] = 235
			o.maskBuf[base+1] = 235
			o.maskBuf[base+2] = 240
			o.maskBuf[base+3] = 140
		}
	}
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}

func (o *Overlay) drawDot(screen *ebiten.Image, m Marker, size float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(m.X-size/2, m.Y-size/2)
	op.ColorScale.ScaleWithColor(color.RGBA{R: 250, G: 250, B: 250, A: 255})
	screen.DrawImage(o.pixel, op)
}
