package ui

import (
	"potts-ca/internal/mesh"
	"potts-ca/internal/render"
)

type centroidProvider interface {
	Centroids() []mesh.Point
}

type labelProvider interface {
	Labels() []int
}

// Marker is a screen-space point in pixels.
type Marker struct {
	X, Y float64
}

// CentroidMarkers converts lattice centroids into screen positions for a grid
// of height h drawn at scale.
func CentroidMarkers(points []mesh.Point, h, scale int) []Marker {
	if scale <= 0 {
		scale = 1
	}
	out := make([]Marker, len(points))
	for i, p := range points {
		out[i] = Marker{
			X: (p.X + 0.5) * float64(scale),
			Y: render.ScreenY(p.Y, h, scale),
		}
	}
	return out
}

// BoundaryMask flags every site whose right or upper neighbor has a different
// owner. labels is row-major with w columns.
func BoundaryMask(labels []int, w, h int) []bool {
	mask := make([]bool, w*h)
	if len(labels) < w*h {
		return mask
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if x+1 < w && labels[i+1] != labels[i] {
				mask[i] = true
			}
			if y+1 < h && labels[i+w] != labels[i] {
				mask[i] = true
			}
		}
	}
	return mask
}
