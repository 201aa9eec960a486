package core

// ByteGrid stores a 2D grid of byte-sized display values in row-major order.
// Simulations with richer per-site state encode it into a ByteGrid so renderers
// can map values through a palette.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// At returns the value stored at (x, y).
func (g *ByteGrid) At(x, y int) uint8 { return g.data[g.Index(x, y)] }

// Set stores v at (x, y).
func (g *ByteGrid) Set(x, y int, v uint8) { g.data[g.Index(x, y)] = v }

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}

// EncodeLabels writes a label per site into the grid. Negative labels map to 0
// and non-negative labels cycle through 1..colors so adjacent elements rarely
// share a display value.
func (g *ByteGrid) EncodeLabels(labels []int, colors int) {
	if colors <= 0 {
		colors = 1
	}
	n := len(labels)
	if n > len(g.data) {
		n = len(g.data)
	}
	for i := 0; i < n; i++ {
		if labels[i] < 0 {
			g.data[i] = 0
			continue
		}
		g.data[i] = uint8(labels[i]%colors + 1)
	}
}
