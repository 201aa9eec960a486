package mesh

import "fmt"

// Neighborhood selects which surrounding sites count as neighbors.
type Neighborhood int

const (
	// Moore uses the eight surrounding sites.
	Moore Neighborhood = iota
	// VonNeumann uses the four orthogonal sites.
	VonNeumann
)

// String returns the configuration name of the neighborhood.
func (n Neighborhood) String() string {
	if n == VonNeumann {
		return "vonneumann"
	}
	return "moore"
}

// ParseNeighborhood maps a configuration name to a Neighborhood.
func ParseNeighborhood(s string) (Neighborhood, bool) {
	switch s {
	case "moore", "8":
		return Moore, true
	case "vonneumann", "von_neumann", "4":
		return VonNeumann, true
	}
	return Moore, false
}

func (n Neighborhood) offsets() [][2]int {
	if n == VonNeumann {
		return [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	}
	return [][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
}

// LatticeOptions configures lattice adjacency.
type LatticeOptions struct {
	Neighborhood Neighborhood
	PeriodicX    bool
	PeriodicY    bool
}

// NewLattice builds a width×height lattice with no elements. Node index is
// y*width + x and node location is (x, y).
func NewLattice(width, height int, opts LatticeOptions) (*Mesh, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("lattice %dx%d: %w", width, height, ErrEmptyLattice)
	}
	offsets := opts.Neighborhood.offsets()
	total := width * height
	m := &Mesh{nodes: make([]*Node, total)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			set := make([]int, 0, len(offsets))
			for _, d := range offsets {
				nx, ok := wrapAxis(x+d[0], width, opts.PeriodicX)
				if !ok {
					continue
				}
				ny, ok := wrapAxis(y+d[1], height, opts.PeriodicY)
				if !ok {
					continue
				}
				if nb := ny*width + nx; nb != idx {
					set = append(set, nb)
				}
			}
			m.nodes[idx] = &Node{
				index:     idx,
				location:  Point{X: float64(x), Y: float64(y)},
				neighbors: sortedUnique(set),
				owner:     medium,
			}
		}
	}
	return m, nil
}

func wrapAxis(v, size int, periodic bool) (int, bool) {
	if v >= 0 && v < size {
		return v, true
	}
	if !periodic {
		return 0, false
	}
	return (v%size + size) % size, true
}

// BlockOptions describes a lattice seeded with a grid of rectangular elements.
type BlockOptions struct {
	NodesAcross    int
	NodesUp        int
	ElementsAcross int
	ElementsUp     int
	ElementWidth   int
	ElementHeight  int
	Lattice        LatticeOptions
}

// NewBlockMesh builds a lattice and places ElementsAcross×ElementsUp elements
// of ElementWidth×ElementHeight nodes, centered, with medium around them.
// Elements are numbered left to right, bottom to top; each element lists its
// nodes in row-major order.
func NewBlockMesh(opts BlockOptions) (*Mesh, error) {
	m, err := NewLattice(opts.NodesAcross, opts.NodesUp, opts.Lattice)
	if err != nil {
		return nil, err
	}
	if opts.ElementsAcross < 0 || opts.ElementsUp < 0 || opts.ElementWidth <= 0 || opts.ElementHeight <= 0 {
		return nil, fmt.Errorf("blocks %dx%d of %dx%d: %w", opts.ElementsAcross, opts.ElementsUp, opts.ElementWidth, opts.ElementHeight, ErrBlocksDoNotFit)
	}
	spanX := opts.ElementsAcross * opts.ElementWidth
	spanY := opts.ElementsUp * opts.ElementHeight
	if spanX > opts.NodesAcross || spanY > opts.NodesUp {
		return nil, fmt.Errorf("blocks span %dx%d in lattice %dx%d: %w", spanX, spanY, opts.NodesAcross, opts.NodesUp, ErrBlocksDoNotFit)
	}
	offX := (opts.NodesAcross - spanX) / 2
	offY := (opts.NodesUp - spanY) / 2
	for ey := 0; ey < opts.ElementsUp; ey++ {
		for ex := 0; ex < opts.ElementsAcross; ex++ {
			nodes := make([]int, 0, opts.ElementWidth*opts.ElementHeight)
			for j := 0; j < opts.ElementHeight; j++ {
				y := offY + ey*opts.ElementHeight + j
				for i := 0; i < opts.ElementWidth; i++ {
					x := offX + ex*opts.ElementWidth + i
					nodes = append(nodes, y*opts.NodesAcross+x)
				}
			}
			if _, err := m.addElement(nodes); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}
