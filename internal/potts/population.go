package potts

import (
	"fmt"
	"io"
	"slices"

	"potts-ca/internal/mesh"
	pcore "potts-ca/pkg/core"
)

// RandomSource is the ordered random stream consumed by the sweep.
type RandomSource interface {
	// RandomInt returns a uniform integer in [0, n).
	RandomInt(n int) int
	// RandomUniform returns a uniform real in [0, 1).
	RandomUniform() float64
}

// TimeSource reports the current simulation time for output lines.
type TimeSource interface {
	Time() float64
}

type zeroTime struct{}

func (zeroTime) Time() float64 { return 0 }

// Option configures a Population.
type Option func(*Population)

// WithValidation runs Validate at construction.
func WithValidation() Option {
	return func(p *Population) { p.validate = true }
}

// WithLocationIndices pairs cell i with element indices[i] instead of
// element i.
func WithLocationIndices(indices []int) Option {
	return func(p *Population) { p.locations = slices.Clone(indices) }
}

// WithRandomSource sets the stream the sweep draws from. Without it the
// population uses a private RNG seeded with 0.
func WithRandomSource(rs RandomSource) Option {
	return func(p *Population) { p.rng = rs }
}

// WithTimeSource sets the clock used to stamp output lines.
func WithTimeSource(ts TimeSource) Option {
	return func(p *Population) { p.clock = ts }
}

// WithParams overrides the Hamiltonian settings.
func WithParams(params Params) Option {
	return func(p *Population) { p.params = params }
}

// Population pairs the cells of a simulation with the elements of a lattice
// mesh and relaxes the lattice with Metropolis sweeps.
//
// Cells live in an arena addressed by handle. The cell/element table is kept
// as two slices: cellElement[handle] and elementCell[element], with -1 for no
// partner.
type Population struct {
	mesh  *mesh.Mesh
	rng   RandomSource
	clock TimeSource

	params Params

	arena       []*Cell
	order       []int
	cellElement []int
	elementCell []int

	emptied   []int
	lastSweep SweepStats

	validate  bool
	locations []int

	vizElements io.WriteCloser
}

// New builds a population over m. Cell i is paired with element i unless
// WithLocationIndices supplies the mapping.
func New(m *mesh.Mesh, cells []*Cell, opts ...Option) (*Population, error) {
	p := &Population{
		mesh:   m,
		clock:  zeroTime{},
		params: DefaultParams(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = pcore.NewRNG(0)
	}

	if p.locations != nil && len(p.locations) != len(cells) {
		return nil, fmt.Errorf("%d location indices for %d cells: %w", len(p.locations), len(cells), ErrLocationIndices)
	}
	p.elementCell = make([]int, m.NumAllElements())
	for i := range p.elementCell {
		p.elementCell[i] = -1
	}
	for i, c := range cells {
		elem := i
		if p.locations != nil {
			elem = p.locations[i]
		}
		if elem < 0 || elem >= m.NumAllElements() {
			return nil, fmt.Errorf("cell %d location %d outside %d elements: %w", i, elem, m.NumAllElements(), ErrLocationIndices)
		}
		if _, err := p.attach(c, elem); err != nil {
			return nil, err
		}
	}
	p.locations = nil

	if p.validate {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Population) attach(c *Cell, elem int) (int, error) {
	if c == nil {
		c = NewCell()
	}
	if c.handle >= 0 {
		return 0, fmt.Errorf("attach cell to element %d: %w", elem, ErrCellAlreadyAdded)
	}
	h := len(p.arena)
	c.handle = h
	p.arena = append(p.arena, c)
	p.order = append(p.order, h)
	p.cellElement = append(p.cellElement, elem)
	for len(p.elementCell) <= elem {
		p.elementCell = append(p.elementCell, -1)
	}
	p.elementCell[elem] = h
	return h, nil
}

func (p *Population) handleOf(c *Cell) (int, error) {
	if c == nil || c.handle < 0 || c.handle >= len(p.arena) || p.arena[c.handle] != c {
		return 0, ErrCellNotInPopulation
	}
	return c.handle, nil
}

// Validate checks that every non-deleted element is paired with exactly one
// live cell. It returns a *ConsistencyError for the first element found with
// zero or several cells.
func (p *Population) Validate() error {
	tally := make([]int, p.mesh.NumAllElements())
	for _, h := range p.order {
		if p.arena[h].IsDead() {
			continue
		}
		if elem := p.cellElement[h]; elem >= 0 && elem < len(tally) {
			tally[elem]++
		}
	}
	for elem, count := range tally {
		if p.mesh.Element(elem).IsDeleted() {
			continue
		}
		if count != 1 {
			return &ConsistencyError{Element: elem, Count: count}
		}
	}
	return nil
}

// AddCell divides the parent's element and pairs newCell with the new half.
// The original element keeps the lower half. The division vector is accepted
// for interface compatibility; the split direction is fixed.
func (p *Population) AddCell(newCell *Cell, _ mesh.Point, parent *Cell) (*Cell, error) {
	ph, err := p.handleOf(parent)
	if err != nil {
		return nil, fmt.Errorf("add cell: parent: %w", err)
	}
	if newCell == nil {
		newCell = NewCell()
	}
	if newCell.handle >= 0 {
		return nil, fmt.Errorf("add cell: %w", ErrCellAlreadyAdded)
	}
	elem, err := p.mesh.DivideElement(p.cellElement[ph], true)
	if err != nil {
		return nil, fmt.Errorf("add cell: %w", err)
	}
	if _, err := p.attach(newCell, elem); err != nil {
		return nil, err
	}
	return newCell, nil
}

// RemoveDeadCells deletes the element of every dead cell and drops the cell
// from the list. Survivors keep their relative order. It returns the number of
// cells removed.
func (p *Population) RemoveDeadCells() int {
	removed := 0
	kept := p.order[:0]
	for _, h := range p.order {
		c := p.arena[h]
		if !c.IsDead() {
			kept = append(kept, h)
			continue
		}
		elem := p.cellElement[h]
		p.mesh.DeleteElement(elem)
		if p.elementCell[elem] == h {
			p.elementCell[elem] = -1
		}
		p.cellElement[h] = -1
		p.arena[h] = nil
		c.handle = -1
		removed++
	}
	p.order = kept
	return removed
}

// Mesh returns the underlying lattice mesh.
func (p *Population) Mesh() *mesh.Mesh { return p.mesh }

// Params returns the current Hamiltonian settings.
func (p *Population) Params() Params { return p.params }

// SetParams replaces the Hamiltonian settings used by later sweeps.
func (p *Population) SetParams(params Params) { p.params = params }

// SetTimeSource replaces the clock used to stamp output lines.
func (p *Population) SetTimeSource(ts TimeSource) {
	if ts == nil {
		ts = zeroTime{}
	}
	p.clock = ts
}

// NumCells returns the number of cells in the list, dead ones included until
// RemoveDeadCells runs.
func (p *Population) NumCells() int { return len(p.order) }

// NumNodes returns the number of lattice sites.
func (p *Population) NumNodes() int { return p.mesh.NumNodes() }

// NumElements returns the number of element slots in the mesh.
func (p *Population) NumElements() int { return p.mesh.NumAllElements() }

// Cells returns the cells in list order.
func (p *Population) Cells() []*Cell {
	out := make([]*Cell, len(p.order))
	for i, h := range p.order {
		out[i] = p.arena[h]
	}
	return out
}

// LocationIndexOf returns the element index paired with c.
func (p *Population) LocationIndexOf(c *Cell) (int, error) {
	h, err := p.handleOf(c)
	if err != nil {
		return 0, err
	}
	return p.cellElement[h], nil
}

// ElementOf returns the mesh element paired with c.
func (p *Population) ElementOf(c *Cell) (*mesh.Element, error) {
	elem, err := p.LocationIndexOf(c)
	if err != nil {
		return nil, err
	}
	return p.mesh.Element(elem), nil
}

// CellAt returns the cell paired with an element, if any.
func (p *Population) CellAt(element int) (*Cell, bool) {
	if element < 0 || element >= len(p.elementCell) {
		return nil, false
	}
	h := p.elementCell[element]
	if h < 0 {
		return nil, false
	}
	return p.arena[h], true
}

// LocationOfCellCentre returns the centroid of the element paired with c.
func (p *Population) LocationOfCellCentre(c *Cell) (mesh.Point, error) {
	elem, err := p.LocationIndexOf(c)
	if err != nil {
		return mesh.Point{}, err
	}
	return p.mesh.CentroidOf(elem), nil
}

// IsCellAssociatedWithDeletedLocation reports whether c's element has been
// deleted.
func (p *Population) IsCellAssociatedWithDeletedLocation(c *Cell) (bool, error) {
	e, err := p.ElementOf(c)
	if err != nil {
		return false, err
	}
	return e.IsDeleted(), nil
}

// Width returns the extent of the lattice along dim (0 = x, 1 = y).
func (p *Population) Width(dim int) float64 { return p.mesh.Width(dim) }
