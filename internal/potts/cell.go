package potts

// Cell is a biological cell tracked by a Population. It owns no geometry; its
// spatial extent is the mesh element the population pairs it with.
type Cell struct {
	handle int
	dead   bool
}

// NewCell returns a live cell that is not yet part of a population.
func NewCell() *Cell { return &Cell{handle: -1} }

// NewCells returns n fresh live cells.
func NewCells(n int) []*Cell {
	cells := make([]*Cell, n)
	for i := range cells {
		cells[i] = NewCell()
	}
	return cells
}

// Kill marks the cell dead. The population removes it on the next
// RemoveDeadCells.
func (c *Cell) Kill() { c.dead = true }

// IsDead reports whether the cell has been killed.
func (c *Cell) IsDead() bool { return c.dead }

// Handle returns the cell's arena slot in its population, or -1.
func (c *Cell) Handle() int { return c.handle }
