package mesh

import "errors"

var (
	// ErrEmptyLattice indicates a lattice with no rows or no columns.
	ErrEmptyLattice = errors.New("mesh: lattice must have at least one row and one column")
	// ErrBlocksDoNotFit indicates the requested elements do not fit in the lattice.
	ErrBlocksDoNotFit = errors.New("mesh: elements do not fit in the lattice")
	// ErrNodeOwnedTwice indicates a node listed in more than one element.
	ErrNodeOwnedTwice = errors.New("mesh: node belongs to more than one element")
	// ErrNeighborOutOfRange indicates a neighbor index outside the node range.
	ErrNeighborOutOfRange = errors.New("mesh: neighbor index out of range")
	// ErrNodeOccupied indicates an attempt to add a node owned by another element.
	ErrNodeOccupied = errors.New("mesh: node already belongs to another element")
	// ErrElementTooSmall indicates an element with fewer than two nodes was divided.
	ErrElementTooSmall = errors.New("mesh: element has too few nodes to divide")
	// ErrElementDeleted indicates an operation on a deleted element.
	ErrElementDeleted = errors.New("mesh: element is deleted")
)
