package potts

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachableLatticeState indicates a node with no neighbors was visited
	// during a sweep. The lattice is malformed.
	ErrUnreachableLatticeState = errors.New("potts: node has no neighbors")

	// ErrTessellationUnsupported is returned by the element tessellation hooks.
	ErrTessellationUnsupported = errors.New("potts: element tessellation is not supported")

	// ErrCellNotInPopulation is returned when a cell handle does not belong to
	// the population.
	ErrCellNotInPopulation = errors.New("potts: cell is not in this population")

	// ErrCellAlreadyAdded is returned when a cell is added to a population twice.
	ErrCellAlreadyAdded = errors.New("potts: cell already belongs to a population")

	// ErrLocationIndices is returned when explicit location indices do not match
	// the cell list or the mesh.
	ErrLocationIndices = errors.New("potts: invalid location indices")

	// ErrOutputNotOpen is returned when results are written before
	// CreateOutputFiles.
	ErrOutputNotOpen = errors.New("potts: output files are not open")
)

// ConsistencyError reports an element that does not map to exactly one live
// cell. Count is 0 for an orphaned element.
type ConsistencyError struct {
	Element int
	Count   int
}

func (e *ConsistencyError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("potts: element %d does not appear to have a cell associated with it", e.Element)
	}
	return fmt.Sprintf("potts: element %d appears to have %d cells associated with it", e.Element, e.Count)
}
