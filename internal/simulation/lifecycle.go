package simulation

import (
	"potts-ca/internal/mesh"
	"potts-ca/internal/potts"
)

// Division asks the population to split Parent's element and pair Child with
// the new half.
type Division struct {
	Parent *potts.Cell
	Child  *potts.Cell
	Vector mesh.Point
}

// Lifecycle supplies death and division decisions. The runner only applies
// them; it never decides on its own when a cell dies or divides.
type Lifecycle interface {
	// Kill marks cells dead for this step.
	Kill(pop *potts.Population)
	// Divisions lists the divisions to apply after dead cells are removed.
	Divisions(pop *potts.Population) []Division
}

type noLifecycle struct{}

func (noLifecycle) Kill(*potts.Population)                 {}
func (noLifecycle) Divisions(*potts.Population) []Division { return nil }
