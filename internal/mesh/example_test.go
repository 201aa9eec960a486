package mesh_test

import (
	"fmt"

	"potts-ca/internal/mesh"
)

// ExampleNewBlockMesh places one 2x2 element in the middle of a 6x4 lattice
// and divides it.
func ExampleNewBlockMesh() {
	m, err := mesh.NewBlockMesh(mesh.BlockOptions{
		NodesAcross: 6, NodesUp: 4,
		ElementsAcross: 1, ElementsUp: 1,
		ElementWidth: 2, ElementHeight: 2,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("nodes:", m.NumNodes())
	fmt.Println("element 0:", m.Element(0).Nodes())
	fmt.Println("centroid:", m.CentroidOf(0))

	child, err := m.DivideElement(0, true)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("after divide:", m.Element(0).Nodes(), m.Element(child).Nodes())
	fmt.Println("connected:", m.IsElementConnected(0), m.IsElementConnected(child))
	// Output:
	// nodes: 24
	// element 0: [8 9 14 15]
	// centroid: {2.5 1.5}
	// after divide: [8 9] [14 15]
	// connected: true true
}

// ExampleNewLattice shows the Moore and von Neumann neighbors of a corner
// site, with and without periodic wrap.
func ExampleNewLattice() {
	open, _ := mesh.NewLattice(3, 3, mesh.LatticeOptions{Neighborhood: mesh.VonNeumann})
	wrapped, _ := mesh.NewLattice(3, 3, mesh.LatticeOptions{Neighborhood: mesh.Moore, PeriodicX: true, PeriodicY: true})
	fmt.Println(open.NeighborsOf(0))
	fmt.Println(wrapped.NeighborsOf(0))
	// Output:
	// [1 3]
	// [1 2 3 4 5 6 7 8]
}
