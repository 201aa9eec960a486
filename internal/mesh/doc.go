// Package mesh implements the fixed-topology lattice that a Cellular Potts
// population evolves on.
//
// What:
//
//   - Mesh holds Nodes (lattice sites) with immutable, sorted neighbor sets and
//     Elements (ordered node sets, one per biological cell).
//   - Every node is owned by at most one element; unowned nodes are "medium".
//   - Elements are split with DivideElement and retired with DeleteElement.
//     Retired elements keep their index so handles held elsewhere stay valid.
//
// Construction:
//
//   - NewLattice builds a width×height site lattice with Moore (8) or
//     von Neumann (4) neighborhoods and optional periodic wrap.
//   - NewBlockMesh places a grid of rectangular elements in the middle of a
//     lattice, surrounded by medium.
//   - NewMesh accepts explicit locations, neighbor sets and elements.
//
// Complexity:
//
//   - NeighborsOf, OwnerOf, VolumeOf: O(1).
//   - CentroidOf, NodeLocalIndex, DeleteNode: O(k), k = element size.
//   - DivideElement: O(k log k).
//   - ElementComponents: O(k·d), d = neighborhood size.
//
// Errors:
//
//   - ErrEmptyLattice: non-positive lattice dimensions.
//   - ErrBlocksDoNotFit: requested elements exceed the lattice.
//   - ErrNodeOwnedTwice: explicit construction assigns a node to two elements.
//   - ErrNeighborOutOfRange: explicit neighbor index outside the node range.
//   - ErrNodeOccupied: AddNode on a node owned by another element.
//   - ErrElementTooSmall: DivideElement on an element with fewer than two nodes.
//   - ErrElementDeleted: DivideElement on a deleted element.
package mesh
