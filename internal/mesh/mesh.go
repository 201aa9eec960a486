package mesh

import (
	"fmt"
	"slices"
	"sort"
)

// medium marks a node owned by no element.
const medium = -1

// Point is a site location in lattice coordinates.
type Point struct {
	X, Y float64
}

// Node is a lattice site. Its index, location and neighbors never change; only
// its owning element does.
type Node struct {
	index     int
	location  Point
	neighbors []int
	owner     int
}

// Index returns the global node index.
func (n *Node) Index() int { return n.index }

// Location returns the site coordinates.
func (n *Node) Location() Point { return n.location }

// Neighbors returns the sorted neighbor indices. The slice is shared and must
// not be modified.
func (n *Node) Neighbors() []int { return n.neighbors }

// Owner returns the owning element index, or false when the node is medium.
func (n *Node) Owner() (int, bool) {
	if n.owner == medium {
		return 0, false
	}
	return n.owner, true
}

// NumContainingElements returns 0 for medium and 1 otherwise.
func (n *Node) NumContainingElements() int {
	if n.owner == medium {
		return 0
	}
	return 1
}

// Element is the spatial extent of one cell: an ordered list of global node
// indices. Local indices are positions in that list.
type Element struct {
	index   int
	nodes   []int
	deleted bool
	mesh    *Mesh
}

// Index returns the element index within its mesh.
func (e *Element) Index() int { return e.index }

// NumNodes returns the number of nodes in the element.
func (e *Element) NumNodes() int { return len(e.nodes) }

// IsDeleted reports whether the element has been retired.
func (e *Element) IsDeleted() bool { return e.deleted }

// NodeGlobalIndex maps a local index to the global node index.
func (e *Element) NodeGlobalIndex(local int) int { return e.nodes[local] }

// NodeLocalIndex finds the local position of a global node index.
func (e *Element) NodeLocalIndex(global int) (int, bool) {
	for i, n := range e.nodes {
		if n == global {
			return i, true
		}
	}
	return 0, false
}

// Nodes returns a copy of the element's global node indices in local order.
func (e *Element) Nodes() []int { return slices.Clone(e.nodes) }

// AddNode appends a node to the element and claims its ownership. Adding a
// node already in this element is a no-op.
func (e *Element) AddNode(global int) error {
	node := e.mesh.nodes[global]
	switch node.owner {
	case e.index:
		return nil
	case medium:
	default:
		return fmt.Errorf("add node %d to element %d: %w (element %d)", global, e.index, ErrNodeOccupied, node.owner)
	}
	e.nodes = append(e.nodes, global)
	node.owner = e.index
	return nil
}

// DeleteNode removes the node at a local index and releases it to medium.
// The remaining nodes keep their relative order.
func (e *Element) DeleteNode(local int) {
	global := e.nodes[local]
	e.nodes = slices.Delete(e.nodes, local, local+1)
	if node := e.mesh.nodes[global]; node.owner == e.index {
		node.owner = medium
	}
}

// Mesh is a fixed-topology lattice of nodes with a mutable partition into
// elements.
type Mesh struct {
	nodes    []*Node
	elements []*Element
	live     int
}

// NewMesh builds a mesh from explicit node locations, neighbor sets and
// element node lists. Neighbor sets are copied, sorted and deduplicated; a node
// listed as its own neighbor is dropped.
func NewMesh(locations []Point, neighbors [][]int, elements [][]int) (*Mesh, error) {
	if len(neighbors) != len(locations) {
		return nil, fmt.Errorf("mesh: %d neighbor sets for %d nodes", len(neighbors), len(locations))
	}
	m := &Mesh{nodes: make([]*Node, len(locations))}
	for i, loc := range locations {
		set := make([]int, 0, len(neighbors[i]))
		for _, nb := range neighbors[i] {
			if nb < 0 || nb >= len(locations) {
				return nil, fmt.Errorf("node %d neighbor %d: %w", i, nb, ErrNeighborOutOfRange)
			}
			if nb != i {
				set = append(set, nb)
			}
		}
		m.nodes[i] = &Node{index: i, location: loc, neighbors: sortedUnique(set), owner: medium}
	}
	for _, nodes := range elements {
		if _, err := m.addElement(nodes); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Mesh) addElement(nodes []int) (int, error) {
	e := &Element{index: len(m.elements), nodes: make([]int, 0, len(nodes)), mesh: m}
	for _, n := range nodes {
		if n < 0 || n >= len(m.nodes) {
			return 0, fmt.Errorf("element %d node %d: %w", e.index, n, ErrNeighborOutOfRange)
		}
		if m.nodes[n].owner != medium {
			return 0, fmt.Errorf("element %d node %d: %w", e.index, n, ErrNodeOwnedTwice)
		}
		m.nodes[n].owner = e.index
		e.nodes = append(e.nodes, n)
	}
	m.elements = append(m.elements, e)
	m.live++
	return e.index, nil
}

// NumNodes returns the number of lattice sites.
func (m *Mesh) NumNodes() int { return len(m.nodes) }

// NumElements returns the number of elements that are not deleted.
func (m *Mesh) NumElements() int { return m.live }

// NumAllElements returns the number of element slots, deleted ones included.
// Valid element indices are [0, NumAllElements()).
func (m *Mesh) NumAllElements() int { return len(m.elements) }

// Node returns the node at index.
func (m *Mesh) Node(index int) *Node { return m.nodes[index] }

// Element returns the element at index, deleted or not.
func (m *Mesh) Element(index int) *Element { return m.elements[index] }

// NeighborsOf returns the sorted neighbor set of a node. The slice is shared
// and must not be modified.
func (m *Mesh) NeighborsOf(node int) []int { return m.nodes[node].neighbors }

// OwnerOf returns the element owning node, or false for medium.
func (m *Mesh) OwnerOf(node int) (int, bool) { return m.nodes[node].Owner() }

// VolumeOf returns the node count of an element as a float.
func (m *Mesh) VolumeOf(element int) float64 { return float64(len(m.elements[element].nodes)) }

// CentroidOf returns the mean location of an element's nodes. Periodic wrap is
// not unfolded. An empty element yields the origin.
func (m *Mesh) CentroidOf(element int) Point {
	e := m.elements[element]
	if len(e.nodes) == 0 {
		return Point{}
	}
	var c Point
	for _, n := range e.nodes {
		loc := m.nodes[n].location
		c.X += loc.X
		c.Y += loc.Y
	}
	k := float64(len(e.nodes))
	return Point{X: c.X / k, Y: c.Y / k}
}

// DeleteElement retires an element and releases all of its nodes to medium.
// Deleting an already deleted element is a no-op.
func (m *Mesh) DeleteElement(element int) {
	e := m.elements[element]
	if e.deleted {
		return
	}
	for _, n := range e.nodes {
		if m.nodes[n].owner == e.index {
			m.nodes[n].owner = medium
		}
	}
	e.nodes = nil
	e.deleted = true
	m.live--
}

// DivideElement splits an element into two halves and returns the index of the
// new element. Nodes are ordered bottom to top by (y, x, index); the lower
// half holds floor(k/2) nodes. With placeOriginalBelow the original element
// keeps the lower half and the new element takes the upper half, otherwise the
// roles swap. Both halves keep the original local order. Rectangular and other
// row-convex elements always split into two connected halves.
func (m *Mesh) DivideElement(element int, placeOriginalBelow bool) (int, error) {
	e := m.elements[element]
	if e.deleted {
		return 0, fmt.Errorf("divide element %d: %w", element, ErrElementDeleted)
	}
	k := len(e.nodes)
	if k < 2 {
		return 0, fmt.Errorf("divide element %d with %d node(s): %w", element, k, ErrElementTooSmall)
	}

	order := slices.Clone(e.nodes)
	sort.Slice(order, func(i, j int) bool {
		a, b := m.nodes[order[i]].location, m.nodes[order[j]].location
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return order[i] < order[j]
	})
	lower := make(map[int]struct{}, k/2)
	for _, n := range order[:k/2] {
		lower[n] = struct{}{}
	}

	var keep, move []int
	for _, n := range e.nodes {
		_, isLower := lower[n]
		if isLower == placeOriginalBelow {
			keep = append(keep, n)
		} else {
			move = append(move, n)
		}
	}

	for _, n := range move {
		m.nodes[n].owner = medium
	}
	e.nodes = keep
	return m.addElement(move)
}

// Width returns the extent of the node cloud along dim (0 = x, 1 = y).
func (m *Mesh) Width(dim int) float64 {
	if len(m.nodes) == 0 {
		return 0
	}
	coord := func(p Point) float64 {
		if dim == 0 {
			return p.X
		}
		return p.Y
	}
	lo := coord(m.nodes[0].location)
	hi := lo
	for _, n := range m.nodes[1:] {
		v := coord(n.location)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}

// Labels returns the owning element per node, -1 for medium.
func (m *Mesh) Labels() []int {
	labels := make([]int, len(m.nodes))
	for i, n := range m.nodes {
		labels[i] = n.owner
	}
	return labels
}

func sortedUnique(vals []int) []int {
	sort.Ints(vals)
	return slices.Compact(vals)
}
