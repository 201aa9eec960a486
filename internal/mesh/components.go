package mesh

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ElementComponents returns the connected pieces of an element's node set
// under the lattice adjacency. Each piece is sorted and pieces are ordered by
// their smallest node index. An empty or deleted element has no pieces.
func (m *Mesh) ElementComponents(element int) [][]int {
	e := m.elements[element]
	if len(e.nodes) == 0 {
		return nil
	}
	g := simple.NewUndirectedGraph()
	for _, n := range e.nodes {
		g.AddNode(simple.Node(n))
	}
	for _, n := range e.nodes {
		for _, nb := range m.nodes[n].neighbors {
			if m.nodes[nb].owner != e.index || nb == n {
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(n), T: simple.Node(nb)})
		}
	}

	comps := topo.ConnectedComponents(g)
	out := make([][]int, 0, len(comps))
	for _, comp := range comps {
		ids := make([]int, len(comp))
		for i, node := range comp {
			ids[i] = int(node.ID())
		}
		sort.Ints(ids)
		out = append(out, ids)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// IsElementConnected reports whether an element forms exactly one connected
// piece. Empty elements are not connected.
func (m *Mesh) IsElementConnected(element int) bool {
	return len(m.ElementComponents(element)) == 1
}
