package potts

import (
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"potts-ca/internal/mesh"
	pcore "potts-ca/pkg/core"
)

func TestSweepTwoNodeFollowsNeighborDraw(t *testing.T) {
	m := chainMesh(t, 2, [][]int{{0}})
	src := &scriptedSource{ints: []int{0, 0}, uniforms: []float64{0.999, 0.999}}
	pop, err := New(m, NewCells(1), WithRandomSource(src), WithParams(Params{LambdaVolume: 0, LambdaContact: 0, Temperature: 0.1}))
	require.NoError(t, err)

	require.NoError(t, pop.UpdateNodeLocations(nil, 1))
	assert.Equal(t, []int{0, 1}, m.Element(0).Nodes())
	assert.Equal(t, 1, pop.LastSweep().Accepted)
	assert.Equal(t, 1, pop.LastSweep().NoOps)
}

func TestSweepDrawOrder(t *testing.T) {
	pop := blockPopulation(t, mesh.BlockOptions{NodesAcross: 6, NodesUp: 5, ElementsAcross: 2, ElementsUp: 1, ElementWidth: 2, ElementHeight: 3})
	src := &scriptedSource{}
	pop.rng = src

	require.NoError(t, pop.UpdateNodeLocations(nil, 1))
	n := pop.NumNodes()
	require.Len(t, src.calls, 2*n)
	for i := 0; i < n; i++ {
		assert.Equal(t, "int", src.calls[2*i], "draw %d", 2*i)
		assert.Equal(t, "uniform", src.calls[2*i+1], "draw %d", 2*i+1)
	}
	for i, bound := range src.bounds {
		assert.Equal(t, len(pop.Mesh().NeighborsOf(i)), bound, "node %d neighbor bound", i)
	}
	assert.Equal(t, n, pop.LastSweep().Proposals)
}

func TestSweepGrowthToTargetVolumeAlwaysAccepted(t *testing.T) {
	elem := make([]int, 15)
	for i := range elem {
		elem[i] = i
	}
	m := chainMesh(t, 17, [][]int{elem})
	ints := make([]int, 17)
	ints[14] = 1 // node 14 proposes into node 15
	src := &scriptedSource{ints: ints}
	pop, err := New(m, NewCells(1), WithRandomSource(src), WithParams(Params{LambdaVolume: 1, TargetVolume: 16, Temperature: 0.1}))
	require.NoError(t, err)

	delta, swap := pop.energyChange(14, 15)
	require.True(t, swap)
	require.Less(t, delta, 0.0)

	require.NoError(t, pop.UpdateNodeLocations(nil, 1))
	assert.Equal(t, 16.0, m.VolumeOf(0))
	owner, ok := m.OwnerOf(15)
	require.True(t, ok)
	assert.Equal(t, 0, owner)
	_, ok = m.OwnerOf(16)
	assert.False(t, ok, "shrink move from node 16 is rejected")
}

func TestEnergyChangeBranches(t *testing.T) {
	// A = {0, 1}, B = {2, 3}, node 4 is medium.
	m := chainMesh(t, 5, [][]int{{0, 1}, {2, 3}})
	pop, err := New(m, NewCells(2), WithParams(Params{LambdaVolume: 1, TargetVolume: 2, LambdaContact: 1, Temperature: 1}))
	require.NoError(t, err)

	tests := []struct {
		name         string
		node, target int
		want         float64
		swap         bool
	}{
		// H0 = 0 + 0 + contact(node1 in A != B) = 1
		// H1 = (3-2)^2 + (1-2)^2 + contact(node3 in B != A) = 3
		{name: "owned into owned", node: 1, target: 2, want: 2, swap: true},
		// H0 = 0 + contact(owned neighbor 3) = 1
		// H1 = (3-2)^2 + contact(node 3 in B == B) = 1
		{name: "owned into medium", node: 3, target: 4, want: 0, swap: true},
		// H0 = 0 + contact(node 2 in B == B) = 0
		// H1 = (1-2)^2 + contact(owned neighbor 2) = 2
		{name: "medium into owned", node: 4, target: 3, want: 2, swap: true},
		{name: "same element", node: 0, target: 1, swap: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, swap := pop.energyChange(tt.node, tt.target)
			require.Equal(t, tt.swap, swap)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	empty := chainMesh(t, 3, nil)
	pop, err = New(empty, nil)
	require.NoError(t, err)
	_, swap := pop.energyChange(0, 1)
	assert.False(t, swap, "medium into medium")
}

func TestMetropolisAcceptance(t *testing.T) {
	// Path 0-3-1-2 with A = {0, 3} and B = {1, 2}. Node 3 is visited last and
	// proposes node 1 with deltaH = 2 at T = 1; every earlier visit is a no-op.
	run := func(r float64) []int {
		m, err := mesh.NewMesh(
			[]mesh.Point{{X: 0}, {X: 2}, {X: 3}, {X: 1}},
			[][]int{{3}, {3, 2}, {1}, {0, 1}},
			[][]int{{0, 3}, {1, 2}},
		)
		require.NoError(t, err)
		src := &scriptedSource{ints: []int{0, 0, 0, 1}, uniforms: []float64{0.999, 0.999, 0.999, r}}
		pop, err := New(m, NewCells(2), WithRandomSource(src), WithParams(Params{LambdaVolume: 1, TargetVolume: 2, LambdaContact: 1, Temperature: 1}))
		require.NoError(t, err)

		delta, swap := pop.energyChange(3, 1)
		require.True(t, swap)
		require.InDelta(t, 2, delta, 1e-12)

		require.NoError(t, pop.UpdateNodeLocations(nil, 1))
		return m.Labels()
	}
	p := math.Exp(-2)
	assert.Equal(t, []int{0, 1, 1, 0}, run(p+0.01), "rejected at or above exp(-dH/T)")
	assert.Equal(t, []int{0, 0, 1, 0}, run(p-0.01), "accepted below exp(-dH/T)")
}

func TestMetropolisLargePenaltyNeverAccepted(t *testing.T) {
	m := chainMesh(t, 3, [][]int{{0, 1}})
	// node 2 (medium) proposes node 1; removing it costs lambda*((1-2)^2) = 1e6
	src := &scriptedSource{ints: []int{0, 0, 0}, uniforms: []float64{0.5, 0.5, 0}}
	pop, err := New(m, NewCells(1), WithRandomSource(src), WithParams(Params{LambdaVolume: 1e6, TargetVolume: 2, Temperature: 0.1}))
	require.NoError(t, err)
	require.NoError(t, pop.UpdateNodeLocations(nil, 1))
	assert.Equal(t, []int{0, 0, -1}, m.Labels())
	assert.Equal(t, 1, pop.LastSweep().Rejected)
}

func TestSweepUnreachableLatticeState(t *testing.T) {
	m, err := mesh.NewMesh([]mesh.Point{{}, {X: 1}}, [][]int{{1}, {}}, nil)
	require.NoError(t, err)
	pop, err := New(m, nil, WithRandomSource(&scriptedSource{}))
	require.NoError(t, err)

	err = pop.UpdateNodeLocations(nil, 1)
	require.ErrorIs(t, err, ErrUnreachableLatticeState)
	assert.Contains(t, err.Error(), "node 1")
}

func TestSweepReapsEmptiedElement(t *testing.T) {
	// A = {2}, B = {0, 1}; node 1 takes node 2 and empties A.
	newPop := func(reap bool) (*Population, *mesh.Mesh) {
		m := chainMesh(t, 3, [][]int{{2}, {0, 1}})
		src := &scriptedSource{ints: []int{0, 1, 0}}
		pop, err := New(m, NewCells(2), WithRandomSource(src), WithParams(Params{Temperature: 0.1, ReapEmptyElements: reap}))
		require.NoError(t, err)
		return pop, m
	}

	pop, m := newPop(true)
	require.NoError(t, pop.UpdateNodeLocations(nil, 1))
	assert.Equal(t, []int{1, 1, 1}, m.Labels())
	stats := pop.LastSweep()
	assert.Equal(t, []int{0}, stats.Emptied)
	assert.Equal(t, 1, stats.Reaped)
	assert.True(t, pop.Cells()[0].IsDead())
	assert.Equal(t, 1, pop.RemoveDeadCells())
	require.NoError(t, pop.Validate())
	assert.True(t, m.Element(0).IsDeleted())

	pop, m = newPop(false)
	require.NoError(t, pop.UpdateNodeLocations(nil, 1))
	assert.Equal(t, []int{0}, pop.LastSweep().Emptied)
	assert.Zero(t, pop.LastSweep().Reaped)
	assert.False(t, pop.Cells()[0].IsDead())
	assert.Zero(t, m.VolumeOf(0), "element left empty but still paired")
	assert.NoError(t, pop.Validate())
}

func TestSweepDeterministic(t *testing.T) {
	run := func() []int {
		pop := blockPopulation(t,
			mesh.BlockOptions{NodesAcross: 24, NodesUp: 24, ElementsAcross: 3, ElementsUp: 3, ElementWidth: 4, ElementHeight: 4},
			WithRandomSource(pcore.NewRNG(42)),
		)
		for i := 0; i < 20; i++ {
			require.NoError(t, pop.UpdateNodeLocations(nil, 1))
			pop.RemoveDeadCells()
			require.NoError(t, pop.Validate())
		}
		return ownership(pop.Mesh())
	}
	first := run()
	if diff := cmp.Diff(first, run()); diff != "" {
		t.Fatalf("ownership differs between identical runs (-first +second):\n%s", diff)
	}
	if !slices.ContainsFunc(first, func(v int) bool { return v >= 0 }) {
		t.Fatalf("all elements vanished: %v", first)
	}
}

func TestSweepIgnoresForcesAndTimeStep(t *testing.T) {
	opts := mesh.BlockOptions{NodesAcross: 16, NodesUp: 16, ElementsAcross: 2, ElementsUp: 2, ElementWidth: 4, ElementHeight: 4}
	plain := blockPopulation(t, opts, WithRandomSource(pcore.NewRNG(5)))
	pushed := blockPopulation(t, opts, WithRandomSource(pcore.NewRNG(5)))
	forces := make([]mesh.Point, pushed.NumNodes())
	for i := range forces {
		forces[i] = mesh.Point{X: 3, Y: -2}
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, plain.UpdateNodeLocations(nil, 1))
		require.NoError(t, pushed.UpdateNodeLocations(forces, 0.01))
	}
	if diff := cmp.Diff(ownership(plain.Mesh()), ownership(pushed.Mesh())); diff != "" {
		t.Fatalf("forces changed the sweep (-plain +pushed):\n%s", diff)
	}
	assert.Equal(t, plain.LastSweep(), pushed.LastSweep())
}

func TestSweepKeepsSingleOccupancy(t *testing.T) {
	pop := blockPopulation(t,
		mesh.BlockOptions{NodesAcross: 20, NodesUp: 20, ElementsAcross: 2, ElementsUp: 2, ElementWidth: 5, ElementHeight: 5, Lattice: mesh.LatticeOptions{PeriodicX: true, PeriodicY: true}},
		WithRandomSource(pcore.NewRNG(7)),
	)
	for i := 0; i < 10; i++ {
		require.NoError(t, pop.UpdateNodeLocations(nil, 1))
		pop.RemoveDeadCells()
	}
	m := pop.Mesh()
	seen := make(map[int]int)
	for e := 0; e < m.NumAllElements(); e++ {
		for _, n := range m.Element(e).Nodes() {
			if prev, dup := seen[n]; dup {
				t.Fatalf("node %d in elements %d and %d", n, prev, e)
			}
			seen[n] = e
			owner, ok := m.OwnerOf(n)
			require.True(t, ok)
			require.Equal(t, e, owner)
		}
	}
}
