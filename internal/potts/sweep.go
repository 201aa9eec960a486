package potts

import (
	"fmt"
	"math"

	"potts-ca/internal/mesh"
)

// SweepStats summarizes one Metropolis sweep.
type SweepStats struct {
	Proposals int
	NoOps     int
	Accepted  int
	Rejected  int
	// Emptied lists elements that lost their last node during the sweep.
	Emptied []int
	// Reaped counts cells marked dead because their element was emptied.
	Reaped int
}

// LastSweep returns the statistics of the most recent sweep.
func (p *Population) LastSweep() SweepStats { return p.lastSweep }

// UpdateNodeLocations performs one Metropolis sweep over every node in storage
// order. Each node draws a neighbor with RandomInt and then an acceptance
// number with RandomUniform; both draws happen even when the proposal is a
// no-op. The force and time step arguments are ignored.
func (p *Population) UpdateNodeLocations(_ []mesh.Point, _ float64) error {
	m := p.mesh
	prm := p.params
	stats := SweepStats{}
	p.emptied = p.emptied[:0]

	for n := 0; n < m.NumNodes(); n++ {
		neighbors := m.NeighborsOf(n)
		if len(neighbors) == 0 {
			p.lastSweep = stats
			return fmt.Errorf("sweep node %d: %w", n, ErrUnreachableLatticeState)
		}
		target := neighbors[p.rng.RandomInt(len(neighbors))]
		stats.Proposals++

		deltaH, swap := p.energyChange(n, target)
		r := p.rng.RandomUniform()
		if !swap {
			stats.NoOps++
			continue
		}
		if deltaH > 0 && r >= math.Exp(-deltaH/prm.Temperature) {
			stats.Rejected++
			continue
		}

		current, currentOwned := m.OwnerOf(n)
		targetElem, targetOwned := m.OwnerOf(target)
		if targetOwned {
			e := m.Element(targetElem)
			if local, ok := e.NodeLocalIndex(target); ok {
				e.DeleteNode(local)
			}
			if e.NumNodes() == 0 {
				p.emptied = append(p.emptied, targetElem)
			}
		}
		if currentOwned {
			if err := m.Element(current).AddNode(target); err != nil {
				p.lastSweep = stats
				return fmt.Errorf("sweep node %d: %w", n, err)
			}
		}
		stats.Accepted++
	}

	stats.Emptied = append([]int(nil), p.emptied...)
	if prm.ReapEmptyElements {
		stats.Reaped = p.reapEmptied()
	}
	p.lastSweep = stats
	return nil
}

// energyChange returns H1 - H0 for copying the owner of node into target, and
// false when the move is a no-op (same owner, or both medium). Contact terms
// count the owned neighbors of target.
func (p *Population) energyChange(node, target int) (float64, bool) {
	m := p.mesh
	lc := p.params.LambdaContact
	current, currentOwned := m.OwnerOf(node)
	targetElem, targetOwned := m.OwnerOf(target)

	var h0, h1 float64
	switch {
	case currentOwned && targetOwned:
		if current == targetElem {
			return 0, false
		}
		h0 = p.volumeEnergy(current, 0) + p.volumeEnergy(targetElem, 0)
		h1 = p.volumeEnergy(current, 1) + p.volumeEnergy(targetElem, -1)
		for _, nb := range m.NeighborsOf(target) {
			owner, owned := m.OwnerOf(nb)
			if !owned {
				continue
			}
			if owner != targetElem {
				h0 += lc
			}
			if owner != current {
				h1 += lc
			}
		}
	case currentOwned:
		h0 = p.volumeEnergy(current, 0)
		h1 = p.volumeEnergy(current, 1)
		for _, nb := range m.NeighborsOf(target) {
			owner, owned := m.OwnerOf(nb)
			if !owned {
				continue
			}
			h0 += lc
			if owner != current {
				h1 += lc
			}
		}
	case targetOwned:
		h0 = p.volumeEnergy(targetElem, 0)
		h1 = p.volumeEnergy(targetElem, -1)
		for _, nb := range m.NeighborsOf(target) {
			owner, owned := m.OwnerOf(nb)
			if !owned {
				continue
			}
			if owner != targetElem {
				h0 += lc
			}
			h1 += lc
		}
	default:
		return 0, false
	}
	return h1 - h0, true
}

// volumeEnergy is the volume term of element elem after adding delta nodes.
func (p *Population) volumeEnergy(elem int, delta float64) float64 {
	d := p.mesh.VolumeOf(elem) + delta - p.params.TargetVolume
	return p.params.LambdaVolume * d * d
}

// reapEmptied marks the cells of elements emptied during the sweep dead. The
// elements themselves are deleted by the next RemoveDeadCells.
func (p *Population) reapEmptied() int {
	reaped := 0
	for _, elem := range p.emptied {
		if p.mesh.Element(elem).NumNodes() != 0 {
			continue
		}
		c, ok := p.CellAt(elem)
		if !ok || c.IsDead() {
			continue
		}
		c.Kill()
		reaped++
	}
	p.emptied = p.emptied[:0]
	return reaped
}
