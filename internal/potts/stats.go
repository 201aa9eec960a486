package potts

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the volume distribution of the live population.
type Summary struct {
	Cells      int
	MeanVolume float64
	StdVolume  float64
	MinVolume  float64
	MaxVolume  float64
	// Medium counts nodes owned by no element.
	Medium int
}

// Volumes returns the volume of each live cell's element in list order.
// Cells that are dead or paired with a deleted element are skipped.
func (p *Population) Volumes() []float64 {
	vols := make([]float64, 0, len(p.order))
	for _, h := range p.order {
		if p.arena[h].IsDead() {
			continue
		}
		elem := p.cellElement[h]
		if p.mesh.Element(elem).IsDeleted() {
			continue
		}
		vols = append(vols, p.mesh.VolumeOf(elem))
	}
	return vols
}

// Summarize computes volume statistics over the live cells. The standard
// deviation is the unbiased estimate and is 0 for fewer than two cells.
func (p *Population) Summarize() Summary {
	s := Summary{}
	for n := 0; n < p.mesh.NumNodes(); n++ {
		if _, owned := p.mesh.OwnerOf(n); !owned {
			s.Medium++
		}
	}
	vols := p.Volumes()
	s.Cells = len(vols)
	if len(vols) == 0 {
		return s
	}
	s.MinVolume = floats.Min(vols)
	s.MaxVolume = floats.Max(vols)
	if len(vols) == 1 {
		s.MeanVolume = vols[0]
		return s
	}
	s.MeanVolume, s.StdVolume = stat.MeanStdDev(vols, nil)
	return s
}
