// Package trace plots the cell count and mean cell volume of a run over time.
package trace

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"potts-ca/internal/simulation"
)

// FileName is the plot written into a run directory.
const FileName = "trace.png"

// Sample is one observed point of the trace.
type Sample struct {
	Time       float64
	Cells      int
	MeanVolume float64
}

// Plotter is a simulation.Sink that collects samples and saves a PNG on End.
type Plotter struct {
	path    string
	title   string
	samples []Sample
}

// New returns a plotter that saves to path.
func New(path string) *Plotter {
	return &Plotter{path: path}
}

// Samples returns the collected samples.
func (p *Plotter) Samples() []Sample { return p.samples }

// Begin resets the collected samples.
func (p *Plotter) Begin(info simulation.RunInfo) error {
	p.samples = p.samples[:0]
	p.title = fmt.Sprintf("Potts %dx%d, T=%g", info.Width, info.Height, info.Params.Temperature)
	return nil
}

// Observe records the snapshot summary.
func (p *Plotter) Observe(s simulation.StepSnapshot) error {
	p.samples = append(p.samples, Sample{Time: s.Time, Cells: s.Summary.Cells, MeanVolume: s.Summary.MeanVolume})
	return nil
}

// End writes the plot. Runs without samples write nothing.
func (p *Plotter) End() error {
	if len(p.samples) == 0 {
		return nil
	}
	pl := plot.New()
	pl.Title.Text = p.title
	pl.X.Label.Text = "Time"
	pl.Y.Label.Text = "Cells / mean volume"

	cells := make(plotter.XYs, len(p.samples))
	volume := make(plotter.XYs, len(p.samples))
	for i, s := range p.samples {
		cells[i] = plotter.XY{X: s.Time, Y: float64(s.Cells)}
		volume[i] = plotter.XY{X: s.Time, Y: s.MeanVolume}
	}

	cellLine, err := plotter.NewLine(cells)
	if err != nil {
		return fmt.Errorf("trace: cells: %w", err)
	}
	cellLine.Color = color.RGBA{R: 220, G: 80, B: 60, A: 255}
	cellLine.Width = vg.Points(1)

	volumeLine, err := plotter.NewLine(volume)
	if err != nil {
		return fmt.Errorf("trace: mean volume: %w", err)
	}
	volumeLine.Color = color.RGBA{R: 60, G: 120, B: 220, A: 255}
	volumeLine.Width = vg.Points(1)

	pl.Add(plotter.NewGrid(), cellLine, volumeLine)
	pl.Legend.Add("cells", cellLine)
	pl.Legend.Add("mean volume", volumeLine)
	pl.Legend.Top = true

	if err := pl.Save(10*vg.Inch, 5*vg.Inch, p.path); err != nil {
		return fmt.Errorf("trace: save %s: %w", p.path, err)
	}
	return nil
}
