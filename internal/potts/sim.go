package potts

import (
	"errors"
	"image/color"
	"math"

	"potts-ca/internal/core"
	"potts-ca/internal/mesh"
	"potts-ca/internal/monitoring"
	pcore "potts-ca/pkg/core"
)

var logf = monitoring.For("potts")

// Sim adapts a Population to the core.Sim contract so the viewers can drive it.
// One Step is one sweep followed by removal of reaped cells.
type Sim struct {
	cfg   Config
	pop   *Population
	rng   *pcore.RNG
	clock *core.Clock
	grid  *core.ByteGrid
	err   error
}

// NewSim builds a block-seeded population from cfg.
func NewSim(cfg Config) *Sim {
	s := &Sim{cfg: cfg}
	s.Reset(cfg.Seed)
	return s
}

// Name identifies the simulation.
func (s *Sim) Name() string { return "potts" }

// Size returns the lattice dimensions.
func (s *Sim) Size() core.Size { return core.Size{W: s.cfg.Width, H: s.cfg.Height} }

// Cells exposes the display buffer of element labels.
func (s *Sim) Cells() []uint8 { return s.grid.Cells() }

// Palette exposes the display palette.
func (s *Sim) Palette() []color.RGBA { return Palette() }

// Population returns the underlying population.
func (s *Sim) Population() *Population { return s.pop }

// Clock returns the simulation clock.
func (s *Sim) Clock() *core.Clock { return s.clock }

// Config returns the active configuration.
func (s *Sim) Config() Config { return s.cfg }

// Err returns the error that halted the simulation, if any.
func (s *Sim) Err() error { return s.err }

// Reset rebuilds the lattice and population and reseeds the random stream.
func (s *Sim) Reset(seed int64) {
	s.cfg.Seed = seed
	s.err = nil
	s.rng = pcore.NewRNG(seed)
	s.clock = core.NewClock(0, s.cfg.Dt)
	s.grid = core.NewByteGrid(s.cfg.Width, s.cfg.Height)

	pop, err := NewFromConfig(s.cfg, WithRandomSource(s.rng), WithTimeSource(s.clock))
	if errors.Is(err, mesh.ErrBlocksDoNotFit) {
		logf("%v; starting with an empty lattice", err)
		var m *mesh.Mesh
		m, err = mesh.NewLattice(s.grid.W, s.grid.H, s.cfg.BlockOptions().Lattice)
		if err == nil {
			pop, err = New(m, nil, WithRandomSource(s.rng), WithTimeSource(s.clock), WithParams(s.cfg.Params))
		}
	}
	if err != nil {
		s.err = err
		return
	}
	s.pop = pop
	s.refreshDisplay()
}

// Step advances the population by one sweep.
func (s *Sim) Step() {
	if s.err != nil || s.pop == nil {
		return
	}
	if err := s.pop.UpdateNodeLocations(nil, s.clock.Dt()); err != nil {
		s.err = err
		logf("halted: %v", err)
		return
	}
	if removed := s.pop.RemoveDeadCells(); removed > 0 {
		logf("removed %d emptied cell(s) at t=%s", removed, formatTime(s.clock.Time()))
	}
	s.clock.Advance()
	s.refreshDisplay()
}

// Labels returns the owning element of every lattice site, -1 for medium.
func (s *Sim) Labels() []int {
	if s.pop == nil {
		return nil
	}
	return s.pop.Mesh().Labels()
}

// Centroids returns the centre of every live cell's element in lattice
// coordinates.
func (s *Sim) Centroids() []mesh.Point {
	if s.pop == nil {
		return nil
	}
	out := make([]mesh.Point, 0, s.pop.NumCells())
	for _, c := range s.pop.Cells() {
		if p, err := s.pop.LocationOfCellCentre(c); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func (s *Sim) refreshDisplay() {
	s.grid.EncodeLabels(s.pop.Mesh().Labels(), DisplayColors)
}

// Parameters reports the lattice, Hamiltonian and population state.
func (s *Sim) Parameters() core.ParameterSnapshot {
	prm := s.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "Lattice",
			Params: []core.Parameter{
				core.IntParam("w", "Width", s.cfg.Width),
				core.IntParam("h", "Height", s.cfg.Height),
				core.Int64Param("seed", "Seed", s.cfg.Seed),
				core.BoolParam("periodic", "Periodic", s.cfg.Periodic),
			},
		},
		{
			Name: "Hamiltonian",
			Params: []core.Parameter{
				core.FloatParam("lambda_volume", "Volume weight", prm.LambdaVolume),
				core.FloatParam("target_volume", "Target volume", prm.TargetVolume),
				core.FloatParam("lambda_contact", "Contact weight", prm.LambdaContact),
				core.FloatParam("temperature", "Temperature", prm.Temperature),
				core.BoolParam("reap_empty", "Reap empty elements", prm.ReapEmptyElements),
			},
		},
	}
	if s.pop != nil {
		sum := s.pop.Summarize()
		groups = append(groups, core.ParameterGroup{
			Name: "Population",
			Params: []core.Parameter{
				core.IntParam("cells", "Cells", sum.Cells),
				core.FloatParam("mean_volume", "Mean volume", round3(sum.MeanVolume)),
				core.IntParam("medium", "Medium sites", sum.Medium),
				core.IntParam("accepted", "Accepted moves", s.pop.LastSweep().Accepted),
			},
			Summary: "time " + formatTime(s.clock.Time()),
		})
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the HUD-adjustable Hamiltonian settings.
func (s *Sim) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "lambda_volume", Label: "Volume weight", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, HasMin: true},
		{Key: "target_volume", Label: "Target volume", Type: core.ParamTypeInt, Step: 1, Min: 1, HasMin: true},
		{Key: "lambda_contact", Label: "Contact weight", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, HasMin: true},
		{Key: "temperature", Label: "Temperature", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.01, HasMin: true},
	}
}

// SetFloatParameter updates a Hamiltonian setting.
func (s *Sim) SetFloatParameter(key string, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	prm := s.cfg.Params
	switch key {
	case "lambda_volume":
		prm.LambdaVolume = math.Max(0, value)
	case "target_volume":
		prm.TargetVolume = math.Max(1, value)
	case "lambda_contact":
		prm.LambdaContact = math.Max(0, value)
	case "temperature":
		prm.Temperature = math.Max(0.01, value)
	default:
		return false
	}
	s.applyParams(prm)
	return true
}

// SetIntParameter updates an integer-stepped setting.
func (s *Sim) SetIntParameter(key string, value int) bool {
	if key != "target_volume" {
		return false
	}
	return s.SetFloatParameter(key, float64(value))
}

func (s *Sim) applyParams(prm Params) {
	s.cfg.Params = prm
	if s.pop != nil {
		s.pop.SetParams(prm)
	}
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func init() {
	core.Register("potts", func(cfg map[string]string) core.Sim {
		return NewSim(FromMap(cfg))
	})
}
