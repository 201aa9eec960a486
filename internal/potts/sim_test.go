package potts

import (
	"slices"
	"testing"

	"potts-ca/internal/core"
)

func TestSimRegistered(t *testing.T) {
	factory, ok := core.Lookup("potts")
	if !ok {
		t.Fatalf("potts sim not registered")
	}
	sim := factory(map[string]string{"w": "24", "h": "16", "elements_across": "2", "elements_up": "1"})
	if sim.Name() != "potts" {
		t.Fatalf("Name() = %q", sim.Name())
	}
	if size := sim.Size(); size.W != 24 || size.H != 16 {
		t.Fatalf("Size() = %+v", size)
	}
	if len(sim.Cells()) != 24*16 {
		t.Fatalf("display buffer length %d", len(sim.Cells()))
	}
}

func TestSimResetIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 32, 32
	a := NewSim(cfg)
	b := NewSim(cfg)
	for i := 0; i < 5; i++ {
		a.Step()
		b.Step()
	}
	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Fatalf("same seed diverged")
	}
	if a.Clock().Steps() != 5 {
		t.Fatalf("clock steps = %d", a.Clock().Steps())
	}

	a.Reset(cfg.Seed)
	a.Step()
	b.Reset(cfg.Seed)
	b.Step()
	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Fatalf("reset did not replay")
	}
	if err := a.Population().Validate(); err != nil {
		t.Fatalf("Validate after steps: %v", err)
	}
}

func TestSimDisplayEncodesMedium(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 10, 10
	cfg.ElementsAcross, cfg.ElementsUp = 1, 1
	sim := NewSim(cfg)
	cells := sim.Cells()
	if cells[0] != 0 {
		t.Fatalf("corner should be medium, got %d", cells[0])
	}
	// block is centered at (3..6, 3..6)
	if cells[4*10+4] != 1 {
		t.Fatalf("element 0 should display as 1, got %d", cells[4*10+4])
	}
	if len(sim.Palette()) != DisplayColors+1 {
		t.Fatalf("palette size %d", len(sim.Palette()))
	}
}

func TestSimBlocksDoNotFitFallsBackToEmptyLattice(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 8, 8
	sim := NewSim(cfg)
	if sim.Err() != nil {
		t.Fatalf("unexpected error %v", sim.Err())
	}
	if n := sim.Population().NumCells(); n != 0 {
		t.Fatalf("cells = %d, want 0", n)
	}
	sim.Step()
}

func TestSimParameterSetters(t *testing.T) {
	sim := NewSim(DefaultConfig())
	if !sim.SetFloatParameter("temperature", 0.5) {
		t.Fatalf("temperature not accepted")
	}
	if sim.Population().Params().Temperature != 0.5 {
		t.Fatalf("population did not pick up temperature")
	}
	if !sim.SetFloatParameter("temperature", -1) || sim.Config().Params.Temperature != 0.01 {
		t.Fatalf("temperature not clamped: %v", sim.Config().Params.Temperature)
	}
	if !sim.SetIntParameter("target_volume", 25) || sim.Population().Params().TargetVolume != 25 {
		t.Fatalf("target volume not applied")
	}
	if sim.SetIntParameter("lambda_volume", 1) {
		t.Fatalf("int setter accepted a float key")
	}
	if sim.SetFloatParameter("unknown", 1) {
		t.Fatalf("unknown key accepted")
	}
	p, ok := sim.Parameters().Lookup("temperature")
	if !ok || p.Value != "0.01" {
		t.Fatalf("snapshot temperature = %+v", p)
	}
	if _, ok := sim.Parameters().Lookup("mean_volume"); !ok {
		t.Fatalf("population group missing")
	}
	if len(sim.ParameterControls()) == 0 {
		t.Fatalf("no HUD controls")
	}
}

func TestSimCentroidsAndLabels(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 10, 10
	cfg.ElementsAcross, cfg.ElementsUp = 1, 1
	sim := NewSim(cfg)

	centroids := sim.Centroids()
	if len(centroids) != 1 || centroids[0].X != 4.5 || centroids[0].Y != 4.5 {
		t.Fatalf("centroids = %v, want [{4.5 4.5}]", centroids)
	}
	labels := sim.Labels()
	if labels[0] != -1 || labels[4*10+4] != 0 {
		t.Fatalf("labels corner=%d centre=%d", labels[0], labels[4*10+4])
	}
}
