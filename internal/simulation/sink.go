package simulation

import "potts-ca/internal/potts"

// RunInfo describes a run to sinks before the first step.
type RunInfo struct {
	Width  int
	Height int
	Steps  int
	Config map[string]string
	Params potts.Params
}

// StepSnapshot is the state handed to sinks after a step. Step 0 is the initial
// lattice.
type StepSnapshot struct {
	Step    int
	Time    float64
	Labels  []int
	Summary potts.Summary
	Sweep   potts.SweepStats
	Births  int
	Deaths  int
}

// Sink consumes per-step snapshots.
type Sink interface {
	Begin(info RunInfo) error
	Observe(s StepSnapshot) error
	End() error
}
