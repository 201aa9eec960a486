// Package simulation drives a Potts population through a timed run: sweeps,
// externally decided deaths and divisions, validation and result output.
package simulation

import (
	"context"
	"errors"
	"fmt"

	"potts-ca/internal/core"
	"potts-ca/internal/fsutil"
	"potts-ca/internal/monitoring"
	"potts-ca/internal/potts"
)

var logf = monitoring.For("simulation")

// Config controls the length and output cadence of a run.
type Config struct {
	Steps       int
	OutputEvery int
	// ProgressEvery logs a progress line every n steps; 0 disables it.
	ProgressEvery int
	// CleanOutput empties the output directory before results are opened.
	CleanOutput bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLifecycle installs the source of death and division decisions.
func WithLifecycle(l Lifecycle) Option {
	return func(r *Runner) {
		if l != nil {
			r.lifecycle = l
		}
	}
}

// WithSinks adds result sinks.
func WithSinks(sinks ...Sink) Option {
	return func(r *Runner) { r.sinks = append(r.sinks, sinks...) }
}

// WithRunInfo sets the description handed to sinks.
func WithRunInfo(info RunInfo) Option {
	return func(r *Runner) { r.info = info }
}

// Runner owns the step loop of one run.
type Runner struct {
	cfg       Config
	pop       *potts.Population
	clock     *core.Clock
	out       *fsutil.OutputFileHandler
	lifecycle Lifecycle
	sinks     []Sink
	info      RunInfo

	last StepSnapshot
}

// NewRunner wires a population, clock and output directory into a run.
func NewRunner(cfg Config, pop *potts.Population, clock *core.Clock, out *fsutil.OutputFileHandler, opts ...Option) *Runner {
	if cfg.OutputEvery <= 0 {
		cfg.OutputEvery = 1
	}
	r := &Runner{cfg: cfg, pop: pop, clock: clock, out: out, lifecycle: noLifecycle{}}
	for _, opt := range opts {
		opt(r)
	}
	if r.info.Steps == 0 {
		r.info.Steps = cfg.Steps
	}
	if r.info.Params == (potts.Params{}) {
		r.info.Params = pop.Params()
	}
	return r
}

// Last returns the most recent snapshot handed to sinks.
func (r *Runner) Last() StepSnapshot { return r.last }

// Run executes the configured number of steps. Output files are closed and
// sinks ended on every exit path. Cancelling ctx stops the run between steps
// and returns ctx.Err().
func (r *Runner) Run(ctx context.Context) (err error) {
	r.pop.SetTimeSource(r.clock)
	if r.cfg.CleanOutput {
		if err := r.out.Clean(); err != nil {
			return err
		}
	}
	if err := r.pop.CreateOutputFiles(r.out); err != nil {
		return err
	}
	defer func() {
		if cerr := r.pop.CloseOutputFiles(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close results: %w", cerr))
		}
	}()

	started := 0
	defer func() {
		for _, s := range r.sinks[:started] {
			if eerr := s.End(); eerr != nil {
				logf("sink end: %v", eerr)
				err = errors.Join(err, eerr)
			}
		}
	}()
	for _, s := range r.sinks {
		if err := s.Begin(r.info); err != nil {
			return fmt.Errorf("begin sink: %w", err)
		}
		started++
	}

	logf("%d steps, %d cells, %d nodes", r.cfg.Steps, r.pop.NumCells(), r.pop.NumNodes())
	if err := r.emit(StepSnapshot{Step: 0}); err != nil {
		return err
	}

	for step := 1; step <= r.cfg.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap, err := r.step(step)
		if err != nil {
			return err
		}
		r.clock.Advance()
		snap.Time = r.clock.Time()
		if step%r.cfg.OutputEvery == 0 || step == r.cfg.Steps {
			if err := r.emit(snap); err != nil {
				return err
			}
		}
		if r.cfg.ProgressEvery > 0 && step%r.cfg.ProgressEvery == 0 {
			sum := r.pop.Summarize()
			logf("step %d t=%g cells=%d mean volume=%.2f accepted=%d",
				step, r.clock.Time(), sum.Cells, sum.MeanVolume, snap.Sweep.Accepted)
		}
	}
	return nil
}

func (r *Runner) step(step int) (StepSnapshot, error) {
	snap := StepSnapshot{Step: step}
	if err := r.pop.UpdateNodeLocations(nil, r.clock.Dt()); err != nil {
		return snap, fmt.Errorf("step %d: %w", step, err)
	}
	snap.Sweep = r.pop.LastSweep()

	r.lifecycle.Kill(r.pop)
	snap.Deaths = r.pop.RemoveDeadCells()
	for _, d := range r.lifecycle.Divisions(r.pop) {
		if _, err := r.pop.AddCell(d.Child, d.Vector, d.Parent); err != nil {
			return snap, fmt.Errorf("step %d: %w", step, err)
		}
		snap.Births++
	}
	if snap.Births > 0 || snap.Deaths > 0 {
		logf("step %d births=%d deaths=%d", step, snap.Births, snap.Deaths)
	}
	if err := r.pop.Validate(); err != nil {
		return snap, fmt.Errorf("step %d: %w", step, err)
	}
	return snap, nil
}

func (r *Runner) emit(snap StepSnapshot) error {
	if snap.Step == 0 {
		snap.Time = r.clock.Time()
	}
	if err := r.pop.WriteResultsToFiles(); err != nil {
		return err
	}
	snap.Labels = r.pop.Mesh().Labels()
	snap.Summary = r.pop.Summarize()
	r.last = snap
	for _, s := range r.sinks {
		if err := s.Observe(snap); err != nil {
			logf("sink observe step %d: %v", snap.Step, err)
		}
	}
	return nil
}
