package simulation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"potts-ca/internal/core"
	"potts-ca/internal/fsutil"
	"potts-ca/internal/mesh"
	"potts-ca/internal/monitoring"
	"potts-ca/internal/potts"
	pcore "potts-ca/pkg/core"
)

type recordingSink struct {
	began    bool
	ended    bool
	info     RunInfo
	steps    []int
	times    []float64
	failNext bool
}

func (s *recordingSink) Begin(info RunInfo) error {
	s.began = true
	s.info = info
	return nil
}

func (s *recordingSink) Observe(snap StepSnapshot) error {
	s.steps = append(s.steps, snap.Step)
	s.times = append(s.times, snap.Time)
	if s.failNext {
		s.failNext = false
		return errors.New("disk full")
	}
	return nil
}

func (s *recordingSink) End() error {
	s.ended = true
	return nil
}

// scriptedLifecycle kills and divides fixed cells at fixed steps.
type scriptedLifecycle struct {
	step      int
	killAt    map[int]int
	divideAt  map[int]int
	divisions int
}

func (l *scriptedLifecycle) Kill(pop *potts.Population) {
	l.step++
	if idx, ok := l.killAt[l.step]; ok {
		pop.Cells()[idx].Kill()
	}
}

func (l *scriptedLifecycle) Divisions(pop *potts.Population) []Division {
	idx, ok := l.divideAt[l.step]
	if !ok {
		return nil
	}
	l.divisions++
	return []Division{{Parent: pop.Cells()[idx], Child: potts.NewCell(), Vector: mesh.Point{Y: 1}}}
}

func newTestRun(t *testing.T) (*potts.Population, *core.Clock, *fsutil.MemoryFileSystem, *fsutil.OutputFileHandler) {
	t.Helper()
	t.Cleanup(monitoring.SetLogger(t.Logf))

	m, err := mesh.NewBlockMesh(mesh.BlockOptions{
		NodesAcross: 24, NodesUp: 24,
		ElementsAcross: 2, ElementsUp: 2,
		ElementWidth: 4, ElementHeight: 4,
	})
	require.NoError(t, err)
	clock := core.NewClock(0, 0.5)
	pop, err := potts.New(m, potts.NewCells(m.NumAllElements()),
		potts.WithValidation(),
		potts.WithRandomSource(pcore.NewRNG(3)),
	)
	require.NoError(t, err)
	mfs := fsutil.NewMemoryFileSystem()
	out, err := fsutil.NewOutputFileHandler(mfs, "/runs/test", false)
	require.NoError(t, err)
	return pop, clock, mfs, out
}

func TestRunWritesResultsAtCadence(t *testing.T) {
	pop, clock, mfs, out := newTestRun(t)
	sink := &recordingSink{}
	r := NewRunner(Config{Steps: 5, OutputEvery: 2}, pop, clock, out, WithSinks(sink))

	require.NoError(t, r.Run(context.Background()))

	data, err := mfs.ReadFile(out.Path(potts.ResultsFileName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 4, "initial, steps 2 and 4, final step 5")
	for i, prefix := range []string{"0\t", "1\t", "2\t", "2.5\t"} {
		assert.True(t, strings.HasPrefix(lines[i], prefix), "line %d = %q", i, lines[i])
	}

	assert.True(t, sink.began)
	assert.True(t, sink.ended)
	assert.Equal(t, []int{0, 2, 4, 5}, sink.steps)
	assert.Equal(t, []float64{0, 1, 2, 2.5}, sink.times)
	assert.Equal(t, 5, sink.info.Steps)
	assert.Equal(t, potts.DefaultParams(), sink.info.Params)
	assert.Equal(t, 5, r.Last().Step)
	assert.Equal(t, 5, clock.Steps())
}

func TestRunCleanOutputRemovesEarlierFiles(t *testing.T) {
	for _, clean := range []bool{false, true} {
		pop, clock, mfs, out := newTestRun(t)
		stale, err := mfs.Create(out.Path("movie.mjpeg"))
		require.NoError(t, err)
		require.NoError(t, stale.Close())

		r := NewRunner(Config{Steps: 1, CleanOutput: clean}, pop, clock, out)
		require.NoError(t, r.Run(context.Background()))

		assert.Equal(t, !clean, mfs.Exists(out.Path("movie.mjpeg")), "clean=%v", clean)
		data, err := mfs.ReadFile(out.Path(potts.ResultsFileName))
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(string(data), "\n"), "clean=%v", clean)
	}
}

func TestRunAppliesLifecycle(t *testing.T) {
	pop, clock, _, out := newTestRun(t)
	life := &scriptedLifecycle{killAt: map[int]int{1: 3}, divideAt: map[int]int{2: 0}}
	sink := &recordingSink{}
	r := NewRunner(Config{Steps: 4}, pop, clock, out, WithLifecycle(life), WithSinks(sink))

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 1, life.divisions)
	assert.Equal(t, 4, pop.NumCells(), "one death and one birth")
	require.NoError(t, pop.Validate())
	assert.True(t, pop.Mesh().Element(3).IsDeleted())
	assert.Equal(t, 5, pop.Mesh().NumAllElements())
}

func TestRunSinkObserveFailureIsLogged(t *testing.T) {
	pop, clock, _, out := newTestRun(t)
	sink := &recordingSink{failNext: true}
	r := NewRunner(Config{Steps: 2}, pop, clock, out, WithSinks(sink))
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, []int{0, 1, 2}, sink.steps)
}

func TestRunCancelledClosesOutputs(t *testing.T) {
	pop, clock, mfs, out := newTestRun(t)
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(Config{Steps: 10}, pop, clock, out, WithSinks(sink))
	err := r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, sink.ended)
	assert.Zero(t, clock.Steps())

	data, err := mfs.ReadFile(out.Path(potts.ResultsFileName))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"), "only the initial line")
	assert.ErrorIs(t, pop.WriteResultsToFiles(), potts.ErrOutputNotOpen, "results closed on exit")
}

func TestRunStopsOnInvalidDivision(t *testing.T) {
	pop, clock, _, out := newTestRun(t)
	life := &scriptedLifecycle{divideAt: map[int]int{1: 0}}
	parent := pop.Cells()[0]
	r := NewRunner(Config{Steps: 3}, pop, clock, out, WithLifecycle(&badChildLifecycle{inner: life, reuse: parent}))
	err := r.Run(context.Background())
	require.ErrorIs(t, err, potts.ErrCellAlreadyAdded)
	assert.Contains(t, err.Error(), "step 1")
}

// badChildLifecycle replays divisions with a child that already belongs to the
// population.
type badChildLifecycle struct {
	inner *scriptedLifecycle
	reuse *potts.Cell
}

func (l *badChildLifecycle) Kill(pop *potts.Population) { l.inner.Kill(pop) }

func (l *badChildLifecycle) Divisions(pop *potts.Population) []Division {
	divs := l.inner.Divisions(pop)
	for i := range divs {
		divs[i].Child = l.reuse
	}
	return divs
}
