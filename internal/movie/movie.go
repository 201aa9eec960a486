// Package movie records lattice ownership as an MJPEG movie, one frame per
// observed step.
package movie

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"potts-ca/internal/core"
	"potts-ca/internal/potts"
	"potts-ca/internal/render"
	"potts-ca/internal/simulation"
)

// FileName is the movie written into a run directory.
const FileName = "lattice.avi"

// ErrNoLattice is returned when the run has no lattice dimensions.
var ErrNoLattice = errors.New("movie: run has no lattice dimensions")

// Config controls frame size and encoding.
type Config struct {
	Path    string
	Scale   int
	FPS     int
	Quality int
	Palette []color.RGBA
}

// Writer is a simulation.Sink that appends a JPEG frame per snapshot.
type Writer struct {
	cfg    Config
	aw     mjpeg.AviWriter
	grid   *core.ByteGrid
	buf    bytes.Buffer
	frames int
}

// New returns a movie sink. Zero fields take defaults: scale 4, 10 fps,
// quality 90 and the potts palette.
func New(cfg Config) *Writer {
	if cfg.Scale <= 0 {
		cfg.Scale = 4
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 10
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = 90
	}
	if len(cfg.Palette) == 0 {
		cfg.Palette = potts.Palette()
	}
	return &Writer{cfg: cfg}
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Begin opens the movie file sized to the lattice.
func (w *Writer) Begin(info simulation.RunInfo) error {
	if info.Width <= 0 || info.Height <= 0 {
		return ErrNoLattice
	}
	aw, err := mjpeg.New(w.cfg.Path, int32(info.Width*w.cfg.Scale), int32(info.Height*w.cfg.Scale), int32(w.cfg.FPS))
	if err != nil {
		return fmt.Errorf("movie: create %s: %w", w.cfg.Path, err)
	}
	w.aw = aw
	w.grid = core.NewByteGrid(info.Width, info.Height)
	w.frames = 0
	return nil
}

// Observe renders the snapshot labels and appends them as a frame.
func (w *Writer) Observe(s simulation.StepSnapshot) error {
	if w.aw == nil {
		return nil
	}
	w.grid.EncodeLabels(s.Labels, potts.DisplayColors)
	img := render.Scale(render.PaletteImage(w.grid.Cells(), w.grid.W, w.grid.H, w.cfg.Palette), w.cfg.Scale)
	w.buf.Reset()
	if err := jpeg.Encode(&w.buf, img, &jpeg.Options{Quality: w.cfg.Quality}); err != nil {
		return fmt.Errorf("movie: encode step %d: %w", s.Step, err)
	}
	if err := w.aw.AddFrame(w.buf.Bytes()); err != nil {
		return fmt.Errorf("movie: add frame %d: %w", s.Step, err)
	}
	w.frames++
	return nil
}

// End finalizes the AVI index. It is safe to call more than once.
func (w *Writer) End() error {
	if w.aw == nil {
		return nil
	}
	err := w.aw.Close()
	w.aw = nil
	if err != nil {
		return fmt.Errorf("movie: close: %w", err)
	}
	return nil
}
