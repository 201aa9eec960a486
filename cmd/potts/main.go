// Command potts runs a Cellular Potts relaxation headlessly and writes its
// results into a fresh run directory.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"

	"potts-ca/internal/app"
	"potts-ca/internal/core"
	"potts-ca/internal/fsutil"
	"potts-ca/internal/movie"
	"potts-ca/internal/potts"
	"potts-ca/internal/simulation"
	"potts-ca/internal/store"
	"potts-ca/internal/trace"
	pcore "potts-ca/pkg/core"
)

// ParametersFileName holds the Hamiltonian parameters of a run.
const ParametersFileName = "parameters.txt"

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	settings, err := cfg.Settings()
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	pcfg := potts.FromMap(settings)
	runCfg := app.RunConfig(settings)
	runCfg.ProgressEvery = cfg.ProgressEvery

	clock := core.NewClock(0, pcfg.Dt)
	pop, err := potts.NewFromConfig(pcfg, potts.WithRandomSource(pcore.NewRNG(pcfg.Seed)))
	if err != nil {
		log.Fatalf("build population: %v", err)
	}

	runID := uuid.NewString()
	out, err := fsutil.NewOutputFileHandler(fsutil.OSFileSystem{}, filepath.Join(cfg.OutDir, cfg.RunDirName(runID)), cfg.Clean)
	if err != nil {
		log.Fatalf("output directory: %v", err)
	}
	if err := writeParameters(pop, out); err != nil {
		log.Fatalf("write parameters: %v", err)
	}

	var sinks []simulation.Sink
	if cfg.Movie {
		sinks = append(sinks, movie.New(movie.Config{Path: out.Path(movie.FileName), Scale: cfg.Scale}))
	}
	if cfg.Trace {
		sinks = append(sinks, trace.New(out.Path(trace.FileName)))
	}
	if cfg.Database != "" {
		db, err := store.Open(cfg.Database)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
		sinks = append(sinks, db)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := simulation.NewRunner(runCfg, pop, clock, out,
		simulation.WithSinks(sinks...),
		simulation.WithRunInfo(simulation.RunInfo{
			Width:  pcfg.Width,
			Height: pcfg.Height,
			Steps:  runCfg.Steps,
			Config: settings,
			Params: pcfg.Params,
		}),
	)
	log.Printf("run %s: %dx%d lattice, %d cells, %d steps -> %s", runID, pcfg.Width, pcfg.Height, pop.NumCells(), runCfg.Steps, out.Dir())
	if err := runner.Run(ctx); err != nil {
		log.Fatalf("run %s: %v", runID, err)
	}
	sum := runner.Last().Summary
	log.Printf("run %s: done at t=%g, %d cells, mean volume %.2f (sd %.2f)", runID, clock.Time(), sum.Cells, sum.MeanVolume, sum.StdVolume)
}

func writeParameters(pop *potts.Population, out *fsutil.OutputFileHandler) error {
	w, err := out.OpenOutputFile(ParametersFileName, fsutil.Truncate)
	if err != nil {
		return err
	}
	if err := pop.OutputParameters(w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
