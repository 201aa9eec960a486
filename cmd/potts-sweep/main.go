// Command potts-sweep relaxes the same initial lattice over a grid of
// temperatures and contact weights and ranks how close each run ends to the
// target volume.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"potts-ca/internal/app"
	"potts-ca/internal/core"
	"potts-ca/internal/fsutil"
	"potts-ca/internal/monitoring"
	"potts-ca/internal/potts"
	"potts-ca/internal/simulation"
	pcore "potts-ca/pkg/core"
)

type paramSet struct {
	temperature   float64
	lambdaContact float64
}

func (p paramSet) String() string {
	return fmt.Sprintf("T=%.3f contact=%.3f", p.temperature, p.lambdaContact)
}

type scenarioResult struct {
	params    paramSet
	summary   potts.Summary
	connected int
	err       error
}

// volumeError is the distance of the final mean volume from the target.
func (r scenarioResult) volumeError(target float64) float64 {
	return math.Abs(r.summary.MeanVolume - target)
}

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	steps := flag.Int("steps", 200, "sweeps per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	temps := flag.String("temperatures", "0.05,0.1,0.2,0.5,1", "comma-separated temperatures")
	contacts := flag.String("contacts", "0,0.1,0.5,1", "comma-separated contact weights")
	flag.Parse()

	settings, err := cfg.Settings()
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	base := potts.FromMap(settings)
	tempValues, err := parseFloats(*temps)
	if err != nil {
		log.Fatalf("temperatures: %v", err)
	}
	contactValues, err := parseFloats(*contacts)
	if err != nil {
		log.Fatalf("contacts: %v", err)
	}
	monitoring.SetLogger(nil)

	var sets []paramSet
	for _, t := range tempValues {
		for _, c := range contactValues {
			sets = append(sets, paramSet{temperature: t, lambdaContact: c})
		}
	}
	fmt.Printf("Sweeping %d parameter sets (%d workers, %d steps)\n", len(sets), *workers, *steps)

	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			out, err := fsutil.NewOutputFileHandler(fsutil.NewMemoryFileSystem(), fmt.Sprintf("/sweep/worker-%d", worker), false)
			if err != nil {
				log.Printf("worker %d: %v", worker, err)
				for params := range jobs {
					results <- scenarioResult{params: params, err: err}
				}
				return
			}
			for params := range jobs {
				results <- runScenario(base, params, *steps, out)
			}
		}(i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		if res.err != nil {
			fmt.Printf("%s failed: %v\n", res.params, res.err)
			continue
		}
		all = append(all, res)
	}

	target := base.Params.TargetVolume
	sort.Slice(all, func(i, j int) bool {
		ei, ej := all[i].volumeError(target), all[j].volumeError(target)
		if ei != ej {
			return ei < ej
		}
		return all[i].summary.StdVolume < all[j].summary.StdVolume
	})
	fmt.Printf("\nResults by distance from target volume %g (elapsed %s):\n", target, time.Since(start).Round(time.Millisecond))
	for i, res := range all {
		s := res.summary
		fmt.Printf("%2d) %s cells=%d connected=%d mean=%.2f sd=%.2f min=%g max=%g medium=%d\n",
			i+1, res.params, s.Cells, res.connected, s.MeanVolume, s.StdVolume, s.MinVolume, s.MaxVolume, s.Medium)
	}
}

// runScenario reuses the worker's output directory; the runner empties it
// before each scenario writes its results.
func runScenario(base potts.Config, params paramSet, steps int, out *fsutil.OutputFileHandler) scenarioResult {
	cfg := base
	cfg.Params.Temperature = params.temperature
	cfg.Params.LambdaContact = params.lambdaContact
	res := scenarioResult{params: params}

	pop, err := potts.NewFromConfig(cfg, potts.WithRandomSource(pcore.NewRNG(cfg.Seed)))
	if err != nil {
		res.err = err
		return res
	}
	runner := simulation.NewRunner(simulation.Config{Steps: steps, OutputEvery: steps, CleanOutput: true}, pop, core.NewClock(0, cfg.Dt), out)
	if err := runner.Run(context.Background()); err != nil {
		res.err = err
		return res
	}
	res.summary = runner.Last().Summary
	for _, c := range pop.Cells() {
		elem, err := pop.LocationIndexOf(c)
		if err == nil && pop.Mesh().IsElementConnected(elem) {
			res.connected++
		}
	}
	return res
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", field, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", s)
	}
	return out, nil
}
