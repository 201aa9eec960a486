// Command potts-tui shows a Potts relaxation in the terminal.
package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"potts-ca/internal/app"
	"potts-ca/internal/monitoring"
	"potts-ca/internal/potts"
	"potts-ca/internal/tui"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	settings, err := cfg.Settings()
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	pcfg := potts.FromMap(settings)
	// keep the lattice on screen
	if _, ok := cfg.Overrides["w"]; !ok && cfg.ConfigFile == "" {
		pcfg.Width, pcfg.Height = 40, 30
		pcfg.ElementsAcross, pcfg.ElementsUp = 3, 2
	}

	// log lines would tear the alternate screen
	monitoring.SetLogger(nil)

	sim := potts.NewSim(pcfg)
	if err := sim.Err(); err != nil {
		log.Fatalf("potts: %v", err)
	}
	tps := cfg.TPS
	if tps <= 0 {
		tps = 10
	}
	p := tea.NewProgram(tui.New(sim, time.Second/time.Duration(tps)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("tui: %v", err)
	}
}
