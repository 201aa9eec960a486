//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"strconv"

	"potts-ca/internal/app"
	"potts-ca/internal/core"
	_ "potts-ca/internal/potts"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	factory, ok := core.Lookup(cfg.Sim)
	if !ok {
		log.Fatalf("unknown sim %q (available: %v)", cfg.Sim, core.Names())
	}
	settings, err := cfg.Settings()
	if err != nil {
		log.Fatalf("settings: %v", err)
	}

	seed := cfg.Seed
	if v, err := strconv.ParseInt(settings["seed"], 10, 64); err == nil {
		seed = v
	}

	sim := factory(settings)
	game := app.New(sim, cfg.Scale, seed)
	size := sim.Size()

	ebiten.SetWindowTitle("potts-ca: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+app.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
