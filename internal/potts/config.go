package potts

import (
	"strconv"

	"potts-ca/internal/mesh"
)

// Params holds the Hamiltonian and sweep settings.
type Params struct {
	LambdaVolume  float64
	TargetVolume  float64
	LambdaContact float64
	Temperature   float64

	// ReapEmptyElements marks the cell of any element emptied during a sweep
	// dead once the sweep finishes.
	ReapEmptyElements bool
}

// DefaultParams returns the reference Hamiltonian settings.
func DefaultParams() Params {
	return Params{
		LambdaVolume:      0.1,
		TargetVolume:      16,
		LambdaContact:     0.1,
		Temperature:       0.1,
		ReapEmptyElements: true,
	}
}

// Config describes a block-seeded lattice and the sweep parameters used by the
// "potts" simulation and the headless commands.
type Config struct {
	Width  int
	Height int
	Seed   int64

	Neighborhood mesh.Neighborhood
	Periodic     bool

	ElementWidth   int
	ElementHeight  int
	ElementsAcross int
	ElementsUp     int

	Dt float64

	Params Params
}

// DefaultConfig returns the standard configuration: a 64×64 Moore lattice
// seeded with a 4×4 grid of 4×4 elements.
func DefaultConfig() Config {
	return Config{
		Width:          64,
		Height:         64,
		Seed:           1,
		Neighborhood:   mesh.Moore,
		ElementWidth:   4,
		ElementHeight:  4,
		ElementsAcross: 4,
		ElementsUp:     4,
		Dt:             1,
		Params:         DefaultParams(),
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Malformed values are ignored.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["neighborhood"]; ok {
		if parsed, ok := mesh.ParseNeighborhood(v); ok {
			c.Neighborhood = parsed
		}
	}
	if v, ok := cfg["periodic"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Periodic = parsed
		}
	}
	if v, ok := cfg["element_width"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.ElementWidth = parsed
		}
	}
	if v, ok := cfg["element_height"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.ElementHeight = parsed
		}
	}
	if v, ok := cfg["elements_across"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.ElementsAcross = parsed
		}
	}
	if v, ok := cfg["elements_up"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.ElementsUp = parsed
		}
	}
	if v, ok := cfg["dt"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Dt = parsed
		}
	}
	if v, ok := cfg["lambda_volume"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.LambdaVolume = parsed
		}
	}
	if v, ok := cfg["target_volume"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.TargetVolume = parsed
		}
	}
	if v, ok := cfg["lambda_contact"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.LambdaContact = parsed
		}
	}
	if v, ok := cfg["temperature"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.Temperature = parsed
		}
	}
	if v, ok := cfg["reap_empty"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Params.ReapEmptyElements = parsed
		}
	}
	return c
}

// BlockOptions converts the lattice settings into mesh generator options.
func (c Config) BlockOptions() mesh.BlockOptions {
	return mesh.BlockOptions{
		NodesAcross:    c.Width,
		NodesUp:        c.Height,
		ElementsAcross: c.ElementsAcross,
		ElementsUp:     c.ElementsUp,
		ElementWidth:   c.ElementWidth,
		ElementHeight:  c.ElementHeight,
		Lattice: mesh.LatticeOptions{
			Neighborhood: c.Neighborhood,
			PeriodicX:    c.Periodic,
			PeriodicY:    c.Periodic,
		},
	}
}

// ToMap renders the config back into FromMap keys.
func (c Config) ToMap() map[string]string {
	return map[string]string{
		"w":               strconv.Itoa(c.Width),
		"h":               strconv.Itoa(c.Height),
		"seed":            strconv.FormatInt(c.Seed, 10),
		"neighborhood":    c.Neighborhood.String(),
		"periodic":        strconv.FormatBool(c.Periodic),
		"element_width":   strconv.Itoa(c.ElementWidth),
		"element_height":  strconv.Itoa(c.ElementHeight),
		"elements_across": strconv.Itoa(c.ElementsAcross),
		"elements_up":     strconv.Itoa(c.ElementsUp),
		"dt":              strconv.FormatFloat(c.Dt, 'g', -1, 64),
		"lambda_volume":   strconv.FormatFloat(c.Params.LambdaVolume, 'g', -1, 64),
		"target_volume":   strconv.FormatFloat(c.Params.TargetVolume, 'g', -1, 64),
		"lambda_contact":  strconv.FormatFloat(c.Params.LambdaContact, 'g', -1, 64),
		"temperature":     strconv.FormatFloat(c.Params.Temperature, 'g', -1, 64),
		"reap_empty":      strconv.FormatBool(c.Params.ReapEmptyElements),
	}
}

// NewFromConfig builds the block-seeded lattice described by cfg and pairs a
// fresh cell with every element. Options are applied after the validation and
// parameter options derived from cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Population, error) {
	m, err := mesh.NewBlockMesh(cfg.BlockOptions())
	if err != nil {
		return nil, err
	}
	return New(m, NewCells(m.NumAllElements()), append([]Option{WithValidation(), WithParams(cfg.Params)}, opts...)...)
}
