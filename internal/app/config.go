package app

import (
	"flag"
	"fmt"
	"strings"
)

// Config captures the command-line options shared by the potts commands.
type Config struct {
	Sim        string
	Scale      int
	TPS        int
	Seed       int64
	ConfigFile string

	OutDir        string
	RunName       string
	Clean         bool
	Movie         bool
	Trace         bool
	Database      string
	ProgressEvery int

	// Overrides holds -set key=value pairs; they win over the run file and the
	// environment.
	Overrides map[string]string

	seedSet bool
}

// NewConfig returns the defaults used by the viewers and the headless runner.
func NewConfig() *Config {
	return &Config{
		Sim:       "potts",
		Scale:     6,
		TPS:       30,
		Seed:      1,
		OutDir:    "runs",
		Overrides: map[string]string{},
	}
}

// Bind registers the options on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per lattice site")
	fs.IntVar(&c.TPS, "tps", c.TPS, "sweeps per second in the viewers")
	fs.Func("seed", fmt.Sprintf("random seed (default %d)", c.Seed), func(s string) error {
		var seed int64
		if _, err := fmt.Sscan(s, &seed); err != nil {
			return fmt.Errorf("seed %q: %w", s, err)
		}
		c.Seed = seed
		c.seedSet = true
		return nil
	})
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "run file (toml, yaml or json)")
	fs.StringVar(&c.OutDir, "out", c.OutDir, "parent directory for run output")
	fs.StringVar(&c.RunName, "name", c.RunName, "run directory name under -out (default run-<uuid>)")
	fs.BoolVar(&c.Clean, "clean", c.Clean, "remove files left in the run directory by an earlier run")
	fs.BoolVar(&c.Movie, "movie", c.Movie, "write an MJPEG movie of the lattice")
	fs.BoolVar(&c.Trace, "trace", c.Trace, "write a PNG trace of cell count and mean volume")
	fs.StringVar(&c.Database, "db", c.Database, "sqlite database recording run summaries")
	fs.IntVar(&c.ProgressEvery, "progress", c.ProgressEvery, "log progress every n steps (0 disables)")
	fs.Func("set", "override a setting, key=value (repeatable)", func(s string) error {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("set %q: want key=value", s)
		}
		if c.Overrides == nil {
			c.Overrides = map[string]string{}
		}
		c.Overrides[key] = strings.TrimSpace(value)
		return nil
	})
}

// RunDirName returns the directory name for a run: -name when given,
// otherwise one derived from runID.
func (c *Config) RunDirName(runID string) string {
	if c.RunName != "" {
		return c.RunName
	}
	return "run-" + runID
}

// Settings resolves the flat key/value settings for a run: defaults, then the
// run file, then POTTS_* environment variables, then -set overrides and -seed.
func (c *Config) Settings() (map[string]string, error) {
	settings, err := LoadSettings(c.ConfigFile)
	if err != nil {
		return nil, err
	}
	for k, v := range c.Overrides {
		settings[k] = v
	}
	if c.seedSet {
		settings["seed"] = fmt.Sprint(c.Seed)
	}
	return settings, nil
}
