package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"potts-ca/internal/potts"
	"potts-ca/internal/simulation"
)

// EnvPrefix prefixes environment overrides, e.g. POTTS_TEMPERATURE.
const EnvPrefix = "POTTS"

// run length defaults, in the same key space as potts.FromMap
var runDefaults = map[string]string{
	"steps":        "100",
	"output_every": "1",
}

// LoadSettings reads an optional run file and POTTS_* environment variables on
// top of the defaults and flattens the result into FromMap keys. An empty path
// skips the file; a path that cannot be read is an error.
func LoadSettings(path string) (map[string]string, error) {
	v := viper.New()
	defaults := potts.DefaultConfig().ToMap()
	for k, val := range runDefaults {
		defaults[k] = val
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read run file %s: %w", path, err)
		}
	}

	settings := make(map[string]string, len(defaults))
	for k := range defaults {
		settings[k] = v.GetString(k)
	}
	return settings, nil
}

// RunConfig extracts the run length settings. Malformed or non-positive
// values keep the defaults.
func RunConfig(settings map[string]string) simulation.Config {
	cfg := simulation.Config{Steps: 100, OutputEvery: 1}
	if v, err := strconv.Atoi(settings["steps"]); err == nil && v >= 0 {
		cfg.Steps = v
	}
	if v, err := strconv.Atoi(settings["output_every"]); err == nil && v > 0 {
		cfg.OutputEvery = v
	}
	return cfg
}
