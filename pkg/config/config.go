// Package config loads the optional ict.yaml run configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceICT/pkg/probe"
)

// DefaultPath is where the CLI looks for a configuration file when none is
// given on the command line.
const DefaultPath = "ict.yaml"

// Config captures everything the CLI needs to run without flags.
type Config struct {
	// CatalogPath points at the chip database stream.
	CatalogPath string `yaml:"catalog"`
	// Driver selects the channel driver: "sim" or "usb".
	Driver string `yaml:"driver"`
	// ProbeSerial pins the USB driver to a specific board.
	ProbeSerial string `yaml:"probe_serial"`
	// PulseWidthUS and SettleTimeUS override the vector timing, in
	// microseconds. Zero keeps the default.
	PulseWidthUS int `yaml:"pulse_width_us"`
	SettleTimeUS int `yaml:"settle_time_us"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CatalogPath: "data/chipdb.ict",
		Driver:      "sim",
	}
}

// Load reads a configuration file. A missing file is not an error: the
// defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Timing resolves the configured vector timing, falling back to the probe
// defaults for unset fields.
func (c Config) Timing() probe.Timing {
	t := probe.DefaultTiming
	if c.PulseWidthUS > 0 {
		t.PulseWidth = time.Duration(c.PulseWidthUS) * time.Microsecond
	}
	if c.SettleTimeUS > 0 {
		t.SettleTime = time.Duration(c.SettleTimeUS) * time.Microsecond
	}
	return t
}
