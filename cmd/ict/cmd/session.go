package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceICT/pkg/catalog"
	"github.com/OpenTraceLab/OpenTraceICT/pkg/config"
	"github.com/OpenTraceLab/OpenTraceICT/pkg/probe"
	"github.com/OpenTraceLab/OpenTraceICT/pkg/socket"
)

// loadConfig resolves the effective configuration: file first, flags win.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if catalogPath != "" {
		cfg.CatalogPath = catalogPath
	}
	if driverType != "" {
		cfg.Driver = driverType
	}
	return cfg, nil
}

// newSession builds a probe session from the effective configuration. The
// returned closer releases driver resources.
func newSession() (*probe.Session, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	if verbose {
		fmt.Printf("Loading chip database from: %s\n", cfg.CatalogPath)
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load chip database: %w", err)
	}

	drv, closer, err := createDriver(cfg, cat)
	if err != nil {
		return nil, nil, err
	}

	return probe.NewSession(cat, drv, cfg.Timing()), closer, nil
}

func createDriver(cfg config.Config, cat *catalog.Catalog) (socket.Driver, func(), error) {
	switch cfg.Driver {
	case "", "sim", "simulator":
		sim := socket.NewSimSocket()
		if simChip != "" {
			if err := insertSimChip(sim, cat, simChip); err != nil {
				return nil, nil, err
			}
		}
		return sim, func() {}, nil

	case "usb":
		usb, err := socket.NewUSBSocket(socket.VendorIDRaspberryPi, socket.ProductIDPicoICT, cfg.ProbeSerial)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open tester board: %w", err)
		}
		return usb, func() { usb.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown driver type: %s", cfg.Driver)
	}
}

// insertSimChip wires the simulator's read hook to model the named part.
func insertSimChip(sim *socket.SimSocket, cat *catalog.Catalog, name string) error {
	cur, ok := cat.Find(name)
	if !ok {
		return fmt.Errorf("sim-chip %q not in the chip database", name)
	}
	rec, _ := cat.Record(cur)
	layout, err := socket.LayoutFor(rec.Pins)
	if err != nil {
		return err
	}
	hook, ok := socket.ScenarioFor(rec.Name, layout)
	if !ok {
		return fmt.Errorf("no simulator model for %q", rec.Name)
	}
	sim.OnRead = hook
	return nil
}
