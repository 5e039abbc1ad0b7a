package socket

import (
	"context"
	"fmt"

	"github.com/google/gousb"
)

// ProbeKind categorizes tester-board families.
type ProbeKind string

const (
	ProbeKindPico    ProbeKind = "pico-ict"
	ProbeKindUSBTest ProbeKind = "usb-ict"
	ProbeKindSim     ProbeKind = "simulator"
	ProbeKindUnknown ProbeKind = "unknown"
)

// ProbeInfo describes a detected tester board.
type ProbeInfo struct {
	Kind        ProbeKind
	Description string
	VendorID    uint16
	ProductID   uint16
	Serial      string
}

// Label returns a user-friendly description for the probe.
func (p ProbeInfo) Label() string {
	if p.Description != "" {
		return p.Description
	}
	if p.Kind != "" {
		return fmt.Sprintf("%s (%04X:%04X)", string(p.Kind), p.VendorID, p.ProductID)
	}
	return fmt.Sprintf("Probe %04X:%04X", p.VendorID, p.ProductID)
}

// DiscoverProbes enumerates connected tester boards that match known VID/PID
// pairs. It always returns at least the simulator entry so every command can
// be exercised without hardware connected.
func DiscoverProbes(ctx context.Context) ([]ProbeInfo, error) {
	var results []ProbeInfo
	usb := gousb.NewContext()
	defer usb.Close()

	_, err := usb.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		if info, ok := classifyUSBDevice(desc); ok {
			results = append(results, info)
		}
		return false
	})
	if err != nil && err != gousb.ErrorAccess {
		return results, err
	}

	results = append(results, ProbeInfo{
		Kind:        ProbeKindSim,
		Description: "Simulator (no hardware)",
	})

	return results, nil
}

func classifyUSBDevice(desc *gousb.DeviceDesc) (ProbeInfo, bool) {
	for _, known := range knownProbeVIDPIDs {
		if uint16(desc.Vendor) == known.VendorID && uint16(desc.Product) == known.ProductID {
			return ProbeInfo{
				Kind:        known.Kind,
				Description: known.Description,
				VendorID:    known.VendorID,
				ProductID:   known.ProductID,
			}, true
		}
	}
	return ProbeInfo{}, false
}

type knownUSBDevice struct {
	Kind        ProbeKind
	VendorID    uint16
	ProductID   uint16
	Description string
}

var knownProbeVIDPIDs = []knownUSBDevice{
	{Kind: ProbeKindPico, VendorID: VendorIDRaspberryPi, ProductID: ProductIDPicoICT, Description: "Pico IC tester"},
	{Kind: ProbeKindUSBTest, VendorID: 0x16C0, ProductID: 0x05DC, Description: "V-USB IC tester"},
}
