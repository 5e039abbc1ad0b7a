package socket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/gousb"
)

const (
	// Tester-board USB identifiers
	VendorIDRaspberryPi = 0x2E8A
	ProductIDPicoICT    = 0x10C5

	// Default packet size for the tester protocol; the real size comes from
	// the endpoint descriptor.
	DefaultPacketSize = 64
	DefaultTimeout    = 5 * time.Second

	// Command opcodes
	cmdInfo    = 0x00
	cmdSetMode = 0x01
	cmdRead    = 0x02

	statusOK = 0x00
)

// USBSocket drives a tester board over USB. The board exposes a vendor-class
// interface with one bulk endpoint pair and speaks fixed-size command frames:
// byte 0 is the opcode, byte 1 the channel, byte 2 the mode; responses carry
// a status byte followed by the payload.
type USBSocket struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	intf *gousb.Interface

	epOut *gousb.OutEndpoint
	epIn  *gousb.InEndpoint

	packetSize int
	timeout    time.Duration

	vid uint16
	pid uint16
}

// NewUSBSocket opens the tester board with the given VID/PID and claims its
// vendor interface. A non-empty serial pins the open to one specific board
// when several are connected.
func NewUSBSocket(vid, pid uint16, serial string) (*USBSocket, error) {
	ctx := gousb.NewContext()

	dev, err := openBoard(ctx, vid, pid, serial)
	if err != nil {
		ctx.Close()
		return nil, err
	}

	// Auto-detach the kernel driver where the platform supports it.
	_ = dev.SetAutoDetach(true)

	s := &USBSocket{
		ctx:        ctx,
		dev:        dev,
		packetSize: DefaultPacketSize,
		timeout:    DefaultTimeout,
		vid:        vid,
		pid:        pid,
	}

	if err := s.claimInterface(); err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}

	return s, nil
}

// openBoard opens a device matching the VID/PID. With a serial it walks
// every match and keeps the board whose serial number agrees.
func openBoard(ctx *gousb.Context, vid, pid uint16, serial string) (*gousb.Device, error) {
	if serial == "" {
		dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
		if err != nil {
			return nil, fmt.Errorf("socket: USB error: %w", err)
		}
		if dev == nil {
			return nil, fmt.Errorf("socket: device not found (VID:0x%04X PID:0x%04X)", vid, pid)
		}
		return dev, nil
	}

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == gousb.ID(vid) && desc.Product == gousb.ID(pid)
	})
	if err != nil {
		for _, d := range devs {
			d.Close()
		}
		return nil, fmt.Errorf("socket: USB error: %w", err)
	}

	var match *gousb.Device
	for _, d := range devs {
		if match == nil {
			if sn, err := d.SerialNumber(); err == nil && sn == serial {
				match = d
				continue
			}
		}
		d.Close()
	}
	if match == nil {
		return nil, fmt.Errorf("socket: no board with serial %q (VID:0x%04X PID:0x%04X)", serial, vid, pid)
	}
	return match, nil
}

// claimInterface finds and claims the tester's vendor-class interface.
func (s *USBSocket) claimInterface() error {
	cfg, err := s.dev.Config(1)
	if err != nil {
		return fmt.Errorf("socket: failed to get config: %w", err)
	}

	vendorIntfNum := -1
	for _, intf := range cfg.Desc.Interfaces {
		if len(intf.AltSettings) > 0 {
			if intf.AltSettings[0].Class == gousb.ClassVendorSpec {
				vendorIntfNum = intf.Number
				break
			}
		}
	}
	if vendorIntfNum == -1 {
		vendorIntfNum = 0
	}

	intf, err := cfg.Interface(vendorIntfNum, 0)
	if err != nil {
		return fmt.Errorf("socket: failed to claim interface %d: %w", vendorIntfNum, err)
	}
	s.intf = intf

	if err := s.findEndpoints(); err != nil {
		intf.Close()
		return err
	}
	return nil
}

// findEndpoints discovers the bulk IN and OUT endpoints.
func (s *USBSocket) findEndpoints() error {
	setting := s.intf.Setting

	var outAddr, inAddr int
	for _, ep := range setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		switch ep.Direction {
		case gousb.EndpointDirectionOut:
			if outAddr == 0 {
				outAddr = ep.Number
			}
		case gousb.EndpointDirectionIn:
			if inAddr == 0 {
				inAddr = ep.Number
				if ep.MaxPacketSize > 0 {
					s.packetSize = ep.MaxPacketSize
				}
			}
		}
	}

	if outAddr == 0 {
		return fmt.Errorf("socket: bulk OUT endpoint not found")
	}
	if inAddr == 0 {
		return fmt.Errorf("socket: bulk IN endpoint not found")
	}

	epOut, err := s.intf.OutEndpoint(outAddr)
	if err != nil {
		return fmt.Errorf("socket: failed to open OUT endpoint: %w", err)
	}
	s.epOut = epOut

	epIn, err := s.intf.InEndpoint(inAddr)
	if err != nil {
		return fmt.Errorf("socket: failed to open IN endpoint: %w", err)
	}
	s.epIn = epIn

	return nil
}

// transact performs one command/response exchange. Frames are padded to the
// endpoint packet size.
func (s *USBSocket) transact(cmd []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	packet := make([]byte, s.packetSize)
	copy(packet, cmd)

	if _, err := s.epOut.WriteContext(ctx, packet); err != nil {
		return nil, fmt.Errorf("socket: USB write failed: %w", err)
	}

	resp := make([]byte, s.packetSize)
	n, err := s.epIn.ReadContext(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("socket: USB read failed: %w", err)
	}
	if n < 1 {
		return nil, fmt.Errorf("socket: empty response")
	}
	if resp[0] != statusOK {
		return nil, fmt.Errorf("socket: board reported status 0x%02X", resp[0])
	}
	return resp[:n], nil
}

func (s *USBSocket) Info() (DriverInfo, error) {
	resp, err := s.transact([]byte{cmdInfo})
	if err != nil {
		return DriverInfo{}, err
	}

	info := DriverInfo{
		Name:     "USB tester",
		Channels: TotalChannels,
		Notes:    fmt.Sprintf("bus %d address %d", s.dev.Desc.Bus, s.dev.Desc.Address),
	}
	if len(resp) >= 3 {
		info.Firmware = fmt.Sprintf("%d.%d", resp[1], resp[2])
	}
	if serial, err := s.dev.SerialNumber(); err == nil {
		info.SerialNumber = serial
	}
	if product, err := s.dev.Product(); err == nil {
		info.Model = product
	}
	if manufacturer, err := s.dev.Manufacturer(); err == nil {
		info.Vendor = manufacturer
	}
	return info, nil
}

func (s *USBSocket) SetMode(channel int, m Mode) error {
	if err := ValidateChannel(channel); err != nil {
		return err
	}
	_, err := s.transact([]byte{cmdSetMode, byte(channel), byte(m)})
	return err
}

func (s *USBSocket) Read(channel int) (bool, error) {
	if err := ValidateChannel(channel); err != nil {
		return false, err
	}
	resp, err := s.transact([]byte{cmdRead, byte(channel)})
	if err != nil {
		return false, err
	}
	if len(resp) < 2 {
		return false, fmt.Errorf("socket: short read response")
	}
	return resp[1] != 0, nil
}

// SetTimeout sets the transaction timeout.
func (s *USBSocket) SetTimeout(timeout time.Duration) {
	s.timeout = timeout
}

// Close releases USB resources.
func (s *USBSocket) Close() error {
	if s.intf != nil {
		s.intf.Close()
		s.intf = nil
	}
	if s.dev != nil {
		s.dev.Close()
		s.dev = nil
	}
	if s.ctx != nil {
		s.ctx.Close()
		s.ctx = nil
	}
	return nil
}
