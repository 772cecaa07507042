// Package respeaker drives the LED ring on a ReSpeaker USB microphone
// array through vendor control transfers.
//
// The device exposes its LED registers as (wIndex, wValue) parameter
// pairs written with request type vendor/device/out. The USB handle is
// not safe for overlapping transfers; callers must serialize access.
package respeaker

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/gousb"
)

// USB identity of the ReSpeaker microphone array.
const (
	VendorID  gousb.ID = 0x2886
	ProductID gousb.ID = 0x001A
)

// Effect selects the firmware LED animation.
type Effect uint8

const (
	// EffectOff turns the ring off.
	EffectOff Effect = 0

	// EffectBreath pulses the ring in the configured color.
	EffectBreath Effect = 1

	// EffectDoA is the vendor's ambient direction-of-arrival
	// animation that follows the active speaker.
	EffectDoA Effect = 4
)

// Brightness and speed presets used by the LED service.
const (
	ActiveBrightness  uint8 = 200 // emotion animations
	AmbientBrightness uint8 = 128 // DoA idle mode
	DefaultSpeed      uint8 = 8   // 1-20, higher is faster
)

// ErrDeviceNotFound is returned when no ReSpeaker is connected.
var ErrDeviceNotFound = errors.New("respeaker: device not found")

// param addresses one LED register on the device.
type param struct {
	index uint16 // wIndex
	value uint16 // wValue
}

var (
	paramEffect     = param{20, 12}
	paramBrightness = param{20, 13}
	paramGammify    = param{20, 14}
	paramSpeed      = param{20, 15}
	paramColor      = param{20, 16}
)

// Ring is the LED control surface. The production implementation talks
// USB; tests substitute a fake.
type Ring interface {
	SetEffect(e Effect) error
	SetBrightness(level uint8) error
	SetGammify(enabled bool) error
	SetSpeed(speed uint8) error
	SetColor(rgb uint32) error
	Close() error
}

// Open finds the ReSpeaker and returns a handle to its LED ring.
// Returns ErrDeviceNotFound when the device is absent.
func Open() (Ring, error) {
	usb := gousb.NewContext()

	dev, err := usb.OpenDeviceWithVIDPID(VendorID, ProductID)
	if err != nil {
		usb.Close()
		return nil, fmt.Errorf("respeaker: open device: %w", err)
	}
	if dev == nil {
		usb.Close()
		return nil, ErrDeviceNotFound
	}

	// The kernel may hold the HID interface; control transfers still
	// need the device released on Linux.
	_ = dev.SetAutoDetach(true)

	return &ring{usb: usb, dev: dev}, nil
}

// ring is the gousb-backed Ring.
type ring struct {
	usb *gousb.Context
	dev *gousb.Device
}

func (r *ring) SetEffect(e Effect) error {
	return r.control(paramEffect, u8(uint8(e)))
}

func (r *ring) SetBrightness(level uint8) error {
	return r.control(paramBrightness, u8(level))
}

func (r *ring) SetGammify(enabled bool) error {
	v := uint8(0)
	if enabled {
		v = 1
	}
	return r.control(paramGammify, u8(v))
}

func (r *ring) SetSpeed(speed uint8) error {
	return r.control(paramSpeed, u8(speed))
}

func (r *ring) SetColor(rgb uint32) error {
	return r.control(paramColor, u32(rgb))
}

// Close releases the USB device and context.
func (r *ring) Close() error {
	devErr := r.dev.Close()
	usbErr := r.usb.Close()
	if devErr != nil {
		return fmt.Errorf("respeaker: close device: %w", devErr)
	}
	if usbErr != nil {
		return fmt.Errorf("respeaker: close context: %w", usbErr)
	}
	return nil
}

// control performs one vendor control transfer.
func (r *ring) control(p param, payload []byte) error {
	rType := uint8(gousb.ControlOut | gousb.ControlVendor | gousb.ControlDevice)
	if _, err := r.dev.Control(rType, 0, p.value, p.index, payload); err != nil {
		return fmt.Errorf("respeaker: control transfer (index %d, value %d): %w", p.index, p.value, err)
	}
	return nil
}

// u8 encodes a single-byte register payload.
func u8(v uint8) []byte {
	return []byte{v}
}

// u32 encodes a little-endian 32-bit register payload.
func u32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}

// Breathe configures the breathing animation in the given color.
// Register write order matches the vendor examples.
func Breathe(r Ring, rgb uint32, speed, brightness uint8) error {
	steps := []func() error{
		func() error { return r.SetGammify(true) },
		func() error { return r.SetEffect(EffectBreath) },
		func() error { return r.SetColor(rgb) },
		func() error { return r.SetSpeed(speed) },
		func() error { return r.SetBrightness(brightness) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// Ambient returns the ring to the DoA idle animation.
func Ambient(r Ring) error {
	if err := r.SetEffect(EffectDoA); err != nil {
		return err
	}
	return r.SetBrightness(AmbientBrightness)
}
