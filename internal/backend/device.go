package backend

import "fmt"

// DeviceType is the kind of hardware a device handle refers to.
type DeviceType int

// Supported device types.
const (
	CPU DeviceType = iota
	GPU
)

// String returns a human-readable device name.
func (d DeviceType) String() string {
	switch d {
	case CPU:
		return "CPU"
	case GPU:
		return "GPU"
	default:
		return "Unknown"
	}
}

// Device is the engine/device handle passed to kernels at construction and
// on every call. It carries no memory; placement is owned elsewhere.
type Device struct {
	typ    DeviceType
	id     int
	engine Engine
}

// NewDevice returns a CPU device handle bound to engine.
func NewDevice(engine Engine) *Device {
	return &Device{typ: CPU, engine: engine}
}

// Type returns the device type.
func (d *Device) Type() DeviceType {
	return d.typ
}

// ID returns the device ordinal.
func (d *Device) ID() int {
	return d.id
}

// Engine returns the engine the device executes with.
func (d *Device) Engine() Engine {
	return d.engine
}

// String implements fmt.Stringer.
func (d *Device) String() string {
	return fmt.Sprintf("%s:%d(%s)", d.typ, d.id, d.engine)
}
