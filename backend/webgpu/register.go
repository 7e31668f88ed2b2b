package webgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/NuttawutSanuk/gd"
)

func init() {
	gd.Register(gd.DeviceWebGPU, Open)
}

// HALProvider is implemented by hosts that expose their HAL device and
// queue, returning hal.Device and hal.Queue.
type HALProvider interface {
	HalDevice() any
	HalQueue() any
}

// HAL is a native value carrying a HAL device and queue directly.
type HAL struct {
	Device hal.Device
	Queue  hal.Queue
}

// Open is the gd.Factory for WebGPU. native is a Device implementation, a
// HAL value or a HALProvider. A gpucontext.DeviceProvider without HAL
// access is rejected with ErrNotHALProvider.
func Open(native any, cfg gd.Config) (gd.Device, error) {
	switch n := native.(type) {
	case nil:
		return nil, fmt.Errorf("%w: %w", gd.ErrInvalidParameter, ErrNoDevice)
	case Device:
		return NewAdapter(n, nil, cfg)
	case HAL:
		return openHAL(n.Device, n.Queue, native, cfg)
	case *HAL:
		if n == nil {
			return nil, fmt.Errorf("%w: %w", gd.ErrInvalidParameter, ErrNoDevice)
		}
		return openHAL(n.Device, n.Queue, native, cfg)
	case HALProvider:
		device, ok := n.HalDevice().(hal.Device)
		if !ok {
			return nil, fmt.Errorf("%w: %w: HalDevice is %T", gd.ErrInvalidParameter, ErrNotHALProvider, n.HalDevice())
		}
		queue, ok := n.HalQueue().(hal.Queue)
		if !ok {
			return nil, fmt.Errorf("%w: %w: HalQueue is %T", gd.ErrInvalidParameter, ErrNotHALProvider, n.HalQueue())
		}
		return openHAL(device, queue, native, cfg)
	case gpucontext.DeviceProvider:
		return nil, fmt.Errorf("%w: %w: %T has no HalDevice", gd.ErrInvalidParameter, ErrNotHALProvider, native)
	}
	return nil, fmt.Errorf("%w: %w: %T", gd.ErrInvalidParameter, ErrNotHALProvider, native)
}

func openHAL(device hal.Device, queue hal.Queue, native any, cfg gd.Config) (gd.Device, error) {
	hd, err := NewHALDevice(device, queue)
	if err != nil {
		if device == nil || queue == nil {
			return nil, fmt.Errorf("%w: %w", gd.ErrInvalidParameter, err)
		}
		return nil, fmt.Errorf("%w: webgpu: %w", gd.ErrUnknown, err)
	}
	a, err := NewAdapter(hd, native, cfg)
	if err != nil {
		hd.Destroy()
		return nil, err
	}
	a.onRelease = hd.Destroy
	return a, nil
}
