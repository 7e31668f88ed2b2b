package d3d9

import (
	"fmt"

	"github.com/NuttawutSanuk/gd"
)

func init() {
	gd.Register(gd.DeviceD3D9, Open)
}

// Open is the gd.Factory for Direct3D 9. native is either a Device
// implementation or a raw IDirect3DDevice9 pointer (uintptr or
// unsafe.Pointer).
func Open(native any, cfg gd.Config) (gd.Device, error) {
	if dev, ok := native.(Device); ok {
		return NewAdapter(dev, nil, cfg)
	}
	ptr := gd.NativePointer(native)
	if ptr == 0 {
		return nil, fmt.Errorf("%w: %w", gd.ErrInvalidParameter, ErrNoDevice)
	}
	dev, err := openNative(ptr)
	if err != nil {
		return nil, err
	}
	return NewAdapter(dev, native, cfg)
}
