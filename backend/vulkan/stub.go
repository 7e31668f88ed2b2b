package vulkan

import (
	"fmt"

	"github.com/NuttawutSanuk/gd"
)

func init() {
	gd.Register(gd.DeviceVulkan, Open)
}

// Stub implements gd.Device with no capabilities.
type Stub struct{}

var _ gd.Device = Stub{}

// Open is the gd.Factory for Vulkan. native is ignored and may be nil.
func Open(any, gd.Config) (gd.Device, error) {
	return Stub{}, nil
}

func (Stub) DevicePtr() any      { return nil }
func (Stub) Type() gd.DeviceType { return gd.DeviceVulkan }
func (Stub) Sync()               {}
func (Stub) Release()            {}

func (Stub) ReadTexture([]byte, gd.TextureHandle, int, int, gd.TextureFormat) error {
	return notAvailable("texture read")
}

func (Stub) WriteTexture(gd.TextureHandle, int, int, gd.TextureFormat, []byte) error {
	return notAvailable("texture write")
}

func (Stub) ReadBuffer([]byte, gd.BufferHandle, gd.BufferRole) error {
	return notAvailable("buffer read")
}

func (Stub) WriteBuffer(gd.BufferHandle, []byte, gd.BufferRole) error {
	return notAvailable("buffer write")
}

func notAvailable(op string) error {
	return fmt.Errorf("%w: vulkan: %s", gd.ErrNotAvailable, op)
}
