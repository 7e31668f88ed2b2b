package gd

import (
	"strconv"
	"unsafe"
)

// DeviceType identifies the native graphics API behind a Device.
type DeviceType int

// Device types. The order of the first seven matches the numeric ABI.
const (
	DeviceUnknown DeviceType = iota
	DeviceD3D9
	DeviceD3D11
	DeviceD3D12  // no backend
	DeviceOpenGL // no backend
	DeviceVulkan // placeholder backend
	DevicePS4    // no backend
	DeviceWebGPU
)

var deviceTypeNames = [...]string{
	DeviceUnknown: "Unknown",
	DeviceD3D9:    "D3D9",
	DeviceD3D11:   "D3D11",
	DeviceD3D12:   "D3D12",
	DeviceOpenGL:  "OpenGL",
	DeviceVulkan:  "Vulkan",
	DevicePS4:     "PS4",
	DeviceWebGPU:  "WebGPU",
}

func (t DeviceType) String() string {
	if t >= 0 && int(t) < len(deviceTypeNames) {
		return deviceTypeNames[t]
	}
	return "DeviceType(" + strconv.Itoa(int(t)) + ")"
}

// BufferRole tells a backend how a buffer is bound, so it can pick a
// matching staging slot.
type BufferRole int

const (
	BufferIndex BufferRole = iota
	BufferVertex
	BufferConstant
	BufferCompute

	// NumBufferRoles is the number of valid roles.
	NumBufferRoles
)

var bufferRoleNames = [...]string{
	BufferIndex:    "index",
	BufferVertex:   "vertex",
	BufferConstant: "constant",
	BufferCompute:  "compute",
}

// Valid reports whether r is one of the defined roles.
func (r BufferRole) Valid() bool { return r >= 0 && r < NumBufferRoles }

func (r BufferRole) String() string {
	if r.Valid() {
		return bufferRoleNames[r]
	}
	return "BufferRole(" + strconv.Itoa(int(r)) + ")"
}

// TextureHandle is an opaque native texture handle (ID3D11Texture2D*,
// IDirect3DTexture9*, or an ID issued by a backend). Zero is null.
type TextureHandle uintptr

// BufferHandle is an opaque native buffer handle. Zero is null.
type BufferHandle uintptr

// Device copies data between CPU memory and the textures and buffers of one
// native graphics device.
//
// A Device never owns the resources passed to it; it only observes their
// handles. It owns its staging resources and releases them in Release.
// A Device is not safe for concurrent use.
type Device interface {
	// DevicePtr returns the native device the adapter was created with,
	// or nil for the placeholder backend.
	DevicePtr() any

	// Type returns the device type the adapter implements.
	Type() DeviceType

	// Sync blocks until all GPU work issued so far against the device has
	// completed. There is no timeout.
	Sync()

	// ReadTexture copies width*height*ElementSize(format) bytes from src
	// into dst, removing any row padding.
	ReadTexture(dst []byte, src TextureHandle, width, height int, format TextureFormat) error

	// WriteTexture copies src into dst. len(src) may cover fewer than
	// height rows; a partial last row is written as far as it goes.
	WriteTexture(dst TextureHandle, width, height int, format TextureFormat, src []byte) error

	// ReadBuffer copies len(dst) bytes from the start of src.
	ReadBuffer(dst []byte, src BufferHandle, role BufferRole) error

	// WriteBuffer copies src to the start of dst.
	WriteBuffer(dst BufferHandle, src []byte, role BufferRole) error

	// Release frees the adapter's staging resources and synchronization
	// objects. It is safe to call more than once.
	Release()
}

// NativePointer normalizes a native handle passed as uintptr,
// unsafe.Pointer or any value with a Pointer() uintptr method. It returns
// 0 for nil and for values of any other type.
func NativePointer(native any) uintptr {
	switch p := native.(type) {
	case nil:
		return 0
	case uintptr:
		return p
	case unsafe.Pointer:
		return uintptr(p)
	case interface{ Pointer() uintptr }:
		return p.Pointer()
	}
	return 0
}

// TextureSize returns width*height*ElementSize(format), or 0 when any
// factor is not positive.
func TextureSize(width, height int, format TextureFormat) int {
	es := ElementSize(format)
	if width <= 0 || height <= 0 || es == 0 {
		return 0
	}
	return width * height * es
}
