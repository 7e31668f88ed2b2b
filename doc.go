// Package gd provides CPU access to GPU textures and buffers behind one
// backend-agnostic contract.
//
// # Overview
//
// A host that already owns a native graphics device (D3D11, D3D9, a
// WebGPU-class HAL device, or none yet for Vulkan) wraps it in a [Device]
// and then copies pixels and buffer elements between CPU memory and GPU
// resources without knowing which API is underneath:
//
//	import (
//	    "github.com/NuttawutSanuk/gd"
//	    _ "github.com/NuttawutSanuk/gd/backend/all"
//	)
//
//	dev, err := gd.CreateDevice(gd.DeviceD3D11, nativeDevicePtr)
//	if err != nil {
//	    return err
//	}
//	defer gd.ReleaseDevice()
//
//	pixels := make([]byte, w*h*gd.ElementSize(gd.RGBAu8))
//	err = dev.ReadTexture(pixels, gd.TextureHandle(texPtr), w, h, gd.RGBAu8)
//
// # Backends
//
// Backends register a [Factory] from init, following the same pattern as
// database/sql drivers. Import the backend packages you need, or
// backend/all for every one of them:
//
//   - backend/d3d11: Direct3D 11 (windows)
//   - backend/d3d9: Direct3D 9 (windows)
//   - backend/webgpu: gogpu/wgpu HAL devices (Vulkan, Metal, DX12, GLES)
//   - backend/vulkan: placeholder that reports [ErrNotAvailable]
//
// # Errors
//
// Every operation returns one of the sentinel errors ([ErrUnknown],
// [ErrNotAvailable], [ErrInvalidParameter], [ErrOutOfMemory],
// [ErrInaccessibleFromCPU]), possibly wrapped with the native cause. Hosts
// that need the integer result code use [CodeOf].
//
// # Threading
//
// A single adapter is not safe for concurrent use; the staging caches and
// the native immediate context are shared mutable state. The process-wide
// slot ([CreateDevice], [GetDevice], [ReleaseDevice]) and the factory
// registry are guarded.
package gd
