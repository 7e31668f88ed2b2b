// Package d3d11 implements gd.Device for Direct3D 11.
//
// Resources created with CPU access are mapped directly. Everything else is
// read through a cached staging texture or staging buffer, synchronized with
// an event query, and written with UpdateSubresource.
//
// The native layer is described by the Device and Context interfaces in
// this package. On windows a COM implementation wraps a raw ID3D11Device
// pointer; tests and hosts with their own bindings can supply any
// implementation of Device instead.
//
// Importing the package registers the backend for gd.DeviceD3D11:
//
//	import _ "github.com/NuttawutSanuk/gd/backend/d3d11"
//
//	dev, err := gd.New(gd.DeviceD3D11, unsafe.Pointer(d3dDevice))
package d3d11
