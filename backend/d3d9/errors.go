package d3d9

import "errors"

// Native-layer errors, wrapped together with a gd sentinel.
var (
	ErrNoDevice          = errors.New("d3d9: no device")
	ErrNotD3D9           = errors.New("d3d9: pointer is not an IDirect3DDevice9")
	ErrUnsupportedFormat = errors.New("d3d9: unsupported format")
	ErrStagingCreate     = errors.New("d3d9: offscreen surface creation failed")
	ErrSurface           = errors.New("d3d9: surface access failed")
	ErrLock              = errors.New("d3d9: lock failed")
	ErrCopy              = errors.New("d3d9: surface copy failed")
	ErrQuery             = errors.New("d3d9: event query failed")
)
