package d3d11

import "errors"

// Native-layer errors, wrapped together with a gd sentinel.
var (
	// ErrNoDevice is returned for a nil or unusable native device.
	ErrNoDevice = errors.New("d3d11: no device")

	// ErrNotD3D11 is returned when a raw pointer does not implement
	// ID3D11Device.
	ErrNotD3D11 = errors.New("d3d11: pointer is not an ID3D11Device")

	// ErrUnsupportedFormat is returned for formats without a DXGI mapping.
	ErrUnsupportedFormat = errors.New("d3d11: unsupported format")

	// ErrStagingCreate is returned when a staging resource cannot be created.
	ErrStagingCreate = errors.New("d3d11: staging resource creation failed")

	// ErrMap is returned when Map fails or returns too little memory.
	ErrMap = errors.New("d3d11: map failed")

	// ErrTooLarge is returned when a transfer exceeds the native resource.
	ErrTooLarge = errors.New("d3d11: transfer exceeds resource size")

	// ErrQuery is returned when the event query cannot be created or polled.
	ErrQuery = errors.New("d3d11: event query failed")
)
