package webgpu

import "errors"

// Package errors for the webgpu backend.
var (
	// ErrNoDevice is returned when no HAL device or queue is supplied.
	ErrNoDevice = errors.New("webgpu: no device")

	// ErrNotHALProvider is returned when the native value exposes no HAL
	// device and queue.
	ErrNotHALProvider = errors.New("webgpu: native value is not a HAL provider")

	// ErrUnknownHandle is returned for handles that were never imported or
	// have been forgotten.
	ErrUnknownHandle = errors.New("webgpu: unknown handle")

	// ErrUnsupportedFormat is returned for formats with no WebGPU equivalent.
	ErrUnsupportedFormat = errors.New("webgpu: unsupported format")

	// ErrTooLarge is returned when a transfer exceeds the imported buffer.
	ErrTooLarge = errors.New("webgpu: transfer exceeds resource size")

	ErrStagingCreate = errors.New("webgpu: staging buffer creation failed")
	ErrCopy          = errors.New("webgpu: copy submission failed")
	ErrReadback      = errors.New("webgpu: readback failed")
)
