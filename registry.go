package gd

import (
	"fmt"
	"sync"
)

// Factory creates a Device for a native device value. native is whatever
// the host passed to New or CreateDevice; each backend documents the types
// it accepts. A factory must return ErrInvalidParameter when it needs a
// native device and native is nil.
type Factory func(native any, cfg Config) (Device, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[DeviceType]Factory)
)

// Register installs the factory for t. It is typically called from init
// functions in backend packages. A later registration replaces an earlier one.
func Register(t DeviceType, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[t] = f
}

// Unregister removes the factory for t. This is useful for testing.
func Unregister(t DeviceType) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, t)
}

// IsRegistered reports whether a factory is installed for t.
func IsRegistered(t DeviceType) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[t]
	return ok
}

// Registered returns the device types that have a factory.
func Registered() []DeviceType {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]DeviceType, 0, len(factories))
	for t := range DeviceWebGPU + 1 {
		if _, ok := factories[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

// New creates a Device of type t owned by the caller. Hosts that pass the
// adapter explicitly to the subsystems that need it should use New instead
// of the process slot.
func New(t DeviceType, native any, opts ...Option) (Device, error) {
	registryMu.RLock()
	f, ok := factories[t]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no backend registered for %v", ErrNotAvailable, t)
	}
	dev, err := f(native, buildConfig(opts))
	if err != nil {
		return nil, err
	}
	Logger().Info("gd: device created", "type", t)
	return dev, nil
}

// The process-wide slot holding at most one live adapter.
var (
	slotMu sync.Mutex
	slot   Device
)

// CreateDevice creates a Device of type t and stores it in the process
// slot. A live adapter already in the slot is released first. On failure
// the slot is left unchanged and the returned Device is nil.
func CreateDevice(t DeviceType, native any, opts ...Option) (Device, error) {
	dev, err := New(t, native, opts...)
	if err != nil {
		return nil, err
	}

	slotMu.Lock()
	prev := slot
	slot = dev
	slotMu.Unlock()

	if prev != nil {
		Logger().Warn("gd: replacing live device", "old", prev.Type(), "new", t)
		prev.Release()
	}
	return dev, nil
}

// GetDevice returns the adapter in the process slot, or nil.
func GetDevice() Device {
	slotMu.Lock()
	defer slotMu.Unlock()
	return slot
}

// ReleaseDevice releases the adapter in the process slot and clears it.
// It is idempotent.
func ReleaseDevice() {
	slotMu.Lock()
	dev := slot
	slot = nil
	slotMu.Unlock()

	if dev != nil {
		dev.Release()
		Logger().Info("gd: device released", "type", dev.Type())
	}
}
