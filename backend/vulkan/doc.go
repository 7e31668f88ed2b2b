// Package vulkan registers a placeholder gd.Device for Vulkan.
//
// No Vulkan transfer path exists. Every data operation reports
// gd.ErrNotAvailable, Sync returns immediately and DevicePtr is nil. The
// backend exists so that hosts can create a Vulkan device through the
// registry and detect the missing capability per call.
package vulkan
