// Package webgpu implements gd.Device over a gogpu/wgpu HAL device.
//
// HAL resources have no stable native address, so the adapter hands out
// opaque handles instead. A host imports the textures and buffers it wants
// to transfer, then passes the returned handles to the gd.Device methods:
//
//	d, err := gd.New(gd.DeviceWebGPU, provider) // HalDevice() / HalQueue()
//	if err != nil {
//	    return err
//	}
//	a := d.(*webgpu.Adapter)
//	h := a.ImportTexture(tex)
//	defer a.ForgetTexture(h)
//	err = d.ReadTexture(pixels, h, w, h, gd.RGBAu8)
//
// HAL textures are never CPU-mappable. Reads copy into a staging buffer with
// rows aligned to 256 bytes, wait on a fence and read the buffer back.
// Writes go straight through the queue.
package webgpu
