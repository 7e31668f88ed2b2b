package webgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/wgpu/hal"

	"github.com/NuttawutSanuk/gd"
)

// destroyTimeout bounds the wait for outstanding submissions in Destroy.
const destroyTimeout = time.Second

// Device is the set of HAL device and queue operations the adapter uses.
// HALDevice implements it over a real hal.Device; tests substitute their own.
type Device interface {
	CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error)
	DestroyBuffer(buf hal.Buffer)

	// CopyTextureToBuffer records and submits a copy of mip level 0.
	CopyTextureToBuffer(src hal.Texture, dst hal.Buffer, layout hal.ImageDataLayout, size hal.Extent3D) error
	// CopyBufferToBuffer records and submits a copy of size bytes from the
	// start of src to the start of dst.
	CopyBufferToBuffer(src, dst hal.Buffer, size uint64) error

	WriteTexture(dst hal.Texture, data []byte, layout hal.ImageDataLayout, size hal.Extent3D)
	WriteBuffer(dst hal.Buffer, offset uint64, data []byte)
	ReadBuffer(src hal.Buffer, offset uint64, data []byte) error

	// Signal submits a fence signal behind all submitted work and returns
	// the value the fence will reach.
	Signal() (uint64, error)
	// Wait waits up to timeout for the fence to reach value.
	Wait(value uint64, timeout time.Duration) (bool, error)
}

// HALDevice implements Device over a hal.Device and its queue. It owns one
// fence; every submission advances it.
type HALDevice struct {
	device hal.Device
	queue  hal.Queue
	fence  hal.Fence
	value  uint64

	// Command buffers stay alive until the fence passes their submission.
	pending []pendingCmd
}

type pendingCmd struct {
	cmd   hal.CommandBuffer
	value uint64
}

var _ Device = (*HALDevice)(nil)

// NewHALDevice wraps device and queue. Destroy releases the fence.
func NewHALDevice(device hal.Device, queue hal.Queue) (*HALDevice, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	fence, err := device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	return &HALDevice{device: device, queue: queue, fence: fence}, nil
}

func (d *HALDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	return d.device.CreateBuffer(desc)
}

func (d *HALDevice) DestroyBuffer(buf hal.Buffer) {
	d.device.DestroyBuffer(buf)
}

// submit records one command buffer with record and submits it with the
// next fence value.
func (d *HALDevice) submit(label string, record func(hal.CommandEncoder)) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	if record != nil {
		record(encoder)
	}
	cmd, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	value := d.value + 1
	if err := d.queue.Submit([]hal.CommandBuffer{cmd}, d.fence, value); err != nil {
		d.device.FreeCommandBuffer(cmd)
		return fmt.Errorf("submit: %w", err)
	}
	d.value = value
	d.pending = append(d.pending, pendingCmd{cmd, value})
	return nil
}

func (d *HALDevice) CopyTextureToBuffer(src hal.Texture, dst hal.Buffer, layout hal.ImageDataLayout, size hal.Extent3D) error {
	return d.submit("gd_texture_readback", func(enc hal.CommandEncoder) {
		enc.CopyTextureToBuffer(src, dst, []hal.BufferTextureCopy{{
			BufferLayout: layout,
			TextureBase:  hal.ImageCopyTexture{Texture: src, MipLevel: 0},
			Size:         size,
		}})
	})
}

func (d *HALDevice) CopyBufferToBuffer(src, dst hal.Buffer, size uint64) error {
	return d.submit("gd_buffer_readback", func(enc hal.CommandEncoder) {
		enc.CopyBufferToBuffer(src, dst, []hal.BufferCopy{{Size: size}})
	})
}

func (d *HALDevice) WriteTexture(dst hal.Texture, data []byte, layout hal.ImageDataLayout, size hal.Extent3D) {
	d.queue.WriteTexture(&hal.ImageCopyTexture{Texture: dst, MipLevel: 0}, data, &layout, &size)
}

func (d *HALDevice) WriteBuffer(dst hal.Buffer, offset uint64, data []byte) {
	d.queue.WriteBuffer(dst, offset, data)
}

func (d *HALDevice) ReadBuffer(src hal.Buffer, offset uint64, data []byte) error {
	return d.queue.ReadBuffer(src, offset, data)
}

// Signal submits an empty command buffer so that queue writes issued since
// the last submission are covered by the fence.
func (d *HALDevice) Signal() (uint64, error) {
	if err := d.submit("gd_sync", nil); err != nil {
		return 0, err
	}
	return d.value, nil
}

func (d *HALDevice) Wait(value uint64, timeout time.Duration) (bool, error) {
	ok, err := d.device.Wait(d.fence, value, timeout)
	if err != nil || !ok {
		return ok, err
	}
	d.freeThrough(value)
	return true, nil
}

func (d *HALDevice) freeThrough(value uint64) {
	n := 0
	for _, p := range d.pending {
		if p.value > value {
			d.pending[n] = p
			n++
			continue
		}
		d.device.FreeCommandBuffer(p.cmd)
	}
	clear(d.pending[n:])
	d.pending = d.pending[:n]
}

// Destroy waits for outstanding submissions and releases the fence. The HAL
// device and queue are not destroyed.
func (d *HALDevice) Destroy() {
	if d.fence == nil {
		return
	}
	if len(d.pending) > 0 {
		ok, err := d.device.Wait(d.fence, d.value, destroyTimeout)
		if ok {
			d.freeThrough(d.value)
		} else {
			gd.Logger().Warn("webgpu: fence wait timed out on destroy, leaking command buffers",
				"pending", len(d.pending), "value", d.value, "err", err)
		}
	}
	d.device.DestroyFence(d.fence)
	d.fence = nil
}
